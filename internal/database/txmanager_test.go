package database

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithTx_Commit(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectBegin()
	mock.ExpectCommit()

	err = NewTxManager(db).WithTx(context.Background(), func(ctx context.Context) error {
		assert.IsType(t, &sql.Tx{}, GetTx(ctx, db))
		return nil
	})

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTx_RollbackOnError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectBegin()
	mock.ExpectRollback()

	err = NewTxManager(db).WithTx(context.Background(), func(ctx context.Context) error {
		return assert.AnError
	})

	assert.ErrorIs(t, err, assert.AnError)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTx_RollbackFailureIsJoined(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	rbErr := errors.New("rollback failed")
	mock.ExpectBegin()
	mock.ExpectRollback().WillReturnError(rbErr)

	err = NewTxManager(db).WithTx(context.Background(), func(ctx context.Context) error {
		return assert.AnError
	})

	assert.ErrorIs(t, err, assert.AnError)
	assert.ErrorIs(t, err, rbErr)
}

func TestWithTx_BeginError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectBegin().WillReturnError(assert.AnError)

	called := false
	err = NewTxManager(db).WithTx(context.Background(), func(ctx context.Context) error {
		called = true
		return nil
	})

	assert.ErrorIs(t, err, assert.AnError)
	assert.False(t, called)
}

func TestWithTx_NestedReusesTransaction(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectBegin()
	mock.ExpectCommit()

	txManager := NewTxManager(db)
	err = txManager.WithTx(context.Background(), func(ctx context.Context) error {
		outer := GetTx(ctx, db)
		return txManager.WithTx(ctx, func(ctx context.Context) error {
			assert.Same(t, outer, GetTx(ctx, db))
			return nil
		})
	})

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetTx_WithoutTransaction(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	assert.Same(t, db, GetTx(context.Background(), db))
}
