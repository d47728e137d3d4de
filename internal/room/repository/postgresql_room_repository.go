// Package repository provides data persistence implementations for rooms.
package repository

import (
	"context"
	"database/sql"
	"strconv"
	"strings"

	"github.com/koliving/api/internal/database"
	"github.com/koliving/api/internal/room/domain"

	apperrors "github.com/koliving/api/internal/errors"
)

const roomColumns = "id, title, location, monthly_rent, deposit, available_from, created_at"

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds a case-insensitive LIKE pattern that matches term
// literally anywhere in the column. Pair it with ESCAPE '\'.
func containsPattern(term string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(term)) + "%"
}

// PostgreSQLRoomRepository handles room persistence for PostgreSQL.
type PostgreSQLRoomRepository struct {
	db *sql.DB
}

// NewPostgreSQLRoomRepository creates a new PostgreSQLRoomRepository.
func NewPostgreSQLRoomRepository(db *sql.DB) *PostgreSQLRoomRepository {
	return &PostgreSQLRoomRepository{db: db}
}

// Create inserts a new room.
func (r *PostgreSQLRoomRepository) Create(ctx context.Context, room *domain.Room) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO rooms (` + roomColumns + `)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := querier.ExecContext(ctx, query,
		room.ID, room.Title, room.Location, room.MonthlyRent, room.Deposit, room.AvailableFrom, room.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create room")
	}
	return nil
}

// Search returns rooms matching criteria, cheapest first.
func (r *PostgreSQLRoomRepository) Search(ctx context.Context, criteria domain.SearchCriteria) ([]*domain.Room, error) {
	querier := database.GetTx(ctx, r.db)

	var conditions []string
	var args []any
	if criteria.Location != "" {
		args = append(args, containsPattern(criteria.Location))
		conditions = append(conditions, "LOWER(location) LIKE $"+strconv.Itoa(len(args))+` ESCAPE '\'`)
	}
	if criteria.MaxRent > 0 {
		args = append(args, criteria.MaxRent)
		conditions = append(conditions, "monthly_rent <= $"+strconv.Itoa(len(args)))
	}

	query := `SELECT ` + roomColumns + ` FROM rooms`
	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, " AND ")
	}
	args = append(args, criteria.Limit, criteria.Offset)
	query += ` ORDER BY monthly_rent, id LIMIT $` + strconv.Itoa(len(args)-1) + ` OFFSET $` + strconv.Itoa(len(args))

	rows, err := querier.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to search rooms")
	}
	defer func() { _ = rows.Close() }()

	rooms := make([]*domain.Room, 0)
	for rows.Next() {
		var room domain.Room
		if err := rows.Scan(
			&room.ID, &room.Title, &room.Location, &room.MonthlyRent,
			&room.Deposit, &room.AvailableFrom, &room.CreatedAt,
		); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan room")
		}
		rooms = append(rooms, &room)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate rooms")
	}

	return rooms, nil
}
