package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/koliving/api/internal/database"
	"github.com/koliving/api/internal/room/domain"

	apperrors "github.com/koliving/api/internal/errors"
)

// MySQLRoomRepository handles room persistence for MySQL. IDs are stored as BINARY(16).
type MySQLRoomRepository struct {
	db *sql.DB
}

// NewMySQLRoomRepository creates a new MySQLRoomRepository.
func NewMySQLRoomRepository(db *sql.DB) *MySQLRoomRepository {
	return &MySQLRoomRepository{db: db}
}

// Create inserts a new room.
func (r *MySQLRoomRepository) Create(ctx context.Context, room *domain.Room) error {
	querier := database.GetTx(ctx, r.db)

	uuidBytes, err := room.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal UUID")
	}

	query := `INSERT INTO rooms (` + roomColumns + `)
			  VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(ctx, query,
		uuidBytes, room.Title, room.Location, room.MonthlyRent, room.Deposit, room.AvailableFrom, room.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create room")
	}
	return nil
}

// Search returns rooms matching criteria, cheapest first.
func (r *MySQLRoomRepository) Search(ctx context.Context, criteria domain.SearchCriteria) ([]*domain.Room, error) {
	querier := database.GetTx(ctx, r.db)

	var conditions []string
	var args []any
	if criteria.Location != "" {
		// backslash is itself escaped inside MySQL string literals
		conditions = append(conditions, `LOWER(location) LIKE ? ESCAPE '\\'`)
		args = append(args, containsPattern(criteria.Location))
	}
	if criteria.MaxRent > 0 {
		conditions = append(conditions, "monthly_rent <= ?")
		args = append(args, criteria.MaxRent)
	}

	query := `SELECT ` + roomColumns + ` FROM rooms`
	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, " AND ")
	}
	query += ` ORDER BY monthly_rent, id LIMIT ? OFFSET ?`
	args = append(args, criteria.Limit, criteria.Offset)

	rows, err := querier.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to search rooms")
	}
	defer func() { _ = rows.Close() }()

	rooms := make([]*domain.Room, 0)
	for rows.Next() {
		var room domain.Room
		var idBytes []byte
		if err := rows.Scan(
			&idBytes, &room.Title, &room.Location, &room.MonthlyRent,
			&room.Deposit, &room.AvailableFrom, &room.CreatedAt,
		); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan room")
		}
		if err := room.ID.UnmarshalBinary(idBytes); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal UUID")
		}
		rooms = append(rooms, &room)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate rooms")
	}

	return rooms, nil
}
