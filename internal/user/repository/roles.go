// Package repository provides data persistence implementations for user entities.
package repository

import (
	"encoding/json"
	"errors"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"

	authDomain "github.com/koliving/api/internal/auth/domain"
	apperrors "github.com/koliving/api/internal/errors"
)

const (
	pqUniqueViolation   = "23505"
	mysqlDuplicateEntry = 1062
	userColumns         = "id, name, email, password, roles, created_at, updated_at"
)

// encodeRoles renders roles as the JSON array stored in the roles column.
func encodeRoles(roles []authDomain.Role) (string, error) {
	if roles == nil {
		roles = []authDomain.Role{}
	}
	data, err := json.Marshal(roles)
	if err != nil {
		return "", apperrors.Wrap(err, "failed to encode roles")
	}
	return string(data), nil
}

// decodeRoles parses the roles column. Unknown role names are rejected so a
// corrupted row never yields an unexpected grant.
func decodeRoles(data []byte) ([]authDomain.Role, error) {
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return nil, apperrors.Wrap(err, "failed to decode roles")
	}

	roles := make([]authDomain.Role, 0, len(names))
	for _, name := range names {
		role, ok := authDomain.ParseRole(name)
		if !ok {
			return nil, apperrors.Wrapf(apperrors.ErrInvalidInput, "unknown stored role %q", name)
		}
		roles = append(roles, role)
	}
	return roles, nil
}

func isPostgreSQLUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation
}

func isMySQLUniqueViolation(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry
}
