package aggregates

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	domainagg "github.com/yungbote/coursework-backend/internal/domain/aggregates"
	"gorm.io/gorm"
)

// MapError maps record-store failures into engine error codes. Errors that
// already carry a code pass through untouched; anything unrecognised is a
// persistence failure.
func MapError(op string, err error) error {
	if err == nil {
		return nil
	}
	var coded *domainagg.Error
	if errors.As(err, &coded) {
		return err
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domainagg.Wrap(domainagg.CodeNotFound, op, err)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return domainagg.Wrap(domainagg.CodeConflict, op, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch strings.TrimSpace(pgErr.Code) {
		case "23505":
			return domainagg.Wrap(domainagg.CodeConflict, op, err) // unique_violation
		}
	}

	msg := strings.ToLower(strings.TrimSpace(err.Error()))
	switch {
	case strings.Contains(msg, "duplicate key"),
		strings.Contains(msg, "unique constraint failed"):
		return domainagg.Wrap(domainagg.CodeConflict, op, err)
	default:
		return domainagg.PersistenceError(op, err)
	}
}
