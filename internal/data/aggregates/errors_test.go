package aggregates

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	domainagg "github.com/yungbote/coursework-backend/internal/domain/aggregates"
	"gorm.io/gorm"
)

func TestMapError_NotFound(t *testing.T) {
	err := MapError("op", gorm.ErrRecordNotFound)
	if !domainagg.IsCode(err, domainagg.CodeNotFound) {
		t.Fatalf("expected not_found code, got %q (%v)", domainagg.CodeOf(err), err)
	}
}

func TestMapError_UniqueViolation(t *testing.T) {
	cases := []error{
		&pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"},
		fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"}),
		errors.New("UNIQUE constraint failed: user_achievement.user_id, user_achievement.achievement_id"),
		gorm.ErrDuplicatedKey,
	}
	for _, in := range cases {
		if err := MapError("op", in); !domainagg.IsCode(err, domainagg.CodeConflict) {
			t.Fatalf("expected conflict for %v, got %q", in, domainagg.CodeOf(err))
		}
	}
}

func TestMapError_OtherStoreFailure(t *testing.T) {
	err := MapError("op", &pgconn.PgError{Code: "23503"})
	if !domainagg.IsCode(err, domainagg.CodePersistence) {
		t.Fatalf("expected persistence code, got %q (%v)", domainagg.CodeOf(err), err)
	}
}

func TestMapError_PassthroughAggregateError(t *testing.T) {
	in := domainagg.NewError(domainagg.CodeState, "op", "unpublished", errors.New("boom"))
	out := MapError("other", in)
	if out != in {
		t.Fatalf("expected passthrough aggregate error")
	}
	if MapError("op", nil) != nil {
		t.Fatalf("nil must map to nil")
	}
}
