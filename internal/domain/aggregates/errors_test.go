package aggregates

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorFormatting(t *testing.T) {
	err := StateError("attempt.submit", "attempt limit exceeded")
	if got := err.Error(); got != "attempt.submit: attempt limit exceeded (state)" {
		t.Fatalf("Error(): got %q", got)
	}
	if MessageOf(err) != "attempt limit exceeded" {
		t.Fatalf("MessageOf: got %q", MessageOf(err))
	}
}

func TestIsCodeThroughWrapping(t *testing.T) {
	base := NotFoundError("quiz.get", "quiz not found")
	wrapped := fmt.Errorf("handler: %w", base)
	if !IsCode(wrapped, CodeNotFound) {
		t.Fatalf("expected not_found through fmt wrapping")
	}
	if CodeOf(wrapped) != CodeNotFound {
		t.Fatalf("CodeOf: got %q", CodeOf(wrapped))
	}
	if IsCode(errors.New("plain"), CodeNotFound) {
		t.Fatalf("plain error must not carry a code")
	}
}

func TestPersistenceErrorKeepsExistingCode(t *testing.T) {
	state := StateError("op", "unpublished")
	if got := PersistenceError("outer", state); got != state {
		t.Fatalf("expected coded error to pass through, got %v", got)
	}
	cause := errors.New("connection reset")
	pe := PersistenceError("outer", cause)
	if !IsCode(pe, CodePersistence) || !errors.Is(pe, cause) {
		t.Fatalf("expected persistence code wrapping cause, got %v", pe)
	}
	if PersistenceError("outer", nil) != nil {
		t.Fatalf("nil cause must stay nil")
	}
}
