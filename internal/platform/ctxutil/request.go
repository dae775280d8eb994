package ctxutil

import (
	"context"

	"github.com/google/uuid"
)

type requestDataKey struct{}

// Roles recognised by the identity provider.
const (
	RoleStudent    = "student"
	RoleInstructor = "instructor"
	RoleAdmin      = "admin"
)

// RequestData is the authenticated caller attached by the auth middleware.
type RequestData struct {
	UserID uuid.UUID
	Role   string
}

func (rd *RequestData) HasRole(roles ...string) bool {
	if rd == nil {
		return false
	}
	for _, r := range roles {
		if rd.Role == r {
			return true
		}
	}
	return false
}

func WithRequestData(ctx context.Context, rd *RequestData) context.Context {
	return context.WithValue(ctx, requestDataKey{}, rd)
}

func GetRequestData(ctx context.Context) *RequestData {
	if ctx == nil {
		return nil
	}
	if rd, ok := ctx.Value(requestDataKey{}).(*RequestData); ok {
		return rd
	}
	return nil
}

// Default returns context.Background() when ctx is nil.
func Default(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
