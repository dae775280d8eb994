package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/yungbote/coursework-backend/internal/platform/ctxutil"
	"github.com/yungbote/coursework-backend/internal/platform/logger"
)

// AuthService is the identity provider: it verifies bearer tokens and attaches
// the caller to the request context. Tokens are minted by an upstream issuer;
// IssueToken exists for operators and tests.
type AuthService interface {
	IssueToken(userID uuid.UUID, role string) (string, error)
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
	GetAccessTTL() time.Duration
}

type authService struct {
	log          *logger.Logger
	jwtSecretKey string
	accessTTL    time.Duration
	now          func() time.Time
}

func NewAuthService(log *logger.Logger, jwtSecretKey string, accessTTL time.Duration) AuthService {
	serviceLog := log.With("service", "AuthService")
	if accessTTL <= 0 {
		accessTTL = time.Hour
	}
	return &authService{
		log:          serviceLog,
		jwtSecretKey: jwtSecretKey,
		accessTTL:    accessTTL,
		now:          time.Now,
	}
}

type accessClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

func (as *authService) GetAccessTTL() time.Duration { return as.accessTTL }

func (as *authService) IssueToken(userID uuid.UUID, role string) (string, error) {
	if userID == uuid.Nil {
		return "", fmt.Errorf("issue token: missing user id")
	}
	role = normalizeRole(role)
	now := as.now()
	claims := accessClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(as.accessTTL)),
			ID:        uuid.NewString(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(as.jwtSecretKey))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	claims := &accessClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(as.jwtSecretKey), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(as.now),
	)
	if err != nil {
		return ctx, fmt.Errorf("invalid token: %w", err)
	}
	if !token.Valid {
		return ctx, fmt.Errorf("invalid token")
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil || userID == uuid.Nil {
		return ctx, fmt.Errorf("invalid token subject")
	}
	return ctxutil.WithRequestData(ctx, &ctxutil.RequestData{
		UserID: userID,
		Role:   normalizeRole(claims.Role),
	}), nil
}

func normalizeRole(role string) string {
	switch strings.ToLower(strings.TrimSpace(role)) {
	case ctxutil.RoleInstructor:
		return ctxutil.RoleInstructor
	case ctxutil.RoleAdmin:
		return ctxutil.RoleAdmin
	default:
		return ctxutil.RoleStudent
	}
}
