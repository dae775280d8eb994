package app

import (
	"strings"
	"time"

	"github.com/yungbote/coursework-backend/internal/platform/envutil"
	"github.com/yungbote/coursework-backend/internal/platform/logger"
)

type Config struct {
	Port           string
	Environment    string
	ServiceName    string
	JWTSecretKey   string
	AccessTokenTTL time.Duration
	RequestTimeout time.Duration
	CORSOrigins    []string

	RedisAddr    string
	RedisChannel string

	StreakTimezone   string
	SeedAchievements bool
}

func LoadConfig(log *logger.Logger) Config {
	accessTokenTTLSeconds := envutil.Int("ACCESS_TOKEN_TTL", 3600, log)
	requestTimeoutSeconds := envutil.Int("REQUEST_TIMEOUT_SECONDS", 30, log)
	return Config{
		Port:             envutil.String("PORT", "8080", log),
		Environment:      envutil.String("APP_ENV", "development", log),
		ServiceName:      envutil.String("OTEL_SERVICE_NAME", "coursework", log),
		JWTSecretKey:     envutil.String("JWT_SECRET_KEY", "defaultsecret", log),
		AccessTokenTTL:   time.Duration(accessTokenTTLSeconds) * time.Second,
		RequestTimeout:   time.Duration(requestTimeoutSeconds) * time.Second,
		CORSOrigins:      splitList(envutil.String("CORS_ALLOWED_ORIGINS", "", log)),
		RedisAddr:        envutil.String("REDIS_ADDR", "", log),
		RedisChannel:     envutil.String("REDIS_CHANNEL", "invalidation", log),
		StreakTimezone:   envutil.String("STREAK_TIMEZONE", "UTC", log),
		SeedAchievements: envutil.Bool("SEED_ACHIEVEMENTS", true, log),
	}
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
