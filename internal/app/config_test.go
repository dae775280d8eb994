package app

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	repotest "github.com/yungbote/coursework-backend/internal/data/repos/testutil"
	"github.com/yungbote/coursework-backend/internal/platform/logger"
	"github.com/yungbote/coursework-backend/internal/realtime/invalidation"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "STREAK_TIMEZONE", "SEED_ACHIEVEMENTS", "REDIS_CHANNEL", "CORS_ALLOWED_ORIGINS"} {
		t.Setenv(key, "")
	}
	cfg := LoadConfig(logger.NewNop())
	if cfg.Port != "8080" || cfg.StreakTimezone != "UTC" || !cfg.SeedAchievements || cfg.RedisChannel != "invalidation" {
		t.Fatalf("defaults: got=%+v", cfg)
	}
	if len(cfg.CORSOrigins) != 0 {
		t.Fatalf("cors origins: want none got=%v", cfg.CORSOrigins)
	}
}

func TestCORSAllowedOriginsReachRouter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://learn.example.com ,https://admin.example.com,")
	cfg := LoadConfig(logger.NewNop())
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[0] != "https://learn.example.com" || cfg.CORSOrigins[1] != "https://admin.example.com" {
		t.Fatalf("cors origins: got=%q", cfg.CORSOrigins)
	}

	a, err := assemble(repotest.DB(t), repotest.Logger(t), cfg, &invalidation.Recorder{}, nil)
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	for origin, want := range map[string]int{
		"https://learn.example.com": http.StatusNoContent,
		"http://localhost:5173":     http.StatusForbidden,
	} {
		req := httptest.NewRequest(http.MethodOptions, "/api/sessions", nil)
		req.Header.Set("Origin", origin)
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		rec := httptest.NewRecorder()
		a.Server.Engine.ServeHTTP(rec, req)
		if rec.Code != want {
			t.Fatalf("preflight from %s: want=%d got=%d", origin, want, rec.Code)
		}
	}
}
