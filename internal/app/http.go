package app

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yungbote/coursework-backend/internal/http"
	httpH "github.com/yungbote/coursework-backend/internal/http/handlers"
	httpMW "github.com/yungbote/coursework-backend/internal/http/middleware"
	"github.com/yungbote/coursework-backend/internal/observability"
	"github.com/yungbote/coursework-backend/internal/platform/logger"
	"github.com/yungbote/coursework-backend/internal/realtime/invalidation"
)

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

type Handlers struct {
	Health   *httpH.HealthHandler
	Quiz     *httpH.QuizHandler
	Progress *httpH.ProgressHandler
	Learner  *httpH.LearnerHandler
}

func wireHandlers(db *gorm.DB, log *logger.Logger, s Services, notifier invalidation.Notifier) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:   httpH.NewHealthHandler(db),
		Quiz:     httpH.NewQuizHandler(log, s.Attempts, notifier),
		Progress: httpH.NewProgressHandler(log, s.Progress, notifier),
		Learner:  httpH.NewLearnerHandler(log, s.Streaks, s.Achievements, s.Learner, notifier),
	}
}

func wireMiddleware(log *logger.Logger, s Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log, s.Auth),
	}
}

func wireRouter(log *logger.Logger, cfg Config, metrics *observability.Metrics, h Handlers, mw Middleware) *gin.Engine {
	return http.NewRouter(http.RouterConfig{
		Log:             log,
		Metrics:         metrics,
		ServiceName:     cfg.ServiceName,
		CORSOrigins:     cfg.CORSOrigins,
		RequestTimeout:  cfg.RequestTimeout,
		AuthMiddleware:  mw.Auth,
		HealthHandler:   h.Health,
		QuizHandler:     h.Quiz,
		ProgressHandler: h.Progress,
		LearnerHandler:  h.Learner,
	})
}
