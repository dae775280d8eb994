package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/coursework-backend/internal/http/handlers"
	httpMW "github.com/yungbote/coursework-backend/internal/http/middleware"
	"github.com/yungbote/coursework-backend/internal/observability"
	"github.com/yungbote/coursework-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	Metrics        *observability.Metrics
	ServiceName    string
	CORSOrigins    []string
	RequestTimeout time.Duration

	AuthMiddleware  *httpMW.AuthMiddleware
	HealthHandler   *httpH.HealthHandler
	QuizHandler     *httpH.QuizHandler
	ProgressHandler *httpH.ProgressHandler
	LearnerHandler  *httpH.LearnerHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.CORS(cfg.CORSOrigins...))
	if cfg.Log != nil {
		r.Use(httpMW.RequestLogger(cfg.Log))
	}
	r.Use(httpMW.Metrics(cfg.Metrics))
	if cfg.RequestTimeout > 0 {
		r.Use(httpMW.RequestTimeout(cfg.RequestTimeout))
	}

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
		r.GET("/readyz", cfg.HealthHandler.Ready)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapF(cfg.Metrics.WriteHTTP))
	}

	protected := r.Group("/api")
	if cfg.AuthMiddleware != nil {
		protected.Use(cfg.AuthMiddleware.RequireAuth())
	}

	// Quizzes
	if cfg.QuizHandler != nil {
		protected.POST("/quizzes/:id/start", cfg.QuizHandler.StartAttempt)
		protected.POST("/quizzes/:id/attempts", cfg.QuizHandler.SubmitAttempt)
		protected.GET("/quizzes/:id/attempts", cfg.QuizHandler.ListAttempts)
		protected.POST("/quizzes/:id/publish", cfg.QuizHandler.PublishQuiz)
		protected.GET("/attempts/:id", cfg.QuizHandler.GetAttempt)
	}

	// Progress
	if cfg.ProgressHandler != nil {
		protected.POST("/courses/:id/enroll", cfg.ProgressHandler.Enroll)
		protected.DELETE("/courses/:id/enroll", cfg.ProgressHandler.Unenroll)
		protected.GET("/courses/:id/progress", cfg.ProgressHandler.GetCourseProgress)
		protected.GET("/modules/:id/progress", cfg.ProgressHandler.GetModuleProgress)
		protected.PUT("/lessons/:id/progress", cfg.ProgressHandler.UpdateLessonProgress)
	}

	// Learner
	if cfg.LearnerHandler != nil {
		protected.POST("/sessions", cfg.LearnerHandler.RecordSession)
		protected.GET("/me/streak", cfg.LearnerHandler.GetStreak)
		protected.GET("/me/achievements", cfg.LearnerHandler.GetAchievements)
		protected.GET("/me/summary", cfg.LearnerHandler.GetSummary)
	}

	return r
}
