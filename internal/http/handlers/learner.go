package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	types "github.com/yungbote/coursework-backend/internal/domain"
	"github.com/yungbote/coursework-backend/internal/http/response"
	"github.com/yungbote/coursework-backend/internal/platform/ctxutil"
	"github.com/yungbote/coursework-backend/internal/platform/logger"
	"github.com/yungbote/coursework-backend/internal/realtime/invalidation"
	"github.com/yungbote/coursework-backend/internal/services"
)

type LearnerHandler struct {
	log          *logger.Logger
	streaks      services.StreakService
	achievements services.AchievementService
	learner      services.LearnerService
	notifier     invalidation.Notifier
}

func NewLearnerHandler(
	log *logger.Logger,
	streaks services.StreakService,
	achievements services.AchievementService,
	learner services.LearnerService,
	notifier invalidation.Notifier,
) *LearnerHandler {
	return &LearnerHandler{
		log:          log.With("handler", "LearnerHandler"),
		streaks:      streaks,
		achievements: achievements,
		learner:      learner,
		notifier:     notifier,
	}
}

type recordSessionRequest struct {
	LessonID  *uuid.UUID `json:"lesson_id,omitempty"`
	StartedAt time.Time  `json:"started_at" validate:"required"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`
	Completed bool       `json:"completed"`
}

func (h *LearnerHandler) userID(c *gin.Context) (uuid.UUID, bool) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", errUnauthenticated)
		return uuid.Nil, false
	}
	return rd.UserID, true
}

// GET /api/me/streak
func (h *LearnerHandler) GetStreak(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	view, err := h.streaks.GetStreak(c.Request.Context(), userID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"streak": view})
}

// GET /api/me/achievements
func (h *LearnerHandler) GetAchievements(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	rows, err := h.achievements.ListUserAchievements(c.Request.Context(), userID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	if rows == nil {
		rows = []*types.UserAchievement{}
	}
	response.RespondOK(c, gin.H{"achievements": rows})
}

// GET /api/me/summary
func (h *LearnerHandler) GetSummary(c *gin.Context) {
	summary, err := h.learner.GetLearnerSummary(c.Request.Context())
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"summary": summary})
}

// POST /api/sessions
func (h *LearnerHandler) RecordSession(c *gin.Context) {
	var req recordSessionRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.learner.RecordSession(c.Request.Context(), services.RecordSessionInput{
		LessonID:  req.LessonID,
		StartedAt: req.StartedAt,
		EndedAt:   req.EndedAt,
		Completed: req.Completed,
	})
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	if req.Completed {
		notify(c.Request.Context(), h.notifier, h.log, invalidation.LearnerPaths()...)
	}
	response.RespondCreated(c, res)
}
