package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/coursework-backend/internal/http/response"
	"github.com/yungbote/coursework-backend/internal/platform/ctxutil"
	"github.com/yungbote/coursework-backend/internal/platform/logger"
	"github.com/yungbote/coursework-backend/internal/realtime/invalidation"
	"github.com/yungbote/coursework-backend/internal/services"
)

type ProgressHandler struct {
	log      *logger.Logger
	progress services.ProgressService
	notifier invalidation.Notifier
}

func NewProgressHandler(log *logger.Logger, progress services.ProgressService, notifier invalidation.Notifier) *ProgressHandler {
	return &ProgressHandler{log: log.With("handler", "ProgressHandler"), progress: progress, notifier: notifier}
}

type lessonProgressRequest struct {
	Completed        *bool `json:"completed" validate:"required"`
	TimeSpentSeconds int   `json:"time_spent_seconds" validate:"gte=0,lte=86400"`
}

// POST /api/courses/:id/enroll
func (h *ProgressHandler) Enroll(c *gin.Context) {
	courseID, ok := paramUUID(c, "id", "invalid_course_id")
	if !ok {
		return
	}
	enrollment, err := h.progress.Enroll(c.Request.Context(), courseID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	notify(c.Request.Context(), h.notifier, h.log, invalidation.CoursePaths(courseID)...)
	response.RespondCreated(c, gin.H{"enrollment": enrollment})
}

// DELETE /api/courses/:id/enroll
func (h *ProgressHandler) Unenroll(c *gin.Context) {
	courseID, ok := paramUUID(c, "id", "invalid_course_id")
	if !ok {
		return
	}
	res, err := h.progress.Unenroll(c.Request.Context(), courseID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	notify(c.Request.Context(), h.notifier, h.log, invalidation.CoursePaths(courseID)...)
	response.RespondOK(c, gin.H{
		"course_id":           res.CourseID,
		"removed_lesson_rows": res.RemovedLessonRows,
	})
}

// GET /api/courses/:id/progress
func (h *ProgressHandler) GetCourseProgress(c *gin.Context) {
	courseID, ok := paramUUID(c, "id", "invalid_course_id")
	if !ok {
		return
	}
	out, err := h.progress.GetCourseProgress(c.Request.Context(), courseID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"progress": out})
}

// GET /api/modules/:id/progress
func (h *ProgressHandler) GetModuleProgress(c *gin.Context) {
	moduleID, ok := paramUUID(c, "id", "invalid_module_id")
	if !ok {
		return
	}
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", errUnauthenticated)
		return
	}
	out, err := h.progress.CalculateModuleProgress(c.Request.Context(), rd.UserID, moduleID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"progress": out})
}

// PUT /api/lessons/:id/progress
func (h *ProgressHandler) UpdateLessonProgress(c *gin.Context) {
	lessonID, ok := paramUUID(c, "id", "invalid_lesson_id")
	if !ok {
		return
	}
	var req lessonProgressRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.progress.ToggleLessonCompletion(c.Request.Context(), lessonID, *req.Completed, req.TimeSpentSeconds)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	paths := append(invalidation.CoursePaths(res.CourseID), invalidation.ModulePaths(res.ModuleID)...)
	if *req.Completed {
		paths = append(paths, invalidation.LearnerPaths()...)
	}
	notify(c.Request.Context(), h.notifier, h.log, paths...)
	response.RespondOK(c, gin.H{"result": res})
}
