package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/yungbote/coursework-backend/internal/http/response"
	"github.com/yungbote/coursework-backend/internal/platform/logger"
	"github.com/yungbote/coursework-backend/internal/realtime/invalidation"
)

var validate = validator.New()

var errUnauthenticated = errors.New("authentication required")

const maxBodyBytes = 1 << 16

// bindJSON decodes and validates the request body. An empty body decodes to
// the zero value and is then validated like any other.
func bindJSON(c *gin.Context, dst interface{}) bool {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)
	if err := c.ShouldBindJSON(dst); err != nil && !errors.Is(err, io.EOF) {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return false
	}
	if err := validate.Struct(dst); err != nil {
		response.RespondValidation(c, err)
		return false
	}
	return true
}

func paramUUID(c *gin.Context, name, code string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil || id == uuid.Nil {
		response.RespondError(c, http.StatusBadRequest, code, err)
		return uuid.Nil, false
	}
	return id, true
}

// notify publishes invalidations after a successful write. Failures only log.
func notify(ctx context.Context, n invalidation.Notifier, log *logger.Logger, paths ...string) {
	if n == nil {
		return
	}
	if err := n.Notify(ctx, paths...); err != nil && log != nil {
		log.Warn("invalidation notify failed", "error", err, "paths", paths)
	}
}
