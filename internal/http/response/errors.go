package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	domainagg "github.com/yungbote/coursework-backend/internal/domain/aggregates"
)

const genericFailure = "something went wrong, please try again"

// StatusFor maps an engine error code to its HTTP status.
func StatusFor(code domainagg.ErrorCode) int {
	switch code {
	case domainagg.CodeValidation:
		return http.StatusBadRequest
	case domainagg.CodeUnauthorized:
		return http.StatusForbidden
	case domainagg.CodeNotFound:
		return http.StatusNotFound
	case domainagg.CodeState, domainagg.CodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// RespondServiceError renders an engine error. Store and internal failures get
// a generic retry message; everything else carries its own message.
func RespondServiceError(c *gin.Context, err error) {
	code := domainagg.CodeOf(err)
	if code == "" {
		code = domainagg.CodeInternal
	}
	status := StatusFor(code)
	if code == domainagg.CodeUnauthorized && domainagg.MessageOf(err) == "authentication required" {
		status = http.StatusUnauthorized
	}
	msg := domainagg.MessageOf(err)
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
		msg = genericFailure
	}
	c.JSON(status, ErrorEnvelope{Error: APIError{Message: msg, Code: string(code)}})
}

// RespondValidation renders request schema failures with one entry per field.
func RespondValidation(c *gin.Context, err error) {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		RespondError(c, http.StatusBadRequest, string(domainagg.CodeValidation), err)
		return
	}
	fields := make(map[string]string, len(ve))
	for _, fe := range ve {
		fields[fe.Field()] = fe.Tag()
	}
	c.JSON(http.StatusBadRequest, ErrorEnvelope{Error: APIError{
		Message: "invalid request",
		Code:    string(domainagg.CodeValidation),
		Fields:  fields,
	}})
}
