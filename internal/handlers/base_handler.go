package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/talkpal-app/conversation-service/internal/services"
	"github.com/talkpal-app/conversation-service/internal/utils"
)

// ErrorResponse is the shared error payload shape.
type ErrorResponse struct {
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// BaseHandler carries the logger and shared helpers embedded by every
// handler.
type BaseHandler struct {
	logger utils.Logger
}

func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

// LogRequest logs a request-scoped info line.
func (h BaseHandler) LogRequest(c *gin.Context, msg string, args ...any) {
	utils.LoggerFromContext(c, h.logger).Info(msg, args...)
}

// LogError logs a request-scoped error line.
func (h BaseHandler) LogError(c *gin.Context, err error, msg string, args ...any) {
	utils.LoggerFromContext(c, h.logger).Error(msg, append(args, "error", err)...)
}

// handleServiceError maps service sentinel errors to HTTP responses.
func (h BaseHandler) handleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrScenarioNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "Scenario not found",
		})
	case errors.Is(err, services.ErrValidationFailed):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: err.Error(),
		})
	default:
		h.LogError(c, err, "Unexpected service error")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Internal server error",
		})
	}
}
