package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/talkpal-app/conversation-service/internal/services"
	"github.com/talkpal-app/conversation-service/internal/utils"
)

type ProgressHandler struct {
	BaseHandler
	progressService services.ProgressService
}

func NewProgressHandler(progressService services.ProgressService, logger utils.Logger) *ProgressHandler {
	return &ProgressHandler{
		BaseHandler:     NewBaseHandler(logger),
		progressService: progressService,
	}
}

// GetProgress returns a user's progress record, creating the default
// record on first access.
func (h *ProgressHandler) GetProgress(c *gin.Context) {
	userID := c.Param("user_id")
	h.LogRequest(c, "Getting user progress", "user_id", userID)

	record, err := h.progressService.GetOrCreate(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

// UpdateProgress applies a partial progress update.
func (h *ProgressHandler) UpdateProgress(c *gin.Context) {
	userID := c.Param("user_id")

	var req services.ProgressUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Updating user progress", "user_id", userID)

	updated, err := h.progressService.ApplyUpdate(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":         "success",
		"updated_fields": updated,
	})
}

// GetLeaderboard returns the weekly XP ranking, at most 50 entries.
func (h *ProgressHandler) GetLeaderboard(c *gin.Context) {
	h.LogRequest(c, "Getting leaderboard")

	entries, err := h.progressService.Leaderboard(c.Request.Context(), services.DefaultLeaderboardLimit)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}
