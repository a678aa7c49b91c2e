package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/talkpal-app/conversation-service/internal/models"
	"github.com/talkpal-app/conversation-service/internal/services"
	"github.com/talkpal-app/conversation-service/internal/utils"
)

type ConversationHandler struct {
	BaseHandler
	conversationService services.ConversationService
}

func NewConversationHandler(conversationService services.ConversationService, logger utils.Logger) *ConversationHandler {
	return &ConversationHandler{
		BaseHandler:         NewBaseHandler(logger),
		conversationService: conversationService,
	}
}

// GetScenarios lists the static scenario table.
func (h *ConversationHandler) GetScenarios(c *gin.Context) {
	c.JSON(http.StatusOK, models.Scenarios())
}

// CreateConversation runs one scenario conversation turn.
func (h *ConversationHandler) CreateConversation(c *gin.Context) {
	var req services.ConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Running conversation turn", "scenario", req.Scenario)

	resp, err := h.conversationService.Converse(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ExamConversation runs one speaking-exam turn.
func (h *ConversationHandler) ExamConversation(c *gin.Context) {
	var req services.ExamConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Running exam conversation turn", "part", req.Part)

	resp, err := h.conversationService.ExamConverse(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// EvaluateExam scores a full exam transcript.
func (h *ConversationHandler) EvaluateExam(c *gin.Context) {
	var req services.EvaluationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Evaluating exam transcript", "turns", len(req.ConversationHistory))

	resp, err := h.conversationService.Evaluate(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// SpeechToText is a stub; the transcription provider was removed.
func (h *ConversationHandler) SpeechToText(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"text":       "Speech-to-text feature temporarily disabled. Please type your message.",
		"confidence": 0.0,
		"words":      []string{},
	})
}
