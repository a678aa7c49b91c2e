package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/talkpal-app/conversation-service/internal/config"
	"github.com/talkpal-app/conversation-service/internal/services"
	"github.com/talkpal-app/conversation-service/internal/utils"
)

type HandlerManager struct {
	conversationHandler *ConversationHandler
	progressHandler     *ProgressHandler
	uploadHandler       *UploadHandler
	uploadsDir          string
}

func NewHandlerManager(serviceManager services.ServiceManager, logger utils.Logger, cfg *config.Config) *HandlerManager {
	return &HandlerManager{
		conversationHandler: NewConversationHandler(serviceManager.Conversation(), logger),
		progressHandler:     NewProgressHandler(serviceManager.Progress(), logger),
		uploadHandler:       NewUploadHandler(cfg.UploadsDir, cfg.PublicBaseURL, logger),
		uploadsDir:          cfg.UploadsDir,
	}
}

// SetupRoutes sets up all API routes. Paths match the original mobile
// client, so there is no version prefix.
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Language Learning API is running",
			"version": "2.1.0 - Leaderboard Edition",
			"endpoints": []string{
				"/scenarios", "/conversation", "/speech-to-text",
				"/user/progress/{user_id}", "/leaderboard",
			},
		})
	})

	router.GET("/scenarios", hm.conversationHandler.GetScenarios)
	router.POST("/conversation", hm.conversationHandler.CreateConversation)
	router.POST("/speech-to-text", hm.conversationHandler.SpeechToText)

	router.GET("/user/progress/:user_id", hm.progressHandler.GetProgress)
	router.POST("/user/progress/:user_id", hm.progressHandler.UpdateProgress)
	router.GET("/leaderboard", hm.progressHandler.GetLeaderboard)

	ielts := router.Group("/ielts")
	{
		ielts.POST("/conversation", hm.conversationHandler.ExamConversation)
		ielts.POST("/evaluate", hm.conversationHandler.EvaluateExam)
	}

	router.POST("/upload/avatar", hm.uploadHandler.UploadAvatar)
	router.Static("/uploads", hm.uploadsDir)

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "conversation-service",
		})
	})
}
