package services

import (
	"log/slog"

	"github.com/talkpal-app/conversation-service/internal/ai"
	"github.com/talkpal-app/conversation-service/internal/repositories"
	"github.com/talkpal-app/conversation-service/internal/validator"
)

type serviceManager struct {
	conversationService ConversationService
	progressService     ProgressService
}

// NewServiceManager wires all services over the shared store, model
// client, logger and validator.
func NewServiceManager(store repositories.DocumentStore, chat ai.ChatClient, logger *slog.Logger, v *validator.Validator) ServiceManager {
	return &serviceManager{
		conversationService: NewConversationService(chat, logger, v),
		progressService:     NewProgressService(store, logger, v),
	}
}

func (m *serviceManager) Conversation() ConversationService {
	return m.conversationService
}

func (m *serviceManager) Progress() ProgressService {
	return m.progressService
}
