package services

import (
	"context"

	"github.com/talkpal-app/conversation-service/internal/models"
)

// ===== CONVERSATION DTOs =====

type ConversationRequest struct {
	Scenario            string               `json:"scenario" validate:"required"`
	UserMessage         string               `json:"user_message" validate:"required"`
	ConversationHistory []models.ChatMessage `json:"conversation_history"`
	UserLevel           string               `json:"user_level"`
}

type ConversationResponse struct {
	AIMessage             string   `json:"ai_message"`
	Feedback              *string  `json:"feedback"`
	GrammarCorrections    []string `json:"grammar_corrections"`
	VocabularySuggestions []string `json:"vocabulary_suggestions"`
}

type ExamConversationRequest struct {
	// Part is clamped into [1,3] rather than rejected.
	Part                int                  `json:"part"`
	UserMessage         string               `json:"user_message" validate:"required"`
	ConversationHistory []models.ChatMessage `json:"conversation_history"`
	TopicCard           string               `json:"topic_card"`
}

type EvaluationRequest struct {
	ConversationHistory []models.ChatMessage `json:"conversation_history"`
}

type EvaluationResponse struct {
	BandScore       float64  `json:"band_score"`
	Feedback        string   `json:"feedback"`
	FluencyScore    *float64 `json:"fluency_score,omitempty"`
	VocabularyScore *float64 `json:"vocabulary_score,omitempty"`
	GrammarScore    *float64 `json:"grammar_score,omitempty"`
	CoherenceScore  *float64 `json:"coherence_score,omitempty"`
}

// ===== PROGRESS DTOs =====

// ProgressUpdateRequest carries a partial update; nil/empty fields are
// left untouched.
type ProgressUpdateRequest struct {
	TotalConversations *int   `json:"total_conversations" validate:"omitempty,min=0"`
	TotalTimeMinutes   *int   `json:"total_time_minutes" validate:"omitempty,min=0"`
	CompletedScenario  string `json:"completed_scenario"`
	AddedXP            *int   `json:"added_xp"`
	DisplayName        string `json:"display_name"`
}

type LeaderboardEntry struct {
	Rank        int    `json:"rank"`
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
	WeeklyXP    int    `json:"weekly_xp"`
	AvatarURL   string `json:"avatar_url,omitempty"`
}

// ===== SERVICE INTERFACES =====

type ConversationService interface {
	// Converse runs one scenario turn. Model failures are absorbed
	// into a canned reply; only an unknown scenario is an error.
	Converse(ctx context.Context, req *ConversationRequest) (*ConversationResponse, error)

	// ExamConverse runs one speaking-exam turn for the given part.
	ExamConverse(ctx context.Context, req *ExamConversationRequest) (*ConversationResponse, error)

	// Evaluate scores a full exam transcript, falling back to a
	// length-based heuristic when the model is unavailable.
	Evaluate(ctx context.Context, req *EvaluationRequest) (*EvaluationResponse, error)
}

type ProgressService interface {
	GetOrCreate(ctx context.Context, userID string) (*models.UserRecord, error)
	ApplyUpdate(ctx context.Context, userID string, update *ProgressUpdateRequest) ([]string, error)
	Leaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error)
}

// ServiceManager bundles service instances for handler wiring.
type ServiceManager interface {
	Conversation() ConversationService
	Progress() ProgressService
}
