package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/talkpal-app/conversation-service/internal/ai"
	"github.com/talkpal-app/conversation-service/internal/models"
	"github.com/talkpal-app/conversation-service/internal/validator"
)

// Canned replies used when the model call fails. The endpoint still
// returns 200 with these; failures are never surfaced to the client.
const (
	scenarioFallbackMessage = "Hello! I'm here to help you practice English. Could you please try again?"

	evaluationFallbackFeedback = "Sınav performansınız değerlendirildi. Daha uzun ve detaylı cevaplar vererek puanınızı artırabilirsiniz."
	evaluationDefaultFeedback  = "Değerlendirme tamamlandı."
	evaluationDefaultBand      = 5.0
)

type conversationService struct {
	chat      ai.ChatClient
	logger    *slog.Logger
	validator *validator.Validator
}

func NewConversationService(chat ai.ChatClient, logger *slog.Logger, v *validator.Validator) ConversationService {
	return &conversationService{
		chat:      chat,
		logger:    logger,
		validator: v,
	}
}

func (s *conversationService) Converse(ctx context.Context, req *ConversationRequest) (*ConversationResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidationFailed, err.Error())
	}

	scenario, ok := models.ScenarioByID(req.Scenario)
	if !ok {
		return nil, ErrScenarioNotFound
	}

	level := req.UserLevel
	if level == "" {
		level = models.LevelBeginner
	}

	transcript := renderTranscript(req.ConversationHistory, "Assistant", "User", historyWindow)
	prompt := scenarioPrompt(scenario, level, transcript, req.UserMessage)

	raw, err := s.chat.Complete(ctx, prompt)
	if err != nil {
		s.logger.Warn("model call failed, using fallback reply",
			"scenario", scenario.ID, "error", err)
		raw = scenarioFallbackMessage
	}

	return s.shapeReply(raw, "conversation"), nil
}

func (s *conversationService) ExamConverse(ctx context.Context, req *ExamConversationRequest) (*ConversationResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidationFailed, err.Error())
	}

	part := models.ExamPartByNumber(req.Part)
	systemPrompt := part.Prompt
	if part.Part == 2 && req.TopicCard != "" {
		systemPrompt = strings.ReplaceAll(systemPrompt, "{topic_card}", req.TopicCard)
	}

	transcript := renderTranscript(req.ConversationHistory, "Examiner", "Candidate", historyWindow)
	prompt := examPrompt(systemPrompt, transcript, req.UserMessage)

	raw, err := s.chat.Complete(ctx, prompt)
	if err != nil {
		s.logger.Warn("model call failed, using examiner fallback",
			"part", part.Part, "error", err)
		raw = part.Fallback
	}

	return s.shapeReply(raw, "ielts/conversation"), nil
}

// shapeReply runs the extractor and logs (but never propagates) parse
// failures.
func (s *conversationService) shapeReply(raw, endpoint string) *ConversationResponse {
	extracted, err := ExtractFeedback(raw)
	if err != nil {
		s.logger.Warn("failed to parse feedback block",
			"endpoint", endpoint, "error", err, "snippet", snippet(raw))
	}
	return extracted.toConversationResponse()
}

type evaluationPayload struct {
	BandScore       *float64 `json:"band_score"`
	FluencyScore    *float64 `json:"fluency_score"`
	VocabularyScore *float64 `json:"vocabulary_score"`
	GrammarScore    *float64 `json:"grammar_score"`
	CoherenceScore  *float64 `json:"coherence_score"`
	Feedback        string   `json:"feedback"`
}

func (s *conversationService) Evaluate(ctx context.Context, req *EvaluationRequest) (*EvaluationResponse, error) {
	transcript := renderTranscript(req.ConversationHistory, "Examiner", "Candidate", 0)

	var candidateTurns []string
	for _, msg := range req.ConversationHistory {
		if msg.Role != models.RoleAssistant {
			candidateTurns = append(candidateTurns, msg.Content)
		}
	}
	if len(candidateTurns) == 0 {
		return &EvaluationResponse{
			BandScore: 0.0,
			Feedback:  "No candidate responses to evaluate.",
		}, nil
	}

	raw, err := s.chat.Complete(ctx, evaluationPrompt(transcript))
	if err != nil {
		s.logger.Warn("model evaluation failed, using heuristic score", "error", err)
		return heuristicEvaluation(candidateTurns), nil
	}

	var payload evaluationPayload
	if err := json.Unmarshal([]byte(stripCodeFences(raw)), &payload); err != nil {
		s.logger.Warn("model evaluation returned unparseable JSON, using heuristic score",
			"error", err, "snippet", snippet(raw))
		return heuristicEvaluation(candidateTurns), nil
	}

	resp := &EvaluationResponse{
		BandScore:       evaluationDefaultBand,
		Feedback:        payload.Feedback,
		FluencyScore:    payload.FluencyScore,
		VocabularyScore: payload.VocabularyScore,
		GrammarScore:    payload.GrammarScore,
		CoherenceScore:  payload.CoherenceScore,
	}
	if payload.BandScore != nil {
		resp.BandScore = *payload.BandScore
	}
	if resp.Feedback == "" {
		resp.Feedback = evaluationDefaultFeedback
	}
	return resp, nil
}

// heuristicEvaluation estimates a band score from the mean word count
// of the candidate's turns.
func heuristicEvaluation(candidateTurns []string) *EvaluationResponse {
	totalWords := 0
	for _, turn := range candidateTurns {
		totalWords += len(strings.Fields(turn))
	}
	avgWords := float64(totalWords) / float64(len(candidateTurns))

	var band float64
	switch {
	case avgWords >= 50:
		band = 7.0
	case avgWords >= 30:
		band = 6.0
	case avgWords >= 15:
		band = 5.0
	default:
		band = 4.5
	}

	return &EvaluationResponse{
		BandScore: band,
		Feedback:  evaluationFallbackFeedback,
	}
}

// stripCodeFences unwraps a JSON object optionally fenced as ```json
// ... ``` or ``` ... ```.
func stripCodeFences(text string) string {
	text = strings.TrimSpace(text)
	if idx := strings.Index(text, "```json"); idx >= 0 {
		text = text[idx+len("```json"):]
		if end := strings.Index(text, "```"); end >= 0 {
			text = text[:end]
		}
		return strings.TrimSpace(text)
	}
	if idx := strings.Index(text, "```"); idx >= 0 {
		text = text[idx+len("```"):]
		if end := strings.Index(text, "```"); end >= 0 {
			text = text[:end]
		}
		return strings.TrimSpace(text)
	}
	return text
}

// snippet truncates raw model output for log lines.
func snippet(raw string) string {
	const maxLen = 200
	if len(raw) <= maxLen {
		return raw
	}
	return raw[:maxLen] + "..."
}
