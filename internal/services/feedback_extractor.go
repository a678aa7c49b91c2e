package services

import (
	"encoding/json"
	"fmt"
	"strings"
)

const (
	feedbackOpenTag  = "<feedback>"
	feedbackCloseTag = "</feedback>"
)

// ExtractedFeedback is the shaped result of one raw model reply.
type ExtractedFeedback struct {
	// Message is the user-facing text before the feedback block, or
	// the whole reply when no block was found.
	Message string

	// Parsed is true when a feedback block was found and its JSON
	// parsed; only then are the remaining fields populated.
	Parsed                bool
	GeneralFeedback       string
	GrammarCorrections    []string
	VocabularySuggestions []string
}

type feedbackPayload struct {
	GeneralFeedback       string   `json:"general_feedback"`
	GrammarCorrections    []string `json:"grammar_corrections"`
	VocabularySuggestions []string `json:"vocabulary_suggestions"`
}

// ExtractFeedback splits a model reply into the conversational message
// and the structured feedback embedded between <feedback> tags.
//
// It is pure and never fails: a missing tag pair or malformed JSON
// yields the trimmed text as Message with empty feedback. The returned
// error exists only so callers can log parse failures; the result is
// always usable.
func ExtractFeedback(raw string) (ExtractedFeedback, error) {
	if !strings.Contains(raw, feedbackOpenTag) || !strings.Contains(raw, feedbackCloseTag) {
		return ExtractedFeedback{Message: strings.TrimSpace(raw)}, nil
	}

	openIdx := strings.Index(raw, feedbackOpenTag)
	result := ExtractedFeedback{Message: strings.TrimSpace(raw[:openIdx])}

	inner := raw[openIdx+len(feedbackOpenTag):]
	if closeIdx := strings.Index(inner, feedbackCloseTag); closeIdx >= 0 {
		inner = inner[:closeIdx]
	}
	inner = strings.TrimSpace(inner)

	var payload feedbackPayload
	if err := json.Unmarshal([]byte(inner), &payload); err != nil {
		return result, fmt.Errorf("feedback block is not valid JSON: %w", err)
	}

	result.Parsed = true
	result.GeneralFeedback = payload.GeneralFeedback
	result.GrammarCorrections = payload.GrammarCorrections
	result.VocabularySuggestions = payload.VocabularySuggestions
	if result.GrammarCorrections == nil {
		result.GrammarCorrections = []string{}
	}
	if result.VocabularySuggestions == nil {
		result.VocabularySuggestions = []string{}
	}
	return result, nil
}

// toConversationResponse maps extractor output onto the wire shape
// shared by the scenario and exam endpoints.
func (f ExtractedFeedback) toConversationResponse() *ConversationResponse {
	resp := &ConversationResponse{
		AIMessage:             f.Message,
		GrammarCorrections:    []string{},
		VocabularySuggestions: []string{},
	}
	if f.Parsed {
		feedback := f.GeneralFeedback
		resp.Feedback = &feedback
		resp.GrammarCorrections = f.GrammarCorrections
		resp.VocabularySuggestions = f.VocabularySuggestions
	}
	return resp
}
