package services

import (
	"reflect"
	"testing"
)

func TestExtractFeedback(t *testing.T) {
	tests := []struct {
		name        string
		raw         string
		wantMessage string
		wantParsed  bool
		wantGeneral string
		wantGrammar []string
		wantVocab   []string
		wantErr     bool
	}{
		{
			name:        "reply with feedback block",
			raw:         "Hello!\n<feedback>{\"grammar_corrections\":[\"a\"],\"vocabulary_suggestions\":[],\"general_feedback\":\"Good job\"}</feedback>",
			wantMessage: "Hello!",
			wantParsed:  true,
			wantGeneral: "Good job",
			wantGrammar: []string{"a"},
			wantVocab:   []string{},
		},
		{
			name:        "plain reply without delimiters",
			raw:         "Just a plain reply.",
			wantMessage: "Just a plain reply.",
		},
		{
			name:        "surrounding whitespace trimmed",
			raw:         "  \nSure, I can help.\n ",
			wantMessage: "Sure, I can help.",
		},
		{
			name:        "malformed JSON between delimiters",
			raw:         "Nice try!\n<feedback>{not json}</feedback>",
			wantMessage: "Nice try!",
			wantErr:     true,
		},
		{
			name:        "only opening delimiter",
			raw:         "Hello <feedback>{\"general_feedback\":\"x\"}",
			wantMessage: "Hello <feedback>{\"general_feedback\":\"x\"}",
		},
		{
			name:        "missing keys default to empty",
			raw:         "Hi there\n<feedback>{}</feedback>",
			wantMessage: "Hi there",
			wantParsed:  true,
			wantGeneral: "",
			wantGrammar: []string{},
			wantVocab:   []string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractFeedback(tt.raw)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ExtractFeedback() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got.Message != tt.wantMessage {
				t.Errorf("Message = %q, want %q", got.Message, tt.wantMessage)
			}
			if got.Parsed != tt.wantParsed {
				t.Errorf("Parsed = %v, want %v", got.Parsed, tt.wantParsed)
			}
			if got.GeneralFeedback != tt.wantGeneral {
				t.Errorf("GeneralFeedback = %q, want %q", got.GeneralFeedback, tt.wantGeneral)
			}
			if tt.wantParsed {
				if !reflect.DeepEqual(got.GrammarCorrections, tt.wantGrammar) {
					t.Errorf("GrammarCorrections = %v, want %v", got.GrammarCorrections, tt.wantGrammar)
				}
				if !reflect.DeepEqual(got.VocabularySuggestions, tt.wantVocab) {
					t.Errorf("VocabularySuggestions = %v, want %v", got.VocabularySuggestions, tt.wantVocab)
				}
			}
		})
	}
}

func TestExtractFeedbackIsPure(t *testing.T) {
	raw := "Hello!\n<feedback>{\"general_feedback\":\"Nice\"}</feedback>"
	first, _ := ExtractFeedback(raw)
	second, _ := ExtractFeedback(raw)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("same input produced different results: %+v vs %+v", first, second)
	}
}
