package services

import (
	"fmt"
	"strings"

	"github.com/talkpal-app/conversation-service/internal/models"
)

// historyWindow is how many trailing turns of history make it into a
// prompt; older turns are dropped.
const historyWindow = 10

// renderTranscript flattens history into "Role: content" lines using
// the given labels for assistant and user turns. window <= 0 keeps the
// whole history.
func renderTranscript(history []models.ChatMessage, assistantLabel, userLabel string, window int) string {
	if window > 0 && len(history) > window {
		history = history[len(history)-window:]
	}
	var b strings.Builder
	for _, msg := range history {
		label := userLabel
		if msg.Role == models.RoleAssistant {
			label = assistantLabel
		}
		b.WriteString(label)
		b.WriteString(": ")
		b.WriteString(msg.Content)
		b.WriteString("\n")
	}
	return b.String()
}

func scenarioPrompt(scenario models.Scenario, userLevel, transcript, userMessage string) string {
	return fmt.Sprintf(`You are playing the following role: %s

The user's English level is: %s

Previous conversation:
%s
User's new message: %s

Instructions:
1. Respond naturally to the user's message as your character
2. Keep your response conversational and engaging
3. After your response, provide feedback in JSON format inside <feedback> tags

Response format:
[Your natural conversational response here]

<feedback>
{
  "grammar_corrections": ["list any grammar mistakes - keep it to 1-2 most important ones"],
  "vocabulary_suggestions": ["suggest 1-2 better words or phrases they could use"],
  "general_feedback": "One encouraging sentence about their English"
}
</feedback>`, scenario.SystemPrompt, userLevel, transcript, userMessage)
}

func examPrompt(systemPrompt, transcript, userMessage string) string {
	return fmt.Sprintf(`%s

Previous conversation:
%s
Candidate's response: %s

Instructions:
1. Respond naturally as an IELTS examiner
2. For Part 1: Ask another general question OR acknowledge and move on
3. For Part 2: Give brief feedback and ask a follow-up question
4. For Part 3: Acknowledge their point and ask a deeper related question
5. After your response, provide feedback in JSON format inside <feedback> tags

IELTS Band Scoring Criteria to consider:
- Fluency and Coherence
- Lexical Resource (vocabulary range)
- Grammatical Range and Accuracy
- Pronunciation (mention if relevant based on text)

Response format:
[Your natural examiner response - keep it concise and professional]

<feedback>
{
  "grammar_corrections": ["list any significant grammar mistakes - max 2"],
  "vocabulary_suggestions": ["suggest better word choices if applicable - max 2"],
  "general_feedback": "Brief encouraging comment about their IELTS speaking performance"
}
</feedback>`, systemPrompt, transcript, userMessage)
}

func evaluationPrompt(transcript string) string {
	return fmt.Sprintf(`You are an experienced IELTS Speaking examiner. Evaluate the following IELTS Speaking test conversation.

CONVERSATION:
%s

Evaluate the candidate's performance based on the official IELTS Speaking assessment criteria:
1. Fluency and Coherence (0-9)
2. Lexical Resource / Vocabulary (0-9)
3. Grammatical Range and Accuracy (0-9)
4. Pronunciation (assume average pronunciation since this is text-based) (0-9)

Calculate the overall band score as the average of these four criteria, rounded to the nearest 0.5.

Provide your assessment in the following JSON format ONLY (no other text):
{
  "band_score": <overall band score as float, e.g. 6.5>,
  "fluency_score": <fluency score>,
  "vocabulary_score": <vocabulary score>,
  "grammar_score": <grammar score>,
  "coherence_score": <coherence score>,
  "feedback": "<Brief 2-3 sentence feedback in Turkish summarizing the candidate's strengths and areas for improvement>"
}`, transcript)
}
