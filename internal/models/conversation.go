package models

// ChatMessage is one turn of conversation history as the client sends
// it. Role is "assistant" for the model's turns, anything else is
// treated as the user.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

const RoleAssistant = "assistant"
