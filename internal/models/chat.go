package models

// Message is a single turn of a conversation kept by session backends that hold their history
// client-side. The system instruction is never stored as a Message; backends add it per request.
type Message struct {
	Role Role
	Text string
}

// Role represents the role of a message participant.
type Role string

const (
	// RoleUser represents a turn typed by the user, including the prompt suffix.
	RoleUser Role = "user"
	// RoleAssistant represents the accumulated reply of the model.
	RoleAssistant Role = "assistant"
)
