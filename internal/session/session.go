package session

import (
	"time"

	"github.com/google/uuid"
)

// Role identifies the author of a chat message.
type Role string

const (
	// RoleUser marks a message typed by the user.
	RoleUser Role = "user"
	// RoleModel marks an answer produced by the model.
	RoleModel Role = "model"
	// RoleSystem marks a session-local annotation (document added/removed,
	// connection notices). System messages are never sent to the backend.
	RoleSystem Role = "system"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleModel, RoleSystem:
		return true
	}
	return false
}

// Message represents a single chat message. Attachment, when present, is
// an image encoded as a "data:<mimeType>;base64,<payload>" URI; it is
// decoded into an Attachment value only when a request is assembled.
type Message struct {
	ID         string    `json:"id"`
	Role       Role      `json:"role"`
	Content    string    `json:"content"`
	Timestamp  time.Time `json:"timestamp"`
	Attachment string    `json:"attachment,omitempty"`
}

// NewMessage creates a message with a fresh unique ID and the current time.
func NewMessage(role Role, content string) Message {
	return Message{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// Session represents a chat session
type Session struct {
	ID        string    `json:"id"`
	StartTime time.Time `json:"start_time"`
	Model     string    `json:"model"`
	Messages  []Message `json:"messages"`
}
