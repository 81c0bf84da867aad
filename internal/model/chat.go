package model

import "time"

// SenderRole identifies which side of a conversation wrote a message.
type SenderRole string

const (
	SenderGuest SenderRole = "guest"
	SenderAdmin SenderRole = "admin"
)

// AdminDisplayName is the fixed sender name stamped on every admin message.
const AdminDisplayName = "Admin"

// ChatMessage is one message in a two-party conversation between a guest
// and the admin desk. Recipient is always the guest's name, whichever side sent it.
type ChatMessage struct {
	ID         int64      `json:"id"`
	SenderRole SenderRole `json:"userId"`
	SenderName string     `json:"userName"`
	Recipient  string     `json:"recipient"`
	Body       string     `json:"message"`
	CreatedAt  time.Time  `json:"timestamp"`
	Read       bool       `json:"read"`
}

// ThreadKeys returns the thread names this message is visible in.
// A guest writing under a different name than the recipient shows up in both threads.
func (m *ChatMessage) ThreadKeys() []string {
	keys := []string{m.Recipient}
	if m.SenderRole == SenderGuest && m.SenderName != "" && m.SenderName != m.Recipient {
		keys = append(keys, m.SenderName)
	}
	return keys
}

// SendMessageRequest is the payload for POST /chat/send.
// UserID is the role the client claims; only "admin" with an app-user token is honored.
type SendMessageRequest struct {
	UserID    string `json:"userId" binding:"omitempty,oneof=guest admin"`
	UserName  string `json:"userName" binding:"max=100"`
	Message   string `json:"message" binding:"required,max=4000"`
	Recipient string `json:"recipient" binding:"required,max=100"`
}
