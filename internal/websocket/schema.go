package websocket

import "github.com/articlehub/articlehub-backend/internal/model"

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionPing    Action = "ping"
	ActionRefresh Action = "refresh"
)

// RequestEnvelope is used to peek at the action before full parsing.
type RequestEnvelope struct {
	Action Action `json:"action"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventError    Event = "error"
	EventSnapshot Event = "snapshot"
	EventMessage  Event = "message"
	EventPong     Event = "pong"
)

// SnapshotResponse carries the full thread in display order.
type SnapshotResponse struct {
	Event    Event               `json:"event"`
	Thread   string              `json:"thread"`
	Messages []model.ChatMessage `json:"messages"`
}

// MessageResponse carries one message pushed as soon as it was sent.
type MessageResponse struct {
	Event   Event             `json:"event"`
	Thread  string            `json:"thread"`
	Message model.ChatMessage `json:"message"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
