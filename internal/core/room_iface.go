package core

import (
	"time"

	"github.com/dkeye/livecast/internal/domain"
)

const (
	EventChatMessage = "chat_message"
	EventViewerCount = "viewer_count_update"
	EventError       = "error"
	EventPong        = "pong"
)

// Event is the session-scoped wire envelope. The hub never looks inside Data.
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

type ChatPayload struct {
	ID        int64         `json:"id"`
	UserID    domain.UserID `json:"user_id"`
	Username  string        `json:"username"`
	Message   string        `json:"message"`
	Timestamp time.Time     `json:"timestamp"`
}

type ViewerCountPayload struct {
	ViewerCount int `json:"viewer_count"`
}

type ErrorPayload struct {
	Error string `json:"error"`
}

func ChatEvent(m domain.ChatMessage) Event {
	return Event{Type: EventChatMessage, Data: ChatPayload{
		ID:        m.ID,
		UserID:    m.Author.ID,
		Username:  m.Author.Username,
		Message:   m.Body,
		Timestamp: m.Timestamp,
	}}
}

func ViewerCountEvent(n int) Event {
	return Event{Type: EventViewerCount, Data: ViewerCountPayload{ViewerCount: n}}
}

func ErrorEvent(code string) Event {
	return Event{Type: EventError, Data: ErrorPayload{Error: code}}
}

func PongEvent() Event { return Event{Type: EventPong} }

// Eviction describes a connection the hub removed after a failed send.
type Eviction struct {
	Conn             *Connection
	LastForIdentity  bool
	SessionDestroyed bool
	Err              error
}

// DeliveryReport reports delivery stats to the caller of a publish.
type DeliveryReport struct {
	Delivered int
	Evicted   int
	Evictions []Eviction
}
