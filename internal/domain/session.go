package domain

import (
	"strconv"
	"time"
)

// SessionID identifies one broadcast; it is the stream id owned by the CRUD side.
type SessionID int64

func (id SessionID) String() string { return strconv.FormatInt(int64(id), 10) }

func ParseSessionID(raw string) (SessionID, error) {
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n <= 0 {
		return 0, ErrSessionNotFound
	}
	return SessionID(n), nil
}

// ChatMessage is immutable once persisted; the store assigns ID and Timestamp.
type ChatMessage struct {
	ID        int64     `json:"id"`
	SessionID SessionID `json:"stream_id"`
	Author    Identity  `json:"author"`
	Body      string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// Ban is owned by the CRUD side; the core only reacts to it.
type Ban struct {
	ID          int64     `json:"id"`
	ModeratorID UserID    `json:"streamer_id"`
	TargetID    UserID    `json:"banned_user_id"`
	Reason      string    `json:"reason,omitempty"`
	CreatedAt   time.Time `json:"banned_at"`
}
