// Package coretest provides in-memory sockets for exercising the realtime core.
package coretest

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/dkeye/livecast/internal/core"
)

var ErrClosed = errors.New("socket closed")

// Received is a decoded frame; Data is left raw for the caller.
type Received struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Socket records frames and close calls. Set Fail to make every Send fail,
// or Block to make Send wait for its context.
type Socket struct {
	mu     sync.Mutex
	frames []core.Frame
	closed bool
	code   int
	reason string

	Fail  error
	Block bool
}

func NewSocket() *Socket { return &Socket{} }

func (s *Socket) Send(ctx context.Context, f core.Frame) error {
	s.mu.Lock()
	fail, block, closed := s.Fail, s.Block, s.closed
	s.mu.Unlock()
	switch {
	case closed:
		return ErrClosed
	case fail != nil:
		return fail
	case block:
		<-ctx.Done()
		return ctx.Err()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frames = append(s.frames, f)
	return nil
}

// Close keeps the first code, like a real websocket.
func (s *Socket) Close(code int, reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed, s.code, s.reason = true, code, reason
}

func (s *Socket) Closed() (closed bool, code int, reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed, s.code, s.reason
}

func (s *Socket) Received() []Received {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Received, 0, len(s.frames))
	for _, f := range s.frames {
		var r Received
		if err := json.Unmarshal(f, &r); err == nil {
			out = append(out, r)
		}
	}
	return out
}

// OfType returns the payloads of every received frame of type typ.
func (s *Socket) OfType(typ string) []json.RawMessage {
	var out []json.RawMessage
	for _, r := range s.Received() {
		if r.Type == typ {
			out = append(out, r.Data)
		}
	}
	return out
}

// LastViewerCount returns the most recent viewer count seen, or -1.
func (s *Socket) LastViewerCount() int {
	counts := s.OfType(core.EventViewerCount)
	if len(counts) == 0 {
		return -1
	}
	var p core.ViewerCountPayload
	if err := json.Unmarshal(counts[len(counts)-1], &p); err != nil {
		return -1
	}
	return p.ViewerCount
}

// Chats decodes every chat_message frame.
func (s *Socket) Chats() []core.ChatPayload {
	var out []core.ChatPayload
	for _, raw := range s.OfType(core.EventChatMessage) {
		var p core.ChatPayload
		if err := json.Unmarshal(raw, &p); err == nil {
			out = append(out, p)
		}
	}
	return out
}

// Reset drops recorded frames.
func (s *Socket) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frames = nil
}
