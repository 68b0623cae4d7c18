package core

import "context"

// Frame is an encoded outbound payload.
type Frame []byte

// Socket abstracts the write side of a realtime transport.
// Owned by the adapter; Close must be idempotent.
type Socket interface {
	// Send enqueues f for delivery and gives up when ctx is done.
	Send(ctx context.Context, f Frame) error
	Close(code int, reason string)
}
