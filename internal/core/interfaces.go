package core

import "time"

// Store is everything the realtime core needs from persistence.
type Store interface {
	ChatStore
	PresenceStore
	BanStore
	Ownership
	Directory
}

// Metrics receives lifecycle and delivery signals. Implementations must be
// safe for concurrent use.
type Metrics interface {
	SessionOpened()
	SessionClosed()
	ConnectionAttached()
	ConnectionDetached()
	ConnectionRejected(reason string)
	Published(delivered, evicted int, took time.Duration)
	ChatAccepted()
	BanEvicted(n int)
}

type NopMetrics struct{}

func (NopMetrics) SessionOpened() {}
func (NopMetrics) SessionClosed() {}
func (NopMetrics) ConnectionAttached() {}
func (NopMetrics) ConnectionDetached() {}
func (NopMetrics) ConnectionRejected(string) {}
func (NopMetrics) Published(int, int, time.Duration) {}
func (NopMetrics) ChatAccepted() {}
func (NopMetrics) BanEvicted(int) {}
