//go:generate go run go.uber.org/mock/mockgen -source=collab_iface.go -destination=mocks/mock_collab.go -package=mocks
package core

import (
	"context"

	"github.com/dkeye/livecast/internal/domain"
)

// AuthGate resolves a bearer credential to an identity.
type AuthGate interface {
	Resolve(ctx context.Context, credential string) (domain.Identity, error)
}

// ChatStore must succeed before a chat message is broadcast.
type ChatStore interface {
	InsertChat(ctx context.Context, sid domain.SessionID, author domain.Identity, body string) (domain.ChatMessage, error)
}

// PresenceStore is best-effort: presence counts are derived data.
type PresenceStore interface {
	UpsertViewerCount(ctx context.Context, sid domain.SessionID, count int) error
	RecordViewer(ctx context.Context, sid domain.SessionID, uid domain.UserID, present bool) error
}

type BanStore interface {
	IsBanned(ctx context.Context, owner, uid domain.UserID) (bool, error)
	CreateBan(ctx context.Context, ban domain.Ban) (domain.Ban, error)
	DeleteBan(ctx context.Context, owner, target domain.UserID) error
	ListBans(ctx context.Context, owner domain.UserID) ([]domain.Ban, error)
}

type Ownership interface {
	OwnerOf(ctx context.Context, sid domain.SessionID) (domain.UserID, error)
	SessionsOwnedBy(ctx context.Context, uid domain.UserID) ([]domain.SessionID, error)
}

type Directory interface {
	UserByID(ctx context.Context, uid domain.UserID) (domain.Identity, error)
}
