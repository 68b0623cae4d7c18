package core

import (
	"github.com/dkeye/livecast/internal/domain"
	"github.com/google/uuid"
)

type ConnID string

func NewConnID() ConnID { return ConnID(uuid.NewString()) }

// Connection binds one socket to exactly one session and one identity
// for its whole lifetime.
type Connection struct {
	ID       ConnID
	Session  domain.SessionID
	Identity domain.Identity
	Socket   Socket
}

// NewConnection avoids raw literals in adapters and keeps construction obvious.
func NewConnection(sid domain.SessionID, who domain.Identity, s Socket) *Connection {
	return &Connection{
		ID:       NewConnID(),
		Session:  sid,
		Identity: who,
		Socket:   s,
	}
}
