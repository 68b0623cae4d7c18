package app

import (
	"github.com/dkeye/livecast/internal/core"
	"github.com/dkeye/livecast/internal/core/coretest"
	"github.com/dkeye/livecast/internal/domain"
)

var (
	alice = domain.Identity{ID: 1, Username: "alice"}
	bob   = domain.Identity{ID: 2, Username: "bob"}
	carol = domain.Identity{ID: 3, Username: "carol"}
)

func newConn(sid domain.SessionID, who domain.Identity) (*core.Connection, *coretest.Socket) {
	s := coretest.NewSocket()
	return core.NewConnection(sid, who, s), s
}
