package app

import (
	"github.com/dkeye/livecast/internal/core"
	"github.com/dkeye/livecast/internal/domain"
	"github.com/samber/lo"
)

// connSet is one session's connections, indexed by connection and by
// identity. It never closes adapter-owned resources. Callers hold the shard lock.
type connSet struct {
	byConn map[core.ConnID]*core.Connection
	byUser map[domain.UserID]map[core.ConnID]*core.Connection
}

func newConnSet() *connSet {
	return &connSet{
		byConn: make(map[core.ConnID]*core.Connection),
		byUser: make(map[domain.UserID]map[core.ConnID]*core.Connection),
	}
}

func (s *connSet) add(c *core.Connection) (firstForIdentity bool) {
	s.byConn[c.ID] = c
	uid := c.Identity.ID
	conns, ok := s.byUser[uid]
	if !ok {
		conns = make(map[core.ConnID]*core.Connection)
		s.byUser[uid] = conns
	}
	conns[c.ID] = c
	return len(conns) == 1
}

func (s *connSet) remove(c *core.Connection) (removed, lastForIdentity bool) {
	if _, ok := s.byConn[c.ID]; !ok {
		return false, false
	}
	delete(s.byConn, c.ID)
	uid := c.Identity.ID
	conns := s.byUser[uid]
	delete(conns, c.ID)
	if len(conns) == 0 {
		delete(s.byUser, uid)
		return true, true
	}
	return true, false
}

func (s *connSet) snapshot() []*core.Connection { return lo.Values(s.byConn) }

func (s *connSet) ofUser(uid domain.UserID) []*core.Connection {
	return lo.Values(s.byUser[uid])
}

func (s *connSet) len() int { return len(s.byConn) }
