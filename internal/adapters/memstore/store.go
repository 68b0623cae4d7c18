// Package memstore is an in-memory core.Store for development and tests.
package memstore

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/dkeye/livecast/internal/domain"
)

type banKey struct {
	owner, target domain.UserID
}

type Store struct {
	mu      sync.Mutex
	users   map[domain.UserID]domain.Identity
	owners  map[domain.SessionID]domain.UserID
	bans    map[banKey]domain.Ban
	chats   []domain.ChatMessage
	counts  map[domain.SessionID]int
	viewers map[domain.SessionID]map[domain.UserID]struct{}
	nextID  int64
	now     func() time.Time
}

func New() *Store {
	return &Store{
		users:   make(map[domain.UserID]domain.Identity),
		owners:  make(map[domain.SessionID]domain.UserID),
		bans:    make(map[banKey]domain.Ban),
		counts:  make(map[domain.SessionID]int),
		viewers: make(map[domain.SessionID]map[domain.UserID]struct{}),
		now:     time.Now,
	}
}

func (s *Store) AddUser(who domain.Identity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[who.ID] = who
}

func (s *Store) AddStream(sid domain.SessionID, owner domain.UserID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.owners[sid] = owner
}

func (s *Store) InsertChat(_ context.Context, sid domain.SessionID, author domain.Identity, body string) (domain.ChatMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.owners[sid]; !ok {
		return domain.ChatMessage{}, domain.ErrSessionNotFound
	}
	s.nextID++
	msg := domain.ChatMessage{
		ID:        s.nextID,
		SessionID: sid,
		Author:    author,
		Body:      body,
		Timestamp: s.now().UTC(),
	}
	s.chats = append(s.chats, msg)
	return msg, nil
}

// Chats returns the persisted messages of sid in commit order.
func (s *Store) Chats(sid domain.SessionID) []domain.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.ChatMessage
	for _, m := range s.chats {
		if m.SessionID == sid {
			out = append(out, m)
		}
	}
	return out
}

func (s *Store) UpsertViewerCount(_ context.Context, sid domain.SessionID, count int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counts[sid] = count
	return nil
}

func (s *Store) ViewerCount(sid domain.SessionID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counts[sid]
}

func (s *Store) RecordViewer(_ context.Context, sid domain.SessionID, uid domain.UserID, present bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	set, ok := s.viewers[sid]
	if !ok {
		set = make(map[domain.UserID]struct{})
		s.viewers[sid] = set
	}
	if present {
		set[uid] = struct{}{}
		return nil
	}
	delete(set, uid)
	if len(set) == 0 {
		delete(s.viewers, sid)
	}
	return nil
}

func (s *Store) IsBanned(_ context.Context, owner, uid domain.UserID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.bans[banKey{owner, uid}]
	return ok, nil
}

func (s *Store) CreateBan(_ context.Context, ban domain.Ban) (domain.Ban, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, uid := range []domain.UserID{ban.ModeratorID, ban.TargetID} {
		if _, ok := s.users[uid]; !ok {
			return domain.Ban{}, domain.ErrUserNotFound
		}
	}
	key := banKey{ban.ModeratorID, ban.TargetID}
	if _, ok := s.bans[key]; ok {
		return domain.Ban{}, domain.ErrAlreadyBanned
	}
	s.nextID++
	ban.ID = s.nextID
	ban.CreatedAt = s.now().UTC()
	s.bans[key] = ban
	return ban, nil
}

func (s *Store) DeleteBan(_ context.Context, owner, target domain.UserID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := banKey{owner, target}
	if _, ok := s.bans[key]; !ok {
		return domain.ErrBanNotFound
	}
	delete(s.bans, key)
	return nil
}

// ListBans returns the bans placed by owner, oldest first.
func (s *Store) ListBans(_ context.Context, owner domain.UserID) ([]domain.Ban, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Ban
	for key, ban := range s.bans {
		if key.owner == owner {
			out = append(out, ban)
		}
	}
	slices.SortFunc(out, func(a, b domain.Ban) int { return cmp.Compare(a.ID, b.ID) })
	return out, nil
}

func (s *Store) OwnerOf(_ context.Context, sid domain.SessionID) (domain.UserID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	owner, ok := s.owners[sid]
	if !ok {
		return 0, domain.ErrSessionNotFound
	}
	return owner, nil
}

func (s *Store) SessionsOwnedBy(_ context.Context, uid domain.UserID) ([]domain.SessionID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.SessionID
	for sid, owner := range s.owners {
		if owner == uid {
			out = append(out, sid)
		}
	}
	slices.Sort(out)
	return out, nil
}

func (s *Store) UserByID(_ context.Context, uid domain.UserID) (domain.Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	who, ok := s.users[uid]
	if !ok {
		return domain.Identity{}, domain.ErrUserNotFound
	}
	return who, nil
}
