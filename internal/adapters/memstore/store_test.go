package memstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkeye/livecast/internal/core"
	"github.com/dkeye/livecast/internal/domain"
)

var _ core.Store = (*Store)(nil)

func TestStoreBans(t *testing.T) {
	s := New()
	ctx := context.Background()
	for _, who := range []domain.Identity{{ID: 1, Username: "mod"}, {ID: 2, Username: "spammer"}, {ID: 3, Username: "troll"}} {
		s.AddUser(who)
	}

	_, err := s.CreateBan(ctx, domain.Ban{ModeratorID: 1, TargetID: 99})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
	_, err = s.CreateBan(ctx, domain.Ban{ModeratorID: 99, TargetID: 2})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	ban, err := s.CreateBan(ctx, domain.Ban{ModeratorID: 1, TargetID: 2, Reason: "spam"})
	require.NoError(t, err)
	assert.NotZero(t, ban.ID)
	assert.False(t, ban.CreatedAt.IsZero())

	_, err = s.CreateBan(ctx, domain.Ban{ModeratorID: 1, TargetID: 2})
	assert.ErrorIs(t, err, domain.ErrAlreadyBanned)

	banned, err := s.IsBanned(ctx, 1, 2)
	require.NoError(t, err)
	assert.True(t, banned)
	banned, _ = s.IsBanned(ctx, 3, 2)
	assert.False(t, banned)

	second, err := s.CreateBan(ctx, domain.Ban{ModeratorID: 1, TargetID: 3})
	require.NoError(t, err)
	_, err = s.CreateBan(ctx, domain.Ban{ModeratorID: 3, TargetID: 2})
	require.NoError(t, err)

	list, err := s.ListBans(ctx, 1)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, ban.ID, list[0].ID)
	assert.Equal(t, "spam", list[0].Reason)
	assert.Equal(t, second.ID, list[1].ID)

	require.NoError(t, s.DeleteBan(ctx, 1, 2))
	assert.ErrorIs(t, s.DeleteBan(ctx, 1, 2), domain.ErrBanNotFound)

	list, err = s.ListBans(ctx, 1)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, domain.UserID(3), list[0].TargetID)

	list, err = s.ListBans(ctx, 2)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestStoreOwnershipAndChats(t *testing.T) {
	s := New()
	ctx := context.Background()
	s.AddUser(domain.Identity{ID: 1, Username: "owner"})
	s.AddStream(20, 1)
	s.AddStream(10, 1)

	owner, err := s.OwnerOf(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, domain.UserID(1), owner)
	_, err = s.OwnerOf(ctx, 99)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	owned, err := s.SessionsOwnedBy(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []domain.SessionID{10, 20}, owned)

	_, err = s.UserByID(ctx, 5)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	m1, err := s.InsertChat(ctx, 10, domain.Identity{ID: 1}, "a")
	require.NoError(t, err)
	m2, err := s.InsertChat(ctx, 10, domain.Identity{ID: 1}, "b")
	require.NoError(t, err)
	assert.Less(t, m1.ID, m2.ID)
	assert.Len(t, s.Chats(10), 2)
}
