package app

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/dkeye/livecast/internal/core/mocks"
	"github.com/dkeye/livecast/internal/domain"
)

func TestPresenceJoinLeave(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockPresenceStore(ctrl)
	gomock.InOrder(
		store.EXPECT().UpsertViewerCount(gomock.Any(), domain.SessionID(10), 1).Return(nil),
		store.EXPECT().RecordViewer(gomock.Any(), domain.SessionID(10), alice.ID, true).Return(nil),
		store.EXPECT().UpsertViewerCount(gomock.Any(), domain.SessionID(10), 2).Return(nil),
		store.EXPECT().RecordViewer(gomock.Any(), domain.SessionID(10), bob.ID, true).Return(nil),
		store.EXPECT().UpsertViewerCount(gomock.Any(), domain.SessionID(10), 1).Return(nil),
		store.EXPECT().RecordViewer(gomock.Any(), domain.SessionID(10), alice.ID, false).Return(nil),
	)

	r := NewRegistry()
	p := NewPresence(NewHub(r, HubOptions{}), store, 0)
	watcher, ws := newConn(10, carol)
	r.Attach(watcher)
	ctx := context.Background()

	isNew, n := p.Join(ctx, 10, alice)
	assert.True(t, isNew)
	assert.Equal(t, 1, n)
	assert.Equal(t, 1, ws.LastViewerCount())

	isNew, n = p.Join(ctx, 10, bob)
	assert.True(t, isNew)
	assert.Equal(t, 2, n)

	isNew, n = p.Join(ctx, 10, alice)
	assert.False(t, isNew)
	assert.Equal(t, 2, n)

	wasLast, n := p.Leave(ctx, 10, alice)
	assert.True(t, wasLast)
	assert.Equal(t, 1, n)
	assert.Equal(t, 1, ws.LastViewerCount())

	assert.True(t, p.has(10, bob.ID))
	assert.False(t, p.has(10, alice.ID))
	assert.Equal(t, 1, p.Count(10))
}

func TestPresenceLeaveAbsentIsNoop(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockPresenceStore(ctrl)
	p := NewPresence(NewHub(NewRegistry(), HubOptions{}), store, 0)

	wasLast, n := p.Leave(context.Background(), 10, alice)
	assert.False(t, wasLast)
	assert.Zero(t, n)
	assert.Zero(t, p.Count(10))
}

func TestPresenceStoreFailureStillBroadcasts(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockPresenceStore(ctrl)
	store.EXPECT().UpsertViewerCount(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("db down")).AnyTimes()
	store.EXPECT().RecordViewer(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("db down")).AnyTimes()

	r := NewRegistry()
	p := NewPresence(NewHub(r, HubOptions{}), store, 0)
	c, s := newConn(10, alice)
	r.Attach(c)

	isNew, n := p.Join(context.Background(), 10, alice)
	require.True(t, isNew)
	assert.Equal(t, 1, n)
	assert.Equal(t, 1, s.LastViewerCount())
}

func TestPresenceConcurrentLastEventIsTrueCount(t *testing.T) {
	r := NewRegistry()
	p := NewPresence(NewHub(r, HubOptions{}), nil, 0)
	watcher, ws := newConn(10, domain.Identity{ID: 1000})
	r.Attach(watcher)

	ctx := context.Background()
	var wg sync.WaitGroup
	for i := range 40 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			who := domain.Identity{ID: domain.UserID(i + 1)}
			p.Join(ctx, 10, who)
			if i%2 == 0 {
				p.Leave(ctx, 10, who)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 20, p.Count(10))
	assert.Equal(t, 20, ws.LastViewerCount())
}

func TestPresenceDropsEmptySession(t *testing.T) {
	p := NewPresence(NewHub(NewRegistry(), HubOptions{}), nil, 0)
	ctx := context.Background()
	p.Join(ctx, 10, alice)
	p.Leave(ctx, 10, alice)
	assert.Empty(t, p.sets.ids())
}
