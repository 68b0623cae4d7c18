package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkeye/livecast/internal/adapters/auth"
	"github.com/dkeye/livecast/internal/adapters/memstore"
	"github.com/dkeye/livecast/internal/adapters/metrics"
	"github.com/dkeye/livecast/internal/adapters/ws"
	"github.com/dkeye/livecast/internal/app"
	"github.com/dkeye/livecast/internal/app/orch"
	"github.com/dkeye/livecast/internal/config"
	"github.com/dkeye/livecast/internal/core"
	"github.com/dkeye/livecast/internal/domain"
)

const testSecret = "0123456789abcdef"

var (
	streamer = domain.Identity{ID: 1, Username: "streamer"}
	alice    = domain.Identity{ID: 2, Username: "alice"}
	bob      = domain.Identity{ID: 3, Username: "bob"}
)

type server struct {
	*httptest.Server
	orch  *orch.Orchestrator
	store *memstore.Store
}

func newServer(t *testing.T) *server {
	t.Helper()
	return newLimitedServer(t, nil)
}

func newLimitedServer(t *testing.T, limiter *ws.RateLimiter) *server {
	t.Helper()
	store := memstore.New()
	for _, who := range []domain.Identity{streamer, alice, bob} {
		store.AddUser(who)
	}
	store.AddStream(1, streamer.ID)

	reg := metrics.NewRegistry()
	o := orch.New(orch.Deps{
		Store:   store,
		Auth:    auth.NewJWTGate(testSecret, store),
		Metrics: metrics.New(reg),
	})
	ctx, cancel := context.WithCancel(context.Background())
	r := SetupRouter(ctx, &config.Config{Mode: "test"}, Deps{
		Orch:     o,
		Realtime: ws.NewController(o, limiter, ws.Options{}),
		Metrics:  metrics.Handler(reg),
	})
	srv := httptest.NewServer(r)
	t.Cleanup(func() {
		cancel()
		o.Shutdown(context.Background())
		srv.Close()
	})
	return &server{Server: srv, orch: o, store: store}
}

func tokenFor(t *testing.T, who domain.Identity) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": int64(who.ID),
		"exp":     time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return tok
}

func (s *server) dial(t *testing.T, path, token string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(s.URL, "http") + path
	if token != "" {
		url += "?token=" + token
	}
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

type wireEvent struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// next reads until an event of type typ arrives.
func next(t *testing.T, conn *websocket.Conn, typ string) wireEvent {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	for {
		_, data, err := conn.ReadMessage()
		require.NoError(t, err)
		var ev wireEvent
		require.NoError(t, json.Unmarshal(data, &ev))
		if ev.Type == typ {
			return ev
		}
	}
}

func viewerCount(t *testing.T, ev wireEvent) int {
	t.Helper()
	var p core.ViewerCountPayload
	require.NoError(t, json.Unmarshal(ev.Data, &p))
	return p.ViewerCount
}

// readNext returns the very next frame, whatever its type.
func readNext(t *testing.T, conn *websocket.Conn) wireEvent {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var ev wireEvent
	require.NoError(t, json.Unmarshal(data, &ev))
	return ev
}

// closeCode reads until the server closes the connection.
func closeCode(t *testing.T, conn *websocket.Conn) int {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	for {
		_, _, err := conn.ReadMessage()
		if err == nil {
			continue
		}
		var ce *websocket.CloseError
		require.ErrorAs(t, err, &ce)
		return ce.Code
	}
}

func (s *server) do(t *testing.T, method, path, token string, body any) (*stdhttp.Response, []byte) {
	t.Helper()
	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(raw)
	}
	req, err := stdhttp.NewRequest(method, s.URL+path, rd)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := stdhttp.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, out
}

func TestHealthAndMetrics(t *testing.T) {
	s := newServer(t)

	resp, _ := s.do(t, stdhttp.MethodGet, "/healthz", "", nil)
	assert.Equal(t, stdhttp.StatusOK, resp.StatusCode)

	s.dial(t, "/api/ws/streams/1/chat", tokenFor(t, alice))
	require.Eventually(t, func() bool { return s.orch.Registry.Len(1) == 1 }, time.Second, 10*time.Millisecond)

	resp, body := s.do(t, stdhttp.MethodGet, "/metrics", "", nil)
	assert.Equal(t, stdhttp.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "livecast_registry_active_connections 1")
}

func TestRealtimeRefusals(t *testing.T) {
	s := newServer(t)

	tests := []struct {
		name, path, token string
	}{
		{"no token", "/api/ws/streams/1/chat", ""},
		{"bad token", "/api/ws/streams/1/chat", "nope"},
		{"unknown stream", "/api/ws/streams/42/chat", tokenFor(t, alice)},
		{"malformed stream", "/api/ws/streams/abc/viewer", tokenFor(t, alice)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn := s.dial(t, tt.path, tt.token)
			assert.Equal(t, app.ClosePolicyViolation, closeCode(t, conn))
		})
	}
	assert.Empty(t, s.orch.Registry.Sessions())
}

func TestRealtimeChatAndPresence(t *testing.T) {
	s := newServer(t)

	a := s.dial(t, "/api/ws/streams/1/chat", tokenFor(t, alice))
	assert.Equal(t, 1, viewerCount(t, next(t, a, core.EventViewerCount)))

	b := s.dial(t, "/api/ws/streams/1/viewer", tokenFor(t, bob))
	assert.Equal(t, 2, viewerCount(t, next(t, b, core.EventViewerCount)))
	assert.Equal(t, 2, viewerCount(t, next(t, a, core.EventViewerCount)))

	require.NoError(t, a.WriteJSON(map[string]any{"data": map[string]string{"message": "  hello  "}}))
	for _, conn := range []*websocket.Conn{a, b} {
		var p core.ChatPayload
		require.NoError(t, json.Unmarshal(next(t, conn, core.EventChatMessage).Data, &p))
		assert.Equal(t, "hello", p.Message)
		assert.Equal(t, alice.ID, p.UserID)
		assert.Equal(t, "alice", p.Username)
	}

	require.NoError(t, b.WriteJSON(map[string]string{"type": "ping"}))
	next(t, b, core.EventPong)

	long := strings.Repeat("x", app.DefaultMaxMessageBytes+1)
	require.NoError(t, b.WriteJSON(map[string]any{"data": map[string]string{"message": long}}))
	var e core.ErrorPayload
	require.NoError(t, json.Unmarshal(next(t, b, core.EventError).Data, &e))
	assert.Equal(t, "message_too_long", e.Error)

	resp, body := s.do(t, stdhttp.MethodGet, "/api/streams/1/presence", "", nil)
	require.Equal(t, stdhttp.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"stream_id":1,"viewer_count":2,"connections":2}`, string(body))

	require.NoError(t, b.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")))
	assert.Equal(t, 1, viewerCount(t, next(t, a, core.EventViewerCount)))
}

func TestRealtimeBlankAndRateLimitedChat(t *testing.T) {
	s := newLimitedServer(t, ws.NewRateLimiter(0.001, 2))

	a := s.dial(t, "/api/ws/streams/1/chat", tokenFor(t, alice))
	assert.Equal(t, 1, viewerCount(t, next(t, a, core.EventViewerCount)))

	require.NoError(t, a.WriteJSON(map[string]any{"data": map[string]string{"message": " \t\n "}}))
	require.NoError(t, a.WriteJSON(map[string]string{"type": "ping"}))
	assert.Equal(t, core.EventPong, readNext(t, a).Type)

	require.NoError(t, a.WriteJSON(map[string]any{"data": map[string]string{"message": "first"}}))
	ev := readNext(t, a)
	require.Equal(t, core.EventChatMessage, ev.Type)
	var p core.ChatPayload
	require.NoError(t, json.Unmarshal(ev.Data, &p))
	assert.Equal(t, "first", p.Message)

	require.NoError(t, a.WriteJSON(map[string]any{"data": map[string]string{"message": "second"}}))
	ev = readNext(t, a)
	require.Equal(t, core.EventError, ev.Type)
	assert.JSONEq(t, `{"error":"rate_limited"}`, string(ev.Data))

	// The refused message was neither stored nor broadcast.
	chats := s.store.Chats(1)
	require.Len(t, chats, 1)
	assert.Equal(t, "first", chats[0].Body)
}

func TestBanFlow(t *testing.T) {
	s := newServer(t)
	streamerTok := tokenFor(t, streamer)

	watcher := s.dial(t, "/api/ws/streams/1/chat", tokenFor(t, alice))
	next(t, watcher, core.EventViewerCount)
	tabs := []*websocket.Conn{
		s.dial(t, "/api/ws/streams/1/chat", tokenFor(t, bob)),
		s.dial(t, "/api/ws/streams/1/viewer", tokenFor(t, bob)),
	}
	require.Eventually(t, func() bool { return s.orch.Registry.Len(1) == 3 }, time.Second, 10*time.Millisecond)

	resp, body := s.do(t, stdhttp.MethodGet, "/api/bans", streamerTok, nil)
	require.Equal(t, stdhttp.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[]`, string(body))

	resp, body = s.do(t, stdhttp.MethodPost, "/api/bans", streamerTok, BanRequest{BannedUserID: int64(bob.ID), Reason: "spam"})
	require.Equal(t, stdhttp.StatusCreated, resp.StatusCode, string(body))
	var br BanResponse
	require.NoError(t, json.Unmarshal(body, &br))
	assert.Equal(t, 2, br.Evicted)

	for _, tab := range tabs {
		assert.Equal(t, app.ClosePolicyViolation, closeCode(t, tab))
	}
	assert.Equal(t, 1, s.orch.Presence.Count(1))

	again := s.dial(t, "/api/ws/streams/1/chat", tokenFor(t, bob))
	assert.Equal(t, app.ClosePolicyViolation, closeCode(t, again))

	resp, _ = s.do(t, stdhttp.MethodPost, "/api/bans", streamerTok, BanRequest{BannedUserID: int64(bob.ID)})
	assert.Equal(t, stdhttp.StatusConflict, resp.StatusCode)

	resp, body = s.do(t, stdhttp.MethodGet, "/api/bans", streamerTok, nil)
	require.Equal(t, stdhttp.StatusOK, resp.StatusCode)
	var listed []domain.Ban
	require.NoError(t, json.Unmarshal(body, &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, streamer.ID, listed[0].ModeratorID)
	assert.Equal(t, bob.ID, listed[0].TargetID)
	assert.Equal(t, "spam", listed[0].Reason)

	resp, body = s.do(t, stdhttp.MethodGet, "/api/bans", tokenFor(t, alice), nil)
	require.Equal(t, stdhttp.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[]`, string(body))

	path := fmt.Sprintf("/api/bans/%d", bob.ID)
	resp, _ = s.do(t, stdhttp.MethodDelete, path, streamerTok, nil)
	assert.Equal(t, stdhttp.StatusNoContent, resp.StatusCode)
	resp, _ = s.do(t, stdhttp.MethodDelete, path, streamerTok, nil)
	assert.Equal(t, stdhttp.StatusNotFound, resp.StatusCode)

	back := s.dial(t, "/api/ws/streams/1/chat", tokenFor(t, bob))
	assert.Equal(t, 2, viewerCount(t, next(t, back, core.EventViewerCount)))
}

func TestBanRequestValidation(t *testing.T) {
	s := newServer(t)
	tok := tokenFor(t, streamer)

	resp, _ := s.do(t, stdhttp.MethodPost, "/api/bans", "", BanRequest{BannedUserID: 3})
	assert.Equal(t, stdhttp.StatusUnauthorized, resp.StatusCode)

	resp, _ = s.do(t, stdhttp.MethodPost, "/api/bans", tok, map[string]any{"reason": "x"})
	assert.Equal(t, stdhttp.StatusBadRequest, resp.StatusCode)

	resp, _ = s.do(t, stdhttp.MethodPost, "/api/bans", tok, BanRequest{BannedUserID: int64(streamer.ID)})
	assert.Equal(t, stdhttp.StatusBadRequest, resp.StatusCode)

	resp, _ = s.do(t, stdhttp.MethodPost, "/api/bans", tok, BanRequest{BannedUserID: 99})
	assert.Equal(t, stdhttp.StatusNotFound, resp.StatusCode)

	resp, _ = s.do(t, stdhttp.MethodGet, "/api/bans", "", nil)
	assert.Equal(t, stdhttp.StatusUnauthorized, resp.StatusCode)

	resp, _ = s.do(t, stdhttp.MethodDelete, "/api/bans/abc", tok, nil)
	assert.Equal(t, stdhttp.StatusBadRequest, resp.StatusCode)

	resp, _ = s.do(t, stdhttp.MethodGet, "/api/streams/9/presence", "", nil)
	assert.Equal(t, stdhttp.StatusNotFound, resp.StatusCode)
}

func TestCredentialMiddleware(t *testing.T) {
	r := httptest.NewRecorder()
	_, engine := gin.CreateTestContext(r)
	var got string
	engine.GET("/x", CredentialMiddleware(), func(c *gin.Context) { got = c.GetString(credentialKey) })

	req := httptest.NewRequest(stdhttp.MethodGet, "/x", nil)
	req.Header.Set("Authorization", "Bearer abc")
	engine.ServeHTTP(r, req)
	assert.Equal(t, "abc", got)

	req = httptest.NewRequest(stdhttp.MethodGet, "/x?token=q", nil)
	req.Header.Set("Authorization", "Bearer abc")
	engine.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, "q", got)
}
