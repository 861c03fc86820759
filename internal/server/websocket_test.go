package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/jahlib/czech-fool/internal/game"
	"github.com/jahlib/czech-fool/internal/registry"
)

type nopStore struct{}

func (nopStore) SaveRoom(context.Context, *game.Snapshot) error { return nil }
func (nopStore) LoadRoom(context.Context, string) (*game.Snapshot, error) {
	return nil, nil
}
func (nopStore) DeleteRoom(context.Context, string) error   { return nil }
func (nopStore) ListRoomIDs(context.Context) ([]string, error) { return nil, nil }
func (nopStore) PurgeInactiveSince(context.Context, time.Duration) (int, error) {
	return 0, nil
}

func dialTestServer(t *testing.T) *websocket.Conn {
	t.Helper()
	reg := registry.New(nopStore{}, zaptest.NewLogger(t), registry.Options{})
	srv := httptest.NewServer(NewHandler(reg, zaptest.NewLogger(t)))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) map[string]any {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)
	var ev map[string]any
	require.NoError(t, json.Unmarshal(raw, &ev))
	return ev
}

func TestConnectReceivesRoomsList(t *testing.T) {
	conn := dialTestServer(t)
	ev := readEvent(t, conn)
	assert.Equal(t, "rooms_list", ev["type"])
}

func TestCreateRoomOverWire(t *testing.T) {
	conn := dialTestServer(t)
	readEvent(t, conn) // initial rooms_list

	require.NoError(t, conn.WriteJSON(map[string]any{
		"type":     "create_room",
		"nickname": "Anna",
	}))

	ev := readEvent(t, conn)
	assert.Equal(t, "room_created", ev["type"])
	assert.NotEmpty(t, ev["player_id"])
	assert.NotEmpty(t, ev["room_id"])
}

func TestMalformedMessageGetsError(t *testing.T) {
	conn := dialTestServer(t)
	readEvent(t, conn)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{not json")))
	ev := readEvent(t, conn)
	assert.Equal(t, "error", ev["type"])
}

func TestUnknownActionGetsError(t *testing.T) {
	conn := dialTestServer(t)
	readEvent(t, conn)

	require.NoError(t, conn.WriteJSON(map[string]any{"type": "fly_to_moon"}))
	ev := readEvent(t, conn)
	assert.Equal(t, "error", ev["type"])
}

func TestStaticHandlerSPAFallback(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>app</html>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.js"), []byte("console.log(1)"), 0o644))

	srv := httptest.NewServer(StaticHandler(dir))
	t.Cleanup(srv.Close)

	for _, tt := range []struct {
		path   string
		status int
	}{
		{"/", http.StatusOK},
		{"/app.js", http.StatusOK},
		{"/rooms/abc", http.StatusOK},     // client route falls back to index
		{"/missing.png", http.StatusNotFound}, // assets do not
	} {
		resp, err := http.Get(srv.URL + tt.path)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, tt.status, resp.StatusCode, tt.path)
	}
}
