package telemetry

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/hyperwave/internal/rng"
	"github.com/vovakirdan/hyperwave/internal/sim"
)

func quietHub() *Hub {
	return NewHub(log.New(io.Discard))
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	u := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestPublishReachesClient(t *testing.T) {
	h := quietHub()
	srv := httptest.NewServer(Handler(h))
	defer srv.Close()

	conn := dial(t, srv)
	require.Eventually(t, func() bool { return h.Clients() == 1 }, time.Second, 5*time.Millisecond)

	require.NoError(t, h.Publish(map[string]int{"step": 7}))

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var got map[string]int
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, 7, got["step"])
}

func TestNewClientReceivesLastFrame(t *testing.T) {
	h := quietHub()
	require.NoError(t, h.Publish(map[string]string{"hello": "world"}))

	srv := httptest.NewServer(Handler(h))
	defer srv.Close()

	conn := dial(t, srv)
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var got map[string]string
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, "world", got["hello"])
}

func TestSnapshotEndpoint(t *testing.T) {
	h := quietHub()
	srv := httptest.NewServer(Handler(h))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/snapshot")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	require.NoError(t, h.Publish(map[string]int{"step": 1}))
	resp, err = http.Get(srv.URL + "/snapshot")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	body, _ := io.ReadAll(resp.Body)
	assert.JSONEq(t, `{"step":1}`, string(body))
}

func TestClientDisconnectUnregisters(t *testing.T) {
	h := quietHub()
	srv := httptest.NewServer(Handler(h))
	defer srv.Close()

	conn := dial(t, srv)
	require.Eventually(t, func() bool { return h.Clients() == 1 }, time.Second, 5*time.Millisecond)

	conn.Close()
	require.Eventually(t, func() bool { return h.Clients() == 0 }, time.Second, 5*time.Millisecond)
	assert.NoError(t, h.Publish(1), "publishing with no clients is fine")
}

func TestPublishRejectsUnencodable(t *testing.T) {
	h := quietHub()
	assert.Error(t, h.Publish(func() {}))
	assert.Nil(t, h.Last())
}

func TestObserveStreamsGameSnapshots(t *testing.T) {
	h := quietHub()
	srv := httptest.NewServer(Handler(h))
	defer srv.Close()

	opts := sim.DefaultOptions()
	opts.Seed = rng.Seed(1)
	opts.Logger = log.New(io.Discard)
	g := sim.New(opts)
	g.Actions().SetupCollisionGrid(64, 320, 480, 0, 0)
	g.Actions().SetupWaveScheduler(nil, nil)
	h.Observe(g, 2)

	conn := dial(t, srv)
	require.Eventually(t, func() bool { return h.Clients() == 1 }, time.Second, 5*time.Millisecond)

	g.Step(1000.0 / 60)
	assert.Nil(t, h.Last(), "step 1 is skipped")
	g.Step(1000.0 / 60)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var snap sim.Snapshot
	require.NoError(t, conn.ReadJSON(&snap))
	assert.Equal(t, uint64(2), snap.Step)
	require.NotNil(t, snap.Grid)
	assert.Equal(t, 5, snap.Grid.Cols)
	require.NotNil(t, snap.State)
	assert.Equal(t, 3, snap.State.Lives)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(h.Last(), &raw))
	assert.Contains(t, raw, "entities")
}

func TestServeShutsDownOnCancel(t *testing.T) {
	h := quietHub()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Serve(ctx, ln, h) }()

	u := "ws://" + ln.Addr().String() + "/ws"
	var conn *websocket.Conn
	require.Eventually(t, func() bool {
		conn, _, err = websocket.DefaultDialer.Dial(u, nil)
		return err == nil
	}, 2*time.Second, 10*time.Millisecond)
	defer conn.Close()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return")
	}
	assert.Equal(t, 0, h.Clients())
}
