package ws

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tank-arena/internal/net/proto"
	"tank-arena/logging/network"
	"tank-arena/logging/sinks"
)

func websocketURL(t *testing.T, baseURL string) string {
	t.Helper()

	parsed, err := url.Parse(baseURL)
	require.NoError(t, err)
	parsed.Scheme = "ws"
	parsed.Path = "/"
	return parsed.String()
}

func TestHandleStreamsSnapshots(t *testing.T) {
	memory := sinks.NewMemorySink()
	hub := NewHub(HubConfig{TickRate: 60, EveryTicks: 1, Publisher: memory})
	handler := NewHandler(hub, HandlerConfig{})
	srv := httptest.NewServer(http.HandlerFunc(handler.Handle))
	t.Cleanup(srv.Close)

	conn, resp, err := websocket.DefaultDialer.Dial(websocketURL(t, srv.URL), nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		if resp != nil {
			resp.Body.Close()
		}
	})

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, payload, err := conn.ReadMessage()
	require.NoError(t, err)
	var hello proto.Hello
	require.NoError(t, json.Unmarshal(payload, &hello))
	assert.Equal(t, proto.NewHello(60, 1), hello)

	w := arena(t)
	w.BeginTick()
	hub.Observe(w.Tick(), w)

	_, payload, err = conn.ReadMessage()
	require.NoError(t, err)
	snapshot, err := proto.DecodeSnapshot(payload)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), snapshot.Tick)
	assert.Eventually(t, func() bool { return hub.Count() == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")))
	conn.Close()

	assert.Eventually(t, func() bool { return hub.Count() == 0 }, 2*time.Second, 10*time.Millisecond)
	assert.Eventually(t, func() bool {
		return len(memory.OfType(network.EventSpectatorLeft)) == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestHandleRejectsPlainHTTP(t *testing.T) {
	handler := NewHandler(NewHub(HubConfig{}), HandlerConfig{})
	resp := httptest.NewRecorder()
	handler.Handle(resp, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}
