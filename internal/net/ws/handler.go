package ws

import (
	"context"
	nethttp "net/http"
	"time"

	"github.com/gorilla/websocket"

	"tank-arena/internal/net/proto"
	"tank-arena/internal/telemetry"
)

const writeWait = 5 * time.Second

type HandlerConfig struct {
	Logger telemetry.Logger
}

// Handler upgrades spectator connections and streams hub frames to them.
// Spectators are read-only; anything they send is discarded.
type Handler struct {
	hub      *Hub
	logger   telemetry.Logger
	upgrader websocket.Upgrader
}

func NewHandler(hub *Hub, cfg HandlerConfig) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = hub.cfg.Logger
	}

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *nethttp.Request) bool {
			return true
		},
	}

	return &Handler{
		hub:      hub,
		logger:   logger,
		upgrader: upgrader,
	}
}

func (h *Handler) Handle(w nethttp.ResponseWriter, r *nethttp.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Printf("spectator upgrade failed for %s: %v", r.RemoteAddr, err)
		return
	}
	defer conn.Close()

	hello, err := proto.Encode(proto.NewHello(h.hub.cfg.TickRate, h.hub.cfg.EveryTicks))
	if err != nil {
		h.logger.Printf("failed to encode hello for %s: %v", r.RemoteAddr, err)
		return
	}
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteMessage(websocket.TextMessage, hello); err != nil {
		return
	}

	ctx := context.WithoutCancel(r.Context())
	s := h.hub.join(ctx, r.RemoteAddr)

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	reason := "closed"
	defer func() { h.hub.leave(ctx, s, reason) }()
	for {
		select {
		case <-closed:
			return
		case data, ok := <-s.send:
			if !ok {
				reason = "hub closed"
				return
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				reason = "write failed"
				return
			}
		}
	}
}
