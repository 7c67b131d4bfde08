package ws

import (
	"context"
	"sync"

	"tank-arena/internal/net/proto"
	"tank-arena/internal/telemetry"
	"tank-arena/internal/world"
	"tank-arena/logging"
	"tank-arena/logging/network"
)

const (
	// sendBuffer is how many frames a spectator may fall behind before
	// frames are skipped for it.
	sendBuffer = 8

	DefaultEveryTicks = 2
)

// HubConfig tunes snapshot fan-out.
type HubConfig struct {
	TickRate   int
	EveryTicks int
	Publisher  logging.Publisher
	Metrics    telemetry.Metrics
	Logger     telemetry.Logger
}

type spectator struct {
	remote string
	send   chan []byte
}

// Hub fans arena snapshots out to connected spectators. Observe runs on the
// simulation goroutine and never blocks on a slow connection.
type Hub struct {
	cfg HubConfig

	mu         sync.Mutex
	spectators map[*spectator]struct{}
	latest     []byte
	tick       uint64
}

// NewHub returns a hub with no spectators.
func NewHub(cfg HubConfig) *Hub {
	if cfg.EveryTicks <= 0 {
		cfg.EveryTicks = DefaultEveryTicks
	}
	if cfg.Publisher == nil {
		cfg.Publisher = logging.NopPublisher()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = telemetry.Nop{}
	}
	if cfg.Logger == nil {
		cfg.Logger = telemetry.LoggerFunc(func(string, ...any) {})
	}
	return &Hub{cfg: cfg, spectators: make(map[*spectator]struct{})}
}

// Observe snapshots the world every EveryTicks ticks, and always once the
// round is over, then broadcasts the encoded frame.
func (h *Hub) Observe(tick uint64, w *world.World) {
	_, over := w.RoundOver()
	if tick%uint64(h.cfg.EveryTicks) != 0 && !over {
		return
	}
	data, err := proto.Encode(proto.NewSnapshot(w.Snapshot()))
	if err != nil {
		h.cfg.Logger.Printf("spectator snapshot encode failed at tick %d: %v", tick, err)
		return
	}
	h.Broadcast(tick, data)
}

// Broadcast stores data as the latest frame and queues it for every
// spectator. Spectators whose queue is full skip the frame.
func (h *Hub) Broadcast(tick uint64, data []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.latest = data
	h.tick = tick
	for s := range h.spectators {
		select {
		case s.send <- data:
		default:
		}
	}
}

// Latest returns the most recent encoded snapshot, if any.
func (h *Hub) Latest() ([]byte, uint64, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.latest, h.tick, h.latest != nil
}

// Count reports connected spectators.
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.spectators)
}

func (h *Hub) join(ctx context.Context, remote string) *spectator {
	s := &spectator{remote: remote, send: make(chan []byte, sendBuffer)}
	h.mu.Lock()
	h.spectators[s] = struct{}{}
	if h.latest != nil {
		s.send <- h.latest
	}
	count, tick := len(h.spectators), h.tick
	h.mu.Unlock()

	h.cfg.Metrics.Store(telemetry.MetricSpectators, uint64(count))
	network.SpectatorJoined(ctx, h.cfg.Publisher, tick, spectatorRef(remote), network.SpectatorPayload{
		Remote:     remote,
		Spectators: count,
	}, nil)
	return s
}

func (h *Hub) leave(ctx context.Context, s *spectator, reason string) {
	h.mu.Lock()
	if _, ok := h.spectators[s]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.spectators, s)
	close(s.send)
	count, tick := len(h.spectators), h.tick
	h.mu.Unlock()

	h.cfg.Metrics.Store(telemetry.MetricSpectators, uint64(count))
	network.SpectatorLeft(ctx, h.cfg.Publisher, tick, spectatorRef(s.remote), network.SpectatorPayload{
		Remote:     s.remote,
		Spectators: count,
		Reason:     reason,
	}, nil)
}

func spectatorRef(remote string) logging.EntityRef {
	return logging.EntityRef{ID: remote, Kind: logging.EntityKindUnknown}
}

// Close disconnects every spectator.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for s := range h.spectators {
		delete(h.spectators, s)
		close(s.send)
	}
	h.cfg.Metrics.Store(telemetry.MetricSpectators, 0)
}
