package net

import (
	"encoding/json"
	nethttp "net/http"
	"time"

	"tank-arena/internal/net/ws"
	"tank-arena/internal/observability"
	"tank-arena/internal/telemetry"
	"tank-arena/logging"
)

type HTTPHandlerConfig struct {
	Logger        telemetry.Logger
	Counters      *telemetry.Counters
	TickRate      int
	MatchID       string
	// Events reports event router throughput for diagnostics. Optional.
	Events        func() logging.RouterStats
	Observability observability.Config
}

// NewHTTPHandler serves the spectator endpoints: liveness, the latest
// snapshot, diagnostics and the websocket feed.
func NewHTTPHandler(hub *ws.Hub, cfg HTTPHandlerConfig) nethttp.Handler {
	mux := nethttp.NewServeMux()
	spectate := ws.NewHandler(hub, ws.HandlerConfig{Logger: cfg.Logger})

	mux.HandleFunc("/health", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("ok"))
	})

	mux.HandleFunc("/snapshot", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		if r.Method != nethttp.MethodGet {
			httpError(w, "method not allowed", nethttp.StatusMethodNotAllowed)
			return
		}
		data, _, ok := hub.Latest()
		if !ok {
			httpError(w, "no snapshot yet", nethttp.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
	})

	mux.HandleFunc("/diagnostics", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		_, tick, _ := hub.Latest()
		var counters map[string]uint64
		if cfg.Counters != nil {
			counters = cfg.Counters.Snapshot()
		}
		var events *logging.RouterStats
		if cfg.Events != nil {
			stats := cfg.Events()
			events = &stats
		}
		payload := struct {
			Status     string               `json:"status"`
			MatchID    string               `json:"matchId,omitempty"`
			ServerTime int64                `json:"serverTime"`
			TickRate   int                  `json:"tickRate"`
			Tick       uint64               `json:"tick"`
			Spectators int                  `json:"spectators"`
			Telemetry  map[string]uint64    `json:"telemetry"`
			Events     *logging.RouterStats `json:"events,omitempty"`
		}{
			Status:     "ok",
			MatchID:    cfg.MatchID,
			ServerTime: time.Now().UnixMilli(),
			TickRate:   cfg.TickRate,
			Tick:       tick,
			Spectators: hub.Count(),
			Telemetry:  counters,
			Events:     events,
		}

		data, err := json.Marshal(payload)
		if err != nil {
			httpError(w, "failed to encode", nethttp.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
	})

	mux.HandleFunc("/spectate", spectate.Handle)
	observability.Mount(mux, cfg.Observability)

	return mux
}

func httpError(w nethttp.ResponseWriter, message string, status int) {
	nethttp.Error(w, message, status)
}
