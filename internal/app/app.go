package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"tank-arena/internal/ai"
	"tank-arena/internal/config"
	servernet "tank-arena/internal/net"
	"tank-arena/internal/net/ws"
	"tank-arena/internal/observability"
	"tank-arena/internal/sim"
	"tank-arena/internal/telemetry"
	"tank-arena/internal/world"
	"tank-arena/logging"
	loggingSinks "tank-arena/logging/sinks"
)

const shutdownTimeout = 5 * time.Second

type Config struct {
	Settings config.Settings
	// Stdout receives console sink lines. Defaults to os.Stdout.
	Stdout io.Writer
	// Stderr receives process logs. Defaults to os.Stderr.
	Stderr io.Writer
	// Input drives manual seats. Defaults to an idle source.
	Input ai.InputSource
	// Meter backs OpenTelemetry metrics when Settings.Metrics is set. Nil
	// uses the global meter provider.
	Meter metric.Meter
	// Ready, when set, receives the spectator listener address once bound.
	Ready func(addr string)
}

// Result summarizes a finished match.
type Result struct {
	sim.LoopResult
	MatchID   string
	Telemetry map[string]uint64
}

// Run plays one round with the configured drivers and returns once it ends,
// hits the tick cap, or ctx is canceled.
func Run(ctx context.Context, cfg Config) (Result, error) {
	settings := cfg.Settings
	if err := settings.Validate(); err != nil {
		return Result{}, err
	}
	stdout := cfg.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	stderr := cfg.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}

	processLogger := telemetry.NewProcessLogger(stderr, settings.Logging.Level, settings.Logging.Color)
	logger := telemetry.WrapZerolog(processLogger)
	matchID := fmt.Sprintf("%s-%d", settings.Arena.Normalized().Seed, time.Now().Unix())

	router, closeSinks, err := newRouter(settings, matchID, stdout, processLogger)
	if err != nil {
		return Result{}, fmt.Errorf("failed to construct logging router: %w", err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if cerr := router.Close(closeCtx); cerr != nil {
			logger.Printf("failed to close logging router: %v", cerr)
		}
		closeSinks()
	}()

	counters := telemetry.NewCounters()
	var metrics telemetry.Metrics = counters
	if settings.Metrics {
		metrics = telemetry.Fanout(counters, telemetry.NewOTel(cfg.Meter, attribute.String("match", matchID)))
	}

	w := world.New(settings.Arena, world.Deps{Publisher: router})
	w.SetupRound(ctx)

	drivers := []sim.Driver{
		newDriver(w, world.TeamBlue, settings.Agents.Blue, cfg.Input, metrics),
		newDriver(w, world.TeamRed, settings.Agents.Red, cfg.Input, metrics),
	}

	var observers []sim.Observer
	if settings.Spectator.Enabled {
		hub := ws.NewHub(ws.HubConfig{
			TickRate:   settings.Match.TickRate,
			EveryTicks: settings.Spectator.EveryTicks,
			Publisher:  router,
			Metrics:    metrics,
			Logger:     logger,
		})
		defer hub.Close()
		observers = append(observers, hub)

		stop, err := serveSpectators(settings, hub, counters, router.Stats, matchID, logger, cfg.Ready)
		if err != nil {
			return Result{}, err
		}
		defer stop()
	}

	logger.Printf("match %s starting: mode=%s blue=%s red=%s", matchID, settings.Arena.Mode, settings.Agents.Blue, settings.Agents.Red)
	loop := sim.NewLoop(sim.NewMatch(w, drivers...), sim.LoopConfig{
		TickRate: settings.Match.TickRate,
		MaxTicks: settings.Match.MaxTicks,
		Realtime: settings.Match.Realtime,
	}, sim.Deps{
		Logger:    logger,
		Metrics:   metrics,
		Publisher: router,
	}, observers...)

	result := loop.Run(ctx)
	return Result{LoopResult: result, MatchID: matchID, Telemetry: counters.Snapshot()}, nil
}

func newDriver(w *world.World, team world.Team, policy ai.Policy, input ai.InputSource, metrics telemetry.Metrics) sim.Driver {
	if policy == ai.PolicyManual {
		return ai.NewManual(team, input, w, ai.WithMetrics(metrics))
	}
	return ai.NewController(team, policy, w,
		ai.WithRandom(w.SubsystemRNG("ai."+string(team))),
		ai.WithMetrics(metrics),
	)
}

func newRouter(settings config.Settings, matchID string, stdout io.Writer, processLogger zerolog.Logger) (*logging.Router, func(), error) {
	logCfg := logging.DefaultConfig()
	logCfg.EnabledSinks = settings.Logging.Sinks
	logCfg.MatchID = matchID
	logCfg.MinimumSeverity = logging.ParseSeverity(settings.Logging.Level)
	logCfg.JSON.FilePath = settings.Logging.JSONPath
	if err := logCfg.Validate(); err != nil {
		return nil, nil, err
	}

	var (
		named []logging.NamedSink
		files []*os.File
	)
	closeFiles := func() {
		for _, f := range files {
			f.Close()
		}
	}
	for _, name := range logCfg.EnabledSinks {
		switch name {
		case logging.SinkConsole:
			named = append(named, logging.NamedSink{Name: name, Sink: loggingSinks.NewConsoleSink(stdout, logCfg.Console)})
		case logging.SinkJSON:
			f, err := os.Create(logCfg.JSON.FilePath)
			if err != nil {
				closeFiles()
				return nil, nil, fmt.Errorf("open json sink: %w", err)
			}
			files = append(files, f)
			named = append(named, logging.NamedSink{Name: name, Sink: loggingSinks.NewJSON(f, logCfg.JSON.FlushInterval)})
		case logging.SinkZerolog:
			named = append(named, logging.NamedSink{Name: name, Sink: loggingSinks.NewZerolog(processLogger)})
		case logging.SinkMemory:
			named = append(named, logging.NamedSink{Name: name, Sink: loggingSinks.NewMemorySink()})
		}
	}

	router, err := logging.NewRouter(nil, logCfg, named)
	if err != nil {
		closeFiles()
		return nil, nil, err
	}
	return router, closeFiles, nil
}

func serveSpectators(settings config.Settings, hub *ws.Hub, counters *telemetry.Counters, events func() logging.RouterStats, matchID string, logger telemetry.Logger, ready func(string)) (func(), error) {
	listener, err := net.Listen("tcp", settings.Spectator.Addr)
	if err != nil {
		return nil, fmt.Errorf("spectator listen on %s: %w", settings.Spectator.Addr, err)
	}

	handler := servernet.NewHTTPHandler(hub, servernet.HTTPHandlerConfig{
		Logger:        logger,
		Counters:      counters,
		TickRate:      settings.Match.TickRate,
		MatchID:       matchID,
		Events:        events,
		Observability: observability.Config{EnablePprof: settings.Spectator.Pprof},
	})
	srv := &http.Server{Handler: handler, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Printf("spectator server failed: %v", err)
		}
	}()
	logger.Printf("spectator feed listening on %s", listener.Addr())
	if ready != nil {
		ready(listener.Addr().String())
	}

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Printf("spectator server shutdown: %v", err)
		}
	}, nil
}
