package app

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tank-arena/internal/ai"
	"tank-arena/internal/config"
	"tank-arena/internal/sim"
	"tank-arena/internal/telemetry"
	"tank-arena/internal/world"
	"tank-arena/logging"
)

func headlessSettings() config.Settings {
	arena := world.DefaultConfig()
	arena.Seed = "app-test"
	return config.Settings{
		Arena:   arena,
		Agents:  config.AgentsConfig{Blue: ai.PolicyReactive, Red: ai.PolicyStrategic},
		Match:   config.MatchConfig{TickRate: 60, MaxTicks: 240},
		Logging: config.LoggingConfig{Sinks: []string{logging.SinkMemory}, Level: "info"},
	}
}

func TestRunHeadlessMatch(t *testing.T) {
	var stderr bytes.Buffer
	result, err := Run(context.Background(), Config{Settings: headlessSettings(), Stderr: &stderr})
	require.NoError(t, err)

	assert.Contains(t, []string{sim.StopMaxTicks, sim.StopRoundOver}, result.Reason)
	assert.LessOrEqual(t, result.Ticks, uint64(240))
	assert.Equal(t, result.Ticks, result.Telemetry[telemetry.MetricTicks])
	assert.Contains(t, result.MatchID, "app-test")
	assert.Contains(t, stderr.String(), "match stopped")
}

func TestRunWritesJSONEvents(t *testing.T) {
	settings := headlessSettings()
	settings.Match.MaxTicks = 30
	settings.Logging.Sinks = []string{logging.SinkJSON, logging.SinkConsole}
	settings.Logging.Level = "debug"
	settings.Logging.JSONPath = filepath.Join(t.TempDir(), "events.ndjson")

	var stdout bytes.Buffer
	_, err := Run(context.Background(), Config{Settings: settings, Stdout: &stdout, Stderr: io.Discard})
	require.NoError(t, err)

	assert.FileExists(t, settings.Logging.JSONPath)
	assert.Contains(t, stdout.String(), "lifecycle.round_started")
}

func TestRunHumanSeatsIdle(t *testing.T) {
	settings := headlessSettings()
	settings.Arena.Mode = world.ModeHumanVsHuman
	settings.Agents = config.AgentsConfig{Blue: ai.PolicyManual, Red: ai.PolicyManual}
	settings.Match.MaxTicks = 10

	result, err := Run(context.Background(), Config{Settings: settings, Stderr: io.Discard})
	require.NoError(t, err)
	assert.Equal(t, sim.StopMaxTicks, result.Reason)
	assert.Zero(t, result.Telemetry[telemetry.MetricShots])
}

func TestRunRejectsInvalidSettings(t *testing.T) {
	settings := headlessSettings()
	settings.Logging.Sinks = []string{"syslog"}
	_, err := Run(context.Background(), Config{Settings: settings, Stderr: io.Discard})
	assert.Error(t, err)
}

func TestRunServesSpectators(t *testing.T) {
	settings := headlessSettings()
	settings.Arena.Mode = world.ModeHumanVsHuman
	settings.Agents = config.AgentsConfig{Blue: ai.PolicyManual, Red: ai.PolicyManual}
	settings.Match = config.MatchConfig{TickRate: 60, Realtime: true}
	settings.Spectator = config.SpectatorConfig{Enabled: true, Addr: "127.0.0.1:0", EveryTicks: 1}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	addrs := make(chan string, 1)
	done := make(chan Result, 1)
	go func() {
		result, err := Run(ctx, Config{Settings: settings, Stderr: io.Discard, Ready: func(addr string) { addrs <- addr }})
		assert.NoError(t, err)
		done <- result
	}()

	var addr string
	select {
	case addr = <-addrs:
	case <-time.After(5 * time.Second):
		t.Fatal("spectator listener never became ready")
	}

	resp, err := http.Get("http://" + addr + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/snapshot")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case result := <-done:
		assert.Equal(t, sim.StopCanceled, result.Reason)
	case <-time.After(5 * time.Second):
		t.Fatal("match did not stop after cancel")
	}
}
