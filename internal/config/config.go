package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"tank-arena/internal/ai"
	"tank-arena/internal/world"
	"tank-arena/logging"
)

// FileName is the optional configuration file looked up in the config dir.
const FileName = "arena.json"

// EnvPrefix prefixes environment overrides, e.g. ARENA_ARENA_OBSTACLES.
const EnvPrefix = "ARENA"

// AgentsConfig selects the policy driving each team.
type AgentsConfig struct {
	Blue ai.Policy `json:"blue"`
	Red  ai.Policy `json:"red"`
}

// LoggingConfig selects event sinks and process log verbosity.
type LoggingConfig struct {
	Sinks    []string `json:"sinks"`
	Level    string   `json:"level"`
	JSONPath string   `json:"jsonPath"`
	Color    bool     `json:"color"`
}

// SpectatorConfig controls the read-only websocket feed.
type SpectatorConfig struct {
	Enabled    bool   `json:"enabled"`
	Addr       string `json:"addr"`
	EveryTicks int    `json:"everyTicks"`
	Pprof      bool   `json:"pprof"`
}

// MatchConfig bounds the match loop.
type MatchConfig struct {
	TickRate int    `json:"tickRate"`
	MaxTicks uint64 `json:"maxTicks"`
	Realtime bool   `json:"realtime"`
}

// Settings is the resolved process configuration.
type Settings struct {
	Arena     world.Config    `json:"arena"`
	Agents    AgentsConfig    `json:"agents"`
	Match     MatchConfig     `json:"match"`
	Logging   LoggingConfig   `json:"logging"`
	Spectator SpectatorConfig `json:"spectator"`
	Metrics   bool            `json:"metrics"`
}

func setDefaults() {
	defaults := world.DefaultConfig()
	viper.SetDefault("seed", defaults.Seed)
	viper.SetDefault("mode", string(defaults.Mode))
	viper.SetDefault("tickRate", 60)

	viper.SetDefault("arena.width", defaults.Width)
	viper.SetDefault("arena.height", defaults.Height)
	viper.SetDefault("arena.tileSize", defaults.TileSize)
	viper.SetDefault("arena.obstacles", defaults.ObstacleCount)
	viper.SetDefault("arena.initialPickups", defaults.InitialPickups)
	viper.SetDefault("arena.minPickups", defaults.MinPickups)
	viper.SetDefault("arena.pickupLifetime", defaults.PickupLifetime)

	viper.SetDefault("logging.sinks", []string{logging.SinkZerolog})
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.jsonPath", "arena-events.ndjson")
	viper.SetDefault("logging.color", true)

	viper.SetDefault("spectator.enabled", false)
	viper.SetDefault("spectator.addr", ":8090")
	viper.SetDefault("spectator.everyTicks", 2)
	viper.SetDefault("spectator.pprof", false)

	viper.SetDefault("match.maxTicks", 0)
	viper.SetDefault("match.realtime", true)

	viper.SetDefault("metrics.enabled", false)
}

// Load reads arena.json from configDir when present, applies ARENA_
// environment overrides on top of the defaults, and returns the validated
// settings. A missing file is not an error.
func Load(configDir string) (Settings, error) {
	setDefaults()

	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if configDir != "" {
		viper.SetConfigName(FileName)
		viper.SetConfigType("json")
		viper.AddConfigPath(configDir)
		if err := viper.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Settings{}, fmt.Errorf("error reading config file: %w", err)
			}
		}
	}

	settings, err := current()
	if err != nil {
		return Settings{}, err
	}
	if err := settings.Validate(); err != nil {
		return Settings{}, err
	}
	return settings, nil
}

func current() (Settings, error) {
	mode := world.Mode(viper.GetString("mode"))
	blue, err := policyFor("agents.blue.policy", mode, world.TeamBlue)
	if err != nil {
		return Settings{}, err
	}
	red, err := policyFor("agents.red.policy", mode, world.TeamRed)
	if err != nil {
		return Settings{}, err
	}

	maxTicks := viper.GetInt64("match.maxTicks")
	if maxTicks < 0 {
		return Settings{}, fmt.Errorf("match.maxTicks: must not be negative, got %d", maxTicks)
	}

	return Settings{
		Arena: world.Config{
			Seed:           viper.GetString("seed"),
			Width:          viper.GetFloat64("arena.width"),
			Height:         viper.GetFloat64("arena.height"),
			TileSize:       viper.GetFloat64("arena.tileSize"),
			ObstacleCount:  viper.GetInt("arena.obstacles"),
			InitialPickups: viper.GetInt("arena.initialPickups"),
			MinPickups:     viper.GetInt("arena.minPickups"),
			PickupLifetime: viper.GetInt("arena.pickupLifetime"),
			Mode:           mode,
		},
		Agents: AgentsConfig{Blue: blue, Red: red},
		Match: MatchConfig{
			TickRate: viper.GetInt("tickRate"),
			MaxTicks: uint64(maxTicks),
			Realtime: viper.GetBool("match.realtime"),
		},
		Logging: LoggingConfig{
			Sinks:    viper.GetStringSlice("logging.sinks"),
			Level:    viper.GetString("logging.level"),
			JSONPath: viper.GetString("logging.jsonPath"),
			Color:    viper.GetBool("logging.color"),
		},
		Spectator: SpectatorConfig{
			Enabled:    viper.GetBool("spectator.enabled"),
			Addr:       viper.GetString("spectator.addr"),
			EveryTicks: viper.GetInt("spectator.everyTicks"),
			Pprof:      viper.GetBool("spectator.pprof"),
		},
		Metrics: viper.GetBool("metrics.enabled"),
	}, nil
}

// policyFor resolves a team's policy. Unset policies default by mode: human
// seats are manual, autonomous blue is reactive and autonomous red strategic.
func policyFor(key string, mode world.Mode, team world.Team) (ai.Policy, error) {
	name := viper.GetString(key)
	if name == "" {
		return defaultPolicy(mode, team), nil
	}
	policy, err := ai.ParsePolicy(name)
	if err != nil {
		return "", fmt.Errorf("%s: %w", key, err)
	}
	return policy, nil
}

func defaultPolicy(mode world.Mode, team world.Team) ai.Policy {
	switch {
	case mode == world.ModeHumanVsHuman:
		return ai.PolicyManual
	case mode == world.ModeHumanVsAI && team == world.TeamBlue:
		return ai.PolicyManual
	case team == world.TeamBlue:
		return ai.PolicyReactive
	default:
		return ai.PolicyStrategic
	}
}

// Validate reports the first offending key.
func (s Settings) Validate() error {
	switch s.Arena.Mode {
	case world.ModeAIvsAI, world.ModeHumanVsAI, world.ModeHumanVsHuman:
	default:
		return fmt.Errorf("mode: unknown mode %q", s.Arena.Mode)
	}
	if s.Arena.Width <= 0 || s.Arena.Height <= 0 {
		return fmt.Errorf("arena.width/arena.height: must be positive, got %vx%v", s.Arena.Width, s.Arena.Height)
	}
	if s.Arena.TileSize <= 0 || s.Arena.TileSize > s.Arena.Width || s.Arena.TileSize > s.Arena.Height {
		return fmt.Errorf("arena.tileSize: must be positive and fit the arena, got %v", s.Arena.TileSize)
	}
	if s.Arena.ObstacleCount < 0 {
		return fmt.Errorf("arena.obstacles: must not be negative, got %d", s.Arena.ObstacleCount)
	}
	if s.Match.TickRate <= 0 {
		return fmt.Errorf("tickRate: must be positive, got %d", s.Match.TickRate)
	}
	if s.Spectator.Enabled && s.Spectator.EveryTicks <= 0 {
		return fmt.Errorf("spectator.everyTicks: must be positive, got %d", s.Spectator.EveryTicks)
	}
	if s.Spectator.Enabled && s.Spectator.Addr == "" {
		return errors.New("spectator.addr: required when the spectator feed is enabled")
	}
	for _, sink := range s.Logging.Sinks {
		switch sink {
		case logging.SinkConsole, logging.SinkJSON, logging.SinkZerolog, logging.SinkMemory:
		default:
			return fmt.Errorf("logging.sinks: unknown sink %q", sink)
		}
	}
	return nil
}
