package world

import "strings"

const (
	DefaultSeed           = "two-tanks"
	DefaultWidth          = 640.0
	DefaultHeight         = 480.0
	DefaultTileSize       = 32.0
	DefaultObstacleCount  = 50
	DefaultInitialPickups = 3
	DefaultMinPickups     = 4
	DefaultPickupLifetime = 900
)

// Config describes the arena a round is played in.
type Config struct {
	Seed           string  `json:"seed"`
	Width          float64 `json:"width"`
	Height         float64 `json:"height"`
	TileSize       float64 `json:"tileSize"`
	ObstacleCount  int     `json:"obstacleCount"`
	InitialPickups int     `json:"initialPickups"`
	MinPickups     int     `json:"minPickups"`
	PickupLifetime int     `json:"pickupLifetime"`
	Mode           Mode    `json:"mode"`
}

func (cfg Config) normalized() Config {
	normalized := cfg
	normalized.Seed = strings.TrimSpace(normalized.Seed)
	if normalized.Seed == "" {
		normalized.Seed = DefaultSeed
	}
	if normalized.Width <= 0 {
		normalized.Width = DefaultWidth
	}
	if normalized.Height <= 0 {
		normalized.Height = DefaultHeight
	}
	if normalized.TileSize <= 0 {
		normalized.TileSize = DefaultTileSize
	}
	if normalized.ObstacleCount < 0 {
		normalized.ObstacleCount = 0
	}
	if normalized.InitialPickups < 0 {
		normalized.InitialPickups = 0
	}
	if normalized.MinPickups < 0 {
		normalized.MinPickups = 0
	}
	if normalized.PickupLifetime <= 0 {
		normalized.PickupLifetime = DefaultPickupLifetime
	}
	if !normalized.Mode.valid() {
		normalized.Mode = ModeAIvsAI
	}
	return normalized
}

// Normalized returns the config with defaults applied to unset fields.
func (cfg Config) Normalized() Config {
	return cfg.normalized()
}

// DefaultConfig mirrors the classic 640x480 two-tank arena.
func DefaultConfig() Config {
	return Config{
		Seed:           DefaultSeed,
		Width:          DefaultWidth,
		Height:         DefaultHeight,
		TileSize:       DefaultTileSize,
		ObstacleCount:  DefaultObstacleCount,
		InitialPickups: DefaultInitialPickups,
		MinPickups:     DefaultMinPickups,
		PickupLifetime: DefaultPickupLifetime,
		Mode:           ModeAIvsAI,
	}
}

// Mode selects the starting layout of a round.
type Mode string

const (
	ModeHumanVsHuman Mode = "human_vs_human"
	ModeHumanVsAI    Mode = "human_vs_ai"
	ModeAIvsAI       Mode = "ai_vs_ai"
)

func (m Mode) valid() bool {
	switch m {
	case ModeHumanVsHuman, ModeHumanVsAI, ModeAIvsAI:
		return true
	default:
		return false
	}
}
