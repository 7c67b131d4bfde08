package config

import (
	"fmt"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// flagKeys maps command-line flags to configuration keys.
var flagKeys = map[string]string{
	"seed":      "seed",
	"mode":      "mode",
	"blue":      "agents.blue.policy",
	"red":       "agents.red.policy",
	"tick-rate": "tickRate",
	"max-ticks": "match.maxTicks",
	"realtime":  "match.realtime",
	"log-level": "logging.level",
	"log-sinks": "logging.sinks",
	"spectate":  "spectator.enabled",
	"addr":      "spectator.addr",
	"metrics":   "metrics.enabled",
}

// Flags registers command-line overrides on fs. Only flags the user sets
// take precedence over the environment and the config file.
func Flags(fs *pflag.FlagSet) {
	fs.String("seed", "", "arena seed")
	fs.String("mode", "", "layout: ai_vs_ai, human_vs_ai or human_vs_human")
	fs.String("blue", "", "blue policy: reactive, strategic or manual")
	fs.String("red", "", "red policy: reactive, strategic or manual")
	fs.Int("tick-rate", 60, "simulation ticks per second")
	fs.Uint64("max-ticks", 0, "stop after this many ticks (0 = until a tank is destroyed)")
	fs.Bool("realtime", true, "pace ticks at the tick rate instead of running flat out")
	fs.String("log-level", "info", "process log level")
	fs.StringSlice("log-sinks", nil, "event sinks: console, json, zerolog, memory")
	fs.Bool("spectate", false, "serve the spectator websocket feed")
	fs.String("addr", ":8090", "spectator listen address")
	fs.Bool("metrics", false, "record OpenTelemetry metrics")
}

// BindFlags attaches the flags registered by Flags to their configuration
// keys. Call it before Load.
func BindFlags(fs *pflag.FlagSet) error {
	for name, key := range flagKeys {
		flag := fs.Lookup(name)
		if flag == nil {
			continue
		}
		if err := viper.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("bind flag %s: %w", name, err)
		}
	}
	return nil
}
