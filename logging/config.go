package logging

import (
	"fmt"
	"strings"
	"time"
)

// Sink names accepted in Config.EnabledSinks.
const (
	SinkConsole = "console"
	SinkJSON    = "json"
	SinkZerolog = "zerolog"
	SinkMemory  = "memory"
)

// Config controls the event router and its sinks.
type Config struct {
	EnabledSinks     []string
	MatchID          string
	BufferSize       int
	MinimumSeverity  Severity
	Fields           map[string]any
	JSON             JSONConfig
	Console          ConsoleConfig
	DropWarnInterval time.Duration
}

type JSONConfig struct {
	FilePath      string
	FlushInterval time.Duration
}

type ConsoleConfig struct {
	Prefix       string
	Microseconds bool
}

func DefaultConfig() Config {
	return Config{
		EnabledSinks:     []string{SinkConsole},
		BufferSize:       512,
		MinimumSeverity:  SeverityInfo,
		DropWarnInterval: 5 * time.Second,
		JSON: JSONConfig{
			FilePath:      "arena-events.ndjson",
			FlushInterval: 2 * time.Second,
		},
	}
}

// Validate rejects unknown sink names and a json sink without a path.
func (c Config) Validate() error {
	for _, name := range c.EnabledSinks {
		switch strings.TrimSpace(name) {
		case SinkConsole, SinkZerolog, SinkMemory:
		case SinkJSON:
			if strings.TrimSpace(c.JSON.FilePath) == "" {
				return fmt.Errorf("logging: json sink enabled without a file path")
			}
		default:
			return fmt.Errorf("logging: unknown sink %q", name)
		}
	}
	return nil
}

func (c Config) HasSink(name string) bool {
	for _, s := range c.EnabledSinks {
		if strings.TrimSpace(s) == name {
			return true
		}
	}
	return false
}

func (c Config) CloneFields() map[string]any {
	if len(c.Fields) == 0 {
		return nil
	}
	cloned := make(map[string]any, len(c.Fields))
	for k, v := range c.Fields {
		cloned[k] = v
	}
	return cloned
}
