package sinks

import (
	"context"

	"github.com/rs/zerolog"

	"tank-arena/logging"
)

// Zerolog forwards events to a zerolog.Logger, mapping severities onto
// zerolog levels and flattening actor and targets into fields.
type Zerolog struct {
	logger zerolog.Logger
}

// NewZerolog wraps logger as a sink.
func NewZerolog(logger zerolog.Logger) *Zerolog {
	return &Zerolog{logger: logger}
}

// Write satisfies logging.Sink.
func (s *Zerolog) Write(event logging.Event) error {
	entry := s.logger.WithLevel(zerologLevel(event.Severity))
	if entry == nil {
		return nil
	}
	entry = entry.
		Uint64("tick", event.Tick).
		Str("category", event.Category).
		Str("actor", formatEntity(event.Actor))
	if !event.Time.IsZero() {
		entry = entry.Time("eventTime", event.Time)
	}
	if len(event.Targets) > 0 {
		targets := make([]string, 0, len(event.Targets))
		for _, target := range event.Targets {
			targets = append(targets, formatEntity(target))
		}
		entry = entry.Strs("targets", targets)
	}
	if event.Payload != nil {
		entry = entry.Interface("payload", event.Payload)
	}
	if len(event.Extra) > 0 {
		entry = entry.Fields(event.Extra)
	}
	if event.MatchID != "" {
		entry = entry.Str("matchId", event.MatchID)
	}
	entry.Msg(string(event.Type))
	return nil
}

// Close satisfies logging.Sink.
func (s *Zerolog) Close(context.Context) error {
	return nil
}

func zerologLevel(severity logging.Severity) zerolog.Level {
	switch severity {
	case logging.SeverityDebug:
		return zerolog.DebugLevel
	case logging.SeverityInfo:
		return zerolog.InfoLevel
	case logging.SeverityWarn:
		return zerolog.WarnLevel
	case logging.SeverityError:
		return zerolog.ErrorLevel
	default:
		return zerolog.NoLevel
	}
}
