package network

import (
	"context"

	"tank-arena/logging"
)

const (
	// EventSpectatorJoined is emitted when a spectator websocket is accepted.
	EventSpectatorJoined logging.EventType = "network.spectator_joined"
	// EventSpectatorLeft is emitted when a spectator is dropped.
	EventSpectatorLeft logging.EventType = "network.spectator_left"
)

// SpectatorPayload captures the connection count after the change.
type SpectatorPayload struct {
	Remote     string `json:"remote,omitempty"`
	Spectators int    `json:"spectators"`
	Reason     string `json:"reason,omitempty"`
}

// SpectatorJoined publishes a spectator connect event.
func SpectatorJoined(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload SpectatorPayload, extra map[string]any) {
	if pub == nil {
		return
	}
	event := logging.Event{
		Type:     EventSpectatorJoined,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityInfo,
		Category: "network",
		Payload:  payload,
		Extra:    extra,
	}
	pub.Publish(ctx, event)
}

// SpectatorLeft publishes a spectator disconnect event.
func SpectatorLeft(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload SpectatorPayload, extra map[string]any) {
	if pub == nil {
		return
	}
	event := logging.Event{
		Type:     EventSpectatorLeft,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityInfo,
		Category: "network",
		Payload:  payload,
		Extra:    extra,
	}
	pub.Publish(ctx, event)
}
