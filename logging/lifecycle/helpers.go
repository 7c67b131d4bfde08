package lifecycle

import (
	"context"

	"tank-arena/logging"
)

const (
	// EventRoundStarted is emitted once the arena has been laid out.
	EventRoundStarted logging.EventType = "lifecycle.round_started"
	// EventRoundOver is emitted when an agent is destroyed.
	EventRoundOver logging.EventType = "lifecycle.round_over"
	// EventPickupSpawned is emitted when a pickup enters the arena.
	EventPickupSpawned logging.EventType = "lifecycle.pickup_spawned"
	// EventPickupClaimed is emitted when an agent drives over a pickup.
	EventPickupClaimed logging.EventType = "lifecycle.pickup_claimed"
	// EventPickupExpired is emitted when a pickup times out unclaimed.
	EventPickupExpired logging.EventType = "lifecycle.pickup_expired"
)

// RoundStartedPayload summarises the initial layout.
type RoundStartedPayload struct {
	Mode      string `json:"mode"`
	Seed      string `json:"seed"`
	Obstacles int    `json:"obstacles"`
	Pickups   int    `json:"pickups"`
}

// RoundOverPayload names the two sides of the result.
type RoundOverPayload struct {
	Winner string `json:"winner"`
	Loser  string `json:"loser"`
}

// PickupPayload locates a pickup. Forced marks a spawn that fell back to an
// unchecked position after every safe attempt was blocked.
type PickupPayload struct {
	Reward string  `json:"reward"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Forced bool    `json:"forced,omitempty"`
}

// PickupClaimedPayload reports the claimant's stats after the reward.
type PickupClaimedPayload struct {
	Reward  string `json:"reward"`
	Applied bool   `json:"applied"`
	Rank    int    `json:"rank"`
	HP      int    `json:"hp"`
}

// RoundStarted publishes a round start event.
func RoundStarted(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload RoundStartedPayload, extra map[string]any) {
	publish(ctx, pub, EventRoundStarted, tick, actor, nil, payload, extra)
}

// RoundOver publishes the round result.
func RoundOver(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload RoundOverPayload, extra map[string]any) {
	publish(ctx, pub, EventRoundOver, tick, actor, nil, payload, extra)
}

// PickupSpawned publishes a pickup spawn event.
func PickupSpawned(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload PickupPayload, extra map[string]any) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventPickupSpawned,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityDebug,
		Category: "lifecycle",
		Payload:  payload,
		Extra:    extra,
	})
}

// PickupClaimed publishes a claim by actor of the target pickup.
func PickupClaimed(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, target logging.EntityRef, payload PickupClaimedPayload, extra map[string]any) {
	publish(ctx, pub, EventPickupClaimed, tick, actor, []logging.EntityRef{target}, payload, extra)
}

// PickupExpired publishes a pickup expiry event.
func PickupExpired(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload PickupPayload, extra map[string]any) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventPickupExpired,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityDebug,
		Category: "lifecycle",
		Payload:  payload,
		Extra:    extra,
	})
}

func publish(ctx context.Context, pub logging.Publisher, eventType logging.EventType, tick uint64, actor logging.EntityRef, targets []logging.EntityRef, payload any, extra map[string]any) {
	if pub == nil {
		return
	}
	event := logging.Event{
		Type:     eventType,
		Tick:     tick,
		Actor:    actor,
		Targets:  targets,
		Severity: logging.SeverityInfo,
		Category: "lifecycle",
		Payload:  payload,
		Extra:    extra,
	}
	pub.Publish(ctx, event)
}
