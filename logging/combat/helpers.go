package combat

import (
	"context"

	"tank-arena/logging"
)

const (
	// EventProjectileHit is emitted when a projectile strikes an agent or obstacle.
	EventProjectileHit logging.EventType = "combat.projectile_hit"
	// EventDefeat is emitted when an agent is destroyed.
	EventDefeat logging.EventType = "combat.defeat"
)

// HitPayload captures the damage dealt and where it landed.
type HitPayload struct {
	Damage    int     `json:"damage"`
	TargetHP  int     `json:"targetHp"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Destroyed bool    `json:"destroyed"`
}

// DefeatPayload describes the destroyed agent.
type DefeatPayload struct {
	Team string `json:"team"`
}

// ProjectileHit publishes a hit by actor's projectile on target.
func ProjectileHit(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, target logging.EntityRef, payload HitPayload, extra map[string]any) {
	if pub == nil {
		return
	}
	event := logging.Event{
		Type:     EventProjectileHit,
		Tick:     tick,
		Actor:    actor,
		Targets:  []logging.EntityRef{target},
		Severity: logging.SeverityInfo,
		Category: logging.CategoryCombat,
		Payload:  payload,
		Extra:    extra,
	}
	pub.Publish(ctx, event)
}

// Defeat publishes a defeat event for the destroyed target.
func Defeat(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, target logging.EntityRef, payload DefeatPayload, extra map[string]any) {
	if pub == nil {
		return
	}
	event := logging.Event{
		Type:     EventDefeat,
		Tick:     tick,
		Actor:    actor,
		Targets:  []logging.EntityRef{target},
		Severity: logging.SeverityWarn,
		Category: logging.CategoryCombat,
		Payload:  payload,
		Extra:    extra,
	}
	pub.Publish(ctx, event)
}
