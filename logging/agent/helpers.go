package agent

import (
	"context"

	"tank-arena/logging"
)

const (
	// EventTargetSelected is emitted when an agent commits to a new objective.
	EventTargetSelected logging.EventType = "agent.target_selected"
	// EventPathReplanned is emitted when an agent recomputes its route.
	EventPathReplanned logging.EventType = "agent.path_replanned"
	// EventShotFired is emitted when an agent fires.
	EventShotFired logging.EventType = "agent.shot_fired"
	// EventCollisionRollback is emitted when a move is undone after a collision.
	EventCollisionRollback logging.EventType = "agent.collision_rollback"
	// EventMovingChanged is emitted when the agent starts or stops moving.
	EventMovingChanged logging.EventType = "agent.moving_changed"
)

// TargetPayload describes the chosen objective.
type TargetPayload struct {
	Policy string  `json:"policy"`
	Kind   string  `json:"kind"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Score  int     `json:"score"`
}

// PathPayload describes a replanned route.
type PathPayload struct {
	Reason    string `json:"reason"`
	Found     bool   `json:"found"`
	Waypoints int    `json:"waypoints"`
}

// ShotPayload describes the rule that triggered a shot.
type ShotPayload struct {
	Rule     string `json:"rule"`
	Facing   string `json:"facing"`
	Cooldown int    `json:"cooldown"`
}

// CollisionPayload describes what blocked a move.
type CollisionPayload struct {
	Collider      string `json:"collider"`
	PathDiscarded bool   `json:"pathDiscarded"`
}

// MovingPayload carries the new moving state.
type MovingPayload struct {
	Moving bool `json:"moving"`
}

// TargetSelected publishes a target selection.
func TargetSelected(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload TargetPayload, extra map[string]any) {
	publish(ctx, pub, EventTargetSelected, logging.SeverityDebug, tick, actor, nil, payload, extra)
}

// PathReplanned publishes a route recomputation.
func PathReplanned(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload PathPayload, extra map[string]any) {
	publish(ctx, pub, EventPathReplanned, logging.SeverityDebug, tick, actor, nil, payload, extra)
}

// ShotFired publishes a shot.
func ShotFired(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload ShotPayload, extra map[string]any) {
	publish(ctx, pub, EventShotFired, logging.SeverityInfo, tick, actor, nil, payload, extra)
}

// CollisionRollback publishes an undone move blocked by target.
func CollisionRollback(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, target logging.EntityRef, payload CollisionPayload, extra map[string]any) {
	publish(ctx, pub, EventCollisionRollback, logging.SeverityDebug, tick, actor, []logging.EntityRef{target}, payload, extra)
}

// MovingChanged publishes a moving flag transition.
func MovingChanged(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload MovingPayload, extra map[string]any) {
	publish(ctx, pub, EventMovingChanged, logging.SeverityDebug, tick, actor, nil, payload, extra)
}

func publish(ctx context.Context, pub logging.Publisher, eventType logging.EventType, severity logging.Severity, tick uint64, actor logging.EntityRef, targets []logging.EntityRef, payload any, extra map[string]any) {
	if pub == nil {
		return
	}
	event := logging.Event{
		Type:     eventType,
		Tick:     tick,
		Actor:    actor,
		Targets:  targets,
		Severity: severity,
		Category: logging.CategoryAI,
		Payload:  payload,
		Extra:    extra,
	}
	pub.Publish(ctx, event)
}
