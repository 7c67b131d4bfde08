package ai

import (
	"fmt"
	"strings"
)

// Policy selects how an agent is driven.
type Policy string

const (
	PolicyReactive  Policy = "reactive"
	PolicyStrategic Policy = "strategic"
	PolicyManual    Policy = "manual"
)

// ParsePolicy validates a policy name.
func ParsePolicy(name string) (Policy, error) {
	switch policy := Policy(strings.ToLower(strings.TrimSpace(name))); policy {
	case PolicyReactive, PolicyStrategic, PolicyManual:
		return policy, nil
	default:
		return "", fmt.Errorf("ai: unknown policy %q", name)
	}
}

// Probabilities used by the strategic policy.
const (
	StrategicReevaluateChance       = 0.03
	StrategicStalePathChance        = 0.02
	StrategicSuppressiveFireChance  = 0.10
	StrategicClearPathFireChance    = 0.30
	StrategicAreaDenialChance       = 0.02
	StrategicObstacleDiscardChance  = 0.30
	StrategicCollisionDiscardChance = 0.50
)

// Alignment and path-following tolerances. The two policies deliberately
// keep different values.
const (
	ReactiveAlignmentDeadZone  = 0.0
	StrategicAlignmentDeadZone = 10.0
	ReactiveWaypointTolerance  = 0.0
	StrategicWaypointTolerance = 2.0
)

const (
	// DefaultStallTicks is how long an agent may make no progress before its
	// path is recomputed.
	DefaultStallTicks = 30

	StrategicCooldownReduction = 10
	StrategicMinCooldown       = 20

	// PathBlockRadiusSq and PathBlockLookahead define when the opponent is
	// considered to be standing on the upcoming route.
	PathBlockRadiusSq  = 400.0
	PathBlockLookahead = 3
)

// Profile bundles the tunables of one policy.
type Profile struct {
	Policy Policy

	AlignmentDeadZone float64
	WaypointTolerance float64
	StallTicks        int

	ReevaluateChance       float64
	StalePathChance        float64
	AvoidOpponentOnPath    bool
	ObstacleDiscardChance  float64
	CollisionDiscardChance float64

	SuppressiveFireChance float64
	ClearPathFireChance   float64
	AreaDenialChance      float64
	CooldownReduction     int
	MinCooldown           int
}

// ReactiveProfile is the visibility-gated rule chain: deterministic, always
// replans after a collision and only fires when aligned.
func ReactiveProfile() Profile {
	return Profile{
		Policy:                 PolicyReactive,
		AlignmentDeadZone:      ReactiveAlignmentDeadZone,
		WaypointTolerance:      ReactiveWaypointTolerance,
		StallTicks:             DefaultStallTicks,
		CollisionDiscardChance: 1,
		MinCooldown:            1,
	}
}

// StrategicProfile is the weighted-priority planner.
func StrategicProfile() Profile {
	return Profile{
		Policy:                 PolicyStrategic,
		AlignmentDeadZone:      StrategicAlignmentDeadZone,
		WaypointTolerance:      StrategicWaypointTolerance,
		StallTicks:             DefaultStallTicks,
		ReevaluateChance:       StrategicReevaluateChance,
		StalePathChance:        StrategicStalePathChance,
		AvoidOpponentOnPath:    true,
		ObstacleDiscardChance:  StrategicObstacleDiscardChance,
		CollisionDiscardChance: StrategicCollisionDiscardChance,
		SuppressiveFireChance:  StrategicSuppressiveFireChance,
		ClearPathFireChance:    StrategicClearPathFireChance,
		AreaDenialChance:       StrategicAreaDenialChance,
		CooldownReduction:      StrategicCooldownReduction,
		MinCooldown:            StrategicMinCooldown,
	}
}

// ProfileFor returns the default profile of an autonomous policy.
func ProfileFor(policy Policy) Profile {
	if policy == PolicyStrategic {
		return StrategicProfile()
	}
	return ReactiveProfile()
}
