package ai

import (
	"math"

	"tank-arena/internal/world"
)

// TargetKind tags what an agent is heading for.
type TargetKind uint8

const (
	TargetNone TargetKind = iota
	TargetEnemy
	TargetPickup
	TargetPoint
)

// String implements fmt.Stringer.
func (k TargetKind) String() string {
	switch k {
	case TargetEnemy:
		return "enemy"
	case TargetPickup:
		return "pickup"
	case TargetPoint:
		return "point"
	default:
		return "none"
	}
}

// Target is either a handle to a live object or a fixed arena point.
// Handles are resolved every tick so a vanished object invalidates the
// target instead of leaving a stale position behind.
type Target struct {
	Kind   TargetKind
	Handle world.Handle
	Point  world.Vec2
}

// EnemyTarget references an opposing agent.
func EnemyTarget(agent *world.Agent) Target {
	return Target{Kind: TargetEnemy, Handle: agent.Handle}
}

// PickupTarget references a pickup.
func PickupTarget(pickup *world.Pickup) Target {
	return Target{Kind: TargetPickup, Handle: pickup.Handle}
}

// PointTarget is a fixed arena position.
func PointTarget(p world.Vec2) Target {
	return Target{Kind: TargetPoint, Point: p}
}

// Position resolves the target to the current center of what it references.
// It reports false when the referenced object is gone.
func (t Target) Position(lookup Lookup) (world.Vec2, bool) {
	switch t.Kind {
	case TargetPoint:
		return t.Point, true
	case TargetEnemy, TargetPickup:
		if lookup == nil {
			return world.Vec2{}, false
		}
		obj, ok := lookup.Lookup(t.Handle)
		if !ok {
			return world.Vec2{}, false
		}
		want := world.KindAgent
		if t.Kind == TargetPickup {
			want = world.KindPickup
		}
		if obj.Kind() != want {
			return world.Vec2{}, false
		}
		return obj.Bounds().Center(), true
	default:
		return world.Vec2{}, false
	}
}

// Strategy names the reason a candidate target was proposed.
type Strategy string

const (
	StrategyNearestPickup Strategy = "nearest_pickup"
	StrategyArenaCenter   Strategy = "arena_center"
	StrategyPickup        Strategy = "pickup"
	StrategyHunt          Strategy = "hunt"
	StrategyEngage        Strategy = "engage"
	StrategyHeal          Strategy = "heal"
	StrategyHotspot       Strategy = "hotspot"
)

// Candidate is a scored target proposal.
type Candidate struct {
	Target   Target
	Strategy Strategy
	Score    int
}

// Scoring constants for strategic target selection.
const (
	pickupScoreScale     = 100000.0
	pickupScoreSoftening = 100.0
	rankUpValue          = 2.0
	healthUpValue        = 1.0
	behindMultiplier     = 2.0

	huntBaseScore   = 6
	huntRankWeight  = 2
	HuntMinHP       = 3
	engageScore     = 5
	EngageRangeSq   = 20000.0
	engageRankSlack = 1
	LowHealthHP     = 2
	healScore       = 8
	fallbackScore   = 4
	hotspotScore    = 2
)

// ReactiveSelector heads for the nearest pickup, or the arena center when
// there is none. It re-evaluates every tick.
type ReactiveSelector struct{}

// Select returns this tick's target and the strategy behind it.
func (ReactiveSelector) Select(v *View) Candidate {
	if pickup := nearestPickup(v.Self.Position, v.Pickups, nil); pickup != nil {
		return Candidate{Target: PickupTarget(pickup), Strategy: StrategyNearestPickup}
	}
	return Candidate{Target: PointTarget(v.Bounds.Center()), Strategy: StrategyArenaCenter}
}

// StrategicSelector keeps a target across ticks and re-evaluates it when it
// becomes invalid or on a small random chance.
type StrategicSelector struct {
	reevaluateChance float64
	current          Candidate
}

// NewStrategicSelector returns a selector with no target.
func NewStrategicSelector(reevaluateChance float64) *StrategicSelector {
	return &StrategicSelector{reevaluateChance: reevaluateChance}
}

// Current returns the committed candidate.
func (s *StrategicSelector) Current() Candidate { return s.current }

// Select returns the committed target, re-evaluating it first when needed.
// The second result reports whether a re-evaluation happened. No random draw
// is consumed when the current target is invalid.
func (s *StrategicSelector) Select(v *View, rng Random) (Candidate, bool) {
	if _, ok := s.current.Target.Position(v.Lookup); ok && !chance(rng, s.reevaluateChance) {
		return s.current, false
	}
	s.current = Choose(Candidates(v, rng))
	return s.current, true
}

// Candidates scores every plausible target for v.Self. The result always
// ends with a hotspot, so it is never empty.
func Candidates(v *View, rng Random) []Candidate {
	self, enemy := v.Self, v.Enemy
	behind := enemy != nil && self.Rank < enemy.Rank

	candidates := make([]Candidate, 0, len(v.Pickups)+3)
	for _, pickup := range v.Pickups {
		value := healthUpValue
		if pickup.Reward == world.PickupRankUp {
			value = rankUpValue
		}
		score := value * (pickupScoreScale / (self.Position.DistSq(pickup.Center()) + pickupScoreSoftening))
		if behind {
			score *= behindMultiplier
		}
		candidates = append(candidates, Candidate{Target: PickupTarget(pickup), Strategy: StrategyPickup, Score: int(score)})
	}

	if enemy != nil {
		delta := self.Rank - enemy.Rank
		switch {
		case delta > 0 && self.HP >= HuntMinHP:
			candidates = append(candidates, Candidate{
				Target:   EnemyTarget(enemy),
				Strategy: StrategyHunt,
				Score:    huntBaseScore + huntRankWeight*delta,
			})
		case self.Position.DistSq(enemy.Position) < EngageRangeSq && absInt(delta) <= engageRankSlack:
			candidates = append(candidates, Candidate{Target: EnemyTarget(enemy), Strategy: StrategyEngage, Score: engageScore})
		}
	}

	if self.HP <= LowHealthHP {
		heal := nearestPickup(self.Position, v.Pickups, func(p *world.Pickup) bool {
			return p.Reward == world.PickupHealthUp
		})
		if heal != nil {
			candidates = append(candidates, Candidate{Target: PickupTarget(heal), Strategy: StrategyHeal, Score: healScore})
		}
	}

	if len(candidates) == 0 {
		if pickup := nearestPickup(self.Position, v.Pickups, nil); pickup != nil {
			candidates = append(candidates, Candidate{Target: PickupTarget(pickup), Strategy: StrategyNearestPickup, Score: fallbackScore})
		}
	}

	hotspots := Hotspots(v.Bounds)
	pick := len(hotspots) - 1
	if rng != nil {
		pick = rng.Intn(len(hotspots))
	}
	candidates = append(candidates, Candidate{Target: PointTarget(hotspots[pick]), Strategy: StrategyHotspot, Score: hotspotScore})
	return candidates
}

// Choose returns the highest-scoring candidate. Earlier candidates win ties.
func Choose(candidates []Candidate) Candidate {
	var best Candidate
	bestScore := math.MinInt
	for _, candidate := range candidates {
		if candidate.Score > bestScore {
			best, bestScore = candidate, candidate.Score
		}
	}
	return best
}

// Hotspots are the four quadrant centers followed by the arena center.
func Hotspots(bounds world.Rect) [5]world.Vec2 {
	quarterW, quarterH := bounds.W/4, bounds.H/4
	return [5]world.Vec2{
		{X: bounds.X + quarterW, Y: bounds.Y + quarterH},
		{X: bounds.X + 3*quarterW, Y: bounds.Y + quarterH},
		{X: bounds.X + quarterW, Y: bounds.Y + 3*quarterH},
		{X: bounds.X + 3*quarterW, Y: bounds.Y + 3*quarterH},
		bounds.Center(),
	}
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
