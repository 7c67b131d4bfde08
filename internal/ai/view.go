package ai

import (
	"math"

	"tank-arena/internal/spatial"
	"tank-arena/internal/world"
)

// Lookup resolves handles to live world objects.
type Lookup interface {
	Lookup(handle world.Handle) (world.Object, bool)
}

// View is one agent's perception for a tick.
type View struct {
	Self      *world.Agent
	Enemy     *world.Agent
	Pickups   []*world.Pickup
	Obstacles []*world.Obstacle
	Index     *spatial.Index
	Bounds    world.Rect
	Lookup    Lookup
}

// NewView captures what self can perceive of w this tick.
func NewView(w *world.World, self *world.Agent) *View {
	obstacles := w.Obstacles()
	return &View{
		Self:      self,
		Enemy:     w.Opponent(self.Handle),
		Pickups:   w.Pickups(),
		Obstacles: obstacles,
		Index:     spatial.NewIndex(obstacles),
		Bounds:    w.Bounds(),
		Lookup:    w,
	}
}

// EnemyVisible reports whether the opponent is alive and in line of sight
// from self's current position.
func (v *View) EnemyVisible() bool {
	if v == nil || v.Enemy == nil || v.Self == nil {
		return false
	}
	return v.Index.HasLineOfSight(v.Self.Position, v.Enemy.Position)
}

// Aligned reports whether facing points along delta: the facing axis has the
// delta's sign beyond deadZone and dominates the perpendicular axis.
func Aligned(facing world.Direction, delta world.Vec2, deadZone float64) bool {
	absX, absY := math.Abs(delta.X), math.Abs(delta.Y)
	switch facing {
	case world.DirUp:
		return delta.Y < -deadZone && absX < absY
	case world.DirRight:
		return delta.X > deadZone && absY < absX
	case world.DirDown:
		return delta.Y > deadZone && absX < absY
	case world.DirLeft:
		return delta.X < -deadZone && absY < absX
	default:
		return false
	}
}

// nearestPickup picks the pickup closest to from by squared distance. The
// first of equally distant pickups wins. A nil accept admits every pickup.
func nearestPickup(from world.Vec2, pickups []*world.Pickup, accept func(*world.Pickup) bool) *world.Pickup {
	var best *world.Pickup
	bestDist := math.Inf(1)
	for _, pickup := range pickups {
		if pickup == nil || (accept != nil && !accept(pickup)) {
			continue
		}
		if d := from.DistSq(pickup.Center()); d < bestDist {
			best, bestDist = pickup, d
		}
	}
	return best
}
