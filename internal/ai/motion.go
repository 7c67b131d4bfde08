package ai

import (
	"math"

	"tank-arena/internal/nav"
	"tank-arena/internal/world"
)

// Collider is the slice of the world the motion executor needs to validate
// a tentative move.
type Collider interface {
	Collides(self world.Handle, box world.Rect) (world.Object, bool)
	ClampToArena(p world.Vec2) world.Vec2
}

// ReplanReason names why a route was recomputed.
type ReplanReason string

const (
	ReplanNoPath    ReplanReason = "no_path"
	ReplanGoalMoved ReplanReason = "goal_moved"
	ReplanStalled   ReplanReason = "stalled"
	ReplanStale     ReplanReason = "stale"
	ReplanBlocked   ReplanReason = "blocked"
)

// MotionResult reports what a motion step did.
type MotionResult struct {
	Moved         bool
	MovingChanged bool

	Replanned    bool
	ReplanReason ReplanReason
	PathFound    bool
	Waypoints    int

	Collided      bool
	Collider      world.Object
	PathDiscarded bool
}

// MotionExecutor follows a grid path toward a goal one axis-locked step per
// tick and rolls moves back on collision.
type MotionExecutor struct {
	profile  Profile
	path     nav.Path
	hasPath  bool
	goalCell nav.Cell
	stalled  int
}

// NewMotionExecutor returns an executor with no path.
func NewMotionExecutor(profile Profile) *MotionExecutor {
	return &MotionExecutor{profile: profile}
}

// Path returns a copy of the route being followed.
func (m *MotionExecutor) Path() (nav.Path, bool) {
	if !m.hasPath {
		return nav.Path{}, false
	}
	waypoints := append([]world.Vec2(nil), m.path.Waypoints...)
	return nav.Path{Waypoints: waypoints, Cursor: m.path.Cursor}, true
}

// Discard drops the current path so the next step replans.
func (m *MotionExecutor) Discard() {
	m.path = nav.Path{}
	m.hasPath = false
}

// Step advances self toward goal. opponent may be nil.
func (m *MotionExecutor) Step(self *world.Agent, goal world.Vec2, grid *nav.Grid, collider Collider, opponent *world.Agent, rng Random) MotionResult {
	var result MotionResult
	if !self.Alive() {
		return result
	}

	goalCell := grid.Locate(goal)
	if reason, ok := m.replanReason(goalCell, opponent, rng); ok {
		m.path, result.PathFound = grid.FindPath(self.Position, goal)
		m.hasPath = result.PathFound
		m.goalCell = goalCell
		m.stalled = 0
		result.Replanned = true
		result.ReplanReason = reason
		result.Waypoints = m.path.Len()
	}

	speed := world.MoveSpeed(self.Rank)
	before := self.Position

	aim, following := goal, false
	if m.hasPath {
		if waypoint, ok := m.path.Next(); ok {
			aim, following = waypoint, true
		}
	}

	moved := stepToward(self, aim, speed)
	if moved {
		self.Position = collider.ClampToArena(self.Position)
		moved = self.Position != before
	}
	if moved {
		if obj, hit := collider.Collides(self.Handle, self.Bounds()); hit {
			self.Position = before
			moved = false
			result.Collided = true
			result.Collider = obj
			if m.discardAfterCollision(obj, rng) {
				m.Discard()
				result.PathDiscarded = true
				following = false
			}
		}
	}

	if following {
		tolerance := speed + m.profile.WaypointTolerance
		if waypoint, ok := m.path.Next(); ok &&
			math.Abs(self.Position.X-waypoint.X) < tolerance &&
			math.Abs(self.Position.Y-waypoint.Y) < tolerance {
			m.path.Advance()
		}
	}

	if self.Position == before {
		m.stalled++
	} else {
		m.stalled = 0
	}

	result.Moved = moved
	if self.Moving != moved {
		self.Moving = moved
		result.MovingChanged = true
	}
	return result
}

func (m *MotionExecutor) replanReason(goalCell nav.Cell, opponent *world.Agent, rng Random) (ReplanReason, bool) {
	switch {
	case !m.hasPath || m.path.Exhausted():
		return ReplanNoPath, true
	case goalCell != m.goalCell:
		return ReplanGoalMoved, true
	case m.profile.StallTicks > 0 && m.stalled >= m.profile.StallTicks:
		return ReplanStalled, true
	case chance(rng, m.profile.StalePathChance):
		return ReplanStale, true
	case m.profile.AvoidOpponentOnPath && m.blockedBy(opponent):
		return ReplanBlocked, true
	default:
		return "", false
	}
}

func (m *MotionExecutor) blockedBy(opponent *world.Agent) bool {
	if !opponent.Alive() {
		return false
	}
	for _, waypoint := range m.path.Upcoming(PathBlockLookahead) {
		if opponent.Position.DistSq(waypoint) < PathBlockRadiusSq {
			return true
		}
	}
	return false
}

func (m *MotionExecutor) discardAfterCollision(collider world.Object, rng Random) bool {
	discard := false
	if collider != nil && collider.Kind() == world.KindObstacle && chance(rng, m.profile.ObstacleDiscardChance) {
		discard = true
	}
	if chance(rng, m.profile.CollisionDiscardChance) {
		discard = true
	}
	return discard
}

// stepToward moves self along the dominant axis of the offset to aim, by at
// most speed, and turns it to face that way. A zero offset is not a move.
func stepToward(self *world.Agent, aim world.Vec2, speed float64) bool {
	delta := aim.Sub(self.Position)
	if delta.X == 0 && delta.Y == 0 {
		return false
	}
	dir := world.DominantDirection(delta)
	distance := math.Abs(delta.Y)
	if dir == world.DirLeft || dir == world.DirRight {
		distance = math.Abs(delta.X)
	}
	self.Position = self.Position.Add(dir.Vector().Scale(math.Min(speed, distance)))
	self.Facing = dir
	return true
}
