package ai

import (
	"context"

	"tank-arena/internal/telemetry"
	"tank-arena/internal/world"
	"tank-arena/logging"
	agentlog "tank-arena/logging/agent"
)

// Input is one tick of operator intent.
type Input struct {
	Direction world.Direction
	Moving    bool
	Fire      bool
}

// InputSource supplies operator intent per team.
type InputSource interface {
	Input(team world.Team) Input
}

// InputFunc adapts a function to InputSource.
type InputFunc func(team world.Team) Input

// Input implements InputSource.
func (f InputFunc) Input(team world.Team) Input { return f(team) }

// IdleInput never moves or fires.
var IdleInput InputSource = InputFunc(func(world.Team) Input { return Input{} })

// Manual drives an agent from an InputSource. Moves are full-speed steps in
// the requested direction with the same clamp and rollback rules the
// autonomous controllers obey.
type Manual struct {
	team      world.Team
	source    InputSource
	spawner   world.ProjectileSpawner
	publisher logging.Publisher
	metrics   telemetry.Metrics
}

// NewManual builds a manual driver. A nil source idles.
func NewManual(team world.Team, source InputSource, spawner world.ProjectileSpawner, opts ...Option) *Manual {
	o := buildOptions(opts)
	if source == nil {
		source = IdleInput
	}
	return &Manual{team: team, source: source, spawner: spawner, publisher: o.publisher, metrics: o.metrics}
}

// Team reports the team the driver controls.
func (m *Manual) Team() world.Team { return m.team }

// Update applies one tick of input.
func (m *Manual) Update(ctx context.Context, w *world.World, tick uint64) {
	self := w.AgentByTeam(m.team)
	if !self.Alive() {
		return
	}
	pub := m.publisher
	if pub == nil {
		pub = w.Publisher()
	}
	input := m.source.Input(m.team)

	moved := false
	if input.Moving {
		before := self.Position
		self.Facing = input.Direction
		self.Position = w.ClampToArena(self.Position.Add(input.Direction.Vector().Scale(world.MoveSpeed(self.Rank))))
		moved = self.Position != before
		if obj, hit := w.Collides(self.Handle, self.Bounds()); moved && hit {
			self.Position = before
			moved = false
			m.metrics.Add(telemetry.MetricCollisions, 1)
			reportCollision(ctx, pub, tick, self, obj, false)
		}
	}
	if self.Moving != moved {
		self.Moving = moved
		agentlog.MovingChanged(ctx, pub, tick, self.Ref(), agentlog.MovingPayload{Moving: moved}, nil)
	}

	if input.Fire && self.Cooldown == 0 {
		if m.spawner != nil {
			velocity := self.Facing.Vector().Scale(world.ProjectileSpeed(self.Rank))
			m.spawner.SpawnProjectile(self.Handle, self.Position, velocity, world.ProjectileDamage(self.Rank))
		}
		self.Cooldown = world.ShotDelay(self.Rank)
		m.metrics.Add(telemetry.MetricShots, 1)
		agentlog.ShotFired(ctx, pub, tick, self.Ref(), agentlog.ShotPayload{
			Rule:     "manual",
			Facing:   self.Facing.String(),
			Cooldown: self.Cooldown,
		}, nil)
	}
	if self.Cooldown > 0 {
		self.Cooldown--
	}
}
