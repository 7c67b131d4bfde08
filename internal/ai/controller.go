package ai

import (
	"context"

	"tank-arena/internal/nav"
	"tank-arena/internal/telemetry"
	"tank-arena/internal/world"
	"tank-arena/logging"
	agentlog "tank-arena/logging/agent"
)

type options struct {
	rng       Random
	publisher logging.Publisher
	metrics   telemetry.Metrics
	profile   *Profile
}

// Option customizes a Controller or Manual driver.
type Option func(*options)

// WithRandom sets the random source. Controllers default to a deterministic
// source derived from the world seed and team.
func WithRandom(rng Random) Option {
	return func(o *options) { o.rng = rng }
}

// WithPublisher routes agent events to pub instead of the world publisher.
func WithPublisher(pub logging.Publisher) Option {
	return func(o *options) { o.publisher = pub }
}

// WithMetrics records shot, replan and collision counts.
func WithMetrics(metrics telemetry.Metrics) Option {
	return func(o *options) { o.metrics = metrics }
}

// WithProfile overrides the policy's default tunables.
func WithProfile(profile Profile) Option {
	return func(o *options) { o.profile = &profile }
}

func buildOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if o.metrics == nil {
		o.metrics = telemetry.Nop{}
	}
	return o
}

// Controller drives one team's agent with an autonomous policy: perceive,
// select a target, move, then decide whether to fire.
type Controller struct {
	team      world.Team
	profile   Profile
	rng       Random
	publisher logging.Publisher
	metrics   telemetry.Metrics

	reactive  ReactiveSelector
	strategic *StrategicSelector
	motion    *MotionExecutor
	fire      *FireController

	target    Candidate
	seenEnemy bool
}

// NewController builds the autonomous driver for team. policy must be
// PolicyReactive or PolicyStrategic.
func NewController(team world.Team, policy Policy, spawner world.ProjectileSpawner, opts ...Option) *Controller {
	o := buildOptions(opts)
	profile := ProfileFor(policy)
	if o.profile != nil {
		profile = *o.profile
	}
	c := &Controller{
		team:      team,
		profile:   profile,
		rng:       o.rng,
		publisher: o.publisher,
		metrics:   o.metrics,
		motion:    NewMotionExecutor(profile),
		fire:      NewFireController(profile, spawner),
	}
	if profile.Policy == PolicyStrategic {
		c.strategic = NewStrategicSelector(profile.ReevaluateChance)
	}
	return c
}

// Team reports the team the controller drives.
func (c *Controller) Team() world.Team { return c.team }

// Policy reports the active policy.
func (c *Controller) Policy() Policy { return c.profile.Policy }

// Target returns the most recently selected target.
func (c *Controller) Target() Candidate { return c.target }

// Motion exposes the motion executor for inspection.
func (c *Controller) Motion() *MotionExecutor { return c.motion }

// Update runs the agent's decision cycle for one tick.
func (c *Controller) Update(ctx context.Context, w *world.World, tick uint64) {
	self := w.AgentByTeam(c.team)
	if !self.Alive() {
		return
	}
	if c.rng == nil {
		c.rng = w.SubsystemRNG("ai." + string(c.team))
	}
	pub := c.publisher
	if pub == nil {
		pub = w.Publisher()
	}

	view := NewView(w, self)
	if view.EnemyVisible() {
		c.seenEnemy = true
	}

	candidate, changed := c.selectTarget(view)
	goal, ok := candidate.Target.Position(view.Lookup)
	if !ok {
		goal = view.Bounds.Center()
	}
	if changed {
		agentlog.TargetSelected(ctx, pub, tick, self.Ref(), agentlog.TargetPayload{
			Policy: string(c.profile.Policy),
			Kind:   candidate.Target.Kind.String(),
			X:      goal.X,
			Y:      goal.Y,
			Score:  candidate.Score,
		}, map[string]any{"strategy": string(candidate.Strategy)})
	}

	grid := nav.NewGrid(view.Bounds.W, view.Bounds.H, w.Config().TileSize, view.Obstacles)
	result := c.motion.Step(self, goal, grid, w, view.Enemy, c.rng)
	c.report(ctx, pub, tick, self, result)

	// Fire rules see the post-move position.
	visible := view.EnemyVisible()
	if visible {
		c.seenEnemy = true
	}
	rule, fired := c.fire.Update(FireContext{
		Self:         self,
		Enemy:        view.Enemy,
		EnemyVisible: visible,
		SeenEnemy:    c.seenEnemy,
		Target:       candidate.Target,
		Lookup:       view.Lookup,
		Index:        view.Index,
	}, c.rng)
	if fired {
		c.metrics.Add(telemetry.MetricShots, 1)
		agentlog.ShotFired(ctx, pub, tick, self.Ref(), agentlog.ShotPayload{
			Rule:     string(rule),
			Facing:   self.Facing.String(),
			Cooldown: self.Cooldown,
		}, nil)
	}
}

func (c *Controller) selectTarget(view *View) (Candidate, bool) {
	if c.strategic != nil {
		candidate, reevaluated := c.strategic.Select(view, c.rng)
		changed := reevaluated && candidate.Target != c.target.Target
		c.target = candidate
		return candidate, changed
	}
	candidate := c.reactive.Select(view)
	changed := candidate.Target != c.target.Target
	c.target = candidate
	return candidate, changed
}

func (c *Controller) report(ctx context.Context, pub logging.Publisher, tick uint64, self *world.Agent, result MotionResult) {
	if result.Replanned {
		c.metrics.Add(telemetry.MetricReplans, 1)
		agentlog.PathReplanned(ctx, pub, tick, self.Ref(), agentlog.PathPayload{
			Reason:    string(result.ReplanReason),
			Found:     result.PathFound,
			Waypoints: result.Waypoints,
		}, nil)
	}
	if result.Collided {
		c.metrics.Add(telemetry.MetricCollisions, 1)
		reportCollision(ctx, pub, tick, self, result.Collider, result.PathDiscarded)
	}
	if result.MovingChanged {
		agentlog.MovingChanged(ctx, pub, tick, self.Ref(), agentlog.MovingPayload{Moving: self.Moving}, nil)
	}
}

type referenced interface {
	Ref() logging.EntityRef
}

func reportCollision(ctx context.Context, pub logging.Publisher, tick uint64, self *world.Agent, collider world.Object, discarded bool) {
	target := logging.EntityRef{Kind: logging.EntityKindUnknown}
	kind := "unknown"
	if collider != nil {
		kind = collider.Kind().String()
		if ref, ok := collider.(referenced); ok {
			target = ref.Ref()
		}
	}
	agentlog.CollisionRollback(ctx, pub, tick, self.Ref(), target, agentlog.CollisionPayload{
		Collider:      kind,
		PathDiscarded: discarded,
	}, nil)
}
