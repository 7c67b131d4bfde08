package world

import (
	"context"
	"math/rand"

	"tank-arena/logging"
	lifecycle "tank-arena/logging/lifecycle"
)

// RNGFactory produces deterministic RNG instances for world subsystems.
type RNGFactory func(rootSeed, label string) *rand.Rand

// Deps bundles runtime dependencies required to construct a World instance.
type Deps struct {
	Publisher logging.Publisher
	RNG       RNGFactory
}

// World hosts the arena: the two agents, obstacles, pickups, projectiles and
// impact effects. It is owned by a single simulation goroutine.
type World struct {
	config Config
	seed   string
	bounds Rect

	publisher  logging.Publisher
	rngFactory RNGFactory
	rng        *rand.Rand

	tick       uint64
	nextHandle Handle

	agents      []*Agent
	obstacles   []*Obstacle
	pickups     []*Pickup
	projectiles []*Projectile
	effects     []*Effect

	winner    Team
	roundOver bool
}

// New constructs an empty world with normalized configuration and seeded RNG.
// Call SetupRound to populate it.
func New(cfg Config, deps Deps) *World {
	normalized := cfg.normalized()

	factory := deps.RNG
	if factory == nil {
		factory = NewDeterministicRNG
	}

	publisher := deps.Publisher
	if publisher == nil {
		publisher = logging.NopPublisher()
	}

	return &World{
		config:     normalized,
		seed:       normalized.Seed,
		bounds:     Rect{W: normalized.Width, H: normalized.Height},
		publisher:  publisher,
		rngFactory: factory,
		rng:        factory(normalized.Seed, "world"),
	}
}

// Config returns the normalized configuration captured at construction time.
func (w *World) Config() Config {
	if w == nil {
		return Config{}
	}
	return w.config
}

// Seed reports the deterministic seed applied to the world RNG hierarchy.
func (w *World) Seed() string {
	if w == nil {
		return ""
	}
	return w.seed
}

// SubsystemRNG returns a deterministic RNG derived from the world seed.
func (w *World) SubsystemRNG(label string) *rand.Rand {
	if w == nil || w.rngFactory == nil {
		return NewDeterministicRNG(DefaultSeed, label)
	}
	return w.rngFactory(w.seed, label)
}

// Bounds is the playable area anchored at the origin.
func (w *World) Bounds() Rect { return w.bounds }

// Tick reports the current tick number.
func (w *World) Tick() uint64 { return w.tick }

// BeginTick advances the tick counter and returns the new value.
func (w *World) BeginTick() uint64 {
	w.tick++
	return w.tick
}

// Publisher exposes the event publisher shared with the world's drivers.
func (w *World) Publisher() logging.Publisher { return w.publisher }

func (w *World) allocHandle() Handle {
	w.nextHandle++
	return w.nextHandle
}

// SetupRound clears the arena and lays out a fresh round for the configured
// mode: two agents, the initial pickups and the random obstacle field.
func (w *World) SetupRound(ctx context.Context) {
	w.agents = nil
	w.obstacles = nil
	w.pickups = nil
	w.projectiles = nil
	w.effects = nil
	w.roundOver = false
	w.winner = ""

	for _, spawn := range Spawns(w.config) {
		w.PlaceAgent(spawn)
	}
	if w.config.Mode == ModeAIvsAI {
		for i := 0; i < w.config.InitialPickups; i++ {
			w.spawnPickupSafely(ctx)
		}
	}
	w.scatterObstacles()

	lifecycle.RoundStarted(ctx, w.publisher, w.tick, w.Ref(), lifecycle.RoundStartedPayload{
		Mode:      string(w.config.Mode),
		Seed:      w.seed,
		Obstacles: len(w.obstacles),
		Pickups:   len(w.pickups),
	}, nil)
}

// PlaceAgent adds an agent at the spawn with starting rank and hit points.
// Agents update in placement order.
func (w *World) PlaceAgent(spawn Spawn) *Agent {
	agent := &Agent{
		Handle:   w.allocHandle(),
		Team:     spawn.Team,
		Position: spawn.Center,
		Facing:   spawn.Facing,
		HP:       AgentStartHP,
	}
	w.agents = append(w.agents, agent)
	return agent
}

// PlaceObstacle adds an obstacle occupying box.
func (w *World) PlaceObstacle(box Rect) *Obstacle {
	obstacle := &Obstacle{Handle: w.allocHandle(), Box: box, HP: ObstacleHP}
	w.obstacles = append(w.obstacles, obstacle)
	return obstacle
}

// PlacePickup adds a tile-sized pickup centered on center.
func (w *World) PlacePickup(center Vec2, reward PickupKind) *Pickup {
	pickup := &Pickup{
		Handle: w.allocHandle(),
		Box:    RectAround(center, w.config.TileSize),
		Reward: reward,
		TTL:    w.config.PickupLifetime,
	}
	w.pickups = append(w.pickups, pickup)
	return pickup
}

// Agents returns every agent placed this round, alive or not, in update
// order. Callers must not mutate the slice.
func (w *World) Agents() []*Agent { return w.agents }

// AgentByTeam returns the team's agent.
func (w *World) AgentByTeam(team Team) *Agent {
	for _, agent := range w.agents {
		if agent.Team == team {
			return agent
		}
	}
	return nil
}

// Opponent returns the live agent that is not self, or nil.
func (w *World) Opponent(self Handle) *Agent {
	for _, agent := range w.agents {
		if agent.Handle != self && agent.Alive() {
			return agent
		}
	}
	return nil
}

// Obstacles returns the live obstacles. Callers must not mutate the slice.
func (w *World) Obstacles() []*Obstacle { return w.obstacles }

// Pickups returns the live pickups. Callers must not mutate the slice.
func (w *World) Pickups() []*Pickup { return w.pickups }

// Projectiles returns the projectiles in flight.
func (w *World) Projectiles() []*Projectile { return w.projectiles }

// Effects returns the active impact effects.
func (w *World) Effects() []*Effect { return w.effects }

// Lookup resolves a handle to a live object.
func (w *World) Lookup(handle Handle) (Object, bool) {
	if handle == 0 {
		return nil, false
	}
	for _, agent := range w.agents {
		if agent.Handle == handle && agent.Alive() {
			return agent, true
		}
	}
	for _, obstacle := range w.obstacles {
		if obstacle.Handle == handle {
			return obstacle, true
		}
	}
	for _, pickup := range w.pickups {
		if pickup.Handle == handle {
			return pickup, true
		}
	}
	for _, projectile := range w.projectiles {
		if projectile.Handle == handle {
			return projectile, true
		}
	}
	for _, effect := range w.effects {
		if effect.Handle == handle {
			return effect, true
		}
	}
	return nil, false
}

// RoundOver reports whether an agent has been destroyed, and the winning team.
func (w *World) RoundOver() (Team, bool) {
	return w.winner, w.roundOver
}
