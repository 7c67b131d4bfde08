package world

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tank-arena/logging"
	combat "tank-arena/logging/combat"
	lifecycle "tank-arena/logging/lifecycle"
	"tank-arena/logging/sinks"
)

func emptyWorld(t *testing.T) (*World, *sinks.MemorySink) {
	t.Helper()
	memory := sinks.NewMemorySink()
	w := New(Config{}, Deps{Publisher: memory})
	return w, memory
}

func TestNewAppliesDefaults(t *testing.T) {
	w := New(Config{}, Deps{})
	cfg := w.Config()
	assert.Equal(t, DefaultSeed, cfg.Seed)
	assert.Equal(t, DefaultWidth, cfg.Width)
	assert.Equal(t, DefaultHeight, cfg.Height)
	assert.Equal(t, DefaultTileSize, cfg.TileSize)
	assert.Equal(t, DefaultPickupLifetime, cfg.PickupLifetime)
	assert.Equal(t, ModeAIvsAI, cfg.Mode)
	assert.Equal(t, Rect{W: 640, H: 480}, w.Bounds())
}

func TestSetupRoundLaysOutArena(t *testing.T) {
	memory := sinks.NewMemorySink()
	w := New(DefaultConfig(), Deps{Publisher: memory})
	w.SetupRound(context.Background())

	agents := w.Agents()
	require.Len(t, agents, 2)
	assert.Equal(t, TeamBlue, agents[0].Team)
	assert.Equal(t, Vec2{X: 48, Y: 48}, agents[0].Position)
	assert.Equal(t, DirRight, agents[0].Facing)
	assert.Equal(t, TeamRed, agents[1].Team)
	assert.Equal(t, Vec2{X: 592, Y: 432}, agents[1].Position)
	assert.Equal(t, DirLeft, agents[1].Facing)
	for _, agent := range agents {
		assert.Equal(t, 0, agent.Rank)
		assert.Equal(t, AgentStartHP, agent.HP)
	}

	assert.Len(t, w.Pickups(), DefaultInitialPickups)
	require.NotEmpty(t, w.Obstacles())
	assert.LessOrEqual(t, len(w.Obstacles()), DefaultObstacleCount)

	for i, obstacle := range w.Obstacles() {
		box := obstacle.Box
		assert.GreaterOrEqual(t, box.Y, DefaultTileSize, "obstacle %d sits in the top row", i)
		assert.Zero(t, int(box.X)%int(DefaultTileSize), "obstacle %d is not tile aligned", i)
		assert.Zero(t, int(box.Y)%int(DefaultTileSize), "obstacle %d is not tile aligned", i)
		for _, agent := range agents {
			assert.False(t, agent.Bounds().Overlaps(box), "obstacle %d overlaps %s", i, agent.Team)
		}
		for j, other := range w.Obstacles() {
			if i != j {
				assert.False(t, other.Box.Overlaps(box), "obstacles %d and %d overlap", i, j)
			}
		}
	}

	started := memory.OfType(lifecycle.EventRoundStarted)
	require.Len(t, started, 1)
	payload, ok := started[0].Payload.(lifecycle.RoundStartedPayload)
	require.True(t, ok)
	assert.Equal(t, len(w.Obstacles()), payload.Obstacles)
}

func TestSetupRoundHumanLayout(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Mode = ModeHumanVsAI
	w := New(cfg, Deps{})
	w.SetupRound(context.Background())

	agents := w.Agents()
	require.Len(t, agents, 2)
	assert.Equal(t, Vec2{X: 116, Y: 240}, agents[0].Position)
	assert.Equal(t, Vec2{X: 524, Y: 240}, agents[1].Position)
	assert.Equal(t, DirUp, agents[0].Facing)
	assert.Empty(t, w.Pickups())
}

func TestSetupRoundIsDeterministic(t *testing.T) {
	first := New(DefaultConfig(), Deps{})
	second := New(DefaultConfig(), Deps{})
	first.SetupRound(context.Background())
	second.SetupRound(context.Background())
	assert.Equal(t, first.Snapshot(), second.Snapshot())

	other := DefaultConfig()
	other.Seed = "another-seed"
	third := New(other, Deps{})
	third.SetupRound(context.Background())
	assert.NotEqual(t, first.Snapshot().Obstacles, third.Snapshot().Obstacles)
}

func TestMaintainPickupsKeepsMinimum(t *testing.T) {
	cfg := DefaultConfig()
	w := New(cfg, Deps{})
	w.SetupRound(context.Background())
	w.MaintainPickups(context.Background())
	require.Len(t, w.Pickups(), cfg.MinPickups)

	for _, pickup := range w.Pickups() {
		center := pickup.Center()
		assert.GreaterOrEqual(t, center.X, PickupSpawnMargin)
		assert.LessOrEqual(t, center.X, cfg.Width-PickupSpawnMargin)
		assert.GreaterOrEqual(t, center.Y, PickupSpawnMargin)
		assert.LessOrEqual(t, center.Y, cfg.Height-PickupSpawnMargin)
		assert.Equal(t, cfg.PickupLifetime, pickup.TTL)
	}
}

func TestProjectileDestroysObstacleAndLeavesEffect(t *testing.T) {
	w, memory := emptyWorld(t)
	ctx := context.Background()
	shooter := w.PlaceAgent(Spawn{Team: TeamBlue, Center: Vec2{X: 48, Y: 48}, Facing: DirRight})
	block := w.PlaceObstacle(Rect{X: 96, Y: 32, W: 32, H: 32})

	w.SpawnProjectile(shooter.Handle, shooter.Position, Vec2{X: 5}, 1)
	for i := 0; i < 20 && len(w.Projectiles()) > 0; i++ {
		w.AdvanceProjectiles(ctx)
	}

	assert.Empty(t, w.Projectiles())
	assert.Empty(t, w.Obstacles())
	_, ok := w.Lookup(block.Handle)
	assert.False(t, ok)
	require.Len(t, w.Effects(), 1)
	assert.Equal(t, EffectLifetime, w.Effects()[0].Remaining)

	hits := memory.OfType(combat.EventProjectileHit)
	require.Len(t, hits, 1)
	assert.Equal(t, logging.EntityKindObstacle, hits[0].Targets[0].Kind)

	for i := 0; i < EffectLifetime-1; i++ {
		w.UpdateEffects()
	}
	assert.Len(t, w.Effects(), 1)
	w.UpdateEffects()
	assert.Empty(t, w.Effects())
}

func TestProjectileSkipsOwnerAndDamagesOpponent(t *testing.T) {
	w, memory := emptyWorld(t)
	ctx := context.Background()
	blue := w.PlaceAgent(Spawn{Team: TeamBlue, Center: Vec2{X: 100, Y: 100}, Facing: DirRight})
	red := w.PlaceAgent(Spawn{Team: TeamRed, Center: Vec2{X: 140, Y: 100}, Facing: DirLeft})
	red.HP = 2

	w.SpawnProjectile(blue.Handle, blue.Position, Vec2{X: 4}, 1)
	for i := 0; i < 20 && len(w.Projectiles()) > 0; i++ {
		w.AdvanceProjectiles(ctx)
	}
	assert.Equal(t, AgentStartHP, blue.HP)
	assert.Equal(t, 1, red.HP)
	_, over := w.RoundOver()
	assert.False(t, over)

	w.SpawnProjectile(blue.Handle, blue.Position, Vec2{X: 4}, 1)
	for i := 0; i < 20 && len(w.Projectiles()) > 0; i++ {
		w.AdvanceProjectiles(ctx)
	}
	assert.False(t, red.Alive())
	winner, over := w.RoundOver()
	assert.True(t, over)
	assert.Equal(t, TeamBlue, winner)
	assert.Nil(t, w.Opponent(blue.Handle))
	assert.Len(t, memory.OfType(combat.EventDefeat), 1)
	assert.Len(t, memory.OfType(lifecycle.EventRoundOver), 1)
}

func TestProjectileLeavesArena(t *testing.T) {
	w, _ := emptyWorld(t)
	w.SpawnProjectile(99, Vec2{X: 638, Y: 10}, Vec2{X: 4}, 1)
	w.AdvanceProjectiles(context.Background())
	assert.Empty(t, w.Projectiles())
	assert.Empty(t, w.Effects())
}

func TestProjectileOnArenaEdgeStaysInFlight(t *testing.T) {
	w, _ := emptyWorld(t)
	w.SpawnProjectile(99, Vec2{X: 636, Y: 10}, Vec2{X: 4}, 1)
	w.AdvanceProjectiles(context.Background())
	require.Len(t, w.Projectiles(), 1)
	assert.Equal(t, 640.0, w.Projectiles()[0].Position.X)
}

func TestPickupClaim(t *testing.T) {
	for _, tc := range []struct {
		name     string
		reward   PickupKind
		rank     int
		wantRank int
		wantHP   int
	}{
		{name: "rank-up", reward: PickupRankUp, rank: 0, wantRank: 1, wantHP: AgentStartHP},
		{name: "rank-up-at-cap", reward: PickupRankUp, rank: MaxRank, wantRank: MaxRank, wantHP: AgentStartHP},
		{name: "health-up", reward: PickupHealthUp, rank: 3, wantRank: 3, wantHP: AgentStartHP + 1},
	} {
		t.Run(tc.name, func(t *testing.T) {
			w, memory := emptyWorld(t)
			agent := w.PlaceAgent(Spawn{Team: TeamBlue, Center: Vec2{X: 200, Y: 200}})
			agent.Rank = tc.rank
			w.PlacePickup(Vec2{X: 210, Y: 200}, tc.reward)

			w.UpdatePickups(context.Background())

			assert.Empty(t, w.Pickups(), "pickup is consumed on contact")
			assert.Equal(t, tc.wantRank, agent.Rank)
			assert.Equal(t, tc.wantHP, agent.HP)
			assert.Len(t, memory.OfType(lifecycle.EventPickupClaimed), 1)
		})
	}
}

func TestPickupExpires(t *testing.T) {
	w := New(Config{PickupLifetime: 3}, Deps{})
	w.PlacePickup(Vec2{X: 300, Y: 300}, PickupHealthUp)
	for i := 0; i < 3; i++ {
		w.UpdatePickups(context.Background())
		require.Len(t, w.Pickups(), 1)
	}
	w.UpdatePickups(context.Background())
	assert.Empty(t, w.Pickups())
}

func TestCollides(t *testing.T) {
	w, _ := emptyWorld(t)
	self := w.PlaceAgent(Spawn{Team: TeamBlue, Center: Vec2{X: 100, Y: 100}})
	other := w.PlaceAgent(Spawn{Team: TeamRed, Center: Vec2{X: 300, Y: 300}})
	block := w.PlaceObstacle(Rect{X: 160, Y: 96, W: 32, H: 32})
	w.PlacePickup(Vec2{X: 100, Y: 160}, PickupRankUp)

	_, hit := w.Collides(self.Handle, self.Bounds())
	assert.False(t, hit, "self is ignored")

	touching := RectAround(Vec2{X: 160 - AgentSize/2, Y: 112}, AgentSize)
	_, hit = w.Collides(self.Handle, touching)
	assert.False(t, hit, "touching edges do not collide")

	collider, hit := w.Collides(self.Handle, RectAround(Vec2{X: 165, Y: 112}, AgentSize))
	require.True(t, hit)
	assert.Equal(t, block.Handle, collider.ID())

	collider, hit = w.Collides(self.Handle, RectAround(Vec2{X: 290, Y: 300}, AgentSize))
	require.True(t, hit)
	assert.Equal(t, other.Handle, collider.ID())
	assert.Equal(t, KindAgent, collider.Kind())

	_, hit = w.Collides(self.Handle, RectAround(Vec2{X: 100, Y: 160}, AgentSize))
	assert.False(t, hit, "pickups are not solid")
}

func TestSnapshotIsDetached(t *testing.T) {
	w, _ := emptyWorld(t)
	agent := w.PlaceAgent(Spawn{Team: TeamBlue, Center: Vec2{X: 50, Y: 50}})
	snapshot := w.Snapshot()
	agent.Position.X = 400
	assert.Equal(t, 50.0, snapshot.Agents[0].Position.X)
}
