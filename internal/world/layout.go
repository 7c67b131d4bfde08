package world

const (
	// AgentSize is the edge of an agent's bounding box. It is smaller than a
	// tile so agents fit through one-tile corridors.
	AgentSize = 26.0

	AgentStartHP       = 5
	ObstacleHP         = 1
	EffectLifetime     = 15
	PickupSpawnMargin  = 50.0
	PickupSpawnRetries = 100
	humanSpawnInset    = 100.0
)

// Team tags the two sides of a round.
type Team string

const (
	TeamBlue Team = "blue"
	TeamRed  Team = "red"
)

// Spawn describes where an agent starts a round.
type Spawn struct {
	Team   Team
	Center Vec2
	Facing Direction
}

// Spawns returns the two starting positions for the configured mode. Blue is
// always first, which is also the per-tick update order.
func Spawns(cfg Config) [2]Spawn {
	cfg = cfg.normalized()
	tile := cfg.TileSize
	half := tile / 2
	if cfg.Mode == ModeAIvsAI {
		return [2]Spawn{
			{Team: TeamBlue, Center: Vec2{X: tile + half, Y: tile + half}, Facing: DirRight},
			{Team: TeamRed, Center: Vec2{X: cfg.Width - 2*tile + half, Y: cfg.Height - 2*tile + half}, Facing: DirLeft},
		}
	}
	midY := cfg.Height / 2
	return [2]Spawn{
		{Team: TeamBlue, Center: Vec2{X: humanSpawnInset + half, Y: midY}, Facing: DirUp},
		{Team: TeamRed, Center: Vec2{X: cfg.Width - humanSpawnInset - tile + half, Y: midY}, Facing: DirUp},
	}
}
