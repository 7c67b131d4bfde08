package world

// AgentSnapshot is a read-only copy of an agent's visible state.
type AgentSnapshot struct {
	Handle   Handle    `json:"handle"`
	Team     Team      `json:"team"`
	Position Vec2      `json:"position"`
	Facing   Direction `json:"facing"`
	Rank     int       `json:"rank"`
	HP       int       `json:"hp"`
	Cooldown int       `json:"cooldown"`
	Moving   bool      `json:"moving"`
}

// ObstacleSnapshot is a read-only copy of an obstacle.
type ObstacleSnapshot struct {
	Handle Handle `json:"handle"`
	Box    Rect   `json:"box"`
	HP     int    `json:"hp"`
}

// PickupSnapshot is a read-only copy of a pickup.
type PickupSnapshot struct {
	Handle Handle     `json:"handle"`
	Box    Rect       `json:"box"`
	Reward PickupKind `json:"reward"`
	TTL    int        `json:"ttl"`
}

// ProjectileSnapshot is a read-only copy of a projectile in flight.
type ProjectileSnapshot struct {
	Handle   Handle `json:"handle"`
	Owner    Handle `json:"owner"`
	Position Vec2   `json:"position"`
	Damage   int    `json:"damage"`
}

// EffectSnapshot is a read-only copy of an impact effect.
type EffectSnapshot struct {
	Handle    Handle `json:"handle"`
	Position  Vec2   `json:"position"`
	Remaining int    `json:"remaining"`
}

// Snapshot captures the whole arena at the end of a tick. It shares no
// memory with the live world and may be handed to other goroutines.
type Snapshot struct {
	Tick        uint64               `json:"tick"`
	Width       float64              `json:"width"`
	Height      float64              `json:"height"`
	Agents      []AgentSnapshot      `json:"agents"`
	Obstacles   []ObstacleSnapshot   `json:"obstacles"`
	Pickups     []PickupSnapshot     `json:"pickups"`
	Projectiles []ProjectileSnapshot `json:"projectiles"`
	Effects     []EffectSnapshot     `json:"effects"`
	Winner      Team                 `json:"winner,omitempty"`
	RoundOver   bool                 `json:"roundOver"`
}

// Snapshot copies the current arena state.
func (w *World) Snapshot() Snapshot {
	snapshot := Snapshot{
		Tick:        w.tick,
		Width:       w.config.Width,
		Height:      w.config.Height,
		Agents:      make([]AgentSnapshot, 0, len(w.agents)),
		Obstacles:   make([]ObstacleSnapshot, 0, len(w.obstacles)),
		Pickups:     make([]PickupSnapshot, 0, len(w.pickups)),
		Projectiles: make([]ProjectileSnapshot, 0, len(w.projectiles)),
		Effects:     make([]EffectSnapshot, 0, len(w.effects)),
		Winner:      w.winner,
		RoundOver:   w.roundOver,
	}
	for _, agent := range w.agents {
		snapshot.Agents = append(snapshot.Agents, AgentSnapshot{
			Handle:   agent.Handle,
			Team:     agent.Team,
			Position: agent.Position,
			Facing:   agent.Facing,
			Rank:     agent.Rank,
			HP:       agent.HP,
			Cooldown: agent.Cooldown,
			Moving:   agent.Moving,
		})
	}
	for _, obstacle := range w.obstacles {
		snapshot.Obstacles = append(snapshot.Obstacles, ObstacleSnapshot{Handle: obstacle.Handle, Box: obstacle.Box, HP: obstacle.HP})
	}
	for _, pickup := range w.pickups {
		snapshot.Pickups = append(snapshot.Pickups, PickupSnapshot{Handle: pickup.Handle, Box: pickup.Box, Reward: pickup.Reward, TTL: pickup.TTL})
	}
	for _, projectile := range w.projectiles {
		snapshot.Projectiles = append(snapshot.Projectiles, ProjectileSnapshot{
			Handle:   projectile.Handle,
			Owner:    projectile.Owner,
			Position: projectile.Position,
			Damage:   projectile.Damage,
		})
	}
	for _, effect := range w.effects {
		snapshot.Effects = append(snapshot.Effects, EffectSnapshot{Handle: effect.Handle, Position: effect.Position, Remaining: effect.Remaining})
	}
	return snapshot
}
