package world

// Handle is a stable identifier for a world object. Handles are never reused
// within a World.
type Handle uint32

// Kind tags the variant of a world object.
type Kind uint8

const (
	KindAgent Kind = iota + 1
	KindObstacle
	KindPickup
	KindProjectile
	KindEffect
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case KindAgent:
		return "agent"
	case KindObstacle:
		return "obstacle"
	case KindPickup:
		return "pickup"
	case KindProjectile:
		return "projectile"
	case KindEffect:
		return "effect"
	default:
		return "unknown"
	}
}

// Solid reports whether objects of the kind block agent movement.
func (k Kind) Solid() bool {
	switch k {
	case KindAgent, KindObstacle:
		return true
	case KindPickup, KindProjectile, KindEffect:
		return false
	default:
		return false
	}
}

// Object is implemented by every live world entity.
type Object interface {
	ID() Handle
	Kind() Kind
	Bounds() Rect
}

// Agent is a tank. Position is the center of a fixed-size box.
type Agent struct {
	Handle   Handle
	Team     Team
	Position Vec2
	Facing   Direction
	Rank     int
	HP       int
	Cooldown int
	Moving   bool
}

func (a *Agent) ID() Handle   { return a.Handle }
func (a *Agent) Kind() Kind   { return KindAgent }
func (a *Agent) Bounds() Rect { return RectAround(a.Position, AgentSize) }

// Alive reports whether the agent still has hit points.
func (a *Agent) Alive() bool { return a != nil && a.HP > 0 }

// Obstacle is a destructible tile-sized block.
type Obstacle struct {
	Handle Handle
	Box    Rect
	HP     int
}

func (o *Obstacle) ID() Handle   { return o.Handle }
func (o *Obstacle) Kind() Kind   { return KindObstacle }
func (o *Obstacle) Bounds() Rect { return o.Box }

// PickupKind enumerates the rewards a pickup grants.
type PickupKind uint8

const (
	PickupRankUp PickupKind = iota
	PickupHealthUp
)

// String implements fmt.Stringer.
func (k PickupKind) String() string {
	switch k {
	case PickupRankUp:
		return "rank_up"
	case PickupHealthUp:
		return "health_up"
	default:
		return "unknown"
	}
}

// Pickup is a temporary reward that expires after TTL ticks.
type Pickup struct {
	Handle Handle
	Box    Rect
	Reward PickupKind
	TTL    int
}

func (p *Pickup) ID() Handle   { return p.Handle }
func (p *Pickup) Kind() Kind   { return KindPickup }
func (p *Pickup) Bounds() Rect { return p.Box }

// Center is the pickup's position used for targeting.
func (p *Pickup) Center() Vec2 { return p.Box.Center() }

// Projectile is a point-like shot travelling at a constant velocity.
type Projectile struct {
	Handle   Handle
	Owner    Handle
	Position Vec2
	Velocity Vec2
	Damage   int
}

func (p *Projectile) ID() Handle   { return p.Handle }
func (p *Projectile) Kind() Kind   { return KindProjectile }
func (p *Projectile) Bounds() Rect { return Rect{X: p.Position.X, Y: p.Position.Y} }

// Effect is a short-lived impact marker. It carries no gameplay weight.
type Effect struct {
	Handle    Handle
	Position  Vec2
	Remaining int
}

func (e *Effect) ID() Handle   { return e.Handle }
func (e *Effect) Kind() Kind   { return KindEffect }
func (e *Effect) Bounds() Rect { return Rect{X: e.Position.X, Y: e.Position.Y} }

// ProjectileSpawner creates projectiles on behalf of an agent.
type ProjectileSpawner interface {
	SpawnProjectile(owner Handle, origin, velocity Vec2, damage int) Handle
}
