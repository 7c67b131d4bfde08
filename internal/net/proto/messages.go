package proto

import (
	"encoding/json"
	"fmt"

	"tank-arena/internal/world"
)

// Version tracks the wire-protocol revision expected by spectators.
const Version = 1

// Message type identifiers.
const (
	TypeHello    = "hello"
	TypeSnapshot = "snapshot"
)

// Hello is the first message a spectator receives.
type Hello struct {
	Ver        int    `json:"ver"`
	Type       string `json:"type"`
	TickRate   int    `json:"tickRate"`
	EveryTicks int    `json:"everyTicks"`
}

// NewHello describes the feed cadence.
func NewHello(tickRate, everyTicks int) Hello {
	return Hello{Ver: Version, Type: TypeHello, TickRate: tickRate, EveryTicks: everyTicks}
}

type Box struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

type Agent struct {
	ID       uint32  `json:"id"`
	Team     string  `json:"team"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Facing   string  `json:"facing"`
	Rank     int     `json:"rank"`
	HP       int     `json:"hp"`
	Cooldown int     `json:"cooldown"`
	Moving   bool    `json:"moving"`
}

type Obstacle struct {
	ID  uint32 `json:"id"`
	Box Box    `json:"box"`
	HP  int    `json:"hp"`
}

type Pickup struct {
	ID     uint32 `json:"id"`
	Box    Box    `json:"box"`
	Reward string `json:"reward"`
	TTL    int    `json:"ttl"`
}

type Projectile struct {
	ID     uint32  `json:"id"`
	Owner  uint32  `json:"owner"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Damage int     `json:"damage"`
}

type Effect struct {
	ID        uint32  `json:"id"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Remaining int     `json:"remaining"`
}

// Snapshot is the per-tick arena state pushed to spectators.
type Snapshot struct {
	Ver         int          `json:"ver"`
	Type        string       `json:"type"`
	Tick        uint64       `json:"tick"`
	Width       float64      `json:"width"`
	Height      float64      `json:"height"`
	Agents      []Agent      `json:"agents"`
	Obstacles   []Obstacle   `json:"obstacles"`
	Pickups     []Pickup     `json:"pickups"`
	Projectiles []Projectile `json:"projectiles"`
	Effects     []Effect     `json:"effects"`
	Winner      string       `json:"winner,omitempty"`
	RoundOver   bool         `json:"roundOver"`
}

func box(r world.Rect) Box { return Box{X: r.X, Y: r.Y, W: r.W, H: r.H} }

// NewSnapshot converts a world snapshot to its wire form.
func NewSnapshot(s world.Snapshot) Snapshot {
	msg := Snapshot{
		Ver:         Version,
		Type:        TypeSnapshot,
		Tick:        s.Tick,
		Width:       s.Width,
		Height:      s.Height,
		Agents:      make([]Agent, 0, len(s.Agents)),
		Obstacles:   make([]Obstacle, 0, len(s.Obstacles)),
		Pickups:     make([]Pickup, 0, len(s.Pickups)),
		Projectiles: make([]Projectile, 0, len(s.Projectiles)),
		Effects:     make([]Effect, 0, len(s.Effects)),
		Winner:      string(s.Winner),
		RoundOver:   s.RoundOver,
	}
	for _, a := range s.Agents {
		msg.Agents = append(msg.Agents, Agent{
			ID:       uint32(a.Handle),
			Team:     string(a.Team),
			X:        a.Position.X,
			Y:        a.Position.Y,
			Facing:   a.Facing.String(),
			Rank:     a.Rank,
			HP:       a.HP,
			Cooldown: a.Cooldown,
			Moving:   a.Moving,
		})
	}
	for _, o := range s.Obstacles {
		msg.Obstacles = append(msg.Obstacles, Obstacle{ID: uint32(o.Handle), Box: box(o.Box), HP: o.HP})
	}
	for _, p := range s.Pickups {
		msg.Pickups = append(msg.Pickups, Pickup{ID: uint32(p.Handle), Box: box(p.Box), Reward: p.Reward.String(), TTL: p.TTL})
	}
	for _, p := range s.Projectiles {
		msg.Projectiles = append(msg.Projectiles, Projectile{
			ID:     uint32(p.Handle),
			Owner:  uint32(p.Owner),
			X:      p.Position.X,
			Y:      p.Position.Y,
			Damage: p.Damage,
		})
	}
	for _, e := range s.Effects {
		msg.Effects = append(msg.Effects, Effect{ID: uint32(e.Handle), X: e.Position.X, Y: e.Position.Y, Remaining: e.Remaining})
	}
	return msg
}

// Encode renders any outbound message.
func Encode(msg any) ([]byte, error) {
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("proto: encode: %w", err)
	}
	return data, nil
}

// DecodeSnapshot parses a snapshot message and checks its version and type.
func DecodeSnapshot(data []byte) (Snapshot, error) {
	var msg Snapshot
	if err := json.Unmarshal(data, &msg); err != nil {
		return Snapshot{}, fmt.Errorf("proto: decode snapshot: %w", err)
	}
	if msg.Type != TypeSnapshot {
		return Snapshot{}, fmt.Errorf("proto: unexpected message type %q", msg.Type)
	}
	if msg.Ver != Version {
		return Snapshot{}, fmt.Errorf("proto: unsupported version %d", msg.Ver)
	}
	return msg, nil
}
