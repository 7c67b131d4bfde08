package world

import (
	"strconv"

	"tank-arena/logging"
)

// Ref identifies the agent in published events.
func (a *Agent) Ref() logging.EntityRef {
	return logging.EntityRef{ID: string(a.Team), Kind: logging.EntityKindAgent}
}

// Ref identifies the obstacle in published events.
func (o *Obstacle) Ref() logging.EntityRef {
	return logging.EntityRef{ID: "obstacle-" + strconv.FormatUint(uint64(o.Handle), 10), Kind: logging.EntityKindObstacle}
}

// Ref identifies the pickup in published events.
func (p *Pickup) Ref() logging.EntityRef {
	return logging.EntityRef{ID: "pickup-" + strconv.FormatUint(uint64(p.Handle), 10), Kind: logging.EntityKindPickup}
}

// Ref identifies the arena itself as an event actor.
func (w *World) Ref() logging.EntityRef {
	return logging.EntityRef{ID: "arena", Kind: logging.EntityKindWorld}
}

func (w *World) ownerRef(owner Handle) logging.EntityRef {
	for _, agent := range w.agents {
		if agent.Handle == owner {
			return agent.Ref()
		}
	}
	return logging.EntityRef{ID: strconv.FormatUint(uint64(owner), 10), Kind: logging.EntityKindUnknown}
}
