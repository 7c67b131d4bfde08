package world

import (
	"context"
	"math/rand"

	lifecycle "tank-arena/logging/lifecycle"
)

// MaintainPickups tops the arena up to the configured minimum number of live
// pickups.
func (w *World) MaintainPickups(ctx context.Context) {
	for len(w.pickups) < w.config.MinPickups {
		w.spawnPickupSafely(ctx)
	}
}

// spawnPickupSafely samples up to PickupSpawnRetries positions inside the
// spawn margin looking for one that overlaps nothing. When every attempt is
// blocked the pickup is placed at one more random position regardless.
func (w *World) spawnPickupSafely(ctx context.Context) *Pickup {
	rng := w.pickupRNG()
	tile := w.config.TileSize
	for attempt := 0; attempt < PickupSpawnRetries; attempt++ {
		center := w.randomPickupCenter(rng)
		if w.occupied(RectAround(center, tile)) {
			continue
		}
		return w.spawnPickup(ctx, center, PickupKind(rng.Intn(2)), false)
	}
	return w.spawnPickup(ctx, w.randomPickupCenter(rng), PickupKind(rng.Intn(2)), true)
}

func (w *World) randomPickupCenter(rng *rand.Rand) Vec2 {
	minX := int(PickupSpawnMargin)
	maxX := int(w.config.Width - PickupSpawnMargin)
	minY := int(PickupSpawnMargin)
	maxY := int(w.config.Height - PickupSpawnMargin)
	return Vec2{
		X: float64(randomIntInclusive(rng, minX, maxX)),
		Y: float64(randomIntInclusive(rng, minY, maxY)),
	}
}

func randomIntInclusive(rng *rand.Rand, min, max int) int {
	if max <= min {
		return min
	}
	return min + rng.Intn(max-min+1)
}

func (w *World) spawnPickup(ctx context.Context, center Vec2, reward PickupKind, forced bool) *Pickup {
	pickup := w.PlacePickup(center, reward)
	lifecycle.PickupSpawned(ctx, w.publisher, w.tick, pickup.Ref(), lifecycle.PickupPayload{
		Reward: reward.String(),
		X:      center.X,
		Y:      center.Y,
		Forced: forced,
	}, nil)
	return pickup
}

// pickupRNG draws from the root stream; obstacles use their own subsystem
// stream so the block layout does not shift when pickup spawning changes.
func (w *World) pickupRNG() *rand.Rand {
	if w.rng == nil {
		w.rng = w.SubsystemRNG("world")
	}
	return w.rng
}

// UpdatePickups ages every pickup, removing expired ones, then lets the first
// overlapping live agent claim each remaining pickup.
func (w *World) UpdatePickups(ctx context.Context) {
	kept := w.pickups[:0]
	for _, pickup := range w.pickups {
		if pickup.TTL <= 0 {
			lifecycle.PickupExpired(ctx, w.publisher, w.tick, pickup.Ref(), lifecycle.PickupPayload{
				Reward: pickup.Reward.String(),
				X:      pickup.Center().X,
				Y:      pickup.Center().Y,
			}, nil)
			continue
		}
		pickup.TTL--
		if claimant := w.claimant(pickup); claimant != nil {
			applied := claimant.applyReward(pickup.Reward)
			lifecycle.PickupClaimed(ctx, w.publisher, w.tick, claimant.Ref(), pickup.Ref(), lifecycle.PickupClaimedPayload{
				Reward:  pickup.Reward.String(),
				Applied: applied,
				Rank:    claimant.Rank,
				HP:      claimant.HP,
			}, nil)
			continue
		}
		kept = append(kept, pickup)
	}
	for i := len(kept); i < len(w.pickups); i++ {
		w.pickups[i] = nil
	}
	w.pickups = kept
}

func (w *World) claimant(pickup *Pickup) *Agent {
	for _, agent := range w.agents {
		if agent.Alive() && agent.Bounds().Overlaps(pickup.Box) {
			return agent
		}
	}
	return nil
}

// applyReward grants the pickup's effect. A RankUp at the cap is consumed
// without effect.
func (a *Agent) applyReward(reward PickupKind) bool {
	switch reward {
	case PickupRankUp:
		if a.Rank < MaxRank {
			a.Rank++
			return true
		}
		return false
	case PickupHealthUp:
		a.HP++
		return true
	default:
		return false
	}
}
