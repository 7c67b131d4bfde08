package world

import (
	"context"
	"math"

	combat "tank-arena/logging/combat"
	lifecycle "tank-arena/logging/lifecycle"
)

// SpawnProjectile launches a projectile owned by owner. The projectile never
// hits its owner.
func (w *World) SpawnProjectile(owner Handle, origin, velocity Vec2, damage int) Handle {
	projectile := &Projectile{
		Handle:   w.allocHandle(),
		Owner:    owner,
		Position: origin,
		Velocity: velocity,
		Damage:   damage,
	}
	w.projectiles = append(w.projectiles, projectile)
	return projectile.Handle
}

// AdvanceProjectiles moves every projectile by its velocity. Projectiles that
// leave the arena are dropped; the rest strike the first object containing
// their position, apply damage and leave an impact effect.
func (w *World) AdvanceProjectiles(ctx context.Context) {
	kept := w.projectiles[:0]
	for _, projectile := range w.projectiles {
		projectile.Position = projectile.Position.Add(projectile.Velocity)
		if !w.inArena(projectile.Position) {
			continue
		}
		if w.resolveHit(ctx, projectile) {
			continue
		}
		kept = append(kept, projectile)
	}
	for i := len(kept); i < len(w.projectiles); i++ {
		w.projectiles[i] = nil
	}
	w.projectiles = kept
}

// inArena is inclusive on every edge.
func (w *World) inArena(p Vec2) bool {
	return p.X >= 0 && p.X <= w.config.Width && p.Y >= 0 && p.Y <= w.config.Height
}

// resolveHit tests the projectile's pixel against agents and then obstacles.
// Pickups and effects never stop a projectile.
func (w *World) resolveHit(ctx context.Context, projectile *Projectile) bool {
	pixel := Vec2{X: math.Trunc(projectile.Position.X), Y: math.Trunc(projectile.Position.Y)}

	for _, agent := range w.agents {
		if agent.Handle == projectile.Owner || !agent.Alive() {
			continue
		}
		if !agent.Bounds().ContainsPoint(pixel) {
			continue
		}
		w.damageAgent(ctx, projectile, agent)
		w.spawnEffect(projectile.Position)
		return true
	}

	for _, obstacle := range w.obstacles {
		if !obstacle.Box.ContainsPoint(pixel) {
			continue
		}
		destroyed := w.damageObstacle(obstacle, projectile.Damage)
		combat.ProjectileHit(ctx, w.publisher, w.tick, w.ownerRef(projectile.Owner), obstacle.Ref(), combat.HitPayload{
			Damage:    projectile.Damage,
			TargetHP:  obstacle.HP,
			X:         projectile.Position.X,
			Y:         projectile.Position.Y,
			Destroyed: destroyed,
		}, nil)
		w.spawnEffect(projectile.Position)
		return true
	}
	return false
}

func (w *World) damageAgent(ctx context.Context, projectile *Projectile, agent *Agent) {
	agent.HP -= projectile.Damage
	destroyed := agent.HP <= 0
	attacker := w.ownerRef(projectile.Owner)
	combat.ProjectileHit(ctx, w.publisher, w.tick, attacker, agent.Ref(), combat.HitPayload{
		Damage:    projectile.Damage,
		TargetHP:  agent.HP,
		X:         projectile.Position.X,
		Y:         projectile.Position.Y,
		Destroyed: destroyed,
	}, nil)
	if !destroyed {
		return
	}

	agent.Moving = false
	combat.Defeat(ctx, w.publisher, w.tick, attacker, agent.Ref(), combat.DefeatPayload{Team: string(agent.Team)}, nil)
	if w.roundOver {
		return
	}
	w.roundOver = true
	w.winner = opposingTeam(agent.Team)
	lifecycle.RoundOver(ctx, w.publisher, w.tick, w.Ref(), lifecycle.RoundOverPayload{
		Winner: string(w.winner),
		Loser:  string(agent.Team),
	}, nil)
}

func opposingTeam(team Team) Team {
	if team == TeamBlue {
		return TeamRed
	}
	return TeamBlue
}
