package ai

import (
	"tank-arena/internal/spatial"
	"tank-arena/internal/world"
)

// FireRule names the condition that triggered a shot.
type FireRule string

const (
	FireEnemyInSight FireRule = "enemy_in_sight"
	FireSuppressive  FireRule = "suppressive"
	FireClearPath    FireRule = "clear_path"
	FireAreaDenial   FireRule = "area_denial"
)

// FireContext is the perception the fire rules read. Positions must be the
// ones after this tick's movement.
type FireContext struct {
	Self         *world.Agent
	Enemy        *world.Agent
	EnemyVisible bool
	SeenEnemy    bool
	Target       Target
	Lookup       Lookup
	Index        *spatial.Index
}

// FireController decides when an agent shoots and owns its cooldown.
type FireController struct {
	profile Profile
	spawner world.ProjectileSpawner
}

// NewFireController builds a controller spawning shots through spawner.
func NewFireController(profile Profile, spawner world.ProjectileSpawner) *FireController {
	return &FireController{profile: profile, spawner: spawner}
}

// Update runs one tick: when the cooldown is clear the rules are checked in
// order and the first that passes fires. The cooldown then ticks down.
func (f *FireController) Update(fc FireContext, rng Random) (FireRule, bool) {
	self := fc.Self
	if !self.Alive() {
		return "", false
	}
	var (
		rule  FireRule
		fired bool
	)
	if self.Cooldown == 0 {
		if rule, fired = f.Decide(fc, rng); fired {
			f.fire(self)
		}
	}
	if self.Cooldown > 0 {
		self.Cooldown--
	}
	return rule, fired
}

// Decide evaluates the fire rules without side effects on the agent.
// Random draws happen only once a rule's deterministic guard has passed.
func (f *FireController) Decide(fc FireContext, rng Random) (FireRule, bool) {
	self, enemy := fc.Self, fc.Enemy
	deadZone := f.profile.AlignmentDeadZone

	if enemy != nil && fc.EnemyVisible && Aligned(self.Facing, enemy.Position.Sub(self.Position), deadZone) {
		return FireEnemyInSight, true
	}
	if enemy != nil && !fc.EnemyVisible && fc.SeenEnemy && chance(rng, f.profile.SuppressiveFireChance) {
		return FireSuppressive, true
	}
	if fc.Target.Kind == TargetPickup && fc.Index != nil {
		if pos, ok := fc.Target.Position(fc.Lookup); ok && fc.Index.OcclusionCount(self.Position, pos) == 1 {
			if f.profile.ClearPathFireChance > 0 {
				if chance(rng, f.profile.ClearPathFireChance) {
					return FireClearPath, true
				}
			} else if Aligned(self.Facing, pos.Sub(self.Position), deadZone) {
				return FireClearPath, true
			}
		}
	}
	if chance(rng, f.profile.AreaDenialChance) {
		return FireAreaDenial, true
	}
	return "", false
}

// CooldownFor is the reload delay applied after a shot at rank.
func (f *FireController) CooldownFor(rank int) int {
	delay := world.ShotDelay(rank) - f.profile.CooldownReduction
	if delay < f.profile.MinCooldown {
		delay = f.profile.MinCooldown
	}
	if delay < 1 {
		delay = 1
	}
	return delay
}

func (f *FireController) fire(self *world.Agent) {
	if f.spawner != nil {
		velocity := self.Facing.Vector().Scale(world.ProjectileSpeed(self.Rank))
		f.spawner.SpawnProjectile(self.Handle, self.Position, velocity, world.ProjectileDamage(self.Rank))
	}
	self.Cooldown = f.CooldownFor(self.Rank)
}
