package world

// MaxRank is the highest tier an agent can reach through RankUp pickups.
const MaxRank = 7

var (
	moveSpeed        = [MaxRank + 1]float64{1, 2, 2, 1, 2, 3, 3, 2}
	shotDelay        = [MaxRank + 1]int{60, 50, 30, 40, 30, 25, 25, 30}
	projectileSpeed  = [MaxRank + 1]float64{4, 5, 6, 5, 5, 5, 6, 7}
	projectileDamage = [MaxRank + 1]int{1, 1, 2, 3, 2, 2, 3, 4}
)

func rankIndex(rank int) int {
	if rank < 0 {
		return 0
	}
	if rank > MaxRank {
		return MaxRank
	}
	return rank
}

// MoveSpeed is the per-tick travel distance for the rank.
func MoveSpeed(rank int) float64 { return moveSpeed[rankIndex(rank)] }

// ShotDelay is the cooldown in ticks applied after a shot at the rank.
func ShotDelay(rank int) int { return shotDelay[rankIndex(rank)] }

// ProjectileSpeed is the per-tick projectile travel distance at the rank.
func ProjectileSpeed(rank int) float64 { return projectileSpeed[rankIndex(rank)] }

// ProjectileDamage is the hit point damage a projectile fired at the rank deals.
func ProjectileDamage(rank int) int { return projectileDamage[rankIndex(rank)] }
