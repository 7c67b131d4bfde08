package spatial

import (
	"math"

	"tank-arena/internal/world"
)

// OcclusionCount samples the segment between p1 and p2 at unit resolution
// and counts the distinct obstacles containing at least one interior sample.
// Endpoints are ordered canonically first, so the count is symmetric.
func OcclusionCount(p1, p2 world.Vec2, obstacles []*world.Obstacle) int {
	return countOccluders(p1, p2, obstacles, false)
}

// HasLineOfSight reports whether no obstacle lies between p1 and p2.
func HasLineOfSight(p1, p2 world.Vec2, obstacles []*world.Obstacle) bool {
	return countOccluders(p1, p2, obstacles, true) == 0
}

// Nearest scans obstacles for the one closest to p.
func Nearest(p world.Vec2, obstacles []*world.Obstacle) (*world.Obstacle, float64, bool) {
	var best *world.Obstacle
	bestDist := math.Inf(1)
	for _, obstacle := range obstacles {
		if obstacle == nil {
			continue
		}
		if d := boxDistSq(p, obstacle.Box); d < bestDist {
			best, bestDist = obstacle, d
		}
	}
	if best == nil {
		return nil, 0, false
	}
	return best, bestDist, true
}

func canonical(p1, p2 world.Vec2) (world.Vec2, world.Vec2) {
	if p2.X < p1.X || (p2.X == p1.X && p2.Y < p1.Y) {
		return p2, p1
	}
	return p1, p2
}

// countOccluders walks interior samples i/steps for i in [1, steps). Each
// sample is attributed to the first obstacle containing it.
func countOccluders(p1, p2 world.Vec2, obstacles []*world.Obstacle, stopAtFirst bool) int {
	if len(obstacles) == 0 {
		return 0
	}
	from, to := canonical(p1, p2)
	delta := to.Sub(from)
	steps := math.Max(math.Abs(delta.X), math.Abs(delta.Y))
	if steps == 0 {
		return 0
	}

	seen := make(map[world.Handle]struct{})
	samples := int(steps)
	for i := 1; i < samples; i++ {
		t := float64(i) / steps
		sample := world.Vec2{X: from.X + delta.X*t, Y: from.Y + delta.Y*t}
		for _, obstacle := range obstacles {
			if obstacle == nil || !obstacle.Box.ContainsPoint(sample) {
				continue
			}
			seen[obstacle.Handle] = struct{}{}
			if stopAtFirst {
				return len(seen)
			}
			break
		}
	}
	return len(seen)
}

func boxDistSq(p world.Vec2, box world.Rect) float64 {
	dx := math.Max(math.Max(box.X-p.X, 0), p.X-box.Right())
	dy := math.Max(math.Max(box.Y-p.Y, 0), p.Y-box.Bottom())
	return dx*dx + dy*dy
}
