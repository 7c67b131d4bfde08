package spatial

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tank-arena/internal/world"
)

func tileObstacles(cells ...[2]int) []*world.Obstacle {
	obstacles := make([]*world.Obstacle, 0, len(cells))
	for i, cell := range cells {
		obstacles = append(obstacles, &world.Obstacle{
			Handle: world.Handle(i + 1),
			Box:    world.Rect{X: float64(cell[0]) * 32, Y: float64(cell[1]) * 32, W: 32, H: 32},
			HP:     1,
		})
	}
	return obstacles
}

func TestOcclusionCountBisectingObstacle(t *testing.T) {
	obstacles := tileObstacles([2]int{4, 2})
	a := world.Vec2{X: 16, Y: 80}
	b := world.Vec2{X: 300, Y: 80}

	assert.Equal(t, 1, OcclusionCount(a, b, obstacles))
	assert.Equal(t, 1, NewIndex(obstacles).OcclusionCount(a, b))
	assert.False(t, HasLineOfSight(a, b, obstacles))
}

func TestOcclusionCountDistinctObstacles(t *testing.T) {
	obstacles := tileObstacles([2]int{2, 2}, [2]int{3, 2}, [2]int{6, 2}, [2]int{6, 6})
	a := world.Vec2{X: 16, Y: 80}
	b := world.Vec2{X: 300, Y: 80}

	assert.Equal(t, 3, OcclusionCount(a, b, obstacles))
	assert.Equal(t, 3, NewIndex(obstacles).OcclusionCount(a, b))
}

func TestOcclusionCountDegenerate(t *testing.T) {
	obstacles := tileObstacles([2]int{0, 0})
	p := world.Vec2{X: 10, Y: 10}
	assert.Zero(t, OcclusionCount(p, p, obstacles), "coincident endpoints never occlude")
	assert.Zero(t, OcclusionCount(world.Vec2{X: 100}, world.Vec2{X: 200}, nil))
	assert.True(t, NewIndex(nil).HasLineOfSight(world.Vec2{}, world.Vec2{X: 600, Y: 400}))
}

func TestOcclusionCountEndpointsAreExcluded(t *testing.T) {
	obstacles := tileObstacles([2]int{1, 0}, [2]int{5, 0})
	a := world.Vec2{X: 63.5, Y: 16}
	b := world.Vec2{X: 160.5, Y: 16}
	require.True(t, obstacles[0].Box.ContainsPoint(a))
	require.True(t, obstacles[1].Box.ContainsPoint(b))
	assert.Zero(t, OcclusionCount(a, b, obstacles), "obstacles holding only the endpoints do not count")
}

func TestLineOfSight(t *testing.T) {
	a := world.Vec2{X: 40, Y: 240}
	b := world.Vec2{X: 600, Y: 240}
	assert.True(t, HasLineOfSight(a, b, nil))

	mid := world.Vec2{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
	blocker := []*world.Obstacle{{Handle: 7, Box: world.RectAround(mid, 32), HP: 1}}
	assert.False(t, HasLineOfSight(a, b, blocker))
	assert.False(t, NewIndex(blocker).HasLineOfSight(a, b))
}

func TestOcclusionCountIsSymmetric(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	var cells [][2]int
	for i := 0; i < 50; i++ {
		cells = append(cells, [2]int{rng.Intn(20), 1 + rng.Intn(14)})
	}
	obstacles := tileObstacles(cells...)
	idx := NewIndex(obstacles)

	for i := 0; i < 500; i++ {
		a := world.Vec2{X: rng.Float64() * 640, Y: rng.Float64() * 480}
		b := world.Vec2{X: rng.Float64() * 640, Y: rng.Float64() * 480}
		forward := OcclusionCount(a, b, obstacles)
		require.Equal(t, forward, OcclusionCount(b, a, obstacles), "a=%+v b=%+v", a, b)
		require.Equal(t, forward, idx.OcclusionCount(a, b), "indexed a=%+v b=%+v", a, b)
		require.Equal(t, forward, idx.OcclusionCount(b, a), "indexed reversed a=%+v b=%+v", a, b)
		require.Equal(t, forward == 0, idx.HasLineOfSight(a, b))
	}
}

func TestNearest(t *testing.T) {
	obstacles := tileObstacles([2]int{1, 1}, [2]int{10, 10})
	idx := NewIndex(obstacles)

	got, dist, ok := idx.Nearest(world.Vec2{X: 20, Y: 48})
	require.True(t, ok)
	assert.Equal(t, world.Handle(1), got.Handle)
	assert.Equal(t, 144.0, dist)

	got, dist, ok = Nearest(world.Vec2{X: 330, Y: 330}, obstacles)
	require.True(t, ok)
	assert.Equal(t, world.Handle(2), got.Handle)
	assert.Zero(t, dist)

	_, _, ok = NewIndex(nil).Nearest(world.Vec2{})
	assert.False(t, ok)
}
