package nav

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tank-arena/internal/world"
)

func obstaclesAt(cells ...Cell) []*world.Obstacle {
	out := make([]*world.Obstacle, 0, len(cells))
	for i, cell := range cells {
		out = append(out, &world.Obstacle{
			Handle: world.Handle(i + 1),
			Box:    world.Rect{X: float64(cell.Col) * 32, Y: float64(cell.Row) * 32, W: 32, H: 32},
			HP:     1,
		})
	}
	return out
}

func TestNewGridDimensions(t *testing.T) {
	grid := NewGrid(640, 480, 32, obstaclesAt(Cell{Col: 3, Row: 4}))
	assert.Equal(t, 20, grid.Cols())
	assert.Equal(t, 15, grid.Rows())
	assert.True(t, grid.Blocked(Cell{Col: 3, Row: 4}))
	assert.False(t, grid.Blocked(Cell{Col: 4, Row: 4}))
	assert.True(t, grid.Blocked(Cell{Col: 20, Row: 0}), "outside the grid counts as blocked")
	assert.Equal(t, Cell{Col: 19, Row: 0}, grid.Locate(world.Vec2{X: 700, Y: -5}))
	assert.Equal(t, world.Vec2{X: 176, Y: 176}, grid.Center(Cell{Col: 5, Row: 5}))
}

func TestFindPathScenario(t *testing.T) {
	path, ok := FindPath(world.DefaultConfig(), world.Vec2{X: 16, Y: 16}, world.Vec2{X: 160, Y: 160}, nil)
	require.True(t, ok)
	require.Len(t, path.Waypoints, 10)
	assert.Equal(t, world.Vec2{X: 176, Y: 176}, path.Waypoints[9])
	assert.NotEqual(t, world.Vec2{X: 16, Y: 16}, path.Waypoints[0], "start cell is excluded")
}

func TestFindPathSameCell(t *testing.T) {
	path, ok := FindPath(world.DefaultConfig(), world.Vec2{X: 100, Y: 100}, world.Vec2{X: 110, Y: 120}, nil)
	require.True(t, ok)
	assert.Empty(t, path.Waypoints)
	assert.True(t, path.Exhausted())
}

func TestFindPathEmptyArenaIsManhattan(t *testing.T) {
	grid := NewGrid(640, 480, 32, nil)
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 100; i++ {
		start := Cell{Col: rng.Intn(20), Row: rng.Intn(15)}
		goal := Cell{Col: rng.Intn(20), Row: rng.Intn(15)}
		cells, ok := grid.Route(start, goal)
		require.True(t, ok)
		assert.Len(t, cells, manhattan(start, goal), "start=%+v goal=%+v", start, goal)
	}
}

func TestFindPathStepsAreAdjacentAndClear(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	var blocked []Cell
	for i := 0; i < 60; i++ {
		blocked = append(blocked, Cell{Col: rng.Intn(20), Row: 1 + rng.Intn(14)})
	}
	obstacles := obstaclesAt(blocked...)
	grid := NewGrid(640, 480, 32, obstacles)

	found := 0
	for i := 0; i < 100; i++ {
		start := world.Vec2{X: rng.Float64() * 640, Y: rng.Float64() * 480}
		goal := world.Vec2{X: rng.Float64() * 640, Y: rng.Float64() * 480}
		path, ok := grid.FindPath(start, goal)
		if !ok {
			continue
		}
		found++
		prev := grid.Center(grid.Locate(start))
		for _, waypoint := range path.Waypoints {
			step := math.Abs(waypoint.X-prev.X) + math.Abs(waypoint.Y-prev.Y)
			require.Equal(t, 32.0, step, "waypoints must be one tile apart")
			require.False(t, grid.Blocked(grid.Locate(waypoint)), "waypoint %+v is on an obstacle", waypoint)
			prev = waypoint
		}
		if len(path.Waypoints) > 0 {
			assert.Equal(t, grid.Center(grid.Locate(goal)), path.Waypoints[len(path.Waypoints)-1])
		}
	}
	assert.Positive(t, found)
}

func TestFindPathDetoursAroundWall(t *testing.T) {
	wall := []Cell{{Col: 5, Row: 0}, {Col: 5, Row: 1}, {Col: 5, Row: 2}, {Col: 5, Row: 3}}
	grid := NewGrid(640, 480, 32, obstaclesAt(wall...))
	cells, ok := grid.Route(Cell{Col: 2, Row: 1}, Cell{Col: 8, Row: 1})
	require.True(t, ok)
	assert.Len(t, cells, 6+2*3)
	for _, cell := range cells {
		assert.NotContains(t, wall, cell)
	}
}

func TestFindPathUnreachable(t *testing.T) {
	enclosure := obstaclesAt(Cell{Col: 9, Row: 6}, Cell{Col: 11, Row: 6}, Cell{Col: 10, Row: 5}, Cell{Col: 10, Row: 7})
	path, ok := FindPath(world.DefaultConfig(), world.Vec2{X: 16, Y: 16}, world.Vec2{X: 336, Y: 208}, enclosure)
	assert.False(t, ok)
	assert.Empty(t, path.Waypoints)
}

func TestPathCursor(t *testing.T) {
	path := Path{Waypoints: []world.Vec2{{X: 1}, {X: 2}, {X: 3}}}
	next, ok := path.Next()
	require.True(t, ok)
	assert.Equal(t, 1.0, next.X)
	assert.Len(t, path.Upcoming(5), 3)

	path.Advance()
	path.Advance()
	assert.Equal(t, []world.Vec2{{X: 3}}, path.Upcoming(3))
	path.Advance()
	assert.True(t, path.Exhausted())
	_, ok = path.Next()
	assert.False(t, ok)
	assert.Nil(t, path.Upcoming(3))
}
