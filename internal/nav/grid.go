// Package nav plans routes for agents over the arena's tile grid.
package nav

import (
	"math"

	"tank-arena/internal/world"
)

// Cell addresses one tile of the grid.
type Cell struct {
	Col int `json:"col"`
	Row int `json:"row"`
}

var neighborOffsets = [...]Cell{
	{Col: 0, Row: -1},
	{Col: 1, Row: 0},
	{Col: 0, Row: 1},
	{Col: -1, Row: 0},
}

// Grid is a snapshot of which tiles are blocked by obstacles.
type Grid struct {
	cols     int
	rows     int
	tileSize float64
	width    float64
	height   float64
	blocked  []bool
}

// NewGrid rasterises obstacles onto a width x height arena. A tile is
// blocked when an obstacle's top-left corner falls in it.
func NewGrid(width, height, tileSize float64, obstacles []*world.Obstacle) *Grid {
	if tileSize <= 0 {
		tileSize = world.DefaultTileSize
	}
	cols := int(width / tileSize)
	rows := int(height / tileSize)
	if cols <= 0 {
		cols = 1
	}
	if rows <= 0 {
		rows = 1
	}
	grid := &Grid{
		cols:     cols,
		rows:     rows,
		tileSize: tileSize,
		width:    width,
		height:   height,
		blocked:  make([]bool, cols*rows),
	}
	for _, obstacle := range obstacles {
		if obstacle == nil {
			continue
		}
		cell := Cell{
			Col: int(math.Floor(obstacle.Box.X / tileSize)),
			Row: int(math.Floor(obstacle.Box.Y / tileSize)),
		}
		if grid.InBounds(cell) {
			grid.blocked[grid.index(cell)] = true
		}
	}
	return grid
}

// NewGridForWorld builds the grid for the world's current obstacles.
func NewGridForWorld(w *world.World) *Grid {
	cfg := w.Config()
	return NewGrid(cfg.Width, cfg.Height, cfg.TileSize, w.Obstacles())
}

func (g *Grid) Cols() int { return g.cols }
func (g *Grid) Rows() int { return g.rows }

func (g *Grid) InBounds(c Cell) bool {
	return g != nil && c.Col >= 0 && c.Row >= 0 && c.Col < g.cols && c.Row < g.rows
}

func (g *Grid) index(c Cell) int {
	return c.Row*g.cols + c.Col
}

// Blocked reports whether c is outside the grid or occupied by an obstacle.
func (g *Grid) Blocked(c Cell) bool {
	if !g.InBounds(c) {
		return true
	}
	return g.blocked[g.index(c)]
}

// Locate maps a continuous point to its cell, clamping points outside the
// arena onto the border cells.
func (g *Grid) Locate(p world.Vec2) Cell {
	cell := Cell{
		Col: int(math.Floor(p.X / g.tileSize)),
		Row: int(math.Floor(p.Y / g.tileSize)),
	}
	if cell.Col < 0 {
		cell.Col = 0
	}
	if cell.Col >= g.cols {
		cell.Col = g.cols - 1
	}
	if cell.Row < 0 {
		cell.Row = 0
	}
	if cell.Row >= g.rows {
		cell.Row = g.rows - 1
	}
	return cell
}

// Center returns the continuous center of c.
func (g *Grid) Center(c Cell) world.Vec2 {
	return world.Vec2{
		X: (float64(c.Col) + 0.5) * g.tileSize,
		Y: (float64(c.Row) + 0.5) * g.tileSize,
	}
}

func manhattan(a, b Cell) int {
	dx := a.Col - b.Col
	if dx < 0 {
		dx = -dx
	}
	dy := a.Row - b.Row
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}
