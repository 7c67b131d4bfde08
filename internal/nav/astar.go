package nav

import (
	"container/heap"

	"tank-arena/internal/world"
)

type pathNode struct {
	cell   Cell
	g      int
	f      int
	seq    uint64
	index  int
	parent *pathNode
}

// pathQueue orders by f-score, then by insertion so equal-cost frontiers
// expand first-in first-out.
type pathQueue []*pathNode

func (pq pathQueue) Len() int { return len(pq) }

func (pq pathQueue) Less(i, j int) bool {
	if pq[i].f != pq[j].f {
		return pq[i].f < pq[j].f
	}
	return pq[i].seq < pq[j].seq
}

func (pq pathQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].index = i
	pq[j].index = j
}

func (pq *pathQueue) Push(x any) {
	n := len(*pq)
	item := x.(*pathNode)
	item.index = n
	*pq = append(*pq, item)
}

func (pq *pathQueue) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.index = -1
	*pq = old[:n-1]
	return item
}

// Route runs A* between two cells over 4-connected unit-cost moves. The
// returned cells exclude start and end at goal.
func (g *Grid) Route(start, goal Cell) ([]Cell, bool) {
	if g == nil || !g.InBounds(start) || !g.InBounds(goal) {
		return nil, false
	}
	if start == goal {
		return []Cell{}, true
	}

	var seq uint64
	open := &pathQueue{}
	heap.Init(open)
	heap.Push(open, &pathNode{cell: start, f: manhattan(start, goal), seq: seq})
	gScore := map[int]int{g.index(start): 0}
	closed := make(map[int]struct{})

	for open.Len() > 0 {
		current := heap.Pop(open).(*pathNode)
		currIdx := g.index(current.cell)
		if _, seen := closed[currIdx]; seen {
			continue
		}
		closed[currIdx] = struct{}{}
		if current.cell == goal {
			return reconstructPath(current), true
		}

		for _, delta := range neighborOffsets {
			next := Cell{Col: current.cell.Col + delta.Col, Row: current.cell.Row + delta.Row}
			if g.Blocked(next) {
				continue
			}
			idx := g.index(next)
			if _, seen := closed[idx]; seen {
				continue
			}
			tentativeG := current.g + 1
			if prev, ok := gScore[idx]; ok && tentativeG >= prev {
				continue
			}
			gScore[idx] = tentativeG
			seq++
			heap.Push(open, &pathNode{
				cell:   next,
				g:      tentativeG,
				f:      tentativeG + manhattan(next, goal),
				seq:    seq,
				parent: current,
			})
		}
	}
	return nil, false
}

// reconstructPath walks parents back to the start, dropping the start cell.
func reconstructPath(end *pathNode) []Cell {
	path := make([]Cell, 0, end.g)
	for node := end; node != nil && node.parent != nil; node = node.parent {
		path = append(path, node.cell)
	}
	for i := 0; i < len(path)/2; i++ {
		j := len(path) - 1 - i
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// FindPath plans from start to goal and converts the cells into waypoints at
// tile centers. A false result means the goal is unreachable; the caller
// steps straight toward it instead.
func (g *Grid) FindPath(start, goal world.Vec2) (Path, bool) {
	cells, ok := g.Route(g.Locate(start), g.Locate(goal))
	if !ok {
		return Path{}, false
	}
	waypoints := make([]world.Vec2, len(cells))
	for i, cell := range cells {
		waypoints[i] = g.Center(cell)
	}
	return Path{Waypoints: waypoints}, true
}

// FindPath builds a grid for the arena described by cfg and plans a path.
func FindPath(cfg world.Config, start, goal world.Vec2, obstacles []*world.Obstacle) (Path, bool) {
	cfg = cfg.Normalized()
	return NewGrid(cfg.Width, cfg.Height, cfg.TileSize, obstacles).FindPath(start, goal)
}
