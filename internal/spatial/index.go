// Package spatial answers occlusion and proximity queries over the arena's
// obstacles.
package spatial

import (
	"math"
	"sort"

	"github.com/dhconnelly/rtreego"

	"tank-arena/internal/world"
)

const (
	treeMinChildren = 25
	treeMaxChildren = 50

	// segmentPad widens a segment's bounding box so axis-aligned segments
	// still produce a query rect with positive extent.
	segmentPad = 1.0
)

type entry struct {
	obstacle *world.Obstacle
	order    int
	rect     rtreego.Rect
}

func (e *entry) Bounds() rtreego.Rect { return e.rect }

// Index is an R-tree broad-phase over one tick's obstacle set. It is
// immutable once built; rebuild it when obstacles change.
type Index struct {
	tree  *rtreego.Rtree
	loose []*entry
	size  int
}

// NewIndex bulk-loads the obstacles. Obstacles with a degenerate box are kept
// aside and scanned linearly.
func NewIndex(obstacles []*world.Obstacle) *Index {
	idx := &Index{size: len(obstacles)}
	indexed := make([]rtreego.Spatial, 0, len(obstacles))
	for i, obstacle := range obstacles {
		if obstacle == nil {
			continue
		}
		e := &entry{obstacle: obstacle, order: i}
		rect, err := rtreego.NewRect(rtreego.Point{obstacle.Box.X, obstacle.Box.Y}, []float64{obstacle.Box.W, obstacle.Box.H})
		if err != nil {
			idx.loose = append(idx.loose, e)
			continue
		}
		e.rect = rect
		indexed = append(indexed, e)
	}
	idx.tree = rtreego.NewTree(2, treeMinChildren, treeMaxChildren, indexed...)
	return idx
}

// Len reports how many obstacles the index was built from.
func (idx *Index) Len() int {
	if idx == nil {
		return 0
	}
	return idx.size
}

// candidates returns the obstacles whose box may intersect the segment, in
// their original order.
func (idx *Index) candidates(a, b world.Vec2) []*world.Obstacle {
	if idx == nil || idx.size == 0 {
		return nil
	}
	minX, maxX := math.Min(a.X, b.X), math.Max(a.X, b.X)
	minY, maxY := math.Min(a.Y, b.Y), math.Max(a.Y, b.Y)
	query, err := rtreego.NewRect(
		rtreego.Point{minX - segmentPad, minY - segmentPad},
		[]float64{maxX - minX + 2*segmentPad, maxY - minY + 2*segmentPad},
	)

	var hits []*entry
	if err == nil && idx.tree.Size() > 0 {
		for _, spatial := range idx.tree.SearchIntersect(query) {
			hits = append(hits, spatial.(*entry))
		}
	}
	hits = append(hits, idx.loose...)
	sort.Slice(hits, func(i, j int) bool { return hits[i].order < hits[j].order })

	out := make([]*world.Obstacle, len(hits))
	for i, hit := range hits {
		out[i] = hit.obstacle
	}
	return out
}

// OcclusionCount reports how many distinct obstacles lie on the segment
// between p1 and p2.
func (idx *Index) OcclusionCount(p1, p2 world.Vec2) int {
	return countOccluders(p1, p2, idx.candidates(p1, p2), false)
}

// HasLineOfSight reports whether no obstacle lies on the segment.
func (idx *Index) HasLineOfSight(p1, p2 world.Vec2) bool {
	return countOccluders(p1, p2, idx.candidates(p1, p2), true) == 0
}

// Nearest returns the obstacle closest to p and the squared distance from p
// to its box. Points inside a box are at distance zero.
func (idx *Index) Nearest(p world.Vec2) (*world.Obstacle, float64, bool) {
	if idx == nil || idx.size == 0 {
		return nil, 0, false
	}
	var best *world.Obstacle
	bestDist := math.Inf(1)
	if idx.tree.Size() > 0 {
		if spatial := idx.tree.NearestNeighbor(rtreego.Point{p.X, p.Y}); spatial != nil {
			best = spatial.(*entry).obstacle
			bestDist = boxDistSq(p, best.Box)
		}
	}
	for _, e := range idx.loose {
		if d := boxDistSq(p, e.obstacle.Box); d < bestDist {
			best, bestDist = e.obstacle, d
		}
	}
	if best == nil {
		return nil, 0, false
	}
	return best, bestDist, true
}
