package world

import "math"

// Vec2 is a continuous point or displacement in arena units.
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns v+o.
func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Y: v.Y + o.Y}
}

// Sub returns v-o.
func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{X: v.X - o.X, Y: v.Y - o.Y}
}

// Scale returns v*s.
func (v Vec2) Scale(s float64) Vec2 {
	return Vec2{X: v.X * s, Y: v.Y * s}
}

// DistSq returns the squared euclidean distance between v and o.
func (v Vec2) DistSq(o Vec2) float64 {
	dx := v.X - o.X
	dy := v.Y - o.Y
	return dx*dx + dy*dy
}

// Rect is an axis-aligned box anchored at its top-left corner.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// RectAround builds a size x size box centered on c.
func RectAround(c Vec2, size float64) Rect {
	return Rect{X: c.X - size/2, Y: c.Y - size/2, W: size, H: size}
}

// Center returns the midpoint of the box.
func (r Rect) Center() Vec2 {
	return Vec2{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

// Right is the exclusive right edge.
func (r Rect) Right() float64 { return r.X + r.W }

// Bottom is the exclusive bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.H }

// ContainsPoint reports whether p lies inside the half-open box
// [X, X+W) x [Y, Y+H).
func (r Rect) ContainsPoint(p Vec2) bool {
	return p.X >= r.X && p.X < r.Right() && p.Y >= r.Y && p.Y < r.Bottom()
}

// Overlaps reports whether the two boxes share interior area. Touching edges
// do not overlap.
func (r Rect) Overlaps(o Rect) bool {
	return r.X < o.Right() && o.X < r.Right() && r.Y < o.Bottom() && o.Y < r.Bottom()
}

// ClampInside moves r the minimum distance needed to lie within bounds.
func (r Rect) ClampInside(bounds Rect) Rect {
	r.X = Clamp(r.X, bounds.X, bounds.Right()-r.W)
	r.Y = Clamp(r.Y, bounds.Y, bounds.Bottom()-r.H)
	return r
}

// Clamp limits value to the range [min, max].
func Clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// Direction is one of the four cardinal facings.
type Direction uint8

const (
	DirUp Direction = iota
	DirRight
	DirDown
	DirLeft
)

var directionVectors = [...]Vec2{
	DirUp:    {X: 0, Y: -1},
	DirRight: {X: 1, Y: 0},
	DirDown:  {X: 0, Y: 1},
	DirLeft:  {X: -1, Y: 0},
}

// Vector returns the unit vector for the facing.
func (d Direction) Vector() Vec2 {
	if int(d) >= len(directionVectors) {
		return Vec2{}
	}
	return directionVectors[d]
}

// String implements fmt.Stringer.
func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirRight:
		return "right"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	default:
		return "unknown"
	}
}

// DominantDirection picks the facing for an axis-locked step along delta.
// Horizontal wins only when strictly larger; ties resolve vertically.
func DominantDirection(delta Vec2) Direction {
	if math.Abs(delta.X) > math.Abs(delta.Y) {
		if delta.X > 0 {
			return DirRight
		}
		return DirLeft
	}
	if delta.Y > 0 {
		return DirDown
	}
	return DirUp
}
