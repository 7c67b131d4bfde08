package nav

import "tank-arena/internal/world"

// Path is a sequence of tile-center waypoints with a cursor marking the next
// one to reach. The zero value is an exhausted path.
type Path struct {
	Waypoints []world.Vec2
	Cursor    int
}

// Next returns the waypoint under the cursor.
func (p *Path) Next() (world.Vec2, bool) {
	if p == nil || p.Cursor < 0 || p.Cursor >= len(p.Waypoints) {
		return world.Vec2{}, false
	}
	return p.Waypoints[p.Cursor], true
}

// Advance moves the cursor to the following waypoint.
func (p *Path) Advance() {
	if p != nil && p.Cursor < len(p.Waypoints) {
		p.Cursor++
	}
}

// Exhausted reports whether every waypoint has been reached.
func (p *Path) Exhausted() bool {
	return p == nil || p.Cursor >= len(p.Waypoints)
}

// Upcoming returns up to n waypoints starting at the cursor.
func (p *Path) Upcoming(n int) []world.Vec2 {
	if p.Exhausted() || n <= 0 {
		return nil
	}
	end := p.Cursor + n
	if end > len(p.Waypoints) {
		end = len(p.Waypoints)
	}
	return p.Waypoints[p.Cursor:end]
}

// Len reports the total number of waypoints.
func (p *Path) Len() int {
	if p == nil {
		return 0
	}
	return len(p.Waypoints)
}
