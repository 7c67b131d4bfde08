package world

// Collides reports the first solid object other than self whose box overlaps
// box. Agents are checked before obstacles.
func (w *World) Collides(self Handle, box Rect) (Object, bool) {
	for _, agent := range w.agents {
		if agent.Handle == self || !agent.Alive() {
			continue
		}
		if agent.Bounds().Overlaps(box) {
			return agent, true
		}
	}
	for _, obstacle := range w.obstacles {
		if obstacle.Box.Overlaps(box) {
			return obstacle, true
		}
	}
	return nil, false
}

// ClampToArena keeps an agent-sized box centered on p inside the arena and
// returns the adjusted center.
func (w *World) ClampToArena(p Vec2) Vec2 {
	return RectAround(p, AgentSize).ClampInside(w.bounds).Center()
}
