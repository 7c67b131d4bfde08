package world

// obstacleAttemptsPerBlock bounds the rejection sampling for a single
// obstacle. Dense configurations place fewer blocks instead of spinning.
const obstacleAttemptsPerBlock = 200

// scatterObstacles drops the configured number of tile-aligned blocks at
// random cells, skipping the top row and any cell overlapping an existing
// agent, pickup or block.
func (w *World) scatterObstacles() {
	count := w.config.ObstacleCount
	if count <= 0 {
		return
	}

	tile := w.config.TileSize
	cols := int(w.config.Width / tile)
	rows := int(w.config.Height / tile)
	if cols <= 0 || rows <= 1 {
		return
	}

	rng := w.SubsystemRNG("obstacles")
	for placed := 0; placed < count; placed++ {
		for attempt := 0; attempt < obstacleAttemptsPerBlock; attempt++ {
			box := Rect{
				X: float64(rng.Intn(cols)) * tile,
				Y: float64(1+rng.Intn(rows-1)) * tile,
				W: tile,
				H: tile,
			}
			if w.occupied(box) {
				continue
			}
			w.PlaceObstacle(box)
			break
		}
	}
}

// occupied reports whether box overlaps any agent, obstacle or pickup.
func (w *World) occupied(box Rect) bool {
	for _, agent := range w.agents {
		if agent.Alive() && agent.Bounds().Overlaps(box) {
			return true
		}
	}
	for _, obstacle := range w.obstacles {
		if obstacle.Box.Overlaps(box) {
			return true
		}
	}
	for _, pickup := range w.pickups {
		if pickup.Box.Overlaps(box) {
			return true
		}
	}
	return false
}

// damageObstacle applies damage and removes the block once destroyed.
func (w *World) damageObstacle(obstacle *Obstacle, amount int) bool {
	obstacle.HP -= amount
	if obstacle.HP > 0 {
		return false
	}
	w.removeObstacle(obstacle.Handle)
	return true
}

func (w *World) removeObstacle(handle Handle) {
	kept := w.obstacles[:0]
	for _, obstacle := range w.obstacles {
		if obstacle.Handle != handle {
			kept = append(kept, obstacle)
		}
	}
	for i := len(kept); i < len(w.obstacles); i++ {
		w.obstacles[i] = nil
	}
	w.obstacles = kept
}
