package sim

import (
	"context"

	"tank-arena/internal/world"
)

// Driver decides one agent's actions for a tick. Drivers run sequentially on
// the simulation goroutine and may mutate the world.
type Driver interface {
	Update(ctx context.Context, w *world.World, tick uint64)
}

// DriverFunc adapts a function to Driver.
type DriverFunc func(ctx context.Context, w *world.World, tick uint64)

// Update implements Driver.
func (f DriverFunc) Update(ctx context.Context, w *world.World, tick uint64) { f(ctx, w, tick) }

// Match binds a world to the drivers of its agents.
type Match struct {
	world   *world.World
	drivers []Driver
}

// NewMatch returns a match whose drivers run in the given order every tick.
func NewMatch(w *world.World, drivers ...Driver) *Match {
	active := make([]Driver, 0, len(drivers))
	for _, d := range drivers {
		if d != nil {
			active = append(active, d)
		}
	}
	return &Match{world: w, drivers: active}
}

// World exposes the match's arena. It must only be touched from the
// simulation goroutine.
func (m *Match) World() *world.World { return m.world }

// StepResult summarizes one advanced tick.
type StepResult struct {
	Tick      uint64
	RoundOver bool
	Winner    world.Team
}

// Step advances the match by one tick: pickups are topped up, projectiles
// move and resolve hits, every driver acts, pickups age or get claimed and
// impact effects fade. A finished round does not advance.
func (m *Match) Step(ctx context.Context) StepResult {
	w := m.world
	if winner, over := w.RoundOver(); over {
		return StepResult{Tick: w.Tick(), RoundOver: true, Winner: winner}
	}

	tick := w.BeginTick()
	w.MaintainPickups(ctx)
	w.AdvanceProjectiles(ctx)
	for _, d := range m.drivers {
		if _, over := w.RoundOver(); over {
			break
		}
		d.Update(ctx, w, tick)
	}
	w.UpdatePickups(ctx)
	w.UpdateEffects()

	winner, over := w.RoundOver()
	return StepResult{Tick: tick, RoundOver: over, Winner: winner}
}

// RunTicks steps the match as fast as possible until the round ends, n ticks
// have run, or ctx is done. n <= 0 means no cap.
func (m *Match) RunTicks(ctx context.Context, n int) StepResult {
	var result StepResult
	for i := 0; n <= 0 || i < n; i++ {
		if ctx.Err() != nil {
			break
		}
		result = m.Step(ctx)
		if result.RoundOver {
			break
		}
	}
	return result
}
