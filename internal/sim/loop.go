package sim

import (
	"context"
	"time"

	"tank-arena/internal/telemetry"
	"tank-arena/internal/world"
	"tank-arena/logging/simulation"
)

const (
	DefaultTickRate = 60

	StopRoundOver = "round_over"
	StopMaxTicks  = "max_ticks"
	StopCanceled  = "canceled"
)

// Observer is notified after every tick on the simulation goroutine. It may
// read the world but must copy anything it keeps.
type Observer interface {
	Observe(tick uint64, w *world.World)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(tick uint64, w *world.World)

// Observe implements Observer.
func (f ObserverFunc) Observe(tick uint64, w *world.World) { f(tick, w) }

// LoopConfig tunes the fixed-rate runner.
type LoopConfig struct {
	TickRate int
	// MaxTicks stops the match after that many ticks. Zero runs until the
	// round ends or the context is canceled.
	MaxTicks uint64
	// Realtime paces ticks with a ticker. When false ticks run back to back.
	Realtime bool
}

// LoopResult reports why the loop exited.
type LoopResult struct {
	Reason string
	Ticks  uint64
	Winner world.Team
}

// Loop drives a Match at a fixed rate and reports tick budget overruns.
type Loop struct {
	match     *Match
	config    LoopConfig
	deps      Deps
	observers []Observer

	overrunStreak uint64
}

// NewLoop wraps match with a fixed-rate runner.
func NewLoop(match *Match, cfg LoopConfig, deps Deps, observers ...Observer) *Loop {
	if cfg.TickRate <= 0 {
		cfg.TickRate = DefaultTickRate
	}
	return &Loop{match: match, config: cfg, deps: deps.withDefaults(), observers: observers}
}

// Budget is the wall-clock slot available to one tick.
func (l *Loop) Budget() time.Duration {
	return time.Second / time.Duration(l.config.TickRate)
}

// Run steps the match until the round ends, the tick cap is reached or ctx is
// canceled.
func (l *Loop) Run(ctx context.Context) LoopResult {
	var tickC <-chan time.Time
	if l.config.Realtime {
		ticker := time.NewTicker(l.Budget())
		defer ticker.Stop()
		tickC = ticker.C
	}

	for {
		if l.config.Realtime {
			select {
			case <-ctx.Done():
				return l.stop(ctx, StopCanceled)
			case <-tickC:
			}
		} else if ctx.Err() != nil {
			return l.stop(ctx, StopCanceled)
		}

		result := l.Advance(ctx)
		if result.RoundOver {
			return l.stop(ctx, StopRoundOver)
		}
		if l.config.MaxTicks > 0 && result.Tick >= l.config.MaxTicks {
			return l.stop(ctx, StopMaxTicks)
		}
	}
}

// Advance executes a single tick, notifies observers and records timing.
func (l *Loop) Advance(ctx context.Context) StepResult {
	clock := l.deps.Clock
	start := clock.Now()
	result := l.match.Step(ctx)
	for _, observer := range l.observers {
		observer.Observe(result.Tick, l.match.World())
	}
	duration := clock.Now().Sub(start)

	l.deps.Metrics.Add(telemetry.MetricTicks, 1)
	l.deps.Metrics.Store(telemetry.MetricLastTickMicros, uint64(duration.Microseconds()))
	l.checkBudget(ctx, result.Tick, duration)
	return result
}

func (l *Loop) checkBudget(ctx context.Context, tick uint64, duration time.Duration) {
	budget := l.Budget()
	if duration <= budget {
		l.overrunStreak = 0
		return
	}
	l.overrunStreak++
	l.deps.Metrics.Add(telemetry.MetricTickOverruns, 1)
	simulation.TickBudgetOverrun(ctx, l.deps.Publisher, tick, simulation.TickBudgetOverrunPayload{
		DurationMillis: duration.Milliseconds(),
		BudgetMillis:   budget.Milliseconds(),
		Ratio:          float64(duration) / float64(budget),
		Streak:         l.overrunStreak,
	}, nil)
}

func (l *Loop) stop(ctx context.Context, reason string) LoopResult {
	w := l.match.World()
	winner, _ := w.RoundOver()
	result := LoopResult{Reason: reason, Ticks: w.Tick(), Winner: winner}
	l.deps.Logger.Printf("match stopped: reason=%s ticks=%d winner=%s", reason, result.Ticks, winner)
	// The stop event is published even when ctx is already canceled.
	simulation.MatchStopped(context.WithoutCancel(ctx), l.deps.Publisher, result.Ticks, simulation.MatchStoppedPayload{
		Reason: reason,
		Ticks:  result.Ticks,
		Winner: string(winner),
	}, nil)
	return result
}
