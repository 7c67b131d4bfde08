package simulation

import (
	"context"

	"tank-arena/logging"
)

const (
	// EventTickBudgetOverrun is emitted when a tick takes longer than its slot.
	EventTickBudgetOverrun logging.EventType = "simulation.tick_budget_overrun"
	// EventMatchStopped is emitted when the match loop exits.
	EventMatchStopped logging.EventType = "simulation.match_stopped"
)

// TickBudgetOverrunPayload captures timing details for a tick budget breach.
type TickBudgetOverrunPayload struct {
	DurationMillis int64   `json:"durationMillis"`
	BudgetMillis   int64   `json:"budgetMillis"`
	Ratio          float64 `json:"ratio"`
	Streak         uint64  `json:"streak"`
}

// MatchStoppedPayload records why the loop exited.
type MatchStoppedPayload struct {
	Reason string `json:"reason"`
	Ticks  uint64 `json:"ticks"`
	Winner string `json:"winner,omitempty"`
}

// TickBudgetOverrun publishes a warning when a tick exceeds its budget.
func TickBudgetOverrun(ctx context.Context, pub logging.Publisher, tick uint64, payload TickBudgetOverrunPayload, extra map[string]any) {
	if pub == nil {
		return
	}
	event := logging.Event{
		Type:     EventTickBudgetOverrun,
		Tick:     tick,
		Severity: logging.SeverityWarn,
		Category: "simulation",
		Payload:  payload,
		Extra:    extra,
	}
	pub.Publish(ctx, event)
}

// MatchStopped publishes the loop exit.
func MatchStopped(ctx context.Context, pub logging.Publisher, tick uint64, payload MatchStoppedPayload, extra map[string]any) {
	if pub == nil {
		return
	}
	event := logging.Event{
		Type:     EventMatchStopped,
		Tick:     tick,
		Actor:    logging.EntityRef{ID: "arena", Kind: logging.EntityKindWorld},
		Severity: logging.SeverityInfo,
		Category: "simulation",
		Payload:  payload,
		Extra:    extra,
	}
	pub.Publish(ctx, event)
}
