package payout

import "github.com/Danishh07/paydesk/internal/model"

// State tracks how the current aggregate collection was produced.
type State int

const (
	// StateEmpty means no aggregates have been computed this session.
	StateEmpty State = iota
	// StateCalculated means the aggregates came from a full pass over
	// an article collection.
	StateCalculated
	// StateRescaled means the aggregates were rescaled in place after a
	// rate change, without revisiting the articles.
	StateRescaled
)

func (s State) String() string {
	switch s {
	case StateCalculated:
		return "calculated"
	case StateRescaled:
		return "rescaled"
	default:
		return "empty"
	}
}

// Snapshot is the payout readiness state machine. Transitions are pure
// and always replace the whole aggregate collection; persisting the
// result is the caller's follow-up step, never part of the transition.
type Snapshot struct {
	State   State
	Rates   model.PayoutRate
	Payouts []model.AuthorPayout
}

// WithArticles performs a full recompute against a new article batch.
func (s Snapshot) WithArticles(articles []model.Article, rates model.PayoutRate) Snapshot {
	return Snapshot{
		State:   StateCalculated,
		Rates:   rates,
		Payouts: Calculate(articles, rates),
	}
}

// WithRates applies a rate change. Existing aggregates are rescaled
// cheaply; with no aggregates yet, the snapshot just records the rates
// and stays empty.
func (s Snapshot) WithRates(rates model.PayoutRate) Snapshot {
	if s.State == StateEmpty {
		return Snapshot{State: StateEmpty, Rates: rates}
	}
	return Snapshot{
		State:   StateRescaled,
		Rates:   rates,
		Payouts: Rescale(s.Payouts, rates),
	}
}

// Restore seeds a snapshot from persisted aggregates, as on startup.
func Restore(payouts []model.AuthorPayout, rates model.PayoutRate) Snapshot {
	if len(payouts) == 0 {
		return Snapshot{State: StateEmpty, Rates: rates}
	}
	return Snapshot{State: StateCalculated, Rates: rates, Payouts: payouts}
}
