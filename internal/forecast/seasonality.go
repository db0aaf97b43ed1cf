package forecast

import (
	"sort"
	"time"

	"github.com/andresuchdata/stockcast/internal/domain"
)

// Adjustment is the outcome of matching a SKU against the seasonal calendar
// over its lookahead horizon. No applicable event yields the identity factor;
// there is no separate skip path.
type Adjustment struct {
	Factor    float64
	Applied   []domain.SeasonalEvent
	Discarded []domain.SeasonalEvent
	Exclusive bool
}

// SeasonalAdjustment selects the events whose window intersects the horizon
// [from, to] and that apply to the SKU's category, then combines them:
// non-exclusive events compose by multiplying their uplift factors, while an
// exclusive event overrides and ignores everything else. When two exclusive
// events both apply, the larger uplift wins and the loser is recorded in
// Discarded so the forecast can explain itself.
func SeasonalAdjustment(calendar []domain.SeasonalEvent, category string, from, to time.Time) Adjustment {
	adj := Adjustment{Factor: 1.0}

	var applicable []domain.SeasonalEvent
	for _, ev := range calendar {
		if ev.UpliftFactor <= 0 {
			continue
		}
		if !ev.Overlaps(dateOnly(from), dateOnly(to)) || !ev.AppliesTo(category) {
			continue
		}
		applicable = append(applicable, ev)
	}
	if len(applicable) == 0 {
		return adj
	}

	// Stable order keeps reasoning output deterministic across runs.
	sort.Slice(applicable, func(i, j int) bool {
		if applicable[i].UpliftFactor != applicable[j].UpliftFactor {
			return applicable[i].UpliftFactor > applicable[j].UpliftFactor
		}
		return applicable[i].Name < applicable[j].Name
	})

	var winner *domain.SeasonalEvent
	for i := range applicable {
		if applicable[i].Exclusive {
			// First exclusive in sorted order has the largest uplift.
			winner = &applicable[i]
			break
		}
	}

	if winner != nil {
		adj.Exclusive = true
		adj.Factor = winner.UpliftFactor
		adj.Applied = []domain.SeasonalEvent{*winner}
		for _, ev := range applicable {
			if ev.ID != winner.ID || ev.Name != winner.Name {
				adj.Discarded = append(adj.Discarded, ev)
			}
		}
		return adj
	}

	for _, ev := range applicable {
		adj.Factor *= ev.UpliftFactor
		adj.Applied = append(adj.Applied, ev)
	}
	return adj
}

// AdjustVelocity applies the seasonal factor to a baseline velocity.
func AdjustVelocity(baseline float64, adj Adjustment) float64 {
	return baseline * adj.Factor
}
