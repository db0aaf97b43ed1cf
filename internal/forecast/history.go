package forecast

import (
	"time"

	"github.com/andresuchdata/stockcast/internal/domain"
)

// History holds the trailing window sums for one SKU's sales observations.
// Missing days count as zero sales, so window lengths are calendar days, not
// observation counts. When a SKU has less history than a window, the window
// shrinks to however many days exist.
type History struct {
	Sum7, Sum30, Sum90    int
	Days7, Days30, Days90 int
	// ObservedDays is the calendar span covered by history up to the run
	// date, capped at 90. It drives the confidence sparsity discount.
	ObservedDays int
}

// dateOnly truncates a timestamp to its UTC calendar day.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// daysBetween returns the number of calendar days from a to b, inclusive of b.
func daysBetween(a, b time.Time) int {
	return int(dateOnly(b).Sub(dateOnly(a)).Hours() / 24)
}

// AggregateHistory rolls per-day observations into 7/30/90-day trailing
// windows ending on asOf (inclusive). Multiple rows for the same day are
// summed, since late corrections arrive as extra rows. Observations dated
// after asOf are ignored.
func AggregateHistory(obs []domain.SalesObservation, asOf time.Time) History {
	asOf = dateOnly(asOf)

	var h History
	var earliest time.Time
	byAge := make(map[int]int) // days before asOf -> units sold

	for _, o := range obs {
		day := dateOnly(o.Date)
		if day.After(asOf) {
			continue
		}
		if earliest.IsZero() || day.Before(earliest) {
			earliest = day
		}
		byAge[daysBetween(day, asOf)] += o.UnitsSold
	}

	if earliest.IsZero() {
		return h
	}

	span := daysBetween(earliest, asOf) + 1
	h.ObservedDays = min(span, int(Window90d))
	h.Days7 = min(span, int(Window7d))
	h.Days30 = min(span, int(Window30d))
	h.Days90 = min(span, int(Window90d))

	for age, units := range byAge {
		if age < int(Window7d) {
			h.Sum7 += units
		}
		if age < int(Window30d) {
			h.Sum30 += units
		}
		if age < int(Window90d) {
			h.Sum90 += units
		}
	}

	return h
}

// WindowSum returns the units sold and effective day count for a window.
func (h History) WindowSum(w Window) (units, days int) {
	switch w {
	case Window7d:
		return h.Sum7, h.Days7
	case Window30d:
		return h.Sum30, h.Days30
	default:
		return h.Sum90, h.Days90
	}
}
