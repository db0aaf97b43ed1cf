package forecast

import (
	"testing"
	"time"

	"github.com/andresuchdata/stockcast/internal/domain"
	"github.com/stretchr/testify/assert"
)

var testAsOf = time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

// constantSales builds one observation per day at v units, for days days
// ending on asOf.
func constantSales(sku string, asOf time.Time, days, v int) []domain.SalesObservation {
	obs := make([]domain.SalesObservation, 0, days)
	for i := 0; i < days; i++ {
		obs = append(obs, domain.SalesObservation{
			SKU:       sku,
			Date:      asOf.AddDate(0, 0, -i),
			UnitsSold: v,
		})
	}
	return obs
}

func TestAggregateHistory_FullWindows(t *testing.T) {
	h := AggregateHistory(constantSales("A", testAsOf, 120, 5), testAsOf)

	assert.Equal(t, 35, h.Sum7)
	assert.Equal(t, 150, h.Sum30)
	assert.Equal(t, 450, h.Sum90)
	assert.Equal(t, 7, h.Days7)
	assert.Equal(t, 30, h.Days30)
	assert.Equal(t, 90, h.Days90)
	assert.Equal(t, 90, h.ObservedDays)
}

func TestAggregateHistory_ShortHistoryShrinksWindows(t *testing.T) {
	// 10 days of history: the 30d and 90d windows cover only 10 days.
	h := AggregateHistory(constantSales("A", testAsOf, 10, 3), testAsOf)

	assert.Equal(t, 7, h.Days7)
	assert.Equal(t, 10, h.Days30)
	assert.Equal(t, 10, h.Days90)
	assert.Equal(t, 30, h.Sum30)
	assert.Equal(t, 10, h.ObservedDays)
}

func TestAggregateHistory_ZeroFillForMissingDays(t *testing.T) {
	// Sales only on 2 of the last 30 days; the window length stays calendar-based.
	obs := []domain.SalesObservation{
		{SKU: "A", Date: testAsOf.AddDate(0, 0, -29), UnitsSold: 10},
		{SKU: "A", Date: testAsOf, UnitsSold: 20},
	}
	h := AggregateHistory(obs, testAsOf)

	assert.Equal(t, 30, h.Days30)
	assert.Equal(t, 30, h.Sum30)
	assert.Equal(t, 30, h.ObservedDays)
}

func TestAggregateHistory_LateCorrectionsSum(t *testing.T) {
	// A correction arrives as a second row for the same day.
	obs := []domain.SalesObservation{
		{SKU: "A", Date: testAsOf, UnitsSold: 10},
		{SKU: "A", Date: testAsOf, UnitsSold: -3},
	}
	h := AggregateHistory(obs, testAsOf)

	assert.Equal(t, 7, h.Sum7)
}

func TestAggregateHistory_IgnoresFutureObservations(t *testing.T) {
	obs := []domain.SalesObservation{
		{SKU: "A", Date: testAsOf.AddDate(0, 0, 1), UnitsSold: 100},
	}
	h := AggregateHistory(obs, testAsOf)

	assert.Zero(t, h.Sum7)
	assert.Zero(t, h.ObservedDays)
}

func TestAggregateHistory_Empty(t *testing.T) {
	h := AggregateHistory(nil, testAsOf)

	assert.Zero(t, h.ObservedDays)
	assert.Zero(t, h.Days90)
}
