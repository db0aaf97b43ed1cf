package forecast

import (
	"testing"
	"time"

	"github.com/andresuchdata/stockcast/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func event(name string, startOffset, endOffset int, uplift float64, exclusive bool, categories ...string) domain.SeasonalEvent {
	return domain.SeasonalEvent{
		Name:         name,
		StartDate:    testAsOf.AddDate(0, 0, startOffset),
		EndDate:      testAsOf.AddDate(0, 0, endOffset),
		UpliftFactor: uplift,
		Exclusive:    exclusive,
		Categories:   categories,
	}
}

func horizon(days int) time.Time { return testAsOf.AddDate(0, 0, days) }

func TestSeasonalAdjustment_NoEventIsIdentity(t *testing.T) {
	adj := SeasonalAdjustment(nil, "beauty", testAsOf, horizon(14))

	assert.Equal(t, 1.0, adj.Factor)
	assert.Empty(t, adj.Applied)
}

func TestSeasonalAdjustment_ComposesMultiplicatively(t *testing.T) {
	cal := []domain.SeasonalEvent{
		event("prime day", 0, 2, 1.5, false),
		event("back to school", 1, 20, 1.2, false),
	}

	adj := SeasonalAdjustment(cal, "beauty", testAsOf, horizon(14))
	assert.InDelta(t, 1.8, adj.Factor, 1e-9)
	assert.Len(t, adj.Applied, 2)

	// Order-independent.
	reversed := SeasonalAdjustment([]domain.SeasonalEvent{cal[1], cal[0]}, "beauty", testAsOf, horizon(14))
	assert.InDelta(t, adj.Factor, reversed.Factor, 1e-9)
}

func TestSeasonalAdjustment_ExclusiveOverridesAll(t *testing.T) {
	cal := []domain.SeasonalEvent{
		event("prime day", 0, 2, 2.0, false),
		event("clearance", 0, 5, 2.5, false),
		event("black friday", 0, 4, 3.0, true),
	}

	adj := SeasonalAdjustment(cal, "beauty", testAsOf, horizon(14))
	require.True(t, adj.Exclusive)
	// The non-exclusive product (5.0) is larger, the exclusive still wins.
	assert.InDelta(t, 3.0, adj.Factor, 1e-9)
	require.Len(t, adj.Applied, 1)
	assert.Equal(t, "black friday", adj.Applied[0].Name)
}

func TestSeasonalAdjustment_TwoExclusivesLargerUpliftWins(t *testing.T) {
	cal := []domain.SeasonalEvent{
		event("black friday", 0, 4, 3.0, true),
		event("cyber monday", 0, 4, 3.5, true),
	}

	adj := SeasonalAdjustment(cal, "beauty", testAsOf, horizon(14))
	require.Len(t, adj.Applied, 1)
	assert.Equal(t, "cyber monday", adj.Applied[0].Name)
	assert.InDelta(t, 3.5, adj.Factor, 1e-9)

	// The losing exclusive is kept for the reasoning trail.
	require.NotEmpty(t, adj.Discarded)
	found := false
	for _, ev := range adj.Discarded {
		if ev.Name == "black friday" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestSeasonalAdjustment_LookaheadHorizon(t *testing.T) {
	// Event starts 10 days out: inside a 14-day lead time, outside 5.
	cal := []domain.SeasonalEvent{event("holiday rush", 10, 30, 2.0, false)}

	inside := SeasonalAdjustment(cal, "beauty", testAsOf, horizon(14))
	assert.InDelta(t, 2.0, inside.Factor, 1e-9)

	outside := SeasonalAdjustment(cal, "beauty", testAsOf, horizon(5))
	assert.Equal(t, 1.0, outside.Factor)
}

func TestSeasonalAdjustment_CategoryFilter(t *testing.T) {
	cal := []domain.SeasonalEvent{
		event("skincare week", 0, 7, 1.4, false, "skincare"),
		event("sitewide sale", 0, 7, 1.1, false),
	}

	skincare := SeasonalAdjustment(cal, "skincare", testAsOf, horizon(14))
	assert.InDelta(t, 1.54, skincare.Factor, 1e-9)

	other := SeasonalAdjustment(cal, "electronics", testAsOf, horizon(14))
	assert.InDelta(t, 1.1, other.Factor, 1e-9)
}

func TestSeasonalAdjustment_EndedEventDoesNotApply(t *testing.T) {
	cal := []domain.SeasonalEvent{event("spring sale", -30, -10, 1.5, false)}

	adj := SeasonalAdjustment(cal, "beauty", testAsOf, horizon(14))
	assert.Equal(t, 1.0, adj.Factor)
}

func TestAdjustVelocity(t *testing.T) {
	assert.InDelta(t, 15.0, AdjustVelocity(10, Adjustment{Factor: 1.5}), 1e-9)
	assert.Zero(t, AdjustVelocity(0, Adjustment{Factor: 3.0}))
}
