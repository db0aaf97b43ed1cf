package forecast

import (
	"context"
	"testing"

	"github.com/andresuchdata/stockcast/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func skuInput(sku string, days, dailyUnits int, snap domain.InventorySnapshot) SKUInput {
	snap.SKU = sku
	return SKUInput{
		Product:  domain.Product{SKU: sku, Category: "beauty"},
		Sales:    constantSales(sku, testAsOf, days, dailyUnits),
		Snapshot: snap,
	}
}

func TestCompute_InvalidConfigFailsWholeRun(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LeadTimeDays = 0

	in := Input{AsOf: testAsOf, SKUs: []SKUInput{skuInput("A", 90, 10, snapshot(100, 0, 0, 0))}}
	batch, err := Compute(context.Background(), in, cfg)

	require.Error(t, err)
	assert.Nil(t, batch)
	var cfgErr *ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestCompute_ReferenceScenario(t *testing.T) {
	// ABC123: 10 units/day for 90+ days, lead time 14, buffer 7, 150 on hand.
	cfg := DefaultConfig()
	cfg.SafetyStockDays = 7
	cfg.LeadTimeDays = 14

	in := Input{
		AsOf: testAsOf,
		SKUs: []SKUInput{skuInput("ABC123", 120, 10, snapshot(100, 40, 10, 0))},
	}

	batch, err := Compute(context.Background(), in, cfg)
	require.NoError(t, err)
	require.Empty(t, batch.Skipped)

	res := batch.Results["ABC123"]
	require.NotNil(t, res)
	assert.InDelta(t, 10.0, res.AdjustedVelocity, 1e-9)
	assert.Equal(t, 70, res.SafetyStock)
	assert.Equal(t, 210, res.ReorderPoint)
	assert.Equal(t, 60, res.RecommendedOrderQty)
	require.NotNil(t, res.DaysToPurchase)
	assert.Equal(t, 8, *res.DaysToPurchase)
	assert.Equal(t, domain.UrgencyMedium, res.Urgency)
	require.NotNil(t, res.DaysUntilStockout)
	assert.Equal(t, 15, *res.DaysUntilStockout)
	assert.Equal(t, 1.0, res.Confidence)
	assert.NotEmpty(t, res.Reasoning)
}

func TestCompute_ZeroHistorySKUDegradesGracefully(t *testing.T) {
	in := Input{AsOf: testAsOf, SKUs: []SKUInput{skuInput("NEW", 0, 0, snapshot(50, 0, 0, 0))}}

	batch, err := Compute(context.Background(), in, DefaultConfig())
	require.NoError(t, err)
	require.Empty(t, batch.Skipped)

	res := batch.Results["NEW"]
	require.NotNil(t, res)
	assert.Zero(t, res.AdjustedVelocity)
	assert.Zero(t, res.RecommendedOrderQty)
	assert.Equal(t, domain.UrgencyOK, res.Urgency)
	assert.Nil(t, res.DaysUntilStockout)
	assert.Zero(t, res.Confidence)
	assert.NotEmpty(t, res.Reasoning)
}

func TestCompute_NegativeSnapshotSkipsOnlyThatSKU(t *testing.T) {
	bad := skuInput("BAD", 90, 5, snapshot(-10, 0, 0, 0))
	good := skuInput("GOOD", 90, 5, snapshot(500, 100, 0, 0))

	batch, err := Compute(context.Background(), Input{AsOf: testAsOf, SKUs: []SKUInput{bad, good}}, DefaultConfig())
	require.NoError(t, err)

	require.Len(t, batch.Skipped, 1)
	assert.Equal(t, "BAD", batch.Skipped[0].SKU)
	assert.Contains(t, batch.Skipped[0].Reason, "negative warehouse quantity")
	_, ok := batch.Results["BAD"]
	assert.False(t, ok)
	assert.Contains(t, batch.Results, "GOOD")
}

func TestCompute_SeasonalEventInsideLeadTime(t *testing.T) {
	cfg := DefaultConfig()
	in := Input{
		AsOf: testAsOf,
		SKUs: []SKUInput{skuInput("A", 120, 10, snapshot(1000, 500, 0, 0))},
		Calendar: []domain.SeasonalEvent{
			event("holiday rush", 10, 30, 2.0, false),
		},
	}

	batch, err := Compute(context.Background(), in, cfg)
	require.NoError(t, err)

	res := batch.Results["A"]
	assert.InDelta(t, 20.0, res.AdjustedVelocity, 1e-9)
}

func TestCompute_ReplenishmentCapacityScenario(t *testing.T) {
	cfg := DefaultConfig()
	cfg.FBACapacity = 500
	cfg.Workers = 4

	// A: 2 days of FBA supply, can send 300. B: 5 days, can send 400.
	skuA := skuInput("A", 120, 10, snapshot(300, 20, 0, 0))
	skuB := skuInput("B", 120, 10, snapshot(400, 50, 0, 0))

	batch, err := Compute(context.Background(), Input{AsOf: testAsOf, SKUs: []SKUInput{skuA, skuB}}, cfg)
	require.NoError(t, err)

	a, b := batch.Results["A"], batch.Results["B"]
	require.NotNil(t, a)
	require.NotNil(t, b)
	assert.Equal(t, 300, a.RecommendedFBAQty)
	assert.Equal(t, 200, b.RecommendedFBAQty)
	assert.Equal(t, 500, batch.FBAShipToday)
	assert.Contains(t, lastReason(a), "capped by shared capacity")
	assert.Contains(t, lastReason(b), "capped by shared capacity")
}

func TestCompute_Idempotent(t *testing.T) {
	cfg := DefaultConfig()
	cfg.FBACapacity = 500
	cfg.Workers = 8

	in := Input{
		AsOf: testAsOf,
		SKUs: []SKUInput{
			skuInput("A", 120, 10, snapshot(300, 20, 0, 0)),
			skuInput("B", 120, 7, snapshot(400, 50, 0, 0)),
			skuInput("C", 15, 3, snapshot(10, 5, 0, 0)),
			skuInput("D", 0, 0, snapshot(0, 0, 0, 0)),
			skuInput("E", 90, 1, snapshot(-1, 0, 0, 0)),
		},
		Calendar: []domain.SeasonalEvent{
			event("prime day", 0, 2, 1.5, false),
			event("black friday", 5, 9, 3.0, true),
		},
	}

	first, err := Compute(context.Background(), in, cfg)
	require.NoError(t, err)
	second, err := Compute(context.Background(), in, cfg)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestCompute_Cancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	skus := make([]SKUInput, 100)
	for i := range skus {
		skus[i] = skuInput("SKU", 90, 5, snapshot(100, 0, 0, 0))
	}

	_, err := Compute(ctx, Input{AsOf: testAsOf, SKUs: skus}, DefaultConfig())
	assert.ErrorIs(t, err, context.Canceled)
}

func lastReason(res *domain.ForecastResult) string {
	if len(res.Reasoning) == 0 {
		return ""
	}
	return res.Reasoning[len(res.Reasoning)-1]
}
