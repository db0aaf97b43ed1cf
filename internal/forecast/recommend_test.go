package forecast

import (
	"testing"

	"github.com/andresuchdata/stockcast/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snapshot(warehouse, fba, inbound, incoming int) domain.InventorySnapshot {
	return domain.InventorySnapshot{
		SKU:                "ABC123",
		WarehouseAvailable: warehouse,
		FBAAvailable:       fba,
		FBAInbound:         inbound,
		IncomingFromPO:     incoming,
	}
}

func TestRecommend_ShortfallScenario(t *testing.T) {
	// 10/day, lead 14, buffer 7 -> safety 70, reorder 210. 150 on hand.
	ss := SafetyStock(10, 7)
	rp := ReorderPoint(10, 14, ss)

	rec := Recommend(rp, ss, snapshot(100, 30, 10, 10), 10, 0, 14, 0, testAsOf)

	assert.Equal(t, 60, rec.OrderQty)
	require.NotNil(t, rec.DaysToPurchase)
	assert.Equal(t, 8, *rec.DaysToPurchase) // floor((150-70)/10)
	assert.Equal(t, domain.UrgencyMedium, rec.Urgency)
	require.NotNil(t, rec.PurchaseByDate)
	assert.Equal(t, testAsOf.AddDate(0, 0, 8), *rec.PurchaseByDate)
}

func TestRecommend_FullyStocked(t *testing.T) {
	rec := Recommend(210, 70, snapshot(300, 0, 0, 0), 10, 0, 14, 0, testAsOf)

	assert.Zero(t, rec.OrderQty)
	assert.Equal(t, domain.UrgencyOK, rec.Urgency)
}

func TestRecommend_InboundCountsTowardAvailable(t *testing.T) {
	// 50+50+60+60 = 220 >= 210: no order even though warehouse alone is short.
	rec := Recommend(210, 70, snapshot(50, 50, 60, 60), 10, 0, 14, 0, testAsOf)

	assert.Zero(t, rec.OrderQty)
}

func TestRecommend_MinimumOrderQuantity(t *testing.T) {
	rec := Recommend(210, 70, snapshot(150, 0, 0, 0), 10, 100, 14, 0, testAsOf)

	assert.Equal(t, 100, rec.OrderQty)
}

func TestRecommend_RoundingUnit(t *testing.T) {
	// Shortfall 60 rounds up to the next case of 24.
	rec := Recommend(210, 70, snapshot(150, 0, 0, 0), 10, 0, 14, 24, testAsOf)

	assert.Equal(t, 72, rec.OrderQty)
}

func TestRecommend_ZeroVelocityNoDepletionRisk(t *testing.T) {
	rec := Recommend(0, 0, snapshot(0, 0, 0, 0), 0, 0, 14, 0, testAsOf)

	assert.Zero(t, rec.OrderQty)
	assert.Equal(t, domain.UrgencyOK, rec.Urgency)
	assert.Nil(t, rec.DaysToPurchase)
	assert.Nil(t, rec.PurchaseByDate)
}

func TestUrgencyFor_TierBoundaries(t *testing.T) {
	tests := []struct {
		days int
		want domain.Urgency
	}{
		{-5, domain.UrgencyCritical},
		{0, domain.UrgencyCritical},
		{7, domain.UrgencyHigh},   // lead/2 inclusive
		{8, domain.UrgencyMedium},
		{14, domain.UrgencyMedium}, // lead inclusive
		{15, domain.UrgencyLow},
		{28, domain.UrgencyLow}, // 2x lead inclusive
		{29, domain.UrgencyOK},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, urgencyFor(tt.days, 14), "days=%d", tt.days)
	}
}

func TestRoundUpTo(t *testing.T) {
	assert.Equal(t, 72, roundUpTo(60, 24))
	assert.Equal(t, 48, roundUpTo(48, 24))
	assert.Equal(t, 60, roundUpTo(60, 0))
}
