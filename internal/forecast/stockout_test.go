package forecast

import (
	"testing"

	"github.com/andresuchdata/stockcast/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullHistoryProfile(v7, v30 float64) domain.VelocityProfile {
	return domain.VelocityProfile{
		Velocity7d:   v7,
		Velocity30d:  v30,
		ObservedDays: 90,
	}
}

func TestProjectStockout_DepletionDate(t *testing.T) {
	p := ProjectStockout(150, 10, fullHistoryProfile(10, 10), testAsOf)

	require.NotNil(t, p.DaysUntilStockout)
	assert.Equal(t, 15, *p.DaysUntilStockout)
	require.NotNil(t, p.StockoutDate)
	assert.Equal(t, testAsOf.AddDate(0, 0, 15), *p.StockoutDate)
	assert.Equal(t, 1.0, p.Confidence)
	assert.Empty(t, p.Reasons)
}

func TestProjectStockout_ZeroVelocityUndefined(t *testing.T) {
	p := ProjectStockout(150, 0, domain.VelocityProfile{ObservedDays: 90}, testAsOf)

	assert.Nil(t, p.DaysUntilStockout)
	assert.Nil(t, p.StockoutDate)
}

func TestProjectStockout_SparseHistoryDiscount(t *testing.T) {
	vp := fullHistoryProfile(10, 10)
	vp.ObservedDays = 15

	p := ProjectStockout(150, 10, vp, testAsOf)

	assert.InDelta(t, 0.5, p.Confidence, 1e-9)
	require.Len(t, p.Reasons, 1)
	assert.Contains(t, p.Reasons[0], "15 of 30 days")
}

func TestProjectStockout_ZeroHistoryNearZeroConfidence(t *testing.T) {
	p := ProjectStockout(0, 0, domain.VelocityProfile{}, testAsOf)

	assert.Zero(t, p.Confidence)
	assert.NotEmpty(t, p.Reasons)
}

func TestProjectStockout_VolatilityDiscount(t *testing.T) {
	// 7d at 20 vs 30d at 10: 100% deviation, full volatility discount.
	p := ProjectStockout(150, 10, fullHistoryProfile(20, 10), testAsOf)

	assert.InDelta(t, 0.5, p.Confidence, 1e-9)
	require.Len(t, p.Reasons, 1)
	assert.Contains(t, p.Reasons[0], "deviates")
}

func TestProjectStockout_BothDiscountsCompound(t *testing.T) {
	vp := fullHistoryProfile(20, 10)
	vp.ObservedDays = 15

	p := ProjectStockout(150, 10, vp, testAsOf)

	assert.InDelta(t, 0.25, p.Confidence, 1e-9)
	assert.Len(t, p.Reasons, 2)
}

func TestProjectStockout_MildVarianceNotDiscounted(t *testing.T) {
	p := ProjectStockout(150, 10, fullHistoryProfile(11, 10), testAsOf)

	assert.Equal(t, 1.0, p.Confidence)
}
