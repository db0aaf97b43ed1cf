package forecast

import (
	"testing"

	"github.com/andresuchdata/stockcast/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestComputeVelocity_ConstantSalesEqualWindows(t *testing.T) {
	h := AggregateHistory(constantSales("A", testAsOf, 120, 4), testAsOf)
	vp := ComputeVelocity("A", h, DefaultConfig())

	assert.InDelta(t, 4.0, vp.Velocity7d, 1e-9)
	assert.InDelta(t, 4.0, vp.Velocity30d, 1e-9)
	assert.InDelta(t, 4.0, vp.Velocity90d, 1e-9)
	assert.Equal(t, domain.TrendStable, vp.Trend)
	assert.Zero(t, vp.Change7dPct)
}

func TestComputeVelocity_TrendClassification(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		name string
		h    History
		want domain.Trend
	}{
		{"rising above threshold", History{Sum7: 84, Days7: 7, Sum30: 300, Days30: 30}, domain.TrendRising},       // 12 vs 10
		{"declining below threshold", History{Sum7: 56, Days7: 7, Sum30: 300, Days30: 30}, domain.TrendDeclining}, // 8 vs 10
		{"stable inside band", History{Sum7: 77, Days7: 7, Sum30: 300, Days30: 30}, domain.TrendStable},           // 11 vs 10
		{"exactly at rising threshold stays stable", History{Sum7: 161, Days7: 7, Sum30: 600, Days30: 30}, domain.TrendStable}, // 23 vs 20, ratio 1.15
		{"zero month is stable", History{Sum7: 14, Days7: 7}, domain.TrendStable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vp := ComputeVelocity("A", tt.h, cfg)
			assert.Equal(t, tt.want, vp.Trend)
		})
	}
}

func TestComputeVelocity_TunableThresholds(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RisingThreshold = 1.05
	h := History{Sum7: 77, Days7: 7, Sum30: 300, Days30: 30} // 11 vs 10

	vp := ComputeVelocity("A", h, cfg)
	assert.Equal(t, domain.TrendRising, vp.Trend)
}

func TestComputeVelocity_ZeroHistory(t *testing.T) {
	vp := ComputeVelocity("A", History{}, DefaultConfig())

	assert.Zero(t, vp.Velocity7d)
	assert.Zero(t, vp.Velocity30d)
	assert.Zero(t, vp.Velocity90d)
	assert.Equal(t, domain.TrendStable, vp.Trend)
}

func TestComputeVelocity_ChangePercentages(t *testing.T) {
	h := History{Sum7: 84, Days7: 7, Sum30: 300, Days30: 30, Sum90: 720, Days90: 90}
	vp := ComputeVelocity("A", h, DefaultConfig())

	assert.InDelta(t, 20.0, vp.Change7dPct, 1e-9)  // 12 vs 10
	assert.InDelta(t, 25.0, vp.Change30dPct, 1e-9) // 10 vs 8
}
