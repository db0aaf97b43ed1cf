package forecast

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanCandidate_WarehouseCoversNeed(t *testing.T) {
	cfg := DefaultConfig()
	cfg.FBATargetDays = 45

	// 5/day, 100 at FBA, 500 in the warehouse.
	c := PlanCandidate("A", 5, snapshot(500, 100, 0, 0), cfg)

	assert.Equal(t, 125, c.Need) // ideal 225 - 100
	assert.Equal(t, 125, c.CanSend)
	assert.InDelta(t, 20.0, c.DaysOfSupply, 1e-9)
	assert.False(t, c.Eligible) // 20 days > 14 day threshold
}

func TestPlanCandidate_WarehouseShort(t *testing.T) {
	c := PlanCandidate("A", 5, snapshot(40, 10, 0, 0), DefaultConfig())

	assert.Equal(t, 215, c.Need)
	assert.Equal(t, 40, c.CanSend)
	assert.True(t, c.Eligible) // 2 days of supply
}

func TestPlanCandidate_InboundCountsTowardPosition(t *testing.T) {
	c := PlanCandidate("A", 5, snapshot(500, 100, 125, 0), DefaultConfig())

	assert.Zero(t, c.Need)
	assert.Zero(t, c.CanSend)
}

func TestPlanCandidate_ZeroVelocity(t *testing.T) {
	c := PlanCandidate("A", 0, snapshot(500, 0, 0, 0), DefaultConfig())

	assert.Zero(t, c.Need)
	assert.False(t, c.Eligible)
}

func TestAllocate_UnconstrainedSendsEverything(t *testing.T) {
	cands := []Candidate{
		{SKU: "A", DaysOfSupply: 2, CanSend: 300, Eligible: true},
		{SKU: "B", DaysOfSupply: 5, CanSend: 400, Eligible: true},
	}

	plan := Allocate(cands, 0, AllocateByUrgency)
	assert.Equal(t, 700, plan.TotalShipToday)
	assert.Equal(t, 300, plan.Allocations["A"].Qty)
	assert.False(t, plan.Allocations["A"].CapacityLimited)
}

func TestAllocate_CapacityPartialFundsLastSKU(t *testing.T) {
	// A is more urgent, gets its 300 in full; B gets the remaining 200.
	cands := []Candidate{
		{SKU: "B", DaysOfSupply: 5, CanSend: 400, Eligible: true},
		{SKU: "A", DaysOfSupply: 2, CanSend: 300, Eligible: true},
	}

	plan := Allocate(cands, 500, AllocateByUrgency)

	assert.Equal(t, 500, plan.TotalShipToday)
	assert.Equal(t, 300, plan.Allocations["A"].Qty)
	assert.Equal(t, 200, plan.Allocations["B"].Qty)
	assert.True(t, plan.Allocations["A"].CapacityLimited)
	assert.True(t, plan.Allocations["B"].CapacityLimited)
}

func TestAllocate_IneligibleSKUsExcludedBeforeSummation(t *testing.T) {
	cands := []Candidate{
		{SKU: "A", DaysOfSupply: 2, CanSend: 100, Eligible: true},
		{SKU: "B", DaysOfSupply: 60, CanSend: 1000, Eligible: false},
	}

	plan := Allocate(cands, 500, AllocateByUrgency)

	assert.Equal(t, 100, plan.TotalShipToday)
	_, ok := plan.Allocations["B"]
	assert.False(t, ok)
	// B never consumed capacity, so A is not capacity-limited.
	assert.False(t, plan.Allocations["A"].CapacityLimited)
}

func TestAllocate_ProRata(t *testing.T) {
	cands := []Candidate{
		{SKU: "A", DaysOfSupply: 2, CanSend: 300, Eligible: true},
		{SKU: "B", DaysOfSupply: 5, CanSend: 400, Eligible: true},
	}

	plan := Allocate(cands, 350, AllocateProRata)

	assert.Equal(t, 150, plan.Allocations["A"].Qty)
	assert.Equal(t, 200, plan.Allocations["B"].Qty)
	assert.LessOrEqual(t, plan.TotalShipToday, 350)
}

func TestAllocate_NeverExceedsCapacity(t *testing.T) {
	// Property check over randomized inputs: sum(allocated) <= capacity.
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 500; i++ {
		n := 1 + rng.Intn(20)
		cands := make([]Candidate, n)
		for j := range cands {
			cands[j] = Candidate{
				SKU:          string(rune('A'+j%26)) + string(rune('0'+j/26)),
				DaysOfSupply: rng.Float64() * 30,
				CanSend:      rng.Intn(500),
				Eligible:     rng.Intn(4) != 0,
			}
		}
		capacity := 1 + rng.Intn(1000)
		policy := AllocateByUrgency
		if i%2 == 1 {
			policy = AllocateProRata
		}

		plan := Allocate(cands, capacity, policy)

		total := 0
		for _, a := range plan.Allocations {
			require.GreaterOrEqual(t, a.Qty, 0)
			total += a.Qty
		}
		require.LessOrEqual(t, total, capacity)
		require.Equal(t, total, plan.TotalShipToday)
	}
}
