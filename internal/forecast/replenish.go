package forecast

import (
	"math"
	"sort"

	"github.com/andresuchdata/stockcast/internal/domain"
)

// Candidate is one SKU's warehouse->FBA replenishment need, computed in the
// per-SKU stage. The planner only looks at these tuples, never back at the
// raw inputs, so the capacity reduction sees one consistent snapshot.
type Candidate struct {
	SKU          string
	DaysOfSupply float64 // current FBA cover, +Inf when velocity is zero
	Need         int     // units to reach the FBA target
	CanSend      int     // need capped by warehouse stock
	Eligible     bool    // below the same-day urgency threshold
}

// PlanCandidate computes a SKU's ideal FBA stock and how much of the gap the
// warehouse can fund. Eligibility for same-day shipment is a selection filter
// on current days of supply, applied before the capacity reduction.
func PlanCandidate(sku string, adjustedVelocity float64, snap domain.InventorySnapshot, cfg Config) Candidate {
	c := Candidate{SKU: sku, DaysOfSupply: math.Inf(1)}

	fbaPosition := snap.FBAAvailable + snap.FBAInbound
	if adjustedVelocity > 0 {
		c.DaysOfSupply = float64(fbaPosition) / adjustedVelocity
	}

	ideal := 0
	if adjustedVelocity > 0 && cfg.FBATargetDays > 0 {
		ideal = int(math.Ceil(float64(cfg.FBATargetDays) * adjustedVelocity))
	}
	c.Need = max(0, ideal-fbaPosition)
	c.CanSend = min(c.Need, max(0, snap.WarehouseAvailable))
	c.Eligible = c.DaysOfSupply < cfg.UrgencyThresholdDays

	return c
}

// Allocation is the planner's decision for one SKU.
type Allocation struct {
	Qty             int
	CapacityLimited bool
}

// Plan is the cross-SKU replenishment outcome of one run.
type Plan struct {
	Allocations  map[string]Allocation
	TotalShipToday int
}

// Allocate applies the shared FBA capacity ceiling to all eligible
// candidates. With AllocateByUrgency the lowest days of supply are funded
// first and the last SKU is partially funded if it only partially fits; this
// is a greedy priority fill, not an optimal packing. With AllocateProRata
// every eligible SKU is scaled down by the same ratio instead.
//
// The sum of allocated quantities never exceeds capacity. Capacity 0 means
// the ceiling is disabled. When the ceiling binds, every allocation in the
// run is flagged capacity-limited.
func Allocate(candidates []Candidate, capacity int, policy AllocationPolicy) Plan {
	plan := Plan{Allocations: make(map[string]Allocation)}

	eligible := make([]Candidate, 0, len(candidates))
	naive := 0
	for _, c := range candidates {
		if c.Eligible && c.CanSend > 0 {
			eligible = append(eligible, c)
			naive += c.CanSend
		}
	}
	if len(eligible) == 0 {
		return plan
	}

	constrained := capacity > 0 && naive > capacity
	if !constrained {
		for _, c := range eligible {
			plan.Allocations[c.SKU] = Allocation{Qty: c.CanSend}
			plan.TotalShipToday += c.CanSend
		}
		return plan
	}

	switch policy {
	case AllocateProRata:
		ratio := float64(capacity) / float64(naive)
		for _, c := range eligible {
			qty := int(math.Floor(float64(c.CanSend) * ratio))
			plan.Allocations[c.SKU] = Allocation{Qty: qty, CapacityLimited: true}
			plan.TotalShipToday += qty
		}
	default:
		// Most urgent first; ties break on SKU for determinism.
		sort.Slice(eligible, func(i, j int) bool {
			if eligible[i].DaysOfSupply != eligible[j].DaysOfSupply {
				return eligible[i].DaysOfSupply < eligible[j].DaysOfSupply
			}
			return eligible[i].SKU < eligible[j].SKU
		})
		remaining := capacity
		for _, c := range eligible {
			if remaining <= 0 {
				plan.Allocations[c.SKU] = Allocation{CapacityLimited: true}
				continue
			}
			qty := min(c.CanSend, remaining)
			remaining -= qty
			plan.Allocations[c.SKU] = Allocation{Qty: qty, CapacityLimited: true}
			plan.TotalShipToday += qty
		}
	}

	return plan
}
