package forecast

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/andresuchdata/stockcast/internal/domain"
	"github.com/rs/zerolog/log"
)

// SKUInput bundles everything the engine needs for one SKU. The engine never
// performs I/O itself; callers assemble inputs from their own feeds.
type SKUInput struct {
	Product  domain.Product
	Sales    []domain.SalesObservation
	Snapshot domain.InventorySnapshot
}

// Input is one batch of per-SKU inputs plus the shared seasonal calendar.
type Input struct {
	AsOf     time.Time
	SKUs     []SKUInput
	Calendar []domain.SeasonalEvent
}

// Batch is the engine's output: one result per computed SKU, a list of SKUs
// that could not be forecast, and the aggregate FBA shipment for today.
// A batch fully supersedes any prior batch; nothing is merged incrementally.
type Batch struct {
	AsOf         time.Time
	Results      map[string]*domain.ForecastResult
	Skipped      []domain.SkippedSKU
	FBAShipToday int
}

// skuOutcome carries one SKU through the barrier between the parallel
// per-SKU stages and the single-threaded replenishment reduction.
type skuOutcome struct {
	result    *domain.ForecastResult
	candidate Candidate
	skip      *domain.SkippedSKU
}

// Compute runs the full forecasting pipeline for a batch of SKUs.
//
// Configuration errors fail the whole run up front; per-SKU data problems
// only skip that SKU. The per-SKU stages run on a bounded worker pool since
// no SKU reads another's state, and cancellation is honored between SKUs.
// The replenishment planner then runs as a reduction over the completed
// per-SKU candidates, so the shared capacity ceiling is applied exactly once
// on a consistent snapshot. Identical inputs produce identical batches.
func Compute(ctx context.Context, in Input, cfg Config) (*Batch, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	workers := cfg.Workers
	if workers < 1 {
		workers = runtime.NumCPU()
	}

	jobs := make(chan SKUInput)
	outcomes := make([]skuOutcome, len(in.SKUs))
	var (
		wg    sync.WaitGroup
		idx   int
		idxMu sync.Mutex
	)

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for sku := range jobs {
				out := computeSKU(sku, in.AsOf, in.Calendar, cfg)
				idxMu.Lock()
				outcomes[idx] = out
				idx++
				idxMu.Unlock()
			}
		}()
	}

	var cancelled error
	for _, sku := range in.SKUs {
		select {
		case <-ctx.Done():
			cancelled = ctx.Err()
		case jobs <- sku:
			continue
		}
		break
	}
	close(jobs)
	wg.Wait()

	if cancelled != nil {
		return nil, cancelled
	}

	batch := &Batch{
		AsOf:    dateOnly(in.AsOf),
		Results: make(map[string]*domain.ForecastResult, len(in.SKUs)),
	}

	candidates := make([]Candidate, 0, len(in.SKUs))
	for _, out := range outcomes[:idx] {
		if out.skip != nil {
			batch.Skipped = append(batch.Skipped, *out.skip)
			continue
		}
		batch.Results[out.result.SKU] = out.result
		candidates = append(candidates, out.candidate)
	}
	sort.Slice(batch.Skipped, func(i, j int) bool {
		return batch.Skipped[i].SKU < batch.Skipped[j].SKU
	})

	// Cross-SKU coordination happens only here, single-threaded.
	plan := Allocate(candidates, cfg.FBACapacity, cfg.Allocation)
	batch.FBAShipToday = plan.TotalShipToday
	for _, c := range candidates {
		res := batch.Results[c.SKU]
		alloc, funded := plan.Allocations[c.SKU]
		if !funded {
			continue
		}
		res.RecommendedFBAQty = alloc.Qty
		if alloc.Qty > 0 {
			res.Reasoning = append(res.Reasoning,
				fmt.Sprintf("ship %d units to FBA today (%.1f days of FBA supply left)", alloc.Qty, c.DaysOfSupply))
		}
		if alloc.CapacityLimited {
			res.Reasoning = append(res.Reasoning,
				fmt.Sprintf("FBA shipment capped by shared capacity: wanted %d, allocated %d", c.CanSend, alloc.Qty))
		}
	}

	log.Debug().
		Int("skus", len(in.SKUs)).
		Int("computed", len(batch.Results)).
		Int("skipped", len(batch.Skipped)).
		Int("fba_ship_today", batch.FBAShipToday).
		Msg("forecast batch computed")

	return batch, nil
}

// computeSKU runs the per-SKU stages: history aggregation, velocity,
// seasonality, reorder math, purchase recommendation and stockout projection.
// The replenishment candidate is returned alongside for the later reduction.
func computeSKU(in SKUInput, asOf time.Time, calendar []domain.SeasonalEvent, cfg Config) skuOutcome {
	sku := in.Product.SKU

	if reason := snapshotProblem(in.Snapshot); reason != "" {
		return skuOutcome{skip: &domain.SkippedSKU{SKU: sku, Reason: reason}}
	}
	if in.Product.LeadTimeDays < 0 {
		return skuOutcome{skip: &domain.SkippedSKU{SKU: sku, Reason: fmt.Sprintf("negative lead time %d days", in.Product.LeadTimeDays)}}
	}

	leadTime := in.Product.LeadTimeDays
	if leadTime == 0 {
		leadTime = cfg.LeadTimeDays
	}

	history := AggregateHistory(in.Sales, asOf)
	vp := ComputeVelocity(sku, history, cfg)

	res := &domain.ForecastResult{SKU: sku, Velocity: vp, Urgency: domain.UrgencyOK}

	if history.ObservedDays == 0 {
		res.Reasoning = append(res.Reasoning, "no sales history: velocity is 0 and no demand is projected")
	} else {
		res.Reasoning = append(res.Reasoning, fmt.Sprintf(
			"%s trend: %.2f/day over %dd baseline, %.2f/day over 7d",
			vp.Trend, ByWindow(vp, cfg.BaselineWindow), cfg.BaselineWindow, vp.Velocity7d))
	}

	lookahead := cfg.SeasonalityLookaheadDays
	if lookahead == 0 {
		lookahead = leadTime
	}
	horizonEnd := dateOnly(asOf).AddDate(0, 0, lookahead)
	adj := SeasonalAdjustment(calendar, in.Product.Category, asOf, horizonEnd)
	res.AdjustedVelocity = AdjustVelocity(ByWindow(vp, cfg.BaselineWindow), adj)
	describeAdjustment(res, adj)

	res.SafetyStock = SafetyStock(res.AdjustedVelocity, cfg.SafetyStockDays)
	res.ReorderPoint = ReorderPoint(res.AdjustedVelocity, leadTime, res.SafetyStock)

	rec := Recommend(res.ReorderPoint, res.SafetyStock, in.Snapshot, res.AdjustedVelocity,
		in.Product.MinOrderQty, leadTime, cfg.RoundToNearest, asOf)
	res.RecommendedOrderQty = rec.OrderQty
	res.Urgency = rec.Urgency
	res.PurchaseByDate = rec.PurchaseByDate
	res.DaysToPurchase = rec.DaysToPurchase
	if rec.OrderQty > 0 {
		res.Reasoning = append(res.Reasoning, fmt.Sprintf(
			"stock %d below reorder point %d: order %d units (%s)",
			in.Snapshot.TotalAvailable(), res.ReorderPoint, rec.OrderQty, rec.Urgency))
	} else {
		res.Reasoning = append(res.Reasoning, fmt.Sprintf(
			"stock %d covers reorder point %d: no order needed",
			in.Snapshot.TotalAvailable(), res.ReorderPoint))
	}

	proj := ProjectStockout(in.Snapshot.TotalAvailable(), res.AdjustedVelocity, vp, asOf)
	res.StockoutDate = proj.StockoutDate
	res.DaysUntilStockout = proj.DaysUntilStockout
	res.Confidence = proj.Confidence
	res.Reasoning = append(res.Reasoning, proj.Reasons...)

	return skuOutcome{
		result:    res,
		candidate: PlanCandidate(sku, res.AdjustedVelocity, in.Snapshot, cfg),
	}
}

func describeAdjustment(res *domain.ForecastResult, adj Adjustment) {
	if len(adj.Applied) == 0 {
		return
	}
	if adj.Exclusive {
		winner := adj.Applied[0]
		res.Reasoning = append(res.Reasoning, fmt.Sprintf(
			"exclusive seasonal event %q overrides all others (x%.2f)", winner.Name, winner.UpliftFactor))
	} else {
		names := make([]string, len(adj.Applied))
		for i, ev := range adj.Applied {
			names[i] = fmt.Sprintf("%s x%.2f", ev.Name, ev.UpliftFactor)
		}
		res.Reasoning = append(res.Reasoning, fmt.Sprintf(
			"seasonal uplift x%.2f (%s)", adj.Factor, strings.Join(names, ", ")))
	}
	for _, ev := range adj.Discarded {
		if ev.Exclusive {
			res.Reasoning = append(res.Reasoning, fmt.Sprintf(
				"exclusive event %q (x%.2f) discarded by a larger exclusive uplift", ev.Name, ev.UpliftFactor))
		}
	}
}

// snapshotProblem reports why a snapshot cannot be trusted, or "" when it can.
// Bad snapshots skip their SKU without aborting the batch.
func snapshotProblem(s domain.InventorySnapshot) string {
	switch {
	case s.WarehouseAvailable < 0:
		return fmt.Sprintf("negative warehouse quantity %d", s.WarehouseAvailable)
	case s.FBAAvailable < 0:
		return fmt.Sprintf("negative FBA quantity %d", s.FBAAvailable)
	case s.FBAInbound < 0:
		return fmt.Sprintf("negative FBA inbound quantity %d", s.FBAInbound)
	case s.IncomingFromPO < 0:
		return fmt.Sprintf("negative incoming PO quantity %d", s.IncomingFromPO)
	default:
		return ""
	}
}
