// internal/domain/forecast.go
package domain

import (
	"strings"
	"time"
)

// Trend classifies the direction of a SKU's sales velocity.
type Trend string

const (
	TrendRising    Trend = "rising"
	TrendStable    Trend = "stable"
	TrendDeclining Trend = "declining"
)

// Urgency ranks how soon a purchase order needs to be placed.
type Urgency string

const (
	UrgencyCritical Urgency = "critical"
	UrgencyHigh     Urgency = "high"
	UrgencyMedium   Urgency = "medium"
	UrgencyLow      Urgency = "low"
	UrgencyOK       Urgency = "ok"
)

var urgencyRanks = map[Urgency]int{
	UrgencyCritical: 0,
	UrgencyHigh:     1,
	UrgencyMedium:   2,
	UrgencyLow:      3,
	UrgencyOK:       4,
}

// Rank returns the sort order of the urgency tier, most urgent first.
func (u Urgency) Rank() int {
	if r, ok := urgencyRanks[u]; ok {
		return r
	}
	return len(urgencyRanks)
}

// ParseUrgency returns the urgency tier for a label (case-insensitive).
func ParseUrgency(label string) (Urgency, bool) {
	u := Urgency(strings.ToLower(label))
	_, ok := urgencyRanks[u]
	return u, ok
}

// VelocityProfile holds the rolling sales velocities for one SKU. It is
// recomputed wholesale on every forecasting run, never patched.
type VelocityProfile struct {
	SKU          string  `json:"sku" db:"sku"`
	Velocity7d   float64 `json:"velocity_7d" db:"velocity_7d"`
	Velocity30d  float64 `json:"velocity_30d" db:"velocity_30d"`
	Velocity90d  float64 `json:"velocity_90d" db:"velocity_90d"`
	Trend        Trend   `json:"trend" db:"trend"`
	Change7dPct  float64 `json:"change_7d_pct" db:"change_7d_pct"`
	Change30dPct float64 `json:"change_30d_pct" db:"change_30d_pct"`
	ObservedDays int     `json:"observed_days" db:"observed_days"`
}

// ForecastResult is the engine's output for one SKU. A new run fully
// supersedes the prior result; consumers read it as an immutable snapshot.
type ForecastResult struct {
	SKU                 string          `json:"sku" db:"sku"`
	Velocity            VelocityProfile `json:"velocity" db:"-"`
	AdjustedVelocity    float64         `json:"adjusted_velocity" db:"adjusted_velocity"`
	SafetyStock         int             `json:"safety_stock" db:"safety_stock"`
	ReorderPoint        int             `json:"reorder_point" db:"reorder_point"`
	RecommendedOrderQty int             `json:"recommended_order_qty" db:"recommended_order_qty"`
	RecommendedFBAQty   int             `json:"recommended_fba_qty" db:"recommended_fba_qty"`
	Urgency             Urgency         `json:"urgency" db:"urgency"`
	StockoutDate        *time.Time      `json:"stockout_date,omitempty" db:"stockout_date"`
	DaysUntilStockout   *int            `json:"days_until_stockout,omitempty" db:"days_until_stockout"`
	PurchaseByDate      *time.Time      `json:"purchase_by_date,omitempty" db:"purchase_by_date"`
	DaysToPurchase      *int            `json:"days_to_purchase,omitempty" db:"days_to_purchase"`
	Confidence          float64         `json:"confidence" db:"confidence"`
	Reasoning           []string        `json:"reasoning" db:"-"`
}

// SkippedSKU records a SKU that could not be forecast in a run, with the
// reason, so callers can tell "fully stocked" apart from "not computed".
type SkippedSKU struct {
	SKU    string `json:"sku" db:"sku"`
	Reason string `json:"reason" db:"reason"`
}

// RunStatus tracks the lifecycle of a forecast run.
type RunStatus string

const (
	RunPending    RunStatus = "pending"
	RunProcessing RunStatus = "processing"
	RunCompleted  RunStatus = "completed"
	RunFailed     RunStatus = "failed"
)

// ForecastRun is the header row for one batch execution of the engine.
type ForecastRun struct {
	ID              int64      `json:"id" db:"id"`
	AsOf            time.Time  `json:"as_of" db:"as_of"`
	Status          RunStatus  `json:"status" db:"status"`
	TotalSKUs       int        `json:"total_skus" db:"total_skus"`
	ComputedSKUs    int        `json:"computed_skus" db:"computed_skus"`
	SkippedSKUs     int        `json:"skipped_skus" db:"skipped_skus"`
	FBAShipToday    int        `json:"fba_ship_today" db:"fba_ship_today"`
	StartedAt       time.Time  `json:"started_at" db:"started_at"`
	CompletedAt     *time.Time `json:"completed_at,omitempty" db:"completed_at"`
	ErrorMessage    string     `json:"error_message,omitempty" db:"error_message"`
}

// ForecastSummary aggregates one run for the dashboard banner: how many SKUs
// landed in each urgency tier, plus skip counts.
type ForecastSummary struct {
	RunID        int64          `json:"run_id"`
	AsOf         time.Time      `json:"as_of"`
	ByUrgency    map[Urgency]int `json:"by_urgency"`
	TotalSKUs    int            `json:"total_skus"`
	SkippedSKUs  int            `json:"skipped_skus"`
	FBAShipToday int            `json:"fba_ship_today"`
}
