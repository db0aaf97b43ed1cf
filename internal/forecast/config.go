package forecast

import "fmt"

// Window identifies one of the trailing velocity windows.
type Window int

const (
	Window7d  Window = 7
	Window30d Window = 30
	Window90d Window = 90
)

// AllocationPolicy selects how the replenishment planner distributes a
// constrained FBA capacity across eligible SKUs.
type AllocationPolicy string

const (
	// AllocateByUrgency funds SKUs with the lowest FBA days of supply first.
	// It is a greedy priority fill, not an optimal packing.
	AllocateByUrgency AllocationPolicy = "urgency"
	// AllocateProRata scales every eligible SKU down by the same ratio.
	AllocateProRata AllocationPolicy = "pro_rata"
)

// Config is the full set of forecasting tunables for one run. It is always
// passed in explicitly so the engine never reads ambient state and a run is
// reproducible from its inputs alone.
type Config struct {
	// SafetyStockDays is the demand buffer held on top of lead-time stock.
	SafetyStockDays int
	// LeadTimeDays is the supplier lead time used when a product carries none.
	LeadTimeDays int
	// FBATargetDays is the days of supply to hold at the fulfillment center.
	FBATargetDays int
	// FBACapacity caps the total units shipped warehouse->FBA in one run
	// across all SKUs. 0 disables the ceiling.
	FBACapacity int
	// RoundToNearest rounds recommended order quantities up to a multiple
	// of this unit (e.g. case pack size). 0 disables rounding.
	RoundToNearest int
	// UrgencyThresholdDays gates same-day FBA shipment: only SKUs below this
	// many days of FBA supply are eligible.
	UrgencyThresholdDays float64
	// SeasonalityLookaheadDays bounds the event horizon. 0 means "use the
	// SKU's lead time", so a future event inside the replenishment window
	// already influences today's order.
	SeasonalityLookaheadDays int
	// BaselineWindow picks which velocity the seasonality adjuster scales.
	BaselineWindow Window
	// RisingThreshold and DecliningThreshold classify the trend from the
	// ratio of velocity7d to velocity30d.
	RisingThreshold    float64
	DecliningThreshold float64
	// Allocation selects the planner's capacity distribution policy.
	Allocation AllocationPolicy
	// Workers bounds the per-SKU worker pool. 0 means one per CPU.
	Workers int
}

// DefaultConfig returns the tunables the dashboard ships with.
func DefaultConfig() Config {
	return Config{
		SafetyStockDays:      7,
		LeadTimeDays:         14,
		FBATargetDays:        45,
		FBACapacity:          0,
		RoundToNearest:       0,
		UrgencyThresholdDays: 14,
		BaselineWindow:       Window30d,
		RisingThreshold:      1.15,
		DecliningThreshold:   0.85,
		Allocation:           AllocateByUrgency,
	}
}

// ConfigError reports a rejected tunable. Configuration errors fail the whole
// run before any SKU is processed.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid forecast config: %s %s", e.Field, e.Reason)
}

// Validate rejects configurations that would make the run meaningless.
func (c Config) Validate() error {
	if c.LeadTimeDays <= 0 {
		return &ConfigError{Field: "LeadTimeDays", Reason: "must be positive"}
	}
	if c.SafetyStockDays < 0 {
		return &ConfigError{Field: "SafetyStockDays", Reason: "must not be negative"}
	}
	if c.FBATargetDays < 0 {
		return &ConfigError{Field: "FBATargetDays", Reason: "must not be negative"}
	}
	if c.FBACapacity < 0 {
		return &ConfigError{Field: "FBACapacity", Reason: "must not be negative"}
	}
	if c.RoundToNearest < 0 {
		return &ConfigError{Field: "RoundToNearest", Reason: "must not be negative"}
	}
	if c.UrgencyThresholdDays < 0 {
		return &ConfigError{Field: "UrgencyThresholdDays", Reason: "must not be negative"}
	}
	if c.SeasonalityLookaheadDays < 0 {
		return &ConfigError{Field: "SeasonalityLookaheadDays", Reason: "must not be negative"}
	}
	switch c.BaselineWindow {
	case Window7d, Window30d, Window90d:
	default:
		return &ConfigError{Field: "BaselineWindow", Reason: "must be 7, 30 or 90"}
	}
	if c.RisingThreshold <= 0 || c.DecliningThreshold <= 0 {
		return &ConfigError{Field: "RisingThreshold", Reason: "trend thresholds must be positive"}
	}
	if c.DecliningThreshold >= c.RisingThreshold {
		return &ConfigError{Field: "DecliningThreshold", Reason: "must be below RisingThreshold"}
	}
	switch c.Allocation {
	case AllocateByUrgency, AllocateProRata:
	default:
		return &ConfigError{Field: "Allocation", Reason: "unknown allocation policy"}
	}
	if c.Workers < 0 {
		return &ConfigError{Field: "Workers", Reason: "must not be negative"}
	}
	return nil
}
