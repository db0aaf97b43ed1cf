// internal/domain/models.go
package domain

import "time"

// Product holds per-SKU catalog data relevant to forecasting.
type Product struct {
	SKU          string `json:"sku" db:"sku"`
	Name         string `json:"name" db:"name"`
	Category     string `json:"category" db:"category"`
	LeadTimeDays int    `json:"lead_time_days" db:"lead_time_days"` // 0 = use configured default
	MinOrderQty  int    `json:"min_order_qty" db:"min_order_qty"`
}

// SalesObservation is one day of unit sales for one SKU. Observations are
// append-only facts; late corrections arrive as additional rows for the same
// SKU and date and are summed, never edited in place.
type SalesObservation struct {
	SKU       string    `json:"sku" db:"sku"`
	Date      time.Time `json:"date" db:"date"`
	UnitsSold int       `json:"units_sold" db:"units_sold"`
}

// InventorySnapshot is the point-in-time stock position for one SKU across
// both inventory tiers plus quantities already on their way.
type InventorySnapshot struct {
	SKU                string `json:"sku" db:"sku"`
	WarehouseAvailable int    `json:"warehouse_available" db:"warehouse_available"`
	FBAAvailable       int    `json:"fba_available" db:"fba_available"`
	FBAInbound         int    `json:"fba_inbound" db:"fba_inbound"`
	IncomingFromPO     int    `json:"incoming_from_po" db:"incoming_from_po"`
}

// TotalAvailable returns the stock position summed across all tiers,
// including inbound and on-order quantities.
func (s InventorySnapshot) TotalAvailable() int {
	return s.WarehouseAvailable + s.FBAAvailable + s.FBAInbound + s.IncomingFromPO
}

// SeasonalEvent is a named demand-affecting window from the seasonal calendar.
// Events may overlap; non-exclusive events compose multiplicatively while an
// exclusive event overrides everything else it overlaps with.
type SeasonalEvent struct {
	ID           int64     `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	StartDate    time.Time `json:"start_date" db:"start_date"`
	EndDate      time.Time `json:"end_date" db:"end_date"`
	UpliftFactor float64   `json:"uplift_factor" db:"uplift_factor"`
	Exclusive    bool      `json:"exclusive" db:"exclusive"`
	Categories   []string  `json:"categories" db:"-"` // empty = applies to all categories
}

// AppliesTo reports whether the event affects the given product category.
func (e SeasonalEvent) AppliesTo(category string) bool {
	if len(e.Categories) == 0 {
		return true
	}
	for _, c := range e.Categories {
		if c == category {
			return true
		}
	}
	return false
}

// Overlaps reports whether the event window intersects [from, to] (inclusive).
func (e SeasonalEvent) Overlaps(from, to time.Time) bool {
	return !e.StartDate.After(to) && !e.EndDate.Before(from)
}
