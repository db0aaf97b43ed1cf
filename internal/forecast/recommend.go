package forecast

import (
	"math"
	"time"

	"github.com/andresuchdata/stockcast/internal/domain"
)

// Recommendation is the purchase decision for one SKU.
type Recommendation struct {
	OrderQty       int
	Urgency        domain.Urgency
	PurchaseByDate *time.Time
	DaysToPurchase *int
}

// Recommend compares the reorder point against the total stock position and
// produces an order quantity, an urgency tier and a purchase-by date.
//
// When velocity is zero there is no depletion risk: days-to-purchase stays
// undefined rather than dividing by zero, and urgency is ok.
func Recommend(reorderPoint, safetyStock int, snap domain.InventorySnapshot, adjustedVelocity float64, moq, leadTimeDays, roundTo int, asOf time.Time) Recommendation {
	rec := Recommendation{Urgency: domain.UrgencyOK}
	total := snap.TotalAvailable()

	if total < reorderPoint {
		shortfall := reorderPoint - total
		rec.OrderQty = max(shortfall, moq)
		rec.OrderQty = roundUpTo(rec.OrderQty, roundTo)
	}

	if adjustedVelocity > 0 {
		days := int(math.Floor(float64(total-safetyStock) / adjustedVelocity))
		by := dateOnly(asOf).AddDate(0, 0, days)
		rec.DaysToPurchase = &days
		rec.PurchaseByDate = &by

		if rec.OrderQty > 0 {
			rec.Urgency = urgencyFor(days, leadTimeDays)
		}
	}

	return rec
}

// urgencyFor maps days-to-purchase onto the urgency tiers. Boundaries are
// inclusive on the lower (more urgent) tier.
func urgencyFor(daysToPurchase, leadTimeDays int) domain.Urgency {
	lead := float64(leadTimeDays)
	days := float64(daysToPurchase)
	switch {
	case days <= 0:
		return domain.UrgencyCritical
	case days <= lead/2:
		return domain.UrgencyHigh
	case days <= lead:
		return domain.UrgencyMedium
	case days <= lead*2:
		return domain.UrgencyLow
	default:
		return domain.UrgencyOK
	}
}

// roundUpTo rounds qty up to the next multiple of unit. unit 0 disables.
func roundUpTo(qty, unit int) int {
	if unit <= 0 || qty <= 0 {
		return qty
	}
	if rem := qty % unit; rem != 0 {
		return qty + unit - rem
	}
	return qty
}
