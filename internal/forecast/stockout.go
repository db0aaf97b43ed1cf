package forecast

import (
	"fmt"
	"math"
	"time"

	"github.com/andresuchdata/stockcast/internal/domain"
)

// Confidence discounts. Sparse history scales confidence linearly below the
// full 30-day window; volatile SKUs (7d velocity far from 30d) are discounted
// even with full history.
const (
	sparsityFullDays      = 30
	volatilityThreshold   = 0.25
	maxVolatilityDiscount = 0.5
)

// Projection is the stockout forecast for one SKU. Dates stay nil when
// velocity is zero: no depletion risk rather than a division by zero.
type Projection struct {
	StockoutDate      *time.Time
	DaysUntilStockout *int
	Confidence        float64
	Reasons           []string
}

// ProjectStockout estimates when current inventory runs out at the adjusted
// velocity and scores how much the estimate should be trusted. Every discount
// that fires is recorded in Reasons so the consumer can explain the score
// instead of presenting an opaque number.
func ProjectStockout(totalInventory int, adjustedVelocity float64, vp domain.VelocityProfile, asOf time.Time) Projection {
	p := Projection{Confidence: 1.0}

	if adjustedVelocity > 0 {
		days := int(math.Floor(float64(totalInventory) / adjustedVelocity))
		date := dateOnly(asOf).AddDate(0, 0, days)
		p.DaysUntilStockout = &days
		p.StockoutDate = &date
	}

	if vp.ObservedDays < sparsityFullDays {
		factor := float64(vp.ObservedDays) / float64(sparsityFullDays)
		p.Confidence *= factor
		p.Reasons = append(p.Reasons, fmt.Sprintf(
			"confidence reduced to %.0f%%: only %d of %d days of sales history",
			p.Confidence*100, vp.ObservedDays, sparsityFullDays))
	}

	if vp.Velocity30d > 0 {
		volatility := math.Abs(vp.Velocity7d-vp.Velocity30d) / vp.Velocity30d
		if volatility > volatilityThreshold {
			discount := 1 - maxVolatilityDiscount*math.Min(volatility, 1)
			p.Confidence *= discount
			p.Reasons = append(p.Reasons, fmt.Sprintf(
				"confidence discounted %.0f%%: 7d velocity deviates %.0f%% from 30d",
				(1-discount)*100, volatility*100))
		}
	}

	return p
}
