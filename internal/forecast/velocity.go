package forecast

import "github.com/andresuchdata/stockcast/internal/domain"

// ComputeVelocity derives a SKU's velocity profile from its aggregated
// history. A SKU with zero history gets velocity 0 across the board and a
// stable trend; that is a degraded forecast, not an error.
func ComputeVelocity(sku string, h History, cfg Config) domain.VelocityProfile {
	vp := domain.VelocityProfile{
		SKU:          sku,
		Trend:        domain.TrendStable,
		ObservedDays: h.ObservedDays,
	}

	vp.Velocity7d = windowVelocity(h.Sum7, h.Days7)
	vp.Velocity30d = windowVelocity(h.Sum30, h.Days30)
	vp.Velocity90d = windowVelocity(h.Sum90, h.Days90)

	// Trend compares the short window against the month. Thresholds come
	// from config so ops can tune sensitivity without a deploy.
	switch {
	case vp.Velocity30d <= 0:
		vp.Trend = domain.TrendStable
	case vp.Velocity7d > cfg.RisingThreshold*vp.Velocity30d:
		vp.Trend = domain.TrendRising
	case vp.Velocity7d < cfg.DecliningThreshold*vp.Velocity30d:
		vp.Trend = domain.TrendDeclining
	}

	vp.Change7dPct = pctChange(vp.Velocity7d, vp.Velocity30d)
	vp.Change30dPct = pctChange(vp.Velocity30d, vp.Velocity90d)

	return vp
}

// ByWindow returns the configured baseline velocity from a profile.
func ByWindow(vp domain.VelocityProfile, w Window) float64 {
	switch w {
	case Window7d:
		return vp.Velocity7d
	case Window30d:
		return vp.Velocity30d
	default:
		return vp.Velocity90d
	}
}

func windowVelocity(sum, days int) float64 {
	if days <= 0 {
		return 0
	}
	return float64(sum) / float64(days)
}

func pctChange(current, previous float64) float64 {
	if previous <= 0 {
		return 0
	}
	return (current - previous) / previous * 100
}
