package forecast

import "math"

// SafetyStock is the buffer held on top of lead-time demand:
// ceil(adjustedVelocity x safetyStockDays).
func SafetyStock(adjustedVelocity float64, safetyStockDays int) int {
	if adjustedVelocity <= 0 || safetyStockDays <= 0 {
		return 0
	}
	return int(math.Ceil(adjustedVelocity * float64(safetyStockDays)))
}

// ReorderPoint is the stock level at or below which a purchase order should
// be placed: lead-time demand plus the safety buffer.
func ReorderPoint(adjustedVelocity float64, leadTimeDays, safetyStock int) int {
	leadDemand := 0
	if adjustedVelocity > 0 && leadTimeDays > 0 {
		leadDemand = int(math.Ceil(adjustedVelocity * float64(leadTimeDays)))
	}
	return leadDemand + safetyStock
}
