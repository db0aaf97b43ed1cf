package export

import (
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andresuchdata/stockcast/internal/domain"
)

func sampleResult() *domain.ForecastResult {
	stockout := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)
	days := 14
	return &domain.ForecastResult{
		SKU:                 "WIDGET-001",
		Velocity:            domain.VelocityProfile{SKU: "WIDGET-001", Trend: domain.TrendRising},
		AdjustedVelocity:    12.5,
		SafetyStock:         88,
		ReorderPoint:        263,
		RecommendedOrderQty: 150,
		RecommendedFBAQty:   40,
		Urgency:             domain.UrgencyHigh,
		StockoutDate:        &stockout,
		DaysUntilStockout:   &days,
		Confidence:          0.85,
		Reasoning:           []string{"sales trend is rising", "order 150 units"},
	}
}

func TestWriteCSV(t *testing.T) {
	data, err := WriteCSV([]*domain.ForecastResult{sampleResult()})
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, csvHeader(), records[0])

	row := records[1]
	assert.Equal(t, "WIDGET-001", row[0])
	assert.Equal(t, "high", row[1])
	assert.Equal(t, "12.50", row[2])
	assert.Equal(t, "rising", row[3])
	assert.Equal(t, "150", row[6])
	assert.Equal(t, "40", row[7])
	assert.Equal(t, "14", row[8])
	assert.Equal(t, "sales trend is rising; order 150 units", row[11])
}

func TestWriteCSVOptionalFieldsEmpty(t *testing.T) {
	result := sampleResult()
	result.StockoutDate = nil
	result.DaysUntilStockout = nil
	result.PurchaseByDate = nil

	data, err := WriteCSV([]*domain.ForecastResult{result})
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, "", records[1][8])
	assert.Equal(t, "", records[1][9])
}

func TestExportName(t *testing.T) {
	run := &domain.ForecastRun{
		ID:   7,
		AsOf: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
	}
	now := time.Date(2026, 8, 1, 9, 30, 0, 0, time.UTC)
	assert.Equal(t, "forecast-20260801-run7-093000.csv", ExportName(run, now))
}
