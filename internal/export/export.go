// internal/export/export.go
package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/andresuchdata/stockcast/internal/domain"
	"github.com/andresuchdata/stockcast/internal/storage"
)

// Exporter renders a forecast batch as CSV for buyers who work their purchase
// list in a spreadsheet. Upload to object storage is optional.
type Exporter struct {
	store storage.ObjectStorage
}

func NewExporter(store storage.ObjectStorage) *Exporter {
	return &Exporter{store: store}
}

func csvHeader() []string {
	return []string{
		"SKU", "Urgency", "Adjusted Daily Velocity", "Trend",
		"Safety Stock", "Reorder Point", "Recommended Order Qty",
		"FBA Ship Today", "Days Until Stockout", "Purchase By", "Confidence",
		"Reasoning",
	}
}

func csvRow(result *domain.ForecastResult) []string {
	days := ""
	if result.DaysUntilStockout != nil {
		days = strconv.Itoa(*result.DaysUntilStockout)
	}
	purchaseBy := ""
	if result.PurchaseByDate != nil {
		purchaseBy = result.PurchaseByDate.Format("2006-01-02")
	}
	return []string{
		result.SKU,
		string(result.Urgency),
		strconv.FormatFloat(result.AdjustedVelocity, 'f', 2, 64),
		string(result.Velocity.Trend),
		strconv.Itoa(result.SafetyStock),
		strconv.Itoa(result.ReorderPoint),
		strconv.Itoa(result.RecommendedOrderQty),
		strconv.Itoa(result.RecommendedFBAQty),
		days,
		purchaseBy,
		strconv.FormatFloat(result.Confidence, 'f', 2, 64),
		strings.Join(result.Reasoning, "; "),
	}
}

// WriteCSV renders the results to an in-memory CSV document.
func WriteCSV(results []*domain.ForecastResult) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(csvHeader()); err != nil {
		return nil, err
	}
	for _, result := range results {
		if err := writer.Write(csvRow(result)); err != nil {
			return nil, err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ToFile writes the batch CSV to a local path.
func (e *Exporter) ToFile(results []*domain.ForecastResult, path string) error {
	data, err := WriteCSV(results)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed writing %s: %w", path, err)
	}
	return nil
}

// ToStorage uploads the batch CSV under forecasts/<asOf>/run-<id>.csv and
// returns the object key.
func (e *Exporter) ToStorage(ctx context.Context, run *domain.ForecastRun, results []*domain.ForecastResult) (string, error) {
	if e.store == nil {
		return "", fmt.Errorf("object storage is not configured")
	}

	data, err := WriteCSV(results)
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("forecasts/%s/run-%d.csv", run.AsOf.Format("2006-01-02"), run.ID)
	if err := e.store.UploadObject(ctx, key, data, "text/csv"); err != nil {
		return "", err
	}

	log.Info().Str("key", key).Int("rows", len(results)).Msg("forecast export uploaded")
	return key, nil
}

// ExportName suggests a local filename for a run exported at the given time.
func ExportName(run *domain.ForecastRun, now time.Time) string {
	return fmt.Sprintf("forecast-%s-run%d-%s.csv", run.AsOf.Format("20060102"), run.ID, now.Format("150405"))
}
