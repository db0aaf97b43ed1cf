package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/lib/pq"

	"github.com/andresuchdata/stockcast/internal/domain"
	"github.com/andresuchdata/stockcast/internal/forecast"
	"github.com/andresuchdata/stockcast/internal/repository"
)

type forecastRepository struct {
	db *DB
}

func NewForecastRepository(db *DB) repository.ForecastRepository {
	return &forecastRepository{db: db}
}

func (r *forecastRepository) CreateRun(ctx context.Context, run *domain.ForecastRun) error {
	query := `
		INSERT INTO forecast_runs (as_of, status, total_skus, started_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	if err := r.db.QueryRowContext(ctx, query,
		run.AsOf, run.Status, run.TotalSKUs, run.StartedAt,
	).Scan(&run.ID); err != nil {
		return fmt.Errorf("failed to create forecast run: %w", err)
	}
	return nil
}

func (r *forecastRepository) UpdateRun(ctx context.Context, run *domain.ForecastRun) error {
	query := `
		UPDATE forecast_runs
		SET status = $1, total_skus = $2, computed_skus = $3, skipped_skus = $4,
			fba_ship_today = $5, completed_at = $6, error_message = $7
		WHERE id = $8
	`
	if _, err := r.db.ExecContext(ctx, query,
		run.Status, run.TotalSKUs, run.ComputedSKUs, run.SkippedSKUs,
		run.FBAShipToday, run.CompletedAt, run.ErrorMessage, run.ID,
	); err != nil {
		return fmt.Errorf("failed to update forecast run %d: %w", run.ID, err)
	}
	return nil
}

// SaveBatch persists every computed result and skipped SKU of a run in one
// transaction, so readers never observe a half-written batch.
func (r *forecastRepository) SaveBatch(ctx context.Context, runID int64, batch *forecast.Batch) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		resultQuery := `
			INSERT INTO forecast_results (
				run_id, sku, adjusted_velocity, velocity_7d, velocity_30d, velocity_90d,
				trend, change_7d_pct, change_30d_pct, observed_days,
				safety_stock, reorder_point, recommended_order_qty, recommended_fba_qty,
				urgency, stockout_date, days_until_stockout, purchase_by_date,
				days_to_purchase, confidence, reasoning
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
		`
		stmt, err := tx.PrepareContext(ctx, resultQuery)
		if err != nil {
			return fmt.Errorf("failed to prepare result statement: %w", err)
		}
		defer stmt.Close()

		skus := make([]string, 0, len(batch.Results))
		for sku := range batch.Results {
			skus = append(skus, sku)
		}
		sort.Strings(skus)

		for _, sku := range skus {
			res := batch.Results[sku]
			if _, err := stmt.ExecContext(ctx,
				runID, res.SKU, res.AdjustedVelocity,
				res.Velocity.Velocity7d, res.Velocity.Velocity30d, res.Velocity.Velocity90d,
				res.Velocity.Trend, res.Velocity.Change7dPct, res.Velocity.Change30dPct,
				res.Velocity.ObservedDays,
				res.SafetyStock, res.ReorderPoint, res.RecommendedOrderQty, res.RecommendedFBAQty,
				res.Urgency, res.StockoutDate, res.DaysUntilStockout, res.PurchaseByDate,
				res.DaysToPurchase, res.Confidence, pq.Array(res.Reasoning),
			); err != nil {
				return fmt.Errorf("failed to insert forecast result for %s: %w", res.SKU, err)
			}
		}

		skipQuery := `INSERT INTO forecast_skipped (run_id, sku, reason) VALUES ($1, $2, $3)`
		for _, skipped := range batch.Skipped {
			if _, err := tx.ExecContext(ctx, skipQuery, runID, skipped.SKU, skipped.Reason); err != nil {
				return fmt.Errorf("failed to insert skipped SKU %s: %w", skipped.SKU, err)
			}
		}

		return nil
	})
}

func (r *forecastRepository) GetLatestRun(ctx context.Context) (*domain.ForecastRun, error) {
	query := `
		SELECT id, as_of, status, total_skus, computed_skus, skipped_skus,
			fba_ship_today, started_at, completed_at, COALESCE(error_message, '') AS error_message
		FROM forecast_runs
		WHERE status = $1
		ORDER BY as_of DESC, id DESC
		LIMIT 1
	`
	var run domain.ForecastRun
	if err := r.db.GetContext(ctx, &run, query, domain.RunCompleted); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error getting latest forecast run: %w", err)
	}
	return &run, nil
}

func (r *forecastRepository) GetRun(ctx context.Context, id int64) (*domain.ForecastRun, error) {
	query := `
		SELECT id, as_of, status, total_skus, computed_skus, skipped_skus,
			fba_ship_today, started_at, completed_at, COALESCE(error_message, '') AS error_message
		FROM forecast_runs
		WHERE id = $1
	`
	var run domain.ForecastRun
	if err := r.db.GetContext(ctx, &run, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error getting forecast run %d: %w", id, err)
	}
	return &run, nil
}

// forecastResultRow flattens the velocity profile and maps the reasoning
// array for sqlx scanning.
type forecastResultRow struct {
	SKU                 string         `db:"sku"`
	AdjustedVelocity    float64        `db:"adjusted_velocity"`
	Velocity7d          float64        `db:"velocity_7d"`
	Velocity30d         float64        `db:"velocity_30d"`
	Velocity90d         float64        `db:"velocity_90d"`
	Trend               domain.Trend   `db:"trend"`
	Change7dPct         float64        `db:"change_7d_pct"`
	Change30dPct        float64        `db:"change_30d_pct"`
	ObservedDays        int            `db:"observed_days"`
	SafetyStock         int            `db:"safety_stock"`
	ReorderPoint        int            `db:"reorder_point"`
	RecommendedOrderQty int            `db:"recommended_order_qty"`
	RecommendedFBAQty   int            `db:"recommended_fba_qty"`
	Urgency             domain.Urgency `db:"urgency"`
	StockoutDate        *time.Time     `db:"stockout_date"`
	DaysUntilStockout   *int           `db:"days_until_stockout"`
	PurchaseByDate      *time.Time     `db:"purchase_by_date"`
	DaysToPurchase      *int           `db:"days_to_purchase"`
	Confidence          float64        `db:"confidence"`
	Reasoning           pq.StringArray `db:"reasoning"`
}

func (row forecastResultRow) toDomain() *domain.ForecastResult {
	return &domain.ForecastResult{
		SKU: row.SKU,
		Velocity: domain.VelocityProfile{
			SKU:          row.SKU,
			Velocity7d:   row.Velocity7d,
			Velocity30d:  row.Velocity30d,
			Velocity90d:  row.Velocity90d,
			Trend:        row.Trend,
			Change7dPct:  row.Change7dPct,
			Change30dPct: row.Change30dPct,
			ObservedDays: row.ObservedDays,
		},
		AdjustedVelocity:    row.AdjustedVelocity,
		SafetyStock:         row.SafetyStock,
		ReorderPoint:        row.ReorderPoint,
		RecommendedOrderQty: row.RecommendedOrderQty,
		RecommendedFBAQty:   row.RecommendedFBAQty,
		Urgency:             row.Urgency,
		StockoutDate:        row.StockoutDate,
		DaysUntilStockout:   row.DaysUntilStockout,
		PurchaseByDate:      row.PurchaseByDate,
		DaysToPurchase:      row.DaysToPurchase,
		Confidence:          row.Confidence,
		Reasoning:           []string(row.Reasoning),
	}
}

const resultColumns = `
	sku, adjusted_velocity, velocity_7d, velocity_30d, velocity_90d,
	trend, change_7d_pct, change_30d_pct, observed_days,
	safety_stock, reorder_point, recommended_order_qty, recommended_fba_qty,
	urgency, stockout_date, days_until_stockout, purchase_by_date,
	days_to_purchase, confidence, reasoning
`

func (r *forecastRepository) GetResults(ctx context.Context, runID int64) ([]*domain.ForecastResult, error) {
	query := `SELECT ` + resultColumns + ` FROM forecast_results WHERE run_id = $1 ORDER BY urgency, sku`

	var rows []forecastResultRow
	if err := r.db.SelectContext(ctx, &rows, query, runID); err != nil {
		return nil, fmt.Errorf("error getting forecast results for run %d: %w", runID, err)
	}

	results := make([]*domain.ForecastResult, 0, len(rows))
	for _, row := range rows {
		results = append(results, row.toDomain())
	}

	// Urgency sorts by tier rank, not alphabetically.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Urgency.Rank() < results[j].Urgency.Rank()
	})
	return results, nil
}

func (r *forecastRepository) GetResult(ctx context.Context, runID int64, sku string) (*domain.ForecastResult, error) {
	query := `SELECT ` + resultColumns + ` FROM forecast_results WHERE run_id = $1 AND sku = $2`

	var row forecastResultRow
	if err := r.db.GetContext(ctx, &row, query, runID, sku); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error getting forecast result for %s: %w", sku, err)
	}
	return row.toDomain(), nil
}

func (r *forecastRepository) GetSkipped(ctx context.Context, runID int64) ([]domain.SkippedSKU, error) {
	query := `SELECT sku, reason FROM forecast_skipped WHERE run_id = $1 ORDER BY sku`

	var skipped []domain.SkippedSKU
	if err := r.db.SelectContext(ctx, &skipped, query, runID); err != nil {
		return nil, fmt.Errorf("error getting skipped SKUs for run %d: %w", runID, err)
	}
	return skipped, nil
}
