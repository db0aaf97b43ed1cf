package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/andresuchdata/stockcast/internal/domain"
	"github.com/andresuchdata/stockcast/internal/repository"
)

type salesRepository struct {
	db *DB
}

func NewSalesRepository(db *DB) repository.SalesRepository {
	return &salesRepository{db: db}
}

// GetObservationsSince loads the daily sales rows for the given SKUs from
// the cutoff date onward. Rows are append-only; a correction shows up as an
// extra row for the same SKU and day, and the aggregator sums them.
func (r *salesRepository) GetObservationsSince(ctx context.Context, skus []string, since time.Time) (map[string][]domain.SalesObservation, error) {
	query := `
		SELECT sku, date, units_sold
		FROM sales_observations
		WHERE date >= $1 AND sku = ANY($2::text[])
		ORDER BY sku, date
	`

	var observations []domain.SalesObservation
	if err := r.db.SelectContext(ctx, &observations, query, since, pq.Array(skus)); err != nil {
		return nil, fmt.Errorf("error getting sales observations: %w", err)
	}

	result := make(map[string][]domain.SalesObservation)
	for _, obs := range observations {
		result[obs.SKU] = append(result[obs.SKU], obs)
	}
	return result, nil
}
