// internal/repository/interfaces.go
package repository

import (
	"context"
	"time"

	"github.com/andresuchdata/stockcast/internal/domain"
	"github.com/andresuchdata/stockcast/internal/forecast"
)

// CatalogRepository reads per-SKU catalog data (category, lead time, MOQ).
type CatalogRepository interface {
	GetProducts(ctx context.Context, skus []string) (map[string]domain.Product, error)
	ListSKUs(ctx context.Context) ([]string, error)
}

// SalesRepository reads the append-only daily sales facts written by the
// order-sync collaborator. The engine only ever reads them.
type SalesRepository interface {
	GetObservationsSince(ctx context.Context, skus []string, since time.Time) (map[string][]domain.SalesObservation, error)
}

// InventoryRepository reads the latest stock snapshot per SKU from the
// inventory-sync collaborator.
type InventoryRepository interface {
	GetLatestSnapshots(ctx context.Context, skus []string) (map[string]domain.InventorySnapshot, error)
}

// SeasonalEventRepository loads the seasonal calendar and seeds the default
// events on first use.
type SeasonalEventRepository interface {
	List(ctx context.Context) ([]domain.SeasonalEvent, error)
	SeedDefaults(ctx context.Context, events []domain.SeasonalEvent) (int, error)
}

// ForecastRepository persists forecast runs. A completed run fully supersedes
// the previous one for reads.
type ForecastRepository interface {
	CreateRun(ctx context.Context, run *domain.ForecastRun) error
	UpdateRun(ctx context.Context, run *domain.ForecastRun) error
	SaveBatch(ctx context.Context, runID int64, batch *forecast.Batch) error
	GetLatestRun(ctx context.Context) (*domain.ForecastRun, error)
	GetRun(ctx context.Context, id int64) (*domain.ForecastRun, error)
	GetResults(ctx context.Context, runID int64) ([]*domain.ForecastResult, error)
	GetResult(ctx context.Context, runID int64, sku string) (*domain.ForecastResult, error)
	GetSkipped(ctx context.Context, runID int64) ([]domain.SkippedSKU, error)
}
