package postgres

import (
	"context"
	"fmt"

	"github.com/lib/pq"

	"github.com/andresuchdata/stockcast/internal/domain"
	"github.com/andresuchdata/stockcast/internal/repository"
)

type inventoryRepository struct {
	db *DB
}

func NewInventoryRepository(db *DB) repository.InventoryRepository {
	return &inventoryRepository{db: db}
}

// GetLatestSnapshots returns the most recent stock snapshot per SKU. The
// inventory-sync collaborator writes a new row per sync; only the latest one
// feeds a forecast run.
func (r *inventoryRepository) GetLatestSnapshots(ctx context.Context, skus []string) (map[string]domain.InventorySnapshot, error) {
	query := `
		SELECT DISTINCT ON (sku)
			sku, warehouse_available, fba_available, fba_inbound, incoming_from_po
		FROM inventory_snapshots
		WHERE sku = ANY($1::text[])
		ORDER BY sku, captured_at DESC
	`

	var snapshots []domain.InventorySnapshot
	if err := r.db.SelectContext(ctx, &snapshots, query, pq.Array(skus)); err != nil {
		return nil, fmt.Errorf("error getting inventory snapshots: %w", err)
	}

	result := make(map[string]domain.InventorySnapshot, len(snapshots))
	for _, s := range snapshots {
		result[s.SKU] = s
	}
	return result, nil
}
