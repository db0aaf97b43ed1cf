package postgres

import (
	"context"
	"fmt"

	"github.com/lib/pq"

	"github.com/andresuchdata/stockcast/internal/domain"
	"github.com/andresuchdata/stockcast/internal/repository"
)

type catalogRepository struct {
	db *DB
}

func NewCatalogRepository(db *DB) repository.CatalogRepository {
	return &catalogRepository{db: db}
}

func (r *catalogRepository) GetProducts(ctx context.Context, skus []string) (map[string]domain.Product, error) {
	query := `
		SELECT sku, name, category, lead_time_days, min_order_qty
		FROM products
	`
	args := []interface{}{}
	if len(skus) > 0 {
		query += ` WHERE sku = ANY($1::text[])`
		args = append(args, pq.Array(skus))
	}

	var products []domain.Product
	if err := r.db.SelectContext(ctx, &products, query, args...); err != nil {
		return nil, fmt.Errorf("error getting products: %w", err)
	}

	result := make(map[string]domain.Product, len(products))
	for _, p := range products {
		result[p.SKU] = p
	}
	return result, nil
}

func (r *catalogRepository) ListSKUs(ctx context.Context) ([]string, error) {
	query := `SELECT sku FROM products ORDER BY sku`

	var skus []string
	if err := r.db.SelectContext(ctx, &skus, query); err != nil {
		return nil, fmt.Errorf("error listing SKUs: %w", err)
	}
	return skus, nil
}
