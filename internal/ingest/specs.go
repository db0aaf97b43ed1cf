package ingest

import (
	"fmt"
	"strconv"
	"time"
)

func parseDate(value string) (time.Time, error) {
	date, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("date must be YYYY-MM-DD, got %q", value)
	}
	return date, nil
}

func parseUnits(col, value string) (int, error) {
	if value == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", col, value)
	}
	if n < 0 {
		return 0, fmt.Errorf("%s must not be negative, got %d", col, n)
	}
	return n, nil
}

var salesSpec = fileSpec{
	columns: []string{"sku", "date", "units_sold"},
	upsert: `
		INSERT INTO sales_observations (sku, date, units_sold)
		VALUES ($1, $2, $3)
		ON CONFLICT (sku, date) DO UPDATE SET units_sold = EXCLUDED.units_sold
	`,
	bind: func(get func(string) string) ([]any, error) {
		date, err := parseDate(get("date"))
		if err != nil {
			return nil, err
		}
		units, err := parseUnits("units_sold", get("units_sold"))
		if err != nil {
			return nil, err
		}
		return []any{get("sku"), date, units}, nil
	},
}

var inventorySpec = fileSpec{
	columns: []string{"sku", "warehouse_available", "fba_available"},
	upsert: `
		INSERT INTO inventory_snapshots (sku, warehouse_available, fba_available, fba_inbound, incoming_from_po, captured_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
	`,
	bind: func(get func(string) string) ([]any, error) {
		args := []any{get("sku")}
		for _, col := range []string{"warehouse_available", "fba_available", "fba_inbound", "incoming_from_po"} {
			n, err := parseUnits(col, get(col))
			if err != nil {
				return nil, err
			}
			args = append(args, n)
		}
		return args, nil
	},
}

var productSpec = fileSpec{
	columns: []string{"sku", "name"},
	upsert: `
		INSERT INTO products (sku, name, category, lead_time_days, min_order_qty)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (sku) DO UPDATE SET
			name = EXCLUDED.name,
			category = EXCLUDED.category,
			lead_time_days = EXCLUDED.lead_time_days,
			min_order_qty = EXCLUDED.min_order_qty
	`,
	bind: func(get func(string) string) ([]any, error) {
		leadTime, err := parseUnits("lead_time_days", get("lead_time_days"))
		if err != nil {
			return nil, err
		}
		moq, err := parseUnits("min_order_qty", get("min_order_qty"))
		if err != nil {
			return nil, err
		}
		return []any{get("sku"), get("name"), get("category"), leadTime, moq}, nil
	},
}
