package main

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/urfave/cli/v2"
)

type ctxKey string

const dbKey ctxKey = "db"

func newDBURLFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "db-url",
		Usage:    "Database connection string",
		Required: true,
		EnvVars:  []string{"DATABASE_URL"},
	}
}

func initDB(c *cli.Context) error {
	db, err := sql.Open("pgx", c.String("db-url"))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	c.Context = context.WithValue(c.Context, dbKey, db)
	return nil
}

func closeDB(c *cli.Context) error {
	if db, ok := c.Context.Value(dbKey).(*sql.DB); ok && db != nil {
		return db.Close()
	}
	return nil
}

type demoProduct struct {
	sku           string
	name          string
	category      string
	leadTimeDays  int
	minOrderQty   int
	dailyBaseline int
}

var demoProducts = []demoProduct{
	{"WIDGET-001", "Steel Widget", "hardware", 14, 50, 10},
	{"WIDGET-002", "Brass Widget", "hardware", 21, 100, 4},
	{"GADGET-001", "Pocket Gadget", "electronics", 30, 25, 7},
	{"GADGET-002", "Desk Gadget", "electronics", 30, 25, 1},
	{"APPAREL-001", "Canvas Tote", "apparel", 45, 200, 15},
}

// seedDemo writes a small catalog with generated sales history and one
// inventory snapshot per SKU, enough to exercise a full forecast run locally.
func seedDemo(c *cli.Context) error {
	db := c.Context.Value(dbKey).(*sql.DB)

	asOf, err := parseAsOf(c)
	if err != nil {
		return err
	}
	days := c.Int("days")
	if days <= 0 {
		days = 90
	}

	rng := rand.New(rand.NewSource(asOf.Unix()))

	tx, err := db.BeginTx(c.Context, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, p := range demoProducts {
		if _, err := tx.ExecContext(c.Context, `
			INSERT INTO products (sku, name, category, lead_time_days, min_order_qty)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (sku) DO UPDATE SET
				name = EXCLUDED.name,
				category = EXCLUDED.category,
				lead_time_days = EXCLUDED.lead_time_days,
				min_order_qty = EXCLUDED.min_order_qty
		`, p.sku, p.name, p.category, p.leadTimeDays, p.minOrderQty); err != nil {
			return fmt.Errorf("failed to seed product %s: %w", p.sku, err)
		}

		for age := 1; age <= days; age++ {
			date := asOf.AddDate(0, 0, -age)
			units := p.dailyBaseline + rng.Intn(p.dailyBaseline+1) - p.dailyBaseline/2
			if units < 0 {
				units = 0
			}
			if _, err := tx.ExecContext(c.Context, `
				INSERT INTO sales_observations (sku, date, units_sold)
				VALUES ($1, $2, $3)
				ON CONFLICT (sku, date) DO UPDATE SET units_sold = EXCLUDED.units_sold
			`, p.sku, date, units); err != nil {
				return fmt.Errorf("failed to seed sales for %s: %w", p.sku, err)
			}
		}

		warehouse := p.dailyBaseline * (20 + rng.Intn(40))
		fba := p.dailyBaseline * rng.Intn(15)
		if _, err := tx.ExecContext(c.Context, `
			INSERT INTO inventory_snapshots (sku, warehouse_available, fba_available, fba_inbound, incoming_from_po, captured_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, p.sku, warehouse, fba, 0, 0, time.Now().UTC()); err != nil {
			return fmt.Errorf("failed to seed inventory for %s: %w", p.sku, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit seed data: %w", err)
	}

	fmt.Printf("seeded %d products with %d days of history\n", len(demoProducts), days)
	return nil
}
