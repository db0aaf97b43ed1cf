package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/andresuchdata/stockcast/internal/cache"
	"github.com/andresuchdata/stockcast/internal/config"
	"github.com/andresuchdata/stockcast/internal/export"
	"github.com/andresuchdata/stockcast/internal/ingest"
	"github.com/andresuchdata/stockcast/internal/repository/postgres"
	"github.com/andresuchdata/stockcast/internal/service"
	"github.com/andresuchdata/stockcast/internal/storage"
)

func newAsOfFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:  "as-of",
		Usage: "Forecast date (YYYY-MM-DD), defaults to today",
	}
}

func parseAsOf(c *cli.Context) (time.Time, error) {
	raw := c.String("as-of")
	if raw == "" {
		return time.Now().UTC().Truncate(24 * time.Hour), nil
	}
	asOf, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("as-of must be YYYY-MM-DD: %w", err)
	}
	return asOf, nil
}

func newService() (*service.ForecastService, *postgres.DB, error) {
	cfg := config.Load()
	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	svc := service.NewForecastService(
		postgres.NewCatalogRepository(db),
		postgres.NewSalesRepository(db),
		postgres.NewInventoryRepository(db),
		postgres.NewSeasonalEventRepository(db),
		postgres.NewForecastRepository(db),
		cache.NewNoopForecastCache(),
		cfg.Forecast.Engine(),
	)
	return svc, db, nil
}

func runForecast(c *cli.Context) error {
	asOf, err := parseAsOf(c)
	if err != nil {
		return err
	}

	svc, db, err := newService()
	if err != nil {
		return err
	}
	defer db.Close()

	run, err := svc.Run(c.Context, asOf, c.StringSlice("sku"))
	if err != nil {
		return fmt.Errorf("forecast run failed: %w", err)
	}

	fmt.Printf("run %d completed: %d computed, %d skipped, %d units to FBA today\n",
		run.ID, run.ComputedSKUs, run.SkippedSKUs, run.FBAShipToday)
	return nil
}

func seedCalendar(c *cli.Context) error {
	svc, db, err := newService()
	if err != nil {
		return err
	}
	defer db.Close()

	inserted, err := svc.SeedCalendar(c.Context, c.Int("year"))
	if err != nil {
		return fmt.Errorf("failed to seed calendar: %w", err)
	}

	fmt.Printf("seeded %d seasonal events\n", inserted)
	return nil
}

func exportForecast(c *cli.Context) error {
	cfg := config.Load()
	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	repo := postgres.NewForecastRepository(db)
	run, err := repo.GetLatestRun(c.Context)
	if err != nil {
		return err
	}
	if run == nil {
		return fmt.Errorf("no completed forecast run to export")
	}
	results, err := repo.GetResults(c.Context, run.ID)
	if err != nil {
		return err
	}

	if c.Bool("upload") {
		if !cfg.Storage.Enabled {
			return fmt.Errorf("object storage is disabled; set STORAGE_ENABLED=true")
		}
		store, err := storage.NewMinioClient(cfg.Storage)
		if err != nil {
			return err
		}
		key, err := export.NewExporter(store).ToStorage(c.Context, run, results)
		if err != nil {
			return err
		}
		fmt.Printf("uploaded %s (%d rows)\n", key, len(results))
		return nil
	}

	path := c.String("output")
	if path == "" {
		path = export.ExportName(run, time.Now().UTC())
	}
	if err := export.NewExporter(nil).ToFile(results, path); err != nil {
		return err
	}
	fmt.Printf("wrote %s (%d rows)\n", path, len(results))
	return nil
}

func importFeeds(c *cli.Context) error {
	cfg := config.Load()
	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	rows, err := ingest.NewImporter(db.DB).ImportDir(c.Context, c.String("dir"))
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	fmt.Printf("imported %d rows\n", rows)
	return nil
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: could not load .env file: %v", err)
	}

	app := &cli.App{
		Name:  "forecast",
		Usage: "Run and manage inventory forecasts",
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "Compute a forecast batch and persist it",
				Flags: []cli.Flag{
					newAsOfFlag(),
					&cli.StringSliceFlag{
						Name:  "sku",
						Usage: "Limit the run to specific SKUs (repeatable)",
					},
				},
				Action: runForecast,
			},
			{
				Name:  "seed-calendar",
				Usage: "Seed the default seasonal event calendar",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "year",
						Usage: "Calendar year to seed, defaults to the current year",
					},
				},
				Action: seedCalendar,
			},
			{
				Name:  "seed-demo",
				Usage: "Seed a small demo catalog with sales history and inventory",
				Flags: []cli.Flag{
					newDBURLFlag(),
					newAsOfFlag(),
					&cli.IntFlag{
						Name:  "days",
						Usage: "Days of sales history to generate",
						Value: 90,
					},
				},
				Before: initDB,
				After:  closeDB,
				Action: seedDemo,
			},
			{
				Name:  "import",
				Usage: "Import sales, inventory and product CSV drops",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "dir",
						Usage:    "Drop directory with sales/, inventory/ and products/ subdirectories",
						Required: true,
					},
				},
				Action: importFeeds,
			},
			{
				Name:  "export",
				Usage: "Export the latest forecast batch as CSV",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "output",
						Usage: "Local CSV path (defaults to a generated name)",
					},
					&cli.BoolFlag{
						Name:  "upload",
						Usage: "Upload to object storage instead of writing locally",
					},
				},
				Action: exportForecast,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
