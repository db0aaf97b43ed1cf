package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/andresuchdata/stockcast/internal/cache"
	"github.com/andresuchdata/stockcast/internal/domain"
	"github.com/andresuchdata/stockcast/internal/forecast"
	"github.com/andresuchdata/stockcast/internal/repository"
)

// historyDays bounds how far back sales observations are loaded. The engine
// only looks at trailing 90-day windows, so anything older is dead weight.
const historyDays = 90

type ForecastService struct {
	catalog   repository.CatalogRepository
	sales     repository.SalesRepository
	inventory repository.InventoryRepository
	events    repository.SeasonalEventRepository
	forecasts repository.ForecastRepository
	cache     cache.ForecastCache
	cfg       forecast.Config
}

func NewForecastService(
	catalog repository.CatalogRepository,
	sales repository.SalesRepository,
	inventory repository.InventoryRepository,
	events repository.SeasonalEventRepository,
	forecasts repository.ForecastRepository,
	cacheImpl cache.ForecastCache,
	cfg forecast.Config,
) *ForecastService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopForecastCache()
	}
	return &ForecastService{
		catalog:   catalog,
		sales:     sales,
		inventory: inventory,
		events:    events,
		forecasts: forecasts,
		cache:     cacheImpl,
		cfg:       cfg,
	}
}

// Run executes one forecast batch for the given SKUs (all catalog SKUs when
// empty) and persists it. The engine itself is pure; all I/O happens here.
func (s *ForecastService) Run(ctx context.Context, asOf time.Time, skus []string) (*domain.ForecastRun, error) {
	if len(skus) == 0 {
		var err error
		skus, err = s.catalog.ListSKUs(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list SKUs: %w", err)
		}
	}
	if len(skus) == 0 {
		return nil, fmt.Errorf("no SKUs to forecast")
	}

	input, err := s.loadInput(ctx, asOf, skus)
	if err != nil {
		return nil, err
	}

	run := &domain.ForecastRun{
		AsOf:      asOf,
		Status:    domain.RunProcessing,
		TotalSKUs: len(input.SKUs),
		StartedAt: time.Now().UTC(),
	}
	if err := s.forecasts.CreateRun(ctx, run); err != nil {
		return nil, err
	}

	batch, err := forecast.Compute(ctx, *input, s.cfg)
	if err != nil {
		s.failRun(ctx, run, err)
		return nil, err
	}

	if err := s.forecasts.SaveBatch(ctx, run.ID, batch); err != nil {
		s.failRun(ctx, run, err)
		return nil, fmt.Errorf("failed to persist forecast batch: %w", err)
	}

	now := time.Now().UTC()
	run.Status = domain.RunCompleted
	run.ComputedSKUs = len(batch.Results)
	run.SkippedSKUs = len(batch.Skipped)
	run.FBAShipToday = batch.FBAShipToday
	run.CompletedAt = &now
	if err := s.forecasts.UpdateRun(ctx, run); err != nil {
		return nil, err
	}

	if err := s.cache.InvalidateAll(ctx); err != nil {
		log.Warn().Err(err).Msg("forecast: cache invalidation failed")
	}

	log.Info().
		Int64("run_id", run.ID).
		Time("as_of", run.AsOf).
		Int("computed", run.ComputedSKUs).
		Int("skipped", run.SkippedSKUs).
		Int("fba_ship_today", run.FBAShipToday).
		Msg("forecast run completed")

	return run, nil
}

// loadInput fetches the four feeds concurrently; none depends on another.
func (s *ForecastService) loadInput(ctx context.Context, asOf time.Time, skus []string) (*forecast.Input, error) {
	var (
		products  map[string]domain.Product
		sales     map[string][]domain.SalesObservation
		snapshots map[string]domain.InventorySnapshot
		calendar  []domain.SeasonalEvent
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		products, err = s.catalog.GetProducts(gctx, skus)
		return err
	})
	g.Go(func() error {
		var err error
		sales, err = s.sales.GetObservationsSince(gctx, skus, asOf.AddDate(0, 0, -historyDays))
		return err
	})
	g.Go(func() error {
		var err error
		snapshots, err = s.inventory.GetLatestSnapshots(gctx, skus)
		return err
	})
	g.Go(func() error {
		var err error
		calendar, err = s.events.List(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load forecast inputs: %w", err)
	}

	input := &forecast.Input{AsOf: asOf, Calendar: calendar}
	for _, sku := range skus {
		product, ok := products[sku]
		if !ok {
			// Not in the catalog yet: forecast with defaults rather than drop it.
			product = domain.Product{SKU: sku}
		}
		input.SKUs = append(input.SKUs, forecast.SKUInput{
			Product:  product,
			Sales:    sales[sku],
			Snapshot: snapshots[sku],
		})
	}
	return input, nil
}

func (s *ForecastService) failRun(ctx context.Context, run *domain.ForecastRun, cause error) {
	now := time.Now().UTC()
	run.Status = domain.RunFailed
	run.ErrorMessage = cause.Error()
	run.CompletedAt = &now
	if err := s.forecasts.UpdateRun(ctx, run); err != nil {
		log.Error().Err(err).Int64("run_id", run.ID).Msg("forecast: failed to mark run failed")
	}
}

// LatestRun returns the most recent completed run header, nil when none exists.
func (s *ForecastService) LatestRun(ctx context.Context) (*domain.ForecastRun, error) {
	return s.forecasts.GetLatestRun(ctx)
}

// LatestResults returns the latest completed batch, most urgent SKUs first.
func (s *ForecastService) LatestResults(ctx context.Context) ([]*domain.ForecastResult, error) {
	run, err := s.forecasts.GetLatestRun(ctx)
	if err != nil || run == nil {
		return nil, err
	}

	if results, ok, err := s.cache.GetResults(ctx, run.ID); err == nil && ok {
		return results, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("forecast: cache get results failed")
	}

	results, err := s.forecasts.GetResults(ctx, run.ID)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetResults(ctx, run.ID, results); err != nil {
		log.Warn().Err(err).Msg("forecast: cache set results failed")
	}
	return results, nil
}

// ResultForSKU returns the latest result for one SKU, nil when absent.
func (s *ForecastService) ResultForSKU(ctx context.Context, sku string) (*domain.ForecastResult, error) {
	run, err := s.forecasts.GetLatestRun(ctx)
	if err != nil || run == nil {
		return nil, err
	}
	return s.forecasts.GetResult(ctx, run.ID, sku)
}

// Skipped returns the SKUs the latest run could not forecast, with reasons,
// for the dashboard banner.
func (s *ForecastService) Skipped(ctx context.Context) ([]domain.SkippedSKU, error) {
	run, err := s.forecasts.GetLatestRun(ctx)
	if err != nil || run == nil {
		return nil, err
	}
	return s.forecasts.GetSkipped(ctx, run.ID)
}

// Summary aggregates the latest run per urgency tier.
func (s *ForecastService) Summary(ctx context.Context) (*domain.ForecastSummary, error) {
	run, err := s.forecasts.GetLatestRun(ctx)
	if err != nil || run == nil {
		return nil, err
	}

	if summary, ok, err := s.cache.GetSummary(ctx, run.ID); err == nil && ok {
		return summary, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("forecast: cache get summary failed")
	}

	results, err := s.forecasts.GetResults(ctx, run.ID)
	if err != nil {
		return nil, err
	}

	summary := BuildSummary(run, results)
	if err := s.cache.SetSummary(ctx, summary); err != nil {
		log.Warn().Err(err).Msg("forecast: cache set summary failed")
	}
	return summary, nil
}

// BuildSummary rolls a run's results up into per-urgency counts.
func BuildSummary(run *domain.ForecastRun, results []*domain.ForecastResult) *domain.ForecastSummary {
	summary := &domain.ForecastSummary{
		RunID:        run.ID,
		AsOf:         run.AsOf,
		ByUrgency:    make(map[domain.Urgency]int),
		TotalSKUs:    run.TotalSKUs,
		SkippedSKUs:  run.SkippedSKUs,
		FBAShipToday: run.FBAShipToday,
	}
	for _, res := range results {
		summary.ByUrgency[res.Urgency]++
	}
	return summary
}
