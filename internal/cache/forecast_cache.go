package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/andresuchdata/stockcast/internal/config"
	"github.com/andresuchdata/stockcast/internal/domain"
)

const (
	forecastKeyPrefix     = "forecast"
	forecastScanBatchSize = 100
)

// ForecastCache keeps the latest run's summary and result list hot for the
// dashboard. Writes invalidate everything: a new run supersedes the old one
// wholesale, so there is nothing to patch.
type ForecastCache interface {
	GetSummary(ctx context.Context, runID int64) (*domain.ForecastSummary, bool, error)
	SetSummary(ctx context.Context, summary *domain.ForecastSummary) error
	GetResults(ctx context.Context, runID int64) ([]*domain.ForecastResult, bool, error)
	SetResults(ctx context.Context, runID int64, results []*domain.ForecastResult) error
	InvalidateAll(ctx context.Context) error
}

type redisForecastCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopForecastCache struct{}

func NewForecastCache(cfg config.CacheConfig) (ForecastCache, error) {
	if !cfg.Enabled {
		return &noopForecastCache{}, nil
	}

	client, ttl, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return &redisForecastCache{client: client, ttl: ttl}, nil
}

func NewNoopForecastCache() ForecastCache {
	return &noopForecastCache{}
}

func summaryKey(runID int64) string {
	return fmt.Sprintf("%s:summary:%d", forecastKeyPrefix, runID)
}

func resultsKey(runID int64) string {
	return fmt.Sprintf("%s:results:%d", forecastKeyPrefix, runID)
}

func (c *redisForecastCache) GetSummary(ctx context.Context, runID int64) (*domain.ForecastSummary, bool, error) {
	payload, err := c.client.Get(ctx, summaryKey(runID)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var summary domain.ForecastSummary
	if err := json.Unmarshal(payload, &summary); err != nil {
		return nil, false, fmt.Errorf("decode forecast summary cache: %w", err)
	}
	return &summary, true, nil
}

func (c *redisForecastCache) SetSummary(ctx context.Context, summary *domain.ForecastSummary) error {
	payload, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("encode forecast summary cache: %w", err)
	}
	if err := c.client.Set(ctx, summaryKey(summary.RunID), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisForecastCache) GetResults(ctx context.Context, runID int64) ([]*domain.ForecastResult, bool, error) {
	payload, err := c.client.Get(ctx, resultsKey(runID)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var results []*domain.ForecastResult
	if err := json.Unmarshal(payload, &results); err != nil {
		return nil, false, fmt.Errorf("decode forecast results cache: %w", err)
	}
	return results, true, nil
}

func (c *redisForecastCache) SetResults(ctx context.Context, runID int64, results []*domain.ForecastResult) error {
	payload, err := json.Marshal(results)
	if err != nil {
		return fmt.Errorf("encode forecast results cache: %w", err)
	}
	if err := c.client.Set(ctx, resultsKey(runID), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisForecastCache) InvalidateAll(ctx context.Context) error {
	return deleteKeysWithPrefix(ctx, c.client, forecastKeyPrefix, forecastScanBatchSize)
}

func (n *noopForecastCache) GetSummary(ctx context.Context, runID int64) (*domain.ForecastSummary, bool, error) {
	return nil, false, nil
}

func (n *noopForecastCache) SetSummary(ctx context.Context, summary *domain.ForecastSummary) error {
	return nil
}

func (n *noopForecastCache) GetResults(ctx context.Context, runID int64) ([]*domain.ForecastResult, bool, error) {
	return nil, false, nil
}

func (n *noopForecastCache) SetResults(ctx context.Context, runID int64, results []*domain.ForecastResult) error {
	return nil
}

func (n *noopForecastCache) InvalidateAll(ctx context.Context) error {
	return nil
}
