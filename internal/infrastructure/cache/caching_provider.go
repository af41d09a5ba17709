package cache

import (
	"context"

	"github.com/damon-houk/fx-timeseries-export/internal/domain/entity"
	"github.com/damon-houk/fx-timeseries-export/internal/domain/service"
	"github.com/damon-houk/fx-timeseries-export/internal/infrastructure/logger"
)

// CachingRateSeriesProvider decorates the upstream rates API with the TTL
// cache: a fresh entry is served as-is, a miss or expired entry triggers a
// fetch whose result repopulates the key.
type CachingRateSeriesProvider struct {
	api    service.RatesAPI
	cache  *SeriesCache
	logger logger.Logger
}

// NewCachingRateSeriesProvider creates the caching decorator
func NewCachingRateSeriesProvider(api service.RatesAPI, cache *SeriesCache, log logger.Logger) *CachingRateSeriesProvider {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &CachingRateSeriesProvider{
		api:    api,
		cache:  cache,
		logger: log,
	}
}

// FindSeries implements repository.RateSeriesRepository
func (p *CachingRateSeriesProvider) FindSeries(ctx context.Context, currencies []string, rng entity.DateRange) (entity.RawSeries, error) {
	key := Key(currencies, rng)

	if series, ok := p.cache.Get(key); ok {
		p.logger.Debug("Cache hit", map[string]interface{}{"key": key})
		return series, nil
	}

	p.logger.Debug("Cache miss", map[string]interface{}{"key": key})

	series, err := p.api.FetchTimeframe(ctx, currencies, rng)
	if err != nil {
		return nil, err
	}

	// A failed write only costs a refetch next time
	if err := p.cache.Put(key, series); err != nil {
		p.logger.Warn("Failed to cache series", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}

	return series, nil
}
