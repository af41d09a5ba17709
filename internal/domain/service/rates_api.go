package service

import (
	"context"

	"github.com/damon-houk/fx-timeseries-export/internal/domain/entity"
)

// RatesAPI defines the interface for the upstream timeframe endpoint
type RatesAPI interface {
	// FetchTimeframe retrieves the raw time series for the given currencies
	// over the given inclusive date range
	FetchTimeframe(ctx context.Context, currencies []string, rng entity.DateRange) (entity.RawSeries, error)
}
