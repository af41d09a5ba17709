// Package repository internal/domain/repository/rate_series_repository.go
package repository

import (
	"context"

	"github.com/damon-houk/fx-timeseries-export/internal/domain/entity"
)

// RateSeriesRepository defines the interface for rate time-series access.
// Implementations may serve from a cache or go straight to the upstream API.
type RateSeriesRepository interface {
	// FindSeries returns the date-keyed rates for the given currencies over
	// the given range, quoted against the upstream provider's own base.
	FindSeries(ctx context.Context, currencies []string, rng entity.DateRange) (entity.RawSeries, error)
}
