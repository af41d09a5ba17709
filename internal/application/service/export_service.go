// Package service internal/application/service/export_service.go
package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/damon-houk/fx-timeseries-export/internal/domain/entity"
	"github.com/damon-houk/fx-timeseries-export/internal/domain/repository"
	"github.com/damon-houk/fx-timeseries-export/internal/infrastructure/logger"
	"github.com/damon-houk/fx-timeseries-export/internal/infrastructure/middleware"
)

// ExportQuery captures one user query as parsed from the request
type ExportQuery struct {
	Base     string
	Targets  []string
	Mode     entity.RangeMode
	Start    time.Time
	End      time.Time
	Throttle time.Duration
}

// ExportResult is the assembled output of one query
type ExportResult struct {
	Table *entity.RateTable
	Meta  entity.QueryMeta
	Stats []entity.CurrencyStats
}

// ExportService runs the query pipeline: resolve the date range, fetch the
// raw series, rebase it to the requested base and shape it into a table.
type ExportService struct {
	rates       repository.RateSeriesRepository
	ranges      *RangeService
	maxThrottle time.Duration
	logger      logger.Logger
}

// NewExportService creates a new export service
func NewExportService(rates repository.RateSeriesRepository, ranges *RangeService, maxThrottle time.Duration, log logger.Logger) *ExportService {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &ExportService{
		rates:       rates,
		ranges:      ranges,
		maxThrottle: maxThrottle,
		logger:      log,
	}
}

// BuildExport executes the query. An invalid custom range fails before any
// upstream call; a range with no convertible data fails with entity.ErrNoData.
func (s *ExportService) BuildExport(ctx context.Context, q ExportQuery) (*ExportResult, error) {
	requestID := middleware.GetRequestID(ctx)

	rng, err := s.ranges.Resolve(q.Mode, q.Start, q.End)
	if err != nil {
		s.logger.Warn("Rejected date range", map[string]interface{}{
			"request_id": requestID,
			"mode":       string(q.Mode),
			"error":      err.Error(),
		})
		return nil, err
	}

	s.logger.Info("Resolved date range", map[string]interface{}{
		"request_id": requestID,
		"mode":       string(q.Mode),
		"start":      rng.Start.Format(entity.ISODate),
		"end":        rng.End.Format(entity.ISODate),
		"base":       q.Base,
		"targets":    q.Targets,
	})

	if err := s.pause(ctx, q.Throttle); err != nil {
		return nil, err
	}

	// The base is requested alongside the targets so the rebase step always
	// has a denominator.
	requested := requestedCurrencies(q.Base, q.Targets)

	raw, err := s.rates.FindSeries(ctx, requested, rng)
	if err != nil {
		s.logger.Error("Failed to fetch rate series", map[string]interface{}{
			"request_id": requestID,
			"currencies": requested,
			"error":      err.Error(),
		})
		return nil, fmt.Errorf("failed to fetch rate series: %w", err)
	}

	rebased := RebaseSeries(raw, q.Base)

	columns := make([]string, 0, len(q.Targets)+1)
	columns = append(columns, q.Base)
	for _, c := range q.Targets {
		if c != q.Base {
			columns = append(columns, c)
		}
	}

	table, err := BuildRateTable(rebased, columns)
	if err != nil {
		return nil, err
	}

	if len(table.Rows) == 0 {
		s.logger.Warn("Query yielded no rows", map[string]interface{}{
			"request_id": requestID,
			"base":       q.Base,
			"start":      rng.Start.Format(entity.ISODate),
			"end":        rng.End.Format(entity.ISODate),
		})
		return nil, entity.ErrNoData
	}

	result := &ExportResult{
		Table: table,
		Meta: entity.QueryMeta{
			Base:      q.Base,
			Targets:   columns,
			Range:     rng,
			FetchedAt: time.Now().UTC(),
			Source:    "/timeframe",
		},
		Stats: ComputeStats(table),
	}

	s.logger.Info("Export assembled", map[string]interface{}{
		"request_id": requestID,
		"rows":       len(table.Rows),
		"columns":    len(table.Columns),
	})

	return result, nil
}

// pause applies the optional user-chosen delay before the upstream call.
// Purely cosmetic pacing; clamped so a client cannot park a worker.
func (s *ExportService) pause(ctx context.Context, throttle time.Duration) error {
	if throttle <= 0 {
		return nil
	}
	if s.maxThrottle > 0 && throttle > s.maxThrottle {
		throttle = s.maxThrottle
	}

	select {
	case <-time.After(throttle):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func requestedCurrencies(base string, targets []string) []string {
	seen := make(map[string]bool, len(targets)+1)
	out := make([]string, 0, len(targets)+1)

	for _, c := range append([]string{base}, targets...) {
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}

	sort.Strings(out)
	return out
}
