// internal/application/service/export_service_test.go
package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/damon-houk/fx-timeseries-export/internal/domain/entity"
	"github.com/damon-houk/fx-timeseries-export/internal/infrastructure/logger"
	"github.com/damon-houk/fx-timeseries-export/internal/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestBuildExport(t *testing.T) {
	log := logger.NewJSONLogger(nil, logger.ErrorLevel)
	ranges := NewRangeService(fixedClock(2024, time.March, 15))
	ctx := context.Background()

	t.Run("Successful export", func(t *testing.T) {
		repo := new(mocks.MockRateSeriesRepository)
		svc := NewExportService(repo, ranges, 0, log)

		// Upstream quotes against USD; base and targets requested together
		series := entity.RawSeries{
			"2024-01-01": {"GBP": 0.80, "EUR": 0.90, "CHF": 0.88},
			"2024-01-02": {"GBP": 0.79, "EUR": 0.90},
		}

		repo.On("FindSeries", ctx, []string{"CHF", "EUR", "GBP"}, mock.AnythingOfType("entity.DateRange")).
			Return(series, nil).Once()

		start := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
		end := time.Date(2024, time.January, 2, 0, 0, 0, 0, time.UTC)

		result, err := svc.BuildExport(ctx, ExportQuery{
			Base:    "GBP",
			Targets: []string{"EUR", "CHF"},
			Mode:    entity.ModeCustom,
			Start:   start,
			End:     end,
		})

		require.NoError(t, err)
		assert.Equal(t, []string{"GBP", "EUR", "CHF"}, result.Table.Columns)
		require.Len(t, result.Table.Rows, 2)

		// Base column is always 1.0 after the rebase
		require.NotNil(t, result.Table.Rows[0].Cells[0])
		assert.Equal(t, 1.0, *result.Table.Rows[0].Cells[0])
		assert.InDelta(t, 0.90/0.80, *result.Table.Rows[0].Cells[1], 1e-9)

		// CHF missing on the second day
		assert.Nil(t, result.Table.Rows[1].Cells[2])

		assert.Equal(t, "GBP", result.Meta.Base)
		assert.Equal(t, start, result.Meta.Range.Start)
		assert.Equal(t, end, result.Meta.Range.End)
		assert.Equal(t, "/timeframe", result.Meta.Source)
		assert.False(t, result.Meta.FetchedAt.IsZero())
		assert.Len(t, result.Stats, 3)

		repo.AssertExpectations(t)
	})

	t.Run("Base listed among targets is not duplicated", func(t *testing.T) {
		repo := new(mocks.MockRateSeriesRepository)
		svc := NewExportService(repo, ranges, 0, log)

		series := entity.RawSeries{"2024-01-01": {"GBP": 0.80, "EUR": 0.90}}
		repo.On("FindSeries", ctx, []string{"EUR", "GBP"}, mock.AnythingOfType("entity.DateRange")).
			Return(series, nil).Once()

		result, err := svc.BuildExport(ctx, ExportQuery{
			Base:    "GBP",
			Targets: []string{"GBP", "EUR"},
			Mode:    entity.ModeThisMonth,
		})

		require.NoError(t, err)
		assert.Equal(t, []string{"GBP", "EUR"}, result.Table.Columns)
		repo.AssertExpectations(t)
	})

	t.Run("Invalid custom range never reaches the repository", func(t *testing.T) {
		repo := new(mocks.MockRateSeriesRepository)
		svc := NewExportService(repo, ranges, 0, log)

		_, err := svc.BuildExport(ctx, ExportQuery{
			Base:    "GBP",
			Targets: []string{"EUR"},
			Mode:    entity.ModeCustom,
			Start:   time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC),
			End:     time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC),
		})

		assert.ErrorIs(t, err, entity.ErrInvalidRange)
		repo.AssertNotCalled(t, "FindSeries", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Empty series reports no data", func(t *testing.T) {
		repo := new(mocks.MockRateSeriesRepository)
		svc := NewExportService(repo, ranges, 0, log)

		repo.On("FindSeries", ctx, mock.Anything, mock.Anything).
			Return(entity.RawSeries{}, nil).Once()

		_, err := svc.BuildExport(ctx, ExportQuery{
			Base:    "GBP",
			Targets: []string{"EUR"},
			Mode:    entity.ModeLastMonth,
		})

		assert.ErrorIs(t, err, entity.ErrNoData)
	})

	t.Run("Series without the base also reports no data", func(t *testing.T) {
		repo := new(mocks.MockRateSeriesRepository)
		svc := NewExportService(repo, ranges, 0, log)

		// The base never appears, so no day can be rebased
		series := entity.RawSeries{"2024-02-01": {"EUR": 0.90}}
		repo.On("FindSeries", ctx, mock.Anything, mock.Anything).
			Return(series, nil).Once()

		_, err := svc.BuildExport(ctx, ExportQuery{
			Base:    "GBP",
			Targets: []string{"EUR"},
			Mode:    entity.ModeLastMonth,
		})

		assert.ErrorIs(t, err, entity.ErrNoData)
	})

	t.Run("Upstream failure is wrapped and surfaced", func(t *testing.T) {
		repo := new(mocks.MockRateSeriesRepository)
		svc := NewExportService(repo, ranges, 0, log)

		repo.On("FindSeries", ctx, mock.Anything, mock.Anything).
			Return(nil, errors.New("connection refused")).Once()

		_, err := svc.BuildExport(ctx, ExportQuery{
			Base:    "GBP",
			Targets: []string{"EUR"},
			Mode:    entity.ModeLastMonth,
		})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to fetch rate series")
	})

	t.Run("Throttle is clamped to the configured maximum", func(t *testing.T) {
		repo := new(mocks.MockRateSeriesRepository)
		svc := NewExportService(repo, ranges, 50*time.Millisecond, log)

		series := entity.RawSeries{"2024-02-01": {"GBP": 0.80, "EUR": 0.90}}
		repo.On("FindSeries", ctx, mock.Anything, mock.Anything).
			Return(series, nil).Once()

		started := time.Now()
		_, err := svc.BuildExport(ctx, ExportQuery{
			Base:     "GBP",
			Targets:  []string{"EUR"},
			Mode:     entity.ModeLastMonth,
			Throttle: 10 * time.Second,
		})

		require.NoError(t, err)
		assert.Less(t, time.Since(started), 2*time.Second)
	})
}
