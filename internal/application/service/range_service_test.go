// internal/application/service/range_service_test.go
package service

import (
	"testing"
	"time"

	"github.com/damon-houk/fx-timeseries-export/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(year int, month time.Month, day int) func() time.Time {
	return func() time.Time {
		return time.Date(year, month, day, 14, 30, 0, 0, time.UTC)
	}
}

func TestResolveThisMonth(t *testing.T) {
	svc := NewRangeService(fixedClock(2024, time.March, 15))

	rng, err := svc.Resolve(entity.ModeThisMonth, time.Time{}, time.Time{})

	require.NoError(t, err)
	assert.Equal(t, 1, rng.Start.Day())
	assert.Equal(t, time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC), rng.Start)
	assert.Equal(t, time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC), rng.End)
}

func TestResolveThisMonthOnFirstDay(t *testing.T) {
	svc := NewRangeService(fixedClock(2024, time.March, 1))

	rng, err := svc.Resolve(entity.ModeThisMonth, time.Time{}, time.Time{})

	require.NoError(t, err)
	assert.Equal(t, rng.Start, rng.End)
}

func TestResolveLastMonth(t *testing.T) {
	t.Run("Mid-year", func(t *testing.T) {
		svc := NewRangeService(fixedClock(2024, time.March, 15))

		rng, err := svc.Resolve(entity.ModeLastMonth, time.Time{}, time.Time{})

		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC), rng.Start)
		// 2024 is a leap year
		assert.Equal(t, time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC), rng.End)
	})

	t.Run("January rolls back into previous year", func(t *testing.T) {
		svc := NewRangeService(fixedClock(2024, time.January, 10))

		rng, err := svc.Resolve(entity.ModeLastMonth, time.Time{}, time.Time{})

		require.NoError(t, err)
		assert.Equal(t, time.Date(2023, time.December, 1, 0, 0, 0, 0, time.UTC), rng.Start)
		assert.Equal(t, time.Date(2023, time.December, 31, 0, 0, 0, 0, time.UTC), rng.End)
	})

	t.Run("End is always the last day of the previous month", func(t *testing.T) {
		svc := NewRangeService(fixedClock(2023, time.May, 31))

		rng, err := svc.Resolve(entity.ModeLastMonth, time.Time{}, time.Time{})

		require.NoError(t, err)
		assert.Equal(t, time.Date(2023, time.April, 30, 0, 0, 0, 0, time.UTC), rng.End)
		assert.Equal(t, time.April, rng.End.Month())
	})
}

func TestResolveCustom(t *testing.T) {
	svc := NewRangeService(fixedClock(2024, time.March, 15))

	t.Run("Valid range passes through unchanged", func(t *testing.T) {
		start := time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC)
		end := time.Date(2024, time.January, 20, 0, 0, 0, 0, time.UTC)

		rng, err := svc.Resolve(entity.ModeCustom, start, end)

		require.NoError(t, err)
		assert.Equal(t, start, rng.Start)
		assert.Equal(t, end, rng.End)
	})

	t.Run("Single-day range is valid", func(t *testing.T) {
		day := time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC)

		rng, err := svc.Resolve(entity.ModeCustom, day, day)

		require.NoError(t, err)
		assert.Equal(t, rng.Start, rng.End)
	})

	t.Run("Start after end is rejected", func(t *testing.T) {
		start := time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC)
		end := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)

		_, err := svc.Resolve(entity.ModeCustom, start, end)

		assert.ErrorIs(t, err, entity.ErrInvalidRange)
	})

	t.Run("Future dates are not rejected", func(t *testing.T) {
		start := time.Date(2030, time.January, 1, 0, 0, 0, 0, time.UTC)
		end := time.Date(2030, time.January, 31, 0, 0, 0, 0, time.UTC)

		rng, err := svc.Resolve(entity.ModeCustom, start, end)

		require.NoError(t, err)
		assert.True(t, rng.Start.Before(rng.End))
	})

	t.Run("Time components are truncated to calendar dates", func(t *testing.T) {
		start := time.Date(2024, time.January, 5, 23, 59, 0, 0, time.UTC)
		end := time.Date(2024, time.January, 5, 0, 1, 0, 0, time.UTC)

		rng, err := svc.Resolve(entity.ModeCustom, start, end)

		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC), rng.Start)
		assert.Equal(t, rng.Start, rng.End)
	})
}
