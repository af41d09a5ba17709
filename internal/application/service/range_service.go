// Package service internal/application/service/range_service.go
package service

import (
	"time"

	"github.com/damon-houk/fx-timeseries-export/internal/domain/entity"
)

// RangeService resolves a UI period selection into a concrete date range
type RangeService struct {
	now func() time.Time
}

// NewRangeService creates a range service. now may be nil, in which case the
// system clock is used; tests inject a fixed clock.
func NewRangeService(now func() time.Time) *RangeService {
	if now == nil {
		now = time.Now
	}
	return &RangeService{now: now}
}

// Resolve turns a range mode and, for custom mode, explicit start/end dates
// into a DateRange. Custom ranges with start after end fail with
// entity.ErrInvalidRange; no other validation is performed, so future dates
// pass through untouched.
func (s *RangeService) Resolve(mode entity.RangeMode, start, end time.Time) (entity.DateRange, error) {
	today := entity.Day(s.now())

	switch mode {
	case entity.ModeThisMonth:
		first := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
		return entity.NewDateRange(first, today)

	case entity.ModeLastMonth:
		firstThis := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
		lastOfPrev := firstThis.AddDate(0, 0, -1)
		firstOfPrev := time.Date(lastOfPrev.Year(), lastOfPrev.Month(), 1, 0, 0, 0, 0, time.UTC)
		return entity.NewDateRange(firstOfPrev, lastOfPrev)

	default:
		// custom: the user's picks pass through unchanged
		return entity.NewDateRange(start, end)
	}
}
