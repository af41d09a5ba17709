// internal/mocks/mocks.go
package mocks

import (
	"context"

	"github.com/damon-houk/fx-timeseries-export/internal/domain/entity"
	"github.com/damon-houk/fx-timeseries-export/internal/infrastructure/logger"
	"github.com/stretchr/testify/mock"
)

// MockRateSeriesRepository mocks the RateSeriesRepository interface
type MockRateSeriesRepository struct {
	mock.Mock
}

func (m *MockRateSeriesRepository) FindSeries(ctx context.Context, currencies []string, rng entity.DateRange) (entity.RawSeries, error) {
	args := m.Called(ctx, currencies, rng)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(entity.RawSeries), args.Error(1)
}

// MockRatesAPI mocks the upstream RatesAPI interface
type MockRatesAPI struct {
	mock.Mock
}

func (m *MockRatesAPI) FetchTimeframe(ctx context.Context, currencies []string, rng entity.DateRange) (entity.RawSeries, error) {
	args := m.Called(ctx, currencies, rng)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(entity.RawSeries), args.Error(1)
}

// MockLogger mocks the logger interface
type MockLogger struct {
	mock.Mock
}

func (m *MockLogger) Debug(msg string, fields map[string]interface{}) {
	m.Called(msg, fields)
}

func (m *MockLogger) Info(msg string, fields map[string]interface{}) {
	m.Called(msg, fields)
}

func (m *MockLogger) Warn(msg string, fields map[string]interface{}) {
	m.Called(msg, fields)
}

func (m *MockLogger) Error(msg string, fields map[string]interface{}) {
	m.Called(msg, fields)
}

func (m *MockLogger) WithField(key string, value interface{}) logger.Logger {
	args := m.Called(key, value)
	if args.Get(0) == nil {
		return m
	}
	return args.Get(0).(logger.Logger)
}
