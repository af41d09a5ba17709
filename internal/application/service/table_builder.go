// Package service internal/application/service/table_builder.go
package service

import (
	"fmt"
	"sort"
	"time"

	"github.com/damon-houk/fx-timeseries-export/internal/domain/entity"
)

// BuildRateTable reshapes a raw time series into an ordered table. Rows come
// out strictly ascending by date (lexicographic ISO sort equals chronological
// sort); columns follow the caller-supplied order exactly, never the series'
// native key order. A currency absent for a date yields a nil cell, never a
// zero. A payload without the expected date -> currency -> rate shape fails
// with entity.ErrMalformedSeries rather than producing an empty table.
func BuildRateTable(series entity.RawSeries, columns []string) (*entity.RateTable, error) {
	if series == nil {
		return nil, fmt.Errorf("%w: series is nil", entity.ErrMalformedSeries)
	}

	dates := make([]string, 0, len(series))
	for d := range series {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	cols := make([]string, len(columns))
	copy(cols, columns)

	rows := make([]entity.Row, 0, len(dates))
	for _, d := range dates {
		day, err := time.Parse(entity.ISODate, d)
		if err != nil {
			return nil, fmt.Errorf("%w: bad date key %q", entity.ErrMalformedSeries, d)
		}

		block := series[d]
		if block == nil {
			return nil, fmt.Errorf("%w: no rate block for %s", entity.ErrMalformedSeries, d)
		}

		cells := make([]*float64, len(cols))
		for i, currency := range cols {
			if rate, ok := block[currency]; ok {
				r := rate
				cells[i] = &r
			}
		}

		rows = append(rows, entity.Row{Date: day, Cells: cells})
	}

	return &entity.RateTable{Columns: cols, Rows: rows}, nil
}

// RebaseSeries converts a series quoted against the upstream provider's base
// (usually USD) into one quoted against the requested base, using
// rate[cur] / rate[base] per day. The base column becomes 1.0 and a USD
// column is derived as 1 / rate[base] when the provider did not send one.
// Days where the base itself is missing cannot be converted and are skipped.
func RebaseSeries(series entity.RawSeries, base string) entity.RawSeries {
	rebased := make(entity.RawSeries, len(series))

	for date, block := range series {
		baseRate, ok := block[base]
		if !ok || baseRate == 0 {
			continue
		}

		converted := make(map[string]float64, len(block)+1)
		for currency, rate := range block {
			converted[currency] = rate / baseRate
		}
		converted[base] = 1.0

		if _, ok := converted["USD"]; !ok {
			converted["USD"] = 1.0 / baseRate
		}

		rebased[date] = converted
	}

	return rebased
}

// ComputeStats summarizes each table column with min, max and mean. Missing
// cells are excluded from the aggregates; a column with no observations keeps
// zero values and Count 0.
func ComputeStats(table *entity.RateTable) []entity.CurrencyStats {
	stats := make([]entity.CurrencyStats, len(table.Columns))

	for i, currency := range table.Columns {
		s := entity.CurrencyStats{Currency: currency}

		var sum float64
		for _, row := range table.Rows {
			cell := row.Cells[i]
			if cell == nil {
				continue
			}

			v := *cell
			if s.Count == 0 || v < s.Min {
				s.Min = v
			}
			if s.Count == 0 || v > s.Max {
				s.Max = v
			}
			sum += v
			s.Count++
		}

		if s.Count > 0 {
			s.Mean = sum / float64(s.Count)
		}

		stats[i] = s
	}

	return stats
}
