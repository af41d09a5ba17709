package handler

import (
	appservice "github.com/damon-houk/fx-timeseries-export/internal/application/service"
	"github.com/damon-houk/fx-timeseries-export/internal/domain/entity"
)

// PreviewResponse represents the JSON preview of one query
type PreviewResponse struct {
	Base      string             `json:"base"`
	Columns   []string           `json:"columns"`
	Start     string             `json:"start"`
	End       string             `json:"end"`
	FetchedAt string             `json:"fetched_at"`
	Rows      []PreviewRow       `json:"rows"`
	Stats     []CurrencyStatsDTO `json:"stats"`
}

// PreviewRow is one table row; a missing rate serializes as null, never zero
type PreviewRow struct {
	Date  string              `json:"date"`
	Rates map[string]*float64 `json:"rates"`
}

// CurrencyStatsDTO summarizes one currency column
type CurrencyStatsDTO struct {
	Currency string  `json:"currency"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Mean     float64 `json:"mean"`
	Count    int     `json:"count"`
}

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Error       string `json:"error"`
	Status      int    `json:"status"`
	Description string `json:"description,omitempty"`
	RequestID   string `json:"request_id,omitempty"`
}

func newPreviewResponse(result *appservice.ExportResult) PreviewResponse {
	rows := make([]PreviewRow, len(result.Table.Rows))
	for i, row := range result.Table.Rows {
		rates := make(map[string]*float64, len(result.Table.Columns))
		for c, currency := range result.Table.Columns {
			rates[currency] = row.Cells[c]
		}
		rows[i] = PreviewRow{
			Date:  row.Date.Format(entity.ISODate),
			Rates: rates,
		}
	}

	stats := make([]CurrencyStatsDTO, len(result.Stats))
	for i, s := range result.Stats {
		stats[i] = CurrencyStatsDTO{
			Currency: s.Currency,
			Min:      s.Min,
			Max:      s.Max,
			Mean:     s.Mean,
			Count:    s.Count,
		}
	}

	return PreviewResponse{
		Base:      result.Meta.Base,
		Columns:   result.Table.Columns,
		Start:     result.Meta.Range.Start.Format(entity.ISODate),
		End:       result.Meta.Range.End.Format(entity.ISODate),
		FetchedAt: result.Meta.FetchedAt.Format("2006-01-02T15:04:05Z"),
		Rows:      rows,
		Stats:     stats,
	}
}
