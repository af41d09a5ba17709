package entity

import (
	"time"
)

// ISODate is the wire format for calendar dates used throughout the system.
const ISODate = "2006-01-02"

// DateRange is an inclusive calendar date range. Start is never after End.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// NewDateRange builds a DateRange, normalizing both bounds to UTC midnight.
// Returns ErrInvalidRange if start is after end.
func NewDateRange(start, end time.Time) (DateRange, error) {
	start = Day(start)
	end = Day(end)

	if start.After(end) {
		return DateRange{}, ErrInvalidRange
	}

	return DateRange{Start: start, End: end}, nil
}

// Day truncates a timestamp to its calendar date at UTC midnight.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// RangeMode selects how a date range is resolved.
type RangeMode string

const (
	// ModeThisMonth covers the first of the current month through today
	ModeThisMonth RangeMode = "this_month"
	// ModeLastMonth covers the whole previous calendar month
	ModeLastMonth RangeMode = "last_month"
	// ModeCustom uses explicit start/end dates chosen by the user
	ModeCustom RangeMode = "custom"
)

// Valid reports whether the mode is one of the three supported values.
func (m RangeMode) Valid() bool {
	switch m {
	case ModeThisMonth, ModeLastMonth, ModeCustom:
		return true
	}
	return false
}

// RawSeries is the upstream time series as delivered by the rates API:
// ISO date -> currency code -> rate. Treated as read-only input.
type RawSeries map[string]map[string]float64

// Row is one table row: a date plus one cell per requested currency.
// A nil cell means the upstream had no rate for that currency on that date;
// it is distinct from a legitimate zero rate.
type Row struct {
	Date  time.Time  `json:"date"`
	Cells []*float64 `json:"cells"`
}

// RateTable is the ordered, tabular form of a RawSeries. Rows are strictly
// ascending by date and Cells align positionally with Columns.
type RateTable struct {
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// QueryMeta describes one export query; it is written verbatim into the
// workbook's Meta sheet.
type QueryMeta struct {
	Base      string    `json:"base"`
	Targets   []string  `json:"targets"`
	Range     DateRange `json:"range"`
	FetchedAt time.Time `json:"fetched_at"`
	Source    string    `json:"source"`
}

// CurrencyStats summarizes one table column, ignoring missing cells.
type CurrencyStats struct {
	Currency string  `json:"currency"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Mean     float64 `json:"mean"`
	Count    int     `json:"count"`
}
