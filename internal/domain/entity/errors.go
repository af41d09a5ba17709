package entity

import "errors"

var (
	// ErrInvalidRange is returned when a custom range has start after end.
	// The caller must not issue the upstream fetch when it sees this.
	ErrInvalidRange = errors.New("invalid date range: start is after end")

	// ErrMalformedSeries is returned when the upstream payload does not have
	// the expected date -> currency -> rate shape.
	ErrMalformedSeries = errors.New("malformed rate series payload")

	// ErrNoData is returned when the requested range yields no rows at all.
	ErrNoData = errors.New("no data returned for the requested range")
)
