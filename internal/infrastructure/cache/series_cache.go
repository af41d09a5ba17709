package cache

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/damon-houk/fx-timeseries-export/internal/domain/entity"
	"github.com/dgraph-io/badger/v3"
)

// SeriesCache is an ephemeral TTL cache for fetched rate series, backed by an
// in-memory Badger instance. Entries expire via Badger's native TTL; nothing
// survives the process. There is no mutual exclusion around population of a
// single key: concurrent misses both fetch and the last writer wins.
type SeriesCache struct {
	db  *badger.DB
	ttl time.Duration
}

// NewSeriesCache opens the in-memory store with the given entry TTL
func NewSeriesCache(ttl time.Duration) (*SeriesCache, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache store: %w", err)
	}

	return &SeriesCache{db: db, ttl: ttl}, nil
}

// Close releases the underlying store
func (c *SeriesCache) Close() error {
	return c.db.Close()
}

// Key derives the deterministic fingerprint for one query. Callers pass the
// currencies already sorted, so identical queries always share an entry.
func Key(currencies []string, rng entity.DateRange) string {
	return strings.Join(currencies, ",") + ":" + rng.Start.Format(entity.ISODate) + ":" + rng.End.Format(entity.ISODate)
}

// Get returns the cached series for the key, or ok=false when the entry is
// absent or its TTL has elapsed.
func (c *SeriesCache) Get(key string) (entity.RawSeries, bool) {
	var series entity.RawSeries

	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &series)
		})
	})

	if err != nil {
		return nil, false
	}

	return series, true
}

// Put stores the series under the key, overwriting any previous entry
func (c *SeriesCache) Put(key string, series entity.RawSeries) error {
	data, err := json.Marshal(series)
	if err != nil {
		return fmt.Errorf("failed to marshal series: %w", err)
	}

	err = c.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry([]byte(key), data).WithTTL(c.ttl)
		return txn.SetEntry(entry)
	})

	if err != nil {
		return fmt.Errorf("failed to store series: %w", err)
	}

	return nil
}
