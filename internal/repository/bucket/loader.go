// Package bucket loads per-city bucket tables from the key-value store.
package bucket

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/goccy/go-json"

	"github.com/nightlife/listings/internal/db"
	dombucket "github.com/nightlife/listings/internal/domain/bucket"
)

// Key layout under the configured prefix:
//
//	<prefix>capacity                 JSON array of capacity breakpoints
//	<prefix>city:<country>:<city>    JSON bucket table
const (
	capacityKey = "capacity"
	cityPrefix  = "city:"
)

// store is the consumer interface for the key-value store (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	GetMany(ctx context.Context, keys []string) (map[string][]byte, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
}

type tableDTO struct {
	Country      string    `json:"country"`
	City         string    `json:"city"`
	Currency     string    `json:"currency"`
	Timezone     string    `json:"timezone"`
	CokePrices   []float64 `json:"cokePrices"`
	BeerPrices   []float64 `json:"beerPrices"`
	EntranceFees []float64 `json:"entranceFees"`
}

// Loader reads bucket tables once, at startup.
type Loader struct {
	store  store
	prefix string
}

// NewLoader creates a loader reading keys under prefix.
func NewLoader(s store, prefix string) *Loader {
	return &Loader{store: s, prefix: prefix}
}

// Load reads the capacity breakpoints and every city table and builds the
// immutable lookup. Missing capacity breakpoints fall back to fallback.
func (l *Loader) Load(ctx context.Context, fallback []float64) (*dombucket.Lookup, error) {
	capacity := fallback
	data, err := l.store.Get(ctx, l.prefix+capacityKey)
	switch {
	case errors.Is(err, db.ErrKeyNotFound):
	case err != nil:
		return nil, fmt.Errorf("get capacity breakpoints: %w", err)
	default:
		if err := json.Unmarshal(data, &capacity); err != nil {
			return nil, fmt.Errorf("decode capacity breakpoints: %w", err)
		}
	}

	keys, err := l.store.Scan(ctx, l.prefix+cityPrefix+"*")
	if err != nil {
		return nil, fmt.Errorf("scan bucket tables: %w", err)
	}
	sort.Strings(keys)

	values, err := l.store.GetMany(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("get bucket tables: %w", err)
	}

	tables := make([]dombucket.Table, 0, len(keys))
	for _, key := range keys {
		data, ok := values[key]
		if !ok {
			// Deleted between SCAN and GET.
			continue
		}
		var dto tableDTO
		if err := json.Unmarshal(data, &dto); err != nil {
			return nil, fmt.Errorf("decode %s: %w", key, err)
		}
		tables = append(tables, dombucket.Table(dto))
	}

	return dombucket.NewLookup(capacity, tables)
}
