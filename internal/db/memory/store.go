// Package memory is an in-process document store for local development and
// tests. It evaluates the same queries as the MongoDB executor.
package memory

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/nightlife/listings/internal/db"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

// Store holds documents per collection. Documents are normalized to plain
// map[string]any / []any values on insert and never mutated afterwards.
type Store struct {
	mu          sync.RWMutex
	collections map[string][]map[string]any
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{collections: map[string][]map[string]any{}}
}

// Insert adds documents to a collection.
func (s *Store) Insert(collection string, docs ...map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range docs {
		if m, ok := plain(d).(map[string]any); ok {
			s.collections[collection] = append(s.collections[collection], m)
		}
	}
}

// LoadFile seeds the store from an Extended JSON file shaped as
// {"<collection>": [<document>, ...], ...}.
func (s *Store) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()
	return s.Load(f)
}

// Load seeds the store from Extended JSON read from r.
func (s *Store) Load(r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read seed: %w", err)
	}
	var seed bson.M
	if err := bson.UnmarshalExtJSON(data, false, &seed); err != nil {
		return fmt.Errorf("parse seed: %w", err)
	}
	for name, v := range seed {
		docs, ok := plain(v).([]any)
		if !ok {
			return fmt.Errorf("seed collection %q: expected an array", name)
		}
		for i, d := range docs {
			m, ok := d.(map[string]any)
			if !ok {
				return fmt.Errorf("seed collection %q: document %d is not an object", name, i)
			}
			s.Insert(name, m)
		}
	}
	return nil
}

// Len returns the number of documents in a collection.
func (s *Store) Len(collection string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.collections[collection])
}

// Ping always succeeds.
func (s *Store) Ping(context.Context) error { return nil }

// Close is a no-op.
func (s *Store) Close(context.Context) error { return nil }

// Collection returns the executor bound to one collection.
func (s *Store) Collection(name string) db.Executor {
	return &collection{store: s, name: name}
}

func (s *Store) snapshot(name string) []map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collections[name]
}

// plain converts decoded BSON values into the shapes predicate.Match walks.
func plain(v any) any {
	switch t := v.(type) {
	case bson.M:
		return plainMap(t)
	case map[string]any:
		return plainMap(t)
	case bson.D:
		m := make(map[string]any, len(t))
		for _, e := range t {
			m[e.Key] = plain(e.Value)
		}
		return m
	case bson.A:
		return plainSlice(t)
	case []any:
		return plainSlice(t)
	case []string:
		out := make([]any, len(t))
		for i, s := range t {
			out[i] = s
		}
		return out
	case primitive.DateTime:
		return t.Time().UTC()
	case time.Time:
		return t.UTC()
	}
	return v
}

func plainMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = plain(v)
	}
	return out
}

func plainSlice(s []any) []any {
	out := make([]any, len(s))
	for i, v := range s {
		out[i] = plain(v)
	}
	return out
}
