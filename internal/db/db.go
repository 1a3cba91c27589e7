package db

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/nightlife/listings/internal/domain/search/plan"
)

// Store is the document store facade used by the listing repositories.
type Store interface {
	Pinger
	// Collection returns the executor bound to one collection.
	Collection(name string) Executor
	Close(ctx context.Context) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Executor runs finished listing queries. Documents come back as raw BSON so
// repositories decode them into their own DTOs. Failures are returned as
// *Error and are never retried.
type Executor interface {
	Find(ctx context.Context, q *plan.Query) ([]bson.Raw, error)
	Count(ctx context.Context, q *plan.CountQuery) (int, error)
}

// KVStore provides the key-value reads used to load bucket tables.
type KVStore interface {
	Pinger
	Get(ctx context.Context, key string) ([]byte, error)
	GetMany(ctx context.Context, keys []string) (map[string][]byte, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}
