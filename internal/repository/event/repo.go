package event

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/nightlife/listings/internal/db"
	domevent "github.com/nightlife/listings/internal/domain/event"
	"github.com/nightlife/listings/internal/domain/search/plan"
)

// Collection is the document collection holding events.
const Collection = "events"

// Repo implements usecase/search.EventRepository.
type Repo struct {
	exec db.Executor
}

// New creates an event repository.
func New(exec db.Executor) *Repo {
	return &Repo{exec: exec}
}

// Find runs the result query and decodes the events.
func (r *Repo) Find(ctx context.Context, q *plan.Query) ([]domevent.Event, error) {
	raws, err := r.exec.Find(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("find events: %w", err)
	}
	out := make([]domevent.Event, 0, len(raws))
	for _, raw := range raws {
		var dto eventDTO
		if err := bson.Unmarshal(raw, &dto); err != nil {
			return nil, fmt.Errorf("decode event: %w", &db.Error{Op: db.OpDecode, Err: err})
		}
		out = append(out, dto.toDomain())
	}
	return out, nil
}

// Count runs the count query.
func (r *Repo) Count(ctx context.Context, q *plan.CountQuery) (int, error) {
	n, err := r.exec.Count(ctx, q)
	if err != nil {
		return 0, fmt.Errorf("count events: %w", err)
	}
	return n, nil
}
