package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/nightlife/listings/internal/db"
	"github.com/nightlife/listings/internal/domain/search/plan"
)

// aggregator is the slice of *mongo.Collection the executor needs.
type aggregator interface {
	Aggregate(ctx context.Context, pipeline any, opts ...*options.AggregateOptions) (*mongo.Cursor, error)
}

type executor struct {
	coll    aggregator
	timeout time.Duration
}

// Find runs the result pipeline and returns the raw documents.
func (e *executor) Find(ctx context.Context, q *plan.Query) ([]bson.Raw, error) {
	ctx, cancel := e.withTimeout(ctx)
	defer cancel()

	cur, err := e.coll.Aggregate(ctx, Pipeline(q))
	if err != nil {
		return nil, &db.Error{Op: db.OpAggregate, Err: err}
	}
	defer cur.Close(ctx)

	var docs []bson.Raw
	for cur.Next(ctx) {
		docs = append(docs, append(bson.Raw(nil), cur.Current...))
	}
	if err := cur.Err(); err != nil {
		return nil, &db.Error{Op: db.OpAggregate, Err: err}
	}
	return docs, nil
}

// Count runs the count pipeline. No documents means a count of zero.
func (e *executor) Count(ctx context.Context, q *plan.CountQuery) (int, error) {
	ctx, cancel := e.withTimeout(ctx)
	defer cancel()

	cur, err := e.coll.Aggregate(ctx, CountPipeline(q))
	if err != nil {
		return 0, &db.Error{Op: db.OpCount, Err: err}
	}
	defer cur.Close(ctx)

	if !cur.Next(ctx) {
		if err := cur.Err(); err != nil {
			return 0, &db.Error{Op: db.OpCount, Err: err}
		}
		return 0, nil
	}

	var out struct {
		Total int64 `bson:"total"`
	}
	if err := cur.Decode(&out); err != nil {
		return 0, &db.Error{Op: db.OpDecode, Err: err}
	}
	return int(out.Total), nil
}

func (e *executor) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if e.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, e.timeout)
}
