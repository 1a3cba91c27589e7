package memory

import (
	"cmp"
	"context"
	"maps"
	"slices"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/nightlife/listings/internal/db"
	"github.com/nightlife/listings/internal/domain/geo"
	"github.com/nightlife/listings/internal/domain/search/mode"
	"github.com/nightlife/listings/internal/domain/search/plan"
	"github.com/nightlife/listings/internal/domain/search/predicate"
)

type collection struct {
	store *Store
	name  string
}

// Find evaluates the query over the collection snapshot.
func (c *collection) Find(ctx context.Context, q *plan.Query) ([]bson.Raw, error) {
	if err := ctx.Err(); err != nil {
		return nil, &db.Error{Op: db.OpAggregate, Err: err}
	}
	docs := c.match(q.Predicate)

	switch q.Mode {
	case mode.Ranked:
		sortDocs(docs, q.Sort)
		ranked := plan.Rank(docs, func(d map[string]any) []string {
			return stringsAt(d, q.RankField)
		}, q.RankTags)
		docs = docs[:0]
		for _, r := range ranked {
			docs = append(docs, r.Item)
		}
	case mode.Distance:
		docs = byDistance(docs, q.Near, q.NearField)
	default:
		sortDocs(docs, q.Sort)
	}

	docs = window(docs, q.Skip, q.Limit)

	out := make([]bson.Raw, 0, len(docs))
	for _, d := range docs {
		raw, err := bson.Marshal(project(d, q.Fields, q.Mode == mode.Distance))
		if err != nil {
			return nil, &db.Error{Op: db.OpDecode, Err: err}
		}
		out = append(out, raw)
	}
	return out, nil
}

// Count returns the number of documents matching the predicate.
func (c *collection) Count(ctx context.Context, q *plan.CountQuery) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, &db.Error{Op: db.OpCount, Err: err}
	}
	return len(c.match(q.Predicate)), nil
}

func (c *collection) match(pred *predicate.Node) []map[string]any {
	var out []map[string]any
	for _, d := range c.store.snapshot(c.name) {
		if pred.Match(d) {
			out = append(out, d)
		}
	}
	return out
}

// byDistance keeps documents carrying a point at field, annotates them with
// their distance and orders them nearest first.
func byDistance(docs []map[string]any, near geo.Point, field string) []map[string]any {
	type hit struct {
		doc  map[string]any
		dist float64
	}
	hits := make([]hit, 0, len(docs))
	for _, d := range docs {
		p, ok := geo.FromGeoJSON(valueAt(d, field))
		if !ok {
			continue
		}
		annotated := maps.Clone(d)
		dist := geo.Distance(near, p)
		annotated[plan.DistanceField] = dist
		hits = append(hits, hit{doc: annotated, dist: dist})
	}
	slices.SortStableFunc(hits, func(a, b hit) int {
		if c := cmp.Compare(a.dist, b.dist); c != 0 {
			return c
		}
		return compareValues(a.doc[plan.IDField], b.doc[plan.IDField])
	})
	out := make([]map[string]any, len(hits))
	for i, h := range hits {
		out[i] = h.doc
	}
	return out
}

// sortDocs orders by the sort keys with _id as the final tie-break.
func sortDocs(docs []map[string]any, keys []plan.SortKey) {
	slices.SortStableFunc(docs, func(a, b map[string]any) int {
		for _, k := range keys {
			if c := compareValues(valueAt(a, k.Field), valueAt(b, k.Field)); c != 0 {
				return c * int(k.Direction)
			}
		}
		return compareValues(a[plan.IDField], b[plan.IDField])
	})
}

func window(docs []map[string]any, skip, limit int) []map[string]any {
	if skip >= len(docs) {
		return nil
	}
	docs = docs[skip:]
	if limit > 0 && limit < len(docs) {
		docs = docs[:limit]
	}
	return docs
}

// compareValues orders values the way the document store does across types:
// missing, numbers, strings, object ids, booleans, dates.
func compareValues(a, b any) int {
	ra, rb := typeRank(a), typeRank(b)
	if ra != rb {
		return cmp.Compare(ra, rb)
	}
	switch av := a.(type) {
	case string:
		return strings.Compare(av, b.(string))
	case primitive.ObjectID:
		bv := b.(primitive.ObjectID)
		return strings.Compare(av.Hex(), bv.Hex())
	case bool:
		bv := b.(bool)
		switch {
		case av == bv:
			return 0
		case !av:
			return -1
		}
		return 1
	case time.Time:
		return av.Compare(b.(time.Time))
	}
	if fa, ok := toFloat(a); ok {
		fb, _ := toFloat(b)
		return cmp.Compare(fa, fb)
	}
	return 0
}

func typeRank(v any) int {
	switch v.(type) {
	case nil:
		return 0
	case float64, float32, int, int32, int64:
		return 1
	case string:
		return 2
	case primitive.ObjectID:
		return 3
	case bool:
		return 4
	case time.Time:
		return 5
	}
	return 6
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

// valueAt follows a dotted path through nested objects.
func valueAt(doc map[string]any, path string) any {
	var cur any = doc
	for _, seg := range strings.Split(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		cur = m[seg]
	}
	return cur
}

func stringsAt(doc map[string]any, path string) []string {
	arr, _ := valueAt(doc, path).([]any)
	out := make([]string, 0, len(arr))
	for _, v := range arr {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// project keeps only the listed paths. An empty list keeps the whole document.
func project(doc map[string]any, fields []string, keepDistance bool) map[string]any {
	if len(fields) == 0 {
		return doc
	}
	out := map[string]any{}
	if keepDistance {
		fields = append(slices.Clone(fields), plan.DistanceField)
	}
	for _, f := range fields {
		v := valueAt(doc, f)
		if v == nil {
			continue
		}
		setPath(out, f, v)
	}
	return out
}

func setPath(m map[string]any, path string, v any) {
	segs := strings.Split(path, ".")
	for _, seg := range segs[:len(segs)-1] {
		next, ok := m[seg].(map[string]any)
		if !ok {
			next = map[string]any{}
			m[seg] = next
		}
		m = next
	}
	m[segs[len(segs)-1]] = v
}
