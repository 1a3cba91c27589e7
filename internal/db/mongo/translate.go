package mongo

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/nightlife/listings/internal/domain/search/mode"
	"github.com/nightlife/listings/internal/domain/search/plan"
	"github.com/nightlife/listings/internal/domain/search/predicate"
)

// Filter translates a predicate into a query document. A nil predicate
// becomes the empty document, which matches everything.
func Filter(n *predicate.Node) bson.D {
	if n == nil {
		return bson.D{}
	}
	switch n.Kind() {
	case predicate.KindAnd:
		return bson.D{{Key: "$and", Value: children(n)}}
	case predicate.KindOr:
		return bson.D{{Key: "$or", Value: children(n)}}
	case predicate.KindEquals:
		return bson.D{{Key: n.Field(), Value: n.Value()}}
	case predicate.KindIn:
		return bson.D{{Key: n.Field(), Value: bson.D{{Key: "$in", Value: bson.A(n.Values())}}}}
	case predicate.KindNotIn:
		return bson.D{{Key: n.Field(), Value: bson.D{{Key: "$nin", Value: bson.A(n.Values())}}}}
	case predicate.KindAll:
		return bson.D{{Key: n.Field(), Value: bson.D{{Key: "$all", Value: bson.A(n.Values())}}}}
	case predicate.KindRange:
		var cond bson.D
		if n.Low() != nil {
			cond = append(cond, bson.E{Key: "$gte", Value: n.Low()})
		}
		if n.High() != nil {
			cond = append(cond, bson.E{Key: "$lt", Value: n.High()})
		}
		return bson.D{{Key: n.Field(), Value: cond}}
	case predicate.KindExists:
		return bson.D{{Key: n.Field(), Value: bson.D{{Key: "$exists", Value: n.ShouldExist()}}}}
	case predicate.KindTextMatch:
		re := primitive.Regex{Pattern: predicate.TextRegex(n.Pattern()), Options: "i"}
		return bson.D{{Key: n.Field(), Value: re}}
	}
	return bson.D{}
}

func children(n *predicate.Node) bson.A {
	kids := n.Children()
	out := make(bson.A, 0, len(kids))
	for _, c := range kids {
		out = append(out, Filter(c))
	}
	return out
}

// Pipeline builds the aggregation pipeline of a result query.
func Pipeline(q *plan.Query) mongo.Pipeline {
	filter := Filter(q.Predicate)
	var p mongo.Pipeline

	switch q.Mode {
	case mode.Distance:
		// $geoNear must open the pipeline and already sorts by distance.
		p = append(p, bson.D{{Key: "$geoNear", Value: bson.D{
			{Key: "near", Value: bson.D{
				{Key: "type", Value: "Point"},
				{Key: "coordinates", Value: bson.A{q.Near.Longitude, q.Near.Latitude}},
			}},
			{Key: "distanceField", Value: plan.DistanceField},
			{Key: "key", Value: q.NearField},
			{Key: "query", Value: filter},
			{Key: "spherical", Value: true},
		}}})
	case mode.Ranked:
		p = appendMatch(p, filter)
		p = append(p,
			bson.D{{Key: "$addFields", Value: bson.D{{Key: plan.ScoreField, Value: bson.D{
				{Key: "$size", Value: bson.D{{Key: "$setIntersection", Value: bson.A{
					bson.D{{Key: "$ifNull", Value: bson.A{"$" + q.RankField, bson.A{}}}},
					stringsA(q.RankTags),
				}}}},
			}}}}},
			bson.D{{Key: "$match", Value: bson.D{{Key: plan.ScoreField, Value: bson.D{{Key: "$gte", Value: 1}}}}}},
			bson.D{{Key: "$sort", Value: sortDoc(append([]plan.SortKey{
				{Field: plan.ScoreField, Direction: plan.Descending},
			}, q.Sort...))}},
		)
	default:
		p = appendMatch(p, filter)
		p = append(p, bson.D{{Key: "$sort", Value: sortDoc(q.Sort)}})
	}

	p = append(p,
		bson.D{{Key: "$skip", Value: int64(q.Skip)}},
		bson.D{{Key: "$limit", Value: int64(q.Limit)}},
	)

	if proj := projection(q); len(proj) > 0 {
		p = append(p, bson.D{{Key: "$project", Value: proj}})
	}
	return p
}

// CountPipeline builds the count-only pipeline sharing the query predicate.
func CountPipeline(q *plan.CountQuery) mongo.Pipeline {
	var p mongo.Pipeline
	p = appendMatch(p, Filter(q.Predicate))
	return append(p, bson.D{{Key: "$count", Value: countField}})
}

const countField = "total"

func appendMatch(p mongo.Pipeline, filter bson.D) mongo.Pipeline {
	if len(filter) == 0 {
		return p
	}
	return append(p, bson.D{{Key: "$match", Value: filter}})
}

// sortDoc renders sort keys, appending _id as the final tie-break so pages
// are stable across requests.
func sortDoc(keys []plan.SortKey) bson.D {
	out := make(bson.D, 0, len(keys)+1)
	hasID := false
	for _, k := range keys {
		out = append(out, bson.E{Key: k.Field, Value: int32(k.Direction)})
		if k.Field == plan.IDField {
			hasID = true
		}
	}
	if !hasID {
		out = append(out, bson.E{Key: plan.IDField, Value: int32(1)})
	}
	return out
}

func projection(q *plan.Query) bson.D {
	if len(q.Fields) > 0 {
		proj := make(bson.D, 0, len(q.Fields)+1)
		for _, f := range q.Fields {
			proj = append(proj, bson.E{Key: f, Value: 1})
		}
		if q.Mode == mode.Distance {
			proj = append(proj, bson.E{Key: plan.DistanceField, Value: 1})
		}
		return proj
	}
	if q.Mode == mode.Ranked {
		return bson.D{{Key: plan.ScoreField, Value: 0}}
	}
	return nil
}

func stringsA(values []string) bson.A {
	out := make(bson.A, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
