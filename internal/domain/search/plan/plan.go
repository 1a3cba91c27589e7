// Package plan turns a predicate plus ordering and pagination options into
// the store-agnostic result and count queries of a listing search.
package plan

import (
	"slices"
	"strings"

	"github.com/nightlife/listings/internal/domain"
	"github.com/nightlife/listings/internal/domain/geo"
	"github.com/nightlife/listings/internal/domain/search/mode"
	"github.com/nightlife/listings/internal/domain/search/predicate"
)

// Pagination limits.
const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// DistanceKey is the sort key that requests geo-distance ordering.
const DistanceKey = "distance"

// ScoreField is the transient field holding the tag-overlap score inside a
// store pipeline. It never reaches a response.
const ScoreField = "matchScore"

// DistanceField carries the distance in meters from the reference point on
// documents returned in distance mode.
const DistanceField = "distance"

// IDField is always part of a projection.
const IDField = "_id"

// Direction of a sort key.
type Direction int

// Sort directions, valued like a document store sort spec.
const (
	Ascending  Direction = 1
	Descending Direction = -1
)

// SortKey orders results by one document field.
type SortKey struct {
	Field     string
	Direction Direction
}

// Query is the result query of a listing search.
type Query struct {
	Predicate *predicate.Node
	Mode      mode.Mode

	// Ranked mode.
	RankField string
	RankTags  []string

	// Distance mode.
	Near      geo.Point
	NearField string

	// Sorted mode, and the tie-break of ranked mode.
	Sort []SortKey

	Skip  int
	Limit int
	// Fields restricts the returned fields. Empty means every field.
	Fields []string
}

// CountQuery counts every document matching the predicate of a Query,
// ignoring ordering, pagination and projection.
type CountQuery struct {
	Predicate *predicate.Node
}

// Options control ordering, pagination and projection.
type Options struct {
	// RankTags switches to tag-overlap ranking on RankField.
	RankField string
	RankTags  []string

	// Point is the reference for distance ordering; nil when the caller
	// supplied no (or only one) coordinate. GeoField is empty for resources
	// without a location point, which makes the distance key invalid.
	Point    *geo.Point
	GeoField string

	// Sort holds raw "key[:asc|desc]" items in request order. SortFields
	// maps every accepted key to its document field.
	Sort        []string
	SortFields  map[string]string
	DefaultSort SortKey

	// Limit 0 selects DefaultLimit; zero DefaultLimit and MaxLimit fall back
	// to the package constants.
	Offset       int
	Limit        int
	DefaultLimit int
	MaxLimit     int

	// Fields is the requested projection. Dependencies lists, per response
	// field, the document fields that must be kept to serialize it.
	Fields       []string
	Dependencies map[string][]string
}

// Build produces the result and count queries for pred. Both share the same
// predicate, extended with the tag constraint when ranking is active.
func Build(pred *predicate.Node, opts Options) (Query, CountQuery, error) {
	sortKeys, wantDistance, err := parseSort(opts)
	if err != nil {
		return Query{}, CountQuery{}, err
	}
	skip, limit, err := paginate(opts)
	if err != nil {
		return Query{}, CountQuery{}, err
	}
	fields, err := project(opts)
	if err != nil {
		return Query{}, CountQuery{}, err
	}

	q := Query{Skip: skip, Limit: limit, Fields: fields}

	switch {
	case len(opts.RankTags) > 0:
		tags := slices.Clone(opts.RankTags)
		slices.Sort(tags)
		tags = slices.Compact(tags)
		pred = predicate.And(pred, predicate.In(opts.RankField, tags))
		q.Mode = mode.Ranked
		q.RankField = opts.RankField
		q.RankTags = tags
		q.Sort = []SortKey{opts.DefaultSort}
	case wantDistance:
		// Distance ordering only returns documents carrying a point; the count
		// must agree.
		pred = predicate.And(pred, predicate.Exists(opts.GeoField, true))
		q.Mode = mode.Distance
		q.Near = *opts.Point
		q.NearField = opts.GeoField
	case len(sortKeys) > 0:
		q.Mode = mode.Sorted
		q.Sort = sortKeys
	default:
		q.Mode = mode.Sorted
		q.Sort = []SortKey{opts.DefaultSort}
	}

	q.Predicate = pred
	return q, CountQuery{Predicate: pred}, nil
}

// parseSort validates every sort item even when ranking will win, so a
// malformed request fails the same way regardless of the other parameters.
func parseSort(opts Options) ([]SortKey, bool, error) {
	var keys []SortKey
	seen := make(map[string]bool, len(opts.Sort))
	wantDistance := false

	for _, item := range opts.Sort {
		key, dir, hasDir := strings.Cut(strings.TrimSpace(item), ":")
		direction := Descending
		if hasDir {
			switch strings.ToLower(strings.TrimSpace(dir)) {
			case "asc":
				direction = Ascending
			case "desc":
				direction = Descending
			default:
				return nil, false, domain.InvalidArgument(domain.TypeInvalidSort, "invalid sort direction %q", dir)
			}
		}

		if key == DistanceKey {
			if opts.GeoField == "" {
				return nil, false, domain.InvalidArgument(domain.TypeInvalidSort, "distance ordering is not supported")
			}
			if opts.Point == nil {
				return nil, false, domain.InvalidArgument(domain.TypeMissingCoordinates,
					"distance ordering requires longitude and latitude")
			}
			wantDistance = true
			continue
		}

		field, ok := opts.SortFields[key]
		if !ok {
			return nil, false, domain.InvalidArgument(domain.TypeInvalidSort, "unknown sort key %q", key)
		}
		if seen[field] {
			continue
		}
		seen[field] = true
		keys = append(keys, SortKey{Field: field, Direction: direction})
	}
	return keys, wantDistance, nil
}

func paginate(opts Options) (skip, limit int, err error) {
	if opts.Offset < 0 {
		return 0, 0, domain.InvalidArgument(domain.TypeInvalidPagination, "offset must be >= 0")
	}
	if opts.Limit < 0 {
		return 0, 0, domain.InvalidArgument(domain.TypeInvalidPagination, "limit must be >= 0")
	}
	maxLimit := opts.MaxLimit
	if maxLimit <= 0 {
		maxLimit = MaxLimit
	}
	limit = opts.Limit
	if limit == 0 {
		limit = opts.DefaultLimit
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return opts.Offset, limit, nil
}

func project(opts Options) ([]string, error) {
	if len(opts.Fields) == 0 {
		return nil, nil
	}
	out := []string{IDField}
	for _, f := range opts.Fields {
		if err := validateField(f); err != nil {
			return nil, err
		}
		out = append(out, f)
		out = append(out, opts.Dependencies[f]...)
	}
	if len(opts.RankTags) > 0 && opts.RankField != "" {
		out = append(out, opts.RankField)
	}
	slices.Sort(out)
	out = slices.Compact(out)
	return collapse(out), nil
}

func validateField(f string) error {
	if f == "" || strings.HasPrefix(f, "$") || strings.Contains(f, ".$") || f == ScoreField {
		return domain.InvalidArgument(domain.TypeInvalidField, "invalid field %q", f)
	}
	for _, seg := range strings.Split(f, ".") {
		if seg == "" {
			return domain.InvalidArgument(domain.TypeInvalidField, "invalid field %q", f)
		}
	}
	return nil
}

// collapse drops paths covered by a kept ancestor ("location" covers
// "location.city"); a store rejects projections with both. fields is sorted.
func collapse(fields []string) []string {
	out := fields[:0]
	for _, f := range fields {
		covered := false
		for _, kept := range out {
			if strings.HasPrefix(f, kept+".") {
				covered = true
				break
			}
		}
		if !covered {
			out = append(out, f)
		}
	}
	return out
}
