package search

import (
	domevent "github.com/nightlife/listings/internal/domain/event"
	"github.com/nightlife/listings/internal/domain/search/filter"
	"github.com/nightlife/listings/internal/domain/search/predicate"
)

// buildEventPredicate compiles an event filter spec. Event filters have no
// external preconditions, so the build cannot fail past normalization.
func buildEventPredicate(spec filter.Spec) *predicate.Node {
	var conj []*predicate.Node
	add := func(n *predicate.Node) { conj = append(conj, n) }

	add(idFilters(spec))
	add(locationFilters(spec, domevent.FieldCountry, domevent.FieldCity))

	refs := []struct {
		param string
		field string
	}{
		{filter.ParamVenue, domevent.FieldVenue},
		{filter.ParamArtist, domevent.FieldArtists},
		{filter.ParamOrganiser, domevent.FieldOrganiser},
	}
	for _, r := range refs {
		if ids, ok := spec.IDs(r.param); ok {
			add(predicate.In(r.field, ids))
		}
	}

	if tag, ok := spec.String(filter.ParamTag); ok {
		add(predicate.Equals(domevent.FieldTags, tag))
	}
	if tagged, ok := spec.Bool(filter.ParamTagged); ok {
		add(predicate.Exists(domevent.FieldFirstTag, tagged))
	}

	from, okFrom := spec.Time(filter.ParamDateFrom)
	to, okTo := spec.Time(filter.ParamDateTo)
	if okFrom || okTo {
		var low, high any
		if okFrom {
			low = from
		}
		if okTo {
			high = to
		}
		add(predicate.Range(domevent.FieldDate, low, high))
	}

	if text, ok := spec.Text(); ok {
		add(predicate.TextMatch(domevent.FieldNormalizedTitle, text))
	}

	return predicate.And(conj...)
}
