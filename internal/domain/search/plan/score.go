package plan

import (
	"cmp"
	"slices"
)

// Score returns the number of distinct requested tags present in docTags.
func Score(docTags, requested []string) int {
	if len(docTags) == 0 || len(requested) == 0 {
		return 0
	}
	have := make(map[string]struct{}, len(docTags))
	for _, t := range docTags {
		have[t] = struct{}{}
	}
	n := 0
	seen := make(map[string]struct{}, len(requested))
	for _, t := range requested {
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		if _, ok := have[t]; ok {
			n++
		}
	}
	return n
}

// Ranked pairs an item with its tag-overlap score.
type Ranked[T any] struct {
	Item  T
	Score int
}

// Rank scores items against the requested tags, drops those scoring below 1
// and orders the rest by descending score. Ties keep their input order.
func Rank[T any](items []T, tagsOf func(T) []string, requested []string) []Ranked[T] {
	out := make([]Ranked[T], 0, len(items))
	for _, it := range items {
		if s := Score(tagsOf(it), requested); s >= 1 {
			out = append(out, Ranked[T]{Item: it, Score: s})
		}
	}
	slices.SortStableFunc(out, func(a, b Ranked[T]) int {
		return cmp.Compare(b.Score, a.Score)
	})
	return out
}
