// Package result holds the paginated envelope returned by listing searches.
package result

// Page is one window of a listing search together with the total number of
// documents matching the same predicate.
type Page[T any] struct {
	items      []T
	offset     int
	limit      int
	totalCount int
}

// NewPage creates a page. A nil items slice is stored as empty so it
// serializes as [] rather than null.
func NewPage[T any](items []T, offset, limit, totalCount int) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{items: items, offset: offset, limit: limit, totalCount: totalCount}
}

// Items returns the documents of the page.
func (p Page[T]) Items() []T { return p.items }

// Offset returns the number of documents skipped.
func (p Page[T]) Offset() int { return p.offset }

// Limit returns the page size that was applied.
func (p Page[T]) Limit() int { return p.limit }

// TotalCount returns the number of documents matching the predicate across all pages.
func (p Page[T]) TotalCount() int { return p.totalCount }
