package predicate

import (
	"slices"
	"time"
)

// Kind enumerates predicate node kinds.
type Kind int

const (
	// KindEquals matches a field equal to a value (or an array field containing it).
	KindEquals Kind = iota
	// KindIn matches a field equal to any value of a set.
	KindIn
	// KindNotIn matches a field equal to none of the values of a set (absent fields match).
	KindNotIn
	// KindAll matches an array field containing every value of a set.
	KindAll
	// KindRange matches low <= field < high. Either bound may be open.
	KindRange
	// KindExists matches on field presence.
	KindExists
	// KindTextMatch matches a word-boundary anchored, case-insensitive prefix in a text field.
	KindTextMatch
	// KindAnd matches when every child matches.
	KindAnd
	// KindOr matches when any child matches.
	KindOr
)

// Node is an immutable predicate tree node. A nil *Node is the empty predicate
// and matches every document.
type Node struct {
	kind     Kind
	field    string
	value    any
	values   []any
	low      any
	high     any
	exists   bool
	pattern  string
	children []*Node
}

// Equals creates a field == value node.
func Equals(field string, value any) *Node {
	return &Node{kind: KindEquals, field: field, value: value}
}

// In creates a field ∈ values node.
func In[T any](field string, values []T) *Node {
	return &Node{kind: KindIn, field: field, values: toAny(values)}
}

// NotIn creates a field ∉ values node.
func NotIn[T any](field string, values []T) *Node {
	return &Node{kind: KindNotIn, field: field, values: toAny(values)}
}

// All creates a node requiring an array field to contain every value.
func All[T any](field string, values []T) *Node {
	return &Node{kind: KindAll, field: field, values: toAny(values)}
}

// Range creates a low <= field < high node. A nil bound is open.
// Bounds are float64 or time.Time.
func Range(field string, low, high any) *Node {
	return &Node{kind: KindRange, field: field, low: low, high: high}
}

// Exists creates a field presence node.
func Exists(field string, exists bool) *Node {
	return &Node{kind: KindExists, field: field, exists: exists}
}

// TextMatch creates a text match node. pattern must already be normalized.
func TextMatch(field, pattern string) *Node {
	return &Node{kind: KindTextMatch, field: field, pattern: pattern}
}

// And combines children with logical AND. Nil children are dropped; an empty
// group is elided (nil) and a single child is returned as is.
func And(children ...*Node) *Node {
	return group(KindAnd, children)
}

// Or combines children with logical OR, with the same elision rules as And.
func Or(children ...*Node) *Node {
	return group(KindOr, children)
}

func group(kind Kind, children []*Node) *Node {
	kept := make([]*Node, 0, len(children))
	for _, c := range children {
		if c != nil {
			kept = append(kept, c)
		}
	}
	switch len(kept) {
	case 0:
		return nil
	case 1:
		return kept[0]
	}
	return &Node{kind: kind, children: kept}
}

// Kind returns the node kind.
func (n *Node) Kind() Kind { return n.kind }

// Field returns the document field path (dot separated).
func (n *Node) Field() string { return n.field }

// Value returns the Equals operand.
func (n *Node) Value() any { return n.value }

// Values returns the set operand of In, NotIn and All.
func (n *Node) Values() []any { return slices.Clone(n.values) }

// Low returns the inclusive lower bound of a Range, or nil.
func (n *Node) Low() any { return n.low }

// High returns the exclusive upper bound of a Range, or nil.
func (n *Node) High() any { return n.high }

// ShouldExist returns the Exists operand.
func (n *Node) ShouldExist() bool { return n.exists }

// Pattern returns the normalized TextMatch pattern.
func (n *Node) Pattern() string { return n.pattern }

// Children returns the children of And and Or.
func (n *Node) Children() []*Node { return slices.Clone(n.children) }

// Equal reports whether two trees are structurally identical.
func Equal(a, b *Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.kind != b.kind || a.field != b.field || a.exists != b.exists || a.pattern != b.pattern {
		return false
	}
	if !valueEqual(a.value, b.value) || !valueEqual(a.low, b.low) || !valueEqual(a.high, b.high) {
		return false
	}
	if len(a.values) != len(b.values) || len(a.children) != len(b.children) {
		return false
	}
	for i := range a.values {
		if !valueEqual(a.values[i], b.values[i]) {
			return false
		}
	}
	for i := range a.children {
		if !Equal(a.children[i], b.children[i]) {
			return false
		}
	}
	return true
}

func valueEqual(a, b any) bool {
	if ta, ok := a.(time.Time); ok {
		tb, ok := b.(time.Time)
		return ok && ta.Equal(tb)
	}
	return a == b
}

func toAny[T any](values []T) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
