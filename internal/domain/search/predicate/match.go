package predicate

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// TextRegex returns the regular expression a TextMatch node stands for:
// the pattern anchored at a word boundary. Matching is case-insensitive.
func TextRegex(pattern string) string {
	return `\b` + regexp.QuoteMeta(pattern)
}

// Match evaluates the predicate against a document decoded into plain
// map[string]any / []any values. Arrays match element-wise, like a document
// store query does. A nil predicate matches every document.
func (n *Node) Match(doc map[string]any) bool {
	if n == nil {
		return true
	}
	switch n.kind {
	case KindAnd:
		for _, c := range n.children {
			if !c.Match(doc) {
				return false
			}
		}
		return true
	case KindOr:
		for _, c := range n.children {
			if c.Match(doc) {
				return true
			}
		}
		return false
	}

	vals, found := lookup(doc, n.field)
	switch n.kind {
	case KindExists:
		return found == n.exists
	case KindEquals:
		return containsAny(vals, n.value)
	case KindIn:
		return containsAny(vals, n.values...)
	case KindNotIn:
		return !containsAny(vals, n.values...)
	case KindAll:
		for _, v := range n.values {
			if !containsAny(vals, v) {
				return false
			}
		}
		return len(n.values) > 0
	case KindRange:
		for _, v := range vals {
			if inRange(v, n.low, n.high) {
				return true
			}
		}
		return false
	case KindTextMatch:
		re, err := regexp.Compile("(?i)" + TextRegex(n.pattern))
		if err != nil {
			return false
		}
		for _, v := range vals {
			if s, ok := v.(string); ok && re.MatchString(s) {
				return true
			}
		}
		return false
	}
	return false
}

// lookup resolves a dotted path. Intermediate arrays are traversed, numeric
// segments index arrays, and a terminal array contributes both itself and
// its elements.
func lookup(doc map[string]any, path string) ([]any, bool) {
	current := []any{doc}
	found := false
	segments := strings.Split(path, ".")
	for i, seg := range segments {
		var next []any
		found = false
		for _, c := range current {
			vals, ok := step(c, seg)
			if ok {
				found = true
				next = append(next, vals...)
			}
		}
		if !found {
			return nil, false
		}
		if i == len(segments)-1 {
			current = next
			break
		}
		current = next
	}

	out := make([]any, 0, len(current))
	for _, c := range current {
		out = append(out, c)
		if arr, ok := c.([]any); ok {
			out = append(out, arr...)
		}
	}
	return out, found
}

func step(v any, seg string) ([]any, bool) {
	switch t := v.(type) {
	case map[string]any:
		val, ok := t[seg]
		return []any{val}, ok
	case []any:
		if idx, err := strconv.Atoi(seg); err == nil {
			if idx >= 0 && idx < len(t) {
				return []any{t[idx]}, true
			}
			return nil, false
		}
		var out []any
		found := false
		for _, el := range t {
			if m, ok := el.(map[string]any); ok {
				if val, ok := m[seg]; ok {
					out = append(out, val)
					found = true
				}
			}
		}
		return out, found
	}
	return nil, false
}

func containsAny(vals []any, want ...any) bool {
	for _, v := range vals {
		for _, w := range want {
			if looseEqual(v, w) {
				return true
			}
		}
	}
	return false
}

func looseEqual(a, b any) bool {
	if fa, ok := toFloat(a); ok {
		fb, ok := toFloat(b)
		return ok && fa == fb
	}
	if ta, ok := a.(time.Time); ok {
		tb, ok := b.(time.Time)
		return ok && ta.Equal(tb)
	}
	if _, ok := a.([]any); ok {
		return false
	}
	if _, ok := a.(map[string]any); ok {
		return false
	}
	return a == b
}

func inRange(v, low, high any) bool {
	if t, ok := v.(time.Time); ok {
		if low != nil {
			l, ok := low.(time.Time)
			if !ok || t.Before(l) {
				return false
			}
		}
		if high != nil {
			h, ok := high.(time.Time)
			if !ok || !t.Before(h) {
				return false
			}
		}
		return true
	}
	f, ok := toFloat(v)
	if !ok {
		return false
	}
	if low != nil {
		l, ok := toFloat(low)
		if !ok || f < l {
			return false
		}
	}
	if high != nil {
		h, ok := toFloat(high)
		if !ok || f >= h {
			return false
		}
	}
	return true
}

func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int32:
		return float64(t), true
	case int64:
		return float64(t), true
	}
	return 0, false
}
