package query

import "strings"

// Order sorts by a single column. Column must come from an allow-list.
type Order struct {
	Column string
	Desc   bool
}

// DefaultOrder is applied when a listing has no explicit order.
var DefaultOrder = Order{Column: "created_at", Desc: true}

// SortKeys maps request-facing sort names to columns.
type SortKeys map[string]string

// Resolve picks the column for key. Unknown or empty keys fall back to the
// default order, which is always descending.
func (k SortKeys) Resolve(key string, desc bool) Order {
	col, ok := k[strings.ToLower(strings.TrimSpace(key))]
	if !ok {
		return DefaultOrder
	}
	return Order{Column: col, Desc: desc}
}
