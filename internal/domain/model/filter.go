package model

// Filter maps field names to the value each matching record must hold.
// An empty Filter matches everything.
type Filter map[string]string

// fieldTable maps filterable field names to accessors.
type fieldTable[T any] map[string]func(*T) string

// match reports whether item satisfies every entry of f.
// Field names missing from the table never match.
func (t fieldTable[T]) match(item *T, f Filter) bool {
	for key, want := range f {
		get, ok := t[key]
		if !ok || get(item) != want {
			return false
		}
	}
	return true
}

// filter returns the items matching f, preserving order.
func filter[T any](items []*T, table fieldTable[T], f Filter) []*T {
	if len(f) == 0 {
		out := make([]*T, len(items))
		copy(out, items)
		return out
	}
	var out []*T
	for _, item := range items {
		if table.match(item, f) {
			out = append(out, item)
		}
	}
	return out
}
