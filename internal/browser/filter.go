// Package browser implements the table-browsing engine shared by every
// back-office screen: search and filter evaluation, paging, page-window
// layout, action-menu placement and the page-state controller that owns them.
package browser

import "strings"

// SearchPredicate reports whether a record matches a free-text query.
// It must be pure and deterministic.
type SearchPredicate[T any] func(record T, query string) bool

// MatchFunc reports whether a record matches the current value of a filter.
type MatchFunc[T any] func(record T, value string) bool

// Filter is a named filter with its current value. An empty value means the
// filter is inactive and every record passes it.
type Filter[T any] struct {
	Name    string
	Label   string
	Value   string
	Options []string
	Match   MatchFunc[T]
}

// Active reports whether the filter participates in evaluation.
func (f Filter[T]) Active() bool {
	return f.Value != "" && f.Match != nil
}

// FilterSet is an ordered collection of filters addressed by name.
type FilterSet[T any] struct {
	filters []Filter[T]
}

// NewFilterSet returns a FilterSet holding copies of the given filters.
func NewFilterSet[T any](filters ...Filter[T]) FilterSet[T] {
	return FilterSet[T]{filters: append([]Filter[T](nil), filters...)}
}

// Set updates the value of the named filter. It reports false when no filter
// with that name exists.
func (fs *FilterSet[T]) Set(name, value string) bool {
	for i := range fs.filters {
		if fs.filters[i].Name == name {
			fs.filters[i].Value = value
			return true
		}
	}
	return false
}

// Value returns the current value of the named filter.
func (fs FilterSet[T]) Value(name string) string {
	for _, f := range fs.filters {
		if f.Name == name {
			return f.Value
		}
	}
	return ""
}

// Filters returns a copy of the filters in declaration order.
func (fs FilterSet[T]) Filters() []Filter[T] {
	return append([]Filter[T](nil), fs.filters...)
}

// Reset clears every filter value.
func (fs *FilterSet[T]) Reset() {
	for i := range fs.filters {
		fs.filters[i].Value = ""
	}
}

// Match reports whether the record passes every active filter.
func (fs FilterSet[T]) Match(record T) bool {
	for _, f := range fs.filters {
		if f.Active() && !f.Match(record, f.Value) {
			return false
		}
	}
	return true
}

// Apply returns the records passing the search predicate and every active
// filter, preserving input order. An empty query matches everything, as does
// a nil predicate.
func Apply[T any](records []T, query string, search SearchPredicate[T], filters FilterSet[T]) []T {
	out := make([]T, 0, len(records))
	for _, r := range records {
		if query != "" && search != nil && !search(r, query) {
			continue
		}
		if !filters.Match(r) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// FieldSearch builds the default search predicate: a case-insensitive
// substring match against any of the fields returned for a record.
func FieldSearch[T any](fields func(T) []string) SearchPredicate[T] {
	return func(record T, query string) bool {
		q := strings.ToLower(strings.TrimSpace(query))
		if q == "" {
			return true
		}
		for _, f := range fields(record) {
			if strings.Contains(strings.ToLower(f), q) {
				return true
			}
		}
		return false
	}
}

// Equals builds a MatchFunc comparing one field case-insensitively.
func Equals[T any](field func(T) string) MatchFunc[T] {
	return func(record T, value string) bool {
		return strings.EqualFold(field(record), value)
	}
}
