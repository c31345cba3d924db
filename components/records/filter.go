package records

import "strings"

// AllCategories is the category sentinel that matches every record.
const AllCategories = "all"

// FilterState is the page-scoped selection driving a listing: a free-text
// search term and a single category selection.
type FilterState struct {
	Search   string `json:"search" yaml:"search"`
	Category string `json:"category" yaml:"category"`
}

// DefaultFilterState returns the state of a freshly loaded page.
func DefaultFilterState() FilterState {
	return FilterState{Category: AllCategories}
}

// Normalized fills an empty category with the sentinel.
func (s FilterState) Normalized() FilterState {
	if strings.TrimSpace(s.Category) == "" {
		s.Category = AllCategories
	}
	return s
}

// Active reports whether the state excludes anything at all.
func (s FilterState) Active() bool {
	return s.Search != "" || s.categoryActive()
}

func (s FilterState) categoryActive() bool {
	category := strings.TrimSpace(s.Category)
	return category != "" && !strings.EqualFold(category, AllCategories)
}

// Predicate combines a search over several string fields with an equality
// check on one categorical field.
type Predicate[T any] struct {
	category Field[T]
	search   []Field[T]
}

// NewPredicate builds a predicate over the category field and the searchable fields.
func NewPredicate[T any](category Field[T], search ...Field[T]) Predicate[T] {
	return Predicate[T]{
		category: category,
		search:   append([]Field[T](nil), search...),
	}
}

// Matches reports whether rec satisfies both the search term and the category
// selection of state.
func (p Predicate[T]) Matches(rec T, state FilterState) bool {
	return p.MatchesSearch(rec, state.Search) && p.MatchesCategory(rec, state.Category)
}

// MatchesSearch performs a case-insensitive substring match of term against
// the searchable fields. The empty term matches everything.
func (p Predicate[T]) MatchesSearch(rec T, term string) bool {
	if term == "" {
		return true
	}
	needle := strings.ToLower(term)
	for _, field := range p.search {
		value, ok := field.Value(rec)
		if !ok {
			continue
		}
		if strings.Contains(strings.ToLower(value), needle) {
			return true
		}
	}
	return false
}

// MatchesCategory compares the category field with category ignoring case.
// The sentinel "all" and the empty selection match everything.
func (p Predicate[T]) MatchesCategory(rec T, category string) bool {
	state := FilterState{Category: category}
	if !state.categoryActive() {
		return true
	}
	value, ok := p.category.Value(rec)
	if !ok {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(value), strings.TrimSpace(category))
}

// Apply returns the subset of set matching state.
func (p Predicate[T]) Apply(set RecordSet[T], state FilterState) RecordSet[T] {
	if !state.Active() {
		return set
	}
	return set.Filter(func(rec T) bool {
		return p.Matches(rec, state)
	})
}

// CategoryField returns the name of the categorical field.
func (p Predicate[T]) CategoryField() Field[T] {
	return p.category
}

// SearchFields returns the names of the searchable fields.
func (p Predicate[T]) SearchFields() []string {
	names := make([]string, 0, len(p.search))
	for _, f := range p.search {
		names = append(names, f.Name)
	}
	return names
}
