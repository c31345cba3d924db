// Package records filters, aggregates, and classifies in-memory record sets
// and assembles the view models of record-listing pages.
package records

// RecordSet is an ordered, read-only collection of records. Every derived view
// (filtering, slicing) returns a new set; the backing slice is never mutated.
type RecordSet[T any] struct {
	items []T
}

// NewRecordSet copies items into a new set preserving their order.
func NewRecordSet[T any](items []T) RecordSet[T] {
	out := make([]T, len(items))
	copy(out, items)
	return RecordSet[T]{items: out}
}

// Len returns the number of records.
func (s RecordSet[T]) Len() int {
	return len(s.items)
}

// Empty reports whether the set has no records.
func (s RecordSet[T]) Empty() bool {
	return len(s.items) == 0
}

// At returns the record at index i.
func (s RecordSet[T]) At(i int) (T, bool) {
	var zero T
	if i < 0 || i >= len(s.items) {
		return zero, false
	}
	return s.items[i], true
}

// Items returns a copy of the records in insertion order.
func (s RecordSet[T]) Items() []T {
	out := make([]T, len(s.items))
	copy(out, s.items)
	return out
}

// Each visits records in order until fn returns false.
func (s RecordSet[T]) Each(fn func(int, T) bool) {
	for i, item := range s.items {
		if !fn(i, item) {
			return
		}
	}
}

// Filter returns the records for which keep returns true, in original order.
func (s RecordSet[T]) Filter(keep func(T) bool) RecordSet[T] {
	if keep == nil {
		return s
	}
	out := make([]T, 0, len(s.items))
	for _, item := range s.items {
		if keep(item) {
			out = append(out, item)
		}
	}
	return RecordSet[T]{items: out}
}

// Find returns the first record matching fn.
func (s RecordSet[T]) Find(fn func(T) bool) (T, bool) {
	for _, item := range s.items {
		if fn(item) {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// Field names a string-valued attribute of a record. Get reports ok=false when
// the attribute is absent for the record.
type Field[T any] struct {
	Name string
	Get  func(T) (string, bool)
}

// StringField builds a field that is always present.
func StringField[T any](name string, get func(T) string) Field[T] {
	return Field[T]{
		Name: name,
		Get: func(rec T) (string, bool) {
			return get(rec), true
		},
	}
}

// OptionalField builds a field that treats the empty string as absent.
func OptionalField[T any](name string, get func(T) string) Field[T] {
	return Field[T]{
		Name: name,
		Get: func(rec T) (string, bool) {
			value := get(rec)
			return value, value != ""
		},
	}
}

// Value resolves the field for rec. A field without accessor is absent.
func (f Field[T]) Value(rec T) (string, bool) {
	if f.Get == nil {
		return "", false
	}
	return f.Get(rec)
}
