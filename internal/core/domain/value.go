// Package domain contains the core types for structural memoization:
// the property value model, signatures, stable keys, themes, and cache
// entries. It has no dependencies on adapters or the engine.
package domain

import (
	"go.trai.ch/zerr"
)

// A property graph is built from plain containers and leaves:
//
//   - plain object: map[string]any
//   - array:        []any
//   - primitives:   string, bool, nil, int, int64, float64
//   - special leaves: *Func, Symbol, time.Time, *regexp.Regexp,
//     *big.Int, *OrderedMap, *Set
//
// Containers may reference each other cyclically. Anything outside this
// set is treated as unserializable by the encoder.

// Func is a function-valued property leaf. Functions are identified by
// reference, never by their behavior: two distinct Func values with the
// same body are distinct leaves.
type Func struct {
	// Name is a diagnostic label, typically the source-level function name.
	Name string

	// Call is invoked during theme resolution when function processing is
	// enabled. It receives the active theme and returns a replacement value.
	Call func(theme *Theme) any

	// stubID is non-zero for functions reconstructed from a signature.
	// Such stubs carry identity only and must not be invoked.
	stubID int64
}

// NewFuncStub returns a placeholder for a function that was decoded from a
// signature. The stub preserves the encoded identity and name but cannot
// be called.
func NewFuncStub(id int64, name string) *Func {
	return &Func{Name: name, stubID: id}
}

// IsStub reports whether f was reconstructed from a signature.
func (f *Func) IsStub() bool { return f.stubID != 0 }

// StubID returns the encoded identity of a decoded function stub, or 0.
func (f *Func) StubID() int64 { return f.stubID }

// Invoke calls the underlying function with the given theme. Invoking a
// decoded stub fails loudly instead of silently returning nothing.
func (f *Func) Invoke(theme *Theme) (any, error) {
	if f.Call == nil {
		return nil, zerr.With(zerr.Wrap(ErrStubFunctionInvoked, ""), "name", f.Name)
	}
	return f.Call(theme), nil
}

// Symbol is a symbol-valued property leaf, identified by its description.
type Symbol struct {
	Description string
}

// MapEntry is a single key/value pair of an OrderedMap.
type MapEntry struct {
	Key   any
	Value any
}

// OrderedMap is a map-valued property leaf that preserves insertion order
// and permits non-string keys, unlike a plain object.
type OrderedMap struct {
	entries []MapEntry
}

// NewOrderedMap creates an empty OrderedMap.
func NewOrderedMap() *OrderedMap {
	return &OrderedMap{}
}

// Set inserts or updates the value for key, preserving first-insertion order.
func (m *OrderedMap) Set(key, value any) {
	for i := range m.entries {
		if m.entries[i].Key == key {
			m.entries[i].Value = value
			return
		}
	}
	m.entries = append(m.entries, MapEntry{Key: key, Value: value})
}

// Get returns the value stored under key.
func (m *OrderedMap) Get(key any) (any, bool) {
	for i := range m.entries {
		if m.entries[i].Key == key {
			return m.entries[i].Value, true
		}
	}
	return nil, false
}

// Entries returns the underlying entry slice in insertion order. The slice
// is shared, not copied; callers must not mutate it.
func (m *OrderedMap) Entries() []MapEntry { return m.entries }

// Len returns the number of entries.
func (m *OrderedMap) Len() int { return len(m.entries) }

// WithEntries builds an OrderedMap directly from an entry slice. Used by
// the encoder when reconstructing decoded values.
func WithEntries(entries []MapEntry) *OrderedMap {
	return &OrderedMap{entries: entries}
}

// Set is a set-valued property leaf. Values keep insertion order, matching
// the encoding of sets as ordered value lists.
type Set struct {
	Values []any
}

// NewSet creates a Set from the given values.
func NewSet(values ...any) *Set {
	return &Set{Values: values}
}
