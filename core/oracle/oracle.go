package oracle

import (
	"reflect"
	"sync"

	"table-reconciler/core/keyed"
)

// Comparator answers "same identity, did content change?" for one
// concrete payload type. It must be pure and deterministic.
type Comparator func(a, b keyed.Payload) bool

// Registry holds one comparator per concrete payload type. Callers
// register comparators at setup time; the diff engine consults the
// registry for every common key it classifies.
type Registry struct {
	mu          sync.RWMutex
	comparators map[reflect.Type]Comparator
}

// NewRegistry creates an empty comparator registry.
func NewRegistry() *Registry {
	return &Registry{
		comparators: make(map[reflect.Type]Comparator),
	}
}

// NewJSONRegistry creates a registry pre-loaded with deep-equality
// comparators for the types produced by encoding/json decoding
// (objects, arrays, strings, numbers, booleans). Used by the CLI and
// HTTP surfaces, where payloads arrive as arbitrary JSON values.
func NewJSONRegistry() *Registry {
	r := NewRegistry()
	r.RegisterDeepEqual(
		map[string]any{},
		[]any{},
		"",
		float64(0),
		false,
	)
	return r
}

// Register installs a comparator for the concrete type of sample.
// Registering again for the same type replaces the previous comparator.
func (r *Registry) Register(sample keyed.Payload, cmp Comparator) {
	t := reflect.TypeOf(sample)
	r.mu.Lock()
	r.comparators[t] = cmp
	r.mu.Unlock()
}

// RegisterDeepEqual installs reflect.DeepEqual as the comparator for
// the concrete type of each sample.
func (r *Registry) RegisterDeepEqual(samples ...keyed.Payload) {
	for _, sample := range samples {
		r.Register(sample, func(a, b keyed.Payload) bool {
			return reflect.DeepEqual(a, b)
		})
	}
}

// RegisterFunc installs a typed comparator for payload type T, sparing
// callers the type assertions of a raw Comparator.
func RegisterFunc[T any](r *Registry, cmp func(a, b T) bool) {
	var zero T
	r.Register(zero, func(a, b keyed.Payload) bool {
		av, aok := a.(T)
		bv, bok := b.(T)
		if !aok || !bok {
			return false
		}
		return cmp(av, bv)
	})
}

// Equal compares two payloads sharing a key across the old and new
// states.
//
// Nil payloads are equal to each other and unequal to anything else.
// Payloads of different concrete types compare unequal (classified as
// an update downstream); callers are expected to keep the payload type
// per key stable and mint a new key when an item changes identity.
// A missing comparator for the shared type is a configuration error:
// Equal returns a NoComparatorError and the render cycle aborts.
func (r *Registry) Equal(a, b keyed.Payload) (bool, error) {
	if a == nil && b == nil {
		return true, nil
	}
	if a == nil || b == nil {
		return false, nil
	}

	at, bt := reflect.TypeOf(a), reflect.TypeOf(b)
	if at != bt {
		return false, nil
	}

	r.mu.RLock()
	cmp, ok := r.comparators[at]
	r.mu.RUnlock()
	if !ok {
		return false, &NoComparatorError{Type: at}
	}

	return cmp(a, b), nil
}
