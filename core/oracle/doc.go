// Package oracle provides the equality oracle of the diff engine: a
// registry mapping concrete payload types to caller-supplied content
// comparators.
//
// The engine never inspects payloads itself. For every key present in
// both the old and new state it asks the registry whether the two
// payloads are content-equal, and classifies the item as an update when
// they are not. Comparison is selected statically by concrete type at
// registration time. There is no duck-typed dispatch inside the engine.
//
// An unregistered payload type is a caller error and aborts the render
// cycle with a NoComparatorError; see the error handling contract in
// the engine package.
package oracle
