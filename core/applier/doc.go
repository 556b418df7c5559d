// Package applier provides a reference replay of edit scripts against
// a mutable structural model of a table state.
//
// The model mirrors what a view layer does with a script: it walks the
// entries strictly in order and mutates its section and row slices
// accordingly. Every index in every operation is validated against the
// model's current shape, so a script applied out of order, or against
// a state it was not computed from, fails with ErrIndexDrift instead
// of silently corrupting the structure.
//
// Its primary consumers are the round-trip tests of the diff package
// and the CLI's --verify mode.
package applier
