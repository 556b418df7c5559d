// Package keyed defines the data model of the reconciliation engine:
// identity keys, opaque payloads, ordered keyed collections, and the
// two-level table state (sections containing rows).
//
// # Identity vs Content
//
// A Key identifies an item across states; a Payload is its content.
// The diff engine matches items by key and delegates content comparison
// to the oracle registry. A "changed" item is always a new Item value
// with the same key; committed states are never mutated in place.
//
// # Uniqueness Invariant
//
// No two items in the same collection may share a key. Violations are
// programming errors, surfaced as DuplicateKeyError at construction
// (NewCollection) or validation (TableState.Validate) time, before any
// diff work happens. They are never silently deduplicated.
package keyed
