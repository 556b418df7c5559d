// Package diff implements the two-level keyed reconciliation engine:
// given a previous and a next table state, it computes the minimal,
// order-correct sequence of structural edit operations (insert, delete,
// move, update at section and row level) transforming one into the
// other.
//
// # Algorithm
//
// Each level is diffed by key, not by position: key→index maps are built
// once per collection, keys are partitioned into removed, added, and
// common sets, and common keys are classified through the caller's
// comparator registry. There is no pairwise comparison, and the result
// is deterministic: identical inputs always produce identical scripts.
//
// Move detection is rank-based over the common-key subsequence, so
// items displaced only by surrounding inserts or deletes are not
// reported as moves. A replay simulation backs the rank check: an item
// left off its final position by the operations emitted before it gets
// a move even when its rank is unchanged.
//
// # Replay Safety
//
// Scripts are ordered so that replaying them against a live mutable
// structure never references a stale index: deletes run in descending
// old-index order, everything else in ascending new-index order, and
// row operations always follow the structural placement of their
// owning section. See the applier package for a reference replay.
//
// Diffing is pure and side-effect-free; it is safe to run on any
// goroutine. Serialization of render cycles against the committed
// state is the engine package's job.
package diff
