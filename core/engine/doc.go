// Package engine provides the serialization gate around the diff
// computation: an explicit instance owning the single "last committed"
// table state and a FIFO queue of render requests.
//
// # Ordering Guarantees
//
// Exactly one render cycle is in flight at any time. A cycle diffs the
// submitted state against the most recently committed one, commits on
// success, and only then does the next queued request begin. Concurrent
// submissions are queued, never interleaved, so the n-th submitted
// state is always diffed against the (n-1)-th.
//
// # Failure Semantics
//
// A cycle failing on a duplicate key or a missing comparator produces
// no script and commits nothing; the previous committed state stays in
// place and the error is returned to the submitting caller. Failures
// are deterministic, so the engine never retries: the fix is on the
// caller side.
//
// The gate never fails itself; a queued request simply waits. Callers
// that want supersede-style cancellation just submit the newer state;
// it queues behind the in-flight cycle.
package engine
