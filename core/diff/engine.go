package diff

import (
	"table-reconciler/core/keyed"
	"table-reconciler/core/oracle"
)

// Collections computes the edit operations transforming the old
// collection into the new one at a single level.
//
// The returned operations are ordered for safe replay against a live
// mutable structure: deletes first, in descending old-index order (so
// earlier deletions never invalidate later delete indices), followed by
// inserts, moves, and updates interleaved in ascending new-index order
// (so no operation ever references an index beyond current bounds).
//
// Classification of a key present in both collections:
//   - payload unequal per the registry: update at the new index, carrying
//     the old index as well (a moved-and-changed item is one update);
//   - payload equal: a move when its rank among the surviving keys
//     changed, or when the preceding operations leave it off its final
//     position at replay time; otherwise omitted entirely.
//
// Rank comparison over the subsequence of common keys keeps items out of
// the script when their absolute index shifted only because of inserts
// or deletes around them: two collections differing by exactly one added
// item produce exactly one insert. Rank stability alone is not enough,
// though. An earlier move can cross a rank-stable item and displace it,
// so the pass simulates the replay of its own output and emits a move
// for any item not sitting at its final position when its turn comes.
//
// Linear in the input sizes plus the cost of simulating relocations.
// Fully deterministic: the emission order derives from the input orders
// alone, never from map iteration.
func Collections(oldC, newC *keyed.Collection, reg *oracle.Registry) ([]Op, error) {
	ops := make([]Op, 0)

	// Deletes, descending old index.
	for i := oldC.Len() - 1; i >= 0; i-- {
		item := oldC.At(i)
		if !newC.Contains(item.Key) {
			ops = append(ops, Op{Type: OpDelete, Key: item.Key, OldIndex: i, NewIndex: -1})
		}
	}

	// Rank of each common key within the common-key subsequence of the
	// old ordering. The surviving keys double as the replay simulation's
	// starting sequence: the state an applier holds after the deletes.
	oldRank := make(map[keyed.Key]int, oldC.Len())
	working := make([]keyed.Key, 0, newC.Len())
	for i := 0; i < oldC.Len(); i++ {
		key := oldC.At(i).Key
		if newC.Contains(key) {
			oldRank[key] = len(working)
			working = append(working, key)
		}
	}

	// Inserts, moves, and updates, ascending new index. Rank within the
	// new ordering is counted on the fly; working tracks where every
	// surviving key actually sits as the emitted operations replay.
	// Invariant: after step j, working[0..j] match the new ordering.
	newRank := 0
	for j := 0; j < newC.Len(); j++ {
		item := newC.At(j)
		i, common := oldC.IndexOf(item.Key)
		if !common {
			ops = append(ops, Op{Type: OpInsert, Key: item.Key, OldIndex: -1, NewIndex: j})
			working = placeKey(working, item.Key, j)
			continue
		}

		equal, err := reg.Equal(oldC.At(i).Payload, item.Payload)
		if err != nil {
			return nil, err
		}

		switch {
		case !equal:
			ops = append(ops, Op{Type: OpUpdate, Key: item.Key, OldIndex: i, NewIndex: j})
			working = placeKey(working, item.Key, j)
		case oldRank[item.Key] != newRank || working[j] != item.Key:
			ops = append(ops, Op{Type: OpMove, Key: item.Key, OldIndex: i, NewIndex: j})
			working = placeKey(working, item.Key, j)
		}
		newRank++
	}

	return ops, nil
}

// placeKey relocates key to position at, removing it first if present.
// It mirrors how an applier executes an insert, move, or update.
func placeKey(working []keyed.Key, key keyed.Key, at int) []keyed.Key {
	for i, k := range working {
		if k == key {
			working = append(working[:i], working[i+1:]...)
			break
		}
	}
	working = append(working, "")
	copy(working[at+1:], working[at:])
	working[at] = key
	return working
}
