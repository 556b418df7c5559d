package diff

import "table-reconciler/core/keyed"

// Level distinguishes section-scope operations from row-scope
// operations inside a section.
type Level string

const (
	// LevelSection marks an operation on the table's section sequence.
	LevelSection Level = "section"
	// LevelRow marks an operation on the row sequence of one section.
	LevelRow Level = "row"
)

// OpType is the kind of structural edit an operation performs.
type OpType string

const (
	// OpInsert places a new item at NewIndex.
	OpInsert OpType = "insert"
	// OpDelete removes the item at OldIndex.
	OpDelete OpType = "delete"
	// OpMove relocates an item from OldIndex to NewIndex with content
	// unchanged.
	OpMove OpType = "move"
	// OpUpdate replaces an item's content at NewIndex. When OldIndex
	// differs from NewIndex the item moved and changed in the same
	// cycle; the single update carries the final position.
	OpUpdate OpType = "update"
)

// Op is one structural edit operation at a single level.
//
// Index semantics follow the replay contract: deletes reference old
// indices, inserts reference new indices, moves and updates carry both.
// An index that does not apply to the operation type is -1.
type Op struct {
	// Type is the kind of edit.
	Type OpType `json:"type"`

	// Key identifies the affected item.
	Key keyed.Key `json:"key"`

	// OldIndex is the item's position in the old state, or -1.
	OldIndex int `json:"old_index"`

	// NewIndex is the item's position in the new state, or -1.
	NewIndex int `json:"new_index"`
}

// Entry is one ordered element of an edit script: a section-level
// operation, or a row-level operation scoped to its owning section.
type Entry struct {
	// Level is the scope of the operation.
	Level Level `json:"level"`

	// Section is the owning section key for row-level entries; empty
	// for section-level entries.
	Section keyed.Key `json:"section,omitempty"`

	// Op is the operation itself.
	Op Op `json:"op"`
}

// Script is the ordered edit script produced by one diff cycle. Replayed
// in order against a mutable structure mirroring the old state, it
// yields the new state without index drift.
type Script struct {
	// Entries is the ordered operation sequence.
	Entries []Entry `json:"entries"`

	// Summary aggregates operation counts per level.
	Summary Summary `json:"summary"`
}

// Summary provides aggregate operation counts for a script.
type Summary struct {
	// SectionInserts counts section-level insert operations.
	SectionInserts int `json:"section_inserts"`
	// SectionDeletes counts section-level delete operations.
	SectionDeletes int `json:"section_deletes"`
	// SectionMoves counts section-level move operations.
	SectionMoves int `json:"section_moves"`
	// SectionUpdates counts section-level update operations.
	SectionUpdates int `json:"section_updates"`
	// RowInserts counts row-level insert operations.
	RowInserts int `json:"row_inserts"`
	// RowDeletes counts row-level delete operations.
	RowDeletes int `json:"row_deletes"`
	// RowMoves counts row-level move operations.
	RowMoves int `json:"row_moves"`
	// RowUpdates counts row-level update operations.
	RowUpdates int `json:"row_updates"`
}

// Total returns the total number of operations across both levels.
func (s Summary) Total() int {
	return s.SectionInserts + s.SectionDeletes + s.SectionMoves + s.SectionUpdates +
		s.RowInserts + s.RowDeletes + s.RowMoves + s.RowUpdates
}

// Empty reports whether the script contains no operations.
func (s *Script) Empty() bool {
	return len(s.Entries) == 0
}

// Apply walks the script in order, dispatching each entry to the
// matching callback. Appliers must not reorder operations; the entry
// order is exactly the order a mutable structure must replay them in.
// A non-nil callback error stops the walk and is returned as-is.
func (s *Script) Apply(onSection func(op Op) error, onRow func(section keyed.Key, op Op) error) error {
	for _, e := range s.Entries {
		switch e.Level {
		case LevelSection:
			if err := onSection(e.Op); err != nil {
				return err
			}
		case LevelRow:
			if err := onRow(e.Section, e.Op); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Script) count(level Level, t OpType) {
	switch {
	case level == LevelSection && t == OpInsert:
		s.Summary.SectionInserts++
	case level == LevelSection && t == OpDelete:
		s.Summary.SectionDeletes++
	case level == LevelSection && t == OpMove:
		s.Summary.SectionMoves++
	case level == LevelSection && t == OpUpdate:
		s.Summary.SectionUpdates++
	case level == LevelRow && t == OpInsert:
		s.Summary.RowInserts++
	case level == LevelRow && t == OpDelete:
		s.Summary.RowDeletes++
	case level == LevelRow && t == OpMove:
		s.Summary.RowMoves++
	case level == LevelRow && t == OpUpdate:
		s.Summary.RowUpdates++
	}
}

func (s *Script) appendSection(op Op) {
	s.Entries = append(s.Entries, Entry{Level: LevelSection, Op: op})
	s.count(LevelSection, op.Type)
}

func (s *Script) appendRow(section keyed.Key, op Op) {
	s.Entries = append(s.Entries, Entry{Level: LevelRow, Section: section, Op: op})
	s.count(LevelRow, op.Type)
}
