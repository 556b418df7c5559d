package applier

import (
	"errors"
	"fmt"

	"table-reconciler/core/diff"
	"table-reconciler/core/keyed"
)

// ErrIndexDrift is returned when an operation references an index or
// key inconsistent with the model's current shape. A drifting replay
// indicates a script applied out of order or against the wrong state.
var ErrIndexDrift = errors.New("applier: operation inconsistent with model state")

// Model is a mutable structural mirror of a table state. It replays
// edit scripts the way a view layer would, operation by operation in
// script order, and checks every index against its current shape.
//
// Insert and update operations take their payloads (and, for sections,
// their row sets) from the next state the script was computed against,
// exactly as a view layer reads cell content from the state it is
// rendering.
type Model struct {
	sections []keyed.Section
}

// NewModel creates a model mirroring the given state.
func NewModel(state keyed.TableState) *Model {
	sections := make([]keyed.Section, len(state.Sections))
	for i, sec := range state.Sections {
		rows := make([]keyed.Item, len(sec.Rows))
		copy(rows, sec.Rows)
		sections[i] = keyed.Section{Key: sec.Key, Payload: sec.Payload, Rows: rows}
	}
	return &Model{sections: sections}
}

// State returns the model's current structure as a table state. Empty
// sequences come back as nil, so a reconstructed state compares equal
// to one built with absent fields.
func (m *Model) State() keyed.TableState {
	if len(m.sections) == 0 {
		return keyed.TableState{}
	}
	out := make([]keyed.Section, len(m.sections))
	for i, sec := range m.sections {
		var rows []keyed.Item
		if len(sec.Rows) > 0 {
			rows = make([]keyed.Item, len(sec.Rows))
			copy(rows, sec.Rows)
		}
		out[i] = keyed.Section{Key: sec.Key, Payload: sec.Payload, Rows: rows}
	}
	return keyed.TableState{Sections: out}
}

// Apply replays the script against the model in order. next must be
// the state the script was diffed towards; it supplies the content of
// inserted and updated sections and rows.
func (m *Model) Apply(script *diff.Script, next keyed.TableState) error {
	return script.Apply(
		func(op diff.Op) error { return m.applySection(op, next) },
		func(section keyed.Key, op diff.Op) error { return m.applyRow(section, op, next) },
	)
}

func (m *Model) applySection(op diff.Op, next keyed.TableState) error {
	switch op.Type {
	case diff.OpDelete:
		if op.OldIndex < 0 || op.OldIndex >= len(m.sections) {
			return fmt.Errorf("%w: delete section %q at %d, have %d sections",
				ErrIndexDrift, op.Key, op.OldIndex, len(m.sections))
		}
		if m.sections[op.OldIndex].Key != op.Key {
			return fmt.Errorf("%w: delete section %q at %d, found %q",
				ErrIndexDrift, op.Key, op.OldIndex, m.sections[op.OldIndex].Key)
		}
		m.sections = append(m.sections[:op.OldIndex], m.sections[op.OldIndex+1:]...)

	case diff.OpInsert:
		if op.NewIndex < 0 || op.NewIndex > len(m.sections) {
			return fmt.Errorf("%w: insert section %q at %d, have %d sections",
				ErrIndexDrift, op.Key, op.NewIndex, len(m.sections))
		}
		sec, ok := next.SectionByKey(op.Key)
		if !ok {
			return fmt.Errorf("%w: inserted section %q not in next state", ErrIndexDrift, op.Key)
		}
		rows := make([]keyed.Item, len(sec.Rows))
		copy(rows, sec.Rows)
		m.insertSection(op.NewIndex, keyed.Section{Key: sec.Key, Payload: sec.Payload, Rows: rows})

	case diff.OpMove:
		cur, ok := m.sectionIndex(op.Key)
		if !ok {
			return fmt.Errorf("%w: move of unknown section %q", ErrIndexDrift, op.Key)
		}
		sec := m.sections[cur]
		m.sections = append(m.sections[:cur], m.sections[cur+1:]...)
		m.insertSection(op.NewIndex, sec)

	case diff.OpUpdate:
		cur, ok := m.sectionIndex(op.Key)
		if !ok {
			return fmt.Errorf("%w: update of unknown section %q", ErrIndexDrift, op.Key)
		}
		nextSec, ok := next.SectionByKey(op.Key)
		if !ok {
			return fmt.Errorf("%w: updated section %q not in next state", ErrIndexDrift, op.Key)
		}
		sec := m.sections[cur]
		sec.Payload = nextSec.Payload
		m.sections = append(m.sections[:cur], m.sections[cur+1:]...)
		m.insertSection(op.NewIndex, sec)
	}
	return nil
}

func (m *Model) applyRow(section keyed.Key, op diff.Op, next keyed.TableState) error {
	cur, ok := m.sectionIndex(section)
	if !ok {
		return fmt.Errorf("%w: row op in unknown section %q", ErrIndexDrift, section)
	}
	rows := m.sections[cur].Rows

	switch op.Type {
	case diff.OpDelete:
		if op.OldIndex < 0 || op.OldIndex >= len(rows) {
			return fmt.Errorf("%w: delete row %q at %d in section %q, have %d rows",
				ErrIndexDrift, op.Key, op.OldIndex, section, len(rows))
		}
		if rows[op.OldIndex].Key != op.Key {
			return fmt.Errorf("%w: delete row %q at %d in section %q, found %q",
				ErrIndexDrift, op.Key, op.OldIndex, section, rows[op.OldIndex].Key)
		}
		rows = append(rows[:op.OldIndex], rows[op.OldIndex+1:]...)

	case diff.OpInsert:
		if op.NewIndex < 0 || op.NewIndex > len(rows) {
			return fmt.Errorf("%w: insert row %q at %d in section %q, have %d rows",
				ErrIndexDrift, op.Key, op.NewIndex, section, len(rows))
		}
		item, err := nextRow(next, section, op.Key)
		if err != nil {
			return err
		}
		rows = insertRow(rows, op.NewIndex, item)

	case diff.OpMove:
		i, ok := rowIndex(rows, op.Key)
		if !ok {
			return fmt.Errorf("%w: move of unknown row %q in section %q", ErrIndexDrift, op.Key, section)
		}
		item := rows[i]
		rows = append(rows[:i], rows[i+1:]...)
		rows = insertRow(rows, op.NewIndex, item)

	case diff.OpUpdate:
		i, ok := rowIndex(rows, op.Key)
		if !ok {
			return fmt.Errorf("%w: update of unknown row %q in section %q", ErrIndexDrift, op.Key, section)
		}
		item, err := nextRow(next, section, op.Key)
		if err != nil {
			return err
		}
		rows = append(rows[:i], rows[i+1:]...)
		rows = insertRow(rows, op.NewIndex, item)
	}

	m.sections[cur].Rows = rows
	return nil
}

func (m *Model) sectionIndex(key keyed.Key) (int, bool) {
	for i, sec := range m.sections {
		if sec.Key == key {
			return i, true
		}
	}
	return 0, false
}

func (m *Model) insertSection(at int, sec keyed.Section) {
	m.sections = append(m.sections, keyed.Section{})
	copy(m.sections[at+1:], m.sections[at:])
	m.sections[at] = sec
}

func insertRow(rows []keyed.Item, at int, item keyed.Item) []keyed.Item {
	rows = append(rows, keyed.Item{})
	copy(rows[at+1:], rows[at:])
	rows[at] = item
	return rows
}

func rowIndex(rows []keyed.Item, key keyed.Key) (int, bool) {
	for i, row := range rows {
		if row.Key == key {
			return i, true
		}
	}
	return 0, false
}

func nextRow(next keyed.TableState, section, key keyed.Key) (keyed.Item, error) {
	sec, ok := next.SectionByKey(section)
	if !ok {
		return keyed.Item{}, fmt.Errorf("%w: section %q not in next state", ErrIndexDrift, section)
	}
	for _, row := range sec.Rows {
		if row.Key == key {
			return row, nil
		}
	}
	return keyed.Item{}, fmt.Errorf("%w: row %q not in next state of section %q", ErrIndexDrift, key, section)
}
