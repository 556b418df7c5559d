package diff

import (
	"fmt"

	"table-reconciler/core/keyed"
	"table-reconciler/core/oracle"

	"golang.org/x/sync/errgroup"
)

// Tables computes the full two-level edit script transforming the old
// table state into the new one.
//
// The section level is diffed first. Every section key present in both
// states then gets a nested row-level diff, regardless of whether its
// section payload changed. Removed and added sections get none: their
// entire row set is implied by the section delete or insert.
//
// Script order: section deletes (descending old index), then a single
// ascending pass over the new section order in which each section's
// own operation (if any) is immediately followed by its nested row
// script (if any). An applier walking the script therefore never
// addresses rows inside a section that has not been structurally
// placed yet.
//
// Both states are validated up front; a duplicate key at either level
// fails the cycle before any operation is produced. Row-level diffs of
// common sections run concurrently (the computation is pure) and are
// assembled in deterministic new-index order.
func Tables(prev, next keyed.TableState, reg *oracle.Registry) (*Script, error) {
	if err := prev.Validate(); err != nil {
		return nil, fmt.Errorf("old state: %w", err)
	}
	if err := next.Validate(); err != nil {
		return nil, fmt.Errorf("new state: %w", err)
	}

	oldSections, err := keyed.NewCollection(prev.SectionItems())
	if err != nil {
		return nil, fmt.Errorf("old state: %w", err)
	}
	newSections, err := keyed.NewCollection(next.SectionItems())
	if err != nil {
		return nil, fmt.Errorf("new state: %w", err)
	}

	sectionOps, err := Collections(oldSections, newSections, reg)
	if err != nil {
		return nil, fmt.Errorf("section level: %w", err)
	}

	// Row-level diffs for common sections, indexed by new section
	// position so assembly order is independent of completion order.
	rowOps := make([][]Op, len(next.Sections))
	var g errgroup.Group
	for j := range next.Sections {
		sec := next.Sections[j]
		oldIdx, common := oldSections.IndexOf(sec.Key)
		if !common {
			continue
		}
		oldSec := prev.Sections[oldIdx]
		g.Go(func() error {
			ops, err := diffRows(oldSec, sec, reg)
			if err != nil {
				return err
			}
			rowOps[j] = ops
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	script := &Script{Entries: make([]Entry, 0)}

	// Section deletes come first; Collections already emits them in
	// descending old-index order at the head of the op slice.
	byKey := make(map[keyed.Key]Op, len(sectionOps))
	for _, op := range sectionOps {
		if op.Type == OpDelete {
			script.appendSection(op)
			continue
		}
		byKey[op.Key] = op
	}

	for j, sec := range next.Sections {
		if op, ok := byKey[sec.Key]; ok {
			script.appendSection(op)
		}
		for _, op := range rowOps[j] {
			script.appendRow(sec.Key, op)
		}
	}

	return script, nil
}

// diffRows diffs the row collections of one section common to both
// states.
func diffRows(oldSec, newSec keyed.Section, reg *oracle.Registry) ([]Op, error) {
	oldRows, err := keyed.NewCollection(oldSec.Rows)
	if err != nil {
		return nil, fmt.Errorf("section %q: %w", oldSec.Key, err)
	}
	newRows, err := keyed.NewCollection(newSec.Rows)
	if err != nil {
		return nil, fmt.Errorf("section %q: %w", newSec.Key, err)
	}

	ops, err := Collections(oldRows, newRows, reg)
	if err != nil {
		return nil, fmt.Errorf("section %q: %w", newSec.Key, err)
	}
	return ops, nil
}
