package keyed

import "fmt"

// Key is the stable identity of an item, distinct from its content.
// Two states refer to "the same" row or section by using the same key.
type Key string

// Payload is the opaque content of an item. The engine never inspects
// payloads directly; it only passes them to a registered comparator.
type Payload any

// Item pairs an identity key with an opaque payload.
// Items are value types: a content change is expressed as a new Item
// with the same key, never as a mutation of a previous one.
type Item struct {
	// Key is the unique identifier of the item within its collection.
	Key Key `json:"key"`

	// Payload is the item content, compared via the oracle registry.
	Payload Payload `json:"payload,omitempty"`
}

// Collection is an ordered sequence of items with unique keys.
// It provides O(1) key lookup through an index map built once at
// construction time. Collections are immutable after construction.
type Collection struct {
	items []Item
	index map[Key]int
}

// NewCollection builds a collection from an ordered item sequence.
// It returns a DuplicateKeyError if two items share a key; non-unique
// keys are a programming error on the caller side, never silently
// deduplicated.
func NewCollection(items []Item) (*Collection, error) {
	index := make(map[Key]int, len(items))
	for i, item := range items {
		if _, exists := index[item.Key]; exists {
			return nil, &DuplicateKeyError{Key: item.Key}
		}
		index[item.Key] = i
	}

	owned := make([]Item, len(items))
	copy(owned, items)

	return &Collection{items: owned, index: index}, nil
}

// Len returns the number of items in the collection.
func (c *Collection) Len() int {
	return len(c.items)
}

// At returns the item at position i. The position must be in range.
func (c *Collection) At(i int) Item {
	return c.items[i]
}

// IndexOf returns the position of the item with the given key,
// or false if the key is not present.
func (c *Collection) IndexOf(key Key) (int, bool) {
	i, ok := c.index[key]
	return i, ok
}

// Contains reports whether the key is present in the collection.
func (c *Collection) Contains(key Key) bool {
	_, ok := c.index[key]
	return ok
}

// Items returns a copy of the ordered item sequence.
func (c *Collection) Items() []Item {
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

// Section is a keyed group of rows plus an optional section-level
// payload (header/footer content), subject to the same equality rules
// as a row item.
type Section struct {
	// Key is the unique identifier of the section within the table.
	Key Key `json:"key"`

	// Payload is the section-level content (e.g. header data).
	Payload Payload `json:"payload,omitempty"`

	// Rows is the ordered row sequence; insertion order defines
	// on-screen order.
	Rows []Item `json:"rows"`
}

// TableState is the top-level unit a caller submits per render cycle:
// an ordered sequence of sections. Two table states (previous committed,
// next requested) are the sole input of a diff cycle.
type TableState struct {
	// Sections is the ordered section sequence.
	Sections []Section `json:"sections"`
}

// Validate checks the key uniqueness invariant at both levels:
// section keys across the table, and row keys within each section.
// It returns a DuplicateKeyError describing the first violation found.
func (s TableState) Validate() error {
	seen := make(map[Key]struct{}, len(s.Sections))
	for _, sec := range s.Sections {
		if _, exists := seen[sec.Key]; exists {
			return &DuplicateKeyError{Key: sec.Key, Scope: "sections"}
		}
		seen[sec.Key] = struct{}{}

		rowSeen := make(map[Key]struct{}, len(sec.Rows))
		for _, row := range sec.Rows {
			if _, exists := rowSeen[row.Key]; exists {
				return &DuplicateKeyError{
					Key:   row.Key,
					Scope: fmt.Sprintf("rows of section %q", sec.Key),
				}
			}
			rowSeen[row.Key] = struct{}{}
		}
	}
	return nil
}

// SectionItems returns the sections as keyed items (key + section
// payload), the shape the section-level diff operates on.
func (s TableState) SectionItems() []Item {
	items := make([]Item, len(s.Sections))
	for i, sec := range s.Sections {
		items[i] = Item{Key: sec.Key, Payload: sec.Payload}
	}
	return items
}

// SectionByKey returns the section with the given key, or false if the
// table has no such section.
func (s TableState) SectionByKey(key Key) (Section, bool) {
	for _, sec := range s.Sections {
		if sec.Key == key {
			return sec, true
		}
	}
	return Section{}, false
}
