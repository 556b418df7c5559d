package keyed

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNewCollection_Lookup tests that key lookup and ordered access agree.
func TestNewCollection_Lookup(t *testing.T) {
	c, err := NewCollection([]Item{
		{Key: "a", Payload: 1},
		{Key: "b", Payload: 2},
		{Key: "c", Payload: 3},
	})
	require.NoError(t, err)

	assert.Equal(t, 3, c.Len())

	i, ok := c.IndexOf("b")
	assert.True(t, ok)
	assert.Equal(t, 1, i)
	assert.Equal(t, Item{Key: "b", Payload: 2}, c.At(1))

	_, ok = c.IndexOf("missing")
	assert.False(t, ok)
	assert.False(t, c.Contains("missing"))
	assert.True(t, c.Contains("c"))
}

// TestNewCollection_DuplicateKey tests that construction fails loudly on
// duplicate keys and never deduplicates.
func TestNewCollection_DuplicateKey(t *testing.T) {
	c, err := NewCollection([]Item{
		{Key: "a"},
		{Key: "b"},
		{Key: "a"},
	})
	assert.Nil(t, c)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateKey)

	var dup *DuplicateKeyError
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, Key("a"), dup.Key)
}

// TestNewCollection_Immutable tests that mutating the input slice or the
// Items copy does not affect the collection.
func TestNewCollection_Immutable(t *testing.T) {
	input := []Item{{Key: "a", Payload: 1}}
	c, err := NewCollection(input)
	require.NoError(t, err)

	input[0] = Item{Key: "z", Payload: 99}
	assert.Equal(t, Key("a"), c.At(0).Key)

	items := c.Items()
	items[0] = Item{Key: "y"}
	assert.Equal(t, Key("a"), c.At(0).Key)
}

// TestTableState_Validate tests both levels of the uniqueness invariant.
func TestTableState_Validate(t *testing.T) {
	tests := []struct {
		name    string
		state   TableState
		wantErr bool
		wantKey Key
	}{
		{
			name: "valid two-level state",
			state: TableState{Sections: []Section{
				{Key: "s1", Rows: []Item{{Key: "r1"}, {Key: "r2"}}},
				{Key: "s2", Rows: []Item{{Key: "r1"}}}, // same row key in another section is fine
			}},
		},
		{
			name: "duplicate section key",
			state: TableState{Sections: []Section{
				{Key: "s1"},
				{Key: "s1"},
			}},
			wantErr: true,
			wantKey: "s1",
		},
		{
			name: "duplicate row key within a section",
			state: TableState{Sections: []Section{
				{Key: "s1", Rows: []Item{{Key: "r1"}, {Key: "r1"}}},
			}},
			wantErr: true,
			wantKey: "r1",
		},
		{
			name:  "empty state",
			state: TableState{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.state.Validate()
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrDuplicateKey)

			var dup *DuplicateKeyError
			require.True(t, errors.As(err, &dup))
			assert.Equal(t, tt.wantKey, dup.Key)
		})
	}
}

// TestTableState_SectionItems tests the section-level item projection.
func TestTableState_SectionItems(t *testing.T) {
	state := TableState{Sections: []Section{
		{Key: "s1", Payload: "header-1", Rows: []Item{{Key: "r1"}}},
		{Key: "s2", Payload: "header-2"},
	}}

	items := state.SectionItems()
	require.Len(t, items, 2)
	assert.Equal(t, Item{Key: "s1", Payload: "header-1"}, items[0])
	assert.Equal(t, Item{Key: "s2", Payload: "header-2"}, items[1])

	sec, ok := state.SectionByKey("s1")
	assert.True(t, ok)
	assert.Len(t, sec.Rows, 1)

	_, ok = state.SectionByKey("nope")
	assert.False(t, ok)
}
