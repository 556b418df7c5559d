package keyed

import (
	"errors"
	"fmt"
)

// ErrDuplicateKey is returned when two items in the same collection
// share a key. Match with errors.Is; the concrete *DuplicateKeyError
// carries the offending key.
var ErrDuplicateKey = errors.New("keyed: duplicate key")

// DuplicateKeyError reports a key uniqueness violation.
type DuplicateKeyError struct {
	// Key is the duplicated key.
	Key Key

	// Scope names the collection in which the duplicate was found
	// (e.g. "sections", `rows of section "s1"`). May be empty when the
	// collection was built directly.
	Scope string
}

func (e *DuplicateKeyError) Error() string {
	if e.Scope == "" {
		return fmt.Sprintf("keyed: duplicate key %q", e.Key)
	}
	return fmt.Sprintf("keyed: duplicate key %q in %s", e.Key, e.Scope)
}

// Is makes errors.Is(err, ErrDuplicateKey) match.
func (e *DuplicateKeyError) Is(target error) bool {
	return target == ErrDuplicateKey
}
