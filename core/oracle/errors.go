package oracle

import (
	"errors"
	"fmt"
	"reflect"
)

// ErrNoComparator is returned when a payload type has no registered
// comparator. Match with errors.Is; the concrete *NoComparatorError
// carries the missing type.
var ErrNoComparator = errors.New("oracle: no comparator registered")

// NoComparatorError reports a payload type the registry cannot compare.
// This is a configuration error on the caller side: the fix is to
// register a comparator, not to retry.
type NoComparatorError struct {
	// Type is the concrete payload type that was encountered.
	Type reflect.Type
}

func (e *NoComparatorError) Error() string {
	return fmt.Sprintf("oracle: no comparator registered for payload type %s", e.Type)
}

// Is makes errors.Is(err, ErrNoComparator) match.
func (e *NoComparatorError) Is(target error) bool {
	return target == ErrNoComparator
}
