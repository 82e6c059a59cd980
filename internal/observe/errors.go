package observe

import (
	"errors"
	"fmt"

	"github.com/groblegark/ticklist/internal/schema"
)

// ErrRecordDestroyed is returned when an operation targets a record whose
// Destroy has already run.
var ErrRecordDestroyed = errors.New("record destroyed")

// UnknownPropertyError reports a property name absent from the target
// record's descriptor.
type UnknownPropertyError struct {
	TypeName string
	Property string
}

func (e *UnknownPropertyError) Error() string {
	return fmt.Sprintf("unknown property %q on %s", e.Property, e.TypeName)
}

// TypeMismatchError reports a value or edit whose kind disagrees with the
// property's declared kind. The mutation is rejected with no state change
// and no notification.
type TypeMismatchError struct {
	Property string
	Want     schema.Kind // declared kind
	Got      schema.Kind // kind of the offered value or edit
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("property %q is %v, got %v", e.Property, e.Want, e.Got)
}

// IndexOutOfRangeError reports an ordered-list edit beyond the list bounds.
type IndexOutOfRangeError struct {
	Property string
	Index    int
	Length   int
}

func (e *IndexOutOfRangeError) Error() string {
	return fmt.Sprintf("index %d out of range for %q (length %d)", e.Index, e.Property, e.Length)
}
