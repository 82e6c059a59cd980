package observe

// ChangeKind classifies a committed mutation.
type ChangeKind int

const (
	// Setting is a whole-value swap. It is the only kind emitted for
	// scalar properties and never carries indices.
	Setting ChangeKind = iota
	// Insertion is a new element in an ordered list or set.
	Insertion
	// Removal is an element removed from an ordered list or set.
	Removal
	// Replacement is an element swapped in place in an ordered list.
	Replacement
)

var changeKindNames = [...]string{"setting", "insertion", "removal", "replacement"}

// String returns the wire name of the change kind.
func (k ChangeKind) String() string {
	if k < 0 || int(k) >= len(changeKindNames) {
		return "invalid"
	}
	return changeKindNames[k]
}

// MarshalText encodes the change kind as its wire name.
func (k ChangeKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Event describes one committed mutation on a record property. It is
// delivered synchronously on the mutator's call stack, before the mutating
// call returns.
//
// For Setting events Old and New hold the full before/after values (the
// entire collection, for collection-kind properties). For element-wise
// events they hold the single affected element, and Indices carries the
// affected positions for ordered-list events. Set events have no indices.
type Event struct {
	Property string
	Kind     ChangeKind
	Old      any
	New      any
	Indices  []int
}

// Handler receives change events. A handler runs on the mutator's call
// stack and may itself mutate records or alter subscriptions.
type Handler func(Event)
