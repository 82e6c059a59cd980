package observe

import (
	"github.com/groblegark/ticklist/internal/schema"
)

// Collection edits translate structural changes on ordered-list and
// set-valued properties into events with the exact change kind and, for
// lists, the affected indices. Bulk replacement of a whole collection is
// a plain Set and emits a single Setting event.
//
// No-op edits — inserting an element already in a set, removing one that
// is absent — provably leave the container unchanged, so they emit no
// event and return nil.

// Append adds an element to the end of an ordered-list property and emits
// an Insertion event with the new element's index.
func (r *Record) Append(name string, elem string) error {
	if _, err := r.collection(name, schema.KindList); err != nil {
		return err
	}
	list := r.values[name].([]string)
	next := make([]string, len(list), len(list)+1)
	copy(next, list)
	next = append(next, elem)
	r.values[name] = next
	r.reg.notify(r, Event{
		Property: name,
		Kind:     Insertion,
		New:      elem,
		Indices:  []int{len(next) - 1},
	})
	return nil
}

// RemoveAt removes the element at index i from an ordered-list property
// and emits a Removal event carrying the removed element and its index.
func (r *Record) RemoveAt(name string, i int) error {
	if _, err := r.collection(name, schema.KindList); err != nil {
		return err
	}
	list := r.values[name].([]string)
	if i < 0 || i >= len(list) {
		return &IndexOutOfRangeError{Property: name, Index: i, Length: len(list)}
	}
	removed := list[i]
	next := make([]string, 0, len(list)-1)
	next = append(next, list[:i]...)
	next = append(next, list[i+1:]...)
	r.values[name] = next
	r.reg.notify(r, Event{
		Property: name,
		Kind:     Removal,
		Old:      removed,
		Indices:  []int{i},
	})
	return nil
}

// ReplaceAt swaps the element at index i of an ordered-list property and
// emits a Replacement event whose old and new values are the single
// replaced element, not the whole collection.
func (r *Record) ReplaceAt(name string, i int, elem string) error {
	if _, err := r.collection(name, schema.KindList); err != nil {
		return err
	}
	list := r.values[name].([]string)
	if i < 0 || i >= len(list) {
		return &IndexOutOfRangeError{Property: name, Index: i, Length: len(list)}
	}
	old := list[i]
	next := make([]string, len(list))
	copy(next, list)
	next[i] = elem
	r.values[name] = next
	r.reg.notify(r, Event{
		Property: name,
		Kind:     Replacement,
		Old:      old,
		New:      elem,
		Indices:  []int{i},
	})
	return nil
}

// Insert adds an element to a set property and emits an Insertion event
// with no indices. Inserting an element already present changes nothing
// and emits nothing.
func (r *Record) Insert(name string, elem string) error {
	if _, err := r.collection(name, schema.KindSet); err != nil {
		return err
	}
	set := r.values[name].(schema.Set)
	if set.Has(elem) {
		return nil
	}
	next := set.Clone()
	next.Add(elem)
	r.values[name] = next
	r.reg.notify(r, Event{
		Property: name,
		Kind:     Insertion,
		New:      elem,
	})
	return nil
}

// Remove deletes an element from a set property and emits a Removal event
// with no indices. Removing an absent element changes nothing and emits
// nothing.
func (r *Record) Remove(name string, elem string) error {
	if _, err := r.collection(name, schema.KindSet); err != nil {
		return err
	}
	set := r.values[name].(schema.Set)
	if !set.Has(elem) {
		return nil
	}
	next := set.Clone()
	next.Delete(elem)
	r.values[name] = next
	r.reg.notify(r, Event{
		Property: name,
		Kind:     Removal,
		Old:      elem,
	})
	return nil
}
