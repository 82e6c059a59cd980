// Package observe implements observable records: mutable, identity-bearing
// entities whose property mutations are delivered synchronously to
// subscribers as structured change events.
//
// A record's property set comes from its schema descriptor. All mutation
// goes through the record's setter surface — Set for whole values, the
// collection edits in collection.go for element-wise changes — so every
// mutation path is observable. Notification happens before the mutating
// call returns, with no reordering, coalescing, or batching; the event
// order seen by any subscriber is exactly the mutation order.
//
// Records and their registry assume an externally-synchronized ownership
// model: one writer at a time per record.
package observe

import (
	"fmt"

	"github.com/groblegark/ticklist/internal/schema"
)

// Record is a mutable entity holding the named properties declared by its
// descriptor.
type Record struct {
	identity  string
	desc      *schema.Descriptor
	reg       *Registry
	values    map[string]any
	destroyed bool
}

// NewRecord creates a record with every property at its kind's zero value.
func NewRecord(reg *Registry, desc *schema.Descriptor, identity string) *Record {
	values := make(map[string]any, desc.Len())
	for _, p := range desc.Properties() {
		values[p.Name] = schema.ZeroValue(p.Kind)
	}
	return &Record{
		identity: identity,
		desc:     desc,
		reg:      reg,
		values:   values,
	}
}

// FromStruct creates a record described by v's type and seeded with v's
// current property values.
func FromStruct(reg *Registry, v any, identity string) (*Record, error) {
	values, desc, err := schema.Values(v)
	if err != nil {
		return nil, err
	}
	return &Record{
		identity: identity,
		desc:     desc,
		reg:      reg,
		values:   values,
	}, nil
}

// Identity returns the record's primary key.
func (r *Record) Identity() string {
	return r.identity
}

// Descriptor returns the record's type descriptor.
func (r *Record) Descriptor() *schema.Descriptor {
	return r.desc
}

// Destroyed reports whether Destroy has run.
func (r *Record) Destroyed() bool {
	return r.destroyed
}

// Destroy invalidates every subscription keyed to the record and marks it
// unusable. Teardown runs first, so no callback can observe a destroyed
// target. Idempotent.
func (r *Record) Destroy() {
	if r.destroyed {
		return
	}
	r.reg.dropTarget(r.identity)
	r.destroyed = true
}

// Get returns the current value of the named property. Collection values
// are copies; mutating them does not affect the record.
func (r *Record) Get(name string) (any, error) {
	kind, ok := r.desc.Kind(name)
	if !ok {
		return nil, &UnknownPropertyError{TypeName: r.desc.TypeName(), Property: name}
	}
	return schema.CloneValue(kind, r.values[name]), nil
}

// Set swaps the whole value of the named property and emits one Setting
// event before returning. For collection-kind properties this replaces
// the entire collection and the event carries the full old and new
// collections; element-wise edits go through the collection operations
// instead. A kind mismatch rejects the mutation with no state change and
// no notification.
func (r *Record) Set(name string, v any) error {
	if r.destroyed {
		return ErrRecordDestroyed
	}
	want, ok := r.desc.Kind(name)
	if !ok {
		return &UnknownPropertyError{TypeName: r.desc.TypeName(), Property: name}
	}
	canonical, got := schema.KindOf(v)
	if got != want {
		return &TypeMismatchError{Property: name, Want: want, Got: got}
	}

	old := r.values[name]
	r.values[name] = schema.CloneValue(want, canonical)
	r.reg.notify(r, Event{
		Property: name,
		Kind:     Setting,
		Old:      old,
		New:      schema.CloneValue(want, canonical),
	})
	return nil
}

// Export copies the record's current property values into dst, which must
// be a non-nil pointer to a struct of the record's type.
func (r *Record) Export(dst any) error {
	desc, err := schema.Describe(dst)
	if err != nil {
		return err
	}
	if desc != r.desc {
		return fmt.Errorf("observe: cannot export %s record into %T", r.desc.TypeName(), dst)
	}
	return schema.Apply(dst, r.values)
}

// collection returns the property's kind after checking that the edit's
// container kind matches the declared kind.
func (r *Record) collection(name string, editKind schema.Kind) (schema.Kind, error) {
	if r.destroyed {
		return schema.KindUnknown, ErrRecordDestroyed
	}
	want, ok := r.desc.Kind(name)
	if !ok {
		return schema.KindUnknown, &UnknownPropertyError{TypeName: r.desc.TypeName(), Property: name}
	}
	if want != editKind {
		return schema.KindUnknown, &TypeMismatchError{Property: name, Want: want, Got: editKind}
	}
	return want, nil
}
