package schema

import (
	"encoding/json"
	"fmt"
)

// Property is a single named slot in a descriptor.
type Property struct {
	Name string `json:"name"`
	Kind Kind   `json:"kind"`
}

// SkippedProperty records a declared property whose runtime type signature
// had no kind mapping. Skipped properties are diagnostics only; they are
// excluded from the notifiable property set.
type SkippedProperty struct {
	Name      string `json:"name"`
	Signature string `json:"signature"`
}

// Descriptor is the immutable per-type mapping of property name to kind.
// Property order is the type's declaration order and is stable across
// calls, so it can drive deterministic subscription registration.
type Descriptor struct {
	typeName string
	props    []Property
	index    map[string]int
	skipped  []SkippedProperty

	// fieldIdx maps property name to the reflect field index path for
	// descriptors derived from struct types. Nil for hand-built descriptors.
	fieldIdx map[string][]int
}

// NewDescriptor builds a descriptor from an explicit property list, for
// record types that register their schema by hand rather than deriving it
// from a struct. Property names must be unique and kinds must be valid.
func NewDescriptor(typeName string, props []Property) (*Descriptor, error) {
	d := &Descriptor{
		typeName: typeName,
		props:    make([]Property, 0, len(props)),
		index:    make(map[string]int, len(props)),
	}
	for _, p := range props {
		if !p.Kind.IsValid() {
			return nil, fmt.Errorf("schema: property %q has invalid kind %v", p.Name, p.Kind)
		}
		if err := d.add(p); err != nil {
			return nil, err
		}
	}
	return d, nil
}

func (d *Descriptor) add(p Property) error {
	if p.Name == "" {
		return fmt.Errorf("schema: empty property name on %s", d.typeName)
	}
	if _, dup := d.index[p.Name]; dup {
		return fmt.Errorf("schema: duplicate property %q on %s", p.Name, d.typeName)
	}
	d.index[p.Name] = len(d.props)
	d.props = append(d.props, p)
	return nil
}

// TypeName returns the name of the described type.
func (d *Descriptor) TypeName() string {
	return d.typeName
}

// Len returns the number of mapped properties.
func (d *Descriptor) Len() int {
	return len(d.props)
}

// Properties returns the properties in declaration order. The returned
// slice is a copy; mutating it does not affect the descriptor.
func (d *Descriptor) Properties() []Property {
	out := make([]Property, len(d.props))
	copy(out, d.props)
	return out
}

// Kind returns the kind of the named property and whether it exists.
func (d *Descriptor) Kind(name string) (Kind, bool) {
	i, ok := d.index[name]
	if !ok {
		return KindUnknown, false
	}
	return d.props[i].Kind, true
}

// Has reports whether the named property exists.
func (d *Descriptor) Has(name string) bool {
	_, ok := d.index[name]
	return ok
}

// Skipped returns the properties excluded because their runtime type had
// no kind mapping.
func (d *Descriptor) Skipped() []SkippedProperty {
	out := make([]SkippedProperty, len(d.skipped))
	copy(out, d.skipped)
	return out
}

type descriptorJSON struct {
	TypeName   string     `json:"type_name"`
	Properties []Property `json:"properties"`
}

// MarshalJSON encodes the descriptor with properties in declaration order.
func (d *Descriptor) MarshalJSON() ([]byte, error) {
	return json.Marshal(descriptorJSON{
		TypeName:   d.typeName,
		Properties: d.props,
	})
}

// UnmarshalJSON decodes a descriptor, preserving property order and
// rejecting duplicate names.
func (d *Descriptor) UnmarshalJSON(data []byte) error {
	var raw descriptorJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	dec, err := NewDescriptor(raw.TypeName, raw.Properties)
	if err != nil {
		return err
	}
	*d = *dec
	return nil
}
