// Package schema derives runtime type descriptors for record types.
//
// A descriptor maps each declared property of a record type to a semantic
// value kind (scalar kinds, text, timestamp, ordered list, unordered map,
// set). Descriptors are computed once per concrete type from type-level
// metadata only, cached for the life of the process, and shared read-only
// across all instances of that type.
package schema

import (
	"fmt"
	"log/slog"
	"reflect"
	"sync"
	"time"
	"unicode"
	"unicode/utf8"
)

var catalog sync.Map // reflect.Type -> *Descriptor

var (
	timeType = reflect.TypeOf(time.Time{})
	setType  = reflect.TypeOf(Set(nil))
	listType = reflect.TypeOf([]string(nil))
	mapType  = reflect.TypeOf(map[string]string(nil))
)

// Describe returns the descriptor for v's struct type, building and caching
// it on first use. v may be a struct value or a (possibly nested) pointer
// to one. Describe never inspects instance state.
//
// Property names come from the `schema` struct tag; untagged exported
// fields use the field name with its first rune lowered. Fields tagged
// `schema:"-"` and unexported fields are ignored. Fields whose type has no
// kind mapping are recorded as skipped and logged, not treated as errors.
func Describe(v any) (*Descriptor, error) {
	t := reflect.TypeOf(v)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("schema: cannot describe %T: not a struct type", v)
	}
	if cached, ok := catalog.Load(t); ok {
		return cached.(*Descriptor), nil
	}
	d, err := describeType(t)
	if err != nil {
		return nil, err
	}
	actual, _ := catalog.LoadOrStore(t, d)
	return actual.(*Descriptor), nil
}

func describeType(t reflect.Type) (*Descriptor, error) {
	d := &Descriptor{
		typeName: t.Name(),
		index:    make(map[string]int),
		fieldIdx: make(map[string][]int),
	}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.PkgPath != "" { // unexported
			continue
		}
		name := propertyName(f)
		if name == "" {
			continue
		}
		kind := kindOfType(f.Type)
		if kind == KindUnknown {
			sig := f.Type.String()
			d.skipped = append(d.skipped, SkippedProperty{Name: name, Signature: sig})
			slog.Warn("schema: property type has no kind mapping, skipping",
				"type", d.typeName, "property", name, "signature", sig)
			continue
		}
		if err := d.add(Property{Name: name, Kind: kind}); err != nil {
			return nil, err
		}
		d.fieldIdx[name] = f.Index
	}
	return d, nil
}

// propertyName returns the declared property name for a struct field, or
// "" if the field is excluded from the schema.
func propertyName(f reflect.StructField) string {
	if tag, ok := f.Tag.Lookup("schema"); ok {
		if tag == "-" {
			return ""
		}
		return tag
	}
	r, size := utf8.DecodeRuneInString(f.Name)
	return string(unicode.ToLower(r)) + f.Name[size:]
}

func kindOfType(t reflect.Type) Kind {
	switch t {
	case timeType:
		return KindTimestamp
	case setType:
		return KindSet
	case listType:
		return KindList
	case mapType:
		return KindMap
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int64:
		return KindInt64
	case reflect.Int8:
		return KindInt8
	case reflect.Int16:
		return KindInt16
	case reflect.Int32:
		return KindInt32
	case reflect.Uint, reflect.Uint64:
		return KindUint64
	case reflect.Uint8:
		return KindUint8
	case reflect.Uint16:
		return KindUint16
	case reflect.Uint32:
		return KindUint32
	case reflect.Float32:
		return KindFloat32
	case reflect.Float64:
		return KindFloat64
	case reflect.Bool:
		return KindBool
	case reflect.String:
		return KindText
	}
	return KindUnknown
}

// Values reads the mapped property values out of a struct instance,
// returning canonical values keyed by property name. Collections are
// copied, never aliased.
func Values(v any) (map[string]any, *Descriptor, error) {
	d, err := Describe(v)
	if err != nil {
		return nil, nil, err
	}
	if d.fieldIdx == nil {
		return nil, nil, fmt.Errorf("schema: %s was not derived from a struct type", d.typeName)
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		rv = rv.Elem()
	}
	out := make(map[string]any, len(d.props))
	for _, p := range d.props {
		fv := rv.FieldByIndex(d.fieldIdx[p.Name])
		canonical, kind := KindOf(coerceField(fv, p.Kind))
		if kind != p.Kind {
			return nil, nil, fmt.Errorf("schema: field %q of %s is %v, descriptor says %v",
				p.Name, d.typeName, kind, p.Kind)
		}
		out[p.Name] = CloneValue(p.Kind, canonical)
	}
	return out, d, nil
}

// Apply writes canonical property values back into a struct instance.
// dst must be a non-nil pointer to a struct of the described type. Values
// for properties absent from the map are left untouched.
func Apply(dst any, values map[string]any) error {
	d, err := Describe(dst)
	if err != nil {
		return err
	}
	if d.fieldIdx == nil {
		return fmt.Errorf("schema: %s was not derived from a struct type", d.typeName)
	}
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("schema: Apply requires a non-nil pointer, got %T", dst)
	}
	rv = rv.Elem()
	for _, p := range d.props {
		v, ok := values[p.Name]
		if !ok {
			continue
		}
		canonical, kind := KindOf(v)
		if kind != p.Kind {
			return fmt.Errorf("schema: value for %q is %v, descriptor says %v", p.Name, kind, p.Kind)
		}
		fv := rv.FieldByIndex(d.fieldIdx[p.Name])
		cv := reflect.ValueOf(CloneValue(p.Kind, canonical))
		if cv.Type() != fv.Type() {
			cv = cv.Convert(fv.Type())
		}
		fv.Set(cv)
	}
	return nil
}

// coerceField converts a struct field value to its canonical runtime form
// so named scalar types (e.g. a string-based status type) still match the
// descriptor kind.
func coerceField(fv reflect.Value, k Kind) any {
	switch k {
	case KindInt8:
		return int8(fv.Int())
	case KindInt16:
		return int16(fv.Int())
	case KindInt32:
		return int32(fv.Int())
	case KindInt64:
		return fv.Int()
	case KindUint8:
		return uint8(fv.Uint())
	case KindUint16:
		return uint16(fv.Uint())
	case KindUint32:
		return uint32(fv.Uint())
	case KindUint64:
		return fv.Uint()
	case KindFloat32:
		return float32(fv.Float())
	case KindFloat64:
		return fv.Float()
	case KindBool:
		return fv.Bool()
	case KindText:
		return fv.String()
	}
	return fv.Interface()
}
