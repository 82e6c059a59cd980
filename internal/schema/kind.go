package schema

import (
	"fmt"
	"time"
)

// Kind is the semantic classification of a property's value type.
type Kind int

const (
	KindUnknown Kind = iota
	KindInt8
	KindInt16
	KindInt32
	KindInt64
	KindUint8
	KindUint16
	KindUint32
	KindUint64
	KindFloat32
	KindFloat64
	KindBool
	KindText
	KindTimestamp
	KindList // ordered list of text
	KindMap  // unordered map of text to text
	KindSet  // unordered set of text
)

var kindNames = map[Kind]string{
	KindUnknown:   "unknown",
	KindInt8:      "int8",
	KindInt16:     "int16",
	KindInt32:     "int32",
	KindInt64:     "int64",
	KindUint8:     "uint8",
	KindUint16:    "uint16",
	KindUint32:    "uint32",
	KindUint64:    "uint64",
	KindFloat32:   "float32",
	KindFloat64:   "float64",
	KindBool:      "bool",
	KindText:      "text",
	KindTimestamp: "timestamp",
	KindList:      "list",
	KindMap:       "map",
	KindSet:       "set",
}

// String returns the wire name of the kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// IsValid reports whether the kind is a known, mappable value.
func (k Kind) IsValid() bool {
	_, ok := kindNames[k]
	return ok && k != KindUnknown
}

// IsCollection reports whether element-wise change events (insertion,
// removal, replacement) apply to the kind. Map-kind properties are only
// ever replaced wholesale, so they are not collections in this sense.
func (k Kind) IsCollection() bool {
	return k == KindList || k == KindSet
}

// MarshalText encodes the kind as its wire name.
func (k Kind) MarshalText() ([]byte, error) {
	name, ok := kindNames[k]
	if !ok {
		return nil, fmt.Errorf("schema: cannot marshal kind %d", int(k))
	}
	return []byte(name), nil
}

// UnmarshalText decodes a kind from its wire name.
func (k *Kind) UnmarshalText(text []byte) error {
	s := string(text)
	for kind, name := range kindNames {
		if name == s {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("schema: unknown kind %q", s)
}

// KindOf returns the canonical value and kind for a runtime value.
// Platform-width int and uint normalize to their 64-bit kinds, matching
// how descriptors classify struct fields. Values with no mapping return
// KindUnknown.
func KindOf(v any) (any, Kind) {
	switch val := v.(type) {
	case int8:
		return val, KindInt8
	case int16:
		return val, KindInt16
	case int32:
		return val, KindInt32
	case int64:
		return val, KindInt64
	case int:
		return int64(val), KindInt64
	case uint8:
		return val, KindUint8
	case uint16:
		return val, KindUint16
	case uint32:
		return val, KindUint32
	case uint64:
		return val, KindUint64
	case uint:
		return uint64(val), KindUint64
	case float32:
		return val, KindFloat32
	case float64:
		return val, KindFloat64
	case bool:
		return val, KindBool
	case string:
		return val, KindText
	case time.Time:
		return val, KindTimestamp
	case []string:
		return val, KindList
	case map[string]string:
		return val, KindMap
	case Set:
		return val, KindSet
	}
	return v, KindUnknown
}

// ZeroValue returns the canonical zero value for a kind, used to seed
// freshly created records. Collections start empty, never nil.
func ZeroValue(k Kind) any {
	switch k {
	case KindInt8:
		return int8(0)
	case KindInt16:
		return int16(0)
	case KindInt32:
		return int32(0)
	case KindInt64:
		return int64(0)
	case KindUint8:
		return uint8(0)
	case KindUint16:
		return uint16(0)
	case KindUint32:
		return uint32(0)
	case KindUint64:
		return uint64(0)
	case KindFloat32:
		return float32(0)
	case KindFloat64:
		return float64(0)
	case KindBool:
		return false
	case KindText:
		return ""
	case KindTimestamp:
		return time.Time{}
	case KindList:
		return []string{}
	case KindMap:
		return map[string]string{}
	case KindSet:
		return Set{}
	}
	return nil
}

// CloneValue returns a copy of a canonical value that shares no storage
// with the original. Scalars are returned as-is.
func CloneValue(k Kind, v any) any {
	switch k {
	case KindList:
		list, ok := v.([]string)
		if !ok {
			return v
		}
		out := make([]string, len(list))
		copy(out, list)
		return out
	case KindMap:
		m, ok := v.(map[string]string)
		if !ok {
			return v
		}
		out := make(map[string]string, len(m))
		for key, val := range m {
			out[key] = val
		}
		return out
	case KindSet:
		s, ok := v.(Set)
		if !ok {
			return v
		}
		return s.Clone()
	}
	return v
}
