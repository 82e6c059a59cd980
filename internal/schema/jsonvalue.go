package schema

import (
	"fmt"
	"math"
	"time"
)

// FromJSON converts a value produced by encoding/json (string, float64,
// bool, []any, map[string]any) into the canonical value for the given
// kind. It is used when property values arrive over the wire, e.g. in a
// PATCH body.
func FromJSON(k Kind, v any) (any, error) {
	switch k {
	case KindInt8, KindInt16, KindInt32, KindInt64,
		KindUint8, KindUint16, KindUint32, KindUint64:
		n, ok := v.(float64)
		if !ok || n != math.Trunc(n) {
			return nil, fmt.Errorf("must be an integer")
		}
		return jsonInteger(k, n)
	case KindFloat32:
		n, ok := v.(float64)
		if !ok {
			return nil, fmt.Errorf("must be a number")
		}
		return float32(n), nil
	case KindFloat64:
		n, ok := v.(float64)
		if !ok {
			return nil, fmt.Errorf("must be a number")
		}
		return n, nil
	case KindBool:
		b, ok := v.(bool)
		if !ok {
			return nil, fmt.Errorf("must be a boolean")
		}
		return b, nil
	case KindText:
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("must be a string")
		}
		return s, nil
	case KindTimestamp:
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("must be an RFC 3339 timestamp string")
		}
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return nil, fmt.Errorf("must be an RFC 3339 timestamp string")
		}
		return t, nil
	case KindList:
		elems, err := jsonStrings(v)
		if err != nil {
			return nil, err
		}
		return elems, nil
	case KindSet:
		elems, err := jsonStrings(v)
		if err != nil {
			return nil, err
		}
		return NewSet(elems...), nil
	case KindMap:
		m, ok := v.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("must be an object of strings")
		}
		out := make(map[string]string, len(m))
		for key, val := range m {
			s, ok := val.(string)
			if !ok {
				return nil, fmt.Errorf("must be an object of strings")
			}
			out[key] = s
		}
		return out, nil
	}
	return nil, fmt.Errorf("unknown kind %v", k)
}

func jsonInteger(k Kind, n float64) (any, error) {
	switch k {
	case KindInt8:
		if n < math.MinInt8 || n > math.MaxInt8 {
			return nil, fmt.Errorf("out of range for int8")
		}
		return int8(n), nil
	case KindInt16:
		if n < math.MinInt16 || n > math.MaxInt16 {
			return nil, fmt.Errorf("out of range for int16")
		}
		return int16(n), nil
	case KindInt32:
		if n < math.MinInt32 || n > math.MaxInt32 {
			return nil, fmt.Errorf("out of range for int32")
		}
		return int32(n), nil
	case KindInt64:
		// >= rather than > on the upper bound: MaxInt64 is not exactly
		// representable as a float64 and rounds up to 2^63, which would
		// overflow the conversion.
		if n < math.MinInt64 || n >= math.MaxInt64 {
			return nil, fmt.Errorf("out of range for int64")
		}
		return int64(n), nil
	case KindUint8:
		if n < 0 || n > math.MaxUint8 {
			return nil, fmt.Errorf("out of range for uint8")
		}
		return uint8(n), nil
	case KindUint16:
		if n < 0 || n > math.MaxUint16 {
			return nil, fmt.Errorf("out of range for uint16")
		}
		return uint16(n), nil
	case KindUint32:
		if n < 0 || n > math.MaxUint32 {
			return nil, fmt.Errorf("out of range for uint32")
		}
		return uint32(n), nil
	case KindUint64:
		if n < 0 || n >= math.MaxUint64 {
			return nil, fmt.Errorf("out of range for uint64")
		}
		return uint64(n), nil
	}
	return nil, fmt.Errorf("not an integer kind")
}

func jsonStrings(v any) ([]string, error) {
	arr, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("must be an array of strings")
	}
	out := make([]string, 0, len(arr))
	for _, elem := range arr {
		s, ok := elem.(string)
		if !ok {
			return nil, fmt.Errorf("must be an array of strings")
		}
		out = append(out, s)
	}
	return out, nil
}
