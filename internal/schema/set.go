package schema

import (
	"encoding/json"
	"sort"
)

// Set is an unordered collection of unique strings. The zero value is not
// usable; construct with NewSet or a literal.
type Set map[string]struct{}

// NewSet returns a set containing the given elements.
func NewSet(elems ...string) Set {
	s := make(Set, len(elems))
	for _, e := range elems {
		s[e] = struct{}{}
	}
	return s
}

// Has reports whether e is in the set.
func (s Set) Has(e string) bool {
	_, ok := s[e]
	return ok
}

// Add inserts e and reports whether the set changed.
func (s Set) Add(e string) bool {
	if _, ok := s[e]; ok {
		return false
	}
	s[e] = struct{}{}
	return true
}

// Delete removes e and reports whether the set changed.
func (s Set) Delete(e string) bool {
	if _, ok := s[e]; !ok {
		return false
	}
	delete(s, e)
	return true
}

// Len returns the number of elements.
func (s Set) Len() int {
	return len(s)
}

// Elems returns the elements in sorted order.
func (s Set) Elems() []string {
	out := make([]string, 0, len(s))
	for e := range s {
		out = append(out, e)
	}
	sort.Strings(out)
	return out
}

// Clone returns a copy sharing no storage with s.
func (s Set) Clone() Set {
	out := make(Set, len(s))
	for e := range s {
		out[e] = struct{}{}
	}
	return out
}

// MarshalJSON encodes the set as a sorted JSON array.
func (s Set) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Elems())
}

// UnmarshalJSON decodes the set from a JSON array of strings.
func (s *Set) UnmarshalJSON(data []byte) error {
	var elems []string
	if err := json.Unmarshal(data, &elems); err != nil {
		return err
	}
	*s = NewSet(elems...)
	return nil
}
