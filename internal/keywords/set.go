package keywords

import (
	"encoding/json"
	"sort"
)

// Set is an unordered collection of unique keywords.
// The zero value is an empty set ready for reads; use NewSet before Add.
type Set map[string]struct{}

func NewSet(items ...string) Set {
	s := make(Set, len(items))
	for _, item := range items {
		s[item] = struct{}{}
	}
	return s
}

func (s Set) Add(item string) {
	s[item] = struct{}{}
}

func (s Set) Has(item string) bool {
	_, ok := s[item]
	return ok
}

func (s Set) Len() int { return len(s) }

// Sorted returns the set members in lexical order.
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s))
	for item := range s {
		out = append(out, item)
	}
	sort.Strings(out)
	return out
}

// Intersect returns the members present in both s and other.
func (s Set) Intersect(other Set) Set {
	out := NewSet()
	for item := range s {
		if other.Has(item) {
			out.Add(item)
		}
	}
	return out
}

// Difference returns the members of s absent from other.
func (s Set) Difference(other Set) Set {
	out := NewSet()
	for item := range s {
		if !other.Has(item) {
			out.Add(item)
		}
	}
	return out
}

func (s Set) Union(other Set) Set {
	out := make(Set, len(s)+len(other))
	for item := range s {
		out.Add(item)
	}
	for item := range other {
		out.Add(item)
	}
	return out
}

func (s Set) Equal(other Set) bool {
	if len(s) != len(other) {
		return false
	}
	for item := range s {
		if !other.Has(item) {
			return false
		}
	}
	return true
}

// MarshalJSON encodes the set as a sorted array.
func (s Set) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Sorted())
}

func (s *Set) UnmarshalJSON(data []byte) error {
	var items []string
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	*s = NewSet(items...)
	return nil
}
