package ioc

import (
	"encoding/json"
	"fmt"
	"slices"
)

// Set holds the distinct indicators found per category.
// The zero value is not usable; create sets with NewSet.
type Set struct {
	values map[Category]map[string]struct{}
}

// NewSet returns an empty set with every category present.
func NewSet() *Set {
	s := &Set{values: make(map[Category]map[string]struct{}, len(Categories))}
	for _, c := range Categories {
		s.values[c] = make(map[string]struct{})
	}
	return s
}

// Add records v under category c. It returns true if v was not present yet.
// Unknown categories and empty values are ignored.
func (s *Set) Add(c Category, v string) bool {
	bucket, ok := s.values[c]
	if !ok || v == "" {
		return false
	}
	if _, dup := bucket[v]; dup {
		return false
	}
	bucket[v] = struct{}{}
	return true
}

// Contains reports whether v was recorded under category c.
func (s *Set) Contains(c Category, v string) bool {
	_, ok := s.values[c][v]
	return ok
}

// Len returns the number of distinct values in category c.
func (s *Set) Len(c Category) int {
	return len(s.values[c])
}

// Values returns the values of category c in ascending order.
// The result is never nil.
func (s *Set) Values(c Category) []string {
	out := make([]string, 0, len(s.values[c]))
	for v := range s.values[c] {
		out = append(out, v)
	}
	slices.Sort(out)
	return out
}

// MaxLen returns the size of the largest category.
func (s *Set) MaxLen() int {
	maxLen := 0
	for _, c := range Categories {
		maxLen = max(maxLen, s.Len(c))
	}
	return maxLen
}

// Total returns the number of values across all categories.
func (s *Set) Total() int {
	total := 0
	for _, c := range Categories {
		total += s.Len(c)
	}
	return total
}

// IsEmpty reports whether no category holds a value.
func (s *Set) IsEmpty() bool {
	return s.Total() == 0
}

// Counts returns the number of values per category.
func (s *Set) Counts() map[Category]int {
	counts := make(map[Category]int, len(Categories))
	for _, c := range Categories {
		counts[c] = s.Len(c)
	}
	return counts
}

// MarshalJSON encodes the set as an object of sorted string arrays keyed by
// category name. Every category is present, empty ones as [].
func (s *Set) MarshalJSON() ([]byte, error) {
	out := make(map[string][]string, len(Categories))
	for _, c := range Categories {
		out[string(c)] = s.Values(c)
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes the format produced by MarshalJSON.
func (s *Set) UnmarshalJSON(data []byte) error {
	var in map[string][]string
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	*s = *NewSet()
	for name, values := range in {
		c, ok := ParseCategory(name)
		if !ok {
			return fmt.Errorf("unknown IOC category %q", name)
		}
		for _, v := range values {
			s.Add(c, v)
		}
	}
	return nil
}

// Diff compares two sets and returns the values that only appear in next
// (added) and the values that only appear in prev (removed).
func Diff(prev, next *Set) (added, removed *Set) {
	added, removed = NewSet(), NewSet()
	for _, c := range Categories {
		for v := range next.values[c] {
			if !prev.Contains(c, v) {
				added.Add(c, v)
			}
		}
		for v := range prev.values[c] {
			if !next.Contains(c, v) {
				removed.Add(c, v)
			}
		}
	}
	return added, removed
}
