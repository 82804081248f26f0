package feed

import (
	"encoding/json"
	"sort"
)

// TagSet is an unordered set of tags. The zero value is an empty set ready to use.
type TagSet struct {
	m map[string]struct{}
}

func NewTagSet(tags ...string) TagSet {
	var s TagSet
	for _, t := range tags {
		s = s.With(t)
	}
	return s
}

func (s TagSet) Len() int { return len(s.m) }

func (s TagSet) Empty() bool { return len(s.m) == 0 }

func (s TagSet) Has(tag string) bool {
	_, ok := s.m[tag]
	return ok
}

// With returns a set that also contains tag. s itself is left untouched.
func (s TagSet) With(tag string) TagSet {
	if tag == "" || s.Has(tag) {
		return s
	}
	out := s.clone(1)
	out.m[tag] = struct{}{}
	return out
}

// Without returns a set that no longer contains tag. s itself is left untouched.
func (s TagSet) Without(tag string) TagSet {
	if !s.Has(tag) {
		return s
	}
	out := s.clone(0)
	delete(out.m, tag)
	return out
}

// Toggle adds tag when absent and removes it when present.
func (s TagSet) Toggle(tag string) TagSet {
	if s.Has(tag) {
		return s.Without(tag)
	}
	return s.With(tag)
}

// Intersects reports whether any of tags is in the set.
func (s TagSet) Intersects(tags []string) bool {
	for _, t := range tags {
		if s.Has(t) {
			return true
		}
	}
	return false
}

func (s TagSet) Equal(other TagSet) bool {
	if s.Len() != other.Len() {
		return false
	}
	for t := range s.m {
		if !other.Has(t) {
			return false
		}
	}
	return true
}

// Sorted returns the members in lexicographic order.
func (s TagSet) Sorted() []string {
	out := make([]string, 0, len(s.m))
	for t := range s.m {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

func (s TagSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Sorted())
}

func (s TagSet) clone(extra int) TagSet {
	m := make(map[string]struct{}, len(s.m)+extra)
	for t := range s.m {
		m[t] = struct{}{}
	}
	return TagSet{m: m}
}
