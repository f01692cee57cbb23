package record

import (
	"slices"
	"strings"
)

// IDSeparator joins identifiers when a set is rendered into a single cell.
const IDSeparator = ", "

// IDSet is an unordered set of identifiers. The zero value is empty and ready
// to use.
type IDSet struct {
	ids map[string]struct{}
}

// NewIDSet builds a set from the non-blank values provided.
func NewIDSet(ids ...string) IDSet {
	var s IDSet
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

// ParseIDSet splits a joined cell value on commas and semicolons.
func ParseIDSet(joined string) IDSet {
	fields := strings.FieldsFunc(joined, func(r rune) bool {
		return r == ',' || r == ';'
	})
	return NewIDSet(fields...)
}

// Add inserts id after trimming whitespace. Blank ids are ignored.
func (s *IDSet) Add(id string) {
	id = strings.TrimSpace(id)
	if id == "" {
		return
	}
	if s.ids == nil {
		s.ids = make(map[string]struct{})
	}
	s.ids[id] = struct{}{}
}

// Len returns the number of distinct identifiers.
func (s IDSet) Len() int {
	return len(s.ids)
}

// Empty reports whether the set has no identifiers.
func (s IDSet) Empty() bool {
	return len(s.ids) == 0
}

// Contains reports whether id is in the set.
func (s IDSet) Contains(id string) bool {
	_, ok := s.ids[strings.TrimSpace(id)]
	return ok
}

// Single returns the only identifier when the set holds exactly one.
func (s IDSet) Single() (string, bool) {
	if len(s.ids) != 1 {
		return "", false
	}
	for id := range s.ids {
		return id, true
	}
	return "", false
}

// Union returns a new set holding the identifiers of both sets.
func (s IDSet) Union(other IDSet) IDSet {
	out := NewIDSet(s.Slice()...)
	for id := range other.ids {
		out.Add(id)
	}
	return out
}

// Without returns a copy of the set with id removed.
func (s IDSet) Without(id string) IDSet {
	out := NewIDSet(s.Slice()...)
	delete(out.ids, strings.TrimSpace(id))
	return out
}

// Slice returns the identifiers in sorted order.
func (s IDSet) Slice() []string {
	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

// String renders the set as a single cell value.
func (s IDSet) String() string {
	return strings.Join(s.Slice(), IDSeparator)
}
