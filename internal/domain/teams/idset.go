package teams

import (
	"encoding/json"
	"slices"

	mapset "github.com/deckarep/golang-set/v2"
)

// IDSet is an immutable set of valid team IDs. The zero value is the empty set.
// Every operation returns a new value, so sets can be shared freely between goroutines.
type IDSet struct {
	ids mapset.Set[ID]
}

// NewIDSet builds a set from ids, dropping invalid values and duplicates.
func NewIDSet(ids ...ID) IDSet {
	set := mapset.NewThreadUnsafeSet[ID]()
	for _, id := range ids {
		if id.Valid() {
			set.Add(id)
		}
	}
	return IDSet{ids: set}
}

// Len returns the number of IDs in the set.
func (s IDSet) Len() int {
	if s.ids == nil {
		return 0
	}
	return s.ids.Cardinality()
}

// IsEmpty reports whether the set has no members.
func (s IDSet) IsEmpty() bool {
	return s.Len() == 0
}

// Contains reports membership.
func (s IDSet) Contains(id ID) bool {
	if s.ids == nil {
		return false
	}
	return s.ids.Contains(id)
}

// IDs returns the members in ascending order.
func (s IDSet) IDs() []ID {
	if s.ids == nil {
		return []ID{}
	}
	out := s.ids.ToSlice()
	slices.Sort(out)
	return out
}

// With returns a copy of the set including id.
func (s IDSet) With(id ID) IDSet {
	return NewIDSet(append(s.IDs(), id)...)
}

// Without returns a copy of the set excluding id.
func (s IDSet) Without(id ID) IDSet {
	out := mapset.NewThreadUnsafeSet[ID]()
	for _, member := range s.IDs() {
		if member != id {
			out.Add(member)
		}
	}
	return IDSet{ids: out}
}

// Equal reports whether both sets hold the same members.
func (s IDSet) Equal(other IDSet) bool {
	if s.Len() != other.Len() {
		return false
	}
	if s.Len() == 0 {
		return true
	}
	return s.ids.Equal(other.ids)
}

// MarshalJSON encodes the set as a sorted integer array.
func (s IDSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.IDs())
}

// UnmarshalJSON decodes an integer array, dropping invalid values and duplicates.
func (s *IDSet) UnmarshalJSON(data []byte) error {
	var ids []ID
	if err := json.Unmarshal(data, &ids); err != nil {
		return err
	}
	*s = NewIDSet(ids...)
	return nil
}
