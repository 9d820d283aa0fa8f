package envelope

import (
	"encoding/json"
	"maps"
	"slices"
)

// KeySet is the set of key ids whose signatures verified.
type KeySet struct {
	ids map[string]struct{}
}

func newKeySet(ids ...string) KeySet {
	s := KeySet{ids: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		s.ids[id] = struct{}{}
	}

	return s
}

// Contains reports whether id verified.
func (s KeySet) Contains(id string) bool {
	_, ok := s.ids[id]

	return ok
}

// Len returns the number of verified keys.
func (s KeySet) Len() int {
	return len(s.ids)
}

// Sorted returns the key ids in lexical order.
func (s KeySet) Sorted() []string {
	return slices.Sorted(maps.Keys(s.ids))
}

// MarshalJSON renders the set as a sorted array.
func (s KeySet) MarshalJSON() ([]byte, error) {
	ids := s.Sorted()
	if ids == nil {
		ids = []string{}
	}

	return json.Marshal(ids)
}
