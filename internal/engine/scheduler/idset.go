package scheduler

import "slices"

// idSet is a set of context ids that remembers insertion order.
type idSet struct {
	order []string
	index map[string]struct{}
}

func newIDSet(ids ...string) *idSet {
	s := &idSet{index: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

// Add appends id unless it is already present.
func (s *idSet) Add(id string) {
	if _, ok := s.index[id]; ok {
		return
	}
	s.index[id] = struct{}{}
	s.order = append(s.order, id)
}

func (s *idSet) Contains(id string) bool {
	_, ok := s.index[id]
	return ok
}

func (s *idSet) Len() int {
	return len(s.order)
}

// Items returns a copy of the ids in insertion order.
func (s *idSet) Items() []string {
	return slices.Clone(s.order)
}
