package common

import "container/list"

// SeenSet is an insertion ordered set of identifiers with a fixed capacity.
// When an insertion pushes the size past the capacity, the oldest inserted
// identifier is evicted. Membership tests do not refresh an identifier,
// so eviction is first in first out, not least recently used.
//
// SeenSet is not safe for concurrent use.
type SeenSet struct {
	capacity int
	order    *list.List
	members  map[string]*list.Element
}

func NewSeenSet(capacity int) *SeenSet {
	if capacity < 1 {
		capacity = 1
	}
	return &SeenSet{
		capacity: capacity,
		order:    list.New(),
		members:  make(map[string]*list.Element, capacity+1),
	}
}

func (s *SeenSet) Contains(id string) bool {
	_, ok := s.members[id]
	return ok
}

// Insert the identifier if absent. Reports whether it was inserted,
// and the identifier evicted to make room, if any
func (s *SeenSet) Add(id string) (inserted bool, evicted string, didEvict bool) {
	if s.Contains(id) {
		return false, "", false
	}
	s.members[id] = s.order.PushBack(id)

	if s.order.Len() > s.capacity {
		oldest := s.order.Front()
		s.order.Remove(oldest)
		evicted = oldest.Value.(string)
		delete(s.members, evicted)
		return true, evicted, true
	}
	return true, "", false
}

func (s *SeenSet) Len() int {
	return s.order.Len()
}

func (s *SeenSet) Capacity() int {
	return s.capacity
}

// Identifiers from oldest to newest
func (s *SeenSet) Items() []string {
	items := make([]string, 0, s.order.Len())
	for e := s.order.Front(); e != nil; e = e.Next() {
		items = append(items, e.Value.(string))
	}
	return items
}
