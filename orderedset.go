package img2ascii

// orderedSet keeps the first occurrence of each value in insertion order.
// Combination indices are positions in its items, so order is part of the
// atlas format.
type orderedSet[T comparable] struct {
	items []T
	seen  map[T]struct{}
}

func newOrderedSet[T comparable]() *orderedSet[T] {
	return &orderedSet[T]{seen: make(map[T]struct{})}
}

// add appends v unless it is already present and reports whether it did.
func (s *orderedSet[T]) add(v T) bool {
	if _, ok := s.seen[v]; ok {
		return false
	}
	s.seen[v] = struct{}{}
	s.items = append(s.items, v)
	return true
}

// values returns the members in insertion order.
func (s *orderedSet[T]) values() []T {
	return append([]T(nil), s.items...)
}
