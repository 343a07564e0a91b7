package util

// Selection is the state of a multi-select surface, a set of picked ids
// with the usual toggle operations. Explicit value type instead of ad
// hoc flags on the view side.
type Selection[T comparable] struct {
	picked Set[T]
}

func NewSelection[T comparable]() *Selection[T] {
	return &Selection[T]{picked: NewSet[T]()}
}

func (s *Selection[T]) Add(key T) {
	s.picked.Add(key)
}

func (s *Selection[T]) Remove(key T) {
	s.picked.Remove(key)
}

// Toggle flips one id and reports whether it is picked afterwards.
func (s *Selection[T]) Toggle(key T) bool {
	if s.picked.Has(key) {
		s.picked.Remove(key)

		return false
	}

	s.picked.Add(key)

	return true
}

func (s *Selection[T]) SelectAll(keys []T) {
	for _, k := range keys {
		s.picked.Add(k)
	}
}

func (s *Selection[T]) Clear() {
	s.picked = NewSet[T]()
}

func (s *Selection[T]) Has(key T) bool {
	return s.picked.Has(key)
}

func (s *Selection[T]) Count() int {
	return s.picked.Len()
}

func (s *Selection[T]) List() []T {
	return s.picked.List()
}
