package util

type Set[T comparable] map[T]struct{}

func NewSet[T comparable](vals ...T) Set[T] {
	s := make(Set[T], len(vals))

	for _, v := range vals {
		s.Add(v)
	}

	return s
}

func (s Set[T]) Add(key T) {
	s[key] = struct{}{}
}

func (s Set[T]) Remove(key T) {
	delete(s, key)
}

func (s Set[T]) Has(key T) bool {
	_, ok := s[key]

	return ok
}

func (s Set[T]) Len() int {
	return len(s)
}

func (s Set[T]) List() []T {
	res := make([]T, 0, len(s))

	for k := range s {
		res = append(res, k)
	}

	return res
}
