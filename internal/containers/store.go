package containers

type Element interface {
	ID() string
}

// A naive implementation of the iterator.
// It is *not* thread safe.
type Iter[T Element] struct {
	idx int
	s   *Store[T]
}

func (i *Iter[T]) Next() (T, bool) {
	var none T
	if i.idx >= i.s.Len() {
		return none, false
	}

	oldIdx := i.idx
	i.idx++

	return i.s.Get(oldIdx)
}

func (i *Iter[T]) HasNext() bool {
	return i.idx < i.s.Len()
}

// Store keeps elements in insertion order and finds them by ID.
// It is *not* thread safe.
type Store[T Element] struct {
	elements []T
	index    map[string]int
}

func NewStore[T Element]() *Store[T] {
	return &Store[T]{
		elements: make([]T, 0, 3),
		index:    make(map[string]int),
	}
}

func (s *Store[T]) Iter() *Iter[T] {
	return &Iter[T]{
		idx: 0,
		s:   s.clone(),
	}
}

func (s *Store[T]) Len() int {
	return len(s.elements)
}

func (s *Store[T]) Get(idx int) (T, bool) {
	var none T
	if idx < 0 || idx >= len(s.elements) {
		return none, false
	}
	return s.elements[idx], true
}

func (s *Store[T]) Find(id string) (T, bool) {
	var none T
	idx, ok := s.index[id]
	if !ok {
		return none, false
	}
	return s.elements[idx], true
}

func (s *Store[T]) Delete(element T) T {
	var none T
	idx, ok := s.index[element.ID()]
	if !ok {
		return none
	}

	e := s.elements[idx]
	s.elements = append(s.elements[:idx], s.elements[idx+1:]...)
	s.reindex()
	return e
}

// Add appends t, replacing an element with the same ID in place.
func (s *Store[T]) Add(t T) {
	if idx, ok := s.index[t.ID()]; ok {
		s.elements[idx] = t
		return
	}
	s.index[t.ID()] = len(s.elements)
	s.elements = append(s.elements, t)
}

func (s *Store[T]) clone() *Store[T] {
	elements := make([]T, len(s.elements))
	copy(elements, s.elements)
	return &Store[T]{elements: elements}
}

func (s *Store[T]) reindex() {
	s.index = make(map[string]int, len(s.elements))
	for i, e := range s.elements {
		s.index[e.ID()] = i
	}
}
