package containers

// Stack is a LIFO work-list.
type Stack[T any] struct {
	top  *n[T]
	size int
}

func NewStack[T any]() *Stack[T] {
	return &Stack[T]{}
}

func (s *Stack[T]) Push(p T) {
	s.top = &n[T]{prev: s.top, value: p}
	s.size++
}

func (s *Stack[T]) Peek() T {
	var none T
	if s.top == nil {
		return none
	}
	return s.top.value
}

func (s *Stack[T]) Pop() T {
	var none T
	if s.top == nil {
		return none
	}

	top := s.top
	s.top = top.prev
	s.size--

	return top.value
}

func (s *Stack[T]) Size() int {
	return s.size
}

// Drain pops every element, most recent first.
func (s *Stack[T]) Drain() []T {
	values := make([]T, 0, s.size)
	for s.size > 0 {
		values = append(values, s.Pop())
	}
	return values
}
