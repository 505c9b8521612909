package containers

type n[T any] struct {
	prev  *n[T]
	value T
}

// Queue is a FIFO queue.
type Queue[T any] struct {
	root *n[T]
	tail *n[T]
	size int
}

func NewQueue[T any]() *Queue[T] {
	return &Queue[T]{}
}

func (s *Queue[T]) Push(p T) {
	node := &n[T]{value: p}
	s.size++

	if s.root == nil {
		s.root = node
		s.tail = node
		return
	}

	s.tail.prev = node
	s.tail = node
}

func (s *Queue[T]) Peek() T {
	var none T
	if s.root == nil {
		return none
	}
	return s.root.value
}

func (s *Queue[T]) Pop() T {
	var none T
	if s.root == nil {
		return none
	}

	root := s.root
	s.root = s.root.prev
	if s.root == nil {
		s.tail = nil
	}
	s.size--

	return root.value
}

func (s *Queue[T]) Size() int {
	return s.size
}
