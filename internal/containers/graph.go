package containers

import (
	"errors"
	"fmt"
)

var (
	ErrNodeNotFound = errors.New("node not found")
)

type Node[T comparable] struct {
	Value T
	In    []*Edge[T]
	Out   []*Edge[T]
}

func (n *Node[T]) String() string {
	return fmt.Sprintf("[%v]", n.Value)
}

type Edge[T comparable] struct {
	From *Node[T]
	To   *Node[T]
}

func (e Edge[T]) String() string {
	return fmt.Sprintf("%v --> %v", e.From.Value, e.To.Value)
}

// Graph is a directed graph. Unlike a state graph it accepts back edges:
// cycles are reported by TopologicalOrder.
// It is *not* thread safe.
type Graph[T comparable] struct {
	nodes map[T]*Node[T]
}

func NewGraph[T comparable]() *Graph[T] {
	return &Graph[T]{nodes: make(map[T]*Node[T])}
}

// CreateNode returns the Node for value, creating it if not present.
func (g *Graph[T]) CreateNode(value T) *Node[T] {
	if n, ok := g.nodes[value]; ok {
		return n
	}
	n := &Node[T]{Value: value}
	g.nodes[value] = n
	return n
}

func (g *Graph[T]) GetNode(value T) *Node[T] {
	return g.nodes[value]
}

func (g *Graph[T]) Len() int {
	return len(g.nodes)
}

// AddEdge adds the edge from -> to. Duplicate edges are ignored.
func (g *Graph[T]) AddEdge(from, to T) {
	f := g.CreateNode(from)
	t := g.CreateNode(to)
	for _, e := range f.Out {
		if e.To == t {
			return
		}
	}

	e := &Edge[T]{From: f, To: t}
	t.In = append(t.In, e)
	f.Out = append(f.Out, e)
}

// RemoveInEdges drops every edge pointing to value.
func (g *Graph[T]) RemoveInEdges(value T) error {
	n := g.GetNode(value)
	if n == nil {
		return fmt.Errorf("%w: %v", ErrNodeNotFound, value)
	}

	for _, in := range n.In {
		from := in.From
		for i, out := range from.Out {
			if out == in {
				from.Out = append(from.Out[:i], from.Out[i+1:]...)
				break
			}
		}
	}
	n.In = nil

	return nil
}

// Reachable returns the given values followed by every value reachable from
// them, each once, in breadth first order.
func (g *Graph[T]) Reachable(values ...T) []T {
	seen := make(map[T]bool, len(values))
	queue := NewQueue[T]()
	result := make([]T, 0, len(values))

	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			queue.Push(v)
		}
	}

	for queue.Size() > 0 {
		v := queue.Pop()
		result = append(result, v)

		n := g.GetNode(v)
		if n == nil {
			continue
		}
		for _, e := range n.Out {
			if !seen[e.To.Value] {
				seen[e.To.Value] = true
				queue.Push(e.To.Value)
			}
		}
	}

	return result
}

// TopologicalOrder sorts values so that every value comes after the values
// it has an edge from. Edges leaving the set are ignored. Values which are
// part of a cycle, or depend on one, are returned separately.
func (g *Graph[T]) TopologicalOrder(values []T) (order []T, cyclic []T) {
	inSet := make(map[T]bool, len(values))
	for _, v := range values {
		inSet[v] = true
	}

	degree := make(map[T]int, len(values))
	for _, v := range values {
		n := g.GetNode(v)
		if n == nil {
			continue
		}
		for _, e := range n.In {
			if inSet[e.From.Value] {
				degree[v]++
			}
		}
	}

	queue := NewQueue[T]()
	for _, v := range values {
		if degree[v] == 0 {
			queue.Push(v)
		}
	}

	order = make([]T, 0, len(values))
	for queue.Size() > 0 {
		v := queue.Pop()
		order = append(order, v)

		n := g.GetNode(v)
		if n == nil {
			continue
		}
		for _, e := range n.Out {
			to := e.To.Value
			if !inSet[to] {
				continue
			}
			degree[to]--
			if degree[to] == 0 {
				queue.Push(to)
			}
		}
	}

	for _, v := range values {
		if degree[v] > 0 {
			cyclic = append(cyclic, v)
		}
	}

	return order, cyclic
}
