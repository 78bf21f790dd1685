package graph

import "iter"

// Direction selects which edges a traversal follows
type Direction int

const (
	// Downstream follows outgoing edges
	Downstream Direction = iota
	// Upstream follows incoming edges
	Upstream
)

// Traverse yields ids of vertices reachable from fromID, fromID included, in
// depth-first order. Each vertex is yielded once. The sequence can be ranged
// over repeatedly.
func (g *Graph[T]) Traverse(fromID int, direction Direction) iter.Seq[int] {
	return g.TraverseWhere(fromID, direction, nil)
}

// TraverseWhere is Traverse restricted to vertices accepted by allow; the
// starting vertex is always yielded.
func (g *Graph[T]) TraverseWhere(fromID int, direction Direction, allow func(vertex *Vertex[T]) bool) iter.Seq[int] {
	return func(yield func(int) bool) {
		if g.Vertex(fromID) == nil {
			return
		}
		visited := map[int]bool{}
		stack := []int{fromID}
		for len(stack) > 0 {
			id := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if visited[id] {
				continue
			}
			visited[id] = true
			if !yield(id) {
				return
			}
			next := g.neighbours(id, direction)
			for i := len(next) - 1; i >= 0; i-- {
				candidate := next[i]
				if visited[candidate] {
					continue
				}
				if allow != nil && !allow(g.Vertex(candidate)) {
					continue
				}
				stack = append(stack, candidate)
			}
		}
	}
}

// Reachable returns true if toID can be reached from fromID in direction
func (g *Graph[T]) Reachable(fromID, toID int, direction Direction) bool {
	for id := range g.Traverse(fromID, direction) {
		if id == toID {
			return true
		}
	}
	return false
}

// Neighbours returns ids of adjacent vertices in edge order
func (g *Graph[T]) Neighbours(id int, direction Direction) []int {
	return g.neighbours(id, direction)
}

func (g *Graph[T]) neighbours(id int, direction Direction) []int {
	var ret []int
	if direction == Upstream {
		for _, edge := range g.InEdges(id) {
			ret = append(ret, edge.OriginID)
		}
		return ret
	}
	for _, edge := range g.OutEdges(id) {
		ret = append(ret, edge.TerminusID)
	}
	return ret
}
