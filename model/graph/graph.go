package graph

import (
	"fmt"

	"github.com/viant/procdef/model/property"
	"github.com/viant/procdef/model/types"
)

type (
	// Point is a layout coordinate, it carries no behaviour
	Point struct {
		X int `json:"x" yaml:"x"`
		Y int `json:"y" yaml:"y"`
	}

	// Vertex is a positioned graph node carrying a payload
	Vertex[T any] struct {
		ID         int     `json:"id" yaml:"id"`
		Position   Point   `json:"position" yaml:"position"`
		Outline    []Point `json:"outline,omitempty" yaml:"outline,omitempty"`
		InEdgeIDs  []int   `json:"inEdgeIds,omitempty" yaml:"inEdgeIds,omitempty"`
		OutEdgeIDs []int   `json:"outEdgeIds,omitempty" yaml:"outEdgeIds,omitempty"`
		Value      T       `json:"value" yaml:"value"`
	}

	// Edge is a directed connection between two vertices of the same graph
	Edge struct {
		ID            int                 `json:"id" yaml:"id"`
		OriginID      int                 `json:"originId" yaml:"originId"`
		TerminusID    int                 `json:"terminusId" yaml:"terminusId"`
		OriginPoint   Point               `json:"originPoint" yaml:"originPoint"`
		TerminusPoint Point               `json:"terminusPoint" yaml:"terminusPoint"`
		Properties    property.Properties `json:"properties,omitempty" yaml:"properties,omitempty"`
	}

	// Graph owns its vertices and edges by id. Vertices and edges share one
	// monotonically increasing id counter. A Graph is not safe for concurrent
	// mutation; concurrent reads are fine.
	Graph[T any] struct {
		NextID        int          `json:"nextId" yaml:"nextId"`
		StartVertexID int          `json:"startVertexId" yaml:"startVertexId"`
		Vertices      []*Vertex[T] `json:"vertices,omitempty" yaml:"vertices,omitempty"`
		Edges         []*Edge      `json:"edges,omitempty" yaml:"edges,omitempty"`
	}
)

// NoVertex marks an unset start vertex
const NoVertex = -1

// New creates an empty graph
func New[T any]() *Graph[T] {
	return &Graph[T]{StartVertexID: NoVertex}
}

// AddVertex stores value under the next unused id and returns the id
func (g *Graph[T]) AddVertex(value T, position Point) int {
	id := g.NextID
	g.NextID++
	g.Vertices = append(g.Vertices, &Vertex[T]{ID: id, Position: position, Value: value})
	return id
}

// Vertex returns the vertex with id or nil
func (g *Graph[T]) Vertex(id int) *Vertex[T] {
	for _, vertex := range g.Vertices {
		if vertex.ID == id {
			return vertex
		}
	}
	return nil
}

// Edge returns the edge with id or nil
func (g *Graph[T]) Edge(id int) *Edge {
	for _, edge := range g.Edges {
		if edge.ID == id {
			return edge
		}
	}
	return nil
}

// AddEdge links origin to terminus and returns the new edge id
func (g *Graph[T]) AddEdge(originID, terminusID int, props property.Properties) (int, error) {
	origin := g.Vertex(originID)
	if origin == nil {
		return 0, fmt.Errorf("%w: origin %d", types.ErrUnknownVertex, originID)
	}
	terminus := g.Vertex(terminusID)
	if terminus == nil {
		return 0, fmt.Errorf("%w: terminus %d", types.ErrUnknownVertex, terminusID)
	}
	id := g.NextID
	g.NextID++
	g.Edges = append(g.Edges, &Edge{
		ID:            id,
		OriginID:      originID,
		TerminusID:    terminusID,
		OriginPoint:   origin.Position,
		TerminusPoint: terminus.Position,
		Properties:    props,
	})
	origin.OutEdgeIDs = append(origin.OutEdgeIDs, id)
	terminus.InEdgeIDs = append(terminus.InEdgeIDs, id)
	return id, nil
}

// RemoveEdge unlinks and deletes the edge
func (g *Graph[T]) RemoveEdge(id int) error {
	index := -1
	for i, edge := range g.Edges {
		if edge.ID == id {
			index = i
			break
		}
	}
	if index == -1 {
		return fmt.Errorf("%w: %d", types.ErrUnknownEdge, id)
	}
	edge := g.Edges[index]
	if origin := g.Vertex(edge.OriginID); origin != nil {
		origin.OutEdgeIDs = without(origin.OutEdgeIDs, id)
	}
	if terminus := g.Vertex(edge.TerminusID); terminus != nil {
		terminus.InEdgeIDs = without(terminus.InEdgeIDs, id)
	}
	g.Edges = append(g.Edges[:index], g.Edges[index+1:]...)
	return nil
}

// RemoveVertex removes all incident edges, then the vertex
func (g *Graph[T]) RemoveVertex(id int) error {
	vertex := g.Vertex(id)
	if vertex == nil {
		return fmt.Errorf("%w: %d", types.ErrUnknownVertex, id)
	}
	incident := append(append([]int{}, vertex.InEdgeIDs...), vertex.OutEdgeIDs...)
	for _, edgeID := range incident {
		if g.Edge(edgeID) == nil { // self loop listed twice
			continue
		}
		if err := g.RemoveEdge(edgeID); err != nil {
			return err
		}
	}
	for i, candidate := range g.Vertices {
		if candidate.ID == id {
			g.Vertices = append(g.Vertices[:i], g.Vertices[i+1:]...)
			break
		}
	}
	if g.StartVertexID == id {
		g.StartVertexID = NoVertex
	}
	return nil
}

// StartVertex returns the entry point of the graph or nil
func (g *Graph[T]) StartVertex() *Vertex[T] {
	if g.StartVertexID == NoVertex {
		return nil
	}
	return g.Vertex(g.StartVertexID)
}

// SetStartVertexID sets the entry point of the graph
func (g *Graph[T]) SetStartVertexID(id int) error {
	if g.Vertex(id) == nil {
		return fmt.Errorf("%w: %d", types.ErrUnknownVertex, id)
	}
	g.StartVertexID = id
	return nil
}

// InEdges returns edges terminating at vertex id
func (g *Graph[T]) InEdges(id int) []*Edge {
	vertex := g.Vertex(id)
	if vertex == nil {
		return nil
	}
	return g.edges(vertex.InEdgeIDs)
}

// OutEdges returns edges originating at vertex id
func (g *Graph[T]) OutEdges(id int) []*Edge {
	vertex := g.Vertex(id)
	if vertex == nil {
		return nil
	}
	return g.edges(vertex.OutEdgeIDs)
}

// Terminals returns ids of vertices without outgoing edges
func (g *Graph[T]) Terminals() []int {
	var ret []int
	for _, vertex := range g.Vertices {
		if len(vertex.OutEdgeIDs) == 0 {
			ret = append(ret, vertex.ID)
		}
	}
	return ret
}

// Validate checks that every edge references live vertices and that
// adjacency lists are consistent with the edge set
func (g *Graph[T]) Validate() error {
	for _, edge := range g.Edges {
		if g.Vertex(edge.OriginID) == nil {
			return fmt.Errorf("%w: edge %d origin %d", types.ErrUnknownVertex, edge.ID, edge.OriginID)
		}
		if g.Vertex(edge.TerminusID) == nil {
			return fmt.Errorf("%w: edge %d terminus %d", types.ErrUnknownVertex, edge.ID, edge.TerminusID)
		}
	}
	for _, vertex := range g.Vertices {
		for _, edgeID := range append(append([]int{}, vertex.InEdgeIDs...), vertex.OutEdgeIDs...) {
			if g.Edge(edgeID) == nil {
				return fmt.Errorf("%w: vertex %d references edge %d", types.ErrUnknownEdge, vertex.ID, edgeID)
			}
		}
	}
	return nil
}

func (g *Graph[T]) edges(ids []int) []*Edge {
	ret := make([]*Edge, 0, len(ids))
	for _, id := range ids {
		if edge := g.Edge(id); edge != nil {
			ret = append(ret, edge)
		}
	}
	return ret
}

func without(ids []int, id int) []int {
	ret := ids[:0]
	for _, candidate := range ids {
		if candidate != id {
			ret = append(ret, candidate)
		}
	}
	return ret
}
