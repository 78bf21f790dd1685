package graph

// Map deep copies g into a graph with another payload type. Ids, positions,
// adjacency lists, edge properties, the id counter and the start vertex are
// copied verbatim; fn converts each payload. The source graph is only read.
func Map[T, U any](g *Graph[T], fn func(vertex *Vertex[T]) (U, error)) (*Graph[U], error) {
	ret := &Graph[U]{
		NextID:        g.NextID,
		StartVertexID: g.StartVertexID,
		Vertices:      make([]*Vertex[U], 0, len(g.Vertices)),
		Edges:         make([]*Edge, 0, len(g.Edges)),
	}
	for _, vertex := range g.Vertices {
		value, err := fn(vertex)
		if err != nil {
			return nil, err
		}
		ret.Vertices = append(ret.Vertices, &Vertex[U]{
			ID:         vertex.ID,
			Position:   vertex.Position,
			Outline:    append([]Point(nil), vertex.Outline...),
			InEdgeIDs:  append([]int(nil), vertex.InEdgeIDs...),
			OutEdgeIDs: append([]int(nil), vertex.OutEdgeIDs...),
			Value:      value,
		})
	}
	for _, edge := range g.Edges {
		clone := *edge
		clone.Properties = edge.Properties.Clone()
		ret.Edges = append(ret.Edges, &clone)
	}
	return ret, nil
}
