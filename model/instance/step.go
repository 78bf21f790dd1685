package instance

import (
	"time"

	"github.com/viant/procdef/model/graph"
	"github.com/viant/procdef/model/property"
)

// Runtime step kinds; control flow kinds keep their definition kind name
const (
	KindAtomic    = "Atomic"
	KindComposite = "Composite"
)

type (
	// Step is a runtime vertex produced by instantiation. It keeps the id of the
	// definition vertex it was created from but holds no reference to it.
	Step struct {
		ID         int                 `json:"id" yaml:"id"`
		Kind       string              `json:"kind" yaml:"kind"`
		Name       string              `json:"name" yaml:"name"`
		Type       string              `json:"type,omitempty" yaml:"type,omitempty"`
		TypeID     string              `json:"typeId,omitempty" yaml:"typeId,omitempty"`
		Version    *int                `json:"version,omitempty" yaml:"version,omitempty"`
		Properties property.Properties `json:"properties,omitempty" yaml:"properties,omitempty"`
		Children   *graph.Graph[*Step] `json:"children,omitempty" yaml:"children,omitempty"`
	}

	// Process is a persisted runtime process created from a definition
	Process struct {
		ID           string    `json:"id" yaml:"id"`
		Definition   string    `json:"definition" yaml:"definition"`
		DefinitionID string    `json:"definitionId,omitempty" yaml:"definitionId,omitempty"`
		Version      *int      `json:"version,omitempty" yaml:"version,omitempty"`
		Created      time.Time `json:"created" yaml:"created"`
		Root         *Step     `json:"root" yaml:"root"`
	}
)

// IsComposite returns true if the step owns a child graph
func (s *Step) IsComposite() bool {
	return s.Children != nil
}

// Child returns the direct child step with id
func (s *Step) Child(id int) *Step {
	if s.Children == nil {
		return nil
	}
	if vertex := s.Children.Vertex(id); vertex != nil {
		return vertex.Value
	}
	return nil
}

// ChildByName returns the first direct child step named name
func (s *Step) ChildByName(name string) *Step {
	if s.Children == nil {
		return nil
	}
	for _, vertex := range s.Children.Vertices {
		if vertex.Value.Name == name {
			return vertex.Value
		}
	}
	return nil
}

// Start returns the start child step
func (s *Step) Start() *Step {
	if s.Children == nil {
		return nil
	}
	if vertex := s.Children.StartVertex(); vertex != nil {
		return vertex.Value
	}
	return nil
}
