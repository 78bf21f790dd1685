package collection

import (
	"context"
	"fmt"

	"github.com/viant/procdef/model/graph"
	"github.com/viant/procdef/model/item"
	"github.com/viant/procdef/model/property"
)

// Size is the rendered extent of an aggregation slot
type Size struct {
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// Aggregation is a fixed-slot collection; every member owns a layout vertex
// with the same id. Slots may be empty.
type Aggregation struct {
	Collection
	Layout *graph.Graph[Size] `json:"layout,omitempty" yaml:"layout,omitempty"`
}

// NewAggregation creates an empty aggregation
func NewAggregation(name string, version *int) *Aggregation {
	return &Aggregation{Collection: Collection{Name: name, Version: version}, Layout: graph.New[Size]()}
}

// AddSlot creates an empty slot
func (a *Aggregation) AddSlot(props property.Properties, classProps string, position graph.Point, size Size) *Member {
	id := a.Layout.AddVertex(size, position)
	member := &Member{ID: id, Properties: props.Clone(), ClassProps: classProps}
	a.commitMemberID(id)
	a.Members = append(a.Members, member)
	return member
}

// AddMember creates a slot bound to entity; class properties compare exactly
func (a *Aggregation) AddMember(ctx context.Context, reader item.PropertyReader, entity item.Identity, props property.Properties, classProps string, position graph.Point, size Size) (*Member, error) {
	candidate := &Member{ID: a.Layout.NextID, Properties: props.Clone(), ClassProps: classProps}
	if !entity.IsEmpty() {
		if err := candidate.checkType(ctx, reader, entity, exactMatch); err != nil {
			return nil, fmt.Errorf("aggregation %s: %w", a.Name, err)
		}
	}
	member := a.AddSlot(candidate.Properties, classProps, position, size)
	member.Entity = entity
	return member, nil
}

// AssignItem binds slot id to entity; the empty identity clears the slot
func (a *Aggregation) AssignItem(ctx context.Context, reader item.PropertyReader, id int, entity item.Identity) error {
	member, err := a.Member(id)
	if err != nil {
		return err
	}
	if entity.IsEmpty() {
		member.Entity = ""
		return nil
	}
	if err := member.checkType(ctx, reader, entity, exactMatch); err != nil {
		return fmt.Errorf("aggregation %s: %w", a.Name, err)
	}
	member.Entity = entity
	return nil
}

// ClearSlot unbinds slot id, keeping the slot and its layout
func (a *Aggregation) ClearSlot(id int) error {
	member, err := a.Member(id)
	if err != nil {
		return err
	}
	member.Entity = ""
	return nil
}

// RemoveMember deletes the slot and its layout vertex
func (a *Aggregation) RemoveMember(id int) error {
	if err := a.removeMember(id); err != nil {
		return err
	}
	if a.Layout.Vertex(id) != nil {
		return a.Layout.RemoveVertex(id)
	}
	return nil
}

// IsFull returns true when every slot is bound
func (a *Aggregation) IsFull() bool {
	for _, member := range a.Members {
		if member.IsEmpty() {
			return false
		}
	}
	return true
}

// MemberLayout returns the layout vertex of slot id
func (a *Aggregation) MemberLayout(id int) *graph.Vertex[Size] {
	return a.Layout.Vertex(id)
}
