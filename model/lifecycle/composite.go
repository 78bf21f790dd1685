package lifecycle

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/viant/procdef/model/collection"
	"github.com/viant/procdef/model/graph"
	"github.com/viant/procdef/model/item"
	"github.com/viant/procdef/model/property"
	"github.com/viant/procdef/model/types"
	"github.com/viant/toolbox"
)

// Child returns the child definition with id or nil
func (d *StepDefinition) Child(id int) *StepDefinition {
	if d.Children == nil {
		return nil
	}
	if vertex := d.Children.Vertex(id); vertex != nil {
		return vertex.Value
	}
	return nil
}

// ChildByName returns the first child definition named name or nil
func (d *StepDefinition) ChildByName(name string) *StepDefinition {
	if d.Children == nil {
		return nil
	}
	for _, vertex := range d.Children.Vertices {
		if vertex.Value.Name == name {
			return vertex.Value
		}
	}
	return nil
}

// SharedDefinitions returns the collection recording shared definitions
// referenced by slots of this composite, or nil
func (d *StepDefinition) SharedDefinitions() *collection.Dependency {
	return d.Dependency(collection.CategoryActivity)
}

// NewChild adds a step of kind to the composite's child graph. Atomic and
// Composite kinds reference the shared definition (name, version) through a
// slot; the shared definition is recorded once per composite. The first child
// becomes the start step.
func (d *StepDefinition) NewChild(ctx context.Context, resolver Resolver, name string, kind Kind, version *int, position graph.Point) (*StepDefinition, error) {
	if !d.IsComposite() {
		return nil, types.NewInvalidDataError("%s is not a composite definition", d.Name)
	}
	var child *StepDefinition
	switch kind {
	case Atomic, Composite:
		if resolver == nil {
			return nil, types.NewInvalidDataError("no definition resolver to add %s", name)
		}
		shared, err := resolver.Definition(ctx, name, version)
		if err != nil {
			return nil, fmt.Errorf("%w: %s version %s: %w", types.ErrUnknownDefinition, name, property.VersionName(version), err)
		}
		if shared.Kind.IsComposite() != kind.IsComposite() {
			return nil, types.NewInvalidDataError("%s is %s, not %s", name, shared.Kind, kind)
		}
		if err = d.recordShared(ctx, shared); err != nil {
			return nil, err
		}
		child = &StepDefinition{Kind: Slot, Name: name, Reference: shared.Identity(), TargetKind: shared.Kind}
		if shared.Version != nil {
			child.Properties.Put(property.Version, *shared.Version)
		} else {
			child.Properties.Put(property.Version, property.Last)
		}
	case LocalAtomic:
		child = &StepDefinition{Kind: LocalAtomic, Name: name}
	case LocalComposite:
		child = &StepDefinition{Kind: LocalComposite, Name: name, Children: graph.New[*StepDefinition]()}
	case AndSplit, OrSplit, XOrSplit, Join, Loop:
		child = &StepDefinition{Kind: kind, Name: name}
	default:
		return nil, types.NewInvalidDataError("unsupported step kind %q", kind)
	}
	child.ID = d.Children.AddVertex(child, position)
	if child.Name == "" && kind.IsControl() {
		child.Name = strconv.Itoa(child.ID)
	}
	if d.Children.StartVertexID == graph.NoVertex {
		d.Children.StartVertexID = child.ID
	}
	return child, nil
}

// recordShared adds shared to the composite's shared definition record unless
// the same (name, version) is already there
func (d *StepDefinition) recordShared(ctx context.Context, shared *StepDefinition) error {
	dep := d.SharedDefinitions()
	if dep != nil {
		for _, member := range dep.Members {
			if member.Properties.String(property.Name) != shared.Name && member.Entity.String() != shared.Identity() {
				continue
			}
			recorded, err := property.DeriveVersion(member.Properties.Value(property.Version))
			if err != nil {
				return err
			}
			if property.SameVersion(recorded, shared.Version) {
				return nil
			}
			return fmt.Errorf("%w: %s is already used at version %s, requested %s", types.ErrVersionConflict,
				shared.Name, property.VersionName(recorded), shared.VersionName())
		}
	}
	if dep == nil {
		dep = collection.NewDependency(collection.CategoryActivity, nil)
		d.Collections = append(d.Collections, dep)
	}
	props := property.Properties{property.Concrete(property.Name, shared.Name)}
	if shared.Version != nil {
		props.Put(property.Version, *shared.Version)
	} else {
		props.Put(property.Version, property.Last)
	}
	_, err := dep.AddMember(ctx, nil, item.Identity(shared.Identity()), props, "")
	return err
}

// AddTransition links origin to terminus with a Next transition. Transitions
// leaving an Or/XOr split or a loop get the next branch alias taken from the
// origin's LastNum property.
func (d *StepDefinition) AddTransition(originID, terminusID int) (int, error) {
	if d.Children == nil {
		return 0, types.NewInvalidDataError("%s is not a composite definition", d.Name)
	}
	origin := d.Child(originID)
	if origin == nil {
		return 0, fmt.Errorf("%w: origin %d", types.ErrUnknownVertex, originID)
	}
	if !origin.Kind.aliased() {
		return d.Children.AddEdge(originID, terminusID, nil)
	}
	num := len(d.Children.Vertex(originID).OutEdgeIDs)
	if lastNum, ok := origin.Properties.Get(property.LastNum); ok {
		if value, err := toolbox.ToInt(lastNum.Value); err == nil {
			num = value
		}
	}
	id, err := d.Children.AddEdge(originID, terminusID, property.Properties{property.Concrete(property.Alias, num)})
	if err != nil {
		return 0, err
	}
	origin.Properties.Put(property.LastNum, num+1)
	return id, nil
}

// RemoveChild removes a child step and its transitions; shared definitions no
// longer referenced by any slot are dropped from the record
func (d *StepDefinition) RemoveChild(id int) error {
	if d.Children == nil {
		return types.NewInvalidDataError("%s is not a composite definition", d.Name)
	}
	child := d.Child(id)
	if err := d.Children.RemoveVertex(id); err != nil {
		return err
	}
	if child.Kind != Slot {
		return nil
	}
	for _, vertex := range d.Children.Vertices {
		if vertex.Value.Kind == Slot && vertex.Value.Reference == child.Reference {
			return nil
		}
	}
	if dep := d.SharedDefinitions(); dep != nil {
		if members := dep.MembersByEntity(item.Identity(child.Reference)); len(members) == 1 {
			return dep.RemoveMember(members[0].ID)
		}
	}
	return nil
}

// SetStart declares the start step of the composite
func (d *StepDefinition) SetStart(id int) error {
	if d.Children == nil {
		return types.NewInvalidDataError("%s is not a composite definition", d.Name)
	}
	return d.Children.SetStartVertexID(id)
}

// ResolveSlot resolves slot to its shared definition. The composite's shared
// definition record is searched first by identity or name; the slot's declared
// version always wins over the recorded one. Otherwise the definition is loaded
// by the slot's (Reference, Version) pair.
func (d *StepDefinition) ResolveSlot(ctx context.Context, resolver Resolver, slot *StepDefinition) (*StepDefinition, error) {
	if slot.Kind != Slot {
		return nil, types.NewInvalidDataError("%s is not a slot", slot.Name)
	}
	if resolver == nil {
		return nil, types.NewInvalidDataError("no definition resolver for slot %s", slot.Name)
	}
	versionProperty, ok := slot.Properties.Get(property.Version)
	if !ok {
		return nil, types.NewInvalidDataError("slot %s has no version", slot.Name)
	}
	version, err := property.DeriveVersion(versionProperty.Value)
	if err != nil {
		return nil, fmt.Errorf("slot %s: %w", slot.Name, err)
	}
	if dep := d.SharedDefinitions(); dep != nil {
		for _, member := range dep.Members {
			if member.Entity.String() != slot.Reference && member.Properties.String(property.Name) != slot.Reference {
				continue
			}
			recorded, _ := property.DeriveVersion(member.Properties.Value(property.Version))
			if !property.SameVersion(recorded, version) {
				slog.Debug("slot version differs from recorded shared definition", "slot", slot.Name,
					"recorded", property.VersionName(recorded), "required", property.VersionName(version))
			}
			if target, err := resolver.Definition(ctx, member.Entity.String(), version); err == nil {
				return target, nil
			}
			break
		}
	}
	target, err := resolver.Definition(ctx, slot.Reference, version)
	if err != nil {
		return nil, types.Wrap(types.ErrObjectNotFound, err, "slot %s: definition %s version %s", slot.Name, slot.Reference, property.VersionName(version))
	}
	return target, nil
}
