package lifecycle

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/viant/procdef/model/collection"
	"github.com/viant/procdef/model/graph"
	"github.com/viant/procdef/model/instance"
	"github.com/viant/procdef/model/item"
	"github.com/viant/procdef/model/property"
	"github.com/viant/procdef/model/types"
)

// instantiation carries the collaborators of one Instantiate call and the
// chain of shared definitions being expanded
type instantiation struct {
	resolver Resolver
	deriver  *collection.Deriver
	path     []string
}

// Instantiate creates an independent runtime step from the definition. Child
// ids, transition ids, the id counter and the start step are preserved. Slots
// are expanded into their shared definitions with the slot's properties on top.
// Dependencies of each definition feed properties through deriver; nested
// property bags on a composite are then pushed down to its children. The
// definition is only read, so concurrent calls are safe while it is not mutated.
func (d *StepDefinition) Instantiate(ctx context.Context, resolver Resolver, deriver *collection.Deriver) (*instance.Step, error) {
	if deriver == nil {
		deriver = collection.NewDeriver(&definitionResources{resolver: resolver})
	}
	in := &instantiation{resolver: resolver, deriver: deriver, path: []string{d.pathKey()}}
	return in.definition(ctx, d)
}

func (in *instantiation) definition(ctx context.Context, d *StepDefinition) (*instance.Step, error) {
	step := &instance.Step{
		ID:         d.ID,
		Kind:       runtimeKind(d.Kind),
		Name:       d.Name,
		Type:       d.Name,
		TypeID:     d.ItemID.String(),
		Properties: d.Properties.Clone(),
	}
	if d.Version != nil {
		version := *d.Version
		step.Version = &version
	}
	for _, dep := range d.Collections {
		if err := in.deriver.VertexProperties(ctx, dep, &step.Properties); err != nil {
			return nil, fmt.Errorf("%s: dependency %s: %w", d.Name, dep.Name, err)
		}
	}
	if !d.IsComposite() {
		propagate(step, []*instance.Step{step})
		return step, nil
	}
	children, err := graph.Map(d.Children, func(vertex *graph.Vertex[*StepDefinition]) (*instance.Step, error) {
		return in.child(ctx, d, vertex.Value)
	})
	if err != nil {
		return nil, err
	}
	step.Children = children
	targets := make([]*instance.Step, 0, len(children.Vertices))
	for _, vertex := range children.Vertices {
		targets = append(targets, vertex.Value)
	}
	propagate(step, targets)
	return step, nil
}

func (in *instantiation) child(ctx context.Context, owner, child *StepDefinition) (*instance.Step, error) {
	var step *instance.Step
	var err error
	switch child.Kind {
	case Slot:
		target, rErr := owner.ResolveSlot(ctx, in.resolver, child)
		if rErr != nil {
			return nil, fmt.Errorf("step %s: %w", child.Name, rErr)
		}
		if step, err = in.shared(ctx, target); err != nil {
			return nil, fmt.Errorf("step %s: %w", child.Name, err)
		}
		step.ID = child.ID
		step.Name = child.Name
		step.Properties.Merge(child.Properties)
	case LocalAtomic, LocalComposite:
		if step, err = in.definition(ctx, child); err != nil {
			return nil, fmt.Errorf("step %s: %w", child.Name, err)
		}
	default:
		step = &instance.Step{ID: child.ID, Kind: runtimeKind(child.Kind), Name: child.Name, Properties: child.Properties.Clone()}
	}
	if abstract := step.Properties.Abstract(); len(abstract) > 0 {
		return nil, fmt.Errorf("%w: step %s: %s", types.ErrAbstractPropertyNotOverridden, child.Name, strings.Join(abstract, ","))
	}
	return step, nil
}

// shared expands a shared definition reached through a slot, rejecting
// definitions that include themselves
func (in *instantiation) shared(ctx context.Context, target *StepDefinition) (*instance.Step, error) {
	key := target.pathKey()
	for _, visited := range in.path {
		if visited == key {
			return nil, types.NewInvalidDataError("definition %s includes itself", key)
		}
	}
	in.path = append(in.path, key)
	defer func() { in.path = in.path[:len(in.path)-1] }()
	return in.definition(ctx, target)
}

// propagate moves nested property bags of source into targets. A bag stored
// under a multi category key holds one value per step, selected by step id or
// type; a bag under a numeric key belongs to the step with that id; any other
// bag is shared by every target.
func propagate(source *instance.Step, targets []*instance.Step) {
	for _, prop := range append(property.Properties(nil), source.Properties...) {
		nested, ok := prop.Value.(property.Properties)
		if !ok {
			continue
		}
		source.Properties.Remove(prop.Key)
		if _, isCategory := collection.CategoryByKey(prop.Key); isCategory {
			for _, target := range targets {
				if value, found := selectValue(nested, target); found {
					target.Properties.Put(prop.Key, value)
				}
			}
			continue
		}
		if id, err := strconv.Atoi(prop.Key); err == nil {
			for _, target := range targets {
				if target.ID == id {
					target.Properties.Merge(nested)
				}
			}
			continue
		}
		for _, target := range targets {
			target.Properties.Merge(nested)
		}
	}
}

func selectValue(bag property.Properties, target *instance.Step) (interface{}, bool) {
	if prop, ok := bag.Get(strconv.Itoa(target.ID)); ok {
		return prop.Value, true
	}
	if prop, ok := bag.Get(target.Type); ok {
		return prop.Value, true
	}
	return nil, false
}

// definitionResources resolves Definition resources through a Resolver
type definitionResources struct {
	resolver Resolver
}

func (r *definitionResources) ResolveResource(ctx context.Context, kind string, nameOrID string, version *int) (item.Identity, error) {
	if kind != collection.ResourceDefinition || r.resolver == nil {
		return "", types.NewObjectNotFoundError("%s resource %s", kind, nameOrID)
	}
	d, err := r.resolver.Definition(ctx, nameOrID, version)
	if err != nil {
		return "", err
	}
	return item.Identity(d.Identity()), nil
}

func (d *StepDefinition) pathKey() string {
	return d.Identity() + "@" + d.VersionName()
}

func runtimeKind(kind Kind) string {
	switch kind {
	case Atomic, LocalAtomic:
		return instance.KindAtomic
	case Composite, LocalComposite:
		return instance.KindComposite
	}
	return string(kind)
}
