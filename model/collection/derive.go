package collection

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/viant/procdef/model/item"
	"github.com/viant/procdef/model/property"
	"github.com/viant/procdef/model/types"
)

// Script input names
const (
	InputDependency       = "dependency"
	InputDependencyMember = "dependencyMember"
)

type (
	// ResourceLoader resolves a built-in resource reference and verifies it exists
	ResourceLoader interface {
		ResolveResource(ctx context.Context, kind string, nameOrID string, version *int) (item.Identity, error)
	}

	// ScriptEvaluator runs a named, versioned script with input bindings
	ScriptEvaluator interface {
		Evaluate(ctx context.Context, name string, version *int, inputs map[string]interface{}) (interface{}, error)
	}

	// Deriver computes item and vertex properties from dependencies, either with
	// a script named by the dependency (or member) or with the built-in category table.
	Deriver struct {
		resources          ResourceLoader
		scripts            ScriptEvaluator
		handles            map[string]interface{}
		addStateMachineURN bool
		addWorkflowURN     bool
	}

	// DeriverOption customises a Deriver
	DeriverOption func(d *Deriver)
)

// WithScripts sets the script collaborator
func WithScripts(scripts ScriptEvaluator) DeriverOption {
	return func(d *Deriver) { d.scripts = scripts }
}

// WithHandles sets read-only collaborator handles passed to scripts
func WithHandles(handles map[string]interface{}) DeriverOption {
	return func(d *Deriver) { d.handles = handles }
}

// WithStateMachineURN enables the state machine item property
func WithStateMachineURN(flag bool) DeriverOption {
	return func(d *Deriver) { d.addStateMachineURN = flag }
}

// WithWorkflowURN enables the workflow item property
func WithWorkflowURN(flag bool) DeriverOption {
	return func(d *Deriver) { d.addWorkflowURN = flag }
}

// NewDeriver creates a Deriver
func NewDeriver(resources ResourceLoader, opts ...DeriverOption) *Deriver {
	ret := &Deriver{resources: resources}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// ItemProperties returns the item properties contributed by dep: URN entries
// "id:version" for built-in categories, or script output.
func (d *Deriver) ItemProperties(ctx context.Context, dep *Dependency) (property.Properties, error) {
	if name := dep.Properties.String(property.ScriptName); name != "" {
		return d.evaluate(ctx, name, dep.Properties.Value(property.ScriptVersion), InputDependency, dep)
	}
	var ret property.Properties
	category, ok := LookupCategory(dep.Name)
	if ok && category.contributesItem(d) {
		if !category.Multi && dep.Size() > 1 {
			return nil, types.NewInvalidDataError("%s dependency can hold only one member, has %d", dep.Name, dep.Size())
		}
		var urns property.Properties
		for _, member := range dep.Members {
			if member.Properties.String(property.ScriptName) != "" {
				continue
			}
			id, version, err := d.resolve(ctx, category, member, nil)
			if err != nil {
				return nil, err
			}
			urn := id.String() + ":" + property.VersionName(version)
			if category.Multi {
				urns.Put(memberName(member), urn)
				continue
			}
			ret.Put(category.URNKey, urn)
		}
		if len(urns) > 0 {
			ret.Put(category.URNKey, urns)
		}
	}
	for _, member := range dep.Members {
		name := member.Properties.String(property.ScriptName)
		if name == "" {
			continue
		}
		props, err := d.evaluate(ctx, name, member.Properties.Value(property.ScriptVersion), InputDependencyMember, member)
		if err != nil {
			return nil, err
		}
		ret.Merge(props)
	}
	return ret, nil
}

// VertexProperties adds the vertex properties contributed by dep to target.
// Single member categories set their name/version keys, the activity category
// adds a per-step bag of "id~version" entries, any other dependency adds its
// shared properties as a bag under its own name. target is unchanged on error.
func (d *Deriver) VertexProperties(ctx context.Context, dep *Dependency, target *property.Properties) error {
	work := target.Clone()
	if name := dep.Properties.String(property.ScriptName); name != "" {
		props, err := d.evaluate(ctx, name, dep.Properties.Value(property.ScriptVersion), InputDependency, dep)
		if err != nil {
			return err
		}
		work.Merge(props)
		*target = work
		return nil
	}
	category, isCategory := LookupCategory(dep.Name)
	if isCategory && !category.Multi && dep.Size() > 1 {
		return types.NewInvalidDataError("%s dependency can hold only one member, has %d", dep.Name, dep.Size())
	}
	var urns property.Properties
	for _, member := range dep.Members {
		if name := member.Properties.String(property.ScriptName); name != "" {
			props, err := d.evaluate(ctx, name, member.Properties.Value(property.ScriptVersion), InputDependencyMember, member)
			if err != nil {
				return err
			}
			work.Merge(props)
			continue
		}
		if !isCategory {
			continue
		}
		id, version, err := d.resolve(ctx, category, member, work)
		if err != nil {
			return err
		}
		if category.Multi {
			urns.Put(memberName(member), id.String()+"~"+property.VersionName(version))
			continue
		}
		work.Put(category.NameKey, id.String())
		if version != nil {
			work.Put(category.VersionKey, *version)
		} else {
			work.Put(category.VersionKey, property.Last)
		}
	}
	if len(urns) > 0 {
		existing, _ := work.Nested(category.URNKey)
		merged := existing.Clone()
		merged.Merge(urns)
		work.Put(category.URNKey, merged)
	}
	if !isCategory {
		if shared := sharedProperties(dep); len(shared) > 0 {
			work.Put(dep.Name, shared)
		}
	}
	*target = work
	return nil
}

// resolve returns the identity and version of the resource referenced by
// member. When the resource is missing and fallback carries an old style
// property based reference, that reference is used instead.
func (d *Deriver) resolve(ctx context.Context, category *Category, member *Member, fallback property.Properties) (item.Identity, *int, error) {
	if d.resources == nil {
		return "", nil, types.NewInvalidDataError("no resource loader for %s dependency", category.Name)
	}
	version, err := property.DeriveVersion(member.Properties.Value(property.Version))
	if err != nil {
		return "", nil, fmt.Errorf("%s member %d: %w", category.Name, member.ID, err)
	}
	id, err := d.resources.ResolveResource(ctx, category.ResourceKind, member.Entity.String(), version)
	if err == nil {
		return id, version, nil
	}
	err = types.Wrap(types.ErrObjectNotFound, err, "%s member %d", category.Name, member.ID)
	if !errors.Is(err, types.ErrObjectNotFound) || fallback == nil || category.NameKey == "" {
		return "", nil, err
	}
	name := fallback.String(category.NameKey)
	if name == "" {
		return "", nil, err
	}
	fallbackVersion, verr := property.DeriveVersion(fallback.Value(category.VersionKey))
	if verr != nil {
		return "", nil, verr
	}
	id, ferr := d.resources.ResolveResource(ctx, category.ResourceKind, name, fallbackVersion)
	if ferr != nil {
		return "", nil, err
	}
	slog.Debug("resolved property based reference", "category", category.Name, "name", name, "id", id)
	return id, fallbackVersion, nil
}

func (d *Deriver) evaluate(ctx context.Context, name string, versionValue interface{}, inputName string, input interface{}) (property.Properties, error) {
	if d.scripts == nil {
		return nil, types.NewInvalidDataError("no script evaluator for script %s", name)
	}
	version, err := property.DeriveVersion(versionValue)
	if err != nil {
		return nil, fmt.Errorf("script %s: %w", name, err)
	}
	inputs := map[string]interface{}{inputName: input}
	for k, v := range d.handles {
		inputs[k] = v
	}
	result, err := d.scripts.Evaluate(ctx, name, version, inputs)
	if err != nil {
		return nil, fmt.Errorf("script %s: %w", name, err)
	}
	props, err := property.FromValue(result)
	if err != nil {
		return nil, types.NewInvalidDataError("script %s returned null or the wrong type: %v", name, err)
	}
	return props, nil
}

func memberName(member *Member) string {
	if name := member.Properties.String(property.Name); name != "" {
		return name
	}
	return member.Entity.String()
}

func sharedProperties(dep *Dependency) property.Properties {
	var ret property.Properties
	for _, prop := range dep.Properties {
		switch prop.Key {
		case property.ScriptName, property.ScriptVersion, property.DependencyAllowDuplicateItems:
			continue
		}
		if prop.Abstract {
			continue
		}
		ret.Set(prop.Clone())
	}
	return ret
}
