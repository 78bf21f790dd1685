package collection

import (
	"context"
	"log/slog"
	"strings"

	"github.com/viant/procdef/model/item"
	"github.com/viant/procdef/model/property"
	"github.com/viant/procdef/model/types"
)

// DescriptionMarker terminates the name of a dependency description
const DescriptionMarker = "'"

// DescriptionLoader loads the property description of an item type
type DescriptionLoader interface {
	PropertyDescription(ctx context.Context, entity item.Identity, version *int) (*property.DescriptionList, error)
}

// DependencyDescription is a description time dependency holding at most one
// member: the item type whose instances the derived dependency will reference.
type DependencyDescription struct {
	Dependency
}

// NewDependencyDescription creates an empty dependency description
func NewDependencyDescription(name string, version *int) *DependencyDescription {
	return &DependencyDescription{Dependency: Dependency{Collection: Collection{Name: name, Version: version}}}
}

// AddMember adds the single member of the description
func (d *DependencyDescription) AddMember(ctx context.Context, reader item.PropertyReader, entity item.Identity, props property.Properties, classProps string) (*Member, error) {
	if d.Size() > 0 {
		return nil, types.NewInvalidCollectionModificationError("dependency description %s cannot hold more than one member", d.Name)
	}
	return d.Dependency.AddMember(ctx, reader, entity, props, classProps)
}

// NewInstance derives a fresh Dependency from the referenced item's property
// description. Without exactly one member the dependency has no typing
// constraints and a warning is logged.
func (d *DependencyDescription) NewInstance(ctx context.Context, loader DescriptionLoader) (*Dependency, error) {
	ret := NewDependency(strings.TrimSuffix(d.Name, DescriptionMarker), nil)
	if d.Size() == 1 {
		member := d.Members[0]
		version, err := property.DeriveVersion(member.Properties.Value(property.Version))
		if err != nil {
			return nil, err
		}
		if loader == nil {
			return nil, types.NewInvalidDataError("no description loader for %s dependency", d.Name)
		}
		list, err := loader.PropertyDescription(ctx, member.Entity, version)
		if err != nil {
			return nil, types.Wrap(types.ErrObjectNotFound, err, "property description of %s", member.Entity)
		}
		if list != nil {
			ret.Properties = list.Transitive()
			ret.ClassProps = list.ClassProps()
		} else {
			slog.Warn("no property description", "dependency", d.Name, "entity", member.Entity)
		}
	} else {
		slog.Warn("dependency description must have exactly one member", "dependency", d.Name, "members", d.Size())
	}
	ret.Properties.Merge(d.Properties)
	return ret, nil
}
