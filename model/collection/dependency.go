package collection

import (
	"context"
	"fmt"
	"strings"

	"github.com/viant/procdef/model/item"
	"github.com/viant/procdef/model/property"
	"github.com/viant/procdef/model/types"
	"github.com/viant/toolbox"
)

// Dependency is a variable arity collection of distinct entities sharing
// collection level properties and class properties. Dependencies never hold
// empty slots.
type Dependency struct {
	Collection
	Properties property.Properties `json:"properties,omitempty" yaml:"properties,omitempty"`
	ClassProps string              `json:"classProps,omitempty" yaml:"classProps,omitempty"`
}

// NewDependency creates an empty dependency
func NewDependency(name string, version *int) *Dependency {
	return &Dependency{Collection: Collection{Name: name, Version: version}}
}

// Unique returns false when duplicate entities were allowed on the dependency
func (d *Dependency) Unique() bool {
	return !toolbox.AsBoolean(d.Properties.Value(property.DependencyAllowDuplicateItems))
}

// SetUnique toggles the entity uniqueness rule
func (d *Dependency) SetUnique(unique bool) {
	if unique {
		d.Properties.Remove(property.DependencyAllowDuplicateItems)
		return
	}
	d.Properties.Put(property.DependencyAllowDuplicateItems, true)
}

// ClassPropKeys returns the class property keys of the dependency
func (d *Dependency) ClassPropKeys() []string {
	return splitClassProps(d.ClassProps)
}

// ClassProperties returns the collection properties named by the class properties
func (d *Dependency) ClassProperties() property.Properties {
	var ret property.Properties
	for _, key := range d.ClassPropKeys() {
		if prop, ok := d.Properties.Get(key); ok {
			ret.Set(prop.Clone())
		}
	}
	return ret
}

// AddMember creates a member bound to entity. Class property values are seeded
// from the collection before the type check; nothing changes on failure.
func (d *Dependency) AddMember(ctx context.Context, reader item.PropertyReader, entity item.Identity, props property.Properties, classProps string) (*Member, error) {
	if entity.IsEmpty() {
		return nil, types.NewInvalidCollectionModificationError("dependency %s cannot hold empty slots", d.Name)
	}
	if d.Unique() && d.Contains(entity) {
		return nil, fmt.Errorf("%w: %s is already a member of dependency %s", types.ErrObjectAlreadyExists, entity, d.Name)
	}
	if classProps != "" && !sameKeys(classProps, d.ClassProps) {
		return nil, types.NewInvalidCollectionModificationError("dependency %s: cannot change classProps '%s' to '%s'", d.Name, d.ClassProps, classProps)
	}
	member := &Member{ID: d.peekMemberID(), Properties: props.Clone(), ClassProps: d.ClassProps}
	for _, key := range d.ClassPropKeys() {
		collectionValue := d.Properties.String(key)
		if prop, ok := props.Get(key); ok && toolbox.AsString(prop.Value) != collectionValue {
			return nil, types.NewInvalidCollectionModificationError("dependency %s: member cannot change classProp %s", d.Name, key)
		}
		member.Properties.Put(key, d.Properties.Value(key))
	}
	if err := member.checkType(ctx, reader, entity, strings.EqualFold); err != nil {
		return nil, fmt.Errorf("dependency %s: %w", d.Name, err)
	}
	member.Entity = entity
	d.commitMemberID(member.ID)
	d.Members = append(d.Members, member)
	return member, nil
}

// AssignItem rebinds member id to entity after the case-insensitive class property check
func (d *Dependency) AssignItem(ctx context.Context, reader item.PropertyReader, id int, entity item.Identity) error {
	member, err := d.Member(id)
	if err != nil {
		return err
	}
	if entity.IsEmpty() {
		return types.NewInvalidCollectionModificationError("dependency %s: member %d cannot be emptied", d.Name, id)
	}
	if d.Unique() {
		for _, other := range d.MembersByEntity(entity) {
			if other.ID != id {
				return fmt.Errorf("%w: %s is already a member of dependency %s", types.ErrObjectAlreadyExists, entity, d.Name)
			}
		}
	}
	if err := member.checkType(ctx, reader, entity, strings.EqualFold); err != nil {
		return fmt.Errorf("dependency %s: %w", d.Name, err)
	}
	member.Entity = entity
	return nil
}

// RemoveMember removes the member with id
func (d *Dependency) RemoveMember(id int) error {
	return d.removeMember(id)
}

// RemoveMemberByEntity removes the single member bound to entity
func (d *Dependency) RemoveMemberByEntity(entity item.Identity) error {
	members, err := d.ResolveMembers(-1, entity)
	if err != nil {
		return err
	}
	if len(members) > 1 {
		return types.NewObjectNotFoundError("%s is referenced by %d members of %s, use the member id", entity, len(members), d.Name)
	}
	return d.removeMember(members[0].ID)
}

// UpdateMember overwrites existing member properties; class properties cannot change
func (d *Dependency) UpdateMember(id int, props property.Properties) error {
	member, err := d.Member(id)
	if err != nil {
		return err
	}
	classKeys := d.ClassPropKeys()
	for _, prop := range props {
		for _, key := range classKeys {
			if key == prop.Key {
				return types.NewInvalidCollectionModificationError("dependency %s: member %d cannot change classProp %s", d.Name, id, key)
			}
		}
		if !member.Properties.Has(prop.Key) {
			return types.NewInvalidCollectionModificationError("dependency %s: property %s does not exist for member %d", d.Name, prop.Key, id)
		}
	}
	member.Properties.Merge(props)
	return nil
}

// Compare returns members of other bound to entities absent from d
func (d *Dependency) Compare(other *Dependency) []*Member {
	var ret []*Member
	for _, member := range other.Members {
		if !d.Contains(member.Entity) {
			ret = append(ret, member)
		}
	}
	return ret
}

// Clone returns a deep copy
func (d *Dependency) Clone() *Dependency {
	return &Dependency{
		Collection: d.clone(),
		Properties: d.Properties.Clone(),
		ClassProps: d.ClassProps,
	}
}

func sameKeys(a, b string) bool {
	left, right := splitClassProps(a), splitClassProps(b)
	if len(left) != len(right) {
		return false
	}
	for i := range left {
		if left[i] != right[i] {
			return false
		}
	}
	return true
}
