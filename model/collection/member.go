package collection

import (
	"context"
	"strings"

	"github.com/viant/procdef/model/item"
	"github.com/viant/procdef/model/property"
	"github.com/viant/procdef/model/types"
	"github.com/viant/toolbox"
)

// Member is one typed reference held by a collection
type Member struct {
	ID         int                 `json:"id" yaml:"id"`
	Entity     item.Identity       `json:"entity,omitempty" yaml:"entity,omitempty"`
	Properties property.Properties `json:"properties,omitempty" yaml:"properties,omitempty"`
	ClassProps string              `json:"classProps,omitempty" yaml:"classProps,omitempty"`
}

// IsEmpty returns true for an unbound slot
func (m *Member) IsEmpty() bool {
	return m.Entity.IsEmpty()
}

// ClassPropKeys returns the trimmed, non blank class property keys
func (m *Member) ClassPropKeys() []string {
	return splitClassProps(m.ClassProps)
}

// TypeCheck returns false when type checking was disabled on the member
func (m *Member) TypeCheck() bool {
	value, ok := m.Properties.Get(property.DependencyDisableTypeCheck)
	if !ok {
		return true
	}
	return !toolbox.AsBoolean(value.Value)
}

// Clone returns a deep copy of the member
func (m *Member) Clone() *Member {
	ret := *m
	ret.Properties = m.Properties.Clone()
	return &ret
}

// checkType compares every class property of the member with the entity's own
// stored value using equal
func (m *Member) checkType(ctx context.Context, reader item.PropertyReader, entity item.Identity, equal func(a, b string) bool) error {
	if !m.TypeCheck() {
		return nil
	}
	for _, key := range m.ClassPropKeys() {
		if reader == nil {
			return types.NewInvalidCollectionModificationError("member %d: no property reader to check classProp %s", m.ID, key)
		}
		actual, ok, err := reader.ItemProperty(ctx, entity, key)
		if err != nil {
			return types.Wrap(types.ErrInvalidCollectionModification, err, "member %d: failed to read %s of %s", m.ID, key, entity)
		}
		if !ok {
			return types.NewInvalidCollectionModificationError("member %d: property %s does not exist for item %s", m.ID, key, entity)
		}
		expected := m.Properties.String(key)
		if !equal(actual, expected) {
			return types.NewInvalidCollectionModificationError("member %d: value of classProp %s of item %s (%s) does not match %s", m.ID, key, entity, actual, expected)
		}
	}
	return nil
}

func splitClassProps(classProps string) []string {
	var ret []string
	for _, key := range strings.Split(classProps, ",") {
		if key = strings.TrimSpace(key); key != "" {
			ret = append(ret, key)
		}
	}
	return ret
}

func exactMatch(a, b string) bool {
	return a == b
}
