package collection

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/procdef/model/graph"
	"github.com/viant/procdef/model/item"
	"github.com/viant/procdef/model/property"
	"github.com/viant/procdef/model/types"
)

type descriptions map[item.Identity]*property.DescriptionList

func (d descriptions) PropertyDescription(_ context.Context, entity item.Identity, _ *int) (*property.DescriptionList, error) {
	list, ok := d[entity]
	if !ok {
		return nil, types.NewObjectNotFoundError("property description of %s", entity)
	}
	return list, nil
}

func TestDependencyDescription_NewInstance(t *testing.T) {
	ctx := context.Background()
	loader := descriptions{"invoice": {Name: "Invoice", Items: []*property.Description{
		{Name: "Type", DefaultValue: "Invoice", ClassIdentifier: true},
		{Name: "Currency", DefaultValue: "EUR", Transitive: true},
		{Name: "Number"},
	}}}

	desc := NewDependencyDescription("Invoices'", nil)
	desc.Properties.Put("Owner", "finance")
	_, err := desc.AddMember(ctx, nil, "invoice", property.Properties{property.Concrete(property.Version, 0)}, "")
	require.NoError(t, err)
	_, err = desc.AddMember(ctx, nil, "order", nil, "")
	assert.True(t, errors.Is(err, types.ErrInvalidCollectionModification))

	dep, err := desc.NewInstance(ctx, loader)
	require.NoError(t, err)
	assert.Equal(t, "Invoices", dep.Name)
	assert.Nil(t, dep.Version)
	assert.Equal(t, "Type", dep.ClassProps)
	assert.Equal(t, map[string]interface{}{"Type": "Invoice", "Currency": "EUR", "Owner": "finance"}, dep.Properties.ToMap())
	assert.Equal(t, 0, dep.Size())

	empty := NewDependencyDescription("Loose'", nil)
	dep, err = empty.NewInstance(ctx, loader)
	require.NoError(t, err)
	assert.Equal(t, "Loose", dep.Name)
	assert.Empty(t, dep.ClassProps)

	missing := NewDependencyDescription("Missing'", nil)
	_, err = missing.AddMember(ctx, nil, "unknown", nil, "")
	require.NoError(t, err)
	_, err = missing.NewInstance(ctx, loader)
	assert.True(t, errors.Is(err, types.ErrObjectNotFound))
	_, err = missing.NewInstance(ctx, nil)
	assert.True(t, errors.Is(err, types.ErrInvalidData))
}

func TestAggregation(t *testing.T) {
	ctx := context.Background()
	agg := NewAggregation("Layout", nil)
	slot := agg.AddSlot(property.Properties{property.Concrete("Type", "Foo")}, "Type", graph.Point{X: 10, Y: 20}, Size{Width: 5, Height: 5})
	assert.True(t, slot.IsEmpty())
	assert.False(t, agg.IsFull())

	err := agg.AssignItem(ctx, items, slot.ID, "upper")
	assert.True(t, errors.Is(err, types.ErrInvalidCollectionModification), "aggregation compares exactly")
	require.NoError(t, agg.AssignItem(ctx, items, slot.ID, "foo"))
	assert.True(t, agg.IsFull())

	member, err := agg.AddMember(ctx, items, "bar", property.Properties{property.Concrete("Type", "Bar")}, "Type", graph.Point{}, Size{Width: 1, Height: 1})
	require.NoError(t, err)
	assert.NotEqual(t, slot.ID, member.ID)
	assert.Equal(t, Size{Width: 1, Height: 1}, agg.MemberLayout(member.ID).Value)
	assert.Equal(t, graph.Point{X: 10, Y: 20}, agg.MemberLayout(slot.ID).Position)

	require.NoError(t, agg.ClearSlot(slot.ID))
	assert.True(t, slot.IsEmpty())
	require.NoError(t, agg.RemoveMember(member.ID))
	assert.Nil(t, agg.MemberLayout(member.ID))
	assert.Equal(t, 1, agg.Size())
	assert.True(t, errors.Is(agg.RemoveMember(member.ID), types.ErrObjectNotFound))
}
