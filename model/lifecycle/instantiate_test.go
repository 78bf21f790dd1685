package lifecycle

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/procdef/model/collection"
	"github.com/viant/procdef/model/graph"
	"github.com/viant/procdef/model/instance"
	"github.com/viant/procdef/model/item"
	"github.com/viant/procdef/model/property"
	"github.com/viant/procdef/model/types"
)

type descriptions map[item.Identity]*property.DescriptionList

func (d descriptions) PropertyDescription(_ context.Context, entity item.Identity, _ *int) (*property.DescriptionList, error) {
	if list, ok := d[entity]; ok {
		return list, nil
	}
	return nil, types.NewObjectNotFoundError("description %s", entity)
}

func newOrder(t *testing.T) (*StepDefinition, int, int) {
	order := NewComposite("Order", property.IntPtr(1))
	receive := localChild(t, order, "ReceiveOrder", LocalAtomic)
	ship := localChild(t, order, "Ship", LocalAtomic)
	link(t, order, receive, ship)
	return order, receive, ship
}

func TestStepDefinition_Instantiate(t *testing.T) {
	ctx := context.Background()
	order, receive, ship := newOrder(t)
	ok, errs := order.Verify(ctx, nil)
	require.True(t, ok, errs)

	process, err := order.Instantiate(ctx, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, instance.KindComposite, process.Kind)
	assert.Equal(t, "Order", process.Type)
	assert.Equal(t, 1, *process.Version)
	require.Len(t, process.Children.Vertices, 2)
	require.Len(t, process.Children.Edges, 1)
	assert.Equal(t, receive, process.Children.StartVertexID)
	assert.Equal(t, order.Children.NextID, process.Children.NextID)
	assert.Equal(t, "ReceiveOrder", process.Child(receive).Name)
	assert.Equal(t, instance.KindAtomic, process.Child(ship).Kind)
	edge := process.Children.Edges[0]
	assert.Equal(t, order.Children.Edges[0].ID, edge.ID)
	assert.Equal(t, []int{ship}, process.Children.Neighbours(receive, graph.Downstream))

	process.Child(ship).Properties.Put("Tracking", "x1")
	*process.Version = 2
	require.NoError(t, process.Children.RemoveEdge(edge.ID))
	assert.False(t, order.Child(ship).Properties.Has("Tracking"), "runtime is independent of the definition")
	assert.Equal(t, 1, *order.Version)
	assert.Len(t, order.Children.Edges, 1)
}

func TestStepDefinition_Instantiate_Slots(t *testing.T) {
	ctx := context.Background()
	resolver := definitions{}.add(shipV1().WithProperty("Weight", 2))
	order := NewComposite("Order", nil)
	receive := localChild(t, order, "ReceiveOrder", LocalAtomic)
	slot, err := order.NewChild(ctx, resolver, "Ship", Atomic, property.IntPtr(1), graph.Point{})
	require.NoError(t, err)
	link(t, order, receive, slot.ID)

	_, err = order.Instantiate(ctx, resolver, nil)
	assert.True(t, errors.Is(err, types.ErrAbstractPropertyNotOverridden))
	assert.Contains(t, err.Error(), "Carrier")

	slot.Properties.Put("Carrier", "dhl")
	process, err := order.Instantiate(ctx, resolver, nil)
	require.NoError(t, err)
	step := process.Child(slot.ID)
	require.NotNil(t, step)
	assert.Equal(t, "Ship", step.Name)
	assert.Equal(t, "Ship", step.Type)
	assert.Equal(t, 1, *step.Version)
	assert.Equal(t, "dhl", step.Properties.Value("Carrier"))
	assert.Equal(t, 2, step.Properties.Value("Weight"))
	assert.Equal(t, "Ship~1", step.Properties.Value(property.ActivityDefURN))
	assert.False(t, process.Child(receive).Properties.Has(property.ActivityDefURN))
	assert.False(t, process.Properties.Has(property.ActivityDefURN), "bag is moved to the children")
}

func TestStepDefinition_Instantiate_SelfInclusion(t *testing.T) {
	ctx := context.Background()
	resolver := definitions{}
	recursive := NewComposite("Recursive", nil)
	resolver.add(recursive)
	slot, err := recursive.NewChild(ctx, resolver, "Recursive", Composite, nil, graph.Point{})
	require.NoError(t, err)
	assert.Equal(t, Slot, slot.Kind)

	_, err = recursive.Instantiate(ctx, resolver, nil)
	assert.True(t, errors.Is(err, types.ErrInvalidData))
	assert.Contains(t, err.Error(), "includes itself")
}

func TestStepDefinition_Instantiate_Propagation(t *testing.T) {
	ctx := context.Background()
	composite := NewComposite("Pricing", nil)
	x := localChild(t, composite, "X", LocalAtomic)
	y := localChild(t, composite, "Y", LocalAtomic)
	link(t, composite, x, y)

	description := collection.NewDependencyDescription("Money'", nil)
	_, err := description.AddMember(ctx, nil, "money-type", property.Properties{property.Concrete(property.Version, 1)}, "")
	require.NoError(t, err)
	loader := descriptions{"money-type": {Name: "Money", Items: []*property.Description{
		{Name: "Type", DefaultValue: "Money", ClassIdentifier: true},
		{Name: "Currency", DefaultValue: "EUR", Transitive: true},
		{Name: "Rate", DefaultValue: "1"},
	}}}
	dep, err := description.NewInstance(ctx, loader)
	require.NoError(t, err)
	assert.Equal(t, "Money", dep.Name)
	assert.Equal(t, "Type", dep.ClassProps)
	composite.AddDependency(dep)
	composite.Properties.Put("1", property.Properties{property.Concrete("OnlyY", true)})

	process, err := composite.Instantiate(ctx, nil, nil)
	require.NoError(t, err)
	for _, id := range []int{x, y} {
		step := process.Child(id)
		assert.Equal(t, "Money", step.Properties.Value("Type"), step.Name)
		assert.Equal(t, "EUR", step.Properties.Value("Currency"), step.Name)
		assert.False(t, step.Properties.Has("Rate"), step.Name)
	}
	require.Equal(t, 1, y)
	assert.True(t, process.Child(y).Properties.Has("OnlyY"))
	assert.False(t, process.Child(x).Properties.Has("OnlyY"))
	assert.False(t, process.Properties.Has("Money"))
}

func TestStepDefinition_Instantiate_Concurrent(t *testing.T) {
	ctx := context.Background()
	resolver := definitions{}.add(NewAtomic("Ship", property.IntPtr(1)))
	order, receive, _ := newOrder(t)
	slot, err := order.NewChild(ctx, resolver, "Ship", Atomic, property.IntPtr(1), graph.Point{})
	require.NoError(t, err)
	link(t, order, receive, slot.ID)

	var wg sync.WaitGroup
	results := make([]*instance.Step, 16)
	errs := make([]error, len(results))
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = order.Instantiate(ctx, resolver, nil)
		}(i)
	}
	wg.Wait()
	for i := range results {
		require.NoError(t, errs[i])
		assert.Equal(t, results[0], results[i])
		if i > 0 {
			assert.NotSame(t, results[0], results[i])
		}
	}
}
