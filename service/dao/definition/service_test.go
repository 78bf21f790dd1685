package definition

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/procdef/model/collection"
	"github.com/viant/procdef/model/lifecycle"
	"github.com/viant/procdef/model/property"
	"github.com/viant/procdef/model/types"
)

type definitions map[string]*lifecycle.StepDefinition

func (r definitions) Definition(_ context.Context, nameOrID string, version *int) (*lifecycle.StepDefinition, error) {
	if d, ok := r[nameOrID+"@"+property.VersionName(version)]; ok {
		return d, nil
	}
	return nil, types.NewObjectNotFoundError("definition %s", nameOrID)
}

const orderYAML = `
name: Order
version: 2
properties:
  Priority: high
  Region(abstract): eu
  Labels:
    Team: logistics
collections:
  - name: Schema
    members:
      - entity: orders[3]
  - name: Owners
    unique: false
    properties:
      Department: sales
    members:
      - alice
      - entity: bob
        properties:
          Role: backup
steps:
  - name: ReceiveOrder
    position: {x: 10, y: 20}
  - name: Decide
    kind: XOrSplit
  - ref: Ship[1]
    properties:
      Carrier: dhl
  - name: Express
    ref: Ship[1]
  - name: Merge
    kind: Join
  - name: Review
    kind: LocalComposite
    steps:
      - name: Check
      - name: Approve
    transitions:
      - Check -> Approve
transitions:
  - ReceiveOrder -> Decide
  - Decide -> Ship
  - from: Decide
    to: Express
  - Ship -> Merge
  - Express -> Merge
  - Merge -> Review
start: ReceiveOrder
`

func TestService_DecodeYAML(t *testing.T) {
	ctx := context.Background()
	ship := lifecycle.NewAtomic("Ship", property.IntPtr(1)).WithAbstractProperty("Carrier", "ups")
	srv := New(WithResolver(definitions{"Ship@1": ship}))

	order, err := srv.DecodeYAML(ctx, []byte(orderYAML))
	require.NoError(t, err)
	assert.Equal(t, "Order", order.Name)
	assert.Equal(t, lifecycle.Composite, order.Kind)
	assert.Equal(t, 2, *order.Version)
	assert.Equal(t, "high", order.Properties.Value("Priority"))
	assert.Equal(t, []string{"Region"}, order.Abstract())
	labels, ok := order.Properties.Nested("Labels")
	require.True(t, ok)
	assert.Equal(t, "logistics", labels.Value("Team"))

	schema := order.Dependency(collection.CategorySchema)
	require.NotNil(t, schema)
	require.Equal(t, 1, schema.Size())
	assert.Equal(t, "orders", schema.Members[0].Entity.String())
	assert.Equal(t, 3, schema.Members[0].Properties.Value(property.Version))
	owners := order.Dependency("Owners")
	require.NotNil(t, owners)
	assert.False(t, owners.Unique())
	assert.Equal(t, 2, owners.Size())
	assert.Equal(t, "backup", owners.Members[1].Properties.Value("Role"))

	require.Len(t, order.Children.Vertices, 6)
	receive := order.ChildByName("ReceiveOrder")
	assert.Equal(t, lifecycle.LocalAtomic, receive.Kind)
	assert.Equal(t, receive.ID, order.Children.StartVertexID)
	assert.Equal(t, 10, order.Children.Vertex(receive.ID).Position.X)

	slot := order.ChildByName("Ship")
	require.NotNil(t, slot)
	assert.Equal(t, lifecycle.Slot, slot.Kind)
	assert.Equal(t, "dhl", slot.Properties.Value("Carrier"))
	express := order.ChildByName("Express")
	require.NotNil(t, express)
	assert.Equal(t, "Ship", express.Reference)
	assert.Equal(t, 1, order.SharedDefinitions().Size())

	decide := order.ChildByName("Decide")
	var aliases []interface{}
	for _, edge := range order.Children.OutEdges(decide.ID) {
		aliases = append(aliases, edge.Properties.Value(property.Alias))
	}
	assert.Equal(t, []interface{}{0, 1}, aliases)

	review := order.ChildByName("Review")
	require.NotNil(t, review.Children)
	assert.Len(t, review.Children.Edges, 1)

	ok, errs := order.Verify(ctx, srv.resolver)
	assert.False(t, ok)
	require.Len(t, errs, 1, errs)
	assert.Contains(t, errs[0].Error(), "abstract property 'Carrier' not defined in slot")
}

func TestService_DecodeYAML_Errors(t *testing.T) {
	var testCases = []struct {
		description string
		document    string
	}{
		{description: "unknown attribute", document: "name: A\ncolour: red"},
		{description: "unknown kind", document: "name: A\nkind: Slot"},
		{description: "atomic with steps", document: "name: A\nkind: Atomic\nsteps:\n  - name: B"},
		{description: "unknown transition step", document: "name: A\nsteps:\n  - name: B\ntransitions:\n  - B -> C"},
		{description: "bad transition", document: "name: A\nsteps:\n  - name: B\ntransitions:\n  - B"},
		{description: "unresolved reference", document: "name: A\nsteps:\n  - ref: Missing[1]"},
		{description: "bad property key", document: "name: A\nproperties:\n  X(final): 1"},
		{description: "bad version", document: "name: A\nversion: seven"},
		{description: "no name", document: "kind: Atomic"},
	}
	srv := New(WithResolver(definitions{}))
	for _, testCase := range testCases {
		_, err := srv.DecodeYAML(context.Background(), []byte(testCase.document))
		assert.Error(t, err, testCase.description)
	}
}

func TestService_Load(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Ship.yaml"), []byte("version: 1\nproperties:\n  Carrier(abstract): ups\n"), 0o644))

	ship, err := New().Load(context.Background(), filepath.Join(dir, "Ship"))
	require.NoError(t, err)
	assert.Equal(t, "Ship", ship.Name, "name defaults to the file name")
	assert.Equal(t, lifecycle.Atomic, ship.Kind)
	assert.Equal(t, []string{"Carrier"}, ship.Abstract())
}
