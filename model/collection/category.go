package collection

import "github.com/viant/procdef/model/property"

// Resource kinds resolved through the resource loader
const (
	ResourceSchema       = "Schema"
	ResourceScript       = "Script"
	ResourceQuery        = "Query"
	ResourceStateMachine = "StateMachine"
	ResourceDefinition   = "Definition"
)

// Category describes a built-in resource dependency. Both item and vertex
// property derivation consume the same table.
type Category struct {
	// Name is the dependency name selecting the category
	Name string
	// ResourceKind is passed to the resource loader
	ResourceKind string
	// NameKey and VersionKey receive the resolved reference on a vertex
	NameKey    string
	VersionKey string
	// URNKey receives id:version on an item; for multi categories it is also
	// the vertex key of the per-step bag
	URNKey string
	// Multi categories hold many members keyed by step name
	Multi bool
	// item reports whether the category contributes item properties
	item func(d *Deriver) bool
}

// Built-in category names
const (
	CategorySchema       = "Schema"
	CategoryScript       = "Script"
	CategoryQuery        = "Query"
	CategoryStateMachine = "StateMachine"
	CategoryWorkflow     = "Workflow"
	CategoryActivity     = "Activity"
)

var categories = []*Category{
	{Name: CategorySchema, ResourceKind: ResourceSchema, NameKey: property.SchemaType, VersionKey: property.SchemaVersion, URNKey: property.SchemaURN},
	{Name: CategoryScript, ResourceKind: ResourceScript, NameKey: property.ScriptName, VersionKey: property.ScriptVersion, URNKey: property.ScriptURN},
	{Name: CategoryQuery, ResourceKind: ResourceQuery, NameKey: property.QueryName, VersionKey: property.QueryVersion, URNKey: property.QueryURN},
	{Name: CategoryStateMachine, ResourceKind: ResourceStateMachine, NameKey: property.StateMachineName, VersionKey: property.StateMachineVersion, URNKey: property.StateMachineURN,
		item: func(d *Deriver) bool { return d.addStateMachineURN }},
	{Name: CategoryWorkflow, ResourceKind: ResourceDefinition, NameKey: property.WorkflowName, VersionKey: property.WorkflowVersion, URNKey: property.WorkflowURN,
		item: func(d *Deriver) bool { return d.addWorkflowURN }},
	{Name: CategoryActivity, ResourceKind: ResourceDefinition, URNKey: property.ActivityDefURN, Multi: true},
}

// LookupCategory returns the built-in category named name
func LookupCategory(name string) (*Category, bool) {
	for _, category := range categories {
		if category.Name == name {
			return category, true
		}
	}
	return nil, false
}

// CategoryByKey returns the multi category whose per-step bag is stored under key
func CategoryByKey(key string) (*Category, bool) {
	for _, category := range categories {
		if category.Multi && category.URNKey == key {
			return category, true
		}
	}
	return nil, false
}

// Categories returns the built-in category table
func Categories() []*Category {
	return append([]*Category(nil), categories...)
}

func (c *Category) contributesItem(d *Deriver) bool {
	return c.item == nil || c.item(d)
}
