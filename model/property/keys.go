package property

// Built-in property keys
const (
	Name        = "Name"
	Version     = "Version"
	Type        = "Type"

	// LastNum holds the last branch alias handed out by an Or/XOr split
	LastNum = "LastNum"
	// Alias labels an outgoing branch of an Or/XOr split
	Alias = "Alias"

	SchemaType          = "SchemaType"
	SchemaVersion       = "SchemaVersion"
	SchemaURN           = "SchemaURN"
	ScriptName          = "ScriptName"
	ScriptVersion       = "ScriptVersion"
	ScriptURN           = "ScriptURN"
	QueryName           = "QueryName"
	QueryVersion        = "QueryVersion"
	QueryURN            = "QueryURN"
	StateMachineName    = "StateMachineName"
	StateMachineVersion = "StateMachineVersion"
	StateMachineURN     = "StateMachineURN"
	WorkflowName        = "WorkflowName"
	WorkflowVersion     = "WorkflowVersion"
	WorkflowURN         = "WorkflowURN"
	ActivityDefURN      = "ActivityDefURN"

	// DependencyDisableTypeCheck on a member skips class property checks
	DependencyDisableTypeCheck = "DependencyDisableTypeCheck"
	// DependencyAllowDuplicateItems on a dependency disables entity uniqueness
	DependencyAllowDuplicateItems = "DependencyAllowDuplicateItems"
)
