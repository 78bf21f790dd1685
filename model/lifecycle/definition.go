package lifecycle

import (
	"context"

	"github.com/viant/procdef/model/collection"
	"github.com/viant/procdef/model/graph"
	"github.com/viant/procdef/model/item"
	"github.com/viant/procdef/model/property"
)

// Kind is the kind of a step definition
type Kind string

const (
	// Atomic is a shared atomic definition; as a child kind it creates a slot
	Atomic Kind = "Atomic"
	// Composite is a shared composite definition; as a child kind it creates a slot
	Composite Kind = "Composite"
	// LocalAtomic is an atomic step embedded inline
	LocalAtomic Kind = "LocalAtomic"
	// LocalComposite is a composite step embedded inline
	LocalComposite Kind = "LocalComposite"
	// Slot references a shared definition by identity and version
	Slot     Kind = "Slot"
	AndSplit Kind = "AndSplit"
	OrSplit  Kind = "OrSplit"
	XOrSplit Kind = "XOrSplit"
	Join     Kind = "Join"
	// Loop marks a deliberate cycle; it behaves like an XOr split
	Loop Kind = "Loop"
)

// IsComposite returns true for kinds owning a child graph
func (k Kind) IsComposite() bool {
	return k == Composite || k == LocalComposite
}

// IsSplit returns true for kinds allowed many outgoing transitions
func (k Kind) IsSplit() bool {
	switch k {
	case AndSplit, OrSplit, XOrSplit, Loop:
		return true
	}
	return false
}

// IsJoin returns true for kinds allowed many incoming transitions
func (k Kind) IsJoin() bool {
	return k == Join
}

// IsControl returns true for split, join and loop kinds
func (k Kind) IsControl() bool {
	return k.IsSplit() || k.IsJoin()
}

// aliased kinds label each outgoing transition with a branch alias
func (k Kind) aliased() bool {
	return k == OrSplit || k == XOrSplit || k == Loop
}

// Resolver resolves shared definitions by name or identity and version; a nil
// version denotes the latest definition
type Resolver interface {
	Definition(ctx context.Context, nameOrID string, version *int) (*StepDefinition, error)
}

// StepDefinition is a vertex of a process template. Composite definitions own
// a child graph; slots reference a shared definition by (Reference, Version
// property) and are resolved through a Resolver, never by pointer.
type StepDefinition struct {
	ID               int                           `json:"id" yaml:"id"`
	Kind             Kind                          `json:"kind" yaml:"kind"`
	Name             string                        `json:"name" yaml:"name"`
	ItemID           item.Identity                 `json:"itemId,omitempty" yaml:"itemId,omitempty"`
	Version          *int                          `json:"version,omitempty" yaml:"version,omitempty"`
	Properties       property.Properties           `json:"properties,omitempty" yaml:"properties,omitempty"`
	Children         *graph.Graph[*StepDefinition] `json:"children,omitempty" yaml:"children,omitempty"`
	Reference        string                        `json:"reference,omitempty" yaml:"reference,omitempty"`
	TargetKind       Kind                          `json:"targetKind,omitempty" yaml:"targetKind,omitempty"`
	Collections      []*collection.Dependency      `json:"collections,omitempty" yaml:"collections,omitempty"`
	AllowedEndpoints int                           `json:"allowedEndpoints,omitempty" yaml:"allowedEndpoints,omitempty"`
}

// NewAtomic creates a shared atomic definition
func NewAtomic(name string, version *int) *StepDefinition {
	return &StepDefinition{Kind: Atomic, Name: name, Version: version}
}

// NewComposite creates a shared composite definition with an empty child graph
func NewComposite(name string, version *int) *StepDefinition {
	return &StepDefinition{Kind: Composite, Name: name, Version: version, Children: graph.New[*StepDefinition]()}
}

// IsComposite returns true if the definition owns a child graph
func (d *StepDefinition) IsComposite() bool {
	return d.Kind.IsComposite() && d.Children != nil
}

// Abstract returns keys of abstract properties
func (d *StepDefinition) Abstract() []string {
	return d.Properties.Abstract()
}

// Identity returns the identity used to reference the definition
func (d *StepDefinition) Identity() string {
	if !d.ItemID.IsEmpty() {
		return d.ItemID.String()
	}
	return d.Name
}

// VersionName returns the definition version as text
func (d *StepDefinition) VersionName() string {
	return property.VersionName(d.Version)
}

// Dependency returns the collection named name
func (d *StepDefinition) Dependency(name string) *collection.Dependency {
	for _, dep := range d.Collections {
		if dep.Name == name {
			return dep
		}
	}
	return nil
}

// AddDependency attaches dep, replacing a collection with the same name
func (d *StepDefinition) AddDependency(dep *collection.Dependency) {
	for i, candidate := range d.Collections {
		if candidate.Name == dep.Name {
			d.Collections[i] = dep
			return
		}
	}
	d.Collections = append(d.Collections, dep)
}

// WithProperty sets a concrete property
func (d *StepDefinition) WithProperty(key string, value interface{}) *StepDefinition {
	d.Properties.Put(key, value)
	return d
}

// WithAbstractProperty sets a property that must be overridden before instantiation
func (d *StepDefinition) WithAbstractProperty(key string, defaultValue interface{}) *StepDefinition {
	d.Properties.PutAbstract(key, defaultValue)
	return d
}

// Clone returns a deep copy of the definition
func (d *StepDefinition) Clone() *StepDefinition {
	if d == nil {
		return nil
	}
	ret := *d
	if d.Version != nil {
		version := *d.Version
		ret.Version = &version
	}
	ret.Properties = d.Properties.Clone()
	ret.Collections = nil
	for _, dep := range d.Collections {
		ret.Collections = append(ret.Collections, dep.Clone())
	}
	if d.Children != nil {
		ret.Children, _ = graph.Map(d.Children, func(vertex *graph.Vertex[*StepDefinition]) (*StepDefinition, error) {
			return vertex.Value.Clone(), nil
		})
	}
	return &ret
}
