package property

import "strings"

type (
	// Description describes one property of an item type
	Description struct {
		Name            string `json:"name" yaml:"name"`
		DefaultValue    string `json:"defaultValue,omitempty" yaml:"defaultValue,omitempty"`
		ClassIdentifier bool   `json:"classIdentifier,omitempty" yaml:"classIdentifier,omitempty"`
		Mutable         bool   `json:"mutable,omitempty" yaml:"mutable,omitempty"`
		Transitive      bool   `json:"transitive,omitempty" yaml:"transitive,omitempty"`
	}

	// DescriptionList is the property description of an item type
	DescriptionList struct {
		Name    string         `json:"name" yaml:"name"`
		Version *int           `json:"version,omitempty" yaml:"version,omitempty"`
		Items   []*Description `json:"items,omitempty" yaml:"items,omitempty"`
	}
)

// ClassProps returns the comma separated names of class identifier properties
func (l *DescriptionList) ClassProps() string {
	var names []string
	for _, item := range l.Items {
		if item.ClassIdentifier {
			names = append(names, item.Name)
		}
	}
	return strings.Join(names, ",")
}

// Transitive returns default values of properties carried over to dependencies.
// Class identifiers are transitive by default.
func (l *DescriptionList) Transitive() Properties {
	var ret Properties
	for _, item := range l.Items {
		if item.Transitive || item.ClassIdentifier {
			ret.Put(item.Name, item.DefaultValue)
		}
	}
	return ret
}

// Lookup returns the description with the given name
func (l *DescriptionList) Lookup(name string) *Description {
	for _, item := range l.Items {
		if item.Name == name {
			return item
		}
	}
	return nil
}

// Clone returns a deep copy of the list
func (l *DescriptionList) Clone() *DescriptionList {
	if l == nil {
		return nil
	}
	ret := *l
	if l.Version != nil {
		version := *l.Version
		ret.Version = &version
	}
	ret.Items = make([]*Description, 0, len(l.Items))
	for _, item := range l.Items {
		clone := *item
		ret.Items = append(ret.Items, &clone)
	}
	return &ret
}
