package property

import (
	"fmt"
	"sort"

	"github.com/viant/structology/conv"
	"github.com/viant/toolbox"
)

// Property is a tagged property value: either concrete, or abstract meaning it
// has to be overridden before a definition can be instantiated. An abstract
// property may carry a default value for display purposes.
type Property struct {
	Key      string      `json:"key" yaml:"key"`
	Value    interface{} `json:"value,omitempty" yaml:"value,omitempty"`
	Abstract bool        `json:"abstract,omitempty" yaml:"abstract,omitempty"`
}

// Properties is an ordered property bag with unique keys
type Properties []*Property

// Concrete creates a concrete property
func Concrete(key string, value interface{}) *Property {
	return &Property{Key: key, Value: value}
}

// AbstractRequired creates an abstract property with an optional default value
func AbstractRequired(key string, defaultValue interface{}) *Property {
	return &Property{Key: key, Value: defaultValue, Abstract: true}
}

// Clone returns a deep copy of the property
func (p *Property) Clone() *Property {
	if p == nil {
		return nil
	}
	ret := *p
	if nested, ok := p.Value.(Properties); ok {
		ret.Value = nested.Clone()
	}
	return &ret
}

// Get retrieves a property by key
func (p Properties) Get(key string) (*Property, bool) {
	for _, prop := range p {
		if prop.Key == key {
			return prop, true
		}
	}
	return nil, false
}

// Has returns true if the bag contains key
func (p Properties) Has(key string) bool {
	_, ok := p.Get(key)
	return ok
}

// Value returns the value stored under key or nil
func (p Properties) Value(key string) interface{} {
	if prop, ok := p.Get(key); ok {
		return prop.Value
	}
	return nil
}

// String returns the value stored under key as text
func (p Properties) String(key string) string {
	value := p.Value(key)
	if value == nil {
		return ""
	}
	return toolbox.AsString(value)
}

// Nested returns a property bag stored as a value under key
func (p Properties) Nested(key string) (Properties, bool) {
	nested, ok := p.Value(key).(Properties)
	return nested, ok
}

// Put stores a concrete value, replacing an existing entry in place
func (p *Properties) Put(key string, value interface{}) {
	p.Set(Concrete(key, value))
}

// PutAbstract stores an abstract value, replacing an existing entry in place
func (p *Properties) PutAbstract(key string, defaultValue interface{}) {
	p.Set(AbstractRequired(key, defaultValue))
}

// Set stores prop, replacing an existing entry with the same key in place
func (p *Properties) Set(prop *Property) {
	if prop == nil {
		return
	}
	for i, candidate := range *p {
		if candidate.Key == prop.Key {
			(*p)[i] = prop
			return
		}
	}
	*p = append(*p, prop)
}

// Remove deletes key from the bag, it returns false if the key was absent
func (p *Properties) Remove(key string) bool {
	for i, candidate := range *p {
		if candidate.Key == key {
			*p = append((*p)[:i], (*p)[i+1:]...)
			return true
		}
	}
	return false
}

// Keys returns keys in insertion order
func (p Properties) Keys() []string {
	ret := make([]string, 0, len(p))
	for _, prop := range p {
		ret = append(ret, prop.Key)
	}
	return ret
}

// Abstract returns keys of all abstract properties
func (p Properties) Abstract() []string {
	var ret []string
	for _, prop := range p {
		if prop.Abstract {
			ret = append(ret, prop.Key)
		}
	}
	return ret
}

// Merge overlays other on top of p; entries from other win, including their abstract flag
func (p *Properties) Merge(other Properties) {
	for _, prop := range other {
		p.Set(prop.Clone())
	}
}

// Clone returns a deep copy of the bag
func (p Properties) Clone() Properties {
	if p == nil {
		return nil
	}
	ret := make(Properties, 0, len(p))
	for _, prop := range p {
		ret = append(ret, prop.Clone())
	}
	return ret
}

// ToMap converts the bag to a map, nested bags are converted recursively
func (p Properties) ToMap() map[string]interface{} {
	result := make(map[string]interface{}, len(p))
	for _, prop := range p {
		if nested, ok := prop.Value.(Properties); ok {
			result[prop.Key] = nested.ToMap()
			continue
		}
		result[prop.Key] = prop.Value
	}
	return result
}

// FromMap creates concrete Properties from a map, keys are sorted for a stable order
func FromMap(m map[string]interface{}) Properties {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	ret := make(Properties, 0, len(m))
	for _, k := range keys {
		value := m[k]
		if nested, ok := value.(map[string]interface{}); ok {
			value = FromMap(nested)
		}
		ret = append(ret, Concrete(k, value))
	}
	return ret
}

var converter = conv.NewConverter(conv.DefaultOptions())

// FromValue converts a script or collaborator result into Properties
func FromValue(value interface{}) (Properties, error) {
	switch actual := value.(type) {
	case nil:
		return nil, fmt.Errorf("nil value")
	case Properties:
		return actual, nil
	case []*Property:
		return actual, nil
	case map[string]interface{}:
		return FromMap(actual), nil
	case map[string]string:
		m := make(map[string]interface{}, len(actual))
		for k, v := range actual {
			m[k] = v
		}
		return FromMap(m), nil
	}
	m := map[string]interface{}{}
	if err := converter.Convert(value, &m); err != nil {
		return nil, fmt.Errorf("unsupported value %T: %w", value, err)
	}
	return FromMap(m), nil
}
