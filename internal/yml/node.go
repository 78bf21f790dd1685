// Package yml walks decoded YAML documents for the definition parser.
package yml

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Node is a yaml.Node with traversal helpers
type Node yaml.Node

// Root returns the first content node of a document, or node itself
func Root(node *yaml.Node) *Node {
	if node != nil && node.Kind == yaml.DocumentNode && len(node.Content) > 0 {
		node = node.Content[0]
	}
	return (*Node)(node)
}

// Items calls callback for every element of a sequence
func (n *Node) Items(callback func(index int, node *Node) error) error {
	if n.Kind != yaml.SequenceNode {
		return fmt.Errorf("line %d: expected a sequence", n.Line)
	}
	for i, item := range n.Content {
		if err := callback(i, (*Node)(item)); err != nil {
			return err
		}
	}
	return nil
}

// Pairs calls callback for every key/value of a mapping, in document order
func (n *Node) Pairs(callback func(key string, node *Node) error) error {
	if n.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: expected a mapping", n.Line)
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if err := callback(n.Content[i].Value, (*Node)(n.Content[i+1])); err != nil {
			return err
		}
	}
	return nil
}

// Interface returns the plain Go value of the node: scalars resolve to their
// tagged type, timestamps stay textual
func (n *Node) Interface() interface{} {
	switch n.Kind {
	case yaml.ScalarNode:
		return n.scalar()
	case yaml.MappingNode:
		ret := make(map[string]interface{}, len(n.Content)/2)
		_ = n.Pairs(func(key string, node *Node) error {
			ret[key] = node.Interface()
			return nil
		})
		return ret
	case yaml.SequenceNode:
		ret := make([]interface{}, 0, len(n.Content))
		_ = n.Items(func(_ int, node *Node) error {
			ret = append(ret, node.Interface())
			return nil
		})
		return ret
	case yaml.AliasNode:
		if n.Alias != nil {
			return (*Node)(n.Alias).Interface()
		}
	}
	return nil
}

func (n *Node) scalar() interface{} {
	switch n.Tag {
	case "!!str", "!!timestamp", "!!binary", "":
		return n.Value
	case "!!null":
		return nil
	}
	var value interface{}
	if err := (*yaml.Node)(n).Decode(&value); err != nil {
		return n.Value
	}
	return value
}
