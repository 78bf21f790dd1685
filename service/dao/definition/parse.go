package definition

import (
	"context"
	"fmt"
	"strings"

	"github.com/viant/procdef/internal/yml"
	"github.com/viant/procdef/model/collection"
	"github.com/viant/procdef/model/graph"
	"github.com/viant/procdef/model/item"
	"github.com/viant/procdef/model/lifecycle"
	"github.com/viant/procdef/model/property"
	"github.com/viant/procdef/service/dao/definition/reference"
	"github.com/viant/toolbox"
	"gopkg.in/yaml.v3"
)

// body holds the graph related sections of a composite
type body struct {
	steps       *yml.Node
	transitions *yml.Node
	start       string
}

func (s *Service) parseDefinition(ctx context.Context, node *yml.Node) (*lifecycle.StepDefinition, error) {
	ret := &lifecycle.StepDefinition{}
	var props, collections *yml.Node
	content := &body{}
	err := node.Pairs(func(key string, valueNode *yml.Node) error {
		switch strings.ToLower(key) {
		case "name":
			ret.Name = valueNode.Value
		case "kind":
			ret.Kind = lifecycle.Kind(valueNode.Value)
		case "version":
			version, err := property.DeriveVersion(valueNode.Interface())
			if err != nil {
				return fmt.Errorf("invalid version: %w", err)
			}
			ret.Version = version
		case "itemid", "id":
			ret.ItemID = item.Identity(valueNode.Value)
		case "allowedendpoints":
			value, err := toolbox.ToInt(valueNode.Interface())
			if err != nil {
				return fmt.Errorf("invalid allowedEndpoints: %w", err)
			}
			ret.AllowedEndpoints = value
		case "properties":
			props = valueNode
		case "collections":
			collections = valueNode
		case "steps":
			content.steps = valueNode
		case "transitions":
			content.transitions = valueNode
		case "start":
			content.start = valueNode.Value
		default:
			return fmt.Errorf("unsupported definition attribute %q", key)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	switch ret.Kind {
	case "":
		ret.Kind = lifecycle.Atomic
		if content.steps != nil {
			ret.Kind = lifecycle.Composite
		}
	case lifecycle.Atomic, lifecycle.Composite:
	default:
		return nil, fmt.Errorf("definition %s: unsupported kind %q", ret.Name, ret.Kind)
	}
	if ret.Properties, err = parseProperties(props); err != nil {
		return nil, fmt.Errorf("definition %s: %w", ret.Name, err)
	}
	if ret.Collections, err = s.parseCollections(ctx, collections); err != nil {
		return nil, fmt.Errorf("definition %s: %w", ret.Name, err)
	}
	if ret.Kind == lifecycle.Composite {
		ret.Children = graph.New[*lifecycle.StepDefinition]()
		if err = s.parseBody(ctx, ret, content); err != nil {
			return nil, fmt.Errorf("definition %s: %w", ret.Name, err)
		}
	} else if content.steps != nil {
		return nil, fmt.Errorf("atomic definition %s cannot declare steps", ret.Name)
	}
	return ret, nil
}

// parseBody adds steps and transitions to composite
func (s *Service) parseBody(ctx context.Context, composite *lifecycle.StepDefinition, content *body) error {
	if content.steps != nil {
		if content.steps.Kind != yaml.SequenceNode {
			return fmt.Errorf("steps should be a sequence")
		}
		if err := content.steps.Items(func(index int, node *yml.Node) error {
			if err := s.parseStep(ctx, composite, node); err != nil {
				return fmt.Errorf("step %d: %w", index, err)
			}
			return nil
		}); err != nil {
			return err
		}
	}
	if content.transitions != nil {
		if content.transitions.Kind != yaml.SequenceNode {
			return fmt.Errorf("transitions should be a sequence")
		}
		if err := content.transitions.Items(func(index int, node *yml.Node) error {
			origin, terminus, err := parseTransition(node)
			if err != nil {
				return fmt.Errorf("transition %d: %w", index, err)
			}
			originStep, terminusStep := composite.ChildByName(origin), composite.ChildByName(terminus)
			if originStep == nil || terminusStep == nil {
				return fmt.Errorf("transition %d: unknown step in %s -> %s", index, origin, terminus)
			}
			_, err = composite.AddTransition(originStep.ID, terminusStep.ID)
			return err
		}); err != nil {
			return err
		}
	}
	if content.start != "" {
		start := composite.ChildByName(content.start)
		if start == nil {
			return fmt.Errorf("unknown start step %s", content.start)
		}
		return composite.SetStart(start.ID)
	}
	return nil
}

func (s *Service) parseStep(ctx context.Context, composite *lifecycle.StepDefinition, node *yml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("step should be a mapping")
	}
	var name, ref string
	var kind lifecycle.Kind
	var position graph.Point
	var props *yml.Node
	content := &body{}
	err := node.Pairs(func(key string, valueNode *yml.Node) error {
		switch strings.ToLower(key) {
		case "name":
			name = valueNode.Value
		case "ref", "reference":
			ref = valueNode.Value
		case "kind":
			kind = lifecycle.Kind(valueNode.Value)
		case "properties":
			props = valueNode
		case "position":
			return parsePosition(valueNode, &position)
		case "steps":
			content.steps = valueNode
		case "transitions":
			content.transitions = valueNode
		case "start":
			content.start = valueNode.Value
		default:
			return fmt.Errorf("unsupported step attribute %q", key)
		}
		return nil
	})
	if err != nil {
		return err
	}
	if kind == "" {
		kind = lifecycle.LocalAtomic
		if ref != "" {
			kind = lifecycle.Atomic
		}
	}
	var version *int
	if kind == lifecycle.Atomic || kind == lifecycle.Composite {
		if ref == "" {
			ref = name
		}
		parsed, err := reference.Parse(ref)
		if err != nil {
			return err
		}
		ref, version = parsed.Name, parsed.Version
	}
	childName := name
	if ref != "" {
		childName = ref
	}
	child, err := composite.NewChild(ctx, s.resolver, childName, kind, version, position)
	if err != nil {
		return err
	}
	if name != "" {
		child.Name = name
	}
	stepProps, err := parseProperties(props)
	if err != nil {
		return fmt.Errorf("step %s: %w", child.Name, err)
	}
	child.Properties.Merge(stepProps)
	if kind == lifecycle.LocalComposite {
		return s.parseBody(ctx, child, content)
	}
	if content.steps != nil {
		return fmt.Errorf("step %s of kind %s cannot declare steps", child.Name, kind)
	}
	return nil
}

func (s *Service) parseCollections(ctx context.Context, node *yml.Node) ([]*collection.Dependency, error) {
	if node == nil {
		return nil, nil
	}
	if node.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("collections should be a sequence")
	}
	var ret []*collection.Dependency
	err := node.Items(func(index int, itemNode *yml.Node) error {
		dep, err := s.parseCollection(ctx, itemNode)
		if err != nil {
			return fmt.Errorf("collection %d: %w", index, err)
		}
		ret = append(ret, dep)
		return nil
	})
	return ret, err
}

func (s *Service) parseCollection(ctx context.Context, node *yml.Node) (*collection.Dependency, error) {
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("collection should be a mapping")
	}
	ret := collection.NewDependency("", nil)
	var members *yml.Node
	var props *yml.Node
	unique := true
	err := node.Pairs(func(key string, valueNode *yml.Node) error {
		switch strings.ToLower(key) {
		case "name":
			ret.Name = valueNode.Value
		case "version":
			version, err := property.DeriveVersion(valueNode.Interface())
			if err != nil {
				return err
			}
			ret.Version = version
		case "classprops":
			ret.ClassProps = valueNode.Value
		case "unique":
			unique = toolbox.AsBoolean(valueNode.Interface())
		case "properties":
			props = valueNode
		case "members":
			members = valueNode
		default:
			return fmt.Errorf("unsupported collection attribute %q", key)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if ret.Name == "" {
		return nil, fmt.Errorf("collection name was empty")
	}
	if ret.Properties, err = parseProperties(props); err != nil {
		return nil, fmt.Errorf("%s: %w", ret.Name, err)
	}
	if !unique {
		ret.SetUnique(false)
	}
	if members == nil {
		return ret, nil
	}
	if members.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("%s: members should be a sequence", ret.Name)
	}
	err = members.Items(func(index int, memberNode *yml.Node) error {
		if err := s.parseMember(ctx, ret, memberNode); err != nil {
			return fmt.Errorf("%s member %d: %w", ret.Name, index, err)
		}
		return nil
	})
	return ret, err
}

func (s *Service) parseMember(ctx context.Context, dep *collection.Dependency, node *yml.Node) error {
	var entity string
	var props *yml.Node
	switch node.Kind {
	case yaml.ScalarNode:
		entity = node.Value
	case yaml.MappingNode:
		if err := node.Pairs(func(key string, valueNode *yml.Node) error {
			switch strings.ToLower(key) {
			case "entity":
				entity = valueNode.Value
			case "properties":
				props = valueNode
			default:
				return fmt.Errorf("unsupported member attribute %q", key)
			}
			return nil
		}); err != nil {
			return err
		}
	default:
		return fmt.Errorf("member should be a scalar or a mapping")
	}
	parsed, err := reference.Parse(entity)
	if err != nil {
		return err
	}
	memberProps, err := parseProperties(props)
	if err != nil {
		return err
	}
	if parsed.Versioned {
		memberProps.Put(property.Version, parsed.VersionValue())
	}
	_, err = dep.AddMember(ctx, s.reader, item.Identity(parsed.Name), memberProps, "")
	return err
}

// parseProperties converts a mapping into a property bag; keys written as
// key(abstract) declare abstract properties and nested mappings become nested bags
func parseProperties(node *yml.Node) (property.Properties, error) {
	if node == nil {
		return nil, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("properties should be a mapping")
	}
	var ret property.Properties
	err := node.Pairs(func(key string, valueNode *yml.Node) error {
		var value interface{}
		if valueNode.Kind == yaml.MappingNode {
			nested, err := parseProperties(valueNode)
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			value = nested
		} else {
			value = valueNode.Interface()
		}
		if !strings.ContainsAny(key, "[(") {
			ret.Put(key, value)
			return nil
		}
		parsed, err := reference.Parse(key)
		if err != nil {
			return fmt.Errorf("invalid property key %q: %w", key, err)
		}
		if parsed.Abstract {
			ret.PutAbstract(parsed.Name, value)
		} else {
			ret.Put(parsed.Name, value)
		}
		return nil
	})
	return ret, err
}

// parseTransition reads "origin -> terminus" or {from: origin, to: terminus}
func parseTransition(node *yml.Node) (string, string, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		origin, terminus, ok := strings.Cut(node.Value, "->")
		if !ok {
			return "", "", fmt.Errorf("expected 'origin -> terminus', got %q", node.Value)
		}
		return strings.TrimSpace(origin), strings.TrimSpace(terminus), nil
	case yaml.MappingNode:
		var origin, terminus string
		err := node.Pairs(func(key string, valueNode *yml.Node) error {
			switch strings.ToLower(key) {
			case "from":
				origin = valueNode.Value
			case "to":
				terminus = valueNode.Value
			default:
				return fmt.Errorf("unsupported transition attribute %q", key)
			}
			return nil
		})
		return origin, terminus, err
	}
	return "", "", fmt.Errorf("transition should be a scalar or a mapping")
}

func parsePosition(node *yml.Node, position *graph.Point) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("position should be a mapping")
	}
	return node.Pairs(func(key string, valueNode *yml.Node) error {
		value, err := toolbox.ToInt(valueNode.Interface())
		if err != nil {
			return fmt.Errorf("invalid position %s: %w", key, err)
		}
		switch strings.ToLower(key) {
		case "x":
			position.X = value
		case "y":
			position.Y = value
		}
		return nil
	})
}
