// Package definition decodes step definitions from YAML documents.
//
// A document describes one shared definition:
//
//	name: Order
//	version: 1
//	properties:
//	  Carrier(abstract): ups
//	collections:
//	  - name: Schema
//	    members:
//	      - entity: orders[2]
//	steps:
//	  - name: ReceiveOrder
//	    kind: LocalAtomic
//	  - ref: Ship[1]
//	    kind: Atomic
//	transitions:
//	  - ReceiveOrder -> Ship
//	start: ReceiveOrder
//
// Step references, collection members and property keys use the
// name[version](abstract) notation.
package definition

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/procdef/internal/yml"
	"github.com/viant/procdef/model/item"
	"github.com/viant/procdef/model/lifecycle"
	"gopkg.in/yaml.v3"
)

type Service struct {
	fs       afs.Service
	resolver lifecycle.Resolver
	reader   item.PropertyReader
}

// DecodeYAML decodes a definition from YAML
func (s *Service) DecodeYAML(ctx context.Context, encoded []byte) (*lifecycle.StepDefinition, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(encoded, &node); err != nil {
		return nil, err
	}
	return s.Parse(ctx, "", &node)
}

// Load loads a definition from YAML at the specified URL
func (s *Service) Load(ctx context.Context, URL string) (*lifecycle.StepDefinition, error) {
	if filepath.Ext(URL) == "" {
		URL += ".yaml"
	}
	data, err := s.fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to load definition from %s: %w", URL, err)
	}
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("failed to decode definition from %s: %w", URL, err)
	}
	return s.Parse(ctx, URL, &node)
}

// Parse converts a YAML node into a definition. The name defaults to the URL
// file name; the kind defaults to Composite when steps are declared.
func (s *Service) Parse(ctx context.Context, URL string, node *yaml.Node) (*lifecycle.StepDefinition, error) {
	root := yml.Root(node)
	if root == nil || root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("definition %s should be a mapping", URL)
	}
	ret, err := s.parseDefinition(ctx, root)
	if err != nil {
		return nil, fmt.Errorf("failed to parse definition %s: %w", URL, err)
	}
	if ret.Name == "" && URL != "" {
		base := filepath.Base(URL)
		ret.Name = strings.TrimSuffix(base, filepath.Ext(base))
	}
	if ret.Name == "" {
		return nil, fmt.Errorf("definition %s has no name", URL)
	}
	return ret, nil
}

// New creates a definition decoder
func New(opts ...Option) *Service {
	ret := &Service{fs: afs.New()}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}
