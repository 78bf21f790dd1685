// Package memory provides an in-memory item directory.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/viant/procdef/internal/idgen"
	"github.com/viant/procdef/model/item"
	"github.com/viant/procdef/model/types"
	"github.com/viant/toolbox"
)

type entry struct {
	name       string
	properties map[string]string
}

// Service implements item.Directory in memory. Items are registered under a
// unique name and receive a uuid identity.
type Service struct {
	mux    sync.RWMutex
	items  map[item.Identity]*entry
	byName map[string]item.Identity
}

var _ item.Directory = (*Service)(nil)

// Register adds a named item with its own properties and returns its identity.
// Registering an existing name updates the properties and keeps the identity.
func (s *Service) Register(_ context.Context, name string, properties map[string]interface{}) (item.Identity, error) {
	if name == "" {
		return "", types.NewInvalidDataError("item name was empty")
	}
	s.mux.Lock()
	defer s.mux.Unlock()
	id, ok := s.byName[name]
	if !ok {
		id = item.NewIdentity()
		s.byName[name] = id
		s.items[id] = &entry{name: name, properties: map[string]string{}}
	}
	target := s.items[id]
	for k, v := range properties {
		target.properties[k] = toolbox.AsString(v)
	}
	return id, nil
}

// SetProperty sets an item's own property
func (s *Service) SetProperty(_ context.Context, id item.Identity, key string, value interface{}) error {
	s.mux.Lock()
	defer s.mux.Unlock()
	target, ok := s.items[id]
	if !ok {
		return types.NewObjectNotFoundError("item %s", id)
	}
	target.properties[key] = toolbox.AsString(value)
	return nil
}

// Resolve returns the identity of a uuid or a registered name
func (s *Service) Resolve(_ context.Context, nameOrID string) (item.Identity, error) {
	s.mux.RLock()
	defer s.mux.RUnlock()
	if idgen.IsUUID(nameOrID) {
		if _, ok := s.items[item.Identity(nameOrID)]; ok {
			return item.Identity(nameOrID), nil
		}
	}
	if id, ok := s.byName[nameOrID]; ok {
		return id, nil
	}
	return "", types.NewObjectNotFoundError("item %s", nameOrID)
}

// ItemProperty returns an item's own stored property
func (s *Service) ItemProperty(_ context.Context, id item.Identity, key string) (string, bool, error) {
	s.mux.RLock()
	defer s.mux.RUnlock()
	target, ok := s.items[id]
	if !ok {
		return "", false, fmt.Errorf("%w: item %s", types.ErrObjectNotFound, id)
	}
	value, ok := target.properties[key]
	return value, ok, nil
}

// Name returns the registered name of id
func (s *Service) Name(id item.Identity) (string, bool) {
	s.mux.RLock()
	defer s.mux.RUnlock()
	if target, ok := s.items[id]; ok {
		return target.name, true
	}
	return "", false
}

// New creates an empty directory
func New() *Service {
	return &Service{items: map[item.Identity]*entry{}, byName: map[string]item.Identity{}}
}
