// Package loader loads shared definitions and resources from the record store
// and serves them to verification, instantiation and derivation.
package loader

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/viant/procdef/internal/idgen"
	"github.com/viant/procdef/model/collection"
	"github.com/viant/procdef/model/item"
	"github.com/viant/procdef/model/lifecycle"
	"github.com/viant/procdef/model/property"
	"github.com/viant/procdef/model/resource"
	"github.com/viant/procdef/model/types"
	"github.com/viant/procdef/service/dao"
	"github.com/viant/procdef/service/dao/record"
)

// KindDefinition is the record kind of step definitions
const KindDefinition = "Definition"

// Service implements lifecycle.Resolver, collection.ResourceLoader and
// collection.DescriptionLoader over a record store. Stored versions are
// immutable; callers receive copies of cached values.
type Service struct {
	definitions *record.Repository[lifecycle.StepDefinition]
	resources   map[string]*record.Repository[resource.Resource]
	saveMux     sync.Mutex
	mux         sync.RWMutex
	cache       map[string]interface{}
}

var (
	_ lifecycle.Resolver           = (*Service)(nil)
	_ collection.ResourceLoader    = (*Service)(nil)
	_ collection.DescriptionLoader = (*Service)(nil)
)

// SaveDefinition stores a shared definition under its name. A nil version is
// assigned the next free version number; an already stored version is
// rejected with ErrObjectAlreadyExists.
func (s *Service) SaveDefinition(ctx context.Context, definition *lifecycle.StepDefinition) (int, error) {
	if definition == nil {
		return 0, dao.ErrNilEntity
	}
	if definition.Name == "" {
		return 0, types.NewInvalidDataError("definition name was empty")
	}
	if definition.Kind != lifecycle.Atomic && definition.Kind != lifecycle.Composite {
		return 0, types.NewInvalidDataError("definition %s: only Atomic and Composite definitions can be shared, got %s", definition.Name, definition.Kind)
	}
	s.saveMux.Lock()
	defer s.saveMux.Unlock()
	version, err := s.assignVersion(ctx, s.definitions, KindDefinition, definition.Name, definition.Version)
	if err != nil {
		return 0, err
	}
	definition.Version = version
	if err := s.definitions.Save(ctx, definition.Name, definition.Version, definition); err != nil {
		return 0, err
	}
	s.invalidate(KindDefinition, definition.Name)
	return *definition.Version, nil
}

// Definition returns the shared definition with name or item id at version;
// a nil version returns the latest one
func (s *Service) Definition(ctx context.Context, nameOrID string, version *int) (*lifecycle.StepDefinition, error) {
	key := cacheKey(KindDefinition, nameOrID, version)
	if cached, ok := s.cached(key); ok {
		return cached.(*lifecycle.StepDefinition).Clone(), nil
	}
	ret, err := s.definitions.Load(ctx, nameOrID, version)
	if errors.Is(err, dao.ErrNotFound) && idgen.IsUUID(nameOrID) {
		ret, err = s.definitionByItemID(ctx, nameOrID, version)
	}
	if err != nil {
		return nil, types.Wrap(types.ErrObjectNotFound, err, "definition %s version %s", nameOrID, property.VersionName(version))
	}
	s.store(key, ret)
	return ret.Clone(), nil
}

// DefinitionVersions returns the stored versions of a shared definition
func (s *Service) DefinitionVersions(ctx context.Context, name string) ([]int, error) {
	return s.definitions.Versions(ctx, name)
}

// Definitions returns every stored definition version
func (s *Service) Definitions(ctx context.Context) ([]*lifecycle.StepDefinition, error) {
	return s.definitions.List(ctx)
}

// DeleteDefinition removes one definition version
func (s *Service) DeleteDefinition(ctx context.Context, name string, version int) error {
	if err := s.definitions.Delete(ctx, name, &version); err != nil {
		return types.Wrap(types.ErrObjectNotFound, err, "definition %s version %d", name, version)
	}
	s.invalidate(KindDefinition, name)
	return nil
}

func (s *Service) definitionByItemID(ctx context.Context, id string, version *int) (*lifecycle.StepDefinition, error) {
	candidates, err := s.definitions.List(ctx)
	if err != nil {
		return nil, err
	}
	var ret *lifecycle.StepDefinition
	for _, candidate := range candidates {
		if candidate.ItemID.String() != id {
			continue
		}
		if version != nil {
			if property.SameVersion(candidate.Version, version) {
				return candidate, nil
			}
			continue
		}
		if ret == nil || property.VersionNumber(candidate.Version) > property.VersionNumber(ret.Version) {
			ret = candidate
		}
	}
	if ret == nil {
		return nil, fmt.Errorf("%w: definition item %s", dao.ErrNotFound, id)
	}
	return ret, nil
}

// SaveResource stores a resource under its kind and name. Versions follow the
// SaveDefinition rules.
func (s *Service) SaveResource(ctx context.Context, res *resource.Resource) (int, error) {
	if res == nil {
		return 0, dao.ErrNilEntity
	}
	if err := res.Validate(); err != nil {
		return 0, types.NewInvalidDataError("%v", err)
	}
	repo := s.resources[res.Kind]
	if res.ID == "" {
		res.ID = idgen.New()
	}
	s.saveMux.Lock()
	defer s.saveMux.Unlock()
	version, err := s.assignVersion(ctx, repo, res.Kind, res.Name, res.Version)
	if err != nil {
		return 0, err
	}
	res.Version = version
	if err := repo.Save(ctx, res.Name, res.Version, res); err != nil {
		return 0, err
	}
	s.invalidate(res.Kind, res.Name)
	return *res.Version, nil
}

// Resource returns a resource of kind by name or id at version; a nil
// version returns the latest one
func (s *Service) Resource(ctx context.Context, kind, nameOrID string, version *int) (*resource.Resource, error) {
	repo, ok := s.resources[kind]
	if !ok {
		return nil, types.NewInvalidDataError("unsupported resource kind %s", kind)
	}
	key := cacheKey(kind, nameOrID, version)
	if cached, ok := s.cached(key); ok {
		return cached.(*resource.Resource).Clone(), nil
	}
	ret, err := repo.Load(ctx, nameOrID, version)
	if errors.Is(err, dao.ErrNotFound) && idgen.IsUUID(nameOrID) {
		ret, err = s.resourceByID(ctx, repo, nameOrID, version)
	}
	if err != nil {
		return nil, types.Wrap(types.ErrObjectNotFound, err, "%s %s version %s", kind, nameOrID, property.VersionName(version))
	}
	s.store(key, ret)
	return ret.Clone(), nil
}

func (s *Service) resourceByID(ctx context.Context, repo *record.Repository[resource.Resource], id string, version *int) (*resource.Resource, error) {
	candidates, err := repo.List(ctx)
	if err != nil {
		return nil, err
	}
	var ret *resource.Resource
	for _, candidate := range candidates {
		if candidate.ID != id {
			continue
		}
		if version != nil {
			if property.SameVersion(candidate.Version, version) {
				return candidate, nil
			}
			continue
		}
		if ret == nil || property.VersionNumber(candidate.Version) > property.VersionNumber(ret.Version) {
			ret = candidate
		}
	}
	if ret == nil {
		return nil, fmt.Errorf("%w: %s %s", dao.ErrNotFound, repo.Kind(), id)
	}
	return ret, nil
}

// ResolveResource returns the identity of the resource of kind named or
// identified by nameOrID at version
func (s *Service) ResolveResource(ctx context.Context, kind string, nameOrID string, version *int) (item.Identity, error) {
	if kind == collection.ResourceDefinition {
		definition, err := s.Definition(ctx, nameOrID, version)
		if err != nil {
			return "", err
		}
		return item.Identity(definition.Identity()), nil
	}
	res, err := s.Resource(ctx, kind, nameOrID, version)
	if err != nil {
		return "", err
	}
	return item.Identity(res.Identity()), nil
}

// PropertyDescription returns the property description of the item type
// entity, stored with its Schema resource
func (s *Service) PropertyDescription(ctx context.Context, entity item.Identity, version *int) (*property.DescriptionList, error) {
	res, err := s.Resource(ctx, resource.KindSchema, entity.String(), version)
	if err != nil {
		return nil, err
	}
	if res.Description == nil {
		slog.Warn("schema has no property description", "schema", res.Name, "version", property.VersionName(res.Version))
	}
	return res.Description, nil
}

type versioned interface {
	Versions(ctx context.Context, id string) ([]int, error)
}

// assignVersion returns version when it is not stored yet, or the next free
// version when version is nil
func (s *Service) assignVersion(ctx context.Context, repo versioned, kind, name string, version *int) (*int, error) {
	versions, err := repo.Versions(ctx, name)
	if err != nil {
		return nil, err
	}
	next := 1
	for _, stored := range versions {
		if version != nil && stored == *version {
			return nil, fmt.Errorf("%w: %s %s version %d", types.ErrObjectAlreadyExists, kind, name, stored)
		}
		if stored >= next {
			next = stored + 1
		}
	}
	if version != nil {
		return version, nil
	}
	return &next, nil
}

func (s *Service) cached(key string) (interface{}, bool) {
	s.mux.RLock()
	defer s.mux.RUnlock()
	value, ok := s.cache[key]
	return value, ok
}

func (s *Service) store(key string, value interface{}) {
	s.mux.Lock()
	defer s.mux.Unlock()
	s.cache[key] = value
}

// invalidate drops cached entries of kind/name, including id based lookups
func (s *Service) invalidate(kind, name string) {
	s.mux.Lock()
	defer s.mux.Unlock()
	prefix := kind + "/"
	for key := range s.cache {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		if strings.HasPrefix(key, prefix+name+"/") || idgen.IsUUID(strings.Split(strings.TrimPrefix(key, prefix), "/")[0]) {
			delete(s.cache, key)
		}
	}
}

func cacheKey(kind, nameOrID string, version *int) string {
	return kind + "/" + nameOrID + "/" + property.VersionName(version)
}

// New creates a loader over store
func New(store dao.Store) *Service {
	ret := &Service{
		definitions: record.New[lifecycle.StepDefinition](store, KindDefinition),
		resources:   map[string]*record.Repository[resource.Resource]{},
		cache:       map[string]interface{}{},
	}
	for _, kind := range []string{resource.KindSchema, resource.KindScript, resource.KindQuery, resource.KindStateMachine} {
		ret.resources[kind] = record.New[resource.Resource](store, kind)
	}
	return ret
}
