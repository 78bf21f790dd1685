package procdef

import (
	"context"
	"errors"
	"fmt"

	"github.com/viant/afs"
	"github.com/viant/procdef/internal/clock"
	"github.com/viant/procdef/internal/idgen"
	"github.com/viant/procdef/model/collection"
	"github.com/viant/procdef/model/instance"
	"github.com/viant/procdef/model/item"
	"github.com/viant/procdef/model/lifecycle"
	"github.com/viant/procdef/model/property"
	"github.com/viant/procdef/model/resource"
	"github.com/viant/procdef/model/types"
	"github.com/viant/procdef/service/dao"
	"github.com/viant/procdef/service/dao/definition"
	"github.com/viant/procdef/service/dao/record"
	"github.com/viant/procdef/service/dao/store"
	"github.com/viant/procdef/service/dao/store/fs"
	"github.com/viant/procdef/service/dao/store/postgres"
	"github.com/viant/procdef/service/directory/memory"
	"github.com/viant/procdef/service/loader"
	"github.com/viant/procdef/service/script"
	"github.com/viant/procdef/tracing"
	"golang.org/x/sync/errgroup"
)

// KindProcess is the record kind of persisted runtime processes
const KindProcess = "RuntimeGraph"

// Script inputs holding the loader and the identity directory; WithHandles
// entries are added next to them and may replace them
const (
	HandleLoader    = "loader"
	HandleDirectory = "directory"
)

// Service is the entry point for defining, verifying and instantiating
// process definitions
type Service struct {
	config      *Config
	fs          afs.Service
	store       dao.Store
	closer      func()
	directory   item.Directory
	scripts     collection.ScriptEvaluator
	handles     map[string]interface{}
	loader      *loader.Service
	deriver     *collection.Deriver
	definitions *definition.Service
	processes   *record.Repository[instance.Process]
}

func (s *Service) init(ctx context.Context, options []Option) error {
	for _, option := range options {
		option(s)
	}
	if s.config == nil {
		s.config = DefaultConfig()
	}
	if err := s.config.Validate(); err != nil {
		return err
	}
	if s.config.Tracing.Enabled {
		if err := tracing.Init(s.config.Tracing.ServiceName, s.config.Tracing.OutputFile); err != nil {
			return fmt.Errorf("failed to init tracing: %w", err)
		}
	}
	if s.store == nil {
		if err := s.ensureStore(ctx); err != nil {
			return err
		}
	}
	if s.fs == nil {
		s.fs = afs.New()
	}
	if s.directory == nil {
		s.directory = memory.New()
	}
	s.loader = loader.New(s.store)
	if s.scripts == nil {
		s.scripts = script.New(s.loader)
	}
	handles := map[string]interface{}{HandleLoader: s.loader, HandleDirectory: s.directory}
	for name, handle := range s.handles {
		handles[name] = handle
	}
	s.deriver = collection.NewDeriver(s.loader,
		collection.WithScripts(s.scripts),
		collection.WithHandles(handles),
		collection.WithStateMachineURN(s.config.Dependency.AddStateMachineURN),
		collection.WithWorkflowURN(s.config.Dependency.AddWorkflowURN))
	s.definitions = definition.New(
		definition.WithFS(s.fs),
		definition.WithResolver(s.loader),
		definition.WithPropertyReader(s.directory))
	s.processes = record.New[instance.Process](s.store, KindProcess)
	return nil
}

func (s *Service) ensureStore(ctx context.Context) error {
	cfg := s.config.Store
	switch cfg.Type {
	case StoreFS:
		srv, err := fs.New(cfg.BaseURL)
		if err != nil {
			return err
		}
		s.store = srv
	case StorePostgres:
		srv, err := postgres.Connect(ctx, cfg.DSN, cfg.Table)
		if err != nil {
			return err
		}
		s.store = srv
		s.closer = srv.Close
	default:
		s.store = store.NewMemory()
	}
	return nil
}

// Close releases the store connection, if any
func (s *Service) Close() {
	if s.closer != nil {
		s.closer()
	}
}

// Directory returns the identity directory
func (s *Service) Directory() item.Directory {
	return s.directory
}

// Loader returns the definition and resource loader
func (s *Service) Loader() *loader.Service {
	return s.loader
}

// Deriver returns the configured property deriver
func (s *Service) Deriver() *collection.Deriver {
	return s.deriver
}

// LoadDefinition decodes the YAML definition at URL
func (s *Service) LoadDefinition(ctx context.Context, URL string) (*lifecycle.StepDefinition, error) {
	return s.definitions.Load(ctx, URL)
}

// DecodeDefinition decodes a YAML definition
func (s *Service) DecodeDefinition(ctx context.Context, data []byte) (*lifecycle.StepDefinition, error) {
	return s.definitions.DecodeYAML(ctx, data)
}

// SaveDefinition stores a shared definition; a nil version gets the next one
// and a stored version is never overwritten
func (s *Service) SaveDefinition(ctx context.Context, def *lifecycle.StepDefinition) (int, error) {
	return s.loader.SaveDefinition(ctx, def)
}

// Definition returns a stored definition; a nil version returns the latest
func (s *Service) Definition(ctx context.Context, nameOrID string, version *int) (*lifecycle.StepDefinition, error) {
	return s.loader.Definition(ctx, nameOrID, version)
}

// SaveResource stores a schema, script, query or state machine resource
func (s *Service) SaveResource(ctx context.Context, res *resource.Resource) (int, error) {
	return s.loader.SaveResource(ctx, res)
}

// Verify checks def and returns every problem found. Definitions without
// AllowedEndpoints use the configured maximum.
func (s *Service) Verify(ctx context.Context, def *lifecycle.StepDefinition) (bool, []error) {
	ctx, span := tracing.Start(ctx, "verify", def.Name, def.VersionName())
	target := def
	if def.AllowedEndpoints <= 0 && s.config.Verification.MaxEndpoints > 1 {
		adjusted := *def
		adjusted.AllowedEndpoints = s.config.Verification.MaxEndpoints
		target = &adjusted
	}
	ok, errs := target.Verify(ctx, s.loader)
	span.Errors(len(errs)).End(errors.Join(errs...))
	return ok, errs
}

// Instantiate builds the runtime graph of def
func (s *Service) Instantiate(ctx context.Context, def *lifecycle.StepDefinition) (*instance.Step, error) {
	ctx, span := tracing.Start(ctx, "instantiate", def.Name, def.VersionName())
	ret, err := def.Instantiate(ctx, s.loader, s.deriver)
	span.End(err)
	return ret, err
}

// InstantiateAll instantiates defs concurrently; results keep the order of defs
func (s *Service) InstantiateAll(ctx context.Context, defs ...*lifecycle.StepDefinition) ([]*instance.Step, error) {
	ret := make([]*instance.Step, len(defs))
	group, gctx := errgroup.WithContext(ctx)
	for i, def := range defs {
		group.Go(func() error {
			step, err := s.Instantiate(gctx, def)
			if err != nil {
				return fmt.Errorf("failed to instantiate %s: %w", def.Name, err)
			}
			ret[i] = step
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return ret, nil
}

// CreateProcess verifies and instantiates a stored definition and persists
// the resulting runtime process
func (s *Service) CreateProcess(ctx context.Context, nameOrID string, version *int) (*instance.Process, error) {
	ctx, span := tracing.Start(ctx, "createProcess", nameOrID, property.VersionName(version))
	ret, err := s.createProcess(ctx, nameOrID, version)
	span.End(err)
	return ret, err
}

func (s *Service) createProcess(ctx context.Context, nameOrID string, version *int) (*instance.Process, error) {
	def, err := s.loader.Definition(ctx, nameOrID, version)
	if err != nil {
		return nil, err
	}
	if ok, errs := s.Verify(ctx, def); !ok {
		return nil, types.Wrap(types.ErrInvalidData, errors.Join(errs...), "definition %s version %s failed verification", def.Name, def.VersionName())
	}
	root, err := s.Instantiate(ctx, def)
	if err != nil {
		return nil, err
	}
	ret := &instance.Process{
		ID:           idgen.New(),
		Definition:   def.Name,
		DefinitionID: def.ItemID.String(),
		Version:      def.Version,
		Created:      clock.Now(),
		Root:         root,
	}
	if err = s.processes.Save(ctx, ret.ID, nil, ret); err != nil {
		return nil, fmt.Errorf("failed to save process %s: %w", ret.ID, err)
	}
	return ret, nil
}

// Process returns a persisted runtime process
func (s *Service) Process(ctx context.Context, id string) (*instance.Process, error) {
	ret, err := s.processes.Load(ctx, id, nil)
	if err != nil {
		return nil, types.Wrap(types.ErrObjectNotFound, err, "process %s", id)
	}
	return ret, nil
}

// ItemProperties returns the item properties contributed by every collection
// of def
func (s *Service) ItemProperties(ctx context.Context, def *lifecycle.StepDefinition) (property.Properties, error) {
	var ret property.Properties
	for _, dep := range def.Collections {
		props, err := s.deriver.ItemProperties(ctx, dep)
		if err != nil {
			return nil, fmt.Errorf("collection %s: %w", dep.Name, err)
		}
		ret.Merge(props)
	}
	return ret, nil
}

// NewCollectionInstance creates a dependency from description, filling class
// properties from the stored schema of each member
func (s *Service) NewCollectionInstance(ctx context.Context, description *collection.DependencyDescription) (*collection.Dependency, error) {
	return description.NewInstance(ctx, s.loader)
}

// New creates a service
func New(ctx context.Context, options ...Option) (*Service, error) {
	ret := &Service{}
	if err := ret.init(ctx, options); err != nil {
		return nil, err
	}
	return ret, nil
}
