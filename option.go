package procdef

import (
	"github.com/viant/afs"
	"github.com/viant/procdef/model/collection"
	"github.com/viant/procdef/model/item"
	"github.com/viant/procdef/service/dao"
)

// Option customises the service
type Option func(s *Service)

// WithConfig sets the configuration; DefaultConfig is used otherwise
func WithConfig(config *Config) Option {
	return func(s *Service) {
		s.config = config
	}
}

// WithStore sets the record store, overriding the configured store type
func WithStore(store dao.Store) Option {
	return func(s *Service) {
		s.store = store
	}
}

// WithDirectory sets the identity directory used to type check members
func WithDirectory(directory item.Directory) Option {
	return func(s *Service) {
		s.directory = directory
	}
}

// WithScripts sets the script evaluator used by derivation
func WithScripts(scripts collection.ScriptEvaluator) Option {
	return func(s *Service) {
		s.scripts = scripts
	}
}

// WithHandles adds read-only collaborator handles passed to scripts
func WithHandles(handles map[string]interface{}) Option {
	return func(s *Service) {
		s.handles = handles
	}
}

// WithFS sets the file system used to load definition files
func WithFS(fs afs.Service) Option {
	return func(s *Service) {
		s.fs = fs
	}
}
