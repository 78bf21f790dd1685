package definition

import (
	"github.com/viant/afs"
	"github.com/viant/procdef/model/item"
	"github.com/viant/procdef/model/lifecycle"
)

type Option func(*Service)

// WithResolver sets the resolver used to look up shared definitions referenced by steps
func WithResolver(resolver lifecycle.Resolver) Option {
	return func(s *Service) {
		s.resolver = resolver
	}
}

// WithPropertyReader sets the reader used to type check collection members
func WithPropertyReader(reader item.PropertyReader) Option {
	return func(s *Service) {
		s.reader = reader
	}
}

// WithFS sets the file system used by Load
func WithFS(fs afs.Service) Option {
	return func(s *Service) {
		s.fs = fs
	}
}
