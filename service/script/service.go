// Package script evaluates stored Script resources. Each script names its
// language; the service dispatches to the matching engine.
package script

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/viant/procdef/model/collection"
	"github.com/viant/procdef/model/resource"
	"github.com/viant/procdef/model/types"
	"github.com/viant/procdef/service/script/expr"
	"github.com/viant/procdef/service/script/golang"
)

type (
	// Engine evaluates one script language
	Engine interface {
		Language() string
		Evaluate(ctx context.Context, script *resource.Resource, inputs map[string]interface{}) (interface{}, error)
	}

	// Source loads resources by kind, name or id and version
	Source interface {
		Resource(ctx context.Context, kind, nameOrID string, version *int) (*resource.Resource, error)
	}

	// Service implements collection.ScriptEvaluator
	Service struct {
		source          Source
		engines         map[string]Engine
		defaultLanguage string
	}

	// Option customises the service
	Option func(s *Service)
)

var _ collection.ScriptEvaluator = (*Service)(nil)

// WithEngine registers or replaces the engine of its language
func WithEngine(engine Engine) Option {
	return func(s *Service) {
		s.engines[engine.Language()] = engine
	}
}

// WithDefaultLanguage sets the language of scripts that do not name one
func WithDefaultLanguage(language string) Option {
	return func(s *Service) {
		s.defaultLanguage = language
	}
}

// Evaluate loads the named script at version and runs it with inputs
func (s *Service) Evaluate(ctx context.Context, name string, version *int, inputs map[string]interface{}) (interface{}, error) {
	script, err := s.source.Resource(ctx, resource.KindScript, name, version)
	if err != nil {
		return nil, err
	}
	language := script.Language
	if language == "" {
		language = s.defaultLanguage
	}
	engine, ok := s.engines[language]
	if !ok {
		return nil, types.NewInvalidDataError("script %s: unsupported language %q", script.Name, language)
	}
	slog.Debug("evaluating script", "script", script.URN(), "language", language)
	result, err := engine.Evaluate(ctx, script, inputs)
	if err != nil {
		return nil, fmt.Errorf("failed to evaluate %s script %s: %w", language, script.URN(), err)
	}
	return result, nil
}

// Languages returns the registered languages
func (s *Service) Languages() []string {
	ret := make([]string, 0, len(s.engines))
	for language := range s.engines {
		ret = append(ret, language)
	}
	return ret
}

// New creates a script service with the expr and go engines registered
func New(source Source, opts ...Option) *Service {
	ret := &Service{
		source:          source,
		engines:         map[string]Engine{},
		defaultLanguage: resource.LanguageExpr,
	}
	for _, engine := range []Engine{expr.New(), golang.New()} {
		ret.engines[engine.Language()] = engine
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}
