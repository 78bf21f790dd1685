package procdef

import (
	"context"
	"fmt"

	"github.com/viant/afs"
	"github.com/viant/procdef/service/dao/store/postgres"
	"gopkg.in/yaml.v3"
)

// Store types
const (
	StoreMemory   = "memory"
	StoreFS       = "fs"
	StorePostgres = "postgres"
)

// Config is a serialisable representation of the service configuration. The
// zero value of a nested section means its default.
type Config struct {
	Verification VerificationConfig `json:"verification" yaml:"verification"`
	Dependency   DependencyConfig   `json:"dependency" yaml:"dependency"`
	Store        StoreConfig        `json:"store" yaml:"store"`
	Tracing      TracingConfig      `json:"tracing" yaml:"tracing"`
}

// VerificationConfig controls definition verification
type VerificationConfig struct {
	// MaxEndpoints applies to definitions that do not set AllowedEndpoints
	MaxEndpoints int `json:"maxEndpoints" yaml:"maxEndpoints"`
}

// DependencyConfig controls item property derivation
type DependencyConfig struct {
	AddStateMachineURN bool `json:"addStateMachineURN" yaml:"addStateMachineURN"`
	AddWorkflowURN     bool `json:"addWorkflowURN" yaml:"addWorkflowURN"`
}

// StoreConfig selects the record store
type StoreConfig struct {
	Type    string `json:"type" yaml:"type"`
	BaseURL string `json:"baseURL,omitempty" yaml:"baseURL,omitempty"`
	DSN     string `json:"dsn,omitempty" yaml:"dsn,omitempty"`
	Table   string `json:"table,omitempty" yaml:"table,omitempty"`
}

// TracingConfig enables the stdout span exporter
type TracingConfig struct {
	Enabled     bool   `json:"enabled" yaml:"enabled"`
	ServiceName string `json:"serviceName,omitempty" yaml:"serviceName,omitempty"`
	OutputFile  string `json:"outputFile,omitempty" yaml:"outputFile,omitempty"`
}

// DefaultConfig returns an in-memory configuration with a single endpoint per
// composite and no optional URN properties
func DefaultConfig() *Config {
	return &Config{
		Verification: VerificationConfig{MaxEndpoints: 1},
		Store:        StoreConfig{Type: StoreMemory, Table: postgres.DefaultTable},
		Tracing:      TracingConfig{ServiceName: "procdef"},
	}
}

// Validate returns an error describing the first invalid setting
func (c *Config) Validate() error {
	if c == nil {
		return nil
	}
	if c.Verification.MaxEndpoints < 0 {
		return fmt.Errorf("verification.maxEndpoints must be >= 0")
	}
	switch c.Store.Type {
	case "", StoreMemory:
	case StoreFS:
		if c.Store.BaseURL == "" {
			return fmt.Errorf("store.baseURL is required for %s store", StoreFS)
		}
	case StorePostgres:
		if c.Store.DSN == "" {
			return fmt.Errorf("store.dsn is required for %s store", StorePostgres)
		}
	default:
		return fmt.Errorf("unsupported store.type %q", c.Store.Type)
	}
	return nil
}

// LoadConfig reads a YAML configuration from URL on top of DefaultConfig
func LoadConfig(ctx context.Context, URL string) (*Config, error) {
	data, err := afs.New().DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to load config %s: %w", URL, err)
	}
	ret := DefaultConfig()
	if err = yaml.Unmarshal(data, ret); err != nil {
		return nil, fmt.Errorf("failed to decode config %s: %w", URL, err)
	}
	if err = ret.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", URL, err)
	}
	return ret, nil
}
