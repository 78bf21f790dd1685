// Package resource defines the records describing schemas, scripts, queries
// and state machines that dependencies point at.
package resource

import (
	"fmt"

	"github.com/viant/procdef/model/property"
)

// Resource kinds stored by the loader
const (
	KindSchema       = "Schema"
	KindScript       = "Script"
	KindQuery        = "Query"
	KindStateMachine = "StateMachine"
)

// Script languages
const (
	LanguageExpr = "expr"
	LanguageGo   = "go"
)

// Resource is a stored, versioned resource. Name is unique per kind; ID is
// the item identity reported in derived URN properties.
type Resource struct {
	Kind        string                    `json:"kind" yaml:"kind"`
	ID          string                    `json:"id" yaml:"id"`
	Name        string                    `json:"name" yaml:"name"`
	Version     *int                      `json:"version,omitempty" yaml:"version,omitempty"`
	Language    string                    `json:"language,omitempty" yaml:"language,omitempty"`
	Body        string                    `json:"body,omitempty" yaml:"body,omitempty"`
	Description *property.DescriptionList `json:"description,omitempty" yaml:"description,omitempty"`
}

// Validate checks the resource can be stored
func (r *Resource) Validate() error {
	switch r.Kind {
	case KindSchema, KindScript, KindQuery, KindStateMachine:
	default:
		return fmt.Errorf("unsupported resource kind %q", r.Kind)
	}
	if r.Name == "" {
		return fmt.Errorf("%s resource name was empty", r.Kind)
	}
	if r.Kind == KindScript && r.Body == "" {
		return fmt.Errorf("script %s body was empty", r.Name)
	}
	return nil
}

// Identity returns ID or, when empty, Name
func (r *Resource) Identity() string {
	if r.ID != "" {
		return r.ID
	}
	return r.Name
}

// URN returns id:version
func (r *Resource) URN() string {
	return r.Identity() + ":" + property.VersionName(r.Version)
}

// Clone returns a copy that shares nothing mutable with r
func (r *Resource) Clone() *Resource {
	if r == nil {
		return nil
	}
	ret := *r
	if r.Version != nil {
		version := *r.Version
		ret.Version = &version
	}
	ret.Description = r.Description.Clone()
	return &ret
}
