// Package item defines the opaque identity of externally stored entities
// together with the directory contract used to resolve and inspect them.
package item

import (
	"context"

	"github.com/viant/procdef/internal/idgen"
)

// Identity identifies an externally stored entity. The empty identity
// denotes an unbound slot.
type Identity string

// NewIdentity returns a fresh unique identity
func NewIdentity() Identity {
	return Identity(idgen.New())
}

// IsEmpty returns true for an unbound identity
func (i Identity) IsEmpty() bool {
	return i == ""
}

// String returns identity text
func (i Identity) String() string {
	return string(i)
}

// PropertyReader reads an entity's own stored property
type PropertyReader interface {
	ItemProperty(ctx context.Context, id Identity, key string) (string, bool, error)
}

// Resolver resolves a name or uuid into an Identity
type Resolver interface {
	Resolve(ctx context.Context, nameOrID string) (Identity, error)
}

// Directory is the identity/directory collaborator
type Directory interface {
	Resolver
	PropertyReader
}
