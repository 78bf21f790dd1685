// Package idgen generates identities for items and runtime processes.
package idgen

import "github.com/google/uuid"

// NewFunc is replaced in tests that need predictable identities
var NewFunc = func() string { return uuid.NewString() }

// New returns a new unique identity
func New() string { return NewFunc() }

// IsUUID reports whether id is a well formed uuid rather than a name
func IsUUID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
