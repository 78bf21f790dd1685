package dao

import (
	"context"
	"errors"
)

var (
	// ErrNotFound reports a missing record key
	ErrNotFound = errors.New("dao: not found")
	// ErrInvalidID reports an empty kind or id
	ErrInvalidID = errors.New("dao: invalid id")
	// ErrNilEntity reports an attempt to save nil
	ErrNilEntity = errors.New("dao: nil entity")
)

// Service is a keyed object store. Load and Delete wrap ErrNotFound for
// unknown keys; List with no parameters returns everything.
type Service[K comparable, T any] interface {
	Save(ctx context.Context, t *T) error
	Load(ctx context.Context, key K) (*T, error)
	Delete(ctx context.Context, key K) error
	List(ctx context.Context, parameters ...*Parameter) ([]*T, error)
}

// Store persists records of every kind under their kind/id/version key;
// memory, file system and postgres implementations live in package store
type Store = Service[string, Record]
