// Package record provides typed, versioned JSON repositories over a record store.
package record

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/viant/procdef/internal/clock"
	"github.com/viant/procdef/service/dao"
)

// Repository stores values of T as records of one kind
type Repository[T any] struct {
	kind  string
	store dao.Store
}

// New creates a repository for kind
func New[T any](store dao.Store, kind string) *Repository[T] {
	return &Repository[T]{kind: kind, store: store}
}

// Kind returns the record kind
func (r *Repository[T]) Kind() string {
	return r.kind
}

// Save stores value under (id, version)
func (r *Repository[T]) Save(ctx context.Context, id string, version *int, value *T) error {
	if value == nil {
		return dao.ErrNilEntity
	}
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal %s %s: %w", r.kind, id, err)
	}
	return r.store.Save(ctx, &dao.Record{Kind: r.kind, ID: id, Version: version, Data: data, UpdatedAt: clock.Now()})
}

// Load returns the value stored under (id, version); a nil version loads the
// highest stored version
func (r *Repository[T]) Load(ctx context.Context, id string, version *int) (*T, error) {
	var record *dao.Record
	var err error
	if version == nil {
		record, err = r.latest(ctx, id)
	} else {
		record, err = r.store.Load(ctx, dao.RecordKey(r.kind, id, version))
	}
	if err != nil {
		return nil, err
	}
	return r.decode(record)
}

// Exists returns true if (id, version) is stored
func (r *Repository[T]) Exists(ctx context.Context, id string, version *int) (bool, error) {
	_, err := r.Load(ctx, id, version)
	if errors.Is(err, dao.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

// Versions returns stored versions of id in ascending order
func (r *Repository[T]) Versions(ctx context.Context, id string) ([]int, error) {
	records, err := r.store.List(ctx, dao.ByKind(r.kind), dao.ByID(id))
	if err != nil {
		return nil, err
	}
	ret := make([]int, 0, len(records))
	for _, record := range records {
		ret = append(ret, record.VersionNumber())
	}
	return ret, nil
}

// Delete removes (id, version)
func (r *Repository[T]) Delete(ctx context.Context, id string, version *int) error {
	return r.store.Delete(ctx, dao.RecordKey(r.kind, id, version))
}

// List returns every stored value of the kind
func (r *Repository[T]) List(ctx context.Context) ([]*T, error) {
	records, err := r.store.List(ctx, dao.ByKind(r.kind))
	if err != nil {
		return nil, err
	}
	ret := make([]*T, 0, len(records))
	for _, record := range records {
		value, err := r.decode(record)
		if err != nil {
			return nil, err
		}
		ret = append(ret, value)
	}
	return ret, nil
}

func (r *Repository[T]) latest(ctx context.Context, id string) (*dao.Record, error) {
	records, err := r.store.List(ctx, dao.ByKind(r.kind), dao.ByID(id))
	if err != nil {
		return nil, err
	}
	var ret *dao.Record
	for _, record := range records {
		if ret == nil || record.VersionNumber() > ret.VersionNumber() {
			ret = record
		}
	}
	if ret == nil {
		return nil, fmt.Errorf("%w: %s %s", dao.ErrNotFound, r.kind, id)
	}
	return ret, nil
}

func (r *Repository[T]) decode(record *dao.Record) (*T, error) {
	value := new(T)
	if err := json.Unmarshal(record.Data, value); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s: %w", record.Key(), err)
	}
	return value, nil
}
