package dao

import (
	"encoding/json"
	"fmt"
	"path"
	"strconv"
	"strings"
	"time"
)

// Record is a stored, versioned JSON document of a given kind. A nil version
// is stored as version 0.
type Record struct {
	Kind      string          `json:"kind"`
	ID        string          `json:"id"`
	Version   *int            `json:"version,omitempty"`
	Data      json.RawMessage `json:"data"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// Key returns the record path key kind/id/version
func (r *Record) Key() string {
	return RecordKey(r.Kind, r.ID, r.Version)
}

// VersionNumber returns the stored version number
func (r *Record) VersionNumber() int {
	if r.Version == nil {
		return 0
	}
	return *r.Version
}

// Validate checks the record can be keyed
func (r *Record) Validate() error {
	if r.Kind == "" || r.ID == "" || strings.Contains(r.Kind, "/") || strings.Contains(r.ID, "/") {
		return fmt.Errorf("%w: kind %q id %q", ErrInvalidID, r.Kind, r.ID)
	}
	return nil
}

// RecordKey returns the path key of a record
func RecordKey(kind, id string, version *int) string {
	number := 0
	if version != nil {
		number = *version
	}
	return path.Join(kind, id, strconv.Itoa(number))
}

// ParseKey splits a record path key
func ParseKey(key string) (kind, id string, version int, err error) {
	parts := strings.Split(strings.Trim(key, "/"), "/")
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" {
		return "", "", 0, fmt.Errorf("%w: %q", ErrInvalidID, key)
	}
	if version, err = strconv.Atoi(parts[2]); err != nil {
		return "", "", 0, fmt.Errorf("%w: %q: %v", ErrInvalidID, key, err)
	}
	return parts[0], parts[1], version, nil
}
