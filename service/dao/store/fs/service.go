package fs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/option"
	"github.com/viant/afs/url"
	"github.com/viant/procdef/service/dao"
	"github.com/viant/procdef/service/dao/criteria"
)

// Service implements an afs based record storage; each record is a JSON file
// at <base>/<kind>/<id>/<version>.json
type Service struct {
	basePath string
	fs       afs.Service
	mu       sync.RWMutex
}

// Ensure Service implements dao.Service
var _ dao.Store = (*Service)(nil)

// Save persists a record
func (s *Service) Save(ctx context.Context, record *dao.Record) error {
	if record == nil {
		return dao.ErrNilEntity
	}
	if err := record.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal record %s: %w", record.Key(), err)
	}
	filePath := s.recordPath(record.Key())
	if err = s.fs.Upload(ctx, filePath, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to save record to file %s: %w", filePath, err)
	}
	return nil
}

// Load retrieves a record by key
func (s *Service) Load(ctx context.Context, key string) (*dao.Record, error) {
	if key == "" {
		return nil, dao.ErrInvalidID
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	filePath := s.recordPath(key)
	exists, err := s.fs.Exists(ctx, filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to check if record exists: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: %s", dao.ErrNotFound, key)
	}
	data, err := s.fs.DownloadWithURL(ctx, filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read record file: %w", err)
	}
	var record dao.Record
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal record %s: %w", key, err)
	}
	return &record, nil
}

// Delete removes a record
func (s *Service) Delete(ctx context.Context, key string) error {
	if key == "" {
		return dao.ErrInvalidID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	filePath := s.recordPath(key)
	exists, err := s.fs.Exists(ctx, filePath)
	if err != nil {
		return fmt.Errorf("failed to check if record exists: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: %s", dao.ErrNotFound, key)
	}
	if err := s.fs.Delete(ctx, filePath); err != nil {
		return fmt.Errorf("failed to delete record file: %w", err)
	}
	return nil
}

// List returns records matching parameters ordered by key. A Kind parameter
// with a single value narrows the listed directory.
func (s *Service) List(ctx context.Context, parameters ...*dao.Parameter) ([]*dao.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	location := s.basePath
	if kind, ok := criteria.Value(dao.ParameterKind, parameters); ok {
		location = url.Join(s.basePath, kind)
		if exists, _ := s.fs.Exists(ctx, location); !exists {
			return nil, nil
		}
	}
	objects, err := s.fs.List(ctx, location, option.NewRecursive(true))
	if err != nil {
		return nil, fmt.Errorf("failed to list record files: %w", err)
	}

	var records []*dao.Record
	for _, object := range objects {
		if object.IsDir() || !strings.HasSuffix(object.Name(), ".json") {
			continue
		}
		data, err := s.fs.Download(ctx, object)
		if err != nil {
			slog.Warn("skipping unreadable record file", "url", object.URL(), "error", err)
			continue
		}
		var record dao.Record
		if err := json.Unmarshal(data, &record); err != nil {
			slog.Warn("skipping malformed record file", "url", object.URL(), "error", err)
			continue
		}
		if !criteria.Matches(&record, parameters) {
			continue
		}
		records = append(records, &record)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Key() < records[j].Key() })
	return records, nil
}

func (s *Service) recordPath(key string) string {
	return url.Join(s.basePath, path.Clean(key)+".json")
}

// New creates a new afs record storage service rooted at basePath
func New(basePath string) (*Service, error) {
	if basePath == "" {
		return nil, fmt.Errorf("base path cannot be empty")
	}

	fs := afs.New()
	ctx := context.Background()
	exists, _ := fs.Exists(ctx, basePath)
	if !exists {
		if err := fs.Create(ctx, basePath, file.DefaultDirOsMode, true); err != nil {
			return nil, fmt.Errorf("failed to create base directory: %w", err)
		}
	}
	basePath = url.Normalize(basePath, file.Scheme)

	return &Service{
		basePath: basePath,
		fs:       fs,
	}, nil
}
