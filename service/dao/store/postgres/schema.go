package postgres

import (
	"context"
	"fmt"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS %[1]s (
    kind       TEXT NOT NULL,
    id         TEXT NOT NULL,
    version    INTEGER NOT NULL DEFAULT 0,
    data       JSONB NOT NULL DEFAULT '{}',
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    PRIMARY KEY (kind, id, version)
);

CREATE INDEX IF NOT EXISTS idx_%[1]s_kind_id ON %[1]s(kind, id);
`

// CreateSchema creates the record table if it doesn't exist.
func (s *Service) CreateSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, fmt.Sprintf(schemaSQL, s.table))
	return err
}

// DropSchema drops the record table.
func (s *Service) DropSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, fmt.Sprintf(`DROP TABLE IF EXISTS %s;`, s.table))
	return err
}
