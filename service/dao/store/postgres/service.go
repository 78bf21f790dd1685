package postgres

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/viant/procdef/service/dao"
	"github.com/viant/procdef/service/dao/criteria"
)

// DefaultTable is the record table used when none is configured
const DefaultTable = "procdef_records"

var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Service implements dao.Store using PostgreSQL via pgx; record data is kept
// in a JSONB column
type Service struct {
	db    *pgxpool.Pool
	table string
}

var _ dao.Store = (*Service)(nil)

// New creates a record store backed by the given pgx connection pool
func New(db *pgxpool.Pool, table string) (*Service, error) {
	if table == "" {
		table = DefaultTable
	}
	if !tableName.MatchString(table) {
		return nil, fmt.Errorf("invalid record table name %q", table)
	}
	return &Service{db: db, table: table}, nil
}

// Connect opens a pool for dsn and creates the record table
func Connect(ctx context.Context, dsn, table string) (*Service, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("records: connect: %w", err)
	}
	ret, err := New(pool, table)
	if err != nil {
		pool.Close()
		return nil, err
	}
	if err = ret.CreateSchema(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("records: create schema: %w", err)
	}
	return ret, nil
}

// Close releases the pool
func (s *Service) Close() {
	s.db.Close()
}

// Save upserts a record
func (s *Service) Save(ctx context.Context, record *dao.Record) error {
	if record == nil {
		return dao.ErrNilEntity
	}
	if err := record.Validate(); err != nil {
		return err
	}
	data := record.Data
	if len(data) == 0 {
		data = []byte("{}")
	}
	query := fmt.Sprintf(`INSERT INTO %s (kind, id, version, data, updated_at) VALUES ($1, $2, $3, $4, NOW())
ON CONFLICT (kind, id, version) DO UPDATE SET data = EXCLUDED.data, updated_at = NOW()`, s.table)
	if _, err := s.db.Exec(ctx, query, record.Kind, record.ID, record.VersionNumber(), []byte(data)); err != nil {
		return fmt.Errorf("records: save %s: %w", record.Key(), err)
	}
	return nil
}

// Load fetches a record by key
func (s *Service) Load(ctx context.Context, key string) (*dao.Record, error) {
	kind, id, version, err := dao.ParseKey(key)
	if err != nil {
		return nil, err
	}
	record := &dao.Record{}
	var data []byte
	var stored int
	err = s.db.QueryRow(ctx,
		fmt.Sprintf(`SELECT kind, id, version, data, updated_at FROM %s WHERE kind = $1 AND id = $2 AND version = $3`, s.table),
		kind, id, version,
	).Scan(&record.Kind, &record.ID, &stored, &data, &record.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", dao.ErrNotFound, key)
		}
		return nil, fmt.Errorf("records: load %s: %w", key, err)
	}
	record.Version = &stored
	record.Data = data
	return record, nil
}

// Delete removes a record by key
func (s *Service) Delete(ctx context.Context, key string) error {
	kind, id, version, err := dao.ParseKey(key)
	if err != nil {
		return err
	}
	tag, err := s.db.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE kind = $1 AND id = $2 AND version = $3`, s.table), kind, id, version)
	if err != nil {
		return fmt.Errorf("records: delete %s: %w", key, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", dao.ErrNotFound, key)
	}
	return nil
}

// List returns records matching Kind and ID parameters ordered by key
func (s *Service) List(ctx context.Context, parameters ...*dao.Parameter) ([]*dao.Record, error) {
	query, args := s.listQuery(parameters)
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("records: query: %w", err)
	}
	defer rows.Close()

	var records []*dao.Record
	for rows.Next() {
		record := &dao.Record{}
		var data []byte
		var version int
		if err := rows.Scan(&record.Kind, &record.ID, &version, &data, &record.UpdatedAt); err != nil {
			return nil, fmt.Errorf("records: scan: %w", err)
		}
		record.Version = &version
		record.Data = data
		if criteria.Matches(record, parameters) {
			records = append(records, record)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("records: rows: %w", err)
	}
	return records, nil
}

func (s *Service) listQuery(parameters []*dao.Parameter) (string, []interface{}) {
	var where []string
	var args []interface{}
	if kind, ok := criteria.Value(dao.ParameterKind, parameters); ok {
		args = append(args, kind)
		where = append(where, fmt.Sprintf("kind = $%d", len(args)))
	}
	if id, ok := criteria.Value(dao.ParameterID, parameters); ok {
		args = append(args, id)
		where = append(where, fmt.Sprintf("id = $%d", len(args)))
	}
	query := fmt.Sprintf(`SELECT kind, id, version, data, updated_at FROM %s`, s.table)
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	return query + " ORDER BY kind, id, version", args
}
