// Package postgres implements storage.Store on PostgreSQL via pgxpool.
package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ruslano69/sitedesk/internal/grid"
	"github.com/ruslano69/sitedesk/internal/storage"
)

var _ storage.Store = (*Store)(nil)

func init() {
	storage.Register("postgres", func() storage.Store {
		return &Store{}
	})
}

// Store holds the process-wide pgx connection pool.
type Store struct {
	pool   *pgxpool.Pool
	schema string
}

func (s *Store) Connect(ctx context.Context, cfg storage.Config) error {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return fmt.Errorf("parse connection string: %w", err)
	}

	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = int32(cfg.MaxConns)
	} else {
		poolCfg.MaxConns = 10
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = int32(cfg.MinConns)
	} else {
		poolCfg.MinConns = 2
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return fmt.Errorf("create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return fmt.Errorf("ping database: %w", err)
	}

	s.pool = pool
	s.schema = cfg.Schema
	if s.schema == "" {
		s.schema = "public"
	}
	return nil
}

func (s *Store) Close(ctx context.Context) error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	if s.pool == nil {
		return storage.ErrNotConnected
	}
	return s.pool.Ping(ctx)
}

func (s *Store) Kind() string { return "postgres" }

// qualified quotes the table name, prefixing the schema when not public.
func (s *Store) qualified(name string) string {
	quoted := QuoteIdentifier(name)
	if s.schema != "public" {
		quoted = QuoteIdentifier(s.schema) + "." + quoted
	}
	return quoted
}

func (s *Store) TableExists(ctx context.Context, name string) (bool, error) {
	if s.pool == nil {
		return false, storage.ErrNotConnected
	}
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM information_schema.tables
			WHERE table_schema = $1
			  AND table_name = $2
		)
	`
	var exists bool
	if err := s.pool.QueryRow(ctx, query, s.schema, name).Scan(&exists); err != nil {
		return false, fmt.Errorf("check table existence: %w", err)
	}
	return exists, nil
}

// columnInfos reads the table's column names and types from
// information_schema in ordinal order, matching SELECT * output.
func (s *Store) columnInfos(ctx context.Context, name string) ([]storage.ColumnInfo, error) {
	query := `
		SELECT column_name, data_type
		FROM information_schema.columns
		WHERE table_schema = $1
		  AND table_name = $2
		ORDER BY ordinal_position
	`
	rows, err := s.pool.Query(ctx, query, s.schema, name)
	if err != nil {
		return nil, fmt.Errorf("get table schema: %w", err)
	}
	defer rows.Close()

	var infos []storage.ColumnInfo
	for rows.Next() {
		var colName, dataType string
		if err := rows.Scan(&colName, &dataType); err != nil {
			return nil, fmt.Errorf("scan column info: %w", err)
		}
		infos = append(infos, storage.ColumnInfo{
			Name: strings.TrimSpace(colName),
			Kind: KindFromPostgres(dataType),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate columns: %w", err)
	}
	if len(infos) == 0 {
		return nil, fmt.Errorf("table %s.%s not found or has no columns", s.schema, name)
	}
	return infos, nil
}

func (s *Store) LoadTable(ctx context.Context, name string) (*storage.Table, error) {
	if s.pool == nil {
		return nil, storage.ErrNotConnected
	}

	infos, err := s.columnInfos(ctx, name)
	if err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx, fmt.Sprintf("SELECT * FROM %s", s.qualified(name)))
	if err != nil {
		return nil, fmt.Errorf("read table data: %w", err)
	}
	defer rows.Close()

	var data [][]string
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		row := make([]string, len(values))
		for i, val := range values {
			row[i] = valueToString(val)
		}
		data = append(data, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}

	return &storage.Table{Name: name, Columns: infos, Rows: data}, nil
}

// ReplaceTable loads the grid into a temp table built from the grid's
// shape, then atomically swaps it over the destination by renaming.
// A failure at any step drops the temp table and leaves the old data.
func (s *Store) ReplaceTable(ctx context.Context, name string, columns []grid.Column, rows [][]grid.Value) error {
	if s.pool == nil {
		return storage.ErrNotConnected
	}

	tempName := fmt.Sprintf("%s_tmp_%s", name, time.Now().Format("20060102_150405"))

	if err := s.createTable(ctx, tempName, columns); err != nil {
		return fmt.Errorf("create temporary table: %w", err)
	}
	if err := s.insertRows(ctx, tempName, columns, rows); err != nil {
		s.dropTable(ctx, tempName)
		return fmt.Errorf("load temporary table: %w", err)
	}
	if err := s.swapTables(ctx, name, tempName); err != nil {
		s.dropTable(ctx, tempName)
		return fmt.Errorf("replace table %q: %w", name, err)
	}
	return nil
}

func (s *Store) createTable(ctx context.Context, name string, columns []grid.Column) error {
	defs := make([]string, len(columns))
	for i, c := range columns {
		defs[i] = fmt.Sprintf("%s %s", QuoteIdentifier(c.Name), TypeFromKind(c.Kind))
	}
	sql := fmt.Sprintf("CREATE TABLE %s (\n  %s\n)", s.qualified(name), strings.Join(defs, ",\n  "))
	if _, err := s.pool.Exec(ctx, sql); err != nil {
		return fmt.Errorf("execute CREATE TABLE: %w", err)
	}
	return nil
}

func (s *Store) insertRows(ctx context.Context, name string, columns []grid.Column, rows [][]grid.Value) error {
	if len(rows) == 0 {
		return nil
	}

	quoted := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = QuoteIdentifier(c.Name)
	}
	insertSQL := fmt.Sprintf("INSERT INTO %s (%s) VALUES ", s.qualified(name), strings.Join(quoted, ", "))

	const batchSize = 1000
	for start := 0; start < len(rows); start += batchSize {
		end := start + batchSize
		if end > len(rows) {
			end = len(rows)
		}

		var placeholders []string
		var args []any
		argIndex := 1
		for _, row := range rows[start:end] {
			group := make([]string, len(row))
			for i, val := range row {
				group[i] = fmt.Sprintf("$%d", argIndex)
				argIndex++
				args = append(args, valueToArg(val))
			}
			placeholders = append(placeholders, "("+strings.Join(group, ", ")+")")
		}

		if _, err := s.pool.Exec(ctx, insertSQL+strings.Join(placeholders, ", "), args...); err != nil {
			return fmt.Errorf("insert batch: %w", err)
		}
	}
	return nil
}

// swapTables renames the temp table over the target: rename old out of
// the way, rename temp in, drop old. Leftover _old tables from a crash
// mid-swap need manual cleanup.
func (s *Store) swapTables(ctx context.Context, target, temp string) error {
	exists, err := s.TableExists(ctx, target)
	if err != nil {
		return err
	}

	if exists {
		oldName := target + "_old"
		if _, err := s.pool.Exec(ctx, fmt.Sprintf("ALTER TABLE %s RENAME TO %s", s.qualified(target), QuoteIdentifier(oldName))); err != nil {
			return fmt.Errorf("rename old table: %w", err)
		}
		if _, err := s.pool.Exec(ctx, fmt.Sprintf("ALTER TABLE %s RENAME TO %s", s.qualified(temp), QuoteIdentifier(target))); err != nil {
			// Put the old table back so the destination is never missing.
			s.pool.Exec(ctx, fmt.Sprintf("ALTER TABLE %s RENAME TO %s", s.qualified(oldName), QuoteIdentifier(target)))
			return fmt.Errorf("rename temp table: %w", err)
		}
		s.dropTable(ctx, oldName)
		return nil
	}

	if _, err := s.pool.Exec(ctx, fmt.Sprintf("ALTER TABLE %s RENAME TO %s", s.qualified(temp), QuoteIdentifier(target))); err != nil {
		return fmt.Errorf("rename temp table: %w", err)
	}
	return nil
}

func (s *Store) dropTable(ctx context.Context, name string) {
	s.pool.Exec(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE", s.qualified(name)))
}
