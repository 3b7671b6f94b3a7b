// Package sqlite implements storage.Store on SQLite (modernc, pure Go).
// It backs the --dev mode and the test fixtures, and works as a real
// single-file deployment target.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/ruslano69/sitedesk/internal/grid"
	"github.com/ruslano69/sitedesk/internal/storage"
)

var _ storage.Store = (*Store)(nil)

func init() {
	storage.Register("sqlite", func() storage.Store {
		return &Store{}
	})
}

type Store struct {
	db *sql.DB
}

func (s *Store) Connect(ctx context.Context, cfg storage.Config) error {
	db, err := sql.Open("sqlite", cfg.DSN)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return fmt.Errorf("ping database: %w", err)
	}

	// A file DSN may serve concurrent page renders; keep writes serialized
	// and waits bounded.
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return fmt.Errorf("apply %s: %w", pragma, err)
		}
	}

	s.db = db
	return nil
}

func (s *Store) Close(ctx context.Context) error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	if s.db == nil {
		return storage.ErrNotConnected
	}
	return s.db.PingContext(ctx)
}

func (s *Store) Kind() string { return "sqlite" }

// DB exposes the handle for dev-mode seeding.
func (s *Store) DB() *sql.DB { return s.db }

func (s *Store) TableExists(ctx context.Context, name string) (bool, error) {
	if s.db == nil {
		return false, storage.ErrNotConnected
	}
	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?", name).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check table existence: %w", err)
	}
	return count > 0, nil
}

func (s *Store) columnInfos(ctx context.Context, name string) ([]storage.ColumnInfo, error) {
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", quoteIdentifier(name)))
	if err != nil {
		return nil, fmt.Errorf("get table schema: %w", err)
	}
	defer rows.Close()

	var infos []storage.ColumnInfo
	for rows.Next() {
		var (
			cid        int
			colName    string
			colType    string
			notNull    int
			defaultVal sql.NullString
			pk         int
		)
		if err := rows.Scan(&cid, &colName, &colType, &notNull, &defaultVal, &pk); err != nil {
			return nil, fmt.Errorf("scan column info: %w", err)
		}
		infos = append(infos, storage.ColumnInfo{
			Name: strings.TrimSpace(colName),
			Kind: kindFromSQLite(colType),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate columns: %w", err)
	}
	if len(infos) == 0 {
		return nil, fmt.Errorf("table %q not found or has no columns", name)
	}
	return infos, nil
}

func (s *Store) LoadTable(ctx context.Context, name string) (*storage.Table, error) {
	if s.db == nil {
		return nil, storage.ErrNotConnected
	}

	infos, err := s.columnInfos(ctx, name)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, fmt.Sprintf("SELECT * FROM %s", quoteIdentifier(name)))
	if err != nil {
		return nil, fmt.Errorf("read table data: %w", err)
	}
	defer rows.Close()

	var data [][]string
	for rows.Next() {
		cells := make([]sql.NullString, len(infos))
		dest := make([]any, len(infos))
		for i := range cells {
			dest[i] = &cells[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		row := make([]string, len(cells))
		for i, c := range cells {
			if c.Valid {
				row[i] = c.String
			}
		}
		data = append(data, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}

	return &storage.Table{Name: name, Columns: infos, Rows: data}, nil
}

// ReplaceTable drops and recreates the destination inside one transaction.
// SQLite DDL is transactional, so a failed write rolls everything back.
func (s *Store) ReplaceTable(ctx context.Context, name string, columns []grid.Column, rows [][]grid.Value) error {
	if s.db == nil {
		return storage.ErrNotConnected
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	quoted := quoteIdentifier(name)
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s", quoted)); err != nil {
		return fmt.Errorf("drop old table: %w", err)
	}

	defs := make([]string, len(columns))
	colNames := make([]string, len(columns))
	for i, c := range columns {
		defs[i] = fmt.Sprintf("%s %s", quoteIdentifier(c.Name), typeFromKind(c.Kind))
		colNames[i] = quoteIdentifier(c.Name)
	}
	createSQL := fmt.Sprintf("CREATE TABLE %s (\n  %s\n)", quoted, strings.Join(defs, ",\n  "))
	if _, err := tx.ExecContext(ctx, createSQL); err != nil {
		return fmt.Errorf("execute CREATE TABLE: %w", err)
	}

	if len(rows) > 0 {
		placeholders := "(" + strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ") + ")"
		insertSQL := fmt.Sprintf("INSERT INTO %s (%s) VALUES %s",
			quoted, strings.Join(colNames, ", "), placeholders)

		stmt, err := tx.PrepareContext(ctx, insertSQL)
		if err != nil {
			return fmt.Errorf("prepare insert: %w", err)
		}
		defer stmt.Close()

		for i, row := range rows {
			args := make([]any, len(row))
			for j, val := range row {
				args[j] = valueToArg(val)
			}
			if _, err := stmt.ExecContext(ctx, args...); err != nil {
				return fmt.Errorf("insert row %d: %w", i, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func quoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func typeFromKind(k grid.Kind) string {
	switch k {
	case grid.KindInt:
		return "INTEGER"
	case grid.KindFloat:
		return "REAL"
	case grid.KindDate:
		return "DATE"
	default:
		return "TEXT"
	}
}

// kindFromSQLite maps a declared column type to the nearest grid kind
// following SQLite's own affinity rules (substring match).
func kindFromSQLite(colType string) grid.Kind {
	t := strings.ToUpper(colType)
	switch {
	case strings.Contains(t, "INT"):
		return grid.KindInt
	case strings.Contains(t, "REAL"), strings.Contains(t, "FLOA"), strings.Contains(t, "DOUB"), strings.Contains(t, "DECIMAL"), strings.Contains(t, "NUMERIC"):
		return grid.KindFloat
	case strings.Contains(t, "DATE"), strings.Contains(t, "TIME"):
		return grid.KindDate
	default:
		return grid.KindText
	}
}

// valueToArg converts a grid cell into a statement argument. Dates go in
// as YYYY-MM-DD text, SQLite's conventional date storage.
func valueToArg(v grid.Value) any {
	if v.IsNull {
		return nil
	}
	switch v.Kind {
	case grid.KindInt:
		return v.Int
	case grid.KindFloat:
		return v.Float
	case grid.KindDate:
		return v.Time.Format("2006-01-02")
	default:
		return v.Str
	}
}
