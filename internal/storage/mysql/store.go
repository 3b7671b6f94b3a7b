// Package mysql implements storage.Store on MySQL/MariaDB via database/sql.
package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/go-sql-driver/mysql"

	"github.com/ruslano69/sitedesk/internal/grid"
	"github.com/ruslano69/sitedesk/internal/storage"
)

var _ storage.Store = (*Store)(nil)

func init() {
	storage.Register("mysql", func() storage.Store {
		return &Store{}
	})
}

type Store struct {
	db *sql.DB
}

func (s *Store) Connect(ctx context.Context, cfg storage.Config) error {
	db, err := sql.Open("mysql", cfg.DSN)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	if cfg.MaxConns > 0 {
		db.SetMaxOpenConns(cfg.MaxConns)
	} else {
		db.SetMaxOpenConns(10)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return fmt.Errorf("ping database: %w", err)
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

func (s *Store) Kind() string { return "mysql" }

func (s *Store) TableExists(ctx context.Context, name string) (bool, error) {
	if s.db == nil {
		return false, storage.ErrNotConnected
	}
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM information_schema.tables
		WHERE table_schema = DATABASE()
		  AND table_name = ?
	`, name).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check table existence: %w", err)
	}
	return count > 0, nil
}

func (s *Store) columnInfos(ctx context.Context, name string) ([]storage.ColumnInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT column_name, data_type
		FROM information_schema.columns
		WHERE table_schema = DATABASE()
		  AND table_name = ?
		ORDER BY ordinal_position
	`, name)
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
			Kind: kindFromMySQL(dataType),
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

// ReplaceTable drops and recreates the destination, then fills it inside
// one transaction. MySQL DDL commits implicitly, so the drop+create pair
// is not covered by the insert transaction — a mid-insert failure leaves
// an empty table rather than the old rows.
func (s *Store) ReplaceTable(ctx context.Context, name string, columns []grid.Column, rows [][]grid.Value) error {
	if s.db == nil {
		return storage.ErrNotConnected
	}

	quoted := quoteIdentifier(name)
	if _, err := s.db.ExecContext(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s", quoted)); err != nil {
		return fmt.Errorf("drop old table: %w", err)
	}

	defs := make([]string, len(columns))
	colNames := make([]string, len(columns))
	for i, c := range columns {
		defs[i] = fmt.Sprintf("%s %s", quoteIdentifier(c.Name), typeFromKind(c.Kind))
		colNames[i] = quoteIdentifier(c.Name)
	}
	createSQL := fmt.Sprintf("CREATE TABLE %s (\n  %s\n)", quoted, strings.Join(defs, ",\n  "))
	if _, err := s.db.ExecContext(ctx, createSQL); err != nil {
		return fmt.Errorf("execute CREATE TABLE: %w", err)
	}

	if len(rows) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	placeholders := "(" + strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ") + ")"
	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf("INSERT INTO %s (%s) VALUES %s",
		quoted, strings.Join(colNames, ", "), placeholders))
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

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func quoteIdentifier(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

func typeFromKind(k grid.Kind) string {
	switch k {
	case grid.KindInt:
		return "BIGINT"
	case grid.KindFloat:
		return "DOUBLE"
	case grid.KindDate:
		return "DATE"
	default:
		return "TEXT"
	}
}

func kindFromMySQL(dataType string) grid.Kind {
	switch strings.ToLower(dataType) {
	case "tinyint", "smallint", "mediumint", "int", "bigint":
		return grid.KindInt
	case "float", "double", "decimal":
		return grid.KindFloat
	case "date", "datetime", "timestamp":
		return grid.KindDate
	default:
		return grid.KindText
	}
}

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
