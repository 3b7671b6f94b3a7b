// Package storage defines the relational backend contract: one store per
// process, full-table reads and full-table replaces, nothing incremental.
// Driver packages (postgres, sqlite, mysql) register themselves in the
// factory from their init().
package storage

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/ruslano69/sitedesk/internal/grid"
)

// Config selects and parameterizes a driver.
type Config struct {
	Driver   string `yaml:"driver"`    // postgres, sqlite, mysql
	DSN      string `yaml:"dsn"`       // secret; falls back to SITEDESK_DB_DSN
	Schema   string `yaml:"schema"`    // postgres only; default "public"
	MaxConns int    `yaml:"max_conns"` // postgres pool size; default 10
	MinConns int    `yaml:"min_conns"` // postgres pool floor; default 2
}

// ColumnInfo is a storage-side column: its stored name and the nearest
// grid kind for its native type.
type ColumnInfo struct {
	Name string
	Kind grid.Kind
}

// Table is the raw result of a full-table read. Cell values are strings
// in wire form; NULL becomes "".
type Table struct {
	Name    string
	Columns []ColumnInfo
	Rows    [][]string
}

// Store is the contract every driver implements. All operations are
// single short-lived statements or one transaction — no state spans
// a user interaction.
type Store interface {
	Connect(ctx context.Context, cfg Config) error
	Close(ctx context.Context) error
	Ping(ctx context.Context) error
	Kind() string
	TableExists(ctx context.Context, name string) (bool, error)
	// LoadTable issues an unfiltered SELECT * and returns every column
	// and row of the named table.
	LoadTable(ctx context.Context, name string) (*Table, error)
	// ReplaceTable drops and recreates the destination from the given
	// shape and rows. Prior rows and schema are gone; last writer wins.
	ReplaceTable(ctx context.Context, name string, columns []grid.Column, rows [][]grid.Value) error
}

// ErrNotConnected is returned by drivers used before Connect.
var ErrNotConnected = errors.New("storage: not connected")

var (
	registryMu sync.RWMutex
	registry   = make(map[string]func() Store)
)

// Register installs a driver constructor under its name. Called from the
// driver package's init().
func Register(driver string, constructor func() Store) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[driver] = constructor
}

// New returns an unconnected store for the given driver name.
func New(driver string) (Store, error) {
	registryMu.RLock()
	constructor, ok := registry[driver]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("storage: unknown driver %q (registered: %v)", driver, Drivers())
	}
	return constructor(), nil
}

// Drivers lists the registered driver names, sorted.
func Drivers() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Provider hands out the process-wide store handle. The connection is
// established lazily on the first Get and memoized for the lifetime of
// the process; a connect failure is memoized too and aborts every render
// until restart.
type Provider struct {
	cfg   Config
	once  sync.Once
	store Store
	err   error
}

// NewProvider wraps a config without connecting.
func NewProvider(cfg Config) *Provider {
	return &Provider{cfg: cfg}
}

// Get returns the memoized store, connecting on first use.
func (p *Provider) Get(ctx context.Context) (Store, error) {
	p.once.Do(func() {
		store, err := New(p.cfg.Driver)
		if err != nil {
			p.err = err
			return
		}
		if err := store.Connect(ctx, p.cfg); err != nil {
			p.err = fmt.Errorf("storage: connect (%s): %w", p.cfg.Driver, err)
			return
		}
		p.store = store
	})
	return p.store, p.err
}

// Close releases the underlying connection if one was ever opened.
func (p *Provider) Close(ctx context.Context) error {
	if p.store != nil {
		return p.store.Close(ctx)
	}
	return nil
}
