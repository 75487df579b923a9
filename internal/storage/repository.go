package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Config selects and configures a mirror backend.
//
// Kind must match a registered backend ("sqlite", "postgres", "mssql").
// DSN is passed through to the backend; validation is backend-specific.
type Config struct {
	Kind string
	DSN  string
}

// Batch is the full replacement content for one table.
type Batch struct {
	Table   string
	Columns []string
	Rows    [][]any
}

// Repository is the backend-agnostic surface the snapshot mirror needs.
//
// Each backend implements these semantics in its own idiomatic way (Postgres
// COPY, SQLite multi-row INSERT, SQL Server parameterized batches).
type Repository interface {
	// Close releases backend resources. Call once.
	Close()

	// EnsureTables creates missing tables. Existing tables are left alone.
	EnsureTables(ctx context.Context, tables []TableSpec) error

	// ReplaceAll deletes every row of each batch's table and inserts the
	// batch rows, all inside one transaction. Either every table ends up
	// with its new content or none changes.
	ReplaceAll(ctx context.Context, batches []Batch) error
}

// Factory constructs a Repository for cfg.
type Factory func(ctx context.Context, cfg Config) (Repository, error)

var (
	mu        sync.RWMutex
	factories = map[string]Factory{}
)

// Register makes a backend available under kind. Call it from a backend
// package's init.
//
// Panics if kind is empty, f is nil, or kind is already registered.
func Register(kind string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if kind == "" {
		panic("storage: Register called with empty kind")
	}
	if f == nil {
		panic("storage: Register called with nil factory")
	}
	if _, exists := factories[kind]; exists {
		panic(fmt.Sprintf("storage: factory already registered for kind=%q", kind))
	}
	factories[kind] = f
}

// New constructs a Repository using the backend registered for cfg.Kind.
func New(ctx context.Context, cfg Config) (Repository, error) {
	if cfg.Kind == "" {
		return nil, fmt.Errorf("storage: missing kind")
	}

	mu.RLock()
	f := factories[cfg.Kind]
	mu.RUnlock()

	if f == nil {
		return nil, fmt.Errorf("storage: unsupported kind=%s (registered: %v)", cfg.Kind, Kinds())
	}
	return f(ctx, cfg)
}

// Kinds lists registered backend kinds in sorted order.
func Kinds() []string {
	mu.RLock()
	defer mu.RUnlock()

	out := make([]string, 0, len(factories))
	for k := range factories {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
