// Package postgres implements the snapshot mirror on PostgreSQL via pgx.
package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/KooshaS/top-soccer-matches/internal/storage"
)

// pool is the subset of *pgxpool.Pool the repo uses.
type pool interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Close()
}

// Repo implements storage.Repository for Postgres.
type Repo struct {
	pool pool
}

func init() {
	storage.Register("postgres", New)
}

// New connects a pgx pool to cfg.DSN.
func New(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
	p, err := pgxpool.New(ctx, cfg.DSN)
	if err != nil {
		return nil, err
	}
	if err := p.Ping(ctx); err != nil {
		p.Close()
		return nil, err
	}
	return &Repo{pool: p}, nil
}

// Close closes the connection pool.
func (r *Repo) Close() { r.pool.Close() }

// EnsureTables creates schemas and tables that do not exist yet.
func (r *Repo) EnsureTables(ctx context.Context, tables []storage.TableSpec) error {
	for _, t := range tables {
		schemaSQL, tableSQL, err := buildCreateSQL(t)
		if err != nil {
			return err
		}
		if schemaSQL != "" {
			if _, err := r.pool.Exec(ctx, schemaSQL); err != nil {
				return fmt.Errorf("create schema for %s: %w", t.Name, err)
			}
		}
		if _, err := r.pool.Exec(ctx, tableSQL); err != nil {
			return fmt.Errorf("create table %s: %w", t.Name, err)
		}
	}
	return nil
}

// ReplaceAll deletes and COPYs every batch inside one transaction.
func (r *Repo) ReplaceAll(ctx context.Context, batches []storage.Batch) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	// no-op after a successful commit
	defer func() { _ = tx.Rollback(ctx) }()

	for _, b := range batches {
		if _, err := tx.Exec(ctx, "DELETE FROM "+tableIdent(b.Table)); err != nil {
			return fmt.Errorf("delete %s: %w", b.Table, err)
		}
		if len(b.Rows) == 0 {
			continue
		}
		n, err := tx.CopyFrom(ctx, copyIdentifier(b.Table), b.Columns, pgx.CopyFromRows(b.Rows))
		if err != nil {
			return fmt.Errorf("copy %s: %w", b.Table, err)
		}
		if n != int64(len(b.Rows)) {
			return fmt.Errorf("copy %s: wrote %d of %d rows", b.Table, n, len(b.Rows))
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func pgIdent(id string) string {
	return pgx.Identifier{id}.Sanitize()
}

// splitQualifiedName splits "schema.table" into its parts. Anything other
// than exactly one dot is treated as unqualified.
func splitQualifiedName(name string) (schema, table string) {
	name = strings.TrimSpace(name)
	parts := strings.Split(name, ".")
	if len(parts) != 2 {
		return "", name
	}
	return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
}

func copyIdentifier(name string) pgx.Identifier {
	schema, table := splitQualifiedName(name)
	if schema == "" {
		return pgx.Identifier{table}
	}
	return pgx.Identifier{schema, table}
}

func tableIdent(name string) string {
	return copyIdentifier(name).Sanitize()
}

func pgType(t storage.ColumnType) string {
	switch t {
	case storage.TypeInt:
		return "bigint"
	case storage.TypeFloat:
		return "double precision"
	default:
		return "text"
	}
}

// buildCreateSQL renders the schema DDL (empty for unqualified names) and
// the table DDL.
func buildCreateSQL(t storage.TableSpec) (schemaSQL, tableSQL string, err error) {
	if err := t.Validate(); err != nil {
		return "", "", err
	}

	if schema, _ := splitQualifiedName(t.Name); schema != "" {
		schemaSQL = "CREATE SCHEMA IF NOT EXISTS " + pgIdent(schema)
	}

	defs := make([]string, 0, len(t.Columns)+1)
	for _, c := range t.Columns {
		d := pgIdent(c.Name) + " " + pgType(c.Type)
		if !c.Nullable {
			d += " NOT NULL"
		}
		defs = append(defs, d)
	}
	if len(t.PrimaryKey) > 0 {
		pk := make([]string, len(t.PrimaryKey))
		for i, c := range t.PrimaryKey {
			pk[i] = pgIdent(c)
		}
		defs = append(defs, "PRIMARY KEY ("+strings.Join(pk, ", ")+")")
	}

	tableSQL = fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", tableIdent(t.Name), strings.Join(defs, ", "))
	return schemaSQL, tableSQL, nil
}
