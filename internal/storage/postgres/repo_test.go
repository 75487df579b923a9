package postgres

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"

	"github.com/KooshaS/top-soccer-matches/internal/model"
	"github.com/KooshaS/top-soccer-matches/internal/storage"
)

// fakeTx embeds pgx.Tx so only the methods ReplaceAll calls need bodies.
type fakeTx struct {
	pgx.Tx

	execs      []string
	copies     []pgx.Identifier
	copyErr    error
	committed  bool
	rolledBack bool
}

func (f *fakeTx) Exec(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
	f.execs = append(f.execs, sql)
	return pgconn.CommandTag{}, nil
}

func (f *fakeTx) CopyFrom(_ context.Context, table pgx.Identifier, _ []string, src pgx.CopyFromSource) (int64, error) {
	f.copies = append(f.copies, table)
	if f.copyErr != nil {
		return 0, f.copyErr
	}
	var n int64
	for src.Next() {
		if _, err := src.Values(); err != nil {
			return n, err
		}
		n++
	}
	return n, src.Err()
}

func (f *fakeTx) Commit(context.Context) error {
	f.committed = true
	return nil
}

func (f *fakeTx) Rollback(context.Context) error {
	if !f.committed {
		f.rolledBack = true
	}
	return nil
}

type fakePool struct {
	tx    *fakeTx
	execs []string
}

func (p *fakePool) Begin(context.Context) (pgx.Tx, error) { return p.tx, nil }

func (p *fakePool) Exec(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
	p.execs = append(p.execs, sql)
	return pgconn.CommandTag{}, nil
}

func (p *fakePool) Close() {}

func sampleBatches() []storage.Batch {
	return storage.Batches(
		[]model.RankedEntity{{Rank: 1, Name: "Real Madrid", Country: "ESP", Points: 136}},
		nil,
	)
}

func TestReplaceAll_DeletesThenCopies(t *testing.T) {
	t.Parallel()

	tx := &fakeTx{}
	r := &Repo{pool: &fakePool{tx: tx}}

	require.NoError(t, r.ReplaceAll(context.Background(), sampleBatches()))
	require.Equal(t, []string{
		`DELETE FROM "ranked_clubs"`,
		`DELETE FROM "todays_fixtures"`,
	}, tx.execs)
	// empty fixtures batch is not copied
	require.Equal(t, []pgx.Identifier{{"ranked_clubs"}}, tx.copies)
	require.True(t, tx.committed)
	require.False(t, tx.rolledBack)
}

func TestReplaceAll_RollsBackOnCopyError(t *testing.T) {
	t.Parallel()

	tx := &fakeTx{copyErr: errors.New("copy failed")}
	r := &Repo{pool: &fakePool{tx: tx}}

	err := r.ReplaceAll(context.Background(), sampleBatches())
	require.ErrorContains(t, err, "copy ranked_clubs")
	require.False(t, tx.committed)
	require.True(t, tx.rolledBack)
}

func TestEnsureTables_SchemaQualified(t *testing.T) {
	t.Parallel()

	p := &fakePool{}
	r := &Repo{pool: p}

	spec := storage.MirrorTables()[1]
	spec.Name = "soccer.todays_fixtures"
	require.NoError(t, r.EnsureTables(context.Background(), []storage.TableSpec{spec}))

	require.Len(t, p.execs, 2)
	require.Equal(t, `CREATE SCHEMA IF NOT EXISTS "soccer"`, p.execs[0])
	require.True(t, strings.HasPrefix(p.execs[1], `CREATE TABLE IF NOT EXISTS "soccer"."todays_fixtures" (`), p.execs[1])
}

func TestBuildCreateSQL(t *testing.T) {
	t.Parallel()

	schemaSQL, tableSQL, err := buildCreateSQL(storage.MirrorTables()[0])
	require.NoError(t, err)
	require.Empty(t, schemaSQL)
	require.Equal(t,
		`CREATE TABLE IF NOT EXISTS "ranked_clubs" ("rank" bigint NOT NULL, "name" text NOT NULL, "country" text NOT NULL, "points" double precision NOT NULL, PRIMARY KEY ("rank"))`,
		tableSQL)

	_, _, err = buildCreateSQL(storage.TableSpec{Name: "x"})
	require.Error(t, err)
}

func TestSplitQualifiedName(t *testing.T) {
	t.Parallel()

	s, tb := splitQualifiedName("public.ranked_clubs")
	require.Equal(t, "public", s)
	require.Equal(t, "ranked_clubs", tb)

	s, tb = splitQualifiedName("a.b.c")
	require.Empty(t, s)
	require.Equal(t, "a.b.c", tb)
}
