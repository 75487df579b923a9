package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/KooshaS/top-soccer-matches/internal/model"
)

type fakeRepo struct {
	ensureCalls int
	ensureErr   error
	replaceErr  error
	batches     [][]Batch
	closed      bool
}

func (f *fakeRepo) Close() { f.closed = true }

func (f *fakeRepo) EnsureTables(_ context.Context, tables []TableSpec) error {
	f.ensureCalls++
	for _, t := range tables {
		if err := t.Validate(); err != nil {
			return err
		}
	}
	return f.ensureErr
}

func (f *fakeRepo) ReplaceAll(_ context.Context, b []Batch) error {
	f.batches = append(f.batches, b)
	return f.replaceErr
}

func TestRegisterAndNew(t *testing.T) {
	repo := &fakeRepo{}
	Register("fake-registry-test", func(context.Context, Config) (Repository, error) { return repo, nil })

	got, err := New(context.Background(), Config{Kind: "fake-registry-test"})
	require.NoError(t, err)
	require.Same(t, repo, got)
	require.Contains(t, Kinds(), "fake-registry-test")

	_, err = New(context.Background(), Config{})
	require.Error(t, err)

	_, err = New(context.Background(), Config{Kind: "nope"})
	require.ErrorContains(t, err, "unsupported kind=nope")

	require.Panics(t, func() {
		Register("fake-registry-test", func(context.Context, Config) (Repository, error) { return nil, nil })
	})
	require.Panics(t, func() { Register("", nil) })
}

func TestMirrorTables_Valid(t *testing.T) {
	t.Parallel()

	for _, tbl := range MirrorTables() {
		require.NoError(t, tbl.Validate(), tbl.Name)
	}

	bad := TableSpec{Name: "x", Columns: []ColumnSpec{{Name: "a", Type: "blob"}}}
	require.Error(t, bad.Validate())

	bad = TableSpec{Name: "x", Columns: []ColumnSpec{{Name: "a", Type: TypeInt}}, PrimaryKey: []string{"b"}}
	require.Error(t, bad.Validate())
}

func TestMirror_PersistReplacesBothTables(t *testing.T) {
	t.Parallel()

	repo := &fakeRepo{}
	m := NewMirror(repo)

	ranked := []model.RankedEntity{{Rank: 1, Name: "Real Madrid", Country: "ESP", Points: 136}}
	fixtures := []model.Fixture{{ID: 1, HomeTeam: "Real Madrid", AwayTeam: "Liverpool", Time: "20:00", Competition: "UCL", Status: model.StatusUpcoming}}

	require.NoError(t, m.Persist(context.Background(), ranked, fixtures))
	require.NoError(t, m.Persist(context.Background(), ranked, nil))

	require.Equal(t, 1, repo.ensureCalls)
	require.Len(t, repo.batches, 2)

	first := repo.batches[0]
	require.Equal(t, RankedClubsTable, first[0].Table)
	require.Equal(t, []any{int64(1), "Real Madrid", "ESP", 136.0}, first[0].Rows[0])
	require.Equal(t, TodaysFixturesTable, first[1].Table)
	require.Equal(t, []any{int64(1), "Real Madrid", "Liverpool", "20:00", "UCL", "upcoming"}, first[1].Rows[0])

	require.Empty(t, repo.batches[1][1].Rows)

	m.Close()
	require.True(t, repo.closed)
}

func TestMirror_Errors(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")

	m := NewMirror(&fakeRepo{ensureErr: boom})
	require.ErrorIs(t, m.Persist(context.Background(), nil, nil), boom)

	m = NewMirror(&fakeRepo{replaceErr: boom})
	err := m.Persist(context.Background(), nil, nil)
	require.ErrorIs(t, err, boom)
	require.ErrorContains(t, err, "replace rows")
}
