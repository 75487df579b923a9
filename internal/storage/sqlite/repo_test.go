package sqlite

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/KooshaS/top-soccer-matches/internal/model"
	"github.com/KooshaS/top-soccer-matches/internal/storage"
)

func openMemory(t *testing.T) *Repo {
	t.Helper()
	repo, err := storage.New(context.Background(), storage.Config{Kind: "sqlite", DSN: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(repo.Close)
	return repo.(*Repo)
}

func count(t *testing.T, r *Repo, table string) int {
	t.Helper()
	var n int
	require.NoError(t, r.db.QueryRow("SELECT COUNT(*) FROM "+sqlIdent(table)).Scan(&n))
	return n
}

func TestMirror_ReplacesContentsEachRun(t *testing.T) {
	t.Parallel()

	r := openMemory(t)
	m := storage.NewMirror(r)
	ctx := context.Background()

	ranked := []model.RankedEntity{
		{Rank: 1, Name: "Real Madrid", Country: "ESP", Points: 136},
		{Rank: 2, Name: "Liverpool", Country: "ENG", Points: 126},
	}
	fixtures := []model.Fixture{{ID: 1, HomeTeam: "Real Madrid", AwayTeam: "Liverpool", Time: "20:00", Competition: "UCL", Status: model.StatusUpcoming}}

	require.NoError(t, m.Persist(ctx, ranked, fixtures))
	require.Equal(t, 2, count(t, r, storage.RankedClubsTable))
	require.Equal(t, 1, count(t, r, storage.TodaysFixturesTable))

	require.NoError(t, m.Persist(ctx, ranked[:1], nil))
	require.Equal(t, 1, count(t, r, storage.RankedClubsTable))
	require.Equal(t, 0, count(t, r, storage.TodaysFixturesTable))

	var name string
	var points float64
	require.NoError(t, r.db.QueryRow(`SELECT "name", "points" FROM "ranked_clubs" WHERE "rank" = 1`).Scan(&name, &points))
	require.Equal(t, "Real Madrid", name)
	require.Equal(t, 136.0, points)
}

func TestReplaceAll_RollsBackOnFailure(t *testing.T) {
	t.Parallel()

	r := openMemory(t)
	ctx := context.Background()
	require.NoError(t, r.EnsureTables(ctx, storage.MirrorTables()))

	good := storage.Batches([]model.RankedEntity{{Rank: 1, Name: "A", Country: "X", Points: 1}}, nil)
	require.NoError(t, r.ReplaceAll(ctx, good))

	// duplicate primary key in the second table fails after the first table
	// was already rewritten inside the transaction
	bad := storage.Batches(
		[]model.RankedEntity{{Rank: 1, Name: "B", Country: "Y", Points: 2}},
		[]model.Fixture{{ID: 1, HomeTeam: "B", AwayTeam: "B", Status: model.StatusUpcoming}, {ID: 1, HomeTeam: "B", AwayTeam: "B", Status: model.StatusUpcoming}},
	)
	require.Error(t, r.ReplaceAll(ctx, bad))

	var name string
	require.NoError(t, r.db.QueryRow(`SELECT "name" FROM "ranked_clubs"`).Scan(&name))
	require.Equal(t, "A", name)
}

func TestReplaceAll_ChunksLargeBatches(t *testing.T) {
	t.Parallel()

	r := openMemory(t)
	ctx := context.Background()
	require.NoError(t, r.EnsureTables(ctx, storage.MirrorTables()))

	var ranked []model.RankedEntity
	for i := 1; i <= 600; i++ {
		ranked = append(ranked, model.RankedEntity{Rank: i, Name: fmt.Sprintf("Club %d", i), Country: "X"})
	}
	require.NoError(t, r.ReplaceAll(ctx, storage.Batches(ranked, nil)))
	require.Equal(t, 600, count(t, r, storage.RankedClubsTable))
}

func TestBuildCreateTableSQL(t *testing.T) {
	t.Parallel()

	ddl, err := buildCreateTableSQL(storage.MirrorTables()[0])
	require.NoError(t, err)
	require.Equal(t,
		`CREATE TABLE IF NOT EXISTS "ranked_clubs" ("rank" INTEGER NOT NULL, "name" TEXT NOT NULL, "country" TEXT NOT NULL, "points" REAL NOT NULL, PRIMARY KEY ("rank"))`,
		ddl)

	_, err = buildCreateTableSQL(storage.TableSpec{})
	require.Error(t, err)
}

func TestChunkRows(t *testing.T) {
	t.Parallel()

	rows := make([][]any, 10)
	require.Nil(t, chunkRows(nil, 4))
	require.Len(t, chunkRows(rows, 4), 1)
	require.Len(t, chunkRows(rows, 200), 3)
}
