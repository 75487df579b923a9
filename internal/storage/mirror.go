package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/KooshaS/top-soccer-matches/internal/model"
)

// Mirror copies each run's datasets into SQL tables. Every Persist replaces
// table contents; there is no history.
type Mirror struct {
	repo Repository

	once    sync.Once
	initErr error
}

// NewMirror wraps repo. Tables are created on first Persist.
func NewMirror(repo Repository) *Mirror {
	return &Mirror{repo: repo}
}

// Persist replaces both mirror tables with ranked and fixtures.
func (m *Mirror) Persist(ctx context.Context, ranked []model.RankedEntity, fixtures []model.Fixture) error {
	m.once.Do(func() {
		m.initErr = m.repo.EnsureTables(ctx, MirrorTables())
	})
	if m.initErr != nil {
		return fmt.Errorf("mirror: ensure tables: %w", m.initErr)
	}
	if err := m.repo.ReplaceAll(ctx, Batches(ranked, fixtures)); err != nil {
		return fmt.Errorf("mirror: replace rows: %w", err)
	}
	return nil
}

// Close closes the underlying repository.
func (m *Mirror) Close() { m.repo.Close() }

// Batches converts the datasets into table batches aligned with
// MirrorTables.
func Batches(ranked []model.RankedEntity, fixtures []model.Fixture) []Batch {
	tables := MirrorTables()

	rr := make([][]any, 0, len(ranked))
	for _, e := range ranked {
		rr = append(rr, []any{int64(e.Rank), e.Name, e.Country, e.Points})
	}
	fr := make([][]any, 0, len(fixtures))
	for _, f := range fixtures {
		fr = append(fr, []any{int64(f.ID), f.HomeTeam, f.AwayTeam, f.Time, f.Competition, string(f.Status)})
	}

	return []Batch{
		{Table: tables[0].Name, Columns: tables[0].ColumnNames(), Rows: rr},
		{Table: tables[1].Name, Columns: tables[1].ColumnNames(), Rows: fr},
	}
}
