// Package rankings extracts the ranked club list from a coefficient table and
// provides the fixed fallback used when the live table is unusable.
package rankings

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/KooshaS/top-soccer-matches/internal/extracthtml"
	"github.com/KooshaS/top-soccer-matches/internal/model"
)

// DefaultCap is the number of clubs kept from the table.
const DefaultCap = 25

// ErrNoRankings means a ranking document could not be turned into a
// non-empty list. Callers substitute Fallback.
var ErrNoRankings = errors.New("no rankings")

// TableScheme locates the ranking table inside the markup. Name and points
// are read from the two columns after CountryColumn.
type TableScheme struct {
	RowSelector   string
	CellSelector  string
	CountryColumn int
}

// DefaultTableScheme matches the coefficient table layout: country, club,
// points in cells 1..3.
func DefaultTableScheme() TableScheme {
	return TableScheme{
		RowSelector:   "table tr",
		CellSelector:  "td",
		CountryColumn: 1,
	}
}

// Validate reports malformed selectors or a negative column.
func (s TableScheme) Validate() error {
	if s.CountryColumn < 0 {
		return fmt.Errorf("country column %d is negative", s.CountryColumn)
	}
	if _, err := extracthtml.CompileSelector(s.RowSelector); err != nil {
		return fmt.Errorf("row selector: %w", err)
	}
	if _, err := extracthtml.CompileSelector(s.CellSelector); err != nil {
		return fmt.Errorf("cell selector: %w", err)
	}
	return nil
}

// Parse reads up to limit ranked entities from markup in document order.
//
// A row needs at least CountryColumn+2 cells. Rows with an empty name or
// country are skipped without consuming a rank, so ranks stay contiguous
// from 1. Points that do not parse become 0.
func Parse(markup string, scheme TableScheme, limit int) ([]model.RankedEntity, error) {
	if err := scheme.Validate(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		return []model.RankedEntity{}, nil
	}

	rowSel, _ := extracthtml.CompileSelector(scheme.RowSelector)
	cellSel, _ := extracthtml.CompileSelector(scheme.CellSelector)

	doc, err := extracthtml.ParseDocument(markup)
	if err != nil {
		return nil, err
	}

	countryIdx := scheme.CountryColumn
	nameIdx := countryIdx + 1
	pointsIdx := countryIdx + 2

	out := make([]model.RankedEntity, 0, limit)
	doc.FindMatcher(rowSel).EachWithBreak(func(_ int, row *goquery.Selection) bool {
		cells := row.FindMatcher(cellSel)
		if cells.Length() < nameIdx+1 {
			return true
		}
		country := strings.TrimSpace(cells.Eq(countryIdx).Text())
		name := model.CanonicalName(cells.Eq(nameIdx).Text())
		if name == "" || country == "" {
			return true
		}

		var points float64
		if cells.Length() > pointsIdx {
			points = extracthtml.ParseNonNegative(cells.Eq(pointsIdx).Text())
		}

		out = append(out, model.RankedEntity{
			Rank:    len(out) + 1,
			Name:    name,
			Country: country,
			Points:  points,
		})
		return len(out) < limit
	})

	return out, nil
}

// Ingest fetches url and parses it. Any failure, including a document that
// yields no clubs, is reported as ErrNoRankings wrapping the cause.
func Ingest(ctx context.Context, f extracthtml.Fetcher, url string, scheme TableScheme, limit int) ([]model.RankedEntity, error) {
	markup, err := f.Fetch(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoRankings, err)
	}
	entities, err := Parse(markup, scheme, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoRankings, err)
	}
	if len(entities) == 0 && limit > 0 {
		return nil, fmt.Errorf("%w: table at %s yielded no clubs", ErrNoRankings, url)
	}
	return entities, nil
}
