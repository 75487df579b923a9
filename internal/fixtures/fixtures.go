// Package fixtures extracts today's fixtures between ranked clubs from a
// fixtures listing page.
package fixtures

import (
	"context"
	"fmt"

	"github.com/KooshaS/top-soccer-matches/internal/extracthtml"
	"github.com/KooshaS/top-soccer-matches/internal/model"
)

// DefaultCompetition labels fixtures whose competition cell is missing.
const DefaultCompetition = "European Football"

// Record keys a fixture scheme must produce.
const (
	FieldHomeTeam    = "homeTeam"
	FieldAwayTeam    = "awayTeam"
	FieldTime        = "time"
	FieldCompetition = "competition"
)

// DefaultScheme matches the fixtures listing layout: one .fixres__item per
// match, team names in the first and last .swap-text--bp30.
func DefaultScheme() extracthtml.MappingFile {
	return extracthtml.MappingFile{
		RecordSelector: ".fixres__item",
		Mappings: []extracthtml.Mapping{
			{Selector: ".swap-text--bp30", Extract: "text", JSONPath: FieldHomeTeam, Pick: extracthtml.PickFirst},
			{Selector: ".swap-text--bp30", Extract: "text", JSONPath: FieldAwayTeam, Pick: extracthtml.PickLast},
			{Selector: ".matches__date", Extract: "text", JSONPath: FieldTime},
			{Selector: ".matches__competition", Extract: "text", JSONPath: FieldCompetition},
		},
	}
}

// Parse returns the fixtures in markup whose home and away teams are both in
// members, in document order, with ids counting from 1. Every fixture is
// upcoming.
func Parse(markup string, scheme extracthtml.MappingFile, members model.MembershipSet) ([]model.Fixture, error) {
	records, err := extracthtml.ExtractRecordsHTML(markup, scheme.RecordSelector, scheme.Mappings)
	if err != nil {
		return nil, err
	}

	out := []model.Fixture{}
	for _, rec := range records {
		home := model.CanonicalName(field(rec, FieldHomeTeam))
		away := model.CanonicalName(field(rec, FieldAwayTeam))
		if home == "" || away == "" {
			continue
		}
		if !members.Contains(home) || !members.Contains(away) {
			continue
		}

		competition := field(rec, FieldCompetition)
		if competition == "" {
			competition = DefaultCompetition
		}

		out = append(out, model.Fixture{
			ID:          len(out) + 1,
			HomeTeam:    home,
			AwayTeam:    away,
			Time:        field(rec, FieldTime),
			Competition: competition,
			Status:      model.StatusUpcoming,
		})
	}
	return out, nil
}

// Ingest fetches url and parses it against members.
func Ingest(ctx context.Context, f extracthtml.Fetcher, url string, scheme extracthtml.MappingFile, members model.MembershipSet) ([]model.Fixture, error) {
	markup, err := f.Fetch(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fixtures: %w", err)
	}
	out, err := Parse(markup, scheme, members)
	if err != nil {
		return nil, fmt.Errorf("fixtures: %w", err)
	}
	return out, nil
}

func field(rec map[string]any, key string) string {
	s, _ := rec[key].(string)
	return s
}
