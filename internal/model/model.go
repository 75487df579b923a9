// Package model holds the records produced by one pipeline run: the ranked
// clubs, today's fixtures between them, and the name set linking the two.
package model

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// RankedEntity is one row of the club-strength table.
type RankedEntity struct {
	Rank    int     `json:"rank"`
	Name    string  `json:"name"`
	Country string  `json:"country"`
	Points  float64 `json:"points"`
}

// Status is the lifecycle state of a fixture.
type Status string

const (
	StatusUpcoming Status = "upcoming"
	StatusLive     Status = "live"
	StatusFinished Status = "finished"
)

// Valid reports whether s is one of the known states.
func (s Status) Valid() bool {
	switch s {
	case StatusUpcoming, StatusLive, StatusFinished:
		return true
	}
	return false
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("model: unknown fixture status %q", string(s))
	}
	return []byte(s), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Status) UnmarshalText(b []byte) error {
	v := Status(b)
	if !v.Valid() {
		return fmt.Errorf("model: unknown fixture status %q", string(b))
	}
	*s = v
	return nil
}

// Fixture is one scheduled match between two ranked clubs.
//
// ID is local to the run that produced it and starts at 1.
type Fixture struct {
	ID          int    `json:"id"`
	HomeTeam    string `json:"homeTeam"`
	AwayTeam    string `json:"awayTeam"`
	Time        string `json:"time"`
	Competition string `json:"competition"`
	Status      Status `json:"status"`
}

// CanonicalName trims s and converts it to Unicode NFC.
//
// Names from the ranking table and the fixtures page come from independently
// maintained sources; "München" may arrive precomposed from one and decomposed
// from the other. Both sides of every membership check go through this.
func CanonicalName(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// MembershipSet is the set of ranked club names for a single run.
type MembershipSet map[string]struct{}

// NewMembershipSet builds the set from the names of entities.
func NewMembershipSet(entities []RankedEntity) MembershipSet {
	set := make(MembershipSet, len(entities))
	for _, e := range entities {
		set.Add(e.Name)
	}
	return set
}

// Add inserts name in canonical form. Empty names are ignored.
func (s MembershipSet) Add(name string) {
	n := CanonicalName(name)
	if n == "" {
		return
	}
	s[n] = struct{}{}
}

// Contains reports whether name, in canonical form, is in the set.
func (s MembershipSet) Contains(name string) bool {
	_, ok := s[CanonicalName(name)]
	return ok
}

// Len returns the number of names in the set.
func (s MembershipSet) Len() int { return len(s) }
