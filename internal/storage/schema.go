package storage

import "fmt"

// ColumnType is a portable column type; each backend maps it to its own DDL.
type ColumnType string

const (
	TypeInt   ColumnType = "int"
	TypeFloat ColumnType = "float"
	TypeText  ColumnType = "text"
)

// TableSpec describes one mirror table.
type TableSpec struct {
	Name       string
	Columns    []ColumnSpec
	PrimaryKey []string
}

// ColumnSpec describes one column. Columns are NOT NULL unless Nullable.
type ColumnSpec struct {
	Name     string
	Type     ColumnType
	Nullable bool
}

// ColumnNames returns the column names in declaration order.
func (t TableSpec) ColumnNames() []string {
	out := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		out[i] = c.Name
	}
	return out
}

// Validate checks names and that primary key columns exist.
func (t TableSpec) Validate() error {
	if t.Name == "" {
		return fmt.Errorf("table name is empty")
	}
	if len(t.Columns) == 0 {
		return fmt.Errorf("table %s: no columns", t.Name)
	}
	seen := make(map[string]bool, len(t.Columns))
	for _, c := range t.Columns {
		if c.Name == "" {
			return fmt.Errorf("table %s: column name is empty", t.Name)
		}
		if seen[c.Name] {
			return fmt.Errorf("table %s: duplicate column %s", t.Name, c.Name)
		}
		seen[c.Name] = true
		switch c.Type {
		case TypeInt, TypeFloat, TypeText:
		default:
			return fmt.Errorf("table %s: column %s: unsupported type %q", t.Name, c.Name, c.Type)
		}
	}
	for _, pk := range t.PrimaryKey {
		if !seen[pk] {
			return fmt.Errorf("table %s: primary key column %s not declared", t.Name, pk)
		}
	}
	return nil
}

// Table names used by the mirror.
const (
	RankedClubsTable    = "ranked_clubs"
	TodaysFixturesTable = "todays_fixtures"
)

// MirrorTables returns the two mirror table definitions.
func MirrorTables() []TableSpec {
	return []TableSpec{
		{
			Name: RankedClubsTable,
			Columns: []ColumnSpec{
				{Name: "rank", Type: TypeInt},
				{Name: "name", Type: TypeText},
				{Name: "country", Type: TypeText},
				{Name: "points", Type: TypeFloat},
			},
			PrimaryKey: []string{"rank"},
		},
		{
			Name: TodaysFixturesTable,
			Columns: []ColumnSpec{
				{Name: "id", Type: TypeInt},
				{Name: "home_team", Type: TypeText},
				{Name: "away_team", Type: TypeText},
				{Name: "kickoff", Type: TypeText},
				{Name: "competition", Type: TypeText},
				{Name: "status", Type: TypeText},
			},
			PrimaryKey: []string{"id"},
		},
	}
}
