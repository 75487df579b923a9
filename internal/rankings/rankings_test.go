package rankings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/KooshaS/top-soccer-matches/internal/extracthtml"
	"github.com/KooshaS/top-soccer-matches/internal/model"
)

func row(cells ...string) string {
	var b strings.Builder
	b.WriteString("<tr>")
	for _, c := range cells {
		fmt.Fprintf(&b, "<td>%s</td>", c)
	}
	b.WriteString("</tr>")
	return b.String()
}

func table(rows ...string) string {
	return "<html><body><table>" + strings.Join(rows, "") + "</table></body></html>"
}

// TestParse_SkipsBlankRowsWithoutConsumingRank covers a five-row table whose
// second row has an empty name: ranks stay contiguous 1..4.
func TestParse_SkipsBlankRowsWithoutConsumingRank(t *testing.T) {
	t.Parallel()

	markup := table(
		"<tr><th>#</th><th>Country</th><th>Club</th><th>Pts</th></tr>",
		row("1", "ESP", "Real Madrid", "136.000"),
		row("2", "ENG", "", "133.000"),
		row("3", "GER", "Bayern München", "131.000"),
		row("4", "ENG", "Liverpool", "126.000"),
		row("5", "FRA", "Paris Saint-Germain", "123.000"),
	)

	got, err := Parse(markup, DefaultTableScheme(), DefaultCap)
	require.NoError(t, err)

	want := []model.RankedEntity{
		{Rank: 1, Name: "Real Madrid", Country: "ESP", Points: 136},
		{Rank: 2, Name: "Bayern München", Country: "GER", Points: 131},
		{Rank: 3, Name: "Liverpool", Country: "ENG", Points: 126},
		{Rank: 4, Name: "Paris Saint-Germain", Country: "FRA", Points: 123},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Parse mismatch (-want +got):\n%s", diff)
	}
}

// TestParse_LenientPoints verifies unparsable or negative points become 0 and
// a missing points cell is tolerated.
func TestParse_LenientPoints(t *testing.T) {
	t.Parallel()

	markup := table(
		row("1", "ESP", "Real Madrid", "n/a"),
		row("2", "ENG", "Arsenal", "-4"),
		row("3", "ITA", "Lazio"),
		row("4", "POR", "Benfica", "102.5 pts"),
	)

	got, err := Parse(markup, DefaultTableScheme(), DefaultCap)
	require.NoError(t, err)
	require.Len(t, got, 4)
	require.Equal(t, []float64{0, 0, 0, 102.5}, []float64{got[0].Points, got[1].Points, got[2].Points, got[3].Points})
}

// TestParse_RespectsCap verifies iteration stops at the cap.
func TestParse_RespectsCap(t *testing.T) {
	t.Parallel()

	var rows []string
	for i := 1; i <= 40; i++ {
		rows = append(rows, row(fmt.Sprint(i), "XXX", fmt.Sprintf("Club %d", i), fmt.Sprint(200-i)))
	}

	got, err := Parse(table(rows...), DefaultTableScheme(), 25)
	require.NoError(t, err)
	require.Len(t, got, 25)
	for i, e := range got {
		require.Equal(t, i+1, e.Rank)
	}
	require.Equal(t, "Club 25", got[24].Name)

	none, err := Parse(table(rows...), DefaultTableScheme(), 0)
	require.NoError(t, err)
	require.Empty(t, none)
}

// TestParse_ShortRowsSkipped verifies rows without a name column are ignored.
func TestParse_ShortRowsSkipped(t *testing.T) {
	t.Parallel()

	got, err := Parse(table(row("1", "ESP"), row("2", "ENG", "Chelsea", "118")), DefaultTableScheme(), DefaultCap)
	require.NoError(t, err)
	require.Equal(t, []model.RankedEntity{{Rank: 1, Name: "Chelsea", Country: "ENG", Points: 118}}, got)
}

// TestParse_NormalizesNames verifies decomposed names come out NFC.
func TestParse_NormalizesNames(t *testing.T) {
	t.Parallel()

	got, err := Parse(table(row("1", "GER", " Bayern Mu\u0308nchen ", "131")), DefaultTableScheme(), DefaultCap)
	require.NoError(t, err)
	require.Equal(t, "Bayern M\u00fcnchen", got[0].Name)
}

// TestParse_CustomScheme verifies a shifted column layout.
func TestParse_CustomScheme(t *testing.T) {
	t.Parallel()

	markup := `<div class="r"><span>ENG</span><span>Arsenal</span><span>108</span></div>`
	scheme := TableScheme{RowSelector: "div.r", CellSelector: "span", CountryColumn: 0}

	got, err := Parse(markup, scheme, 5)
	require.NoError(t, err)
	require.Equal(t, []model.RankedEntity{{Rank: 1, Name: "Arsenal", Country: "ENG", Points: 108}}, got)
}

// TestParse_InvalidScheme verifies selector and column validation.
func TestParse_InvalidScheme(t *testing.T) {
	t.Parallel()

	_, err := Parse("<table></table>", TableScheme{RowSelector: "tr[", CellSelector: "td"}, 25)
	require.ErrorIs(t, err, extracthtml.ErrInvalidSelector)

	_, err = Parse("<table></table>", TableScheme{RowSelector: "tr", CellSelector: "td", CountryColumn: -1}, 25)
	require.Error(t, err)
}

type stubFetcher struct {
	markup string
	err    error
}

func (s stubFetcher) Fetch(context.Context, string) (string, error) { return s.markup, s.err }

// TestIngest_Failures verifies every failure mode maps to ErrNoRankings and
// never returns a partial list.
func TestIngest_Failures(t *testing.T) {
	t.Parallel()

	fetchErr := &extracthtml.FetchError{URL: "u", StatusCode: 500, Err: errors.New("http status 500")}

	cases := map[string]struct {
		f      stubFetcher
		scheme TableScheme
	}{
		"fetch":    {stubFetcher{err: fetchErr}, DefaultTableScheme()},
		"empty":    {stubFetcher{markup: "<html><p>maintenance</p></html>"}, DefaultTableScheme()},
		"selector": {stubFetcher{markup: table(row("1", "ESP", "Real Madrid", "1"))}, TableScheme{RowSelector: "tr[", CellSelector: "td"}},
	}
	for name, c := range cases {
		got, err := Ingest(context.Background(), c.f, "u", c.scheme, DefaultCap)
		require.ErrorIs(t, err, ErrNoRankings, name)
		require.Nil(t, got, name)
	}

	_, err := Ingest(context.Background(), stubFetcher{err: fetchErr}, "u", DefaultTableScheme(), DefaultCap)
	var fe *extracthtml.FetchError
	require.ErrorAs(t, err, &fe)
}

// TestIngest_OK verifies the happy path.
func TestIngest_OK(t *testing.T) {
	t.Parallel()

	got, err := Ingest(context.Background(), stubFetcher{markup: table(row("1", "ENG", "Arsenal", "108"))}, "u", DefaultTableScheme(), DefaultCap)
	require.NoError(t, err)
	require.Len(t, got, 1)
}

// TestIngest_ZeroCap verifies a zero cap is an empty live result, not a failure.
func TestIngest_ZeroCap(t *testing.T) {
	t.Parallel()

	got, err := Ingest(context.Background(), stubFetcher{markup: table(row("1", "ENG", "Arsenal", "108"))}, "u", DefaultTableScheme(), 0)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Empty(t, got)
}

// TestFallback verifies the fixed list shape and that callers get a copy.
func TestFallback(t *testing.T) {
	t.Parallel()

	fb := Fallback()
	require.Len(t, fb, 25)

	seen := make(map[string]bool)
	for i, e := range fb {
		require.Equal(t, i+1, e.Rank)
		require.NotEmpty(t, e.Name)
		require.NotEmpty(t, e.Country)
		require.False(t, seen[e.Name], "duplicate %s", e.Name)
		seen[e.Name] = true
		if i > 0 {
			require.LessOrEqual(t, e.Points, fb[i-1].Points)
		}
		require.Equal(t, model.CanonicalName(e.Name), e.Name)
	}
	require.Equal(t, "Real Madrid", fb[0].Name)
	require.Equal(t, "Glasgow Rangers", fb[24].Name)

	fb[0].Name = "mutated"
	require.Equal(t, "Real Madrid", Fallback()[0].Name)
}
