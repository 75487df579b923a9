// Command extract-html is the authoring tool for the scraper's selectors.
// It reads HTML from stdin or a URL and either prints selector matches,
// runs a mappings file, or runs the rankings/fixtures parsers and prints
// what the pipeline would write.
//
// Debug (print outer HTML blocks):
//
//	cat page.html | extract-html --selector ".fixres__item"
//
// Debug (print text for selector matches):
//
//	extract-html --url https://www.skysports.com/football-fixtures --selector ".swap-text--bp30" --text
//
// Mappings (JSON output):
//
//	cat page.html | extract-html --mappings fixtures.json
//
// Parsers (snapshot output):
//
//	extract-html --url "$RANKINGS_URL" --parse rankings --cap 10
//	cat fixtures.html | extract-html --parse fixtures --members "Real Madrid,Liverpool"
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/KooshaS/top-soccer-matches/internal/extracthtml"
	"github.com/KooshaS/top-soccer-matches/internal/fixtures"
	"github.com/KooshaS/top-soccer-matches/internal/model"
	"github.com/KooshaS/top-soccer-matches/internal/rankings"
	"github.com/KooshaS/top-soccer-matches/internal/snapshot"
)

const (
	parseRankings = "rankings"
	parseFixtures = "fixtures"
)

func main() {
	os.Exit(run(
		context.Background(),
		os.Args[1:],
		os.Stdin,
		os.Stdout,
		os.Stderr,
		http.DefaultClient,
	))
}

type options struct {
	url       string
	selector  string
	textOnly  bool
	mappings  string
	parse     string
	members   string
	cap       int
	timeout   time.Duration
	userAgent string
}

// errUsage marks errors that map to exit code 2.
type errUsage struct{ msg string }

func (e errUsage) Error() string { return e.msg }

// run is split out from main so we can unit test the command without spawning
// an OS process.
//
// It returns a Unix-style exit code:
//   - 0 for success
//   - 2 for usage/config errors
//   - 1 for operational/runtime errors
func run(
	ctx context.Context,
	args []string,
	stdin io.Reader,
	stdout io.Writer,
	stderr io.Writer,
	httpClient *http.Client,
) int {
	var opts options
	code := 0

	cmd := &cobra.Command{
		Use:           "extract-html",
		Short:         "Inspect and extract HTML with the scraper's selectors and parsers.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			err := extract(cmd.Context(), opts, stdin, stdout, stderr, httpClient)
			if err == nil {
				return nil
			}
			fmt.Fprintln(stderr, err)
			var usage errUsage
			if errors.As(err, &usage) {
				code = 2
			} else {
				code = 1
			}
			return nil
		},
	}
	if args == nil {
		args = []string{}
	}
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	f := cmd.Flags()
	f.StringVar(&opts.url, "url", "", "fetch HTML from URL instead of stdin")
	f.StringVar(&opts.selector, "selector", "", "debug: CSS selector to print matches for (not JSON)")
	f.BoolVar(&opts.textOnly, "text", false, "debug: print text blocks for --selector matches")
	f.StringVar(&opts.mappings, "mappings", "", "mappings JSON file; with --parse fixtures it replaces the built-in scheme")
	f.StringVar(&opts.parse, "parse", "", "run a parser: rankings|fixtures")
	f.StringVar(&opts.members, "members", "", "comma separated ranked names for --parse fixtures; empty keeps nothing")
	f.IntVar(&opts.cap, "cap", rankings.DefaultCap, "maximum entries for --parse rankings")
	f.DurationVar(&opts.timeout, "timeout", extracthtml.DefaultTimeout, "timeout for --url fetch")
	f.StringVar(&opts.userAgent, "user-agent", extracthtml.DefaultUserAgent, "User-Agent for --url fetch")

	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	return code
}

func extract(ctx context.Context, opts options, stdin io.Reader, stdout, stderr io.Writer, httpClient *http.Client) error {
	modes := 0
	for _, set := range []bool{opts.selector != "", opts.parse != "", opts.mappings != "" && opts.parse == ""} {
		if set {
			modes++
		}
	}
	switch {
	case modes == 0:
		return errUsage{"one of --selector, --mappings or --parse is required"}
	case modes > 1:
		return errUsage{"--selector, --mappings and --parse are mutually exclusive"}
	}
	if opts.parse != "" && opts.parse != parseRankings && opts.parse != parseFixtures {
		return errUsage{fmt.Sprintf("--parse must be %s or %s, got %q", parseRankings, parseFixtures, opts.parse)}
	}
	if opts.cap < 0 {
		return errUsage{fmt.Sprintf("--cap must be >= 0, got %d", opts.cap)}
	}

	var mf *extracthtml.MappingFile
	if opts.mappings != "" {
		var err error
		if mf, err = extracthtml.LoadMappingFile(opts.mappings); err != nil {
			return errUsage{fmt.Sprintf("load mappings: %v", err)}
		}
	}

	loader := extracthtml.NewLoader(httpClient, opts.timeout).SetUserAgent(opts.userAgent)
	html, err := loader.Load(ctx, extracthtml.Input{URL: opts.url, Stdin: stdin})
	if err != nil {
		return fmt.Errorf("load html: %w", err)
	}

	switch {
	case opts.selector != "":
		n, err := extracthtml.DebugPrintSelector(stdout, html, opts.selector, opts.textOnly)
		if err != nil {
			return errUsage{fmt.Sprintf("debug selector: %v", err)}
		}
		fmt.Fprintf(stderr, "%d match(es)\n", n)
		return nil

	case opts.parse == parseRankings:
		ranked, err := rankings.Parse(html, rankings.DefaultTableScheme(), opts.cap)
		if err != nil {
			return fmt.Errorf("parse rankings: %w", err)
		}
		return printSnapshot(stdout, ranked)

	case opts.parse == parseFixtures:
		scheme := fixtures.DefaultScheme()
		if mf != nil {
			scheme = *mf
		}
		found, err := fixtures.Parse(html, scheme, parseMembers(opts.members))
		if err != nil {
			return fmt.Errorf("parse fixtures: %w", err)
		}
		return printSnapshot(stdout, found)
	}

	enc := json.NewEncoder(stdout)
	enc.SetEscapeHTML(false)

	// Record mode: output []object (one per record container)
	if mf.RecordSelector != "" {
		records, err := extracthtml.ExtractRecordsHTML(html, mf.RecordSelector, mf.Mappings)
		if err != nil {
			return fmt.Errorf("extract records: %w", err)
		}
		return enc.Encode(records)
	}

	obj, err := extracthtml.ExtractOneHTML(html, mf.Mappings)
	if err != nil {
		return fmt.Errorf("extract: %w", err)
	}
	return enc.Encode(obj)
}

func parseMembers(csv string) model.MembershipSet {
	set := model.NewMembershipSet(nil)
	for _, name := range strings.Split(csv, ",") {
		set.Add(name)
	}
	return set
}

func printSnapshot(w io.Writer, v any) error {
	b, err := snapshot.Encode(v)
	if err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	_, err = w.Write(b)
	return err
}
