// Package config defines the scraper configuration and its loading layers.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/KooshaS/top-soccer-matches/internal/extracthtml"
	"github.com/KooshaS/top-soccer-matches/internal/rankings"
	"github.com/KooshaS/top-soccer-matches/internal/snapshot"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Config contains process configuration.
type Config struct {
	Rankings RankingsConfig `koanf:"rankings"`
	Fixtures FixturesConfig `koanf:"fixtures"`
	HTTP     HTTPConfig     `koanf:"http"`
	Output   OutputConfig   `koanf:"output"`
	Log      LogConfig      `koanf:"log"`
	Metrics  MetricsConfig  `koanf:"metrics"`
	Mirror   MirrorConfig   `koanf:"mirror"`
	Tracing  TracingConfig  `koanf:"tracing"`
}

// RankingsConfig locates the ranking table.
type RankingsConfig struct {
	URL           string `koanf:"url"`
	Cap           int    `koanf:"cap"`
	RowSelector   string `koanf:"row_selector"`
	CellSelector  string `koanf:"cell_selector"`
	CountryColumn int    `koanf:"country_column"`
}

// Scheme returns the table scheme described by c.
func (c RankingsConfig) Scheme() rankings.TableScheme {
	return rankings.TableScheme{
		RowSelector:   c.RowSelector,
		CellSelector:  c.CellSelector,
		CountryColumn: c.CountryColumn,
	}
}

// FixturesConfig locates the fixtures listing. MappingsFile optionally
// replaces the built-in extraction scheme.
type FixturesConfig struct {
	URL          string `koanf:"url"`
	MappingsFile string `koanf:"mappings_file"`
}

// HTTPConfig tunes the fetcher.
type HTTPConfig struct {
	Timeout   time.Duration `koanf:"timeout"`
	UserAgent string        `koanf:"user_agent"`
}

// OutputConfig places the JSON artifacts.
type OutputConfig struct {
	Dir          string `koanf:"dir"`
	RankingsFile string `koanf:"rankings_file"`
	FixturesFile string `koanf:"fixtures_file"`
}

// LogConfig controls verbosity: debug, info, warn, error. Empty defers to
// LOG_LEVEL.
type LogConfig struct {
	Level string `koanf:"level"`
}

// Metrics backends.
const (
	MetricsNone        = "none"
	MetricsPushgateway = "pushgateway"
	MetricsDatadog     = "datadog"
)

// MetricsConfig selects where run metrics go. Tags is a comma separated
// list of key:value pairs (Datadog only).
type MetricsConfig struct {
	Backend        string `koanf:"backend"`
	PushgatewayURL string `koanf:"pushgateway_url"`
	Job            string `koanf:"job"`
	Tags           string `koanf:"tags"`
}

// MirrorConfig enables the optional SQL snapshot mirror. Empty Kind
// disables it.
type MirrorConfig struct {
	Kind string `koanf:"kind"`
	DSN  string `koanf:"dsn"`
}

// TracingConfig enables OTLP/HTTP trace export when Endpoint is set.
type TracingConfig struct {
	Endpoint string `koanf:"endpoint"`
}

// Defaults
const (
	DefaultRankingsURL = "https://kassiesa.net/uefa/data/method5/crank2025.html"
	DefaultFixturesURL = "https://www.skysports.com/football-fixtures"
)

// New returns a Config populated with defaults.
func New() *Config {
	scheme := rankings.DefaultTableScheme()
	return &Config{
		Rankings: RankingsConfig{
			URL:           DefaultRankingsURL,
			Cap:           rankings.DefaultCap,
			RowSelector:   scheme.RowSelector,
			CellSelector:  scheme.CellSelector,
			CountryColumn: scheme.CountryColumn,
		},
		Fixtures: FixturesConfig{URL: DefaultFixturesURL},
		HTTP: HTTPConfig{
			Timeout:   extracthtml.DefaultTimeout,
			UserAgent: extracthtml.DefaultUserAgent,
		},
		Output: OutputConfig{
			Dir:          snapshot.DefaultDir,
			RankingsFile: snapshot.DefaultRankingsFile,
			FixturesFile: snapshot.DefaultFixturesFile,
		},
		Metrics: MetricsConfig{
			Backend: MetricsNone,
			Job:     "top_soccer_matches",
		},
	}
}

// Validate reports every problem at once, wrapped in ErrInvalidConfig.
func (c *Config) Validate() error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	if c.Rankings.Cap < 0 {
		add("rankings.cap must be >= 0, got %d", c.Rankings.Cap)
	}
	if err := checkURL(c.Rankings.URL); err != nil {
		add("rankings.url: %v", err)
	}
	if err := c.Rankings.Scheme().Validate(); err != nil {
		add("rankings: %v", err)
	}
	if err := checkURL(c.Fixtures.URL); err != nil {
		add("fixtures.url: %v", err)
	}
	if c.HTTP.Timeout <= 0 {
		add("http.timeout must be positive, got %s", c.HTTP.Timeout)
	}
	if strings.TrimSpace(c.Output.Dir) == "" {
		add("output.dir must not be empty")
	}
	if strings.TrimSpace(c.Output.RankingsFile) == "" || strings.TrimSpace(c.Output.FixturesFile) == "" {
		add("output file names must not be empty")
	}
	if c.Output.RankingsFile != "" && c.Output.RankingsFile == c.Output.FixturesFile {
		add("output.rankings_file and output.fixtures_file must differ")
	}

	switch c.Metrics.Backend {
	case "", MetricsNone, MetricsDatadog:
	case MetricsPushgateway:
		if err := checkURL(c.Metrics.PushgatewayURL); err != nil {
			add("metrics.pushgateway_url: %v", err)
		}
	default:
		add("metrics.backend %q is not one of none|pushgateway|datadog", c.Metrics.Backend)
	}

	if c.Mirror.Kind != "" && strings.TrimSpace(c.Mirror.DSN) == "" {
		add("mirror.dsn is required when mirror.kind=%s", c.Mirror.Kind)
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
}

func checkURL(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return errors.New("must not be empty")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("scheme %q is not http(s)", u.Scheme)
	}
	if u.Host == "" {
		return errors.New("missing host")
	}
	return nil
}
