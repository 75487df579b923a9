package pipeline

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/KooshaS/top-soccer-matches/internal/config"
	"github.com/KooshaS/top-soccer-matches/internal/extracthtml"
	"github.com/KooshaS/top-soccer-matches/internal/fixtures"
	"github.com/KooshaS/top-soccer-matches/internal/model"
	"github.com/KooshaS/top-soccer-matches/internal/rankings"
	"github.com/KooshaS/top-soccer-matches/internal/snapshot"
	"github.com/KooshaS/top-soccer-matches/internal/storage"
)

// NewRunner wires a Runner from cfg: one Loader shared by both fetches, the
// JSON snapshot writer, and the SQL mirror when cfg.Mirror.Kind is set
// (backends must already be registered, see internal/storage/all).
//
// The returned close func releases the mirror and is safe to call when no
// mirror was opened.
func NewRunner(ctx context.Context, cfg *config.Config, client *http.Client, log logrus.FieldLogger) (*Runner, func(), error) {
	loader := extracthtml.NewLoader(client, cfg.HTTP.Timeout).SetUserAgent(cfg.HTTP.UserAgent)

	scheme := fixtures.DefaultScheme()
	if cfg.Fixtures.MappingsFile != "" {
		mf, err := extracthtml.LoadMappingFile(cfg.Fixtures.MappingsFile)
		if err != nil {
			return nil, nil, fmt.Errorf("fixtures scheme: %w", err)
		}
		scheme = *mf
	}

	writer := &snapshot.Writer{
		Dir:          cfg.Output.Dir,
		RankingsFile: cfg.Output.RankingsFile,
		FixturesFile: cfg.Output.FixturesFile,
	}
	sinks := []Sink{writer}
	closeFn := func() {}

	if cfg.Mirror.Kind != "" {
		repo, err := storage.New(ctx, storage.Config{Kind: cfg.Mirror.Kind, DSN: cfg.Mirror.DSN})
		if err != nil {
			return nil, nil, fmt.Errorf("open mirror: %w", err)
		}
		mirror := storage.NewMirror(repo)
		sinks = append(sinks, mirror)
		closeFn = mirror.Close
	}

	rc := cfg.Rankings
	r := &Runner{
		Rankings: func(ctx context.Context) ([]model.RankedEntity, error) {
			return rankings.Ingest(ctx, loader, rc.URL, rc.Scheme(), rc.Cap)
		},
		Fixtures: func(ctx context.Context, members model.MembershipSet) ([]model.Fixture, error) {
			return fixtures.Ingest(ctx, loader, cfg.Fixtures.URL, scheme, members)
		},
		Sinks: sinks,
		Log:   log,
	}
	return r, closeFn, nil
}
