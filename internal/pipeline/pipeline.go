// Package pipeline runs one scrape: rankings (with fallback), fixtures
// between ranked clubs, then persistence.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/KooshaS/top-soccer-matches/internal/logging"
	"github.com/KooshaS/top-soccer-matches/internal/metrics"
	"github.com/KooshaS/top-soccer-matches/internal/model"
	"github.com/KooshaS/top-soccer-matches/internal/rankings"
)

var tracer = otel.Tracer("github.com/KooshaS/top-soccer-matches/internal/pipeline")

// Stage is how far a run got.
type Stage int

const (
	StageStart Stage = iota
	StageRankingsFetched
	StageFixturesFetched
	StagePersisted
	StageDone
)

func (s Stage) String() string {
	switch s {
	case StageStart:
		return "start"
	case StageRankingsFetched:
		return "rankings_fetched"
	case StageFixturesFetched:
		return "fixtures_fetched"
	case StagePersisted:
		return "persisted"
	case StageDone:
		return "done"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

// Source records where a dataset came from.
type Source string

const (
	SourceLive     Source = "live"
	SourceFallback Source = "fallback"
	SourceEmpty    Source = "empty"
)

// Report describes a finished (or aborted) run.
type Report struct {
	RunID string
	Stage Stage

	RankingsSource Source
	RankingsErr    error // tolerated; set when SourceFallback
	FixturesSource Source
	FixturesErr    error // tolerated; set when SourceEmpty because of a failure

	Ranked   []model.RankedEntity
	Fixtures []model.Fixture
}

// RankingsFunc produces the live ranking.
type RankingsFunc func(ctx context.Context) ([]model.RankedEntity, error)

// FixturesFunc produces today's fixtures restricted to members.
type FixturesFunc func(ctx context.Context, members model.MembershipSet) ([]model.Fixture, error)

// Sink persists a run's datasets.
type Sink interface {
	Persist(ctx context.Context, ranked []model.RankedEntity, fixtures []model.Fixture) error
}

// Runner wires the collaborators of a run. Zero-value Fallback uses
// rankings.Fallback; nil Log discards.
type Runner struct {
	Rankings RankingsFunc
	Fixtures FixturesFunc
	Fallback func() []model.RankedEntity
	Sinks    []Sink
	Log      logrus.FieldLogger

	// NewRunID is a test seam; defaults to uuid.NewString.
	NewRunID func() string
}

// Run executes one pass. Ranking and fixture failures are tolerated and
// recorded in the report; only a sink failure returns an error, in which
// case the report's Stage is the last stage reached.
func (r *Runner) Run(ctx context.Context) (Report, error) {
	newID := r.NewRunID
	if newID == nil {
		newID = uuid.NewString
	}
	rep := Report{RunID: newID(), Stage: StageStart}

	var log logrus.FieldLogger = r.Log
	if log == nil {
		log = logging.Discard()
	}
	log = log.WithField("run_id", rep.RunID)

	ctx, span := tracer.Start(ctx, "scrape.run")
	defer span.End()
	span.SetAttributes(attribute.String("run_id", rep.RunID))

	// rankings
	start := time.Now()
	ranked, err := r.Rankings(ctx)
	if err != nil {
		rep.RankingsErr = err
		rep.RankingsSource = SourceFallback
		fb := r.Fallback
		if fb == nil {
			fb = rankings.Fallback
		}
		ranked = fb()
		log.WithError(err).Warn("rankings unavailable, using fallback")
	} else {
		rep.RankingsSource = SourceLive
	}
	rep.Ranked = ranked
	rep.Stage = StageRankingsFetched
	metrics.RecordStep("rankings", string(rep.RankingsSource), time.Since(start))
	metrics.RecordRecords("rankings", len(ranked))
	log.WithFields(logrus.Fields{"source": rep.RankingsSource, "count": len(ranked)}).Info("rankings ready")

	// fixtures
	start = time.Now()
	members := model.NewMembershipSet(ranked)
	fixtures, err := r.Fixtures(ctx, members)
	if err != nil {
		rep.FixturesErr = err
		rep.FixturesSource = SourceEmpty
		fixtures = []model.Fixture{}
		log.WithError(err).Warn("fixtures unavailable, writing empty list")
	} else {
		rep.FixturesSource = SourceLive
		if fixtures == nil {
			fixtures = []model.Fixture{}
		}
	}
	rep.Fixtures = fixtures
	rep.Stage = StageFixturesFetched
	metrics.RecordStep("fixtures", string(rep.FixturesSource), time.Since(start))
	metrics.RecordRecords("fixtures", len(fixtures))
	log.WithFields(logrus.Fields{"source": rep.FixturesSource, "count": len(fixtures)}).Info("fixtures ready")

	// persist
	start = time.Now()
	for _, s := range r.Sinks {
		if err := s.Persist(ctx, ranked, fixtures); err != nil {
			metrics.RecordStep("persist", "error", time.Since(start))
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			log.WithError(err).Error("persist failed")
			return rep, fmt.Errorf("persist: %w", err)
		}
	}
	rep.Stage = StagePersisted
	metrics.RecordStep("persist", "ok", time.Since(start))

	rep.Stage = StageDone
	span.SetAttributes(
		attribute.String("rankings.source", string(rep.RankingsSource)),
		attribute.String("fixtures.source", string(rep.FixturesSource)),
		attribute.Int("rankings.count", len(ranked)),
		attribute.Int("fixtures.count", len(fixtures)),
	)
	log.Info("run complete")
	return rep, nil
}
