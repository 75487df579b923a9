// Command scrape runs one pass of the pipeline: it fetches the club
// ranking (falling back to a built-in list), keeps today's fixtures between
// ranked clubs, and writes both as JSON snapshots.
//
// Usage:
//
//	scrape                          # defaults, env overrides
//	scrape --config scrape.yaml -v  # YAML file plus debug logs
//	scrape --config scrape.yaml --validate
//
// Every setting can also come from the environment, e.g.
// TOPSOCCER_OUTPUT__DIR=public/data or TOPSOCCER_METRICS__BACKEND=pushgateway.
package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/KooshaS/top-soccer-matches/internal/config"
	"github.com/KooshaS/top-soccer-matches/internal/logging"
	"github.com/KooshaS/top-soccer-matches/internal/pipeline"
	"github.com/KooshaS/top-soccer-matches/internal/telemetry"

	// register all backends with the storage factory; config picks one.
	_ "github.com/KooshaS/top-soccer-matches/internal/storage/all"
)

const serviceName = "top-soccer-matches"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr, http.DefaultClient)
	stop()
	os.Exit(code)
}

type options struct {
	configPath string
	verbose    bool
	validate   bool
}

// run is split out from main so the command can be tested without spawning
// a process.
//
// It returns a Unix-style exit code:
//   - 0 for success (including fallback rankings or empty fixtures)
//   - 2 for usage/config errors
//   - 1 for operational errors (output could not be written)
func run(ctx context.Context, args []string, stdout, stderr io.Writer, httpClient *http.Client) int {
	var opts options
	code := 0

	cmd := &cobra.Command{
		Use:           "scrape",
		Short:         "Scrape the top clubs and today's fixtures between them into JSON snapshots.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			code = scrape(cmd.Context(), opts, stdout, stderr, httpClient)
			return nil
		},
	}
	if args == nil {
		// cobra falls back to os.Args when handed nil
		args = []string{}
	}
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "YAML config file (default $"+config.EnvConfigFile+")")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logs")
	cmd.Flags().BoolVar(&opts.validate, "validate", false, "validate the configuration and exit")

	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	return code
}

func scrape(ctx context.Context, opts options, stdout, stderr io.Writer, httpClient *http.Client) int {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(stderr, "load config: %v\n", err)
		return 2
	}
	if opts.validate {
		fmt.Fprintln(stdout, "configuration is valid")
		return 0
	}

	log := logging.New(stderr, cfg.Log.Level, opts.verbose)

	shutdownTracing, err := telemetry.Setup(ctx, serviceName, cfg.Tracing.Endpoint)
	if err != nil {
		log.WithError(err).Warn("tracing: exporter init failed; tracing disabled")
	} else {
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdownTracing(sctx); err != nil {
				log.WithError(err).Warn("tracing: shutdown")
			}
		}()
	}

	closeMetrics := setupMetrics(ctx, cfg.Metrics, log)
	defer closeMetrics()

	runner, closeRunner, err := pipeline.NewRunner(ctx, cfg, httpClient, log)
	if err != nil {
		log.WithError(err).Error("build pipeline")
		return 1
	}
	defer closeRunner()

	start := time.Now()
	rep, err := runner.Run(ctx)
	if err != nil {
		log.WithError(err).WithField("stage", rep.Stage.String()).Error("run failed")
		return 1
	}

	log.WithFields(logrus.Fields{
		"run_id":          rep.RunID,
		"rankings_source": rep.RankingsSource,
		"rankings":        len(rep.Ranked),
		"fixtures_source": rep.FixturesSource,
		"fixtures":        len(rep.Fixtures),
		"elapsed":         time.Since(start).Truncate(time.Millisecond).String(),
	}).Info("completed")
	return 0
}
