package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"

	"github.com/ligustah/symfetch/internal/downloader"
	symhttp "github.com/ligustah/symfetch/internal/http"
	"github.com/ligustah/symfetch/internal/idset"
	"github.com/ligustah/symfetch/internal/progress"
	"github.com/ligustah/symfetch/internal/store"
)

func fetchCommand() *cli.Command {
	flags := append(commonFlags(), outFlag())
	flags = append(flags, idSourceFlags()...)
	flags = append(flags, fetchFlags()...)

	return &cli.Command{
		Name:  "fetch",
		Usage: "download {id}.png for every resolved id",
		Description: "Resolves ids from --ids, --csv and --xlsx, downloads each asset with\n" +
			"bounded concurrency and prints one line per completed id followed by a\n" +
			"JSON summary. Failed ids do not change the exit status.",
		Flags:  flags,
		Action: runFetch,
	}
}

// runFetch resolves the id set, downloads every asset and prints the summary.
func runFetch(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return invalidArgs(err)
	}

	log := newLogger(c, cfg).WithRun(uuid.NewString())
	defer log.Close()

	ctx := c.Context

	st, err := store.Open(ctx, cfg.Out)
	if err != nil {
		return storageError(err)
	}
	defer st.Close()

	ids, err := idset.Resolve(ctx, idOptions(c, cfg, st))
	if err != nil {
		if errors.Is(err, idset.ErrCheck) {
			return storageError(err)
		}
		return invalidArgs(err)
	}

	log.Info().
		Int("ids", len(ids)).
		Str("base_url", cfg.BaseURL).
		Str("out", cfg.Out).
		Int("workers", cfg.Workers).
		Msg("starting fetch")

	agg := progress.NewAggregator(progress.Options{
		BaseURL:   cfg.BaseURL,
		OutDir:    cfg.Out,
		Requested: len(ids),
		Output:    c.App.Writer,
	})

	var reporter *progress.Reporter
	if cfg.Progress {
		reporter = progress.NewReporter(agg, progress.ReporterOptions{
			Output:         c.App.ErrWriter,
			UpdateInterval: 2 * time.Second,
			BaseURL:        cfg.BaseURL,
			Workers:        cfg.Workers,
		})
		reporter.Start()
		defer reporter.Stop()
	}

	client := symhttp.NewClient(cfg.HTTPOptions())
	defer client.Close()

	err = downloader.Download(ctx, downloader.NewTasks(cfg.BaseURL, ids), agg, downloader.Options{
		Workers:      cfg.Workers,
		Retries:      cfg.Retries,
		RetryBackoff: cfg.RetryBackoff,
		Throttle:     cfg.Throttle,
		Overwrite:    cfg.Overwrite,
		Client:       client,
		Store:        st,
		Logger:       log.WithComponent("downloader").Logger,
	})
	if err != nil {
		return withCode(ExitGeneralError, err)
	}
	if reporter != nil {
		reporter.Stop()
	}

	summary := agg.Summary()
	if ctx.Err() != nil {
		log.Warn().Msg("interrupted, unfinished ids reported as errors")
	}
	log.Info().
		Int("ok", summary.CountOK).
		Int("skipped", summary.CountSkipped).
		Int("not_found", summary.CountNotFound).
		Int("error", summary.CountError).
		Float64("elapsed_s", summary.ElapsedSeconds).
		Msg("fetch complete")

	if err := summary.WriteJSON(c.App.Writer); err != nil {
		return withCode(ExitGeneralError, fmt.Errorf("write summary: %w", err))
	}
	return nil
}
