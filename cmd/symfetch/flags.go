package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/ligustah/symfetch/internal/config"
	"github.com/ligustah/symfetch/internal/idset"
	"github.com/ligustah/symfetch/internal/logger"
)

const (
	flagConfig       = "config"
	flagBaseURL      = "base-url"
	flagIDs          = "ids"
	flagCSV          = "csv"
	flagXLSX         = "xlsx"
	flagSheet        = "sheet"
	flagIDColumn     = "id-column"
	flagOut          = "out"
	flagOnlyMissing  = "only-missing"
	flagOverwrite    = "overwrite"
	flagWorkers      = "workers"
	flagThrottle     = "throttle"
	flagTimeout      = "timeout"
	flagRetries      = "retries"
	flagRetryBackoff = "retry-backoff"
	flagMax          = "max"
	flagUserAgent    = "user-agent"
	flagProgress     = "progress"
	flagFix          = "fix"
	flagLogLevel     = "log-level"
	flagLogFormat    = "log-format"
	flagLogFile      = "log-file"
)

// Defaults shown in help come from config.Default; flags only override the
// layered configuration when they are set explicitly.
var defaults = config.Default()

func commonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    flagConfig,
			Usage:   "YAML configuration file",
			EnvVars: []string{config.EnvPrefix + "_CONFIG"},
		},
		&cli.StringFlag{Name: flagLogLevel, Usage: "log level (debug, info, warn, error)", Value: defaults.Log.Level},
		&cli.StringFlag{Name: flagLogFormat, Usage: "log format (console, json)", Value: defaults.Log.Format},
		&cli.StringFlag{Name: flagLogFile, Usage: "also write JSON logs to this file, rotated"},
	}
}

func outFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  flagOut,
		Usage: "output directory or bucket URL (s3://, gs://, file://, mem://)",
		Value: defaults.Out,
	}
}

func idSourceFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: flagIDs, Usage: "ids and inclusive ranges, e.g. 8483,12335-12340"},
		&cli.StringFlag{Name: flagCSV, Usage: "CSV file with an id column"},
		&cli.StringFlag{Name: flagXLSX, Usage: "Excel workbook with an id column"},
		&cli.StringFlag{Name: flagSheet, Usage: "worksheet of --xlsx (default: first sheet)"},
		&cli.StringFlag{Name: flagIDColumn, Usage: "id column header of --csv and --xlsx", Value: defaults.IDColumn},
		&cli.BoolFlag{Name: flagOnlyMissing, Usage: "skip ids whose asset already exists in --out"},
		&cli.BoolFlag{Name: flagOverwrite, Usage: "re-download assets that already exist"},
		&cli.IntFlag{Name: flagMax, Usage: "process at most this many ids (0 means no limit)"},
	}
}

func fetchFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: flagBaseURL, Usage: "origin serving {id}.png", Value: defaults.BaseURL},
		&cli.IntFlag{Name: flagWorkers, Usage: "parallel downloads", Value: defaults.Workers},
		&cli.DurationFlag{Name: flagThrottle, Usage: "delay before each task's first request", Value: defaults.Throttle},
		&cli.DurationFlag{Name: flagTimeout, Usage: "per-request timeout", Value: defaults.Timeout},
		&cli.IntFlag{Name: flagRetries, Usage: "retries for transient errors", Value: defaults.Retries},
		&cli.DurationFlag{Name: flagRetryBackoff, Usage: "base backoff between retries, doubled per retry", Value: defaults.RetryBackoff},
		&cli.StringFlag{Name: flagUserAgent, Usage: "User-Agent header", Value: defaults.UserAgent},
		&cli.BoolFlag{Name: flagProgress, Usage: "print a periodic progress line to stderr"},
	}
}

// loadConfig layers defaults, the config file, the environment and the flags
// that were set on the command line.
func loadConfig(c *cli.Context) (config.Config, error) {
	cfg := config.Default()
	if path := c.String(flagConfig); path != "" {
		var err error
		if cfg, err = config.LoadFromFile(path); err != nil {
			return config.Config{}, err
		}
	}
	if err := cfg.LoadFromEnv(); err != nil {
		return config.Config{}, err
	}
	applyFlags(c, &cfg)
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func applyFlags(c *cli.Context, cfg *config.Config) {
	if c.IsSet(flagBaseURL) {
		cfg.BaseURL = c.String(flagBaseURL)
	}
	if c.IsSet(flagOut) {
		cfg.Out = c.String(flagOut)
	}
	if c.IsSet(flagIDColumn) {
		cfg.IDColumn = c.String(flagIDColumn)
	}
	if c.IsSet(flagOnlyMissing) {
		cfg.OnlyMissing = c.Bool(flagOnlyMissing)
	}
	if c.IsSet(flagOverwrite) {
		cfg.Overwrite = c.Bool(flagOverwrite)
	}
	if c.IsSet(flagWorkers) {
		cfg.Workers = c.Int(flagWorkers)
	}
	if c.IsSet(flagThrottle) {
		cfg.Throttle = c.Duration(flagThrottle)
	}
	if c.IsSet(flagTimeout) {
		cfg.Timeout = c.Duration(flagTimeout)
	}
	if c.IsSet(flagRetries) {
		cfg.Retries = c.Int(flagRetries)
	}
	if c.IsSet(flagRetryBackoff) {
		cfg.RetryBackoff = c.Duration(flagRetryBackoff)
	}
	if c.IsSet(flagMax) {
		cfg.Max = c.Int(flagMax)
	}
	if c.IsSet(flagUserAgent) {
		cfg.UserAgent = c.String(flagUserAgent)
	}
	if c.IsSet(flagProgress) {
		cfg.Progress = c.Bool(flagProgress)
	}
	if c.IsSet(flagLogLevel) {
		cfg.Log.Level = c.String(flagLogLevel)
	}
	if c.IsSet(flagLogFormat) {
		cfg.Log.Format = c.String(flagLogFormat)
	}
	if c.IsSet(flagLogFile) {
		cfg.Log.File = c.String(flagLogFile)
	}
}

// idOptions builds the resolver options from the id source flags.
func idOptions(c *cli.Context, cfg config.Config, checker idset.Checker) idset.Options {
	return idset.Options{
		IDs:         c.String(flagIDs),
		CSV:         c.String(flagCSV),
		XLSX:        c.String(flagXLSX),
		Sheet:       c.String(flagSheet),
		Column:      cfg.IDColumn,
		OnlyMissing: cfg.OnlyMissing,
		Overwrite:   cfg.Overwrite,
		Store:       checker,
		Max:         cfg.Max,
	}
}

func newLogger(c *cli.Context, cfg config.Config) *logger.Logger {
	return logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		File:   cfg.Log.File,
		Output: c.App.ErrWriter,
	})
}

// invalidArgs reports a pre-dispatch input error.
func invalidArgs(err error) error {
	return withCode(ExitInvalidArgs, err)
}

func storageError(err error) error {
	return withCode(ExitStorageError, fmt.Errorf("storage: %w", err))
}
