package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"

	"github.com/roach88/hush/internal/config"
	"github.com/roach88/hush/internal/eventlog"
	"github.com/roach88/hush/internal/metrics"
	"github.com/roach88/hush/internal/notify"
	"github.com/roach88/hush/internal/screen"
	"github.com/roach88/hush/internal/store"
	"github.com/roach88/hush/internal/syncstate"
)

// app is the wired block-list core for one command invocation.
type app struct {
	cfg      config.Config
	logger   *slog.Logger
	registry *prometheus.Registry
	store    *store.Store
	engine   *screen.Engine
	tracker  *syncstate.Tracker

	metricsFile string
}

// openApp loads configuration and opens the store. Failures are reported
// through f and returned as an ExitError.
func openApp(opts *RootOptions, cmd *cobra.Command, f *OutputFormatter) (*app, error) {
	cfg, err := config.Load(config.Sources{File: opts.ConfigPath, EnvFile: opts.EnvFile})
	if err != nil {
		f.Error("CONFIG_ERROR", err.Error(), nil)
		exitErr := WrapExitError(ExitFailure, "failed to load config", err)
		exitErr.Reported = true
		return nil, exitErr
	}
	if opts.Database != "" {
		cfg.DBPath = opts.Database
	}

	logger := config.NewLogger(cfg, cmd.ErrOrStderr(), opts.Verbose)
	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	storeOpts := []store.Option{
		store.WithLogger(logger),
		store.WithNotifier(notify.NewLog(logger)),
		store.WithBusyTimeout(cfg.BusyTimeoutMS),
	}
	if opts.Clock != nil {
		storeOpts = append(storeOpts, store.WithClock(opts.Clock))
	}
	if opts.IDGenerator != nil {
		storeOpts = append(storeOpts, store.WithIDGenerator(opts.IDGenerator))
	}

	logger.Debug("opening database", "path", cfg.DBPath)
	st, err := store.Open(cfg.DBPath, storeOpts...)
	if err != nil {
		f.Error("STORAGE_ERROR", err.Error(), nil)
		exitErr := WrapExitError(ExitStorage, "failed to open database", err)
		exitErr.Reported = true
		return nil, exitErr
	}

	return &app{
		cfg:      cfg,
		logger:   logger,
		registry: registry,
		store:    st,
		engine: screen.New(st, eventlog.New(st, logger, m),
			screen.WithLogger(logger),
			screen.WithMetrics(m),
			screen.WithTimeout(cfg.ScreenTimeout()),
		),
		tracker:     syncstate.New(st, logger),
		metricsFile: opts.MetricsFile,
	}, nil
}

// Close writes metrics if requested and closes the store.
func (a *app) Close() error {
	var errs []error
	if a.metricsFile != "" {
		if err := a.writeMetrics(a.metricsFile); err != nil {
			errs = append(errs, err)
		}
	}
	if err := a.store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close database: %w", err))
	}
	return errors.Join(errs...)
}

func (a *app) writeMetrics(path string) error {
	families, err := a.registry.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create metrics file: %w", err)
	}
	defer out.Close()

	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(out, mf); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}
	return nil
}

// withApp opens the app, runs fn, and closes the app. A close failure is
// logged; fn's error wins.
func withApp(opts *RootOptions, cmd *cobra.Command, fn func(a *app, f *OutputFormatter) error) error {
	f := newFormatter(opts, cmd)
	a, err := openApp(opts, cmd, f)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := a.Close(); closeErr != nil {
			a.logger.Error("error closing app", "error", closeErr)
		}
	}()
	return fn(a, f)
}
