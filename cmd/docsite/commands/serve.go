package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/docsite/internal/config"
	"git.home.luguber.info/inful/docsite/internal/livereload"
	"git.home.luguber.info/inful/docsite/internal/logfields"
	"git.home.luguber.info/inful/docsite/internal/metrics"
	"git.home.luguber.info/inful/docsite/internal/scheduler"
	"git.home.luguber.info/inful/docsite/internal/server/httpserver"
	"git.home.luguber.info/inful/docsite/internal/version"
	"git.home.luguber.info/inful/docsite/internal/watch"
)

// ServeCmd implements the 'serve' command.
type ServeCmd struct {
	Addr  string `short:"a" help:"Listen address (overrides http.addr)"`
	Watch bool   `short:"w" help:"Watch content directories and live-reload pages (overrides watch.enabled)"`
}

func (s *ServeCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.LoadConfig()
	if err != nil {
		return err
	}
	if s.Addr != "" {
		cfg.HTTP.Addr = s.Addr
	}
	if s.Watch {
		cfg.Watch.Enabled = true
	}

	logger := cfg.Logging.NewLogger(os.Stderr, root.Verbose)
	slog.SetDefault(logger)
	g.Logger = logger

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	return RunServe(ctx, cfg, logger)
}

// RunServe serves the site until ctx is canceled.
func RunServe(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	var (
		recorder metrics.Recorder = metrics.NoopRecorder{}
		opts     httpserver.Options
	)
	if cfg.Monitoring.Metrics.Enabled {
		reg := metrics.NewRegistry()
		recorder = metrics.NewPrometheusRecorder(reg)
		opts.Metrics = metrics.HTTPHandler(reg)
	}

	c, err := newComponents(cfg, logger, recorder, cfg.Watch.Enabled)
	if err != nil {
		return err
	}
	opts.Models = c.models
	opts.Readmes = c.readmes
	opts.View = c.view
	opts.Recorder = recorder
	opts.Version = version.Version
	opts.Logger = logger

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	watchErr := make(chan error, 1)

	if cfg.Watch.Enabled {
		hub := livereload.NewHub(livereload.WithRecorder(recorder), livereload.WithLogger(logger))
		opts.LiveReload = hub

		w, err := watch.New(map[watch.Source]string{
			watch.SourceReadme: cfg.Content.ReadmeDir,
			watch.SourceModel:  cfg.Content.ModelDir,
		}, cfg.Watch.Debounce, func(ctx context.Context, ch watch.Change) {
			for _, pkg := range ch.Readme {
				c.readmes.Invalidate(pkg)
			}
			for _, pkg := range ch.Model {
				c.models.Invalidate(pkg)
			}
			hub.Broadcast(uuid.NewString())
			logger.InfoContext(ctx, "Content changed, reloading",
				slog.Any("readmes", ch.Readme),
				slog.Any("models", ch.Model))
		}, logger)
		if err != nil {
			return fmt.Errorf("watch: %w", err)
		}
		go func() {
			if err := w.Run(ctx); err != nil {
				watchErr <- fmt.Errorf("watch: %w", err)
			}
		}()
	}

	if cfg.Cache.Enabled && cfg.Cache.RefreshInterval > 0 {
		sched, err := scheduler.New(logger)
		if err != nil {
			return err
		}
		if _, err := sched.SchedulePurge(cfg.Cache.RefreshInterval, c.models, c.readmes); err != nil {
			return fmt.Errorf("schedule cache purge: %w", err)
		}
		sched.Start()
		defer func() {
			if err := sched.Stop(context.Background()); err != nil {
				logger.Warn("Failed to stop scheduler", logfields.Error(err))
			}
		}()
	}

	srv := httpserver.New(cfg, opts)
	srvErr := make(chan error, 1)
	go func() { srvErr <- srv.Run(ctx) }()

	logger.Info("Serving documentation",
		slog.String("addr", cfg.HTTP.Addr),
		slog.String("models", cfg.Content.ModelDir),
		slog.String("readmes", cfg.Content.ReadmeDir),
		slog.Bool("watch", cfg.Watch.Enabled))

	select {
	case err := <-watchErr:
		cancel()
		if serr := <-srvErr; serr != nil {
			logger.Warn("Server shutdown after watch failure", logfields.Error(serr))
		}
		return err
	case err := <-srvErr:
		if err != nil {
			return err
		}
	}
	logger.Info("Server stopped")
	return nil
}
