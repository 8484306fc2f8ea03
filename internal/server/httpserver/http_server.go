// Package httpserver wires the docsite routes, middleware and listener lifecycle.
package httpserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"git.home.luguber.info/inful/docsite/internal/config"
	derrors "git.home.luguber.info/inful/docsite/internal/foundation/errors"
	"git.home.luguber.info/inful/docsite/internal/logfields"
	"git.home.luguber.info/inful/docsite/internal/server/handlers"
	smw "git.home.luguber.info/inful/docsite/internal/server/middleware"
)

const (
	livereloadPath = "/livereload"
	staticPrefix   = "/static/"
	docsPrefix     = "/docs/"
)

// Server serves the documentation site.
type Server struct {
	cfg          *config.Config
	opts         Options
	logger       *slog.Logger
	errorAdapter *derrors.HTTPErrorAdapter

	// Handler modules
	docsHandlers       *handlers.DocsHandlers
	apiHandlers        *handlers.APIHandlers
	monitoringHandlers *handlers.MonitoringHandlers
	staticHandlers     *handlers.StaticHandlers

	handler http.Handler

	mu       sync.Mutex
	srv      *http.Server
	listener net.Listener
}

// New constructs the server and its route table. Nothing is bound until Start.
func New(cfg *config.Config, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		cfg:          cfg,
		opts:         opts,
		logger:       logger,
		errorAdapter: derrors.NewHTTPErrorAdapter(logger),
	}

	s.docsHandlers = handlers.NewDocsHandlers(opts.Models, opts.Readmes, opts.View, s.errorAdapter, opts.Recorder, logger)
	s.apiHandlers = handlers.NewAPIHandlers(opts.Models, s.errorAdapter)
	s.monitoringHandlers = handlers.NewMonitoringHandlers(opts.Version, handlers.ReadinessCheck{
		Name: "models",
		Check: func(context.Context) error {
			_, err := opts.Models.Packages()
			return err
		},
	})
	s.staticHandlers = handlers.NewStaticHandlers(opts.View, staticPrefix)

	s.handler = smw.Chain(logger, s.handlePanic)(s.routes())
	return s
}

// Handler returns the fully wrapped route table.
func (s *Server) Handler() http.Handler { return s.handler }

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.docsHandlers.HandleIndex)
	mux.HandleFunc("GET /docs/packages/{package}", s.docsHandlers.HandlePackage)
	mux.HandleFunc("GET /docs/packages/{package}/{version}", s.docsHandlers.HandleReadme)
	mux.HandleFunc("GET /docs/packages/{package}/{version}/{item}", s.docsHandlers.HandleItem)

	mux.HandleFunc("GET /api/packages", s.apiHandlers.HandlePackages)
	mux.HandleFunc("GET /api/packages/{package}/{version}/sidebar", s.apiHandlers.HandleSidebar)

	health := []string{"/health", "/healthz"}
	if p := s.cfg.Monitoring.Health.Path; p != "" && p != "/health" && p != "/healthz" {
		health = append(health, p)
	}
	for _, p := range health {
		mux.HandleFunc("GET "+p, s.monitoringHandlers.HandleHealthCheck)
	}
	mux.HandleFunc("GET /ready", s.monitoringHandlers.HandleReadiness)
	mux.HandleFunc("GET /readyz", s.monitoringHandlers.HandleReadiness)

	if s.cfg.Monitoring.Metrics.Enabled && s.opts.Metrics != nil {
		mux.Handle("GET "+s.cfg.Monitoring.Metrics.Path, s.opts.Metrics)
	}
	if s.cfg.Watch.Enabled && s.opts.LiveReload != nil {
		mux.HandleFunc("GET "+livereloadPath, s.handleLiveReload)
	}

	mux.HandleFunc("GET "+staticPrefix+"chroma.css", s.staticHandlers.HandleHighlightCSS)
	mux.HandleFunc("GET "+staticPrefix, s.staticHandlers.HandleAssets)
	return mux
}

// handleLiveReload lifts the write deadline for the long-lived event stream.
func (s *Server) handleLiveReload(w http.ResponseWriter, r *http.Request) {
	if err := http.NewResponseController(w).SetWriteDeadline(time.Time{}); err != nil && !errors.Is(err, http.ErrNotSupported) {
		s.logger.Debug("Failed to clear write deadline", logfields.Error(err))
	}
	s.opts.LiveReload.ServeHTTP(w, r)
}

// handlePanic renders an HTML error page for documentation routes and JSON elsewhere.
func (s *Server) handlePanic(w http.ResponseWriter, r *http.Request, err error) {
	if strings.HasPrefix(r.URL.Path, docsPrefix) {
		s.docsHandlers.WriteError(w, r, err)
		return
	}
	s.errorAdapter.WriteErrorResponse(w, r, err)
}

// Start binds the configured address and serves in the background.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.srv != nil {
		return errors.New("http server already started")
	}

	// Bind before spawning the serve goroutine so address errors surface to the caller.
	lc := net.ListenConfig{}
	ln, err := lc.Listen(ctx, "tcp", s.cfg.HTTP.Addr)
	if err != nil {
		return derrors.RuntimeError("failed to bind HTTP address").
			WithCause(err).
			WithContext("addr", s.cfg.HTTP.Addr).
			Build()
	}

	s.listener = ln
	s.srv = &http.Server{
		Handler:           s.handler,
		ReadTimeout:       s.cfg.HTTP.ReadTimeout,
		ReadHeaderTimeout: s.cfg.HTTP.ReadTimeout,
		WriteTimeout:      s.cfg.HTTP.WriteTimeout,
	}
	s.startServerWithListener("docs", s.srv, ln)
	s.logger.Info("HTTP server started", slog.String("addr", ln.Addr().String()))
	return nil
}

// Addr is the bound listener address, or nil before Start.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Stop closes live-reload streams and gracefully shuts the server down.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	srv := s.srv
	s.srv, s.listener = nil, nil
	s.mu.Unlock()
	if srv == nil {
		return nil
	}

	if s.opts.LiveReload != nil {
		s.opts.LiveReload.Shutdown()
	}
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("docs server shutdown: %w", err)
	}
	s.logger.Info("HTTP server stopped")
	return nil
}

// Run starts the server and blocks until ctx is done, then shuts down
// within the configured shutdown timeout.
func (s *Server) Run(ctx context.Context) error {
	if err := s.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.HTTP.ShutdownTimeout)
	defer cancel()
	return s.Stop(shutdownCtx)
}

// startServerWithListener serves on a pre-bound listener and logs unexpected exits.
func (s *Server) startServerWithListener(kind string, srv *http.Server, ln net.Listener) {
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error(fmt.Sprintf("%s server error", kind), logfields.Error(err))
		}
	}()
}
