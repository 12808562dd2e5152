package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/bengobox/home-service/internal/config"
	"github.com/bengobox/home-service/internal/httpapi"
	"github.com/bengobox/home-service/internal/httpapi/handlers"
	httpmiddleware "github.com/bengobox/home-service/internal/httpapi/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Options overrides process-level collaborators, mostly for tests.
type Options struct {
	// Stdout receives the startup banner. Defaults to os.Stdout.
	Stdout io.Writer
	// Clock feeds the home resource. Defaults to time.Now.
	Clock func() time.Time
}

// App wires core dependencies and exposes server lifecycle controls.
type App struct {
	cfg        *config.Config
	logger     *zap.Logger
	stdout     io.Writer
	registry   *prometheus.Registry
	httpServer *http.Server

	mu       sync.Mutex
	listener net.Listener
}

// New constructs the application.
func New(cfg *config.Config, logger *zap.Logger, opts Options) (*App, error) {
	if cfg == nil {
		return nil, errors.New("app: nil config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := httpmiddleware.NewMetrics(registry)

	deps := httpapi.RouterDeps{
		Resources: []httpapi.Resource{handlers.NewHome(opts.Clock)},
		Middlewares: []func(http.Handler) http.Handler{
			httpmiddleware.RequestID,
			httpmiddleware.AccessLog(logger),
			metrics.Instrument,
		},
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
	}
	if cfg.Metrics.Enabled {
		deps.MetricsHandler = promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	}

	server := &http.Server{
		Addr:              cfg.HTTP.Address(),
		Handler:           httpapi.NewRouter(deps),
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
		ErrorLog:          zap.NewStdLog(logger),
	}

	return &App{
		cfg:        cfg,
		logger:     logger,
		stdout:     opts.Stdout,
		registry:   registry,
		httpServer: server,
	}, nil
}

// Handler exposes the fully wired router.
func (a *App) Handler() http.Handler {
	return a.httpServer.Handler
}

// Listen binds the configured address and announces it on stdout. Calling it
// again after a successful bind is a no-op.
func (a *App) Listen() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.listener != nil {
		return nil
	}
	ln, err := net.Listen("tcp", a.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("bind %s: %w", a.httpServer.Addr, err)
	}
	a.listener = ln
	a.announceLocked()
	return nil
}

// announceLocked writes the startup banner for the bound listener.
func (a *App) announceLocked() {
	address := a.addressLocked()
	a.logger.Info("listener bound",
		zap.String("addr", a.listener.Addr().String()),
		zap.String("url", address),
	)
	if _, err := fmt.Fprintf(a.stdout, "Server running at %s.\n", address); err != nil {
		a.logger.Warn("failed to write startup banner", zap.Error(err))
	}
}

// Address reports <protocol>://<host>:<port> using the configured hostname
// and the bound port. Empty before Listen succeeds.
func (a *App) Address() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.listener == nil {
		return ""
	}
	return a.addressLocked()
}

func (a *App) addressLocked() string {
	port := a.cfg.HTTP.Port
	if tcp, ok := a.listener.Addr().(*net.TCPAddr); ok {
		port = tcp.Port
	}
	return fmt.Sprintf("%s://%s", a.cfg.HTTP.Protocol, net.JoinHostPort(a.cfg.HTTP.Host, strconv.Itoa(port)))
}

// Run serves HTTP until Shutdown is called, binding first if needed.
func (a *App) Run() error {
	if err := a.Listen(); err != nil {
		return err
	}
	a.mu.Lock()
	ln := a.listener
	a.mu.Unlock()

	a.logger.Info("starting HTTP server", zap.String("addr", a.httpServer.Addr))
	if err := a.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Registry returns the collectors backing /metrics.
func (a *App) Registry() *prometheus.Registry {
	return a.registry
}

// Shutdown gracefully stops the HTTP server and releases a listener that was
// bound but never served.
func (a *App) Shutdown(ctx context.Context) error {
	shutdownErr := a.httpServer.Shutdown(ctx)

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.listener != nil {
		_ = a.listener.Close()
	}
	return shutdownErr
}
