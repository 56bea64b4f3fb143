package application

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/eugenenazirov/paper-carbon/internal/api"
	"github.com/eugenenazirov/paper-carbon/internal/config"
	"github.com/eugenenazirov/paper-carbon/internal/storage"
	"github.com/eugenenazirov/paper-carbon/internal/tracker"
	"github.com/eugenenazirov/paper-carbon/internal/view"
)

// App encapsulates the application dependencies and HTTP server.
type App struct {
	storage *storage.MemoryStorage
	limiter *api.ClientLimiter
	handler *api.Handler
	router  http.Handler
	logger  *zap.Logger
	server  *http.Server

	sweepInterval time.Duration
	shutdownGrace time.Duration
}

// New initializes the application with all dependencies from the provided configuration.
func New(cfg config.Config, logger *zap.Logger) (*App, error) {
	table, err := cfg.BadgeTable()
	if err != nil {
		return nil, fmt.Errorf("failed to build badge table: %w", err)
	}

	store := storage.NewMemoryStorage(
		func() *tracker.Tracker {
			return tracker.New(
				tracker.WithBadges(table),
				tracker.WithMode(cfg.DefaultMode),
				tracker.WithLogger(logger),
			)
		},
		storage.WithTTL(cfg.SessionTTL),
		storage.WithMaxSessions(cfg.MaxSessions),
	)

	handler := api.NewHandler(store,
		api.WithBadges(table),
		api.WithAssets(view.Assets{ImageURL: cfg.ImageURL, SoundURL: cfg.SoundURL}),
		api.WithDefaultMode(cfg.DefaultMode),
		api.WithLogger(logger),
	)
	routerOpts := []api.RouterOption{
		api.WithLogging(cfg.EnableRequestLogging),
		api.WithRateLimit(0, 0),
	}
	var limiter *api.ClientLimiter
	if cfg.RateLimitRPS > 0 && cfg.RateLimitBurst > 0 {
		limiter = api.NewClientLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
		routerOpts = append(routerOpts, api.WithRateLimiter(limiter))
	}
	appRouter := api.NewRouter(handler, logger, routerOpts...)

	rootHandler := BuildRootHandler(appRouter, cfg.StaticDir, logger)

	return &App{
		storage:       store,
		limiter:       limiter,
		handler:       handler,
		router:        appRouter,
		logger:        logger,
		server:        NewServer(cfg, rootHandler),
		sweepInterval: cfg.SweepInterval,
		shutdownGrace: cfg.ShutdownGracePeriod,
	}, nil
}

// BuildRootHandler constructs the root HTTP handler that serves static files and
// forwards everything else to the application router. A missing static
// directory disables /static/ instead of failing startup.
func BuildRootHandler(appHandler http.Handler, staticDir string, logger *zap.Logger) http.Handler {
	mux := http.NewServeMux()

	staticPath, err := resolveStaticDir(staticDir)
	if err != nil {
		logger.Warn("static assets disabled", zap.String("dir", staticDir), zap.Error(err))
	} else {
		mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir(staticPath))))
	}
	mux.Handle("/", appHandler)

	return mux
}

// NewServer creates and configures an HTTP server from the provided configuration.
func NewServer(cfg config.Config, handler http.Handler) *http.Server {
	addr := cfg.Port
	if !strings.Contains(addr, ":") {
		addr = ":" + addr
	}

	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}
}

// Run serves HTTP and sweeps idle sessions and rate limit buckets until ctx is
// cancelled, then shuts the server down within the configured grace period.
func (a *App) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.logger.Info("server listening", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		return a.storage.Run(gctx, a.sweepInterval)
	})

	if a.limiter != nil {
		g.Go(func() error {
			return a.limiter.Run(gctx, a.sweepInterval)
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		a.logger.Info("shutting down server", zap.Int("sessions", a.storage.Len()))
		a.shutdown()
		return nil
	})

	return g.Wait()
}

func (a *App) shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), a.shutdownGrace)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		a.logger.Warn("graceful shutdown failed", zap.Error(err))
		if closeErr := a.server.Close(); closeErr != nil {
			a.logger.Error("forced close failed", zap.Error(closeErr))
		}
	}
}

// Server returns the HTTP server instance.
func (a *App) Server() *http.Server {
	return a.server
}

func resolveStaticDir(dir string) (string, error) {
	if dir == "" {
		return "", errors.New("no static directory configured")
	}

	path := dir
	if !filepath.IsAbs(dir) {
		resolved, err := resolveProjectPath(dir)
		if err != nil {
			return "", err
		}
		path = resolved
	}

	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%s is not a directory", path)
	}
	return path, nil
}

// resolveProjectPath locates a file or directory relative to the project root by walking up the directory tree.
func resolveProjectPath(relative string) (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		candidate := filepath.Join(dir, relative)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("unable to locate %s", relative)
}
