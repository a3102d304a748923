package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"kra360/internal/apiclient"
	"kra360/internal/domain/audit"
	"kra360/internal/domain/auth"
	"kra360/internal/platform/config"
	cryptoutil "kra360/internal/platform/crypto"
	"kra360/internal/platform/db"
	"kra360/internal/platform/jobs"
	"kra360/internal/platform/metrics"
	"kra360/internal/session"
	audithandler "kra360/internal/transport/http/handlers/audit"
	authhandler "kra360/internal/transport/http/handlers/auth"
	performancehandler "kra360/internal/transport/http/handlers/performance"
	reportshandler "kra360/internal/transport/http/handlers/reports"
	synchandler "kra360/internal/transport/http/handlers/sync"
	"kra360/internal/transport/http/middleware"
	"kra360/internal/view"
)

const (
	purgeInterval        = 15 * time.Minute
	idempotencyRetention = 24 * time.Hour
)

type App struct {
	Config  config.Config
	DB      *db.Pool
	Router  http.Handler
	Metrics *metrics.Collector
	Jobs    *jobs.Service
}

// New wires the dashboard server. DATABASE_URL is optional; without it
// sessions live in memory and idempotency keys are not kept.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.SessionSecret == "" {
		cfg.SessionSecret = uuid.NewString() + uuid.NewString()
		slog.Warn("SESSION_SECRET not set, sessions will not survive a restart")
	}

	app := &App{Config: cfg, Metrics: metrics.New(), Jobs: jobs.New(slog.Default())}

	var scopes session.Scopes = session.NewMemoryScopes(cfg.SessionTTL)
	var (
		idempotency *middleware.IdempotencyStore
		trail       *audit.Service
	)
	if cfg.UsesDatabase() {
		pool, err := db.Connect(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("db connect: %w", err)
		}
		app.DB = pool
		if cfg.RunMigrations {
			if err := db.Migrate(ctx, pool); err != nil {
				pool.Close()
				return nil, fmt.Errorf("migrations: %w", err)
			}
		}
		scopes = session.NewPGScopes(pool, cfg.SessionTTL)
		idempotency = middleware.NewIdempotencyStore(pool)
		trail = audit.New(pool)
		app.schedulePurge(pool, idempotency)
	}

	sealer, err := cryptoutil.New(cfg.DataEncryptionKey, "session")
	if err != nil {
		app.Close()
		return nil, err
	}
	if sealer.Configured() {
		scopes = session.NewEncryptedScopes(scopes, sealer)
	}

	client := apiclient.New(cfg.APIBaseURL,
		apiclient.WithHTTPClient(&http.Client{Timeout: cfg.UpstreamTimeout}),
		apiclient.WithObserver(app.Metrics.ObserveUpstream),
	)
	sessions := &middleware.Sessions{
		Secret: cfg.SessionSecret,
		TTL:    cfg.SessionTTL,
		Secure: cfg.Environment == "production",
		Scopes: scopes,
		Authn:  client,
	}
	ledger := view.NewDecisionLedger()
	views := func(viewer auth.Identity) *view.Service {
		return view.NewService(client.As(viewer.ID), viewer, view.WithLedger(ledger))
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Metrics(app.Metrics))
	router.Use(middleware.SecureHeaders(cfg.Environment == "production"))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(sessions.Middleware)

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if app.DB != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := app.DB.Ping(ctx); err != nil {
				http.Error(w, "db not ready", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	if cfg.MetricsEnabled {
		router.Handle("/metrics", app.Metrics.Handler())
	}

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.RateLimit(cfg.RateLimitPerMinute, time.Minute))
		r.Use(middleware.SensitiveMutationRateLimit(cfg.RateLimitPerMinute, time.Minute))
		r.Use(middleware.Views(views))
		r.Use(middleware.Idempotency(idempotency))

		authhandler.NewHandler(sessions, cfg.SearchDebounce).RegisterRoutes(r)
		performancehandler.NewHandler(trail).RegisterRoutes(r)
		synchandler.NewHandler(trail).RegisterRoutes(r)
		audithandler.NewHandler(trail).RegisterRoutes(r)
		reportshandler.NewHandler().RegisterRoutes(r)
	})

	if cfg.FrontendDir != "" {
		router.Mount("/", spaHandler{staticPath: cfg.FrontendDir, indexPath: "index.html"})
	}

	app.Router = router
	return app, nil
}

func (a *App) schedulePurge(pool *db.Pool, idempotency *middleware.IdempotencyStore) {
	a.Jobs.Every(jobs.JobSessionPurge, purgeInterval, func(ctx context.Context) (any, error) {
		now := time.Now()
		sessions, err := session.PurgeExpired(ctx, pool, now)
		if err != nil {
			return nil, err
		}
		a.Metrics.SessionsPurged(sessions)
		keys, err := idempotency.PurgeBefore(ctx, now.Add(-idempotencyRetention))
		if err != nil {
			return nil, err
		}
		return map[string]int64{"sessions": sessions, "idempotencyKeys": keys}, nil
	})
}

func (a *App) Close() {
	if a.DB != nil {
		a.DB.Close()
	}
}

func Run() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	app, err := New(ctx, cfg)
	if err != nil {
		log.Fatalf("startup failed: %v", err)
	}
	defer app.Close()
	app.Jobs.Start(ctx)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Warn("shutdown failed", "err", err)
		}
	}()

	log.Printf("KRA360 dashboard listening on %s (backend %s)", cfg.Addr, cfg.APIBaseURL)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("server failed: %v", err)
	}
}

type spaHandler struct {
	staticPath string
	indexPath  string
}

func (h spaHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	path := filepath.Join(h.staticPath, filepath.Clean("/"+r.URL.Path))
	_, err := os.Stat(path)
	if err == nil {
		http.FileServer(http.Dir(h.staticPath)).ServeHTTP(w, r)
		return
	}

	if os.IsNotExist(err) {
		http.ServeFile(w, r, filepath.Join(h.staticPath, h.indexPath))
		return
	}

	http.NotFound(w, r)
}
