package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"gitea.com/go-chi/session"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/blogem/crud-audit/authenticator"
	"github.com/blogem/crud-audit/config"
	"github.com/blogem/crud-audit/controllers"
	"github.com/blogem/crud-audit/database"
	authmiddleware "github.com/blogem/crud-audit/middleware"
	"github.com/blogem/crud-audit/repositories"
	"github.com/blogem/crud-audit/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	db, err := database.InitializeDatabase(cfg.DatabasePath)
	if err != nil {
		logger.Error("failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	repos := repositories.NewRepositories(db)
	metrics := services.NewAuditMetrics(prometheus.DefaultRegisterer)
	srvs := services.NewServices(repos, metrics, logger)

	inTx := func(ctx context.Context, fn func(ctx context.Context) error) error {
		return database.RunInTx(ctx, db, fn)
	}
	ctrl := controllers.NewControllers(srvs, inTx)

	provider, err := authenticator.NewOIDCProvider(context.Background(), cfg.OIDC)
	if err != nil {
		logger.Error("failed to initialize OIDC provider", "error", err)
		os.Exit(1)
	}

	r, err := setupRouter(ctrl, provider, cfg, logger)
	if err != nil {
		logger.Error("failed to setup router", "error", err)
		os.Exit(1)
	}

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("crud audit service starting", "port", cfg.Port, "database", cfg.DatabasePath)
	if err := server.ListenAndServe(); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

// setupRouter configures all routes
func setupRouter(ctrl *controllers.Controllers, provider authenticator.Provider, cfg *config.Config, logger *slog.Logger) (*chi.Mux, error) {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(authmiddleware.RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second)) // 60 second timeout for OAuth callbacks

	lifetime := int64(cfg.SessionLifetime / time.Second)
	sessionHandler, err := session.Sessioner(session.Options{
		Provider:    "memory",
		CookieName:  "crud_audit_session",
		Secure:      cfg.UseHTTPS,
		Gclifetime:  lifetime,
		Maxlifetime: lifetime,
	})
	if err != nil {
		return nil, err
	}

	// PUBLIC ROUTES (no authentication required)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy", "service": "crud-audit"}`))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(sessionHandler)

		r.Get("/login", ctrl.Auth.Login(provider))
		r.Get("/callback", ctrl.Auth.Callback(provider))
		r.Get("/logout", ctrl.Auth.Logout)

		// PROTECTED ROUTES (authentication required)
		r.Route("/api", func(r chi.Router) {
			r.Use(authmiddleware.RequireAuth)

			r.Route("/team", ctrl.Team.Routes)
			r.Get("/audit", ctrl.Audit.Index)
		})
	})

	return r, nil
}
