package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/yukikurage/project-tracker/internal/config"
	"github.com/yukikurage/project-tracker/internal/database"
	"github.com/yukikurage/project-tracker/internal/logger"
	"github.com/yukikurage/project-tracker/internal/password"
	"github.com/yukikurage/project-tracker/internal/services"
	"github.com/yukikurage/project-tracker/internal/token"
)

func main() {
	// Load configuration
	cfg, err := config.Load("")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zapLog, err := logger.New(cfg.Debug)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer zapLog.Sync()

	zapLog.Info("Starting project tracker", zap.String("environment", cfg.Environment))

	// Connect to database
	db, err := database.Open(cfg.DatabaseURL, zapLog, database.Options{Debug: cfg.Debug})
	if err != nil {
		zapLog.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close(db)

	// Run migrations
	if err := database.Migrate(db, zapLog); err != nil {
		zapLog.Fatal("Failed to run migrations", zap.Error(err))
	}

	registry := prometheus.NewRegistry()
	if err := database.RegisterMetrics(registry, db, "tracker"); err != nil {
		zapLog.Fatal("Failed to register database metrics", zap.Error(err))
	}

	issuer, err := token.NewIssuer(cfg.JWTSecretKey, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	if err != nil {
		zapLog.Fatal("Failed to create token issuer", zap.Error(err))
	}

	// Initialize services
	svc := services.New(db, password.NewBcryptHasher(cfg.BcryptCost), issuer, zapLog)

	var opsServer *http.Server
	if cfg.MetricsAddr != "" {
		opsServer = &http.Server{Addr: cfg.MetricsAddr, Handler: opsHandler(registry, svc)}

		go func() {
			zapLog.Info("Ops server starting", zap.String("addr", cfg.MetricsAddr))
			if err := opsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				zapLog.Error("Ops server failed", zap.Error(err))
			}
		}()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	zapLog.Info("Project tracker is ready")
	<-ctx.Done()

	zapLog.Info("Shutting down")
	if opsServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := opsServer.Shutdown(shutdownCtx); err != nil {
			zapLog.Error("Ops server shutdown error", zap.Error(err))
		}
	}
}

// opsHandler serves prometheus metrics and a database-backed health check.
func opsHandler(registry *prometheus.Registry, svc *services.Services) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := svc.Ping(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"unavailable"}`))
			return
		}
		w.Write([]byte(`{"status":"ok"}`))
	})
	return mux
}
