package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/spf13/cobra"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/ovsx/storage/internal/config"
	"github.com/ovsx/storage/internal/file"
	"github.com/ovsx/storage/internal/logger"
	appMiddleware "github.com/ovsx/storage/internal/middleware"
	"github.com/ovsx/storage/internal/namespace"
	"github.com/ovsx/storage/internal/storage"
	"github.com/ovsx/storage/internal/storage/cos"

	_ "github.com/ovsx/storage/docs/swagger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP gateway (default)",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := logger.L

	store := cos.NewService(log, cfg.Storage)
	defer store.Close()
	if !store.IsEnabled() {
		log.Warn("COS_BUCKET_NAME is not set, storage routes will answer 503")
	}
	if cfg.JWTSecret == "" {
		log.Warn("JWT_SECRET is not set, mutating routes will reject every request")
	}

	janitor := cos.NewJanitor(log, store, cfg.Storage.JanitorSchedule, cfg.Storage.JanitorMaxAge)
	if store.IsEnabled() {
		if err := janitor.Start(); err != nil {
			return err
		}
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      newRouter(cfg, store, log),
		ReadTimeout:  15 * time.Minute,
		WriteTimeout: 15 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine; wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	serveErr := make(chan error, 1)

	go func() {
		log.Info("server listening", slog.String("port", cfg.Port), slog.String("env", cfg.AppEnv))
		log.Info("swagger UI at http://localhost:" + cfg.Port + "/swagger/")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case <-quit:
	case err := <-serveErr:
		return err
	}
	log.Info("shutting down gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("forced shutdown", slog.Any("error", err))
	}
	janitor.Stop(ctx)

	log.Info("server stopped")
	return nil
}

// newRouter wires the gateway routes on top of store.
func newRouter(cfg *config.Config, store storage.Service, log *slog.Logger) http.Handler {
	fileHandler := file.NewHandler(store, cfg.Storage.MultipartThreshold)
	namespaceHandler := namespace.NewHandler(store)
	auth := appMiddleware.RequireAuth(cfg.JWTSecret)

	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(appMiddleware.Logger(log))
	r.Use(chiMiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if store.IsEnabled() {
			_, _ = w.Write([]byte(`{"status":"ok","storage":"enabled"}`))
			return
		}
		_, _ = w.Write([]byte(`{"status":"ok","storage":"disabled"}`))
	})

	// Swagger UI, available at http://localhost:8080/swagger/
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/files", func(r chi.Router) {
			fileHandler.Routes(r, auth)
		})
		r.Route("/namespaces", func(r chi.Router) {
			namespaceHandler.Routes(r, auth)
		})
	})

	return r
}
