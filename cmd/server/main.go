package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/handsomefox/watchlist/internal/catalog"
	"github.com/handsomefox/watchlist/internal/config"
	"github.com/handsomefox/watchlist/internal/handlers"
	"github.com/handsomefox/watchlist/internal/library"
	"github.com/handsomefox/watchlist/internal/logger"
	"github.com/handsomefox/watchlist/internal/supervisor"
	"github.com/handsomefox/watchlist/internal/web"

	_ "github.com/joho/godotenv/autoload"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Println("Error:", err.Error())
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	level := logger.ParseLevel(cfg.LogLevel)
	appLogger := logger.New(level)
	slog.SetDefault(appLogger)

	client, err := catalog.New(cfg.BackendURL, catalog.Options{
		Timeout:         cfg.RequestTimeout,
		BreakerFailures: cfg.BreakerFailures,
		BreakerTimeout:  cfg.BreakerTimeout,
	})
	if err != nil {
		return fmt.Errorf("failed to init catalog client: %w", err)
	}

	pages, err := web.Templates()
	if err != nil {
		return fmt.Errorf("failed to parse templates: %w", err)
	}
	static, err := web.Static()
	if err != nil {
		return fmt.Errorf("failed to open static assets: %w", err)
	}

	lib := library.New(client)
	app, err := handlers.New(&handlers.Config{
		Library:        lib,
		Stats:          client,
		Pages:          pages,
		SearchDebounce: cfg.SearchDebounce,
		MutationRPS:    cfg.MutationRPS,
		MutationBurst:  cfg.MutationBurst,
		APIRateLimit:   cfg.APIRateLimit,

		RandomByDefault: cfg.RandomOrder,
	})
	if err != nil {
		return fmt.Errorf("failed to init handlers: %w", err)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(httplog.RequestLogger(appLogger, &httplog.Options{
		Level:         level,
		Schema:        httplog.SchemaECS,
		RecoverPanics: true,
	}))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Handle("/metrics", promhttp.Handler())
	r.Handle("/static/*", http.StripPrefix("/static", handlers.StaticFiles(static)))
	app.RegisterRoutes(r)

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      cfg.RequestTimeout + 10*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	root := supervisor.New(appLogger, shutdownTimeout)
	root.Add(supervisor.NewHTTPService(server, shutdownTimeout))
	if cfg.RefreshInterval > 0 {
		root.Add(supervisor.NewRefreshService(lib, cfg.RefreshInterval))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("listening", slog.String("addr", server.Addr), slog.String("backend", client.BaseURL()))
	if err := root.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("server error: %w", err)
	}
	slog.Info("shut down")
	return nil
}
