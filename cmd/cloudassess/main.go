package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/MikeSquared-Agency/CloudAssess/internal/api"
	"github.com/MikeSquared-Agency/CloudAssess/internal/config"
	"github.com/MikeSquared-Agency/CloudAssess/internal/hermes"
	"github.com/MikeSquared-Agency/CloudAssess/internal/metrics"
	"github.com/MikeSquared-Agency/CloudAssess/internal/questionnaire"
	"github.com/MikeSquared-Agency/CloudAssess/internal/scoring"
	"github.com/MikeSquared-Agency/CloudAssess/internal/store"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	seedCatalog := flag.Bool("seed-catalog", false, "publish the built-in catalog to postgres and exit")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logger = newLogger(os.Stdout, cfg)
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if *seedCatalog {
		if err := seed(ctx, cfg, logger); err != nil {
			logger.Error("failed to seed catalog", "error", err)
			os.Exit(1)
		}
		return
	}

	// Catalog
	catalogStore, err := store.Open(ctx, cfg)
	if err != nil {
		logger.Error("failed to open catalog store", "source", cfg.Catalog.Source, "error", err)
		os.Exit(1)
	}
	defer catalogStore.Close()

	catalogs, err := api.NewCatalogHolder(ctx, catalogStore)
	if err != nil {
		logger.Error("failed to load catalog", "source", cfg.Catalog.Source, "error", err)
		os.Exit(1)
	}
	catalog := catalogs.Current()
	logger.Info("catalog loaded", "source", cfg.Catalog.Source, "version", catalog.Version(), "questions", catalog.Len())

	// Recommendations
	var table scoring.RecommendationTable
	if cfg.Recommendations.Path != "" {
		table, err = scoring.LoadRecommendations(cfg.Recommendations.Path)
		if err != nil {
			logger.Error("failed to load recommendations", "path", cfg.Recommendations.Path, "error", err)
			os.Exit(1)
		}
		logger.Info("recommendations loaded", "path", cfg.Recommendations.Path, "categories", len(table))
	}
	engine := scoring.NewEngine(table, logger)
	if uncovered := engine.Recommendations().Uncovered(catalog.Categories()); len(uncovered) > 0 {
		logger.Warn("categories use fallback recommendations", "categories", uncovered)
	}

	// Hermes (optional)
	var hermesClient hermes.Client
	if cfg.Hermes.URL != "" {
		hc, err := hermes.NewNATSClient(ctx, cfg.Hermes.URL, logger)
		if err != nil {
			logger.Warn("failed to connect to hermes, running without events", "error", err)
		} else {
			hermesClient = hc
			defer hc.Close()
			logger.Info("connected to hermes")
		}
	}
	notifier := hermes.NewNotifier(hermesClient, logger)
	notifier.CatalogLoaded(ctx, catalog)

	// Metrics
	recorder := metrics.NewRecorder(prometheus.DefaultRegisterer)
	recorder.SetCatalog(catalog)

	// API server
	router := api.NewRouter(api.RouterConfig{
		Catalogs:           catalogs,
		Engine:             engine,
		Notifier:           notifier,
		Metrics:            recorder,
		AdminToken:         cfg.Server.AdminToken,
		RateLimitPerMinute: cfg.Server.RateLimitPerMinute,
		Logger:             logger,
	})
	apiServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Metrics server
	metricsServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.MetricsPort),
		Handler:           api.NewMetricsRouter(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("API server starting", "port", cfg.Server.Port)
		if err := apiServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("API server error", "error", err)
		}
	}()

	go func() {
		logger.Info("metrics server starting", "port", cfg.Server.MetricsPort)
		if err := metricsServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("metrics server error", "error", err)
		}
	}()

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	_ = apiServer.Shutdown(shutdownCtx)
	_ = metricsServer.Shutdown(shutdownCtx)

	logger.Info("shutdown complete")
}

func newLogger(w io.Writer, cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel()}
	if cfg.Logging.Format == "text" {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

// seed publishes the built-in catalog, or the configured catalog file, to postgres.
func seed(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	if cfg.Database.URL == "" {
		return fmt.Errorf("database url required to seed the catalog")
	}

	c := questionnaire.DefaultCatalog()
	if cfg.Catalog.Path != "" {
		var err error
		c, err = store.NewFileStore(cfg.Catalog.Path).LoadCatalog(ctx)
		if err != nil {
			return err
		}
	}

	db, err := store.NewPostgresStore(ctx, cfg.Database.URL)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.PublishCatalog(ctx, c); err != nil {
		return err
	}
	logger.Info("catalog published", "version", c.Version(), "questions", c.Len())
	return nil
}
