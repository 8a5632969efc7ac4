package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bradykim7/pricecrawl/internal/crawler"
	"github.com/bradykim7/pricecrawl/internal/crawler/sources"
	"github.com/bradykim7/pricecrawl/internal/models"
	"github.com/bradykim7/pricecrawl/internal/monitoring"
	"github.com/bradykim7/pricecrawl/internal/storage"
	"github.com/bradykim7/pricecrawl/pkg/config"
	"github.com/bradykim7/pricecrawl/pkg/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

func main() {
	// Bootstrap logger until the configured one is available
	bootstrap, err := zap.NewProduction()
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	cfg, err := config.Load()
	if err != nil {
		bootstrap.Fatal("Failed to load configuration", zap.Error(err))
	}

	log, err := logger.New("pricecrawl", logger.Options{Dir: cfg.LogDir, Level: cfg.LogLevel})
	if err != nil {
		bootstrap.Fatal("Failed to initialize logger", zap.Error(err))
	}
	defer log.Sync()

	// Create context that will be canceled on interrupt
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle graceful shutdown
	go func() {
		sc := make(chan os.Signal, 1)
		signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM)
		<-sc
		log.Info("Received shutdown signal, stopping after the current pages...")
		cancel()
	}()

	seeds, err := loadSeeds(cfg)
	if err != nil {
		log.Fatal("Failed to load site rulesets", zap.Error(err))
	}
	log.Info("Loaded seeds", zap.Strings("sites", cfg.Sites), zap.Int("seeds", len(seeds)))

	// Initialize monitoring
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := monitoring.NewMetrics(registry)
	if cfg.MetricsAddr != "" {
		server := startMetricsServer(cfg.MetricsAddr, registry, log)
		defer func() {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutdownCancel()
			_ = server.Shutdown(shutdownCtx)
		}()
	}

	// Initialize sinks
	sinks := crawler.MultiSink{crawler.NewLogSink(log)}

	if cfg.MongoDBURI != "" {
		db, err := storage.NewMongoDB(cfg.MongoDBURI, cfg.MongoDBDatabase, log)
		if err != nil {
			log.Fatal("Failed to connect to MongoDB", zap.Error(err))
		}
		defer func() {
			if err := db.Disconnect(); err != nil {
				log.Error("Error closing MongoDB", zap.Error(err))
			}
		}()

		repo := storage.NewProductRepository(db, log)
		if err := repo.EnsureIndexes(ctx); err != nil {
			log.Warn("Failed to set up database indices", zap.Error(err))
		}
		sinks = append(sinks, repo)
	}

	if cfg.PostgresURL != "" {
		pg, err := storage.NewPostgresStore(ctx, cfg.PostgresURL)
		if err != nil {
			log.Fatal("Failed to connect to postgres", zap.Error(err))
		}
		defer pg.Close()

		if err := pg.Migrate(ctx); err != nil {
			log.Fatal("Failed to migrate postgres", zap.Error(err))
		}
		sinks = append(sinks, pg)
	}

	// Initialize run reports
	handleReport := func(models.RunReport) {}
	if cfg.DiscordToken != "" {
		notifier, err := crawler.NewReportNotifier(cfg.DiscordToken, cfg.ReportChannelID, log)
		if err != nil {
			log.Fatal("Failed to initialize Discord notifier", zap.Error(err))
		}
		defer notifier.Close()

		handleReport = func(report models.RunReport) {
			if err := notifier.Notify(report); err != nil {
				log.Error("Failed to send run report", zap.Error(err))
			}
		}
	}

	fetcher := crawler.NewHTTPFetcher(crawler.FetcherOptions{
		Timeout:    cfg.FetchTimeout,
		MaxRetries: cfg.FetchMaxRetries,
		RetryWait:  cfg.FetchRetryWait,
	}, log)

	webCrawler := crawler.New(fetcher, sinks, metrics, cfg.MaxInFlightFetches, log)

	if cfg.CrawlInterval > 0 {
		// Start scheduled runs (this blocks until context is canceled)
		webCrawler.StartScheduledRuns(ctx, seeds, cfg.CrawlInterval, handleReport)
	} else {
		handleReport(webCrawler.Run(ctx, seeds))
	}

	log.Info("Price crawler shut down successfully")
}

// loadSeeds returns the seeds of the configured sites, with file rulesets replacing built-in ones
func loadSeeds(cfg *config.Config) ([]sources.Seed, error) {
	rulesets := sources.Builtin()
	if cfg.SitesFile != "" {
		fromFile, err := sources.LoadFile(cfg.SitesFile)
		if err != nil {
			return nil, err
		}
		rulesets = sources.Merge(rulesets, fromFile)
	}

	selected, err := sources.Select(rulesets, cfg.Sites)
	if err != nil {
		return nil, err
	}
	return sources.Seeds(selected), nil
}

func startMetricsServer(addr string, registry *prometheus.Registry, log *zap.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", monitoring.Handler(registry))

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Metrics server failed", zap.Error(err))
		}
	}()

	log.Info("Metrics server started", zap.String("addr", addr))
	return server
}
