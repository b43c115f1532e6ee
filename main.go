package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"aptwatcher/config"
	"aptwatcher/helpers"
	"aptwatcher/internal/scraper"
	"aptwatcher/logger"
	"aptwatcher/services/cache"
	"aptwatcher/services/notifier"
	"aptwatcher/services/store"
	"aptwatcher/services/worker"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	godotenv.Load()

	// Initialize logger first
	logger.Init()
	log := logger.Default

	// Load and validate configuration
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	log.Info().
		Str("environment", cfg.Environment).
		Str("search_url", cfg.SearchURL).
		Dur("check_interval", cfg.CheckInterval).
		Msg("Starting application")

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Rate-limit cache is optional; without it every run fetches
	var cacheSvc cache.CacheService
	if cfg.MemcacheAddr != "" {
		cacheSvc = cache.NewMemcacheService(cfg.MemcacheAddr)
		logger.Info("Connected to Memcache at %s", cfg.MemcacheAddr)
	}

	// Initialize notifiers
	notifiers := createNotifiers(ctx, cfg)
	defer func() {
		for _, n := range notifiers {
			n.Close()
		}
	}()
	if len(notifiers) == 0 {
		log.Warn().Msg("No notifiers configured; new listings will only be logged")
	}

	// Create the pipeline
	seenStore := store.NewFileStore(cfg.SeenFile)
	streetEasy := scraper.NewStreetEasyScraper(cfg, cacheSvc)
	errLog := helpers.NewLogger(cfg.ErrorLogFile)

	w := worker.NewWorker(
		ctx,
		streetEasy,
		seenStore,
		notifiers,
		errLog,
		cfg.CheckInterval,
	)

	// Start worker in a goroutine
	workerDone := make(chan error, 1)
	go func() {
		log.Info().Msg("Starting listing monitor")
		workerDone <- w.Start()
	}()

	// Wait for shutdown signal or worker completion
	select {
	case sig := <-sigChan:
		log.Info().
			Str("signal", sig.String()).
			Msg("Received shutdown signal")
		cancel()
		<-workerDone
	case err := <-workerDone:
		if err != nil {
			log.Error().Err(err).Msg("Check run failed")
			os.Exit(1)
		}
		log.Info().Msg("Check run finished")
	}
}

// createNotifiers builds the configured notification channels
func createNotifiers(ctx context.Context, cfg config.Config) []notifier.Notifier {
	var notifiers []notifier.Notifier

	if cfg.EmailConfigured() {
		notifiers = append(notifiers, notifier.NewEmailNotifier(
			cfg.EmailFrom,
			cfg.EmailPassword,
			cfg.EmailTo,
			cfg.SMTPHost,
			cfg.SMTPPort,
			cfg.SearchURL,
		))
		logger.Info("Email notifications enabled for %d recipient(s)", len(cfg.EmailTo))
	}

	if cfg.RedisAddr != "" {
		notifiers = append(notifiers, notifier.NewRedisNotifier(
			ctx,
			cfg.RedisAddr,
			cfg.RedisDB,
			cfg.RedisStream,
			cfg.RedisStreamCount,
			cfg.RedisStreamMaxLength,
		))
		logger.Info("Connected to Redis at %s (DB: %d, Stream: %s)",
			cfg.RedisAddr, cfg.RedisDB, cfg.RedisStream)
	}

	return notifiers
}
