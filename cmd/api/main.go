package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/tunemint/market-ledger/internal/access"
	"github.com/tunemint/market-ledger/internal/api/middleware"
	"github.com/tunemint/market-ledger/internal/api/server"
	"github.com/tunemint/market-ledger/internal/catalog"
	"github.com/tunemint/market-ledger/internal/config"
	"github.com/tunemint/market-ledger/internal/domain"
	"github.com/tunemint/market-ledger/internal/ledger"
	"github.com/tunemint/market-ledger/internal/listing"
	"github.com/tunemint/market-ledger/internal/logger"
	"github.com/tunemint/market-ledger/internal/outcome"
	"github.com/tunemint/market-ledger/internal/providers/jetstream"
	"github.com/tunemint/market-ledger/internal/settlement"
	"github.com/tunemint/market-ledger/internal/store"
	"github.com/tunemint/market-ledger/internal/webhook"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
)

func main() {
	flag.Parse()

	// Load configuration
	cfg, err := config.LoadAPIConfig(*configFile, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize logger with sentry integration
	err = logger.Initialize(logger.Config{
		Debug:     cfg.Debug,
		SentryDSN: cfg.SentryDSN,
		Service:   "api-server",
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.InfoCtx(ctx, "Starting market ledger API")

	// Connect to database
	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{})
	if err != nil {
		logger.FatalCtx(ctx, "Failed to connect to database", zap.Error(err))
	}

	// Configure connection pool
	if err := store.ConfigureConnectionPool(db, cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns, cfg.Database.ConnMaxLifetime, cfg.Database.ConnMaxIdleTime); err != nil {
		logger.FatalCtx(ctx, "Failed to configure connection pool", zap.Error(err))
	}
	logger.InfoCtx(ctx, "Connected to database",
		zap.Int("max_open_conns", cfg.Database.MaxOpenConns),
		zap.Int("max_idle_conns", cfg.Database.MaxIdleConns),
	)

	// Initialize journal store
	if err := store.Migrate(db); err != nil {
		logger.FatalCtx(ctx, "Failed to migrate journal schema", zap.Error(err))
	}
	journal := store.NewPGStore(db)

	// Connect to NATS and ensure the outcome stream
	publisher, err := jetstream.NewPublisher(ctx, jetstream.Config{
		URL:            cfg.NATS.URL,
		StreamName:     cfg.NATS.StreamName,
		SubjectPrefix:  cfg.NATS.SubjectPrefix,
		MaxReconnects:  cfg.NATS.MaxReconnects,
		ReconnectWait:  cfg.NATS.ReconnectWait,
		ConnectionName: cfg.NATS.ConnectionName,
	})
	if err != nil {
		logger.FatalCtx(ctx, "Failed to connect to NATS", zap.Error(err))
	}
	defer publisher.Close()
	logger.InfoCtx(ctx, "Connected to NATS", zap.String("url", cfg.NATS.URL))

	// Fan outcomes out to the journal, the message bus, and any webhooks
	sinks := []outcome.Sink{
		store.NewJournalSink(journal),
		outcome.NewPublisherSink(publisher),
	}
	if len(cfg.Webhook.Endpoints) > 0 {
		endpoints := make([]webhook.Endpoint, 0, len(cfg.Webhook.Endpoints))
		for _, e := range cfg.Webhook.Endpoints {
			endpoints = append(endpoints, webhook.Endpoint{URL: e.URL, Secret: e.Secret})
		}
		sinks = append(sinks, webhook.NewNotifier(endpoints, cfg.Webhook.Timeout))
		logger.InfoCtx(ctx, "Webhook notifications enabled", zap.Int("endpoints", len(endpoints)))
	}
	dispatcher := outcome.NewDispatcher(cfg.Outcome.PoolSize, cfg.Outcome.QueueSize, sinks...)
	defer dispatcher.Close()

	// Assemble the settlement core
	cat := catalog.New()
	led := ledger.New()
	listings := listing.New()
	approvals := access.New()
	engine := settlement.NewEngine(settlement.Config{
		Catalog:  cat,
		Ledger:   led,
		Listings: listings,
		Access:   approvals,
		Operator: domain.Actor(cfg.Market.OperatorIdentity),
		Sink:     dispatcher,
	})

	// Create server config
	serverConfig := server.Config{
		Debug:        cfg.Debug,
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
		Auth: middleware.AuthConfig{
			JWTPublicKey: cfg.Auth.JWTPublicKey,
			APIKeys:      cfg.Auth.APIKeys,
		},
	}

	// Create and start server
	srv := server.New(serverConfig, engine, cat, led, listings)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil {
			errCh <- err
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		logger.ErrorCtx(ctx, fmt.Errorf("server error: %w", err))
	case sig := <-sigCh:
		logger.InfoCtx(ctx, "Received shutdown signal", zap.String("signal", sig.String()))
	}

	// Drain in-flight requests, then in-flight outcome deliveries
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.ErrorCtx(ctx, fmt.Errorf("failed to shutdown server: %w", err))
	}

	logger.InfoCtx(ctx, "Market ledger API stopped")
}
