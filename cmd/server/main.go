// Package main provides the API server entry point for the alpha buyer
// scanner service.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/alpha-scanner/internal/adapter"
	"github.com/alpha-scanner/internal/api"
	"github.com/alpha-scanner/internal/config"
	"github.com/alpha-scanner/internal/logging"
	"github.com/alpha-scanner/internal/service"
	"github.com/alpha-scanner/internal/storage"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize structured logging
	logLevel := logging.ParseLogLevel(cfg.Logging.Level)
	logFormat := logging.ParseLogFormat(cfg.Logging.Format)
	logging.InitGlobalLogger(logLevel, logFormat)

	logger := logging.GetGlobalLogger()
	logger.WithFields(map[string]interface{}{
		"level":  cfg.Logging.Level,
		"format": cfg.Logging.Format,
	}).Info("Structured logging initialized")

	if cfg.Etherscan.APIKey == "" {
		logger.Warn("ETHERSCAN_API_KEY not set; transfer ingestion will be heavily throttled")
	}
	if cfg.Syve.APIKey == "" {
		logger.Warn("SYVE_API_KEY not set; wallet performance lookups will fail")
	}

	// External data source clients
	dexClient := adapter.NewDexScreenerClient(&cfg.DexScreener)
	etherscanClient := adapter.NewEtherscanClient(&cfg.Etherscan, cfg.Scan.TransferLimit)
	syveClient := adapter.NewSyveClient(&cfg.Syve)

	// Optional buyer snapshot cache
	var snapshotCache service.SnapshotCache
	if cfg.Cache.Enabled() {
		redisCache, err := storage.NewRedisCache(&cfg.Cache)
		if err != nil {
			logger.WithError(err).Fatal("Failed to connect to Redis")
		}
		defer redisCache.Close()
		snapshotCache = storage.NewSnapshotStore(redisCache, cfg.Cache.TTL)
		logger.WithField("ttl", cfg.Cache.TTL.String()).Info("Buyer snapshot cache enabled")
	} else {
		logger.Info("Buyer snapshot cache disabled; scans recompute per request")
	}

	// Scan pipeline
	scanService := service.NewScanService(&service.ScanServiceConfig{
		Pairs:  dexClient,
		Ledger: etherscanClient,
		Extractor: service.NewBuyerExtractor(
			etherscanClient,
			cfg.Scan.MaxBuyers,
			cfg.Scan.ContractCheckConcurrency,
		),
		Aggregator:        service.NewPerformanceAggregator(syveClient),
		Classifier:        service.NewAlphaClassifier(),
		Cache:             snapshotCache,
		PageSize:          cfg.Scan.PageSize,
		WalletConcurrency: cfg.Scan.WalletConcurrency,
	})

	// HTTP server
	server := api.NewServer(&api.ServerConfig{
		Host:            cfg.Server.Host,
		Port:            cfg.Server.Port,
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		IdleTimeout:     cfg.Server.IdleTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	}, scanService)

	// Start server and wait for shutdown signal
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		logger.WithError(err).Fatal("Server failed")
	case sig := <-sigCh:
		logger.WithField("signal", sig.String()).Info("Shutdown signal received")
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("Graceful shutdown failed")
	}
}
