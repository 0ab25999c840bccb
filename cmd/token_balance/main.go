package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"token_balance/internal/app/provider"
	"token_balance/internal/app/service"
	"token_balance/internal/domain/entity"
	"token_balance/internal/infrastructure/balancestore"
	"token_balance/internal/infrastructure/configloader"
	clientprovider "token_balance/internal/infrastructure/network/client"
	networkdefinition "token_balance/internal/infrastructure/network/definition"
	"token_balance/internal/infrastructure/restapi"
	"token_balance/internal/infrastructure/tokenloader"
	"token_balance/internal/pkg/logger"
	"token_balance/internal/pkg/metrics"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "config/config.yml", "path to the YAML configuration file")
	flag.Parse()

	cfg, err := configloader.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "CRITICAL: failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	zapLogger, err := logger.Init(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "CRITICAL: failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = zapLogger.Sync() }()

	logger.Info("Token balance service starting", "config", *configPath)
	if cfg.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	appLogger := logger.NewSlogAdapter()
	metrics.MustRegisterMetrics(prometheus.DefaultRegisterer)

	netDefProvider, err := networkdefinition.NewNetworkDefinitionProvider(appLogger, cfg.Networks)
	if err != nil {
		logger.Fatal("Failed to initialize networks", "error", err)
	}
	selection := netDefProvider.SelectByID(entity.NetworkID(strings.TrimSpace(cfg.SelectedNetwork)))

	balances := balancestore.New(appLogger)
	if cfg.Balances.SeedFile != "" {
		if err := balances.LoadSeed(cfg.Balances.SeedFile); err != nil {
			logger.Fatal("Failed to load balance seed", "error", err)
		}
	}

	catalogLoader := tokenloader.NewCatalogLoader(
		cfg.Catalog.Sources,
		time.Duration(cfg.Catalog.RequestTimeoutMillis)*time.Millisecond,
		appLogger,
	)
	tokenProvider := provider.NewTokenProvider(catalogLoader, appLogger)

	// Load the catalog eagerly so that malformed entries stop the service at startup.
	loadCtx, loadCancel := context.WithTimeout(context.Background(), time.Minute)
	tokens, err := tokenProvider.GetTokens(loadCtx)
	loadCancel()
	if err != nil {
		if tokenloader.IsConfigurationError(err) {
			logger.Fatal("Token catalog is misconfigured", "error", err)
		}
		logger.Fatal("Failed to load token catalog", "error", err)
	}
	logger.Info("Token catalog ready", "tokens", len(tokens))

	contractFetcher := clientprovider.NewEVMContractFetcher(
		time.Duration(cfg.Contracts.DialTimeoutSeconds)*time.Second,
		zapLogger,
	)

	lookup := service.NewBalanceLookup(balances, netDefProvider, contractFetcher, appLogger)
	handler := restapi.NewTokenHandler(tokenProvider, lookup, balances, netDefProvider, selection, appLogger)
	router := restapi.SetupRouter(handler, cfg.Server, promhttp.Handler())

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
	}

	go func() {
		zapLogger.Info("Starting HTTP server", zap.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start HTTP server", "error", err)
		}
	}()

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, syscall.SIGINT, syscall.SIGTERM)
	<-signalChan

	logger.Info("Shutdown signal received, stopping HTTP server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", "error", err)
	} else {
		logger.Info("HTTP server stopped")
	}
}
