package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rickgao/auction-watch/internal/account"
	"github.com/rickgao/auction-watch/internal/api"
	"github.com/rickgao/auction-watch/internal/auth"
	"github.com/rickgao/auction-watch/internal/config"
	"github.com/rickgao/auction-watch/internal/events"
	"github.com/rickgao/auction-watch/internal/logging"
	"github.com/rickgao/auction-watch/internal/metrics"
	"github.com/rickgao/auction-watch/internal/server"
	"github.com/rickgao/auction-watch/internal/store"
	"github.com/rickgao/auction-watch/internal/version"
)

func main() {
	configPath := flag.String("config", "configs/watcher.local.yaml", "path to config file")
	envFile := flag.String("env", ".env", "optional .env file loaded before the config")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	if err := config.LoadEnv(*envFile); err != nil {
		slog.Error("failed to load env file", "err", err)
		os.Exit(1)
	}

	// Load configuration
	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	// Set up structured logging
	logger, logCloser, err := logging.Setup(cfg.Logging)
	if err != nil {
		slog.Error("failed to set up logging", "err", err)
		os.Exit(1)
	}
	defer logCloser.Close()

	logger.Info("starting watcher",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
		"instance_id", cfg.Instance.ID,
	)

	if err := run(cfg, logger); err != nil {
		logger.Error("watcher failed", "err", err)
		logCloser.Close()
		os.Exit(1)
	}
	logger.Info("watcher stopped")
}

func run(cfg *config.WatcherConfig, logger *slog.Logger) error {
	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	// State store
	logger.Info("opening state store", "backend", cfg.Store.Backend)
	st, err := store.Open(ctx, cfg.Store)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	// Metrics
	registry := metrics.NewRegistry()
	m := metrics.New(registry)

	// Event bus and subscribers
	bus := events.NewBus(logger, events.WithObserver(m))
	history := events.NewHistory(events.DefaultHistorySize)
	hub := events.NewHub(events.DefaultHubConfig(), logger)
	defer hub.Close()

	bus.Subscribe("metrics", m)
	bus.Subscribe("history", history)
	bus.Subscribe("stream", hub)

	sinks, err := startSinks(ctx, cfg.Sinks, bus, logger)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()
		sinks.Stop(shutdownCtx)
	}()

	// Accounts
	accounts := make([]*account.Account, 0, len(cfg.Accounts))
	for _, ac := range cfg.Accounts {
		a, err := newAccount(cfg.API, ac, st, bus, m, logger)
		if err != nil {
			return err
		}
		accounts = append(accounts, a)
	}
	manager := account.NewManager(logger, accounts...)

	// Operator API. Started before the pollers so their first cycles can be
	// watched live.
	gin.SetMode(cfg.Server.Mode)
	router := server.SetupRouter(server.Routes{
		Actions:     manager,
		Events:      history,
		Stream:      hub,
		Metrics:     metrics.Handler(registry),
		MetricsPath: cfg.Metrics.Path,
		Logger:      logger,
	})
	srv := server.New(cfg.Server.Port, router, logger)
	if err := srv.Start(); err != nil {
		return err
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := srv.Stop(shutdownCtx); err != nil {
			logger.Warn("http server shutdown", "err", err)
		}
	}()

	if err := manager.Start(ctx, cfg.Searches); err != nil {
		return fmt.Errorf("start accounts: %w", err)
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()
		if err := manager.Stop(shutdownCtx); err != nil {
			logger.Warn("accounts did not stop cleanly", "err", err)
		}
	}()

	logger.Info("watcher running",
		"accounts", len(accounts),
		"subscribers", bus.Subscribers(),
		"api_url", fmt.Sprintf("http://localhost:%d/api", cfg.Server.Port),
	)

	// Wait for shutdown
	select {
	case <-ctx.Done():
	case err := <-srv.Err():
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	}

	logger.Info("shutting down...")
	return nil
}

func newAccount(apiCfg config.APIConfig, ac config.AccountConfig, st store.Store, bus *events.Bus, m *metrics.Metrics, logger *slog.Logger) (*account.Account, error) {
	creds, err := auth.LoadCredentials(ac.AppID, ac.DevID, ac.CertID, ac.Token, ac.TokenPath)
	if err != nil {
		return nil, fmt.Errorf("account %s credentials: %w", ac.Name, err)
	}
	if !creds.HasUserToken() {
		logger.Warn("no user token, bids and purchases will not be polled", "account", ac.Name)
	}

	client := api.NewClient(creds, ac.Site,
		api.WithLogger(logger.With("account", ac.Name)),
		api.WithTimeout(apiCfg.Timeout),
		api.WithRetries(apiCfg.MaxRetries, apiCfg.RetryBackoff),
		api.WithActivityTTL(apiCfg.ActivityTTL),
		api.WithEndpoints(api.Endpoints{
			Browse:    apiCfg.BrowseURL,
			Trading:   apiCfg.TradingURL,
			Shopping:  apiCfg.ShoppingURL,
			OAuth:     apiCfg.OAuthURL,
			Analytics: apiCfg.AnalyticsURL,
		}),
		api.WithCallObserver(m.APICallObserver(ac.Name)),
	)

	return account.New(ac.Name, client, account.Intervals{
		Bids:      ac.BidsInterval,
		Watchlist: ac.WatchlistInterval,
		Purchases: ac.PurchasesInterval,
	}, account.Deps{
		Store:     st,
		Publisher: bus,
		Observer:  m,
		Logger:    logger,
	}), nil
}
