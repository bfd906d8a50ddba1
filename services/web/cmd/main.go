package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/peterpolkadot/crypto-search/shared/pkg/database"
	"github.com/peterpolkadot/crypto-search/shared/pkg/utils"

	"github.com/peterpolkadot/crypto-search/services/web/internal/config"
	webDB "github.com/peterpolkadot/crypto-search/services/web/internal/database"
	"github.com/peterpolkadot/crypto-search/services/web/internal/favorites"
	"github.com/peterpolkadot/crypto-search/services/web/internal/health"
	"github.com/peterpolkadot/crypto-search/services/web/internal/search"
	"github.com/peterpolkadot/crypto-search/services/web/internal/server"
	"github.com/peterpolkadot/crypto-search/services/web/internal/sheet"
	"github.com/peterpolkadot/crypto-search/services/web/internal/stats"

	"github.com/sirupsen/logrus"
)

type catalog interface {
	server.CatalogProvider
	health.Pinger
}

func main() {
	// .env is optional
	envErr := godotenv.Load()

	logger := utils.NewLogger("crypto-search")
	if envErr != nil && !os.IsNotExist(envErr) {
		logger.WithError(envErr).Warn("Error loading .env file")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}
	logger.WithFields(logrus.Fields{
		"catalog_backend":   cfg.CatalogBackend,
		"favorites_backend": cfg.FavoritesBackend,
		"page_size":         cfg.PageSize,
		"stats_cron":        cfg.StatsCron,
		"base_url":          cfg.Site.BaseURL,
	}).Info("Configuration loaded")

	var provider catalog
	switch cfg.CatalogBackend {
	case config.CatalogSheet:
		provider = sheet.NewClient(cfg.Sheet, logger)
	default:
		db, err := database.NewConnection(cfg.Database.DbUri, logger)
		if err != nil {
			logger.WithError(err).Fatal("Failed to connect to database")
		}
		defer db.Close()
		provider = webDB.NewRepository(db, logger)
	}

	var store favorites.Store
	switch cfg.FavoritesBackend {
	case config.FavoritesRedis:
		store = favorites.NewRedisStore(cfg.Redis, logger)
	default:
		store, err = favorites.NewSQLiteStore(cfg.SQLitePath, logger)
		if err != nil {
			logger.WithError(err).Fatal("Failed to open favorites store")
		}
	}
	defer store.Close()

	engine := search.NewEngine(cfg.Site.Leaderboards, logger)
	refresher := stats.NewRefresher(provider, engine, cfg.StatsCron, logger)

	healthChecker := health.NewHealthChecker(logger)
	healthChecker.Register("catalog", provider)
	healthChecker.Register("favorites", store)

	srv := server.NewServer(
		provider,
		favorites.NewService(store, logger),
		refresher,
		engine,
		healthChecker,
		server.Options{
			PageSize:     cfg.PageSize,
			SitemapLimit: cfg.SitemapLimit,
			Site:         cfg.Site,
		},
		logger,
	)

	// Create context for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := refresher.Start(ctx); err != nil {
		logger.WithError(err).Fatal("Failed to start leaderboard refresher")
	}

	logger.Info("Crypto search service started successfully")

	if err := srv.Run(ctx, ":"+cfg.HTTPPort); err != nil {
		logger.WithError(err).Error("HTTP server failed")
	}

	logger.Info("Shutting down crypto search service...")
	refresher.Stop()
	logger.Info("Crypto search service stopped")
}
