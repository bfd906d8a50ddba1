package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/peterpolkadot/crypto-search/services/web/internal/config"
	"github.com/peterpolkadot/crypto-search/services/web/internal/favorites"
	"github.com/peterpolkadot/crypto-search/services/web/internal/health"
	"github.com/peterpolkadot/crypto-search/services/web/internal/metrics"
	"github.com/peterpolkadot/crypto-search/services/web/internal/search"
	"github.com/peterpolkadot/crypto-search/services/web/internal/stats"
	"github.com/peterpolkadot/crypto-search/services/web/pkg/models"
	"github.com/sirupsen/logrus"
)

// CatalogProvider is the read side of the coin catalog. Detail lookups
// return nil, nil when no coin has the symbol.
type CatalogProvider interface {
	ListCoins(ctx context.Context, page, limit int) (*models.Page, error)
	ListAllCoins(ctx context.Context) ([]models.Coin, error)
	ListCategoryCoins(ctx context.Context, slug string, page, limit int) (*models.CategoryPage, error)
	ListCategoryStatsCoins(ctx context.Context, slug string) ([]models.Coin, error)
	GetCoinBySymbol(ctx context.Context, symbol string) (*models.CoinDetail, error)
	ListSitemapCoins(ctx context.Context, limit int) ([]models.SitemapEntry, error)
}

type FavoritesOpener interface {
	Open(ctx context.Context, clientID string) (*favorites.Set, error)
}

type LeaderboardSource interface {
	Current() *stats.Snapshot
}

type Options struct {
	PageSize     int
	SitemapLimit int
	Site         config.Site
}

type Server struct {
	catalog      CatalogProvider
	favorites    FavoritesOpener
	leaderboards LeaderboardSource
	engine       *search.Engine
	health       *health.HealthChecker
	opts         Options
	logger       *logrus.Logger
	httpServer   *http.Server
}

func NewServer(
	catalog CatalogProvider,
	favorites FavoritesOpener,
	leaderboards LeaderboardSource,
	engine *search.Engine,
	checker *health.HealthChecker,
	opts Options,
	logger *logrus.Logger,
) *Server {
	if opts.PageSize <= 0 {
		opts.PageSize = 100
	}
	if opts.SitemapLimit <= 0 {
		opts.SitemapLimit = 5000
	}

	return &Server{
		catalog:      catalog,
		favorites:    favorites,
		leaderboards: leaderboards,
		engine:       engine,
		health:       checker,
		opts:         opts,
		logger:       logger,
	}
}

func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), s.requestLogger(), observe(), clientID())

	api := router.Group("/api")
	api.GET("/coins", s.listCoins)
	api.GET("/coins/:symbol", s.coinDetail)
	api.GET("/categories/:slug", s.categoryCoins)
	api.GET("/suggestions", s.suggestions)
	api.GET("/leaderboards", s.globalLeaderboards)
	api.GET("/favorites", s.listFavorites)
	api.POST("/favorites/:id/toggle", s.toggleFavorite)

	router.GET("/sitemap.xml", s.sitemap)
	router.GET("/robots.txt", s.robots)
	router.GET("/metrics", gin.WrapH(metrics.Handler(nil)))
	if s.health != nil {
		router.GET("/health", gin.WrapF(s.health.LivenessHandler()))
		router.GET("/ready", gin.WrapF(s.health.ReadinessHandler()))
	}

	return router
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.WithField("addr", addr).Info("Starting HTTP server")
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.logger.Info("Shutting down HTTP server")
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return err
		}
		<-errCh
		return nil
	case err := <-errCh:
		return err
	}
}
