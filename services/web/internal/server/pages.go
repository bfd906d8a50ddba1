package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/peterpolkadot/crypto-search/services/web/internal/metrics"
	"github.com/peterpolkadot/crypto-search/services/web/internal/search"
	"github.com/peterpolkadot/crypto-search/services/web/internal/stats"
	"github.com/peterpolkadot/crypto-search/services/web/pkg/models"
	"github.com/peterpolkadot/crypto-search/shared/pkg/utils"
	"github.com/sirupsen/logrus"
)

type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalCount int `json:"total_count"`
	TotalPages int `json:"total_pages"`
}

type listResponse struct {
	search.View
	// Pagination is omitted while a search query is active.
	Pagination *Pagination `json:"pagination,omitempty"`
}

type categoryInfo struct {
	Slug  string `json:"slug"`
	Name  string `json:"name"`
	Emoji string `json:"emoji"`
}

type categoryResponse struct {
	listResponse
	Category     categoryInfo         `json:"category"`
	Leaderboards *search.Leaderboards `json:"leaderboards,omitempty"`
}

type detailDisplay struct {
	Price             string `json:"price"`
	Change24h         string `json:"chg_24h"`
	MarketCap         string `json:"market_cap"`
	Volume24h         string `json:"volume_24h"`
	CirculatingSupply string `json:"circulating_supply"`
	TotalSupply       string `json:"total_supply"`
	MaxSupply         string `json:"max_supply"`
}

type detailResponse struct {
	*models.CoinDetail
	Hot     bool          `json:"hot"`
	Display detailDisplay `json:"display"`
}

func (s *Server) listCoins(c *gin.Context) {
	page, snapshot := s.globalPage(c, pageParam(c))
	c.JSON(http.StatusOK, s.render(c, page, snapshot))
}

func (s *Server) categoryCoins(c *gin.Context) {
	slug := c.Param("slug")
	ctx := c.Request.Context()

	result, err := s.catalog.ListCategoryCoins(ctx, slug, pageParam(c), s.opts.PageSize)
	if err != nil {
		s.catalogFailed("list_category", err, logrus.Fields{"category": slug})
	}
	if err != nil || result == nil || len(result.Coins) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "category not found"})
		return
	}

	resp := categoryResponse{
		listResponse: s.render(c, &result.Page, result.Coins),
		Category: categoryInfo{
			Slug:  slug,
			Name:  s.opts.Site.CategoryName(slug, result.CategoryName),
			Emoji: s.opts.Site.CategoryEmoji(slug),
		},
	}

	statsCoins, err := s.catalog.ListCategoryStatsCoins(ctx, slug)
	if err != nil {
		s.catalogFailed("list_category_stats", err, logrus.Fields{"category": slug})
	} else {
		boards := s.engine.Leaderboards(statsCoins)
		resp.Leaderboards = &boards
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) coinDetail(c *gin.Context) {
	symbol := strings.TrimSpace(c.Param("symbol"))

	detail, err := s.catalog.GetCoinBySymbol(c.Request.Context(), symbol)
	if err != nil {
		s.catalogFailed("get_coin", err, logrus.Fields{"symbol": symbol})
	}
	if err != nil || detail == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "coin not found"})
		return
	}

	c.JSON(http.StatusOK, detailResponse{
		CoinDetail: detail,
		Hot:        search.IsTrending(detail.Coin),
		Display: detailDisplay{
			Price:             utils.FormatPrice(detail.PriceUSD),
			Change24h:         utils.FormatPercent(detail.PercentChange24h),
			MarketCap:         utils.FormatLargeNumber(detail.MarketCapUSD),
			Volume24h:         utils.FormatLargeNumber(detail.Volume24hUSD),
			CirculatingSupply: utils.FormatSupply(detail.CirculatingSupply),
			TotalSupply:       utils.FormatSupply(detail.TotalSupply),
			MaxSupply:         utils.FormatSupply(detail.MaxSupply),
		},
	})
}

// suggestions serves the live dropdown. Like the list it only searches the
// page currently loaded, global or one category.
func (s *Server) suggestions(c *gin.Context) {
	query := queryParam(c)

	var snapshot []models.Coin
	if slug := c.Query("category"); slug != "" {
		result, err := s.catalog.ListCategoryCoins(c.Request.Context(), slug, pageParam(c), s.opts.PageSize)
		if err != nil {
			s.catalogFailed("list_category", err, logrus.Fields{"category": slug})
		} else if result != nil {
			snapshot = result.Coins
		}
	} else {
		_, snapshot = s.globalPage(c, pageParam(c))
	}

	c.JSON(http.StatusOK, gin.H{
		"query":       query,
		"suggestions": search.Suggestions(snapshot, query),
	})
}

func (s *Server) globalLeaderboards(c *gin.Context) {
	var snapshot *stats.Snapshot
	if s.leaderboards != nil {
		snapshot = s.leaderboards.Current()
	}
	if snapshot == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "leaderboards not ready"})
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

// globalPage fetches one page of the global scope. A failure yields an
// empty page.
func (s *Server) globalPage(c *gin.Context, page int) (*models.Page, []models.Coin) {
	result, err := s.catalog.ListCoins(c.Request.Context(), page, s.opts.PageSize)
	if err != nil || result == nil {
		if err != nil {
			s.catalogFailed("list_coins", err, logrus.Fields{"page": page})
		}
		return &models.Page{Page: page, Limit: s.opts.PageSize}, []models.Coin{}
	}
	return result, result.Coins
}

func (s *Server) render(c *gin.Context, page *models.Page, snapshot []models.Coin) listResponse {
	metrics.SnapshotSize.Observe(float64(len(snapshot)))

	view := s.engine.View(snapshot, queryParam(c), sortParam(c), s.favoritesFor(c))

	resp := listResponse{View: view}
	if !view.Searching {
		resp.Pagination = &Pagination{
			Page:       page.Page,
			Limit:      page.Limit,
			TotalCount: page.TotalCount,
			TotalPages: page.TotalPages(),
		}
	}
	return resp
}

// favoritesFor loads the caller's set for badges. When the store is down
// the page renders without favorite badges.
func (s *Server) favoritesFor(c *gin.Context) search.FavoriteChecker {
	if s.favorites == nil {
		return nil
	}
	set, err := s.favorites.Open(c.Request.Context(), c.GetString(clientIDKey))
	if err != nil {
		s.logger.WithError(err).Warn("Failed to load favorites, rendering without them")
		return nil
	}
	return set
}

func (s *Server) catalogFailed(operation string, err error, fields logrus.Fields) {
	metrics.CatalogErrors.WithLabelValues(operation).Inc()
	s.logger.WithError(err).WithFields(fields).WithField("operation", operation).Error("Catalog request failed")
}
