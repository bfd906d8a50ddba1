package sheet

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/peterpolkadot/crypto-search/services/web/internal/search"
	"github.com/peterpolkadot/crypto-search/services/web/pkg/models"
	"github.com/sirupsen/logrus"
)

type Config struct {
	ListURL           string
	DetailURL         string
	RequestsPerSecond float64
	// CacheTTL bounds how long a fetched listing is reused.
	CacheTTL time.Duration
}

// Client serves the catalog from the spreadsheet web apps the site
// used before the Postgres catalog. The sheet has no categories, so category scopes are
// always empty.
type Client struct {
	client      *resty.Client
	listURL     string
	detailURL   string
	cacheTTL    time.Duration
	rateLimiter *RateLimiter
	logger      *logrus.Logger

	mu        sync.Mutex
	cached    []models.Coin
	fetchedAt time.Time
}

func NewClient(config Config, logger *logrus.Logger) *Client {
	client := resty.New()
	client.SetTimeout(30 * time.Second)
	client.SetRetryCount(3)
	client.SetRetryWaitTime(1 * time.Second)
	client.SetHeader("Accept", "application/json")

	return &Client{
		client:      client,
		listURL:     config.ListURL,
		detailURL:   config.DetailURL,
		cacheTTL:    config.CacheTTL,
		rateLimiter: NewRateLimiter(config.RequestsPerSecond),
		logger:      logger,
	}
}

func (c *Client) ListAllCoins(ctx context.Context) ([]models.Coin, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cached != nil && time.Since(c.fetchedAt) < c.cacheTTL {
		return c.cached, nil
	}

	var rows []models.RawCoin
	if err := c.get(ctx, c.listURL, nil, &rows); err != nil {
		return nil, fmt.Errorf("failed to fetch listings: %w", err)
	}

	coins := models.NormalizeAll(rows)
	c.cached = search.Sort(coins, search.DefaultSortSpec())
	c.fetchedAt = time.Now()

	c.logger.WithField("coins_count", len(coins)).Info("Successfully fetched listings")
	return c.cached, nil
}

func (c *Client) ListCoins(ctx context.Context, page, limit int) (*models.Page, error) {
	coins, err := c.ListAllCoins(ctx)
	if err != nil {
		return nil, err
	}

	if page < 1 {
		page = 1
	}
	start := models.Offset(page, limit)
	if start > len(coins) {
		start = len(coins)
	}
	end := start
	if limit > 0 {
		end = start + min(limit, len(coins)-start)
	}

	return &models.Page{
		Coins:      coins[start:end],
		Page:       page,
		Limit:      limit,
		TotalCount: len(coins),
	}, nil
}

func (c *Client) ListCategoryCoins(ctx context.Context, slug string, page, limit int) (*models.CategoryPage, error) {
	if page < 1 {
		page = 1
	}
	return &models.CategoryPage{
		Page:         models.Page{Coins: []models.Coin{}, Page: page, Limit: limit},
		CategorySlug: slug,
		CategoryName: slug,
	}, nil
}

func (c *Client) ListCategoryStatsCoins(ctx context.Context, slug string) ([]models.Coin, error) {
	return []models.Coin{}, nil
}

// GetCoinBySymbol asks the detail endpoint, which may return several rows
// for a shared symbol; the usual rank-then-id rule picks one.
func (c *Client) GetCoinBySymbol(ctx context.Context, symbol string) (*models.CoinDetail, error) {
	var rows []detailRow
	if err := c.get(ctx, c.detailURL, map[string]string{"symbol": symbol}, &rows); err != nil {
		return nil, fmt.Errorf("failed to fetch coin detail: %w", err)
	}

	coins := make([]models.Coin, 0, len(rows))
	for _, row := range rows {
		coins = append(coins, row.Normalize())
	}

	best, ok := search.ResolveSymbol(coins, symbol)
	if !ok {
		return nil, nil
	}
	for i, coin := range coins {
		if coin.ID == best.ID && coin.Symbol == best.Symbol {
			return rows[i].detail(), nil
		}
	}
	return nil, nil
}

func (c *Client) ListSitemapCoins(ctx context.Context, limit int) ([]models.SitemapEntry, error) {
	coins, err := c.ListAllCoins(ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]models.SitemapEntry, 0)
	for _, coin := range coins {
		if coin.Rank == nil || (limit > 0 && len(entries) == limit) {
			break
		}
		entries = append(entries, models.SitemapEntry{
			Symbol:      coin.Symbol,
			Slug:        coin.Slug,
			LastUpdated: coin.LastUpdated,
		})
	}
	return entries, nil
}

func (c *Client) HealthCheck(ctx context.Context) error {
	_, err := c.ListAllCoins(ctx)
	return err
}

func (c *Client) get(ctx context.Context, url string, params map[string]string, out interface{}) error {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit exceeded: %w", err)
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(params).
		Get(url)
	if err != nil {
		c.logger.WithError(err).WithField("url", url).Error("Failed to call sheet endpoint")
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("sheet endpoint returned status %d", resp.StatusCode())
	}

	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return nil
}
