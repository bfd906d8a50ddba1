package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/peterpolkadot/crypto-search/services/web/internal/config"
	"github.com/peterpolkadot/crypto-search/services/web/internal/favorites"
	"github.com/peterpolkadot/crypto-search/services/web/internal/health"
	"github.com/peterpolkadot/crypto-search/services/web/internal/search"
	"github.com/peterpolkadot/crypto-search/services/web/internal/stats"
	"github.com/peterpolkadot/crypto-search/services/web/pkg/models"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockCatalog is a mock type for CatalogProvider
type MockCatalog struct {
	mock.Mock
}

func (m *MockCatalog) ListCoins(ctx context.Context, page, limit int) (*models.Page, error) {
	args := m.Called(ctx, page, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Page), args.Error(1)
}

func (m *MockCatalog) ListAllCoins(ctx context.Context) ([]models.Coin, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Coin), args.Error(1)
}

func (m *MockCatalog) ListCategoryCoins(ctx context.Context, slug string, page, limit int) (*models.CategoryPage, error) {
	args := m.Called(ctx, slug, page, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CategoryPage), args.Error(1)
}

func (m *MockCatalog) ListCategoryStatsCoins(ctx context.Context, slug string) ([]models.Coin, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Coin), args.Error(1)
}

func (m *MockCatalog) GetCoinBySymbol(ctx context.Context, symbol string) (*models.CoinDetail, error) {
	args := m.Called(ctx, symbol)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CoinDetail), args.Error(1)
}

func (m *MockCatalog) ListSitemapCoins(ctx context.Context, limit int) ([]models.SitemapEntry, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.SitemapEntry), args.Error(1)
}

type brokenFavorites struct{}

func (brokenFavorites) Open(ctx context.Context, clientID string) (*favorites.Set, error) {
	return nil, errors.New("store down")
}

type staticLeaderboards struct {
	snapshot *stats.Snapshot
}

func (s staticLeaderboards) Current() *stats.Snapshot { return s.snapshot }

type listBody struct {
	Query        string               `json:"query"`
	Searching    bool                 `json:"searching"`
	Sort         search.SortSpec      `json:"sort"`
	Coins        []search.Row         `json:"coins"`
	ResultCount  int                  `json:"result_count"`
	Suggestions  []models.Coin        `json:"suggestions"`
	Pagination   *Pagination          `json:"pagination"`
	Category     *categoryInfo        `json:"category"`
	Leaderboards *search.Leaderboards `json:"leaderboards"`
}

func f(v float64) *float64 { return &v }

func r(v int) *int { return &v }

func testCoins() []models.Coin {
	return []models.Coin{
		{ID: 1, Name: "Bitcoin", Symbol: "BTC", Rank: r(1), PriceUSD: f(65000), PercentChange24h: f(2.5), MarketCapUSD: f(900e9), Volume24hUSD: f(20e9)},
		{ID: 1027, Name: "Ethereum", Symbol: "ETH", Rank: r(2), PriceUSD: f(3200), PercentChange24h: f(-1.2), MarketCapUSD: f(400e9), Volume24hUSD: f(150e9)},
		{ID: 22974, Name: "Bittensor", Symbol: "TAO", Rank: r(30), PriceUSD: f(420), PercentChange24h: f(8.1), MarketCapUSD: f(3e9), Volume24hUSD: f(200e6)},
	}
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newTestServer(t *testing.T, catalog CatalogProvider, favs FavoritesOpener, boards LeaderboardSource) http.Handler {
	logger := testLogger()
	engine := search.NewEngine(search.DefaultLeaderboardOptions(), logger)
	opts := Options{
		PageSize:     100,
		SitemapLimit: 5000,
		Site: config.Site{
			BaseURL:    "https://example.test/",
			Categories: map[string]config.Category{"layer-1": {Name: "Layer 1"}},
		},
	}
	return NewServer(catalog, favs, boards, engine, health.NewHealthChecker(logger), opts, logger).Router()
}

func newFavorites(t *testing.T) *favorites.Service {
	store, err := favorites.NewSQLiteStore(filepath.Join(t.TempDir(), "favorites.db"), testLogger())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return favorites.NewService(store, testLogger())
}

func doRequest(handler http.Handler, method, path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeList(t *testing.T, rec *httptest.ResponseRecorder) listBody {
	var body listBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func rowSymbols(rows []search.Row) []string {
	out := make([]string, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.Symbol)
	}
	return out
}

func TestListCoins(t *testing.T) {
	catalog := new(MockCatalog)
	catalog.On("ListCoins", mock.Anything, 1, 100).Return(&models.Page{Coins: testCoins(), Page: 1, Limit: 100, TotalCount: 250}, nil)
	handler := newTestServer(t, catalog, newFavorites(t), nil)

	rec := doRequest(handler, http.MethodGet, "/api/coins")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeList(t, rec)
	assert.Equal(t, []string{"BTC", "ETH", "TAO"}, rowSymbols(body.Coins))
	assert.Equal(t, 3, body.ResultCount)
	assert.False(t, body.Searching)
	assert.True(t, body.Coins[1].Hot)
	assert.False(t, body.Coins[0].Hot)
	require.NotNil(t, body.Pagination)
	assert.Equal(t, 3, body.Pagination.TotalPages)
	catalog.AssertExpectations(t)
}

func TestListCoins_SearchHidesPagination(t *testing.T) {
	catalog := new(MockCatalog)
	catalog.On("ListCoins", mock.Anything, 2, 100).Return(&models.Page{Coins: testCoins(), Page: 2, Limit: 100, TotalCount: 250}, nil)
	handler := newTestServer(t, catalog, newFavorites(t), nil)

	body := decodeList(t, doRequest(handler, http.MethodGet, "/api/coins?page=2&q=bit&sort=price_usd&dir=asc"))

	assert.True(t, body.Searching)
	assert.Nil(t, body.Pagination)
	assert.Equal(t, []string{"TAO", "BTC"}, rowSymbols(body.Coins))
	assert.Len(t, body.Suggestions, 2)
}

func TestListCoins_SortToggle(t *testing.T) {
	catalog := new(MockCatalog)
	catalog.On("ListCoins", mock.Anything, 1, 100).Return(&models.Page{Coins: testCoins(), Page: 1, Limit: 100}, nil)
	handler := newTestServer(t, catalog, newFavorites(t), nil)

	body := decodeList(t, doRequest(handler, http.MethodGet, "/api/coins?sort=chg_24h&dir=asc&toggle=chg_24h"))
	assert.Equal(t, search.SortSpec{Key: search.SortByChange24h, Direction: search.Descending}, body.Sort)
	assert.Equal(t, []string{"TAO", "BTC", "ETH"}, rowSymbols(body.Coins))

	body = decodeList(t, doRequest(handler, http.MethodGet, "/api/coins?sort=chg_24h&dir=desc&toggle=market_cap"))
	assert.Equal(t, search.SortSpec{Key: search.SortByMarketCap, Direction: search.Ascending}, body.Sort)
}

func TestListCoins_ProviderFailureRendersEmpty(t *testing.T) {
	catalog := new(MockCatalog)
	catalog.On("ListCoins", mock.Anything, 1, 100).Return(nil, errors.New("timeout"))
	handler := newTestServer(t, catalog, newFavorites(t), nil)

	rec := doRequest(handler, http.MethodGet, "/api/coins?page=-3")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeList(t, rec)
	assert.Empty(t, body.Coins)
	assert.Equal(t, 0, body.ResultCount)
}

func TestListCoins_FavoritesStoreDown(t *testing.T) {
	catalog := new(MockCatalog)
	catalog.On("ListCoins", mock.Anything, 1, 100).Return(&models.Page{Coins: testCoins(), Page: 1, Limit: 100}, nil)
	handler := newTestServer(t, catalog, brokenFavorites{}, nil)

	rec := doRequest(handler, http.MethodGet, "/api/coins")
	require.Equal(t, http.StatusOK, rec.Code)
	for _, row := range decodeList(t, rec).Coins {
		assert.False(t, row.Favorite)
	}

	rec = doRequest(handler, http.MethodPost, "/api/favorites/1/toggle")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestFavorites_ToggleFlow(t *testing.T) {
	catalog := new(MockCatalog)
	catalog.On("ListCoins", mock.Anything, 1, 100).Return(&models.Page{Coins: testCoins(), Page: 1, Limit: 100}, nil)
	handler := newTestServer(t, catalog, newFavorites(t), nil)

	first := doRequest(handler, http.MethodGet, "/api/favorites")
	require.Equal(t, http.StatusOK, first.Code)
	cookies := first.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, clientCookie, cookies[0].Name)

	rec := doRequest(handler, http.MethodPost, "/api/favorites/1027/toggle", cookies[0])
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":1027,"favorite":true,"ids":[1027]}`, rec.Body.String())
	assert.Empty(t, rec.Result().Cookies())

	body := decodeList(t, doRequest(handler, http.MethodGet, "/api/coins", cookies[0]))
	assert.True(t, body.Coins[1].Favorite)
	assert.False(t, body.Coins[0].Favorite)

	rec = doRequest(handler, http.MethodPost, "/api/favorites/1027/toggle", cookies[0])
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":1027,"favorite":false,"ids":[]}`, rec.Body.String())

	other := doRequest(handler, http.MethodGet, "/api/favorites")
	assert.JSONEq(t, `{"ids":[]}`, other.Body.String())
}

func TestToggleFavorite_InvalidID(t *testing.T) {
	handler := newTestServer(t, new(MockCatalog), newFavorites(t), nil)

	rec := doRequest(handler, http.MethodPost, "/api/favorites/abc/toggle")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCategoryCoins(t *testing.T) {
	catalog := new(MockCatalog)
	catalog.On("ListCategoryCoins", mock.Anything, "layer-1", 1, 100).Return(&models.CategoryPage{
		Page:         models.Page{Coins: testCoins(), Page: 1, Limit: 100, TotalCount: 3},
		CategorySlug: "layer-1",
		CategoryName: "Layer-1 Blockchains",
	}, nil)
	catalog.On("ListCategoryStatsCoins", mock.Anything, "layer-1").Return(testCoins(), nil)
	handler := newTestServer(t, catalog, newFavorites(t), nil)

	rec := doRequest(handler, http.MethodGet, "/api/categories/layer-1")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeList(t, rec)
	require.NotNil(t, body.Category)
	assert.Equal(t, "Layer 1", body.Category.Name)
	assert.Equal(t, "🔷", body.Category.Emoji)
	require.NotNil(t, body.Leaderboards)
	assert.Len(t, body.Leaderboards.TopGainers, 2)
	assert.Equal(t, "ETH", body.Leaderboards.TopLosers[0].Symbol)
	assert.Equal(t, 1, body.Pagination.TotalPages)
}

func TestCategoryCoins_NotFound(t *testing.T) {
	catalog := new(MockCatalog)
	catalog.On("ListCategoryCoins", mock.Anything, "nope", 1, 100).Return(&models.CategoryPage{
		Page: models.Page{Coins: []models.Coin{}, Page: 1, Limit: 100},
	}, nil)
	catalog.On("ListCategoryCoins", mock.Anything, "broken", 1, 100).Return(nil, errors.New("db down"))
	handler := newTestServer(t, catalog, newFavorites(t), nil)

	assert.Equal(t, http.StatusNotFound, doRequest(handler, http.MethodGet, "/api/categories/nope").Code)
	assert.Equal(t, http.StatusNotFound, doRequest(handler, http.MethodGet, "/api/categories/broken").Code)
	catalog.AssertNotCalled(t, "ListCategoryStatsCoins", mock.Anything, mock.Anything)
}

func TestCategoryCoins_StatsFailureKeepsPage(t *testing.T) {
	catalog := new(MockCatalog)
	catalog.On("ListCategoryCoins", mock.Anything, "defi", 1, 100).Return(&models.CategoryPage{
		Page:         models.Page{Coins: testCoins(), Page: 1, Limit: 100, TotalCount: 3},
		CategoryName: "DeFi",
	}, nil)
	catalog.On("ListCategoryStatsCoins", mock.Anything, "defi").Return(nil, errors.New("timeout"))
	handler := newTestServer(t, catalog, newFavorites(t), nil)

	rec := doRequest(handler, http.MethodGet, "/api/categories/defi")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeList(t, rec)
	assert.Nil(t, body.Leaderboards)
	assert.Equal(t, "DeFi", body.Category.Name)
	assert.Equal(t, "💎", body.Category.Emoji)
	assert.Len(t, body.Coins, 3)
}

func TestCoinDetail(t *testing.T) {
	coin := testCoins()[1]
	catalog := new(MockCatalog)
	catalog.On("GetCoinBySymbol", mock.Anything, "eth").Return(&models.CoinDetail{
		Coin:              coin,
		Description:       "Smart contracts",
		CirculatingSupply: f(120e6),
	}, nil)
	catalog.On("GetCoinBySymbol", mock.Anything, "NOPE").Return(nil, nil)
	catalog.On("GetCoinBySymbol", mock.Anything, "ERR").Return(nil, errors.New("db down"))
	handler := newTestServer(t, catalog, newFavorites(t), nil)

	rec := doRequest(handler, http.MethodGet, "/api/coins/eth")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Symbol      string `json:"symbol"`
		Description string `json:"description"`
		Hot         bool   `json:"hot"`
		Display     struct {
			Price             string `json:"price"`
			MarketCap         string `json:"market_cap"`
			CirculatingSupply string `json:"circulating_supply"`
			MaxSupply         string `json:"max_supply"`
		} `json:"display"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ETH", body.Symbol)
	assert.Equal(t, "Smart contracts", body.Description)
	assert.True(t, body.Hot)
	assert.Equal(t, "$3,200.00", body.Display.Price)
	assert.Equal(t, "$400.00B", body.Display.MarketCap)
	assert.Equal(t, "120.00M", body.Display.CirculatingSupply)
	assert.Equal(t, "N/A", body.Display.MaxSupply)

	assert.Equal(t, http.StatusNotFound, doRequest(handler, http.MethodGet, "/api/coins/NOPE").Code)
	assert.Equal(t, http.StatusNotFound, doRequest(handler, http.MethodGet, "/api/coins/ERR").Code)
}

func TestSuggestions(t *testing.T) {
	catalog := new(MockCatalog)
	catalog.On("ListCoins", mock.Anything, 1, 100).Return(&models.Page{Coins: testCoins(), Page: 1, Limit: 100}, nil)
	handler := newTestServer(t, catalog, newFavorites(t), nil)

	var body struct {
		Suggestions []models.Coin `json:"suggestions"`
	}

	rec := doRequest(handler, http.MethodGet, "/api/suggestions?q=b")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Empty(t, body.Suggestions)

	rec = doRequest(handler, http.MethodGet, "/api/suggestions?q=BIT")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body.Suggestions, 2)
}

func TestGlobalLeaderboards(t *testing.T) {
	handler := newTestServer(t, new(MockCatalog), newFavorites(t), staticLeaderboards{})
	assert.Equal(t, http.StatusServiceUnavailable, doRequest(handler, http.MethodGet, "/api/leaderboards").Code)

	snapshot := &stats.Snapshot{
		Leaderboards: search.BuildLeaderboards(testCoins(), search.DefaultLeaderboardOptions()),
		CoinsCount:   3,
		UpdatedAt:    time.Now(),
	}
	handler = newTestServer(t, new(MockCatalog), newFavorites(t), staticLeaderboards{snapshot: snapshot})

	rec := doRequest(handler, http.MethodGet, "/api/leaderboards")
	require.Equal(t, http.StatusOK, rec.Code)

	var got stats.Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, 3, got.CoinsCount)
	assert.Equal(t, "TAO", got.Leaderboards.TopGainers[0].Symbol)
}

func TestSitemapAndRobots(t *testing.T) {
	updated := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	catalog := new(MockCatalog)
	catalog.On("ListSitemapCoins", mock.Anything, 5000).Return([]models.SitemapEntry{
		{Symbol: "BTC", LastUpdated: &updated},
		{Symbol: "ETH"},
	}, nil)
	handler := newTestServer(t, catalog, newFavorites(t), nil)

	rec := doRequest(handler, http.MethodGet, "/sitemap.xml")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/xml")
	assert.Contains(t, rec.Body.String(), "<loc>https://example.test/</loc>")
	assert.Contains(t, rec.Body.String(), "<loc>https://example.test/coins/BTC</loc>")
	assert.Contains(t, rec.Body.String(), "<lastmod>2025-03-01T12:00:00Z</lastmod>")
	assert.Contains(t, rec.Body.String(), "<loc>https://example.test/coins/ETH</loc>")

	rec = doRequest(handler, http.MethodGet, "/robots.txt")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "User-agent: *\nAllow: /\nSitemap: https://example.test/sitemap.xml\n", rec.Body.String())
}

func TestHealthAndMetricsRoutes(t *testing.T) {
	handler := newTestServer(t, new(MockCatalog), newFavorites(t), nil)

	assert.Equal(t, http.StatusOK, doRequest(handler, http.MethodGet, "/health").Code)
	assert.Equal(t, http.StatusOK, doRequest(handler, http.MethodGet, "/ready").Code)
	assert.Equal(t, http.StatusOK, doRequest(handler, http.MethodGet, "/metrics").Code)
}
