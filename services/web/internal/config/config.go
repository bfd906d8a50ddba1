package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/peterpolkadot/crypto-search/services/web/internal/favorites"
	"github.com/peterpolkadot/crypto-search/services/web/internal/search"
	"github.com/peterpolkadot/crypto-search/services/web/internal/sheet"
	"github.com/peterpolkadot/crypto-search/shared/pkg/database"
	"gopkg.in/yaml.v3"
)

const (
	CatalogPostgres = "postgres"
	CatalogSheet    = "sheet"

	FavoritesRedis  = "redis"
	FavoritesSQLite = "sqlite"
)

type Config struct {
	Database         database.Config
	CatalogBackend   string
	Sheet            sheet.Config
	FavoritesBackend string
	Redis            favorites.RedisConfig
	SQLitePath       string
	HTTPPort         string
	PageSize         int
	StatsCron        string
	SitemapLimit     int
	Site             Site
}

// Site is the optional YAML site file.
type Site struct {
	Name         string                    `yaml:"name"`
	BaseURL      string                    `yaml:"base_url"`
	Categories   map[string]Category       `yaml:"categories"`
	Leaderboards search.LeaderboardOptions `yaml:"leaderboards"`
}

type Category struct {
	Name  string `yaml:"name"`
	Emoji string `yaml:"emoji"`
}

const DefaultCategoryEmoji = "📂"

var defaultCategoryEmojis = map[string]string{
	"defi":                "💎",
	"memes":               "🐕",
	"layer-1":             "🔷",
	"stablecoin":          "💵",
	"nfts-collectibles":   "🎨",
	"ethereum-ecosystem":  "⟠",
	"solana-ecosystem":    "◎",
	"bnb-chain-ecosystem": "🟡",
	"avalanche-ecosystem": "🔺",
	"arbitrum-ecosystem":  "🔵",
	"ai-agents":           "🤖",
	"depin":               "📡",
	"liquid-staking":      "💧",
	"metaverse":           "🌐",
	"gaming":              "🎮",
	"a16z-portfolio":      "🏢",
	"coinbase-ventures":   "🏢",
	"dex":                 "🔄",
	"ai-big-data":         "🧠",
	"cex":                 "🏦",
}

// Load reads the site file named by SITE_CONFIG (a missing file is fine),
// then the environment, which wins.
func Load() (*Config, error) {
	site, err := loadSite(getEnv("SITE_CONFIG", "config/site.yml"))
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("SITE_BASE_URL"); v != "" {
		site.BaseURL = v
	}
	if site.BaseURL == "" {
		site.BaseURL = "http://localhost:8080"
	}
	if site.Name == "" {
		site.Name = "Crypto Search"
	}
	if site.Leaderboards.Size <= 0 {
		site.Leaderboards.Size = search.LeaderboardSize
	}
	site.Leaderboards.GainerMinMarketCap = getEnvFloat("GAINER_MIN_MARKET_CAP", site.Leaderboards.GainerMinMarketCap)
	site.Leaderboards.LoserMinMarketCap = getEnvFloat("LOSER_MIN_MARKET_CAP", site.Leaderboards.LoserMinMarketCap)

	cfg := &Config{
		Database: database.Config{
			DbUri: getEnv("DB_URI", "localhost"),
		},
		CatalogBackend: getEnv("CATALOG_BACKEND", CatalogPostgres),
		Sheet: sheet.Config{
			ListURL:           getEnv("SHEET_LIST_URL", ""),
			DetailURL:         getEnv("SHEET_DETAIL_URL", ""),
			RequestsPerSecond: getEnvFloat("SHEET_RATE_LIMIT", 2),
			CacheTTL:          getEnvDuration("SHEET_CACHE_TTL", time.Minute),
		},
		FavoritesBackend: getEnv("FAVORITES_BACKEND", FavoritesSQLite),
		Redis: favorites.RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			DB:       getEnvInt("REDIS_DB", 0),
			Password: getEnv("REDIS_PASSWORD", ""),
			TTL:      getEnvDuration("FAVORITES_TTL", 0),
		},
		SQLitePath:   getEnv("SQLITE_PATH", "favorites.db"),
		HTTPPort:     getEnv("HTTP_PORT", "8080"),
		PageSize:     getEnvInt("PAGE_SIZE", 100),
		StatsCron:    getEnv("STATS_CRON", "0 */5 * * * *"),
		SitemapLimit: getEnvInt("SITEMAP_LIMIT", 5000),
		Site:         site,
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.CatalogBackend {
	case CatalogPostgres:
	case CatalogSheet:
		if c.Sheet.ListURL == "" || c.Sheet.DetailURL == "" {
			return fmt.Errorf("sheet backend requires SHEET_LIST_URL and SHEET_DETAIL_URL")
		}
	default:
		return fmt.Errorf("unknown CATALOG_BACKEND %q", c.CatalogBackend)
	}

	switch c.FavoritesBackend {
	case FavoritesRedis, FavoritesSQLite:
	default:
		return fmt.Errorf("unknown FAVORITES_BACKEND %q", c.FavoritesBackend)
	}

	if c.PageSize <= 0 {
		return fmt.Errorf("PAGE_SIZE must be positive, got %d", c.PageSize)
	}
	return nil
}

// CategoryEmoji returns the display emoji for a category slug.
func (s Site) CategoryEmoji(slug string) string {
	if c, ok := s.Categories[slug]; ok && c.Emoji != "" {
		return c.Emoji
	}
	if emoji, ok := defaultCategoryEmojis[slug]; ok {
		return emoji
	}
	return DefaultCategoryEmoji
}

// CategoryName returns the configured display name, or fallback.
func (s Site) CategoryName(slug, fallback string) string {
	if c, ok := s.Categories[slug]; ok && c.Name != "" {
		return c.Name
	}
	return fallback
}

func loadSite(path string) (Site, error) {
	var site Site

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return site, fmt.Errorf("failed to read site config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, &site); err != nil {
			return site, fmt.Errorf("failed to parse site config: %w", err)
		}
	}
	return site, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
