package models

import (
	"math"
	"time"
)

// Coin is one row of a catalog snapshot. Optional numeric fields are nil
// when the store has no value; nil is never the same thing as zero.
type Coin struct {
	ID               int64      `json:"id"`
	Name             string     `json:"name"`
	Symbol           string     `json:"symbol"`
	Slug             string     `json:"slug,omitempty"`
	Rank             *int       `json:"rank"`
	PriceUSD         *float64   `json:"price_usd"`
	PercentChange1h  *float64   `json:"chg_1h"`
	PercentChange24h *float64   `json:"chg_24h"`
	PercentChange7d  *float64   `json:"chg_7d"`
	MarketCapUSD     *float64   `json:"market_cap"`
	Volume24hUSD     *float64   `json:"volume_24h"`
	LogoURL          string     `json:"logo,omitempty"`
	CategorySlug     string     `json:"category_slug,omitempty"`
	LastUpdated      *time.Time `json:"last_updated,omitempty"`
}

type CoinDetail struct {
	Coin
	Description       string              `json:"description,omitempty"`
	URLs              map[string][]string `json:"urls,omitempty"`
	Tags              []string            `json:"tags,omitempty"`
	CirculatingSupply *float64            `json:"circulating_supply"`
	TotalSupply       *float64            `json:"total_supply"`
	MaxSupply         *float64            `json:"max_supply"`
	DateAdded         *time.Time          `json:"date_added,omitempty"`
}

// Page is one paginated slice of a scope plus the scope's total size.
type Page struct {
	Coins      []Coin
	Page       int
	Limit      int
	TotalCount int
}

func (p Page) TotalPages() int {
	if p.Limit <= 0 {
		return 0
	}
	return (p.TotalCount + p.Limit - 1) / p.Limit
}

// Offset is the number of rows before page. It saturates at math.MaxInt
// instead of overflowing, so a far-out page reads as past the end.
func Offset(page, limit int) int {
	if page < 1 || limit <= 0 {
		return 0
	}
	if page-1 > math.MaxInt/limit {
		return math.MaxInt
	}
	return (page - 1) * limit
}

type CategoryPage struct {
	Page
	CategorySlug string
	CategoryName string
}

type SitemapEntry struct {
	Symbol      string
	Slug        string
	LastUpdated *time.Time
}
