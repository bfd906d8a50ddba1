package models

import (
	"time"

	"github.com/peterpolkadot/crypto-search/shared/pkg/utils"
)

// RawCoin is a coin row as the store hands it over: numbers may arrive as
// JSON numbers, numeric strings, scanned nullable decimals or nothing at all.
type RawCoin struct {
	ID               interface{} `json:"id"`
	Name             string      `json:"name"`
	Symbol           string      `json:"symbol"`
	Slug             string      `json:"slug"`
	Rank             interface{} `json:"cmc_rank"`
	Price            interface{} `json:"price_usd"`
	PercentChange1h  interface{} `json:"percent_change_1h"`
	PercentChange24h interface{} `json:"percent_change_24h"`
	PercentChange7d  interface{} `json:"percent_change_7d"`
	MarketCap        interface{} `json:"market_cap"`
	Volume24h        interface{} `json:"volume_24h"`
	Logo             string      `json:"logo"`
	CategorySlug     string      `json:"category_slug"`
	LastUpdated      interface{} `json:"last_updated"`
}

// Normalize is the single string-to-number coercion step between a store
// and the search engine. Absent values stay nil; present values that do not
// parse become 0.
func (r RawCoin) Normalize() Coin {
	id, _ := utils.CoerceFloat(r.ID)

	return Coin{
		ID:               int64(id),
		Name:             r.Name,
		Symbol:           r.Symbol,
		Slug:             r.Slug,
		Rank:             rank(r.Rank),
		PriceUSD:         amount(r.Price),
		PercentChange1h:  amount(r.PercentChange1h),
		PercentChange24h: amount(r.PercentChange24h),
		PercentChange7d:  amount(r.PercentChange7d),
		MarketCapUSD:     amount(r.MarketCap),
		Volume24hUSD:     amount(r.Volume24h),
		LogoURL:          r.Logo,
		CategorySlug:     r.CategorySlug,
		LastUpdated:      Timestamp(r.LastUpdated),
	}
}

// NormalizeAll normalizes a batch, preserving order.
func NormalizeAll(raw []RawCoin) []Coin {
	coins := make([]Coin, 0, len(raw))
	for _, r := range raw {
		coins = append(coins, r.Normalize())
	}
	return coins
}

// Amount exposes the coercion rule for detail-only fields such as supplies.
func Amount(value interface{}) *float64 {
	return amount(value)
}

func amount(value interface{}) *float64 {
	f, ok := utils.CoerceFloat(value)
	if !ok {
		return nil
	}
	return &f
}

func rank(value interface{}) *int {
	f, ok := utils.CoerceFloat(value)
	if !ok {
		return nil
	}
	r := int(f)
	return &r
}

// Timestamp accepts a scanned time or an RFC 3339 string. Anything else is
// treated as absent.
func Timestamp(value interface{}) *time.Time {
	switch v := value.(type) {
	case time.Time:
		if v.IsZero() {
			return nil
		}
		return &v
	case *time.Time:
		return v
	case string:
		for _, layout := range []string{time.RFC3339Nano, "2006-01-02 15:04:05", "2006-01-02"} {
			if t, err := time.Parse(layout, v); err == nil {
				return &t
			}
		}
	}
	return nil
}
