package search

import (
	"sort"

	"github.com/peterpolkadot/crypto-search/services/web/pkg/models"
)

type SortKey string

const (
	SortByRank      SortKey = "rank"
	SortByName      SortKey = "name"
	SortByPrice     SortKey = "price_usd"
	SortByChange24h SortKey = "chg_24h"
	SortByMarketCap SortKey = "market_cap"
	SortByVolume    SortKey = "volume_24h"
)

type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

type SortSpec struct {
	Key       SortKey   `json:"key"`
	Direction Direction `json:"direction"`
}

func DefaultSortSpec() SortSpec {
	return SortSpec{Key: SortByRank, Direction: Ascending}
}

func ParseSortKey(s string) (SortKey, bool) {
	switch key := SortKey(s); key {
	case SortByRank, SortByName, SortByPrice, SortByChange24h, SortByMarketCap, SortByVolume:
		return key, true
	}
	return "", false
}

// ParseSortSpec builds a spec from query parameters. An unknown key falls
// back to the default spec; an unknown direction falls back to ascending.
func ParseSortSpec(key, direction string) SortSpec {
	k, ok := ParseSortKey(key)
	if !ok {
		return DefaultSortSpec()
	}
	if Direction(direction) == Descending {
		return SortSpec{Key: k, Direction: Descending}
	}
	return SortSpec{Key: k, Direction: Ascending}
}

// Request applies a user sort click: the same key flips direction, a new key
// starts ascending.
func (s SortSpec) Request(key SortKey) SortSpec {
	if s.Key == key {
		if s.Direction == Ascending {
			return SortSpec{Key: key, Direction: Descending}
		}
		return SortSpec{Key: key, Direction: Ascending}
	}
	return SortSpec{Key: key, Direction: Ascending}
}

// Sort returns a new, stably ordered slice; the input is left untouched.
// Coins missing the sort field always come last, whatever the direction.
func Sort(coins []models.Coin, spec SortSpec) []models.Coin {
	sorted := make([]models.Coin, len(coins))
	copy(sorted, coins)

	desc := spec.Direction == Descending
	sort.SliceStable(sorted, func(i, j int) bool {
		return less(sorted[i], sorted[j], spec.Key, desc)
	})
	return sorted
}

func less(a, b models.Coin, key SortKey, desc bool) bool {
	if key == SortByName {
		if a.Name == "" || b.Name == "" {
			return a.Name != "" && b.Name == ""
		}
		if desc {
			return a.Name > b.Name
		}
		return a.Name < b.Name
	}

	av, aok := numericField(a, key)
	bv, bok := numericField(b, key)
	if !aok || !bok {
		return aok && !bok
	}
	if desc {
		return av > bv
	}
	return av < bv
}

func numericField(coin models.Coin, key SortKey) (float64, bool) {
	var v *float64
	switch key {
	case SortByRank:
		if coin.Rank == nil {
			return 0, false
		}
		return float64(*coin.Rank), true
	case SortByPrice:
		v = coin.PriceUSD
	case SortByChange24h:
		v = coin.PercentChange24h
	case SortByMarketCap:
		v = coin.MarketCapUSD
	case SortByVolume:
		v = coin.Volume24hUSD
	}
	if v == nil {
		return 0, false
	}
	return *v, true
}
