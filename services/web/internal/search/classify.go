package search

import (
	"github.com/peterpolkadot/crypto-search/services/web/pkg/models"
)

const (
	// TrendingVolumeRatio is the 24h volume to market cap ratio above which a
	// coin is flagged hot.
	TrendingVolumeRatio = 0.30

	LeaderboardSize = 5
)

// IsTrending reports whether a coin gets the hot badge. Missing volume or
// market cap, or a zero market cap, never flags.
func IsTrending(coin models.Coin) bool {
	if coin.Volume24hUSD == nil || coin.MarketCapUSD == nil || *coin.MarketCapUSD == 0 {
		return false
	}
	return *coin.Volume24hUSD / *coin.MarketCapUSD > TrendingVolumeRatio
}

// LeaderboardOptions tunes leaderboard selection. A market cap floor of zero
// disables the floor.
type LeaderboardOptions struct {
	Size               int     `yaml:"size"`
	GainerMinMarketCap float64 `yaml:"gainer_min_market_cap"`
	LoserMinMarketCap  float64 `yaml:"loser_min_market_cap"`
}

func DefaultLeaderboardOptions() LeaderboardOptions {
	return LeaderboardOptions{Size: LeaderboardSize}
}

type Leaderboards struct {
	TopGainers   []models.Coin `json:"top_gainers"`
	TopLosers    []models.Coin `json:"top_losers"`
	TopVolume    []models.Coin `json:"top_volume"`
	TopMarketCap []models.Coin `json:"top_market_cap"`
}

// BuildLeaderboards computes the four boards independently over the full,
// unpaginated coin set of a scope. A coin may appear on several boards.
func BuildLeaderboards(coins []models.Coin, opts LeaderboardOptions) Leaderboards {
	size := opts.Size
	if size <= 0 {
		size = LeaderboardSize
	}

	return Leaderboards{
		TopGainers: top(coins, func(c models.Coin) bool {
			return c.PercentChange24h != nil && *c.PercentChange24h > 0 && aboveFloor(c, opts.GainerMinMarketCap)
		}, SortSpec{Key: SortByChange24h, Direction: Descending}, size),
		TopLosers: top(coins, func(c models.Coin) bool {
			return c.PercentChange24h != nil && *c.PercentChange24h < 0 && aboveFloor(c, opts.LoserMinMarketCap)
		}, SortSpec{Key: SortByChange24h, Direction: Ascending}, size),
		TopVolume: top(coins, func(c models.Coin) bool {
			return c.Volume24hUSD != nil && *c.Volume24hUSD > 0
		}, SortSpec{Key: SortByVolume, Direction: Descending}, size),
		TopMarketCap: top(coins, func(c models.Coin) bool {
			return c.MarketCapUSD != nil && *c.MarketCapUSD > 0
		}, SortSpec{Key: SortByMarketCap, Direction: Descending}, size),
	}
}

func top(coins []models.Coin, keep func(models.Coin) bool, spec SortSpec, n int) []models.Coin {
	eligible := make([]models.Coin, 0, len(coins))
	for _, coin := range coins {
		if keep(coin) {
			eligible = append(eligible, coin)
		}
	}

	ranked := Sort(eligible, spec)
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

func aboveFloor(coin models.Coin, floor float64) bool {
	if floor <= 0 {
		return true
	}
	return coin.MarketCapUSD != nil && *coin.MarketCapUSD > floor
}
