package search

import (
	"github.com/peterpolkadot/crypto-search/services/web/pkg/models"
)

func f(v float64) *float64 { return &v }

func r(v int) *int { return &v }

func symbols(coins []models.Coin) []string {
	out := make([]string, 0, len(coins))
	for _, c := range coins {
		out = append(out, c.Symbol)
	}
	return out
}

func sampleSnapshot() []models.Coin {
	return []models.Coin{
		{ID: 1, Name: "Bitcoin", Symbol: "BTC", Rank: r(1), PriceUSD: f(65000), PercentChange24h: f(2.5), MarketCapUSD: f(900e9), Volume24hUSD: f(20e9)},
		{ID: 1027, Name: "Ethereum", Symbol: "ETH", Rank: r(2), PriceUSD: f(3200), PercentChange24h: f(-1.2), MarketCapUSD: f(400e9), Volume24hUSD: f(150e9)},
		{ID: 22974, Name: "Bittensor", Symbol: "TAO", Rank: r(30), PriceUSD: f(420), PercentChange24h: f(8.1), MarketCapUSD: f(3e9), Volume24hUSD: f(200e6)},
		{ID: 74, Name: "Dogecoin", Symbol: "DOGE", Rank: r(8), PriceUSD: f(0.12), PercentChange24h: f(-4.4), MarketCapUSD: f(17e9), Volume24hUSD: f(900e6)},
		{ID: 9999, Name: "", Symbol: "NONAME"},
	}
}
