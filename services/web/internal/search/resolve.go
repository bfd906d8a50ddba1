package search

import (
	"strings"

	"github.com/peterpolkadot/crypto-search/services/web/pkg/models"
)

// ResolveSymbol picks the coin a case-insensitive symbol lookup refers to.
// When several coins share the symbol the lowest rank wins (unranked last),
// then the lowest id.
func ResolveSymbol(coins []models.Coin, symbol string) (models.Coin, bool) {
	want := strings.TrimSpace(symbol)
	if want == "" {
		return models.Coin{}, false
	}

	var best *models.Coin
	for i := range coins {
		coin := &coins[i]
		if !strings.EqualFold(coin.Symbol, want) {
			continue
		}
		if best == nil || preferred(*coin, *best) {
			best = coin
		}
	}

	if best == nil {
		return models.Coin{}, false
	}
	return *best, true
}

func preferred(a, b models.Coin) bool {
	switch {
	case a.Rank != nil && b.Rank == nil:
		return true
	case a.Rank == nil && b.Rank != nil:
		return false
	case a.Rank != nil && *a.Rank != *b.Rank:
		return *a.Rank < *b.Rank
	}
	return a.ID < b.ID
}
