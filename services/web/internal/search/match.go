package search

import (
	"strings"
	"unicode/utf8"

	"github.com/peterpolkadot/crypto-search/services/web/pkg/models"
)

const (
	SuggestionMinQueryLength = 2
	MaxSuggestions           = 5
)

// Match returns the coins whose name or symbol contains the query,
// case-insensitively. A blank query returns the snapshot unfiltered.
// Only the given snapshot is searched; nothing is fetched.
func Match(coins []models.Coin, query string) []models.Coin {
	term := normalizeQuery(query)
	if term == "" {
		return coins
	}

	matched := make([]models.Coin, 0, len(coins))
	for _, coin := range coins {
		if matches(coin, term) {
			matched = append(matched, coin)
		}
	}
	return matched
}

// Suggestions is the bounded live-dropdown variant of Match: the first
// MaxSuggestions matches, once the query is long enough.
func Suggestions(coins []models.Coin, query string) []models.Coin {
	if utf8.RuneCountInString(strings.TrimSpace(query)) < SuggestionMinQueryLength {
		return []models.Coin{}
	}

	matched := Match(coins, query)
	if len(matched) > MaxSuggestions {
		matched = matched[:MaxSuggestions]
	}
	return append([]models.Coin{}, matched...)
}

func normalizeQuery(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}

func matches(coin models.Coin, term string) bool {
	return fieldContains(coin.Name, term) || fieldContains(coin.Symbol, term)
}

func fieldContains(field, term string) bool {
	if field == "" {
		return false
	}
	return strings.Contains(strings.ToLower(field), term)
}
