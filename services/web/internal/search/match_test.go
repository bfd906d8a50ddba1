package search

import (
	"fmt"
	"testing"

	"github.com/peterpolkadot/crypto-search/services/web/pkg/models"
	"github.com/stretchr/testify/assert"
)

func TestMatch(t *testing.T) {
	coins := []models.Coin{
		{ID: 1, Name: "Bitcoin", Symbol: "BTC"},
		{ID: 2, Name: "Bittensor", Symbol: "TAO"},
		{ID: 3, Name: "Ethereum", Symbol: "ETH"},
	}

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"matches name", "bit", []string{"BTC", "TAO"}},
		{"matches symbol", "bt", []string{"BTC"}},
		{"case insensitive", "BiT", []string{"BTC", "TAO"}},
		{"symbol only", "eth", []string{"ETH"}},
		{"unanchored", "ereu", []string{"ETH"}},
		{"no match is empty", "xyz", []string{}},
		{"whitespace is trimmed", "  tao ", []string{"TAO"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, symbols(Match(coins, tt.query)))
		})
	}
}

func TestMatch_EmptyQueryReturnsSnapshot(t *testing.T) {
	snapshot := sampleSnapshot()

	assert.Equal(t, snapshot, Match(snapshot, ""))
	assert.Equal(t, snapshot, Match(snapshot, "   "))
}

func TestMatch_MissingFieldNeverMatches(t *testing.T) {
	coins := []models.Coin{{ID: 1, Symbol: "ABC"}, {ID: 2, Name: "Abc Token"}}

	assert.Len(t, Match(coins, "abc"), 2)
	assert.Empty(t, Match(coins, "token x"))
}

func TestMatch_IsSubsetOfSnapshot(t *testing.T) {
	snapshot := sampleSnapshot()

	for _, q := range []string{"", "b", "coin", "o", "zzz", "DOGE"} {
		for _, c := range Match(snapshot, q) {
			assert.Contains(t, snapshot, c)
		}
	}
}

func TestSuggestions(t *testing.T) {
	var coins []models.Coin
	for i := 0; i < 12; i++ {
		coins = append(coins, models.Coin{ID: int64(i), Name: fmt.Sprintf("Coin %d", i), Symbol: fmt.Sprintf("C%d", i)})
	}

	t.Run("too short", func(t *testing.T) {
		assert.Empty(t, Suggestions(coins, "c"))
		assert.Empty(t, Suggestions(coins, " c "))
	})

	t.Run("capped at five", func(t *testing.T) {
		got := Suggestions(coins, "coin")
		assert.Len(t, got, MaxSuggestions)
		assert.Equal(t, Match(coins, "coin")[:MaxSuggestions], got)
	})

	t.Run("subset of match", func(t *testing.T) {
		for _, q := range []string{"co", "c1", "in 1", "zz"} {
			got := Suggestions(coins, q)
			assert.LessOrEqual(t, len(got), MaxSuggestions)
			matched := Match(coins, q)
			for _, c := range got {
				assert.Contains(t, matched, c)
			}
		}
	})
}
