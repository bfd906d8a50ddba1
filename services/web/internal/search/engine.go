package search

import (
	"github.com/peterpolkadot/crypto-search/services/web/pkg/models"
	"github.com/sirupsen/logrus"
)

// FavoriteChecker is the read side of a favorites set.
type FavoriteChecker interface {
	Contains(id int64) bool
}

// Row is a coin as displayed, with its derived badges.
type Row struct {
	models.Coin
	Hot      bool `json:"hot"`
	Favorite bool `json:"favorite"`
}

type View struct {
	Query       string        `json:"query"`
	Searching   bool          `json:"searching"`
	Sort        SortSpec      `json:"sort"`
	Rows        []Row         `json:"coins"`
	ResultCount int           `json:"result_count"`
	Suggestions []models.Coin `json:"suggestions"`
}

// Engine is the one search-and-rank pipeline shared by every page type.
type Engine struct {
	leaderboards LeaderboardOptions
	logger       *logrus.Logger
}

func NewEngine(leaderboards LeaderboardOptions, logger *logrus.Logger) *Engine {
	return &Engine{
		leaderboards: leaderboards,
		logger:       logger,
	}
}

// View filters, orders and badges one snapshot. favorites may be nil.
func (e *Engine) View(snapshot []models.Coin, query string, spec SortSpec, favorites FavoriteChecker) View {
	filtered := Match(snapshot, query)
	sorted := Sort(filtered, spec)

	rows := make([]Row, 0, len(sorted))
	for _, coin := range sorted {
		rows = append(rows, Row{
			Coin:     coin,
			Hot:      IsTrending(coin),
			Favorite: favorites != nil && favorites.Contains(coin.ID),
		})
	}

	view := View{
		Query:       query,
		Searching:   normalizeQuery(query) != "",
		Sort:        spec,
		Rows:        rows,
		ResultCount: len(rows),
		Suggestions: Suggestions(snapshot, query),
	}

	e.logger.WithFields(logrus.Fields{
		"snapshot_size": len(snapshot),
		"result_count":  view.ResultCount,
		"sort_key":      spec.Key,
		"sort_dir":      spec.Direction,
	}).Debug("Built search view")

	return view
}

func (e *Engine) Leaderboards(coins []models.Coin) Leaderboards {
	return BuildLeaderboards(coins, e.leaderboards)
}
