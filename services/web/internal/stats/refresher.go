package stats

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/peterpolkadot/crypto-search/services/web/internal/metrics"
	"github.com/peterpolkadot/crypto-search/services/web/internal/search"
	"github.com/peterpolkadot/crypto-search/services/web/pkg/models"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

const DefaultSchedule = "0 */5 * * * *"

// Source is the unpaginated global scope.
type Source interface {
	ListAllCoins(ctx context.Context) ([]models.Coin, error)
}

// Snapshot is an immutable set of global leaderboards.
type Snapshot struct {
	Leaderboards search.Leaderboards `json:"leaderboards"`
	CoinsCount   int                 `json:"coins_count"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

// Refresher recomputes the global leaderboards on a cron schedule. Readers
// always see the last complete snapshot.
type Refresher struct {
	source   Source
	engine   *search.Engine
	cron     *cron.Cron
	schedule string
	current  atomic.Pointer[Snapshot]
	logger   *logrus.Logger
}

func NewRefresher(source Source, engine *search.Engine, schedule string, logger *logrus.Logger) *Refresher {
	if schedule == "" {
		schedule = DefaultSchedule
	}

	return &Refresher{
		source:   source,
		engine:   engine,
		cron:     cron.New(cron.WithSeconds()),
		schedule: schedule,
		logger:   logger,
	}
}

func (r *Refresher) Start(ctx context.Context) error {
	r.logger.WithField("schedule", r.schedule).Info("Starting leaderboard refresher")

	_, err := r.cron.AddFunc(r.schedule, func() {
		if err := r.Refresh(ctx); err != nil {
			r.logger.WithError(err).Error("Failed to refresh leaderboards")
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule leaderboard refresh: %w", err)
	}

	r.cron.Start()

	go func() {
		if err := r.Refresh(ctx); err != nil {
			r.logger.WithError(err).Error("Failed initial leaderboard refresh")
		}
	}()

	r.logger.Info("Leaderboard refresher started successfully")
	return nil
}

func (r *Refresher) Stop() {
	r.logger.Info("Stopping leaderboard refresher")
	<-r.cron.Stop().Done()
}

// Refresh fetches the global scope and swaps in new leaderboards. On failure
// the previous snapshot is kept.
func (r *Refresher) Refresh(ctx context.Context) error {
	start := time.Now()

	coins, err := r.source.ListAllCoins(ctx)
	if err != nil {
		metrics.LeaderboardRefreshes.WithLabelValues("error").Inc()
		return fmt.Errorf("failed to list coins: %w", err)
	}

	snapshot := &Snapshot{
		Leaderboards: r.engine.Leaderboards(coins),
		CoinsCount:   len(coins),
		UpdatedAt:    time.Now().UTC(),
	}
	r.current.Store(snapshot)

	metrics.LeaderboardRefreshes.WithLabelValues("ok").Inc()
	metrics.LeaderboardUpdated.Set(float64(snapshot.UpdatedAt.Unix()))

	r.logger.WithFields(logrus.Fields{
		"coins_count": len(coins),
		"duration_ms": time.Since(start).Milliseconds(),
	}).Info("Leaderboards refreshed")

	return nil
}

// Current returns the latest snapshot, or nil before the first refresh.
func (r *Refresher) Current() *Snapshot {
	return r.current.Load()
}
