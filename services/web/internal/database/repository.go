package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/peterpolkadot/crypto-search/services/web/pkg/models"
	"github.com/peterpolkadot/crypto-search/shared/pkg/database"
	"github.com/sirupsen/logrus"
)

const coinColumns = `id, name, symbol, slug, cmc_rank, price_usd, percent_change_1h, percent_change_24h,
        percent_change_7d, market_cap, volume_24h, logo, last_updated`

const categoryColumns = `coin_id, name, symbol, slug, cmc_rank, price, percent_change_1h, percent_change_24h,
        percent_change_7d, market_cap, volume_24h, logo, last_updated, category_slug, category_name`

// Repository reads the catalog from the coins and coin_categories tables.
// It is read-only.
type Repository struct {
	db     *database.DB
	logger *logrus.Logger
}

func NewRepository(db *database.DB, logger *logrus.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

func (r *Repository) ListCoins(ctx context.Context, page, limit int) (*models.Page, error) {
	page = ClampPage(page)
	start := time.Now()

	query := `
        SELECT ` + coinColumns + `
        FROM coins
        ORDER BY cmc_rank ASC NULLS LAST, id ASC
        LIMIT $1 OFFSET $2
    `

	rows, err := r.db.QueryContext(ctx, query, limit, Offset(page, limit))
	if err != nil {
		return nil, fmt.Errorf("failed to list coins: %w", err)
	}
	coins, err := scanCoins(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to list coins: %w", err)
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM coins`).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count coins: %w", err)
	}

	r.logger.WithFields(logrus.Fields{
		"page":        page,
		"coins_count": len(coins),
		"total_count": total,
		"duration_ms": time.Since(start).Milliseconds(),
	}).Debug("Listed coins")

	return &models.Page{Coins: coins, Page: page, Limit: limit, TotalCount: total}, nil
}

// ListAllCoins is the unpaginated global scope used for leaderboards.
func (r *Repository) ListAllCoins(ctx context.Context) ([]models.Coin, error) {
	query := `
        SELECT ` + coinColumns + `
        FROM coins
        ORDER BY cmc_rank ASC NULLS LAST, id ASC
    `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list all coins: %w", err)
	}
	coins, err := scanCoins(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to list all coins: %w", err)
	}
	return coins, nil
}

// ListCategoryCoins returns one page of a category. An unknown category
// yields an empty page, not an error.
func (r *Repository) ListCategoryCoins(ctx context.Context, slug string, page, limit int) (*models.CategoryPage, error) {
	page = ClampPage(page)

	query := `
        SELECT ` + categoryColumns + `
        FROM coin_categories
        WHERE category_slug = $1
        ORDER BY cmc_rank ASC NULLS LAST, coin_id ASC
        LIMIT $2 OFFSET $3
    `

	rows, err := r.db.QueryContext(ctx, query, slug, limit, Offset(page, limit))
	if err != nil {
		return nil, fmt.Errorf("failed to list category coins: %w", err)
	}
	coins, names, err := scanCategoryCoins(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to list category coins: %w", err)
	}

	result := &models.CategoryPage{
		Page:         models.Page{Coins: coins, Page: page, Limit: limit},
		CategorySlug: slug,
		CategoryName: slug,
	}
	if len(coins) == 0 {
		return result, nil
	}
	if names[0] != "" {
		result.CategoryName = names[0]
	}

	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM coin_categories WHERE category_slug = $1`, slug,
	).Scan(&result.TotalCount); err != nil {
		return nil, fmt.Errorf("failed to count category coins: %w", err)
	}

	return result, nil
}

// ListCategoryStatsCoins is the unpaginated category scope for leaderboards,
// limited to rows with both a 24h change and a volume.
func (r *Repository) ListCategoryStatsCoins(ctx context.Context, slug string) ([]models.Coin, error) {
	query := `
        SELECT ` + categoryColumns + `
        FROM coin_categories
        WHERE category_slug = $1
          AND percent_change_24h IS NOT NULL
          AND volume_24h IS NOT NULL
    `

	rows, err := r.db.QueryContext(ctx, query, slug)
	if err != nil {
		return nil, fmt.Errorf("failed to list category stats: %w", err)
	}
	coins, _, err := scanCategoryCoins(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to list category stats: %w", err)
	}
	return coins, nil
}

// GetCoinBySymbol matches the symbol case-insensitively. When several coins
// share it the lowest rank wins, unranked last, then the lowest id.
func (r *Repository) GetCoinBySymbol(ctx context.Context, symbol string) (*models.CoinDetail, error) {
	query := `
        SELECT ` + coinColumns + `,
            description, urls, tags, circulating_supply, total_supply, max_supply, date_added
        FROM coins
        WHERE LOWER(symbol) = LOWER($1)
        ORDER BY cmc_rank ASC NULLS LAST, id ASC
        LIMIT 1
    `

	var (
		raw         rawRow
		description sql.NullString
		urls        []byte
		tags        pq.StringArray
		circulating database.NullDecimal
		total       database.NullDecimal
		maxSupply   database.NullDecimal
		dateAdded   sql.NullTime
	)

	dest := append(raw.dest(), &description, &urls, &tags, &circulating, &total, &maxSupply, &dateAdded)
	err := r.db.QueryRowContext(ctx, query, symbol).Scan(dest...)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get coin by symbol: %w", err)
	}

	detail := &models.CoinDetail{
		Coin:              raw.coin(),
		Description:       description.String,
		Tags:              []string(tags),
		CirculatingSupply: models.Amount(circulating),
		TotalSupply:       models.Amount(total),
		MaxSupply:         models.Amount(maxSupply),
	}
	if dateAdded.Valid {
		detail.DateAdded = &dateAdded.Time
	}
	if len(urls) > 0 {
		if err := json.Unmarshal(urls, &detail.URLs); err != nil {
			r.logger.WithError(err).WithField("symbol", symbol).Warn("Ignoring malformed coin urls")
			detail.URLs = nil
		}
	}

	return detail, nil
}

// ListSitemapCoins returns ranked coins in rank order.
func (r *Repository) ListSitemapCoins(ctx context.Context, limit int) ([]models.SitemapEntry, error) {
	query := `
        SELECT symbol, COALESCE(slug, ''), last_updated
        FROM coins
        WHERE cmc_rank IS NOT NULL
        ORDER BY cmc_rank ASC
        LIMIT $1
    `

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list sitemap coins: %w", err)
	}
	defer rows.Close()

	var entries []models.SitemapEntry
	for rows.Next() {
		var (
			entry   models.SitemapEntry
			updated sql.NullTime
		)
		if err := rows.Scan(&entry.Symbol, &entry.Slug, &updated); err != nil {
			return nil, fmt.Errorf("failed to scan sitemap coin: %w", err)
		}
		if updated.Valid {
			entry.LastUpdated = &updated.Time
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

func (r *Repository) HealthCheck(ctx context.Context) error {
	return r.db.HealthCheck(ctx)
}

// ClampPage treats anything below 1 as the first page.
func ClampPage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

func Offset(page, limit int) int {
	return models.Offset(ClampPage(page), limit)
}
