package database

import (
	"database/sql"

	"github.com/peterpolkadot/crypto-search/services/web/pkg/models"
	"github.com/peterpolkadot/crypto-search/shared/pkg/database"
)

// rawRow holds one scanned coin row before normalization.
type rawRow struct {
	id           int64
	name         sql.NullString
	symbol       sql.NullString
	slug         sql.NullString
	rank         database.NullDecimal
	price        database.NullDecimal
	change1h     database.NullDecimal
	change24h    database.NullDecimal
	change7d     database.NullDecimal
	marketCap    database.NullDecimal
	volume24h    database.NullDecimal
	logo         sql.NullString
	lastUpdated  sql.NullTime
	categorySlug sql.NullString
	categoryName sql.NullString
}

func (r *rawRow) dest() []interface{} {
	return []interface{}{
		&r.id, &r.name, &r.symbol, &r.slug, &r.rank, &r.price, &r.change1h, &r.change24h,
		&r.change7d, &r.marketCap, &r.volume24h, &r.logo, &r.lastUpdated,
	}
}

func (r *rawRow) categoryDest() []interface{} {
	return append(r.dest(), &r.categorySlug, &r.categoryName)
}

func (r *rawRow) coin() models.Coin {
	raw := models.RawCoin{
		ID:               r.id,
		Name:             r.name.String,
		Symbol:           r.symbol.String,
		Slug:             r.slug.String,
		Rank:             r.rank,
		Price:            r.price,
		PercentChange1h:  r.change1h,
		PercentChange24h: r.change24h,
		PercentChange7d:  r.change7d,
		MarketCap:        r.marketCap,
		Volume24h:        r.volume24h,
		Logo:             r.logo.String,
		CategorySlug:     r.categorySlug.String,
	}
	if r.lastUpdated.Valid {
		raw.LastUpdated = r.lastUpdated.Time
	}
	return raw.Normalize()
}

func scanCoins(rows *sql.Rows) ([]models.Coin, error) {
	defer rows.Close()

	coins := make([]models.Coin, 0)
	for rows.Next() {
		var raw rawRow
		if err := rows.Scan(raw.dest()...); err != nil {
			return nil, err
		}
		coins = append(coins, raw.coin())
	}
	return coins, rows.Err()
}

// scanCategoryCoins also returns the category display name of every row.
func scanCategoryCoins(rows *sql.Rows) ([]models.Coin, []string, error) {
	defer rows.Close()

	coins := make([]models.Coin, 0)
	names := make([]string, 0)
	for rows.Next() {
		var raw rawRow
		if err := rows.Scan(raw.categoryDest()...); err != nil {
			return nil, nil, err
		}
		coins = append(coins, raw.coin())
		names = append(names, raw.categoryName.String)
	}
	return coins, names, rows.Err()
}
