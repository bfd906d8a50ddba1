package sheet

import (
	"github.com/peterpolkadot/crypto-search/services/web/pkg/models"
)

// detailRow is one row of the detail endpoint: a listing row plus the
// profile columns.
type detailRow struct {
	models.RawCoin
	Description       string              `json:"description"`
	URLs              map[string][]string `json:"urls"`
	Tags              []string            `json:"tags"`
	CirculatingSupply interface{}         `json:"circulating_supply"`
	TotalSupply       interface{}         `json:"total_supply"`
	MaxSupply         interface{}         `json:"max_supply"`
	DateAdded         interface{}         `json:"date_added"`
}

func (d detailRow) detail() *models.CoinDetail {
	return &models.CoinDetail{
		Coin:              d.Normalize(),
		Description:       d.Description,
		URLs:              d.URLs,
		Tags:              d.Tags,
		CirculatingSupply: models.Amount(d.CirculatingSupply),
		TotalSupply:       models.Amount(d.TotalSupply),
		MaxSupply:         models.Amount(d.MaxSupply),
		DateAdded:         models.Timestamp(d.DateAdded),
	}
}
