package models

import (
	"time"

	"github.com/uptrace/bun"
)

// MarketStateID is the primary key of the single market_state row.
const MarketStateID = 1

// MarketState is the singleton row holding the registry counters and the
// marketplace switches. LastCardID only ever increases.
type MarketState struct {
	bun.BaseModel `bun:"table:market_state,alias:ms"`

	ID             int64     `bun:"id,pk"`
	LastCardID     int64     `bun:"last_card_id,notnull,default:0"`
	FeeBasisPoints int64     `bun:"fee_basis_points,notnull,default:25"`
	Enabled        bool      `bun:"enabled,notnull,default:true"`
	TotalCreated   int64     `bun:"total_created,notnull,default:0"`
	TotalTraded    int64     `bun:"total_traded,notnull,default:0"`
	TotalVolume    int64     `bun:"total_volume,notnull,default:0"`
	UpdatedAt      time.Time `bun:"updated_at,notnull"`
}
