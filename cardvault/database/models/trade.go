package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Trade records one completed purchase for history and price queries.
type Trade struct {
	bun.BaseModel `bun:"table:trades,alias:t"`

	ID        int64     `bun:"id,pk,autoincrement"`
	TradeID   string    `bun:"trade_id,notnull,unique"`
	CardID    int64     `bun:"card_id,notnull"`
	SellerID  string    `bun:"seller_id,notnull"`
	BuyerID   string    `bun:"buyer_id,notnull"`
	Price     int64     `bun:"price,notnull"`
	Fee       int64     `bun:"fee,notnull"`
	Height    int64     `bun:"height,notnull"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
}
