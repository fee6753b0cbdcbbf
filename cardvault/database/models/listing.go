package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Listing is an active sale offer. The card id primary key enforces at most
// one listing per card. Heights come from the ledger's logical clock.
type Listing struct {
	bun.BaseModel `bun:"table:listings,alias:l"`

	CardID    int64     `bun:"card_id,pk"`
	SellerID  string    `bun:"seller_id,notnull"`
	Price     int64     `bun:"price,notnull"`
	ListedAt  int64     `bun:"listed_at,notnull"`
	ExpiresAt int64     `bun:"expires_at,notnull"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
}

// Expired reports whether the listing can no longer be bought at the given
// height. Expired listings stay in place until the seller cancels them.
func (l *Listing) Expired(height int64) bool {
	return height > l.ExpiresAt
}
