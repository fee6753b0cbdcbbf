package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Ownership maps a card to its single current owner. Every card has exactly
// one row here for as long as it exists.
type Ownership struct {
	bun.BaseModel `bun:"table:ownerships,alias:o"`

	CardID    int64     `bun:"card_id,pk"`
	OwnerID   string    `bun:"owner_id,notnull"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}
