package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Series is descriptive supply metadata for a named card series. MaxSupply
// of zero means unlimited; Minted is bookkeeping only, the engine does not
// enforce the cap.
type Series struct {
	bun.BaseModel `bun:"table:series,alias:s"`

	Name        string    `bun:"name,pk"`
	Description string    `bun:"description,type:text,default:''"`
	MaxSupply   int64     `bun:"max_supply,notnull,default:0"`
	Minted      int64     `bun:"minted,notnull,default:0"`
	CreatedAt   time.Time `bun:"created_at,notnull,default:current_timestamp"`
}

// RarityTier names a rarity level. The valid range is seeded at schema init
// and checked by the engine at mint time.
type RarityTier struct {
	bun.BaseModel `bun:"table:rarity_tiers,alias:rt"`

	Rarity int    `bun:"rarity,pk"`
	Name   string `bun:"name,notnull"`
}
