package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Attribute is a single trait/value pair attached to a card. A card carries
// at most MaxAttributes of them (enforced by the engine at mint time).
type Attribute struct {
	Trait string `json:"trait"`
	Value string `json:"value"`
}

type Card struct {
	bun.BaseModel `bun:"table:cards,alias:c"`

	ID          int64       `bun:"id,pk"`
	Name        string      `bun:"name,notnull"`
	Description string      `bun:"description,type:text,default:''"`
	ImageURL    string      `bun:"image_url,type:text,default:''"`
	Rarity      int         `bun:"rarity,notnull"`
	Attributes  []Attribute `bun:"attributes,type:jsonb"`
	Level       int         `bun:"level,notnull,default:1"`
	Exp         int64       `bun:"exp,notnull,default:0"`
	Edition     int         `bun:"edition,notnull,default:1"`
	Series      string      `bun:"series,default:''"`

	// MintedAt is the ledger height at creation time and never changes.
	MintedAt int64 `bun:"minted_at,notnull"`

	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}
