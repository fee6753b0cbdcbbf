package models

import (
	"time"

	"github.com/uptrace/bun"
)

// CardStatus is the mutable per-card state the engine gates on. A missing
// row reads as the zero value: unlocked, no cooldown, no upgrades.
type CardStatus struct {
	bun.BaseModel `bun:"table:card_statuses,alias:cs"`

	CardID        int64     `bun:"card_id,pk"`
	Locked        bool      `bun:"locked,notnull,default:false"`
	CooldownUntil int64     `bun:"cooldown_until,notnull,default:0"`
	LastAction    int64     `bun:"last_action,notnull,default:0"`
	UpgradeCount  int64     `bun:"upgrade_count,notnull,default:0"`
	UpdatedAt     time.Time `bun:"updated_at,notnull"`
}
