package models

import (
	"time"

	"github.com/uptrace/bun"
)

// UserStats holds per-account aggregate counters. A missing row reads as all
// zeroes.
type UserStats struct {
	bun.BaseModel `bun:"table:user_stats,alias:us"`

	UserID    string `bun:"user_id,pk"`
	Owned     int64  `bun:"owned,notnull,default:0"`
	Created   int64  `bun:"created,notnull,default:0"`
	Sold      int64  `bun:"sold,notnull,default:0"`
	Purchased int64  `bun:"purchased,notnull,default:0"`
	Spent     int64  `bun:"spent,notnull,default:0"`
	Earned    int64  `bun:"earned,notnull,default:0"`

	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}
