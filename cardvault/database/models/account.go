package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Account is a ledger account with a native currency balance.
type Account struct {
	bun.BaseModel `bun:"table:accounts,alias:a"`

	ID        string    `bun:"id,pk"`
	Balance   int64     `bun:"balance,notnull,default:0"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}

// ChainState holds the ledger's logical clock. Single row, id = 1.
type ChainState struct {
	bun.BaseModel `bun:"table:chain_state,alias:ch"`

	ID        int64     `bun:"id,pk"`
	Height    int64     `bun:"height,notnull,default:0"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}
