package engine

import (
	"context"
	"fmt"
	"time"
)

// StatKind selects a UserStats counter. The closed enum replaces the
// string-keyed dispatch of the system this engine descends from, so an
// unknown stat can no longer be silently dropped.
type StatKind int

const (
	StatOwned StatKind = iota
	StatCreated
	StatSold
	StatPurchased
	StatSpent
	StatEarned
)

func (k StatKind) String() string {
	switch k {
	case StatOwned:
		return "owned"
	case StatCreated:
		return "created"
	case StatSold:
		return "sold"
	case StatPurchased:
		return "purchased"
	case StatSpent:
		return "spent"
	case StatEarned:
		return "earned"
	default:
		return fmt.Sprintf("StatKind(%d)", int(k))
	}
}

// addStat adjusts one counter for one account inside the current
// transaction. Owned is clamped at zero: ledgers imported from the legacy
// system never decremented it, so a decrement may arrive for an account
// whose counter is already zero.
func addStat(ctx context.Context, tx Store, userID string, kind StatKind, delta int64) error {
	stats, err := tx.GetUserStats(ctx, userID)
	if err != nil {
		return err
	}

	switch kind {
	case StatOwned:
		stats.Owned += delta
		if stats.Owned < 0 {
			stats.Owned = 0
		}
	case StatCreated:
		stats.Created += delta
	case StatSold:
		stats.Sold += delta
	case StatPurchased:
		stats.Purchased += delta
	case StatSpent:
		stats.Spent += delta
	case StatEarned:
		stats.Earned += delta
	default:
		return fmt.Errorf("unknown stat kind %v: %w", kind, ErrInvalidArgument)
	}

	stats.UpdatedAt = time.Now()
	return tx.PutUserStats(ctx, stats)
}
