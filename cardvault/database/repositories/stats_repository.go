package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ellavondegurechaff/cardvault/cardvault/database/models"
)

// GetUserStats is get-or-default: unknown accounts read as all zeroes.
func (s *Store) GetUserStats(ctx context.Context, userID string) (*models.UserStats, error) {
	stats := new(models.UserStats)
	err := s.idb.NewSelect().
		Model(stats).
		Where("user_id = ?", userID).
		Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return &models.UserStats{UserID: userID}, nil
		}
		return nil, fmt.Errorf("failed to get user stats: %w", err)
	}
	return stats, nil
}

func (s *Store) PutUserStats(ctx context.Context, stats *models.UserStats) error {
	if stats.CreatedAt.IsZero() {
		stats.CreatedAt = time.Now()
	}
	stats.UpdatedAt = time.Now()
	_, err := s.idb.NewInsert().
		Model(stats).
		On("CONFLICT (user_id) DO UPDATE").
		Set("owned = EXCLUDED.owned").
		Set("created = EXCLUDED.created").
		Set("sold = EXCLUDED.sold").
		Set("purchased = EXCLUDED.purchased").
		Set("spent = EXCLUDED.spent").
		Set("earned = EXCLUDED.earned").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to put user stats: %w", err)
	}
	return nil
}
