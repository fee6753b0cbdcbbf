package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ellavondegurechaff/cardvault/cardvault/database/models"
	"github.com/ellavondegurechaff/cardvault/cardvault/engine"
)

func (s *Store) RecordTrade(ctx context.Context, trade *models.Trade) error {
	_, err := s.idb.NewInsert().
		Model(trade).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to record trade: %w", err)
	}
	return nil
}

func (s *Store) TradesByCard(ctx context.Context, cardID int64, limit int) ([]*models.Trade, error) {
	if limit <= 0 {
		limit = 50
	}
	var trades []*models.Trade
	err := s.idb.NewSelect().
		Model(&trades).
		Where("card_id = ?", cardID).
		Order("created_at DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get trade history: %w", err)
	}
	return trades, nil
}

func (s *Store) GetSeries(ctx context.Context, name string) (*models.Series, error) {
	series := new(models.Series)
	err := s.idb.NewSelect().
		Model(series).
		Where("name = ?", name).
		Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("series %q: %w", name, engine.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get series: %w", err)
	}
	return series, nil
}

func (s *Store) PutSeries(ctx context.Context, series *models.Series) error {
	if series.CreatedAt.IsZero() {
		series.CreatedAt = time.Now()
	}
	_, err := s.idb.NewInsert().
		Model(series).
		On("CONFLICT (name) DO UPDATE").
		Set("description = EXCLUDED.description").
		Set("max_supply = EXCLUDED.max_supply").
		Set("minted = EXCLUDED.minted").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to put series: %w", err)
	}
	return nil
}
