package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ellavondegurechaff/cardvault/cardvault/database/models"
	"github.com/ellavondegurechaff/cardvault/cardvault/engine"
)

func (s *Store) GetListing(ctx context.Context, cardID int64) (*models.Listing, error) {
	listing := new(models.Listing)
	err := s.idb.NewSelect().
		Model(listing).
		Where("card_id = ?", cardID).
		Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("listing for card %d: %w", cardID, engine.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get listing: %w", err)
	}
	return listing, nil
}

func (s *Store) PutListing(ctx context.Context, listing *models.Listing) error {
	_, err := s.idb.NewInsert().
		Model(listing).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create listing: %w", err)
	}
	return nil
}

func (s *Store) DeleteListing(ctx context.Context, cardID int64) error {
	_, err := s.idb.NewDelete().
		Model((*models.Listing)(nil)).
		Where("card_id = ?", cardID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete listing: %w", err)
	}
	return nil
}

func (s *Store) ListListings(ctx context.Context) ([]*models.Listing, error) {
	var listings []*models.Listing
	err := s.idb.NewSelect().
		Model(&listings).
		Order("listed_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list listings: %w", err)
	}
	return listings, nil
}
