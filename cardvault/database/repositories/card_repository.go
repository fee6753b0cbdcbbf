package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ellavondegurechaff/cardvault/cardvault/database/models"
	"github.com/ellavondegurechaff/cardvault/cardvault/engine"
)

func (s *Store) GetCard(ctx context.Context, id int64) (*models.Card, error) {
	card := new(models.Card)
	err := s.idb.NewSelect().
		Model(card).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("card %d: %w", id, engine.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get card: %w", err)
	}
	return card, nil
}

func (s *Store) CreateCard(ctx context.Context, card *models.Card) error {
	_, err := s.idb.NewInsert().
		Model(card).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create card: %w", err)
	}
	return nil
}

func (s *Store) UpdateCard(ctx context.Context, card *models.Card) error {
	card.UpdatedAt = time.Now()
	_, err := s.idb.NewUpdate().
		Model(card).
		WherePK().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update card: %w", err)
	}
	return nil
}

func (s *Store) ListCards(ctx context.Context) ([]*models.Card, error) {
	var cards []*models.Card
	err := s.idb.NewSelect().
		Model(&cards).
		Order("id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list cards: %w", err)
	}
	return cards, nil
}

func (s *Store) GetOwner(ctx context.Context, cardID int64) (string, error) {
	ownership := new(models.Ownership)
	err := s.idb.NewSelect().
		Model(ownership).
		Where("card_id = ?", cardID).
		Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", fmt.Errorf("owner of card %d: %w", cardID, engine.ErrNotFound)
		}
		return "", fmt.Errorf("failed to get owner: %w", err)
	}
	return ownership.OwnerID, nil
}

func (s *Store) SetOwner(ctx context.Context, cardID int64, ownerID string) error {
	_, err := s.idb.NewInsert().
		Model(&models.Ownership{
			CardID:    cardID,
			OwnerID:   ownerID,
			UpdatedAt: time.Now(),
		}).
		On("CONFLICT (card_id) DO UPDATE").
		Set("owner_id = EXCLUDED.owner_id").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to set owner: %w", err)
	}
	return nil
}

// GetStatus is get-or-default: a card without a status row reads as
// unlocked with zeroed counters.
func (s *Store) GetStatus(ctx context.Context, cardID int64) (*models.CardStatus, error) {
	status := new(models.CardStatus)
	err := s.idb.NewSelect().
		Model(status).
		Where("card_id = ?", cardID).
		Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return &models.CardStatus{CardID: cardID}, nil
		}
		return nil, fmt.Errorf("failed to get card status: %w", err)
	}
	return status, nil
}

func (s *Store) PutStatus(ctx context.Context, status *models.CardStatus) error {
	status.UpdatedAt = time.Now()
	_, err := s.idb.NewInsert().
		Model(status).
		On("CONFLICT (card_id) DO UPDATE").
		Set("locked = EXCLUDED.locked").
		Set("cooldown_until = EXCLUDED.cooldown_until").
		Set("last_action = EXCLUDED.last_action").
		Set("upgrade_count = EXCLUDED.upgrade_count").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to put card status: %w", err)
	}
	return nil
}
