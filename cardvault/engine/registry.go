package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ellavondegurechaff/cardvault/cardvault/database/models"
)

// MintInput is the caller-supplied part of a new card.
type MintInput struct {
	Name        string
	Description string
	ImageURL    string
	Rarity      int
	Attributes  []models.Attribute
	Series      string
}

// Mint creates a new card owned by the caller and returns its id. Ids are
// allocated from the persisted counter and never reused.
func (e *Engine) Mint(ctx context.Context, caller string, in MintInput) (int64, error) {
	if in.Rarity < MinRarity || in.Rarity > MaxRarity {
		return 0, fmt.Errorf("rarity %d: %w", in.Rarity, ErrInvalidRarity)
	}
	if len(in.Attributes) > MaxAttributes {
		return 0, fmt.Errorf("%d attributes exceeds the maximum of %d: %w",
			len(in.Attributes), MaxAttributes, ErrInvalidArgument)
	}

	height, err := e.ledger.CurrentHeight(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to read ledger height: %w", err)
	}

	var cardID int64
	err = e.store.Atomic(ctx, func(ctx context.Context, tx Store) error {
		state, err := tx.GetMarketState(ctx)
		if err != nil {
			return err
		}

		state.LastCardID++
		state.TotalCreated++
		cardID = state.LastCardID

		now := time.Now()
		card := &models.Card{
			ID:          cardID,
			Name:        in.Name,
			Description: in.Description,
			ImageURL:    in.ImageURL,
			Rarity:      in.Rarity,
			Attributes:  in.Attributes,
			Level:       1,
			Exp:         0,
			Edition:     1,
			Series:      in.Series,
			MintedAt:    height,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := tx.CreateCard(ctx, card); err != nil {
			return err
		}
		if err := tx.SetOwner(ctx, cardID, caller); err != nil {
			return err
		}
		if err := tx.PutStatus(ctx, &models.CardStatus{CardID: cardID, UpdatedAt: now}); err != nil {
			return err
		}

		if in.Series != "" {
			series, err := tx.GetSeries(ctx, in.Series)
			switch {
			case err == nil:
				series.Minted++
				if err := tx.PutSeries(ctx, series); err != nil {
					return err
				}
			case !errors.Is(err, ErrNotFound):
				return err
			}
		}

		if err := addStat(ctx, tx, caller, StatOwned, 1); err != nil {
			return err
		}
		if err := addStat(ctx, tx, caller, StatCreated, 1); err != nil {
			return err
		}

		return tx.PutMarketState(ctx, state)
	})
	if err != nil {
		return 0, err
	}

	slog.Info("Card minted",
		slog.String("type", "market"),
		slog.Int64("card_id", cardID),
		slog.String("owner", caller),
		slog.Int("rarity", in.Rarity))

	return cardID, nil
}

// Transfer reassigns ownership of an unlocked card to the recipient. Unlike
// the legacy system this also decrements the sender's owned counter.
func (e *Engine) Transfer(ctx context.Context, caller string, cardID int64, recipient string) error {
	return e.store.Atomic(ctx, func(ctx context.Context, tx Store) error {
		owner, err := tx.GetOwner(ctx, cardID)
		if err != nil {
			return err
		}
		if owner != caller {
			return fmt.Errorf("card %d is owned by another account: %w", cardID, ErrNotAuthorized)
		}

		status, err := tx.GetStatus(ctx, cardID)
		if err != nil {
			return err
		}
		if status.Locked {
			return fmt.Errorf("card %d: %w", cardID, ErrAssetLocked)
		}

		if err := tx.SetOwner(ctx, cardID, recipient); err != nil {
			return err
		}
		if err := addStat(ctx, tx, recipient, StatOwned, 1); err != nil {
			return err
		}
		return addStat(ctx, tx, caller, StatOwned, -1)
	})
}
