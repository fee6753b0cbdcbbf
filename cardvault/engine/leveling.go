package engine

import (
	"context"
	"fmt"
	"time"
)

// ExpPerLevel is the experience required per current level: a level-n card
// needs n*100 experience to reach n+1.
const ExpPerLevel = 100

func expRequirement(level int) int64 {
	return int64(level) * ExpPerLevel
}

// AddExperience adds experience to a card the caller owns. There is no cap
// and no automatic level-up.
func (e *Engine) AddExperience(ctx context.Context, caller string, cardID, amount int64) (int64, error) {
	if amount < 0 {
		return 0, fmt.Errorf("experience amount must not be negative: %w", ErrInvalidArgument)
	}

	var newExp int64
	err := e.store.Atomic(ctx, func(ctx context.Context, tx Store) error {
		if err := e.requireUnlockedOwner(ctx, tx, caller, cardID); err != nil {
			return err
		}

		card, err := tx.GetCard(ctx, cardID)
		if err != nil {
			return err
		}
		card.Exp += amount
		card.UpdatedAt = time.Now()
		newExp = card.Exp
		return tx.UpdateCard(ctx, card)
	})
	if err != nil {
		return 0, err
	}

	e.cards.Remove(cardID)
	return newExp, nil
}

// LevelUp consumes exactly the current level's requirement and raises the
// level by one; surplus experience carries forward.
func (e *Engine) LevelUp(ctx context.Context, caller string, cardID int64) (int, error) {
	height, err := e.ledger.CurrentHeight(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to read ledger height: %w", err)
	}

	var newLevel int
	err = e.store.Atomic(ctx, func(ctx context.Context, tx Store) error {
		if err := e.requireUnlockedOwner(ctx, tx, caller, cardID); err != nil {
			return err
		}

		card, err := tx.GetCard(ctx, cardID)
		if err != nil {
			return err
		}

		required := expRequirement(card.Level)
		if card.Exp < required {
			return fmt.Errorf("card %d has %d of %d required experience: %w",
				cardID, card.Exp, required, ErrUpgradeRequirementsNotMet)
		}

		card.Exp -= required
		card.Level++
		card.UpdatedAt = time.Now()
		newLevel = card.Level
		if err := tx.UpdateCard(ctx, card); err != nil {
			return err
		}

		status, err := tx.GetStatus(ctx, cardID)
		if err != nil {
			return err
		}
		status.UpgradeCount++
		status.LastAction = height
		status.UpdatedAt = time.Now()
		return tx.PutStatus(ctx, status)
	})
	if err != nil {
		return 0, err
	}

	e.cards.Remove(cardID)
	return newLevel, nil
}

// requireUnlockedOwner is the shared gate for mutating card operations:
// the caller must own the card and the card must not be locked by a listing.
func (e *Engine) requireUnlockedOwner(ctx context.Context, tx Store, caller string, cardID int64) error {
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
	return nil
}
