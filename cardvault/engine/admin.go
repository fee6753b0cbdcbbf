package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ellavondegurechaff/cardvault/cardvault/database/models"
)

func (e *Engine) requireAdmin(caller string) error {
	if caller != e.admin {
		return fmt.Errorf("account %q is not the administrator: %w", caller, ErrNotAuthorized)
	}
	return nil
}

// SetMarketplaceEnabled flips the global marketplace switch.
func (e *Engine) SetMarketplaceEnabled(ctx context.Context, caller string, enabled bool) error {
	if err := e.requireAdmin(caller); err != nil {
		return err
	}

	err := e.store.Atomic(ctx, func(ctx context.Context, tx Store) error {
		state, err := tx.GetMarketState(ctx)
		if err != nil {
			return err
		}
		state.Enabled = enabled
		state.UpdatedAt = time.Now()
		return tx.PutMarketState(ctx, state)
	})
	if err != nil {
		return err
	}

	slog.Info("Marketplace switch changed",
		slog.String("type", "market"),
		slog.Bool("enabled", enabled))
	return nil
}

// SetFeeBasisPoints changes the marketplace fee. Basis points are out of
// 1000, so the valid range is 0..1000.
func (e *Engine) SetFeeBasisPoints(ctx context.Context, caller string, bps int64) error {
	if err := e.requireAdmin(caller); err != nil {
		return err
	}
	if bps < 0 || bps > FeeDenominator {
		return fmt.Errorf("fee basis points %d out of range 0..%d: %w", bps, FeeDenominator, ErrInvalidArgument)
	}

	return e.store.Atomic(ctx, func(ctx context.Context, tx Store) error {
		state, err := tx.GetMarketState(ctx)
		if err != nil {
			return err
		}
		state.FeeBasisPoints = bps
		state.UpdatedAt = time.Now()
		return tx.PutMarketState(ctx, state)
	})
}

// RegisterSeries declares supply metadata for a named series. Registering an
// existing series fails with ErrAlreadyExists.
func (e *Engine) RegisterSeries(ctx context.Context, caller, name, description string, maxSupply int64) error {
	if err := e.requireAdmin(caller); err != nil {
		return err
	}
	if name == "" {
		return fmt.Errorf("series name must not be empty: %w", ErrInvalidArgument)
	}

	return e.store.Atomic(ctx, func(ctx context.Context, tx Store) error {
		_, err := tx.GetSeries(ctx, name)
		switch {
		case err == nil:
			return fmt.Errorf("series %q: %w", name, ErrAlreadyExists)
		case !errors.Is(err, ErrNotFound):
			return err
		}

		return tx.PutSeries(ctx, &models.Series{
			Name:        name,
			Description: description,
			MaxSupply:   maxSupply,
			CreatedAt:   time.Now(),
		})
	})
}
