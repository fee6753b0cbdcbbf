package engine

import (
	"context"
	"crypto/rand"
	"encoding/base32"
	"fmt"
	"log/slog"
	"time"

	"github.com/ellavondegurechaff/cardvault/cardvault/database/models"
)

const tradeIDLength = 8

// List puts a card up for sale and locks it. The listing expires
// durationBlocks heights after creation but stays in place until cancelled
// or sold.
func (e *Engine) List(ctx context.Context, caller string, cardID, price, durationBlocks int64) error {
	if price <= 0 || durationBlocks <= 0 {
		return fmt.Errorf("price and duration must be positive: %w", ErrInvalidArgument)
	}

	height, err := e.ledger.CurrentHeight(ctx)
	if err != nil {
		return fmt.Errorf("failed to read ledger height: %w", err)
	}

	return e.store.Atomic(ctx, func(ctx context.Context, tx Store) error {
		state, err := tx.GetMarketState(ctx)
		if err != nil {
			return err
		}
		if !state.Enabled {
			return ErrMarketplaceDisabled
		}

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

		if err := tx.PutListing(ctx, &models.Listing{
			CardID:    cardID,
			SellerID:  caller,
			Price:     price,
			ListedAt:  height,
			ExpiresAt: height + durationBlocks,
			CreatedAt: time.Now(),
		}); err != nil {
			return err
		}

		status.Locked = true
		status.UpdatedAt = time.Now()
		return tx.PutStatus(ctx, status)
	})
}

// Cancel removes the caller's listing and unlocks the card. Expired listings
// are cancelled the same way.
func (e *Engine) Cancel(ctx context.Context, caller string, cardID int64) error {
	return e.store.Atomic(ctx, func(ctx context.Context, tx Store) error {
		listing, err := tx.GetListing(ctx, cardID)
		if err != nil {
			return err
		}
		if listing.SellerID != caller {
			return fmt.Errorf("listing for card %d belongs to another seller: %w", cardID, ErrNotAuthorized)
		}

		if err := tx.DeleteListing(ctx, cardID); err != nil {
			return err
		}

		status, err := tx.GetStatus(ctx, cardID)
		if err != nil {
			return err
		}
		status.Locked = false
		status.UpdatedAt = time.Now()
		return tx.PutStatus(ctx, status)
	})
}

// Buy settles an active listing: the buyer pays the price, the seller
// receives it minus the fee, the fee goes to the treasury, and ownership,
// lock state, stats, totals and trade history all move in the same
// transaction. A failed funds transfer leaves no trace.
func (e *Engine) Buy(ctx context.Context, caller string, cardID int64) error {
	height, err := e.ledger.CurrentHeight(ctx)
	if err != nil {
		return fmt.Errorf("failed to read ledger height: %w", err)
	}

	var receipt string
	err = e.store.Atomic(ctx, func(ctx context.Context, tx Store) error {
		listing, err := tx.GetListing(ctx, cardID)
		if err != nil {
			return err
		}
		if listing.Expired(height) {
			return fmt.Errorf("listing for card %d expired at height %d: %w",
				cardID, listing.ExpiresAt, ErrNotFound)
		}

		state, err := tx.GetMarketState(ctx)
		if err != nil {
			return err
		}
		if !state.Enabled {
			return ErrMarketplaceDisabled
		}

		fee := listing.Price * state.FeeBasisPoints / FeeDenominator
		sellerAmount := listing.Price - fee

		if err := e.ledger.TransferFunds(ctx, caller, listing.SellerID, sellerAmount); err != nil {
			return err
		}
		if fee > 0 {
			if err := e.ledger.TransferFunds(ctx, caller, e.treasury, fee); err != nil {
				return err
			}
		}

		if err := tx.SetOwner(ctx, cardID, caller); err != nil {
			return err
		}

		status, err := tx.GetStatus(ctx, cardID)
		if err != nil {
			return err
		}
		status.Locked = false
		status.LastAction = height
		status.UpdatedAt = time.Now()
		if err := tx.PutStatus(ctx, status); err != nil {
			return err
		}

		if err := tx.DeleteListing(ctx, cardID); err != nil {
			return err
		}

		for _, upd := range []struct {
			user  string
			kind  StatKind
			delta int64
		}{
			{caller, StatOwned, 1},
			{caller, StatPurchased, 1},
			{caller, StatSpent, listing.Price},
			{listing.SellerID, StatSold, 1},
			{listing.SellerID, StatEarned, sellerAmount},
			{listing.SellerID, StatOwned, -1},
		} {
			if err := addStat(ctx, tx, upd.user, upd.kind, upd.delta); err != nil {
				return err
			}
		}

		state.TotalTraded++
		state.TotalVolume += listing.Price
		if err := tx.PutMarketState(ctx, state); err != nil {
			return err
		}

		receipt, err = generateTradeID()
		if err != nil {
			return err
		}
		return tx.RecordTrade(ctx, &models.Trade{
			TradeID:   receipt,
			CardID:    cardID,
			SellerID:  listing.SellerID,
			BuyerID:   caller,
			Price:     listing.Price,
			Fee:       fee,
			Height:    height,
			CreatedAt: time.Now(),
		})
	})
	if err != nil {
		return err
	}

	slog.Info("Card sold",
		slog.String("type", "market"),
		slog.Int64("card_id", cardID),
		slog.String("buyer", caller),
		slog.String("trade_id", receipt))

	return nil
}

// generateTradeID returns a short random receipt id for the trade record.
func generateTradeID() (string, error) {
	bytes := make([]byte, 5)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate trade id: %w", err)
	}
	return base32.StdEncoding.EncodeToString(bytes)[:tradeIDLength], nil
}
