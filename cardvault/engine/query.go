package engine

import (
	"context"

	"github.com/ellavondegurechaff/cardvault/cardvault/database/models"
)

// CardDetails returns the card record, served from the LRU cache when the
// card has not changed since the last read.
func (e *Engine) CardDetails(ctx context.Context, cardID int64) (*models.Card, error) {
	if cached, ok := e.cards.Get(cardID); ok {
		return cached.(*models.Card), nil
	}

	card, err := e.store.GetCard(ctx, cardID)
	if err != nil {
		return nil, err
	}
	e.cards.Add(cardID, card)
	return card, nil
}

// OwnerOf returns the current owner, or ErrNotFound for an unknown card.
func (e *Engine) OwnerOf(ctx context.Context, cardID int64) (string, error) {
	return e.store.GetOwner(ctx, cardID)
}

// StatusOf returns the card's status; absent status reads as unlocked and
// zeroed, never as an error.
func (e *Engine) StatusOf(ctx context.Context, cardID int64) (*models.CardStatus, error) {
	return e.store.GetStatus(ctx, cardID)
}

// StatsOf returns the account's aggregate counters, zeroed when absent.
func (e *Engine) StatsOf(ctx context.Context, userID string) (*models.UserStats, error) {
	return e.store.GetUserStats(ctx, userID)
}

// ListingOf returns the active (possibly expired) listing for a card.
func (e *Engine) ListingOf(ctx context.Context, cardID int64) (*models.Listing, error) {
	return e.store.GetListing(ctx, cardID)
}

// LastCardID returns the most recently allocated card id.
func (e *Engine) LastCardID(ctx context.Context) (int64, error) {
	state, err := e.store.GetMarketState(ctx)
	if err != nil {
		return 0, err
	}
	return state.LastCardID, nil
}

// MarketSnapshot returns the scalar market state (fee, switch, totals).
func (e *Engine) MarketSnapshot(ctx context.Context) (*models.MarketState, error) {
	return e.store.GetMarketState(ctx)
}

// TradeHistory returns the most recent trades for a card, newest first.
func (e *Engine) TradeHistory(ctx context.Context, cardID int64, limit int) ([]*models.Trade, error) {
	return e.store.TradesByCard(ctx, cardID, limit)
}
