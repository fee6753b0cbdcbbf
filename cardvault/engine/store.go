package engine

import (
	"context"

	"github.com/ellavondegurechaff/cardvault/cardvault/database/models"
)

// Store is the durable ledger contract the engine runs against: keyed reads
// and writes over the card tables plus an atomic-commit wrapper. The
// Postgres implementation lives in database/repositories; tests use an
// in-memory fake.
//
// GetStatus and GetUserStats are get-or-default: a missing row comes back as
// the zero value, never as ErrNotFound. GetCard, GetOwner, GetListing and
// GetSeries return ErrNotFound for missing keys.
type Store interface {
	// Atomic runs fn inside one serializable transaction. The Store handed
	// to fn routes every call through that transaction, and the returned
	// context carries it for collaborating services.
	Atomic(ctx context.Context, fn func(ctx context.Context, tx Store) error) error

	GetCard(ctx context.Context, id int64) (*models.Card, error)
	CreateCard(ctx context.Context, card *models.Card) error
	UpdateCard(ctx context.Context, card *models.Card) error
	ListCards(ctx context.Context) ([]*models.Card, error)

	GetOwner(ctx context.Context, cardID int64) (string, error)
	SetOwner(ctx context.Context, cardID int64, ownerID string) error

	GetStatus(ctx context.Context, cardID int64) (*models.CardStatus, error)
	PutStatus(ctx context.Context, status *models.CardStatus) error

	GetListing(ctx context.Context, cardID int64) (*models.Listing, error)
	PutListing(ctx context.Context, listing *models.Listing) error
	DeleteListing(ctx context.Context, cardID int64) error
	ListListings(ctx context.Context) ([]*models.Listing, error)

	GetUserStats(ctx context.Context, userID string) (*models.UserStats, error)
	PutUserStats(ctx context.Context, stats *models.UserStats) error

	GetMarketState(ctx context.Context) (*models.MarketState, error)
	PutMarketState(ctx context.Context, state *models.MarketState) error

	RecordTrade(ctx context.Context, trade *models.Trade) error
	TradesByCard(ctx context.Context, cardID int64, limit int) ([]*models.Trade, error)

	GetSeries(ctx context.Context, name string) (*models.Series, error)
	PutSeries(ctx context.Context, series *models.Series) error
}

// Ledger is the external account service the engine settles against. The
// funds transfer joins the engine's ambient store transaction when the
// implementation shares the same database.
type Ledger interface {
	TransferFunds(ctx context.Context, from, to string, amount int64) error
	CurrentHeight(ctx context.Context) (int64, error)
}
