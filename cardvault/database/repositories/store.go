package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"github.com/ellavondegurechaff/cardvault/cardvault/database"
	"github.com/ellavondegurechaff/cardvault/cardvault/database/models"
	"github.com/ellavondegurechaff/cardvault/cardvault/engine"
)

// Store is the bun/Postgres implementation of engine.Store. Outside of
// Atomic it reads through the connection pool; inside, every method routes
// through the open transaction.
type Store struct {
	db  *database.DB
	idb bun.IDB
}

func NewStore(db *database.DB) *Store {
	return &Store{db: db, idb: db.BunDB()}
}

// Atomic runs fn in a serializable transaction. The transaction is also
// attached to the context so the ledger service joins it.
func (s *Store) Atomic(ctx context.Context, fn func(ctx context.Context, tx engine.Store) error) error {
	bunTx, err := s.db.BunDB().BeginTx(ctx, &sql.TxOptions{
		Isolation: sql.LevelSerializable,
	})
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer bunTx.Rollback()

	txStore := &Store{db: s.db, idb: bunTx}
	if err := fn(database.ContextWithTx(ctx, bunTx), txStore); err != nil {
		return err
	}

	if err := bunTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// EnsureMarketState seeds the singleton market state row on first start.
// The configured fee and switch only apply to a fresh database; afterwards
// the persisted values win and are changed through admin operations.
func (s *Store) EnsureMarketState(ctx context.Context, feeBasisPoints int64, enabled bool) error {
	_, err := s.idb.NewInsert().
		Model(&models.MarketState{
			ID:             models.MarketStateID,
			FeeBasisPoints: feeBasisPoints,
			Enabled:        enabled,
			UpdatedAt:      time.Now(),
		}).
		On("CONFLICT (id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to seed market state: %w", err)
	}
	return nil
}

func (s *Store) GetMarketState(ctx context.Context) (*models.MarketState, error) {
	state := new(models.MarketState)
	err := s.idb.NewSelect().
		Model(state).
		Where("id = ?", models.MarketStateID).
		Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("market state: %w", engine.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get market state: %w", err)
	}
	return state, nil
}

func (s *Store) PutMarketState(ctx context.Context, state *models.MarketState) error {
	state.UpdatedAt = time.Now()
	_, err := s.idb.NewUpdate().
		Model(state).
		WherePK().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update market state: %w", err)
	}
	return nil
}
