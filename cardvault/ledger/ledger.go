// Package ledger is the account/balance service the engine settles trades
// against, backed by the same Postgres database. Transfers join the ambient
// store transaction when one is running, so a purchase settles funds and
// state all-or-nothing.
package ledger

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

type Service struct {
	db *database.DB
}

func New(db *database.DB) *Service {
	return &Service{db: db}
}

func (s *Service) idb(ctx context.Context) bun.IDB {
	return database.IDBFromContext(ctx, s.db.BunDB())
}

// TransferFunds moves amount from one account to the other. It fails with
// engine.ErrInsufficientFunds when the source balance does not cover the
// amount, without touching either account.
func (s *Service) TransferFunds(ctx context.Context, from, to string, amount int64) error {
	if amount < 0 {
		return fmt.Errorf("transfer amount must not be negative: %w", engine.ErrInvalidArgument)
	}
	if amount == 0 || from == to {
		return nil
	}

	idb := s.idb(ctx)

	result, err := idb.NewUpdate().
		Model((*models.Account)(nil)).
		Set("balance = balance - ?", amount).
		Set("updated_at = ?", time.Now()).
		Where("id = ? AND balance >= ?", from, amount).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to debit account %s: %w", from, err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return fmt.Errorf("account %s cannot cover %d: %w", from, amount, engine.ErrInsufficientFunds)
	}

	_, err = idb.NewInsert().
		Model(&models.Account{
			ID:        to,
			Balance:   amount,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}).
		On("CONFLICT (id) DO UPDATE").
		Set("balance = a.balance + EXCLUDED.balance").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to credit account %s: %w", to, err)
	}

	return nil
}

// CurrentHeight returns the ledger's logical clock.
func (s *Service) CurrentHeight(ctx context.Context) (int64, error) {
	state := new(models.ChainState)
	err := s.idb(ctx).NewSelect().
		Model(state).
		Where("id = 1").
		Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, fmt.Errorf("chain state: %w", engine.ErrNotFound)
		}
		return 0, fmt.Errorf("failed to read chain height: %w", err)
	}
	return state.Height, nil
}

// AdvanceHeight moves the logical clock forward. The hosting environment
// drives this; it exists here so deployments without a real chain can run.
func (s *Service) AdvanceHeight(ctx context.Context, by int64) error {
	if by <= 0 {
		return fmt.Errorf("height advance must be positive: %w", engine.ErrInvalidArgument)
	}
	_, err := s.idb(ctx).NewUpdate().
		Model((*models.ChainState)(nil)).
		Set("height = height + ?", by).
		Set("updated_at = ?", time.Now()).
		Where("id = 1").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to advance height: %w", err)
	}
	return nil
}

// Deposit credits an account out of thin air. Issuance is the ledger's
// authority, not the engine's; this backs account funding and imports.
func (s *Service) Deposit(ctx context.Context, account string, amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("deposit amount must be positive: %w", engine.ErrInvalidArgument)
	}
	_, err := s.idb(ctx).NewInsert().
		Model(&models.Account{
			ID:        account,
			Balance:   amount,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}).
		On("CONFLICT (id) DO UPDATE").
		Set("balance = a.balance + EXCLUDED.balance").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to deposit into account %s: %w", account, err)
	}
	return nil
}

// Balance returns the account balance, zero for unknown accounts.
func (s *Service) Balance(ctx context.Context, account string) (int64, error) {
	acc := new(models.Account)
	err := s.idb(ctx).NewSelect().
		Model(acc).
		Where("id = ?", account).
		Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to get balance: %w", err)
	}
	return acc.Balance, nil
}
