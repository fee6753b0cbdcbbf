package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	"github.com/ellavondegurechaff/cardvault/cardvault/database/models"
)

const (
	defaultConnTimeout  = 5 * time.Second
	defaultMaxRetries   = 5
	defaultRetryMaxWait = 30 * time.Second
)

type DBConfig struct {
	Host     string `toml:"host" env:"CARDVAULT_DB_HOST"`
	Port     int    `toml:"port" env:"CARDVAULT_DB_PORT"`
	User     string `toml:"user" env:"CARDVAULT_DB_USER"`
	Password string `toml:"password" env:"CARDVAULT_DB_PASSWORD"`
	Database string `toml:"database" env:"CARDVAULT_DB_DATABASE"`
	PoolSize int    `toml:"pool_size" env:"CARDVAULT_DB_POOL_SIZE"`
}

// DSN returns a postgres connection string for clients that do not go
// through bun (the migration tool's pgx pool).
func (cfg DBConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Database)
}

type DB struct {
	bunDB *bun.DB
}

// New opens a bun/Postgres connection and verifies it with exponential
// backoff before returning.
func New(ctx context.Context, cfg DBConfig) (*DB, error) {
	sqldb := sql.OpenDB(pgdriver.NewConnector(
		pgdriver.WithAddr(fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)),
		pgdriver.WithUser(cfg.User),
		pgdriver.WithPassword(cfg.Password),
		pgdriver.WithDatabase(cfg.Database),
		pgdriver.WithInsecure(true),
		pgdriver.WithDialTimeout(defaultConnTimeout),
	))

	poolSize := cfg.PoolSize
	if poolSize <= 0 {
		poolSize = 10
	}
	sqldb.SetMaxOpenConns(poolSize)
	sqldb.SetMaxIdleConns(poolSize / 2)
	sqldb.SetConnMaxLifetime(time.Hour)

	bunDB := bun.NewDB(sqldb, pgdialect.New())

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(
		backoff.WithMaxElapsedTime(defaultRetryMaxWait),
	), defaultMaxRetries), ctx)

	if err := backoff.RetryNotify(func() error {
		pingCtx, cancel := context.WithTimeout(ctx, defaultConnTimeout)
		defer cancel()
		return bunDB.PingContext(pingCtx)
	}, policy, func(err error, wait time.Duration) {
		slog.Warn("Database ping failed, retrying",
			slog.String("type", "db"),
			slog.Any("error", err),
			slog.Duration("retry_in", wait))
	}); err != nil {
		_ = bunDB.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &DB{bunDB: bunDB}, nil
}

func (d *DB) BunDB() *bun.DB {
	return d.bunDB
}

func (d *DB) Close() error {
	return d.bunDB.Close()
}

// InitSchema creates all tables and indexes if they do not exist and seeds
// the singleton rows and rarity tiers.
func (d *DB) InitSchema(ctx context.Context) error {
	tables := []any{
		(*models.Card)(nil),
		(*models.Ownership)(nil),
		(*models.CardStatus)(nil),
		(*models.Listing)(nil),
		(*models.UserStats)(nil),
		(*models.MarketState)(nil),
		(*models.Trade)(nil),
		(*models.Series)(nil),
		(*models.RarityTier)(nil),
		(*models.Account)(nil),
		(*models.ChainState)(nil),
	}

	for _, table := range tables {
		if _, err := d.bunDB.NewCreateTable().
			Model(table).
			IfNotExists().
			Exec(ctx); err != nil {
			return fmt.Errorf("failed to create table for %T: %w", table, err)
		}
	}

	indexes := []struct {
		model  any
		name   string
		column string
	}{
		{(*models.Listing)(nil), "idx_listings_seller_id", "seller_id"},
		{(*models.Trade)(nil), "idx_trades_card_id", "card_id"},
		{(*models.Ownership)(nil), "idx_ownerships_owner_id", "owner_id"},
	}

	for _, idx := range indexes {
		if _, err := d.bunDB.NewCreateIndex().
			Model(idx.model).
			Index(idx.name).
			Column(idx.column).
			IfNotExists().
			Exec(ctx); err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}
	}

	if err := d.seedRarityTiers(ctx); err != nil {
		return err
	}

	if _, err := d.bunDB.NewInsert().
		Model(&models.ChainState{ID: 1, UpdatedAt: time.Now()}).
		On("CONFLICT (id) DO NOTHING").
		Exec(ctx); err != nil {
		return fmt.Errorf("failed to seed chain state: %w", err)
	}

	return nil
}

func (d *DB) seedRarityTiers(ctx context.Context) error {
	tiers := []models.RarityTier{
		{Rarity: 1, Name: "Common"},
		{Rarity: 2, Name: "Uncommon"},
		{Rarity: 3, Name: "Rare"},
		{Rarity: 4, Name: "Epic"},
		{Rarity: 5, Name: "Legendary"},
		{Rarity: 6, Name: "Mythic"},
	}

	if _, err := d.bunDB.NewInsert().
		Model(&tiers).
		On("CONFLICT (rarity) DO NOTHING").
		Exec(ctx); err != nil {
		return fmt.Errorf("failed to seed rarity tiers: %w", err)
	}
	return nil
}
