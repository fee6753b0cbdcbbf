package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ellavondegurechaff/cardvault/cardvault"
	"github.com/ellavondegurechaff/cardvault/cardvault/database"
	"github.com/ellavondegurechaff/cardvault/cardvault/logger"
	"github.com/ellavondegurechaff/cardvault/cardvault/migration"
)

func main() {
	slog.SetDefault(slog.New(logger.NewHandler()))

	path := flag.String("config", "config.toml", "path to config")
	batchSize := flag.Int("batch-size", 1000, "insert batch size")
	useCopy := flag.Bool("use-copy", false, "bulk-load cards with pgx COPY (empty target table only)")
	flag.Parse()

	ctx := context.Background()

	cfg, err := cardvault.LoadConfig(*path)
	if err != nil {
		slog.Error("Failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	if cfg.Mongo.URI == "" || cfg.Mongo.Database == "" {
		slog.Error("Mongo URI and database must be set in the [mongo] config section")
		os.Exit(1)
	}

	db, err := database.New(ctx, cfg.DB)
	if err != nil {
		slog.Error("Failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	if err := db.InitSchema(ctx); err != nil {
		slog.Error("Failed to initialize schema", slog.Any("error", err))
		os.Exit(1)
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Mongo.URI))
	if err != nil {
		slog.Error("Failed to connect to Mongo", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() { _ = client.Disconnect(ctx) }()

	migrator := migration.NewMigrator(db.BunDB(), client, cfg.Mongo.Database)
	migrator.SetBatchSize(*batchSize)

	if *useCopy {
		pool, err := pgxpool.New(ctx, cfg.DB.DSN())
		if err != nil {
			slog.Error("Failed to create pgx pool", slog.Any("error", err))
			os.Exit(1)
		}
		defer pool.Close()
		migrator.UsePool(pool)
	}

	if err := migrator.MigrateAll(ctx); err != nil {
		slog.Error("Migration failed", slog.Any("error", err))
		os.Exit(1)
	}

	slog.Info("Migration completed successfully")
}
