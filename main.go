package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ellavondegurechaff/cardvault/cardvault"
	"github.com/ellavondegurechaff/cardvault/cardvault/database"
	"github.com/ellavondegurechaff/cardvault/cardvault/database/repositories"
	"github.com/ellavondegurechaff/cardvault/cardvault/engine"
	"github.com/ellavondegurechaff/cardvault/cardvault/ledger"
	"github.com/ellavondegurechaff/cardvault/cardvault/logger"
	"github.com/ellavondegurechaff/cardvault/cardvault/services"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	customHandler := logger.NewHandler()
	slog.SetDefault(slog.New(customHandler))

	slog.Info("Starting CardVault",
		slog.String("version", version),
		slog.String("commit", commit))

	path := flag.String("config", "config.toml", "path to config")
	monitorEvery := flag.Duration("monitor-interval", time.Minute, "market monitor interval")
	flag.Parse()

	cfg, err := cardvault.LoadConfig(*path)
	if err != nil {
		slog.Error("Failed to load configuration", slog.Any("error", err))
		os.Exit(-1)
	}
	slog.Info("Configuration loaded successfully")

	slog.Info("Initializing database connection...")
	dbStartTime := time.Now()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	db, err := database.New(ctx, cfg.DB)
	if err != nil {
		slog.Error("Database connection failed",
			slog.String("error", err.Error()),
			slog.Duration("attempted_for", time.Since(dbStartTime)))
		os.Exit(-1)
	}
	defer db.Close()

	slog.Info("Database connected successfully",
		slog.String("database", cfg.DB.Database),
		slog.Duration("took", time.Since(dbStartTime)))

	slog.Info("Initializing database schema...")
	if err := db.InitSchema(ctx); err != nil {
		slog.Error("Failed to initialize database schema",
			slog.String("error", err.Error()))
		os.Exit(-1)
	}
	slog.Info("Database schema initialized successfully")

	store := repositories.NewStore(db)
	if err := store.EnsureMarketState(ctx, cfg.Market.FeeBasisPoints, cfg.Market.Enabled); err != nil {
		slog.Error("Failed to seed market state", slog.Any("error", err))
		os.Exit(-1)
	}

	ldg := ledger.New(db)

	eng := engine.New(store, ldg, engine.Config{
		Admin:    cfg.Market.Admin,
		Treasury: cfg.Market.Treasury,
	})

	searchService := services.NewSearchService(store)
	if cards, err := searchService.SearchCards(ctx, services.SearchFilters{}); err == nil {
		slog.Info("Card registry loaded", slog.Int("cards", len(cards)))
	}

	if cfg.Spaces.Key != "" {
		imageService, err := services.NewCardImageService(ctx,
			cfg.Spaces.Key,
			cfg.Spaces.Secret,
			cfg.Spaces.Region,
			cfg.Spaces.Bucket,
			cfg.Spaces.CardRoot,
		)
		if err != nil {
			slog.Error("Failed to initialize card image service", slog.Any("error", err))
			os.Exit(-1)
		}
		slog.Info("Card image service initialized",
			slog.String("bucket", imageService.GetBucket()),
			slog.String("region", imageService.GetRegion()))
	}

	monitorCtx, stopMonitor := context.WithCancel(context.Background())
	defer stopMonitor()
	go runMarketMonitor(monitorCtx, eng, ldg, *monitorEvery)

	logger.LogSystem("CardVault is running. Press CTRL-C to exit.")

	s := make(chan os.Signal, 1)
	signal.Notify(s, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-s

	slog.Info("Shutting down...")
}

// runMarketMonitor periodically logs a market overview: totals from the
// market state plus a live active/expired split of the order book.
func runMarketMonitor(ctx context.Context, eng *engine.Engine, ldg *ledger.Service, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			snapshot, err := eng.MarketSnapshot(ctx)
			if err != nil {
				logger.LogError("Market monitor failed to read state", err)
				continue
			}

			height, err := ldg.CurrentHeight(ctx)
			if err != nil {
				logger.LogError("Market monitor failed to read height", err)
				continue
			}

			listings, err := eng.Store().ListListings(ctx)
			if err != nil {
				logger.LogError("Market monitor failed to list orders", err)
				continue
			}

			var active, expired int
			for _, l := range listings {
				if l.Expired(height) {
					expired++
				} else {
					active++
				}
			}

			slog.Info("Market overview",
				slog.String("type", "market"),
				slog.Int64("height", height),
				slog.Bool("enabled", snapshot.Enabled),
				slog.Int64("fee_bps", snapshot.FeeBasisPoints),
				slog.Int64("cards_minted", snapshot.TotalCreated),
				slog.Int64("trades", snapshot.TotalTraded),
				slog.Int64("volume", snapshot.TotalVolume),
				slog.Int("active_listings", active),
				slog.Int("expired_listings", expired))
		}
	}
}
