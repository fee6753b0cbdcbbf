// Package migration imports a legacy MongoDB deployment into Postgres.
// Cards, ownerships and balances come over in bulk; counters such as
// last_card_id and per-account owned counts are rebuilt from the imported
// rows rather than trusted from the source.
package migration

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/uptrace/bun"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/sync/errgroup"

	"github.com/ellavondegurechaff/cardvault/cardvault/database/models"
)

type Migrator struct {
	pgDB      *bun.DB
	mongoDB   *mongo.Database
	batchSize int
	stats     MigrationStats

	// Optional fast path: COPY via pgx instead of batched inserts.
	pool *pgxpool.Pool

	collNames map[string]string
}

func NewMigrator(pgDB *bun.DB, client *mongo.Client, dbName string) *Migrator {
	return &Migrator{
		pgDB:      pgDB,
		mongoDB:   client.Database(dbName),
		batchSize: 1000,
		stats: MigrationStats{
			Tables:    make(map[string]*TableStats),
			StartTime: time.Now(),
		},
		collNames: map[string]string{
			"cards":      "cards",
			"ownerships": "usercards",
			"balances":   "balances",
		},
	}
}

// SetBatchSize overrides the default insert batch size.
func (m *Migrator) SetBatchSize(size int) {
	if size > 0 {
		m.batchSize = size
	}
}

// UsePool enables COPY FROM via pgx for the cards table.
func (m *Migrator) UsePool(pool *pgxpool.Pool) { m.pool = pool }

// SetCollectionName overrides a source collection name.
func (m *Migrator) SetCollectionName(kind, name string) {
	if kind != "" && name != "" {
		m.collNames[kind] = name
	}
}

func (m *Migrator) coll(kind string) *mongo.Collection {
	return m.mongoDB.Collection(m.collNames[kind])
}

// MigrateAll runs the full import. Cards must land before ownerships so
// owner rows always reference a known card.
func (m *Migrator) MigrateAll(ctx context.Context) error {
	slog.Info("Starting legacy Mongo migration", "batch_size", m.batchSize)
	m.stats.StartTime = time.Now()

	steps := []struct {
		name string
		fn   func(context.Context) error
	}{
		{"cards", m.MigrateCards},
		{"ownerships", m.MigrateOwnerships},
		{"balances", m.MigrateBalances},
		{"counters", m.RebuildCounters},
	}

	for _, step := range steps {
		start := time.Now()
		slog.Info("Starting migration step", "step", step.name)
		if err := step.fn(ctx); err != nil {
			return fmt.Errorf("migration failed at step %s: %w", step.name, err)
		}
		if ts, ok := m.stats.Tables[step.name]; ok {
			ts.Took = time.Since(start)
		}
		slog.Info("Completed migration step", "step", step.name, "took", time.Since(start))
	}

	m.stats.EndTime = time.Now()
	m.logFinalStats()
	return nil
}

// MigrateCards imports the legacy card definitions.
func (m *Migrator) MigrateCards(ctx context.Context) error {
	stats := &TableStats{}
	m.stats.Tables["cards"] = stats

	cur, err := m.coll("cards").Find(ctx, bson.D{})
	if err != nil {
		return fmt.Errorf("failed to query legacy cards: %w", err)
	}
	defer cur.Close(ctx)

	var batch []*models.Card
	for cur.Next(ctx) {
		var mc MongoCard
		if err := cur.Decode(&mc); err != nil {
			stats.Skipped++
			continue
		}
		card := m.convertCard(mc)
		if card == nil {
			stats.Skipped++
			continue
		}
		batch = append(batch, card)
		if len(batch) >= m.batchSize {
			if err := m.insertCards(ctx, batch); err != nil {
				return err
			}
			stats.Imported += int64(len(batch))
			batch = batch[:0]
		}
	}
	if err := cur.Err(); err != nil {
		return fmt.Errorf("legacy cards cursor: %w", err)
	}
	if len(batch) > 0 {
		if err := m.insertCards(ctx, batch); err != nil {
			return err
		}
		stats.Imported += int64(len(batch))
	}
	return nil
}

func (m *Migrator) convertCard(mc MongoCard) *models.Card {
	if mc.ID <= 0 || strings.TrimSpace(mc.Name) == "" {
		return nil
	}
	rarity := mc.Rarity
	if rarity < 1 {
		rarity = 1
	}
	if rarity > 6 {
		rarity = 6
	}
	level := mc.Level
	if level < 1 {
		level = 1
	}
	attrs := make([]models.Attribute, 0, len(mc.Traits))
	for _, trait := range mc.Traits {
		trait = strings.TrimSpace(trait)
		if trait == "" {
			continue
		}
		attrs = append(attrs, models.Attribute{Trait: "tag", Value: trait})
	}
	now := time.Now()
	return &models.Card{
		ID:          mc.ID,
		Name:        strings.TrimSpace(mc.Name),
		Description: mc.Desc,
		ImageURL:    mc.Image,
		Rarity:      rarity,
		Attributes:  attrs,
		Level:       level,
		Exp:         mc.Exp,
		Edition:     1,
		Series:      strings.TrimSpace(mc.Series),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func (m *Migrator) insertCards(ctx context.Context, cards []*models.Card) error {
	if m.pool != nil {
		if err := m.copyInsertCards(ctx, cards); err == nil {
			return nil
		} else {
			slog.Warn("COPY path failed, falling back to batch insert", "error", err)
		}
	}
	_, err := m.pgDB.NewInsert().
		Model(&cards).
		On("CONFLICT (id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to insert card batch: %w", err)
	}
	return nil
}

// copyInsertCards bulk-loads cards with pgx COPY. COPY has no conflict
// handling, so this path only works into an empty cards table.
func (m *Migrator) copyInsertCards(ctx context.Context, cards []*models.Card) error {
	conn, err := m.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire connection: %w", err)
	}
	defer conn.Release()

	rows := make([][]interface{}, len(cards))
	now := time.Now()
	for i, c := range cards {
		attrs, err := json.Marshal(c.Attributes)
		if err != nil {
			return fmt.Errorf("failed to encode attributes for card %d: %w", c.ID, err)
		}
		rows[i] = []interface{}{
			c.ID, c.Name, c.Description, c.ImageURL, c.Rarity, attrs,
			c.Level, c.Exp, c.Edition, c.Series, c.MintedAt, now, now,
		}
	}

	_, err = conn.Conn().CopyFrom(ctx,
		pgx.Identifier{"cards"},
		[]string{"id", "name", "description", "image_url", "rarity", "attributes", "level", "exp", "edition", "series", "minted_at", "created_at", "updated_at"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return fmt.Errorf("COPY cards failed: %w", err)
	}
	return nil
}

// MigrateOwnerships imports card ownership rows. Owner ids from the old
// deployment were Discord snowflakes; rows with ids that do not parse are
// skipped with a warning.
func (m *Migrator) MigrateOwnerships(ctx context.Context) error {
	stats := &TableStats{}
	m.stats.Tables["ownerships"] = stats

	validCardIDs := make(map[int64]bool)
	var ids []int64
	err := m.pgDB.NewSelect().
		Model((*models.Card)(nil)).
		Column("id").
		Scan(ctx, &ids)
	if err != nil {
		return fmt.Errorf("failed to load imported card ids: %w", err)
	}
	for _, id := range ids {
		validCardIDs[id] = true
	}

	cur, err := m.coll("ownerships").Find(ctx, bson.D{})
	if err != nil {
		return fmt.Errorf("failed to query legacy ownerships: %w", err)
	}
	defer cur.Close(ctx)

	ownedCounts := make(map[string]int64)
	var batch []*models.Ownership
	var statuses []*models.CardStatus

	for cur.Next(ctx) {
		var mo MongoOwnership
		if err := cur.Decode(&mo); err != nil {
			stats.Skipped++
			continue
		}
		if mo.CardID == nil || !validCardIDs[*mo.CardID] {
			stats.Skipped++
			continue
		}
		if _, err := snowflake.Parse(mo.OwnerID); err != nil {
			slog.Warn("Skipping ownership with malformed owner id",
				"card_id", *mo.CardID,
				"owner_id", mo.OwnerID)
			stats.Skipped++
			continue
		}

		now := time.Now()
		batch = append(batch, &models.Ownership{
			CardID:    *mo.CardID,
			OwnerID:   mo.OwnerID,
			UpdatedAt: now,
		})
		// Locks do not survive the import. The old marketplace is gone,
		// so a lock with no listing behind it would strand the card.
		statuses = append(statuses, &models.CardStatus{
			CardID:    *mo.CardID,
			Locked:    false,
			UpdatedAt: now,
		})
		ownedCounts[mo.OwnerID]++

		if len(batch) >= m.batchSize {
			if err := m.insertOwnerships(ctx, batch, statuses); err != nil {
				return err
			}
			stats.Imported += int64(len(batch))
			batch = batch[:0]
			statuses = statuses[:0]
		}
	}
	if err := cur.Err(); err != nil {
		return fmt.Errorf("legacy ownerships cursor: %w", err)
	}
	if len(batch) > 0 {
		if err := m.insertOwnerships(ctx, batch, statuses); err != nil {
			return err
		}
		stats.Imported += int64(len(batch))
	}

	return m.writeOwnedCounts(ctx, ownedCounts)
}

func (m *Migrator) insertOwnerships(ctx context.Context, ownerships []*models.Ownership, statuses []*models.CardStatus) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		_, err := m.pgDB.NewInsert().
			Model(&ownerships).
			On("CONFLICT (card_id) DO UPDATE").
			Set("owner_id = EXCLUDED.owner_id").
			Set("updated_at = EXCLUDED.updated_at").
			Exec(gctx)
		if err != nil {
			return fmt.Errorf("failed to insert ownership batch: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		_, err := m.pgDB.NewInsert().
			Model(&statuses).
			On("CONFLICT (card_id) DO NOTHING").
			Exec(gctx)
		if err != nil {
			return fmt.Errorf("failed to insert status batch: %w", err)
		}
		return nil
	})
	return g.Wait()
}

func (m *Migrator) writeOwnedCounts(ctx context.Context, counts map[string]int64) error {
	var stats []*models.UserStats
	now := time.Now()
	for userID, owned := range counts {
		stats = append(stats, &models.UserStats{
			UserID:    userID,
			Owned:     owned,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}
	if len(stats) == 0 {
		return nil
	}
	_, err := m.pgDB.NewInsert().
		Model(&stats).
		On("CONFLICT (user_id) DO UPDATE").
		Set("owned = EXCLUDED.owned").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to write owned counts: %w", err)
	}
	return nil
}

// MigrateBalances imports account balances into the ledger table.
func (m *Migrator) MigrateBalances(ctx context.Context) error {
	stats := &TableStats{}
	m.stats.Tables["balances"] = stats

	cur, err := m.coll("balances").Find(ctx, bson.D{})
	if err != nil {
		slog.Warn("Balances collection not found, skipping")
		return nil
	}
	defer cur.Close(ctx)

	var batch []*models.Account
	now := time.Now()
	for cur.Next(ctx) {
		var mb MongoBalance
		if err := cur.Decode(&mb); err != nil {
			stats.Skipped++
			continue
		}
		if mb.UserID == "" || mb.Balance < 0 {
			stats.Skipped++
			continue
		}
		batch = append(batch, &models.Account{
			ID:        mb.UserID,
			Balance:   mb.Balance,
			CreatedAt: now,
			UpdatedAt: now,
		})
		if len(batch) >= m.batchSize {
			if err := m.insertAccounts(ctx, batch); err != nil {
				return err
			}
			stats.Imported += int64(len(batch))
			batch = batch[:0]
		}
	}
	if err := cur.Err(); err != nil {
		return fmt.Errorf("legacy balances cursor: %w", err)
	}
	if len(batch) > 0 {
		if err := m.insertAccounts(ctx, batch); err != nil {
			return err
		}
		stats.Imported += int64(len(batch))
	}
	return nil
}

func (m *Migrator) insertAccounts(ctx context.Context, accounts []*models.Account) error {
	_, err := m.pgDB.NewInsert().
		Model(&accounts).
		On("CONFLICT (id) DO UPDATE").
		Set("balance = EXCLUDED.balance").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to insert account batch: %w", err)
	}
	return nil
}

// RebuildCounters recomputes market_state counters from imported rows so
// the next mint cannot collide with an imported card id.
func (m *Migrator) RebuildCounters(ctx context.Context) error {
	m.stats.Tables["counters"] = &TableStats{}

	var maxID int64
	err := m.pgDB.NewSelect().
		Model((*models.Card)(nil)).
		ColumnExpr("COALESCE(MAX(id), 0)").
		Scan(ctx, &maxID)
	if err != nil {
		return fmt.Errorf("failed to read max card id: %w", err)
	}

	total, err := m.pgDB.NewSelect().
		Model((*models.Card)(nil)).
		Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count imported cards: %w", err)
	}

	_, err = m.pgDB.NewUpdate().
		Model((*models.MarketState)(nil)).
		Set("last_card_id = GREATEST(last_card_id, ?)", maxID).
		Set("total_created = GREATEST(total_created, ?)", int64(total)).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", models.MarketStateID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to rebuild market counters: %w", err)
	}

	slog.Info("Rebuilt market counters", "last_card_id", maxID, "total_created", total)
	m.stats.Tables["counters"].Imported = 1
	return nil
}

func (m *Migrator) logFinalStats() {
	for name, ts := range m.stats.Tables {
		slog.Info("Migration table summary",
			"table", name,
			"imported", ts.Imported,
			"skipped", ts.Skipped,
			"took", ts.Took)
	}
	slog.Info("Migration finished", "total", m.stats.EndTime.Sub(m.stats.StartTime))
}
