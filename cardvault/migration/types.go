package migration

import "time"

// Legacy Mongo document shapes. Field names follow the old deployment's
// collections, not ours.

type MongoCard struct {
	ID     int64    `bson:"id"`
	Name   string   `bson:"name"`
	Desc   string   `bson:"desc"`
	Image  string   `bson:"image"`
	Rarity int      `bson:"rarity"`
	Level  int      `bson:"level"`
	Exp    int64    `bson:"exp"`
	Series string   `bson:"series"`
	Traits []string `bson:"traits"`
}

type MongoOwnership struct {
	CardID  *int64 `bson:"card_id"`
	OwnerID string `bson:"owner_id"`
	Locked  bool   `bson:"locked"`
}

type MongoBalance struct {
	UserID  string `bson:"user_id"`
	Balance int64  `bson:"balance"`
}

type TableStats struct {
	Imported int64
	Skipped  int64
	Took     time.Duration
}

type MigrationStats struct {
	Tables    map[string]*TableStats
	StartTime time.Time
	EndTime   time.Time
}
