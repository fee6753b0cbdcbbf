package engine

import (
	lru "github.com/hashicorp/golang-lru"
)

const (
	// Rarity tiers run from Common (1) to Mythic (6).
	MinRarity = 1
	MaxRarity = 6

	// MaxAttributes caps the trait/value pairs a card can be minted with.
	MaxAttributes = 10

	// FeeDenominator is the basis-point scale for marketplace fees:
	// 1000 = 100%, so a fee of 25 basis points is 2.5%.
	FeeDenominator = 1000

	defaultCacheSize = 10000
)

// Config carries the injected identities the engine authorizes against.
type Config struct {
	// Admin may flip the marketplace switch, change the fee and register
	// series.
	Admin string
	// Treasury receives the marketplace fee on every sale.
	Treasury string
	// CacheSize bounds the card detail read cache. Zero means the default.
	CacheSize int
}

// Engine is the shared card registry and marketplace state machine. Every
// operation takes the caller identity explicitly and executes as one atomic
// store transaction; concurrent callers are serialized by the store.
type Engine struct {
	store    Store
	ledger   Ledger
	admin    string
	treasury string
	cards    *lru.Cache
}

func New(store Store, ledger Ledger, cfg Config) *Engine {
	size := cfg.CacheSize
	if size <= 0 {
		size = defaultCacheSize
	}
	cache, _ := lru.New(size)

	return &Engine{
		store:    store,
		ledger:   ledger,
		admin:    cfg.Admin,
		treasury: cfg.Treasury,
		cards:    cache,
	}
}

// Store exposes the underlying store for read-side collaborators (search).
func (e *Engine) Store() Store {
	return e.store
}
