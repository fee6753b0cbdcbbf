package engine

import (
	"context"
	"fmt"

	"github.com/ellavondegurechaff/cardvault/cardvault/database/models"
)

// memStore is an in-memory Store with snapshot-rollback Atomic. Ledger
// balances live inside it so a failed transaction rolls back funds and
// state together, the way the Postgres store and ledger share one
// transaction.
type memStore struct {
	cards    map[int64]*models.Card
	owners   map[int64]string
	statuses map[int64]*models.CardStatus
	listings map[int64]*models.Listing
	stats    map[string]*models.UserStats
	state    *models.MarketState
	trades   []*models.Trade
	series   map[string]*models.Series

	balances map[string]int64
	height   int64
}

func newMemStore() *memStore {
	return &memStore{
		cards:    make(map[int64]*models.Card),
		owners:   make(map[int64]string),
		statuses: make(map[int64]*models.CardStatus),
		listings: make(map[int64]*models.Listing),
		stats:    make(map[string]*models.UserStats),
		state:    &models.MarketState{ID: models.MarketStateID, FeeBasisPoints: 25, Enabled: true},
		series:   make(map[string]*models.Series),
		balances: make(map[string]int64),
		height:   1,
	}
}

func (s *memStore) clone() *memStore {
	cp := newMemStore()
	for k, v := range s.cards {
		c := *v
		cp.cards[k] = &c
	}
	for k, v := range s.owners {
		cp.owners[k] = v
	}
	for k, v := range s.statuses {
		st := *v
		cp.statuses[k] = &st
	}
	for k, v := range s.listings {
		l := *v
		cp.listings[k] = &l
	}
	for k, v := range s.stats {
		us := *v
		cp.stats[k] = &us
	}
	state := *s.state
	cp.state = &state
	cp.trades = append([]*models.Trade(nil), s.trades...)
	for k, v := range s.series {
		sr := *v
		cp.series[k] = &sr
	}
	for k, v := range s.balances {
		cp.balances[k] = v
	}
	cp.height = s.height
	return cp
}

func (s *memStore) restore(from *memStore) {
	s.cards = from.cards
	s.owners = from.owners
	s.statuses = from.statuses
	s.listings = from.listings
	s.stats = from.stats
	s.state = from.state
	s.trades = from.trades
	s.series = from.series
	s.balances = from.balances
	s.height = from.height
}

func (s *memStore) Atomic(ctx context.Context, fn func(ctx context.Context, tx Store) error) error {
	snapshot := s.clone()
	if err := fn(ctx, s); err != nil {
		s.restore(snapshot)
		return err
	}
	return nil
}

func (s *memStore) GetCard(_ context.Context, id int64) (*models.Card, error) {
	c, ok := s.cards[id]
	if !ok {
		return nil, fmt.Errorf("card %d: %w", id, ErrNotFound)
	}
	cp := *c
	return &cp, nil
}

func (s *memStore) CreateCard(_ context.Context, card *models.Card) error {
	if _, ok := s.cards[card.ID]; ok {
		return fmt.Errorf("card %d: %w", card.ID, ErrAlreadyExists)
	}
	cp := *card
	s.cards[card.ID] = &cp
	return nil
}

func (s *memStore) UpdateCard(_ context.Context, card *models.Card) error {
	cp := *card
	s.cards[card.ID] = &cp
	return nil
}

func (s *memStore) ListCards(_ context.Context) ([]*models.Card, error) {
	var out []*models.Card
	for _, c := range s.cards {
		cp := *c
		out = append(out, &cp)
	}
	return out, nil
}

func (s *memStore) GetOwner(_ context.Context, cardID int64) (string, error) {
	owner, ok := s.owners[cardID]
	if !ok {
		return "", fmt.Errorf("owner of card %d: %w", cardID, ErrNotFound)
	}
	return owner, nil
}

func (s *memStore) SetOwner(_ context.Context, cardID int64, ownerID string) error {
	s.owners[cardID] = ownerID
	return nil
}

func (s *memStore) GetStatus(_ context.Context, cardID int64) (*models.CardStatus, error) {
	st, ok := s.statuses[cardID]
	if !ok {
		return &models.CardStatus{CardID: cardID}, nil
	}
	cp := *st
	return &cp, nil
}

func (s *memStore) PutStatus(_ context.Context, status *models.CardStatus) error {
	cp := *status
	s.statuses[status.CardID] = &cp
	return nil
}

func (s *memStore) GetListing(_ context.Context, cardID int64) (*models.Listing, error) {
	l, ok := s.listings[cardID]
	if !ok {
		return nil, fmt.Errorf("listing for card %d: %w", cardID, ErrNotFound)
	}
	cp := *l
	return &cp, nil
}

func (s *memStore) PutListing(_ context.Context, listing *models.Listing) error {
	cp := *listing
	s.listings[listing.CardID] = &cp
	return nil
}

func (s *memStore) DeleteListing(_ context.Context, cardID int64) error {
	delete(s.listings, cardID)
	return nil
}

func (s *memStore) ListListings(_ context.Context) ([]*models.Listing, error) {
	var out []*models.Listing
	for _, l := range s.listings {
		cp := *l
		out = append(out, &cp)
	}
	return out, nil
}

func (s *memStore) GetUserStats(_ context.Context, userID string) (*models.UserStats, error) {
	st, ok := s.stats[userID]
	if !ok {
		return &models.UserStats{UserID: userID}, nil
	}
	cp := *st
	return &cp, nil
}

func (s *memStore) PutUserStats(_ context.Context, stats *models.UserStats) error {
	cp := *stats
	s.stats[stats.UserID] = &cp
	return nil
}

func (s *memStore) GetMarketState(_ context.Context) (*models.MarketState, error) {
	cp := *s.state
	return &cp, nil
}

func (s *memStore) PutMarketState(_ context.Context, state *models.MarketState) error {
	cp := *state
	s.state = &cp
	return nil
}

func (s *memStore) RecordTrade(_ context.Context, trade *models.Trade) error {
	cp := *trade
	s.trades = append(s.trades, &cp)
	return nil
}

func (s *memStore) TradesByCard(_ context.Context, cardID int64, limit int) ([]*models.Trade, error) {
	if limit <= 0 {
		limit = 50
	}
	var out []*models.Trade
	for i := len(s.trades) - 1; i >= 0 && len(out) < limit; i-- {
		if s.trades[i].CardID == cardID {
			cp := *s.trades[i]
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *memStore) GetSeries(_ context.Context, name string) (*models.Series, error) {
	sr, ok := s.series[name]
	if !ok {
		return nil, fmt.Errorf("series %q: %w", name, ErrNotFound)
	}
	cp := *sr
	return &cp, nil
}

func (s *memStore) PutSeries(_ context.Context, series *models.Series) error {
	cp := *series
	s.series[series.Name] = &cp
	return nil
}

// memLedger settles against the memStore's balance map so tests observe
// all-or-nothing behavior across funds and card state.
type memLedger struct {
	store *memStore
}

func (l *memLedger) TransferFunds(_ context.Context, from, to string, amount int64) error {
	if amount == 0 || from == to {
		return nil
	}
	if l.store.balances[from] < amount {
		return fmt.Errorf("account %s cannot cover %d: %w", from, amount, ErrInsufficientFunds)
	}
	l.store.balances[from] -= amount
	l.store.balances[to] += amount
	return nil
}

func (l *memLedger) CurrentHeight(_ context.Context) (int64, error) {
	return l.store.height, nil
}

func newTestEngine() (*Engine, *memStore) {
	store := newMemStore()
	eng := New(store, &memLedger{store: store}, Config{
		Admin:    "admin",
		Treasury: "treasury",
	})
	return eng, store
}
