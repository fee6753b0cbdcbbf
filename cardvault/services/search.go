package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/ellavondegurechaff/cardvault/cardvault/database/models"
)

// CardSource is the slice of the store the search needs.
type CardSource interface {
	ListCards(ctx context.Context) ([]*models.Card, error)
	GetOwner(ctx context.Context, cardID int64) (string, error)
}

// CardSearchItems implements fuzzy.Source for card searching.
type CardSearchItems []CardSearchItem

// CardSearchItem is a single searchable card.
type CardSearchItem struct {
	Card *models.Card
	Name string
}

func (c CardSearchItem) String() string {
	return c.Name
}

func (items CardSearchItems) Len() int {
	return len(items)
}

func (items CardSearchItems) String(i int) string {
	return items[i].Name
}

// SearchFilters narrows a search before fuzzy matching runs.
type SearchFilters struct {
	Query    string
	Series   string
	Rarity   int
	MinLevel int
	OwnerID  string
	SortDesc bool
}

// SearchService provides fuzzy card lookup over the registry.
type SearchService struct {
	store CardSource
}

func NewSearchService(store CardSource) *SearchService {
	return &SearchService{store: store}
}

// SearchCards runs the filters, then fuzzy-matches the query against
// normalized card names. Results come back in relevance order; with an
// empty query they come back sorted by level then name.
func (s *SearchService) SearchCards(ctx context.Context, filters SearchFilters) ([]*models.Card, error) {
	cards, err := s.store.ListCards(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load cards for search: %w", err)
	}

	filtered := s.applyFilters(ctx, cards, filters)
	if len(filtered) == 0 {
		return nil, nil
	}

	query := strings.TrimSpace(filters.Query)
	if query == "" {
		s.sortByLevel(filtered, filters.SortDesc)
		return filtered, nil
	}

	searchItems := make(CardSearchItems, len(filtered))
	for i, card := range filtered {
		searchItems[i] = CardSearchItem{
			Card: card,
			Name: normalizeCardName(card.Name),
		}
	}

	matches := fuzzy.FindFrom(normalizeCardName(query), searchItems)

	results := make([]*models.Card, len(matches))
	for i, match := range matches {
		results[i] = searchItems[match.Index].Card
	}
	return results, nil
}

// SearchSingleCard returns the best match for a query, or nil when nothing
// matches.
func (s *SearchService) SearchSingleCard(ctx context.Context, query string) (*models.Card, error) {
	results, err := s.SearchCards(ctx, SearchFilters{Query: query})
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (s *SearchService) applyFilters(ctx context.Context, cards []*models.Card, filters SearchFilters) []*models.Card {
	var filtered []*models.Card
	for _, card := range cards {
		if filters.Series != "" && !strings.EqualFold(card.Series, filters.Series) {
			continue
		}
		if filters.Rarity > 0 && card.Rarity != filters.Rarity {
			continue
		}
		if filters.MinLevel > 0 && card.Level < filters.MinLevel {
			continue
		}
		if filters.OwnerID != "" {
			owner, err := s.store.GetOwner(ctx, card.ID)
			if err != nil || owner != filters.OwnerID {
				continue
			}
		}
		filtered = append(filtered, card)
	}
	return filtered
}

func (s *SearchService) sortByLevel(cards []*models.Card, desc bool) {
	sort.Slice(cards, func(i, j int) bool {
		if cards[i].Level != cards[j].Level {
			if desc {
				return cards[i].Level > cards[j].Level
			}
			return cards[i].Level < cards[j].Level
		}
		return strings.ToLower(cards[i].Name) < strings.ToLower(cards[j].Name)
	})
}

// normalizeCardName lowercases and strips separators so "Dark_Phoenix-01"
// and "dark phoenix 01" match each other.
func normalizeCardName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.ReplaceAll(name, "_", " ")
	name = strings.ReplaceAll(name, "-", " ")
	return strings.Join(strings.Fields(name), " ")
}
