package migration

import "testing"

func TestConvertCard(t *testing.T) {
	m := &Migrator{}

	t.Run("valid card", func(t *testing.T) {
		card := m.convertCard(MongoCard{
			ID:     7,
			Name:   "  Dark Phoenix ",
			Rarity: 5,
			Level:  3,
			Exp:    250,
			Series: "Genesis",
			Traits: []string{"fire", "", "legendary"},
		})
		if card == nil {
			t.Fatal("convertCard() = nil, want card")
		}
		if card.Name != "Dark Phoenix" {
			t.Errorf("name = %q, want trimmed", card.Name)
		}
		if card.Rarity != 5 || card.Level != 3 || card.Exp != 250 {
			t.Errorf("card = %+v", card)
		}
		if len(card.Attributes) != 2 {
			t.Errorf("attributes = %+v, want 2 non-empty traits", card.Attributes)
		}
		if card.Edition != 1 {
			t.Errorf("edition = %d, want 1", card.Edition)
		}
	})

	t.Run("invalid rows are dropped", func(t *testing.T) {
		if m.convertCard(MongoCard{ID: 0, Name: "x"}) != nil {
			t.Error("card with id 0 must be dropped")
		}
		if m.convertCard(MongoCard{ID: -1, Name: "x"}) != nil {
			t.Error("card with negative id must be dropped")
		}
		if m.convertCard(MongoCard{ID: 3, Name: "   "}) != nil {
			t.Error("card with blank name must be dropped")
		}
	})

	t.Run("rarity and level are clamped", func(t *testing.T) {
		card := m.convertCard(MongoCard{ID: 1, Name: "a", Rarity: 0, Level: 0})
		if card.Rarity != 1 || card.Level != 1 {
			t.Errorf("rarity/level = %d/%d, want 1/1", card.Rarity, card.Level)
		}
		card = m.convertCard(MongoCard{ID: 2, Name: "b", Rarity: 99, Level: 4})
		if card.Rarity != 6 {
			t.Errorf("rarity = %d, want clamped to 6", card.Rarity)
		}
	})
}
