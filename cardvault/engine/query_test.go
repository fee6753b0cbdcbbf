package engine

import (
	"context"
	"errors"
	"testing"
)

func TestCardDetailsCaching(t *testing.T) {
	eng, store := newTestEngine()
	ctx := context.Background()
	id := mintFor(t, eng, "alice")

	card, err := eng.CardDetails(ctx, id)
	if err != nil {
		t.Fatalf("CardDetails() error = %v", err)
	}
	if card.Name != "card" {
		t.Errorf("card name = %q", card.Name)
	}

	// A direct store write is invisible until the cache is invalidated.
	store.cards[id].Name = "renamed"
	card, err = eng.CardDetails(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if card.Name != "card" {
		t.Errorf("cached name = %q, want card", card.Name)
	}

	// Mutating operations invalidate the cached entry.
	if _, err := eng.AddExperience(ctx, "alice", id, 10); err != nil {
		t.Fatal(err)
	}
	card, err = eng.CardDetails(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if card.Exp != 10 {
		t.Errorf("exp after invalidation = %d, want 10", card.Exp)
	}
}

func TestCardDetailsUnknownCard(t *testing.T) {
	eng, _ := newTestEngine()
	_, err := eng.CardDetails(context.Background(), 404)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("CardDetails() error = %v, want ErrNotFound", err)
	}
}

func TestStatusOfDefaultsToUnlocked(t *testing.T) {
	eng, _ := newTestEngine()
	status, err := eng.StatusOf(context.Background(), 7)
	if err != nil {
		t.Fatalf("StatusOf() error = %v", err)
	}
	if status.CardID != 7 || status.Locked {
		t.Errorf("StatusOf() = %+v, want unlocked default", status)
	}
}

func TestLastCardID(t *testing.T) {
	eng, _ := newTestEngine()
	ctx := context.Background()

	last, err := eng.LastCardID(ctx)
	if err != nil {
		t.Fatalf("LastCardID() error = %v", err)
	}
	if last != 0 {
		t.Errorf("LastCardID() = %d, want 0", last)
	}

	mintFor(t, eng, "alice")
	mintFor(t, eng, "bob")

	last, err = eng.LastCardID(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if last != 2 {
		t.Errorf("LastCardID() = %d, want 2", last)
	}
}
