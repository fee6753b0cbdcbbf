package engine

import (
	"context"
	"errors"
	"testing"
)

func TestAddExperience(t *testing.T) {
	ctx := context.Background()

	t.Run("accumulates without cap", func(t *testing.T) {
		eng, store := newTestEngine()
		id := mintFor(t, eng, "alice")

		exp, err := eng.AddExperience(ctx, "alice", id, 70)
		if err != nil {
			t.Fatalf("AddExperience() error = %v", err)
		}
		if exp != 70 {
			t.Errorf("AddExperience() = %d, want 70", exp)
		}

		exp, err = eng.AddExperience(ctx, "alice", id, 500)
		if err != nil {
			t.Fatalf("AddExperience() error = %v", err)
		}
		if exp != 570 {
			t.Errorf("AddExperience() = %d, want 570", exp)
		}
		if store.cards[id].Level != 1 {
			t.Error("experience alone must not change the level")
		}
	})

	t.Run("negative amount", func(t *testing.T) {
		eng, _ := newTestEngine()
		id := mintFor(t, eng, "alice")
		_, err := eng.AddExperience(ctx, "alice", id, -1)
		if !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("AddExperience() error = %v, want ErrInvalidArgument", err)
		}
	})

	t.Run("not the owner", func(t *testing.T) {
		eng, _ := newTestEngine()
		id := mintFor(t, eng, "alice")
		_, err := eng.AddExperience(ctx, "mallory", id, 10)
		if !errors.Is(err, ErrNotAuthorized) {
			t.Errorf("AddExperience() error = %v, want ErrNotAuthorized", err)
		}
	})

	t.Run("locked card", func(t *testing.T) {
		eng, _ := newTestEngine()
		id := mintFor(t, eng, "alice")
		if err := eng.List(ctx, "alice", id, 100, 10); err != nil {
			t.Fatalf("List() error = %v", err)
		}
		_, err := eng.AddExperience(ctx, "alice", id, 10)
		if !errors.Is(err, ErrAssetLocked) {
			t.Errorf("AddExperience() error = %v, want ErrAssetLocked", err)
		}
	})
}

func TestLevelUp(t *testing.T) {
	ctx := context.Background()

	t.Run("consumes requirement and carries surplus", func(t *testing.T) {
		eng, store := newTestEngine()
		id := mintFor(t, eng, "alice")
		if _, err := eng.AddExperience(ctx, "alice", id, 150); err != nil {
			t.Fatalf("AddExperience() error = %v", err)
		}

		level, err := eng.LevelUp(ctx, "alice", id)
		if err != nil {
			t.Fatalf("LevelUp() error = %v", err)
		}
		if level != 2 {
			t.Errorf("LevelUp() = %d, want 2", level)
		}

		card := store.cards[id]
		if card.Exp != 50 {
			t.Errorf("surplus exp = %d, want 50", card.Exp)
		}
		if store.statuses[id].UpgradeCount != 1 {
			t.Errorf("upgrade count = %d, want 1", store.statuses[id].UpgradeCount)
		}
	})

	t.Run("requirement grows with the level", func(t *testing.T) {
		eng, store := newTestEngine()
		id := mintFor(t, eng, "alice")
		// Level 1 needs 100, level 2 needs 200.
		if _, err := eng.AddExperience(ctx, "alice", id, 100); err != nil {
			t.Fatal(err)
		}
		if _, err := eng.LevelUp(ctx, "alice", id); err != nil {
			t.Fatalf("first LevelUp() error = %v", err)
		}

		if _, err := eng.AddExperience(ctx, "alice", id, 150); err != nil {
			t.Fatal(err)
		}
		_, err := eng.LevelUp(ctx, "alice", id)
		if !errors.Is(err, ErrUpgradeRequirementsNotMet) {
			t.Fatalf("LevelUp() error = %v, want ErrUpgradeRequirementsNotMet", err)
		}
		if store.cards[id].Exp != 150 {
			t.Errorf("failed level-up consumed exp: %d, want 150", store.cards[id].Exp)
		}

		if _, err := eng.AddExperience(ctx, "alice", id, 50); err != nil {
			t.Fatal(err)
		}
		level, err := eng.LevelUp(ctx, "alice", id)
		if err != nil {
			t.Fatalf("LevelUp() error = %v", err)
		}
		if level != 3 || store.cards[id].Exp != 0 {
			t.Errorf("level = %d exp = %d, want 3/0", level, store.cards[id].Exp)
		}
	})

	t.Run("insufficient experience", func(t *testing.T) {
		eng, _ := newTestEngine()
		id := mintFor(t, eng, "alice")
		if _, err := eng.AddExperience(ctx, "alice", id, 99); err != nil {
			t.Fatal(err)
		}
		_, err := eng.LevelUp(ctx, "alice", id)
		if !errors.Is(err, ErrUpgradeRequirementsNotMet) {
			t.Errorf("LevelUp() error = %v, want ErrUpgradeRequirementsNotMet", err)
		}
	})

	t.Run("locked card", func(t *testing.T) {
		eng, _ := newTestEngine()
		id := mintFor(t, eng, "alice")
		if _, err := eng.AddExperience(ctx, "alice", id, 100); err != nil {
			t.Fatal(err)
		}
		if err := eng.List(ctx, "alice", id, 100, 10); err != nil {
			t.Fatal(err)
		}
		_, err := eng.LevelUp(ctx, "alice", id)
		if !errors.Is(err, ErrAssetLocked) {
			t.Errorf("LevelUp() error = %v, want ErrAssetLocked", err)
		}
	})

	t.Run("not the owner", func(t *testing.T) {
		eng, _ := newTestEngine()
		id := mintFor(t, eng, "alice")
		_, err := eng.LevelUp(ctx, "mallory", id)
		if !errors.Is(err, ErrNotAuthorized) {
			t.Errorf("LevelUp() error = %v, want ErrNotAuthorized", err)
		}
	})
}
