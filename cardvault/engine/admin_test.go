package engine

import (
	"context"
	"errors"
	"testing"
)

func TestSetMarketplaceEnabled(t *testing.T) {
	ctx := context.Background()

	t.Run("admin flips the switch", func(t *testing.T) {
		eng, store := newTestEngine()
		if err := eng.SetMarketplaceEnabled(ctx, "admin", false); err != nil {
			t.Fatalf("SetMarketplaceEnabled() error = %v", err)
		}
		if store.state.Enabled {
			t.Error("marketplace still enabled")
		}
		if err := eng.SetMarketplaceEnabled(ctx, "admin", true); err != nil {
			t.Fatal(err)
		}
		if !store.state.Enabled {
			t.Error("marketplace still disabled")
		}
	})

	t.Run("non-admin is rejected", func(t *testing.T) {
		eng, store := newTestEngine()
		err := eng.SetMarketplaceEnabled(ctx, "alice", false)
		if !errors.Is(err, ErrNotAuthorized) {
			t.Errorf("SetMarketplaceEnabled() error = %v, want ErrNotAuthorized", err)
		}
		if !store.state.Enabled {
			t.Error("rejected call changed the switch")
		}
	})
}

func TestSetFeeBasisPoints(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		caller  string
		bps     int64
		wantErr error
	}{
		{"valid fee", "admin", 50, nil},
		{"zero fee", "admin", 0, nil},
		{"full fee", "admin", FeeDenominator, nil},
		{"negative fee", "admin", -1, ErrInvalidArgument},
		{"fee above denominator", "admin", FeeDenominator + 1, ErrInvalidArgument},
		{"non-admin", "alice", 50, ErrNotAuthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eng, store := newTestEngine()
			err := eng.SetFeeBasisPoints(ctx, tt.caller, tt.bps)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("SetFeeBasisPoints() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr == nil && store.state.FeeBasisPoints != tt.bps {
				t.Errorf("fee = %d, want %d", store.state.FeeBasisPoints, tt.bps)
			}
		})
	}
}

func TestRegisterSeries(t *testing.T) {
	ctx := context.Background()

	t.Run("registers once", func(t *testing.T) {
		eng, store := newTestEngine()
		if err := eng.RegisterSeries(ctx, "admin", "Genesis", "first run", 100); err != nil {
			t.Fatalf("RegisterSeries() error = %v", err)
		}
		if store.series["Genesis"] == nil || store.series["Genesis"].MaxSupply != 100 {
			t.Errorf("series = %+v", store.series["Genesis"])
		}

		err := eng.RegisterSeries(ctx, "admin", "Genesis", "again", 200)
		if !errors.Is(err, ErrAlreadyExists) {
			t.Errorf("RegisterSeries() error = %v, want ErrAlreadyExists", err)
		}
	})

	t.Run("empty name", func(t *testing.T) {
		eng, _ := newTestEngine()
		err := eng.RegisterSeries(ctx, "admin", "", "", 0)
		if !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("RegisterSeries() error = %v, want ErrInvalidArgument", err)
		}
	})

	t.Run("non-admin", func(t *testing.T) {
		eng, _ := newTestEngine()
		err := eng.RegisterSeries(ctx, "alice", "Genesis", "", 0)
		if !errors.Is(err, ErrNotAuthorized) {
			t.Errorf("RegisterSeries() error = %v, want ErrNotAuthorized", err)
		}
	})
}
