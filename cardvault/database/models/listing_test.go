package models

import "testing"

func TestListingExpired(t *testing.T) {
	listing := &Listing{CardID: 1, ListedAt: 100, ExpiresAt: 110}

	tests := []struct {
		name   string
		height int64
		want   bool
	}{
		{"before expiry", 105, false},
		{"at expiry height", 110, false},
		{"after expiry", 111, true},
		{"far after expiry", 500, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := listing.Expired(tt.height); got != tt.want {
				t.Errorf("Expired(%d) = %v, want %v", tt.height, got, tt.want)
			}
		})
	}
}
