package encrust

import (
	"errors"
	"testing"
)

func TestFixedSeeds(t *testing.T) {
	src := NewFixedSeeds(3, 1, 4)
	if src.Remaining() != 3 {
		t.Errorf("Remaining() = %d, want 3", src.Remaining())
	}

	for _, want := range []uint64{3, 1, 4} {
		got, err := src.Seed()
		if err != nil {
			t.Fatalf("failed to draw seed: %v", err)
		}
		if got != want {
			t.Errorf("Seed() = %d, want %d", got, want)
		}
	}

	_, err := src.Seed()
	if !IsSeedError(err) || !errors.Is(err, ErrSeedsExhausted) {
		t.Errorf("expected exhausted SeedError, got %v", err)
	}
	if src.Remaining() != 0 {
		t.Errorf("Remaining() = %d, want 0", src.Remaining())
	}
}

func TestCryptoSeedSource(t *testing.T) {
	src := CryptoSeedSource{}
	seen := make(map[uint64]bool)
	for i := 0; i < 16; i++ {
		seed, err := src.Seed()
		if err != nil {
			t.Fatalf("failed to draw seed: %v", err)
		}
		seen[seed] = true
	}
	if len(seen) < 16 {
		t.Errorf("drew %d distinct seeds out of 16", len(seen))
	}
}

func TestPooledSeedSource(t *testing.T) {
	src := NewPooledSeedSource()
	seen := make(map[uint64]bool)
	for i := 0; i < 64; i++ {
		seed, err := src.Seed()
		if err != nil {
			t.Fatalf("failed to draw seed: %v", err)
		}
		seen[seed] = true
	}
	if len(seen) < 64 {
		t.Errorf("drew %d distinct seeds out of 64", len(seen))
	}
}

func TestDrawSeed(t *testing.T) {
	baseErr := errors.New("no entropy")

	tests := []struct {
		name    string
		src     SeedSource
		want    uint64
		wantErr error
	}{
		{"nil source", nil, 0, ErrNilSeedSource},
		{"func source", SeedFunc(func() (uint64, error) { return 12, nil }), 12, nil},
		{"plain error is wrapped", SeedFunc(func() (uint64, error) { return 0, baseErr }), 0, baseErr},
		{"seed error passes through", NewFixedSeeds(), 0, ErrSeedsExhausted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := drawSeed(tt.src)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if got != tt.want {
					t.Errorf("drawSeed() = %d, want %d", got, tt.want)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("drawSeed() error = %v, want %v", err, tt.wantErr)
			}
			if tt.src != nil && !IsSeedError(err) {
				t.Errorf("drawSeed() error = %T, want *SeedError", err)
			}
		})
	}
}
