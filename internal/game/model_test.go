package game

import (
	"errors"
	"fmt"
	"testing"

	"tradefrontier/internal/market"
)

func TestPlural(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{n: 0, want: "days"},
		{n: 1, want: "day"},
		{n: 2, want: "days"},
	}
	for _, tc := range tests {
		if got := plural(tc.n, "day"); got != tc.want {
			t.Fatalf("n=%d got=%q want=%q", tc.n, got, tc.want)
		}
	}
}

func TestRejectionUnwraps(t *testing.T) {
	err := fmt.Errorf("buy: %w", &Rejection{Err: ErrCargoFull, Message: "Cargo hold is full."})
	if !errors.Is(err, ErrCargoFull) {
		t.Fatalf("expected ErrCargoFull in chain")
	}
	var rej *Rejection
	if !errors.As(err, &rej) || rej.Message != "Cargo hold is full." {
		t.Fatalf("expected rejection message, got %v", err)
	}
	if !errors.Is(&Rejection{Err: ErrUnknownGood}, market.ErrUnknownGood) {
		t.Fatalf("game and market unknown-good errors should match")
	}
}

func TestChartOptions(t *testing.T) {
	opts := ChartOptions()
	goods := market.GoodNames()
	if len(opts) != len(goods)+1 {
		t.Fatalf("got %d options want %d", len(opts), len(goods)+1)
	}
	if opts[len(opts)-1] != NetWorthOption {
		t.Fatalf("got last option %q want %q", opts[len(opts)-1], NetWorthOption)
	}
	opts[0] = "mutated"
	if ChartOptions()[0] != goods[0] {
		t.Fatalf("ChartOptions shares its backing array")
	}
}
