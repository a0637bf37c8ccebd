package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseStatus(t *testing.T) {
	t.Run("known values any case", func(t *testing.T) {
		cases := map[string]Status{
			"PENDING":      StatusPending,
			"confirmed":    StatusConfirmed,
			" Cancelled  ": StatusCancelled,
		}
		for in, want := range cases {
			got, err := ParseStatus(in)
			if err != nil || got != want {
				t.Fatalf("ParseStatus(%q) = (%q, %v), want %q", in, got, err, want)
			}
		}
	})

	t.Run("unknown rejected", func(t *testing.T) {
		for _, in := range []string{"", "SHIPPED", "pend"} {
			if _, err := ParseStatus(in); err == nil {
				t.Fatalf("expected error for %q", in)
			}
		}
	})
}

func TestOrderLineTotalPrice(t *testing.T) {
	l := OrderLine{Price: decimal.RequireFromString("5.50"), Quantity: 3}
	if !l.TotalPrice().Equal(decimal.RequireFromString("16.50")) {
		t.Fatalf("got %s", l.TotalPrice())
	}
}
