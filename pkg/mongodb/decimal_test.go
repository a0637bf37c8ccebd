package mongodb

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestDecimal128RoundTrip(t *testing.T) {
	for _, in := range []string{"0", "25.50", "0.1", "1234567.89", "-3.333"} {
		d := decimal.RequireFromString(in)

		enc, err := ToDecimal128(d)
		if err != nil {
			t.Fatalf("encode %s: %v", in, err)
		}
		got, err := FromDecimal128(enc)
		if err != nil {
			t.Fatalf("decode %s: %v", in, err)
		}
		if !got.Equal(d) {
			t.Fatalf("round trip %s: got %s", in, got)
		}
	}
}
