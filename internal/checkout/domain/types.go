package domain

import "github.com/shopspring/decimal"

// QuoteLine compares a cart line's snapshot price with the live catalog
// price. CurrentPrice is zero when the product is no longer available.
type QuoteLine struct {
	ProductID     string
	Name          string
	Quantity      int
	SnapshotPrice decimal.Decimal
	CurrentPrice  decimal.Decimal
	LineTotal     decimal.Decimal
	PriceChanged  bool
	Available     bool
}

// Quote totals come from the cart snapshot, which is what checkout will
// charge.
type Quote struct {
	Lines          []QuoteLine
	TotalAmount    decimal.Decimal
	TotalItemCount int
	PriceChanged   bool
	AllAvailable   bool
}
