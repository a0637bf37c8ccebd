package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartLine is one product entry. Name, Price and ImageURL are a snapshot of
// the catalog taken when the line was first added.
type CartLine struct {
	ProductID string
	Name      string
	Price     decimal.Decimal
	Quantity  int
	ImageURL  string
}

// TotalPrice is always derived, never stored.
func (l CartLine) TotalPrice() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

type Cart struct {
	ID             string
	UserID         string
	Lines          []CartLine
	TotalAmount    decimal.Decimal
	TotalItemCount int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Empty is the cart reported for a user who has none stored.
func Empty(userID string) Cart {
	return Cart{UserID: userID, Lines: []CartLine{}, TotalAmount: decimal.Zero}
}

func (c Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

func RecomputeTotals(lines []CartLine) (decimal.Decimal, int) {
	amount := decimal.Zero
	count := 0
	for _, l := range lines {
		amount = amount.Add(l.TotalPrice())
		count += l.Quantity
	}
	return amount, count
}

// Recompute refreshes the aggregates from the line set. Every mutation ends here.
func (c *Cart) Recompute(now time.Time) {
	c.TotalAmount, c.TotalItemCount = RecomputeTotals(c.Lines)
	c.UpdatedAt = now
}

func (c *Cart) lineIndex(productID string) int {
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			return i
		}
	}
	return -1
}

func (c Cart) Line(productID string) (CartLine, bool) {
	if i := c.lineIndex(productID); i >= 0 {
		return c.Lines[i], true
	}
	return CartLine{}, false
}

// AddLine increments an existing line's quantity, keeping its snapshot, or
// appends the given line.
func (c *Cart) AddLine(line CartLine) {
	if i := c.lineIndex(line.ProductID); i >= 0 {
		c.Lines[i].Quantity += line.Quantity
		return
	}
	c.Lines = append(c.Lines, line)
}

// SetQuantity reports false when the cart has no line for productID.
func (c *Cart) SetQuantity(productID string, quantity int) bool {
	i := c.lineIndex(productID)
	if i < 0 {
		return false
	}
	c.Lines[i].Quantity = quantity
	return true
}

// RemoveLine drops every line for productID and reports whether any existed.
func (c *Cart) RemoveLine(productID string) bool {
	kept := c.Lines[:0]
	removed := false
	for _, l := range c.Lines {
		if l.ProductID == productID {
			removed = true
			continue
		}
		kept = append(kept, l)
	}
	c.Lines = kept
	return removed
}

// Clone deep-copies the line slice so callers can mutate freely.
func (c Cart) Clone() Cart {
	out := c
	out.Lines = make([]CartLine, len(c.Lines))
	copy(out.Lines, c.Lines)
	return out
}
