package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusCancelled Status = "CANCELLED"
)

// ParseStatus accepts any casing of the three known statuses.
func ParseStatus(s string) (Status, error) {
	switch st := Status(strings.ToUpper(strings.TrimSpace(s))); st {
	case StatusPending, StatusConfirmed, StatusCancelled:
		return st, nil
	default:
		return "", fmt.Errorf("unknown order status %q", s)
	}
}

// OrderLine is frozen at checkout.
type OrderLine struct {
	ProductID string
	Name      string
	Price     decimal.Decimal
	Quantity  int
	ImageURL  string
}

func (l OrderLine) TotalPrice() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

type Order struct {
	ID              string
	UserID          string
	Lines           []OrderLine
	TotalAmount     decimal.Decimal
	TotalItemCount  int
	ShippingAddress string
	Notes           string
	Status          Status
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type EventType string

const (
	EventOrderCreated       EventType = "order.created"
	EventOrderStatusChanged EventType = "order.status_changed"
)

type Event struct {
	Type        EventType       `json:"type"`
	OrderID     string          `json:"orderId"`
	UserID      string          `json:"userId"`
	Status      Status          `json:"status"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	OccurredAt  time.Time       `json:"occurredAt"`
}

func NewEvent(t EventType, o Order, at time.Time) Event {
	return Event{
		Type:        t,
		OrderID:     o.ID,
		UserID:      o.UserID,
		Status:      o.Status,
		TotalAmount: o.TotalAmount,
		OccurredAt:  at,
	}
}
