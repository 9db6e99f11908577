// Package domain defines the core value types, sentinel errors, and
// collaborator interfaces shared across the bot. It has no dependencies on
// any infrastructure package.
package domain

import (
	"fmt"
	"math"
)

// Side identifies which half of an order book an order belongs to.
type Side string

const (
	SideBid Side = "bid"
	SideAsk Side = "ask"
)

// Valid reports whether s is one of the two known sides.
func (s Side) Valid() bool {
	return s == SideBid || s == SideAsk
}

// Order is a validated (price, amount) pair representing standing buy or
// sell interest. Orders are immutable after construction; both fields are
// guaranteed positive and finite.
type Order struct {
	Price  float64
	Amount float64
}

// NewOrder validates price and amount and returns the order. The price is
// checked first: a non-positive or non-finite price fails with
// ErrInvalidPrice, then the amount is checked the same way against
// ErrInvalidAmount. The returned errors carry the offending value and match
// the sentinels via errors.Is.
func NewOrder(price, amount float64) (Order, error) {
	if price <= 0 || math.IsNaN(price) || math.IsInf(price, 0) {
		return Order{}, fmt.Errorf("%w: %v", ErrInvalidPrice, price)
	}
	if amount <= 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return Order{}, fmt.Errorf("%w: %v", ErrInvalidAmount, amount)
	}
	return Order{Price: price, Amount: amount}, nil
}
