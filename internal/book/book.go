// Package book implements a per-venue order book: two independent
// price-keyed sides of standing interest. Prices are stored as fixed-point
// ticks so ordering and equality never depend on floating-point comparison.
package book

import (
	"fmt"
	"math"

	"github.com/tidwall/btree"

	"github.com/dexflow/arbot/internal/domain"
)

// ticksPerUnit is the fixed-point scale for price keys: one tick is 1e-6 of
// a quote unit. Two prices that land on the same tick are the same price.
const ticksPerUnit = 1e6

// toTicks quantizes a price onto the tick grid. ok is false when the price
// does not land on a representable tick: below half a tick it would quantize
// to zero, and above roughly 9.2e12 the scaled value no longer fits in an
// int64 (a blind conversion would wrap to math.MinInt64 and corrupt the key
// ordering).
func toTicks(price float64) (int64, bool) {
	scaled := price*ticksPerUnit + 0.5
	if scaled < 1 || scaled >= float64(math.MaxInt64) {
		return 0, false
	}
	return int64(scaled), true
}

func fromTicks(t int64) float64 {
	return float64(t) / ticksPerUnit
}

// Book holds the bid and ask sides for one venue. Each side maps a price to
// the single amount resting at that price; inserting a second order at an
// existing price on the same side is rejected, never merged. A Book is not
// safe for concurrent use: it assumes one writer, like every structure in
// this core.
type Book struct {
	bids btree.Map[int64, float64]
	asks btree.Map[int64, float64]
}

// New returns an empty book.
func New() *Book {
	return &Book{}
}

// FromOrders builds a book from bid and ask order slices, inserting each
// order via AddOrder. It returns the first insertion failure instead of a
// partially built book.
func FromOrders(bids, asks []domain.Order) (*Book, error) {
	b := New()
	for _, o := range bids {
		if err := b.AddOrder(o, domain.SideBid); err != nil {
			return nil, fmt.Errorf("book: bid %v: %w", o.Price, err)
		}
	}
	for _, o := range asks {
		if err := b.AddOrder(o, domain.SideAsk); err != nil {
			return nil, fmt.Errorf("book: ask %v: %w", o.Price, err)
		}
	}
	return b, nil
}

// AddOrder inserts the order on the given side. Prices live on the tick
// grid: a price below one tick (1e-6) or beyond the int64 tick range is
// rejected with domain.ErrInvalidPrice, and two prices that quantize to the
// same tick are the same price. It fails with domain.ErrDuplicatePrice when
// that side already holds an entry at the same tick; the existing entry is
// left unchanged. The two sides are independent, so the same price may rest
// as both a bid and an ask.
func (b *Book) AddOrder(o domain.Order, side domain.Side) error {
	m := b.side(side)
	if m == nil {
		return fmt.Errorf("book: unknown side %q", side)
	}
	key, ok := toTicks(o.Price)
	if !ok {
		return fmt.Errorf("%w: %v is outside the tick grid", domain.ErrInvalidPrice, o.Price)
	}
	if _, ok := m.Get(key); ok {
		return fmt.Errorf("%w: %v (%s)", domain.ErrDuplicatePrice, o.Price, side)
	}
	m.Set(key, o.Amount)
	return nil
}

// BestBid returns the maximum-price bid, or ok=false when no bids exist.
func (b *Book) BestBid() (domain.Order, bool) {
	key, amount, ok := b.bids.Max()
	if !ok {
		return domain.Order{}, false
	}
	return domain.Order{Price: fromTicks(key), Amount: amount}, true
}

// BestAsk returns the minimum-price ask, or ok=false when no asks exist.
func (b *Book) BestAsk() (domain.Order, bool) {
	key, amount, ok := b.asks.Min()
	if !ok {
		return domain.Order{}, false
	}
	return domain.Order{Price: fromTicks(key), Amount: amount}, true
}

// Bids returns the bid side ascending by price.
func (b *Book) Bids() []domain.Order {
	return collect(&b.bids)
}

// Asks returns the ask side ascending by price.
func (b *Book) Asks() []domain.Order {
	return collect(&b.asks)
}

// Depth returns the number of resting entries on the given side.
func (b *Book) Depth(side domain.Side) int {
	m := b.side(side)
	if m == nil {
		return 0
	}
	return m.Len()
}

func (b *Book) side(side domain.Side) *btree.Map[int64, float64] {
	switch side {
	case domain.SideBid:
		return &b.bids
	case domain.SideAsk:
		return &b.asks
	default:
		return nil
	}
}

func collect(m *btree.Map[int64, float64]) []domain.Order {
	out := make([]domain.Order, 0, m.Len())
	m.Scan(func(key int64, amount float64) bool {
		out = append(out, domain.Order{Price: fromTicks(key), Amount: amount})
		return true
	})
	return out
}
