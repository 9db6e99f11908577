package processor

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dexflow/arbot/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func orders(t *testing.T, prices ...float64) []domain.Order {
	t.Helper()
	out := make([]domain.Order, 0, len(prices))
	for _, p := range prices {
		o, err := domain.NewOrder(p, 1)
		require.NoError(t, err)
		out = append(out, o)
	}
	return out
}

func TestApplyUpdateCreatesVenueLazily(t *testing.T) {
	p := New(testLogger())

	_, ok := p.Book("uniswap")
	assert.False(t, ok)

	n := p.ApplyUpdate("uniswap", orders(t, 100, 99), domain.SideBid)
	assert.Equal(t, 2, n)

	b, ok := p.Book("uniswap")
	require.True(t, ok)
	bid, ok := b.BestBid()
	require.True(t, ok)
	assert.Equal(t, 100.0, bid.Price)
	assert.Equal(t, 1, p.Venues())
}

func TestApplyUpdateSkipsDuplicatesAndContinues(t *testing.T) {
	p := New(testLogger())

	// 100 appears twice: the second must be skipped, 98 still applied.
	n := p.ApplyUpdate("sushiswap", orders(t, 100, 100, 98), domain.SideBid)
	assert.Equal(t, 2, n)

	b, _ := p.Book("sushiswap")
	assert.Equal(t, 2, b.Depth(domain.SideBid))
}

func TestSpread(t *testing.T) {
	p := New(testLogger())

	amount := func(price, amt float64) domain.Order {
		o, err := domain.NewOrder(price, amt)
		require.NoError(t, err)
		return o
	}

	p.ApplyUpdate("uniswap", []domain.Order{amount(100, 1)}, domain.SideBid)

	// Only one side present: no spread yet.
	_, ok := p.Spread("uniswap")
	assert.False(t, ok)

	p.ApplyUpdate("uniswap", []domain.Order{amount(102, 1)}, domain.SideAsk)

	spread, ok := p.Spread("uniswap")
	require.True(t, ok)
	assert.Equal(t, 2.0, spread)
}

func TestSpreadCrossedBookIsNegative(t *testing.T) {
	p := New(testLogger())
	p.ApplyUpdate("v", orders(t, 105), domain.SideBid)
	p.ApplyUpdate("v", orders(t, 101), domain.SideAsk)

	spread, ok := p.Spread("v")
	require.True(t, ok)
	assert.Equal(t, -4.0, spread)
}

func TestSpreadUnknownVenue(t *testing.T) {
	p := New(testLogger())
	_, ok := p.Spread("nowhere")
	assert.False(t, ok)
}
