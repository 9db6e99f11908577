package book

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dexflow/arbot/internal/domain"
)

func mustOrder(t *testing.T, price, amount float64) domain.Order {
	t.Helper()
	o, err := domain.NewOrder(price, amount)
	require.NoError(t, err)
	return o
}

func TestEmptyBook(t *testing.T) {
	b := New()

	_, ok := b.BestBid()
	assert.False(t, ok, "empty book should have no best bid")
	_, ok = b.BestAsk()
	assert.False(t, ok, "empty book should have no best ask")
	assert.Empty(t, b.Bids())
	assert.Empty(t, b.Asks())
}

func TestAddOrderAndBest(t *testing.T) {
	b := New()

	require.NoError(t, b.AddOrder(mustOrder(t, 100, 5), domain.SideBid))
	require.NoError(t, b.AddOrder(mustOrder(t, 101.5, 3), domain.SideBid))
	require.NoError(t, b.AddOrder(mustOrder(t, 99.25, 7), domain.SideBid))

	require.NoError(t, b.AddOrder(mustOrder(t, 103, 2), domain.SideAsk))
	require.NoError(t, b.AddOrder(mustOrder(t, 102.75, 4), domain.SideAsk))

	bid, ok := b.BestBid()
	require.True(t, ok)
	assert.Equal(t, 101.5, bid.Price)
	assert.Equal(t, 3.0, bid.Amount)

	ask, ok := b.BestAsk()
	require.True(t, ok)
	assert.Equal(t, 102.75, ask.Price)
	assert.Equal(t, 4.0, ask.Amount)
}

func TestDuplicatePriceRejected(t *testing.T) {
	b := New()
	require.NoError(t, b.AddOrder(mustOrder(t, 100, 10), domain.SideBid))

	err := b.AddOrder(mustOrder(t, 100, 20), domain.SideBid)
	require.ErrorIs(t, err, domain.ErrDuplicatePrice)

	// First entry must be untouched.
	bid, ok := b.BestBid()
	require.True(t, ok)
	assert.Equal(t, 100.0, bid.Price)
	assert.Equal(t, 10.0, bid.Amount)
	assert.Equal(t, 1, b.Depth(domain.SideBid))
}

func TestSamePriceOnBothSides(t *testing.T) {
	b := New()
	require.NoError(t, b.AddOrder(mustOrder(t, 100, 1), domain.SideBid))
	require.NoError(t, b.AddOrder(mustOrder(t, 100, 2), domain.SideAsk))

	bid, _ := b.BestBid()
	ask, _ := b.BestAsk()
	assert.Equal(t, 100.0, bid.Price)
	assert.Equal(t, 100.0, ask.Price)
}

func TestSidesSortedAscending(t *testing.T) {
	b := New()
	for _, p := range []float64{103, 99, 101, 100.5} {
		require.NoError(t, b.AddOrder(mustOrder(t, p, 1), domain.SideBid))
		require.NoError(t, b.AddOrder(mustOrder(t, p, 1), domain.SideAsk))
	}

	wantPrices := []float64{99, 100.5, 101, 103}
	for i, o := range b.Bids() {
		assert.Equal(t, wantPrices[i], o.Price)
	}
	for i, o := range b.Asks() {
		assert.Equal(t, wantPrices[i], o.Price)
	}
}

func TestFromOrdersPropagatesFirstFailure(t *testing.T) {
	bids := []domain.Order{
		mustOrder(t, 100, 1),
		mustOrder(t, 100, 2), // duplicate price
		mustOrder(t, 99, 1),
	}
	b, err := FromOrders(bids, nil)
	require.ErrorIs(t, err, domain.ErrDuplicatePrice)
	assert.Nil(t, b)
}

func TestFromOrders(t *testing.T) {
	bids := []domain.Order{mustOrder(t, 100, 5), mustOrder(t, 99, 2)}
	asks := []domain.Order{mustOrder(t, 101, 3)}

	b, err := FromOrders(bids, asks)
	require.NoError(t, err)

	bid, ok := b.BestBid()
	require.True(t, ok)
	assert.Equal(t, 100.0, bid.Price)

	ask, ok := b.BestAsk()
	require.True(t, ok)
	assert.Equal(t, 101.0, ask.Price)
}

func TestUnknownSide(t *testing.T) {
	b := New()
	err := b.AddOrder(mustOrder(t, 1, 1), domain.Side("mid"))
	require.Error(t, err)
}

func TestPriceBeyondTickRangeRejected(t *testing.T) {
	b := New()

	// 1e13 scales past int64; a blind conversion would wrap negative and
	// sort below every real bid.
	err := b.AddOrder(mustOrder(t, 1e13, 1), domain.SideBid)
	require.ErrorIs(t, err, domain.ErrInvalidPrice)
	assert.Equal(t, 0, b.Depth(domain.SideBid))

	// A large but representable price still wins best-bid over a small one.
	require.NoError(t, b.AddOrder(mustOrder(t, 1e12, 1), domain.SideBid))
	require.NoError(t, b.AddOrder(mustOrder(t, 100, 1), domain.SideBid))
	bid, ok := b.BestBid()
	require.True(t, ok)
	assert.Equal(t, 1e12, bid.Price)
}

func TestPriceBelowOneTickRejected(t *testing.T) {
	b := New()

	// 1e-7 quantizes to tick zero, which would round-trip as price 0.
	err := b.AddOrder(mustOrder(t, 1e-7, 5), domain.SideBid)
	require.ErrorIs(t, err, domain.ErrInvalidPrice)
	_, ok := b.BestBid()
	assert.False(t, ok)

	// Exactly one tick is the smallest representable price.
	require.NoError(t, b.AddOrder(mustOrder(t, 1e-6, 5), domain.SideBid))
	bid, ok := b.BestBid()
	require.True(t, ok)
	assert.Equal(t, 1e-6, bid.Price)
}

func TestPricesOnSameTickCollide(t *testing.T) {
	b := New()
	require.NoError(t, b.AddOrder(mustOrder(t, 100.0000001, 1), domain.SideBid))

	// Distinct floats within half a tick land on the same grid point and
	// are therefore the same price to the book.
	err := b.AddOrder(mustOrder(t, 100.0000004, 2), domain.SideBid)
	require.ErrorIs(t, err, domain.ErrDuplicatePrice)
	assert.Equal(t, 1, b.Depth(domain.SideBid))
}
