package engine

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dexflow/arbot/internal/book"
	"github.com/dexflow/arbot/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func bookWith(t *testing.T, bids, asks []float64) *book.Book {
	t.Helper()
	b := book.New()
	for _, p := range bids {
		o, err := domain.NewOrder(p, 5)
		require.NoError(t, err)
		require.NoError(t, b.AddOrder(o, domain.SideBid))
	}
	for _, p := range asks {
		o, err := domain.NewOrder(p, 5)
		require.NoError(t, err)
		require.NoError(t, b.AddOrder(o, domain.SideAsk))
	}
	return b
}

func TestFindArbitrage(t *testing.T) {
	e := New(testLogger())

	tests := []struct {
		name       string
		bidsA      []float64
		asksB      []float64
		wantProfit float64
		wantOK     bool
	}{
		{"bid above ask", []float64{100}, []float64{99}, 1.0, true},
		{"equal prices", []float64{99}, []float64{99}, 0, false},
		{"bid below ask", []float64{98}, []float64{99}, 0, false},
		{"profit exactly at threshold", []float64{100.01}, []float64{100}, 0, false},
		{"profit just above threshold", []float64{100.02}, []float64{100}, 0.02, true},
		{"best of many levels wins", []float64{95, 100, 97}, []float64{103, 99, 101}, 1.0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bookA := bookWith(t, tt.bidsA, nil)
			bookB := bookWith(t, nil, tt.asksB)

			profit, ok, err := e.FindArbitrage(bookA, bookB)
			require.NoError(t, err)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantProfit, profit)
		})
	}
}

func TestFindArbitrageMissingData(t *testing.T) {
	e := New(testLogger())

	empty := book.New()
	withBid := bookWith(t, []float64{100}, nil)
	withAsk := bookWith(t, nil, []float64{99})

	// Both books empty: bid is checked first.
	_, _, err := e.FindArbitrage(empty, empty)
	require.ErrorIs(t, err, domain.ErrNoBestBid)

	// Book A has a bid but book B has no asks.
	_, _, err = e.FindArbitrage(withBid, empty)
	require.ErrorIs(t, err, domain.ErrNoBestAsk)

	// Book A empty even though book B is fine: still the bid error.
	_, _, err = e.FindArbitrage(empty, withAsk)
	require.ErrorIs(t, err, domain.ErrNoBestBid)
}

func TestCompareVenues(t *testing.T) {
	e := New(testLogger())

	mk := func(prices ...float64) []domain.Order {
		out := make([]domain.Order, 0, len(prices))
		for _, p := range prices {
			o, err := domain.NewOrder(p, 1)
			require.NoError(t, err)
			out = append(out, o)
		}
		return out
	}

	profit, ok, err := e.CompareVenues(mk(100), mk(101), mk(90), mk(99))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1.0, profit)
}

func TestCompareVenuesKeepsStructuredErrors(t *testing.T) {
	e := New(testLogger())

	mk := func(prices ...float64) []domain.Order {
		out := make([]domain.Order, 0, len(prices))
		for _, p := range prices {
			o, err := domain.NewOrder(p, 1)
			require.NoError(t, err)
			out = append(out, o)
		}
		return out
	}

	// Duplicate bid price inside venue A must surface as ErrDuplicatePrice,
	// not an opaque message.
	_, _, err := e.CompareVenues(mk(100, 100), nil, nil, mk(99))
	require.ErrorIs(t, err, domain.ErrDuplicatePrice)

	// Empty venue A propagates the missing-bid kind.
	_, _, err = e.CompareVenues(nil, nil, nil, mk(99))
	require.ErrorIs(t, err, domain.ErrNoBestBid)
}

func TestCrossProfit(t *testing.T) {
	f := func(v float64) *float64 { return &v }

	tests := []struct {
		name   string
		bid    *float64
		ask    *float64
		want   float64
		wantOK bool
	}{
		{"both present, bid higher", f(101), f(100), 1.0, true},
		{"tiny positive spread still reported", f(100.001), f(100), 100.001 - 100, true},
		{"equal", f(100), f(100), 0, false},
		{"bid lower", f(99), f(100), 0, false},
		{"missing bid", nil, f(100), 0, false},
		{"missing ask", f(100), nil, 0, false},
		{"both missing", nil, nil, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := CrossProfit(tt.bid, tt.ask)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
