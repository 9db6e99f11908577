// Package engine detects cross-venue arbitrage between two order books: a
// best bid on one venue standing above a best ask on another by more than a
// minimum profit margin.
package engine

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/dexflow/arbot/internal/book"
	"github.com/dexflow/arbot/internal/domain"
)

// MinProfitThreshold is the noise floor: a crossing must clear this margin
// (in quote units) before it is reported as an opportunity.
const MinProfitThreshold = 0.01

// profitTicks converts a price difference to fixed-point ticks so the
// threshold comparison never depends on floating-point rounding.
func profitTicks(bid, ask float64) int64 {
	return int64(math.Round((bid - ask) * 1e6))
}

const minProfitTicks = int64(MinProfitThreshold * 1e6)

// Engine compares order books pairwise. The zero threshold is never used;
// construct with New.
type Engine struct {
	logger *slog.Logger
}

// New creates an engine that logs through the given logger.
func New(logger *slog.Logger) *Engine {
	return &Engine{logger: logger.With(slog.String("component", "engine"))}
}

// FindArbitrage compares bookA's best bid against bookB's best ask. Missing
// market data is a hard error, not a quiet "no opportunity": callers must be
// able to tell an empty feed from an uncrossed market. The bid is checked
// first (domain.ErrNoBestBid), then the ask (domain.ErrNoBestAsk). When the
// bid stands above the ask by more than MinProfitThreshold the profit is
// returned with ok=true; a crossing at or below the threshold, or no
// crossing at all, returns ok=false with no error.
func (e *Engine) FindArbitrage(bookA, bookB *book.Book) (float64, bool, error) {
	bid, ok := bookA.BestBid()
	if !ok {
		return 0, false, fmt.Errorf("engine: book A: %w", domain.ErrNoBestBid)
	}
	ask, ok := bookB.BestAsk()
	if !ok {
		return 0, false, fmt.Errorf("engine: book B: %w", domain.ErrNoBestAsk)
	}

	ticks := profitTicks(bid.Price, ask.Price)
	if ticks <= 0 {
		return 0, false, nil
	}
	profit := float64(ticks) / 1e6
	if ticks <= minProfitTicks {
		e.logger.Debug("crossing below profit threshold",
			slog.Float64("best_bid", bid.Price),
			slog.Float64("best_ask", ask.Price),
			slog.Float64("profit", profit),
		)
		return 0, false, nil
	}

	e.logger.Info("arbitrage opportunity",
		slog.Float64("best_bid", bid.Price),
		slog.Float64("best_ask", ask.Price),
		slog.Float64("profit", profit),
	)
	return profit, true, nil
}

// CompareVenues is the convenience entry point used by callers that hold raw
// order slices rather than books: it builds the two books and delegates to
// FindArbitrage. Errors keep their structured kind — a duplicate price
// inside either book, or missing best-of-side data, stays matchable with
// errors.Is at the caller.
func (e *Engine) CompareVenues(bidsA, asksA, bidsB, asksB []domain.Order) (float64, bool, error) {
	bookA, err := book.FromOrders(bidsA, asksA)
	if err != nil {
		return 0, false, fmt.Errorf("engine: venue A: %w", err)
	}
	bookB, err := book.FromOrders(bidsB, asksB)
	if err != nil {
		return 0, false, fmt.Errorf("engine: venue B: %w", err)
	}
	return e.FindArbitrage(bookA, bookB)
}
