// Package bot ties the order-book pipeline together: it checks arbitrage
// between two named venues in the processor's registry and can run that
// check on a fixed cadence.
package bot

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dexflow/arbot/internal/domain"
	"github.com/dexflow/arbot/internal/engine"
	"github.com/dexflow/arbot/internal/processor"
)

// Bot answers "is there an arbitrage between these two venues right now"
// against whatever books the processor currently holds.
type Bot struct {
	processor *processor.Processor
	engine    *engine.Engine
	logger    *slog.Logger
}

// New creates a Bot over the given registry and engine.
func New(proc *processor.Processor, eng *engine.Engine, logger *slog.Logger) *Bot {
	return &Bot{
		processor: proc,
		engine:    eng,
		logger:    logger.With(slog.String("component", "bot")),
	}
}

// CheckArbitrage looks up both venues' books and delegates to the engine:
// venueA's best bid against venueB's best ask. A venue with no book fails
// with domain.ErrBookNotFound; venueA is checked first.
func (b *Bot) CheckArbitrage(venueA, venueB string) (float64, bool, error) {
	bookA, ok := b.processor.Book(venueA)
	if !ok {
		return 0, false, fmt.Errorf("bot: %w: %s", domain.ErrBookNotFound, venueA)
	}
	bookB, ok := b.processor.Book(venueB)
	if !ok {
		return 0, false, fmt.Errorf("bot: %w: %s", domain.ErrBookNotFound, venueB)
	}
	return b.engine.FindArbitrage(bookA, bookB)
}

// Run checks the venue pair once per interval until the context is
// cancelled. Check failures — a venue whose feed has not produced a book
// yet, or a book with an empty side — are logged and the loop keeps going.
func (b *Bot) Run(ctx context.Context, venueA, venueB string, interval time.Duration) error {
	b.logger.Info("bot started",
		slog.String("venue_a", venueA),
		slog.String("venue_b", venueB),
		slog.Duration("interval", interval),
	)
	defer b.logger.Info("bot stopped")

	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}

		profit, found, err := b.CheckArbitrage(venueA, venueB)
		switch {
		case err != nil:
			b.logger.Warn("arbitrage check failed",
				slog.String("venue_a", venueA),
				slog.String("venue_b", venueB),
				slog.String("error", err.Error()),
			)
		case found:
			b.logger.Info("arbitrage between venues",
				slog.String("buy_venue", venueB),
				slog.String("sell_venue", venueA),
				slog.Float64("profit", profit),
			)
		}
		timer.Reset(interval)
	}
}
