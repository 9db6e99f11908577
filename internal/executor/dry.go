// Package executor turns detected opportunities into action. The dry
// executor records and announces them; the router executor submits a swap
// transaction on-chain.
package executor

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dexflow/arbot/internal/domain"
	"github.com/dexflow/arbot/internal/notify"
)

// Dry logs each opportunity and fans it out to the optional store, bus, and
// notifier without touching the chain. It is the default executor.
type Dry struct {
	store    domain.OpportunityStore
	bus      domain.OpportunityBus
	notifier *notify.Notifier
	logger   *slog.Logger
}

var _ domain.Executor = (*Dry)(nil)

// NewDry builds a dry executor. store, bus, and notifier may each be nil.
func NewDry(store domain.OpportunityStore, bus domain.OpportunityBus, notifier *notify.Notifier, logger *slog.Logger) *Dry {
	return &Dry{
		store:    store,
		bus:      bus,
		notifier: notifier,
		logger:   logger.With(slog.String("component", "dry_executor")),
	}
}

// Submit records the opportunity everywhere it can. Failures on individual
// sinks are logged and do not fail the submission.
func (d *Dry) Submit(ctx context.Context, opp domain.Opportunity) error {
	d.logger.Info("dry run: opportunity",
		slog.String("id", opp.ID),
		slog.String("buy_venue", opp.BuyVenue),
		slog.String("sell_venue", opp.SellVenue),
		slog.Float64("buy_price", opp.BuyPrice),
		slog.Float64("sell_price", opp.SellPrice),
		slog.Float64("profit", opp.Profit),
	)

	if d.store != nil {
		if err := d.store.Insert(ctx, opp); err != nil {
			d.logger.Error("store insert failed",
				slog.String("id", opp.ID),
				slog.String("error", err.Error()),
			)
		}
	}
	if d.bus != nil {
		if err := d.bus.Publish(ctx, opp); err != nil {
			d.logger.Error("bus publish failed",
				slog.String("id", opp.ID),
				slog.String("error", err.Error()),
			)
		}
	}
	if d.notifier != nil {
		msg := fmt.Sprintf("buy %s @ %.6f, sell %s @ %.6f, profit %.6f",
			opp.BuyVenue, opp.BuyPrice, opp.SellVenue, opp.SellPrice, opp.Profit)
		if err := d.notifier.Notify(ctx, notify.EventOpportunity, msg); err != nil {
			d.logger.Error("notify failed",
				slog.String("id", opp.ID),
				slog.String("error", err.Error()),
			)
		}
	}
	return nil
}
