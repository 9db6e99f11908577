package scanner

import (
	"context"
	"log/slog"
	"time"

	"github.com/dexflow/arbot/internal/domain"
)

// Handler consumes an opportunity found by a scan tick.
type Handler func(ctx context.Context, opp domain.Opportunity) error

// MonitorConfig configures the polling loop.
type MonitorConfig struct {
	Source    domain.PriceSource
	Interval  time.Duration
	MinProfit float64
	// Handler receives each opportunity. Optional; nil means detect-only.
	Handler Handler
	// Prices, when set, mirrors every snapshot so other processes can read
	// the latest venue prices. Optional.
	Prices domain.PriceCache
	Logger *slog.Logger
}

// Monitor polls the price source on a fixed delay, runs the pairwise scan on
// each snapshot, and hands any opportunity to the handler. It stops when its
// context is cancelled — a slow fetch delays the next tick rather than
// piling up work.
type Monitor struct {
	source    domain.PriceSource
	interval  time.Duration
	minProfit float64
	handler   Handler
	prices    domain.PriceCache
	logger    *slog.Logger
}

// NewMonitor creates a monitor from cfg.
func NewMonitor(cfg MonitorConfig) *Monitor {
	return &Monitor{
		source:    cfg.Source,
		interval:  cfg.Interval,
		minProfit: cfg.MinProfit,
		handler:   cfg.Handler,
		prices:    cfg.Prices,
		logger:    cfg.Logger.With(slog.String("component", "monitor")),
	}
}

// Run blocks until ctx is cancelled, scanning once per interval. Snapshot
// failures are logged and the tick is skipped; handler failures are logged
// and do not stop the loop.
func (m *Monitor) Run(ctx context.Context) error {
	m.logger.Info("monitor started",
		slog.Duration("interval", m.interval),
		slog.Float64("min_profit", m.minProfit),
	)
	defer m.logger.Info("monitor stopped")

	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}

		m.tick(ctx)
		timer.Reset(m.interval)
	}
}

// Scan performs a single fetch-and-scan cycle and returns the result.
func (m *Monitor) Scan(ctx context.Context) (domain.Opportunity, bool, error) {
	start := time.Now()
	prices, err := m.source.Snapshot(ctx)
	if err != nil {
		snapshotErrors.Inc()
		return domain.Opportunity{}, false, err
	}
	m.mirror(ctx, prices)

	opp, found := FindBest(prices, m.minProfit)
	scansTotal.Inc()
	scanDuration.Observe(time.Since(start).Seconds())
	venuesTracked.Set(float64(len(prices)))
	if found {
		opportunitiesFound.Inc()
	}
	return opp, found, nil
}

func (m *Monitor) tick(ctx context.Context) {
	opp, found, err := m.Scan(ctx)
	if err != nil {
		m.logger.Error("price snapshot failed", slog.String("error", err.Error()))
		return
	}
	if !found {
		m.logger.Debug("no opportunity this tick")
		return
	}

	m.logger.Info("opportunity found",
		slog.String("id", opp.ID),
		slog.String("buy_venue", opp.BuyVenue),
		slog.String("sell_venue", opp.SellVenue),
		slog.Float64("buy_price", opp.BuyPrice),
		slog.Float64("sell_price", opp.SellPrice),
		slog.Float64("profit", opp.Profit),
	)

	if m.handler == nil {
		return
	}
	if err := m.handler(ctx, opp); err != nil {
		m.logger.Error("opportunity handler failed",
			slog.String("id", opp.ID),
			slog.String("error", err.Error()),
		)
	}
}

func (m *Monitor) mirror(ctx context.Context, prices map[string]float64) {
	if m.prices == nil {
		return
	}
	now := time.Now().UTC()
	for venue, price := range prices {
		if err := m.prices.SetPrice(ctx, venue, price, now); err != nil {
			m.logger.Warn("price cache update failed",
				slog.String("venue", venue),
				slog.String("error", err.Error()),
			)
			continue
		}
	}
}
