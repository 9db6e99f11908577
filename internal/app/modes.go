package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/dexflow/arbot/internal/domain"
	"github.com/dexflow/arbot/internal/notify"
	"github.com/dexflow/arbot/internal/scanner"
)

// observedSource wraps a PriceSource so every snapshot also feeds the risk
// manager's volatility tracking.
type observedSource struct {
	inner domain.PriceSource
	deps  *Dependencies
}

func (o observedSource) Snapshot(ctx context.Context) (map[string]float64, error) {
	prices, err := o.inner.Snapshot(ctx)
	if err == nil {
		o.deps.Risk.Observe(prices)
	}
	return prices, err
}

// newMonitor assembles the scan loop from the wired dependencies.
func (a *App) newMonitor(deps *Dependencies) *scanner.Monitor {
	return scanner.NewMonitor(scanner.MonitorConfig{
		Source:    observedSource{inner: deps.Source, deps: deps},
		Interval:  a.cfg.Scanner.Interval.Duration,
		MinProfit: a.cfg.Scanner.MinProfit,
		Handler:   a.opportunityHandler(deps),
		Prices:    deps.PriceCache,
		Logger:    a.logger,
	})
}

// opportunityHandler routes a detected opportunity through the risk gate and
// into the executor, then records the execution when one happened.
func (a *App) opportunityHandler(deps *Dependencies) scanner.Handler {
	return func(ctx context.Context, opp domain.Opportunity) error {
		if deps.Risk.Halted() {
			a.logger.WarnContext(ctx, "skipping opportunity, circuit breaker active",
				slog.String("id", opp.ID),
			)
			return nil
		}

		if err := deps.Executor.Submit(ctx, opp); err != nil {
			if nErr := deps.Notifier.Notify(ctx, notify.EventError,
				fmt.Sprintf("execution failed for %s: %v", opp.ID, err)); nErr != nil {
				a.logger.ErrorContext(ctx, "notify failed", slog.String("error", nErr.Error()))
			}
			return fmt.Errorf("submit %s: %w", opp.ID, err)
		}

		// Only the on-chain executor counts as executed; dry runs just record.
		if a.cfg.Executor.Enabled && deps.Store != nil {
			if err := deps.Store.MarkExecuted(ctx, opp.ID); err != nil && !errors.Is(err, domain.ErrNotFound) {
				a.logger.ErrorContext(ctx, "mark executed failed",
					slog.String("id", opp.ID),
					slog.String("error", err.Error()),
				)
			}
		}
		return nil
	}
}

// MonitorMode runs the scan loop until the context is cancelled, serving
// Prometheus metrics alongside when enabled.
func (a *App) MonitorMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting monitor mode",
		slog.Duration("interval", a.cfg.Scanner.Interval.Duration),
		slog.Float64("min_profit", a.cfg.Scanner.MinProfit),
	)

	g, ctx := errgroup.WithContext(ctx)

	mon := a.newMonitor(deps)
	g.Go(func() error {
		return mon.Run(ctx)
	})

	if a.cfg.Metrics.Enabled {
		g.Go(func() error {
			return a.serveMetrics(ctx)
		})
	}

	return g.Wait()
}

// OnceMode performs a single scan and submits at most one opportunity. It is
// meant for cron-style invocation and smoke testing a configuration.
func (a *App) OnceMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting single scan")

	mon := a.newMonitor(deps)
	opp, found, err := mon.Scan(ctx)
	if err != nil {
		return fmt.Errorf("scan: %w", err)
	}
	if !found {
		a.logger.InfoContext(ctx, "no opportunity found")
		return nil
	}
	return a.opportunityHandler(deps)(ctx, opp)
}

// serveMetrics exposes the Prometheus registry over HTTP until the context
// is cancelled.
func (a *App) serveMetrics(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              a.cfg.Metrics.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("metrics server listening", slog.String("addr", a.cfg.Metrics.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		return ctx.Err()
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("metrics server: %w", err)
	}
}
