// Package risk gates trade execution. It clamps position sizes to the
// configured maximum and trips a circuit breaker when recent price
// volatility exceeds the stop-loss threshold.
package risk

import (
	"log/slog"
	"math"
	"sync"
)

// Limits carries the operator-configured risk bounds.
type Limits struct {
	MaxPositionSize   float64
	StopLossThreshold float64
}

// Manager tracks recent prices per venue and answers sizing and halt
// questions. It is safe for concurrent use.
type Manager struct {
	limits Limits
	logger *slog.Logger

	mu   sync.Mutex
	last map[string]float64 // last observed price per venue
	vol  float64            // max relative move seen in the latest observation
}

// NewManager builds a Manager with the given limits.
func NewManager(limits Limits, logger *slog.Logger) *Manager {
	return &Manager{
		limits: limits,
		logger: logger.With(slog.String("component", "risk")),
		last:   make(map[string]float64),
	}
}

// ClampSize caps a requested position size at the configured maximum.
func (m *Manager) ClampSize(requested float64) float64 {
	if m.limits.MaxPositionSize > 0 && requested > m.limits.MaxPositionSize {
		m.logger.Warn("position size clamped",
			slog.Float64("requested", requested),
			slog.Float64("max", m.limits.MaxPositionSize),
		)
		return m.limits.MaxPositionSize
	}
	return requested
}

// Observe records a snapshot of venue prices and updates the volatility
// estimate from the relative move since the previous snapshot.
func (m *Manager) Observe(prices map[string]float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	maxMove := 0.0
	for venue, price := range prices {
		prev, ok := m.last[venue]
		if ok && prev > 0 {
			move := math.Abs(price-prev) / prev
			if move > maxMove {
				maxMove = move
			}
		}
		m.last[venue] = price
	}
	m.vol = maxMove
}

// Halted reports whether the circuit breaker is tripped. Execution should
// pause while the latest observed move exceeds the stop-loss threshold.
func (m *Manager) Halted() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.limits.StopLossThreshold <= 0 {
		return false
	}
	if m.vol > m.limits.StopLossThreshold {
		m.logger.Warn("circuit breaker tripped",
			slog.Float64("volatility", m.vol),
			slog.Float64("threshold", m.limits.StopLossThreshold),
		)
		return true
	}
	return false
}
