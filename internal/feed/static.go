package feed

import (
	"context"
	"maps"
	"sync"
)

// Static serves a fixed set of venue prices. It exists for tests and for
// driving the detection loop without an RPC endpoint.
type Static struct {
	mu     sync.RWMutex
	prices map[string]float64
}

// NewStatic copies the given prices into a new source.
func NewStatic(prices map[string]float64) *Static {
	s := &Static{prices: make(map[string]float64, len(prices))}
	maps.Copy(s.prices, prices)
	return s
}

// Set replaces the price for one venue.
func (s *Static) Set(venue string, price float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prices[venue] = price
}

// Snapshot returns a copy of the current prices.
func (s *Static) Snapshot(_ context.Context) (map[string]float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]float64, len(s.prices))
	maps.Copy(out, s.prices)
	return out, nil
}
