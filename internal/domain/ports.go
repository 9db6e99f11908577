package domain

import (
	"context"
	"time"
)

// PriceSource produces an instantaneous venue -> price snapshot. The scan
// path treats it as an opaque producer; implementations poll on-chain pools,
// exchange APIs, or fixtures.
type PriceSource interface {
	Snapshot(ctx context.Context) (map[string]float64, error)
}

// Executor consumes a detected opportunity. Implementations submit swaps
// against a router contract, or just log and record in dry-run mode.
type Executor interface {
	Submit(ctx context.Context, opp Opportunity) error
}

// PriceCache mirrors the latest venue prices so other processes can read
// them without hitting the chain.
type PriceCache interface {
	SetPrice(ctx context.Context, venue string, price float64, ts time.Time) error
	GetPrice(ctx context.Context, venue string) (float64, time.Time, error)
	GetPrices(ctx context.Context, venues []string) (map[string]float64, error)
}

// OpportunityBus publishes detected opportunities to downstream consumers.
type OpportunityBus interface {
	Publish(ctx context.Context, opp Opportunity) error
	Subscribe(ctx context.Context) (<-chan Opportunity, error)
}

// OpportunityStore persists detected opportunities for later analysis.
type OpportunityStore interface {
	Insert(ctx context.Context, opp Opportunity) error
	MarkExecuted(ctx context.Context, id string) error
	ListRecent(ctx context.Context, limit int) ([]Opportunity, error)
}
