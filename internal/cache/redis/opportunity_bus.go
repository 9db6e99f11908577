package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/dexflow/arbot/internal/domain"
)

// opportunityChannel is the Pub/Sub channel detected opportunities go out on.
const opportunityChannel = "arbot:opportunities"

// OpportunityBus implements domain.OpportunityBus over Redis Pub/Sub with
// JSON-encoded opportunities.
type OpportunityBus struct {
	rdb    *redis.Client
	logger *slog.Logger
}

// NewOpportunityBus creates an OpportunityBus backed by the given Client.
func NewOpportunityBus(c *Client, logger *slog.Logger) *OpportunityBus {
	return &OpportunityBus{
		rdb:    c.Underlying(),
		logger: logger.With(slog.String("component", "opportunity_bus")),
	}
}

var _ domain.OpportunityBus = (*OpportunityBus)(nil)

// Publish JSON-encodes the opportunity and sends it on the Pub/Sub channel.
func (b *OpportunityBus) Publish(ctx context.Context, opp domain.Opportunity) error {
	payload, err := json.Marshal(opp)
	if err != nil {
		return fmt.Errorf("redis: marshal opportunity %s: %w", opp.ID, err)
	}
	if err := b.rdb.Publish(ctx, opportunityChannel, payload).Err(); err != nil {
		return fmt.Errorf("redis: publish opportunity %s: %w", opp.ID, err)
	}
	return nil
}

// Subscribe returns a channel of decoded opportunities. The subscription and
// the returned channel are closed when the context is cancelled. Payloads
// that fail to decode are logged and dropped.
func (b *OpportunityBus) Subscribe(ctx context.Context) (<-chan domain.Opportunity, error) {
	pubsub := b.rdb.Subscribe(ctx, opportunityChannel)

	// Receive the confirmation so a dead connection fails here, not later.
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("redis: subscribe %s: %w", opportunityChannel, err)
	}

	out := make(chan domain.Opportunity, 64)
	go func() {
		defer close(out)
		defer pubsub.Close()

		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var opp domain.Opportunity
				if err := json.Unmarshal([]byte(msg.Payload), &opp); err != nil {
					b.logger.Warn("dropping undecodable opportunity",
						slog.String("error", err.Error()),
					)
					continue
				}
				select {
				case out <- opp:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}
