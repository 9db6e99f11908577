// Package processor maintains the per-venue order-book registry and answers
// spread queries against it.
package processor

import (
	"log/slog"

	"github.com/dexflow/arbot/internal/book"
	"github.com/dexflow/arbot/internal/domain"
)

// Processor maps venue names to their order books. Books are created lazily
// on first update and live for the life of the processor; there is no
// removal. The registry is unsynchronized and assumes a single writer — the
// owning feed loop.
type Processor struct {
	books  map[string]*book.Book
	logger *slog.Logger
}

// New creates an empty registry.
func New(logger *slog.Logger) *Processor {
	return &Processor{
		books:  make(map[string]*book.Book),
		logger: logger.With(slog.String("component", "processor")),
	}
}

// ApplyUpdate inserts the batch of orders into the venue's book on the given
// side, creating the book if the venue is new. A duplicate-price rejection
// skips that single order and keeps going: one malformed feed entry must not
// abort ingestion of the rest of the batch. The number of orders applied is
// returned.
func (p *Processor) ApplyUpdate(venue string, orders []domain.Order, side domain.Side) int {
	b, ok := p.books[venue]
	if !ok {
		b = book.New()
		p.books[venue] = b
	}

	applied := 0
	for _, o := range orders {
		if err := b.AddOrder(o, side); err != nil {
			p.logger.Warn("order rejected",
				slog.String("venue", venue),
				slog.String("side", string(side)),
				slog.Float64("price", o.Price),
				slog.String("error", err.Error()),
			)
			continue
		}
		applied++
	}
	return applied
}

// Book returns the venue's order book, or ok=false when the venue has never
// been updated.
func (p *Processor) Book(venue string) (*book.Book, bool) {
	b, ok := p.books[venue]
	return b, ok
}

// Venues returns the number of venues with a book.
func (p *Processor) Venues() int {
	return len(p.books)
}

// Spread returns best ask minus best bid for the venue, or ok=false when the
// venue is unknown or either side is empty. The sign is not checked: a
// crossed book reports a negative spread. Spread is a raw measurement;
// deciding whether a crossing is an opportunity belongs to the engine.
func (p *Processor) Spread(venue string) (float64, bool) {
	b, ok := p.books[venue]
	if !ok {
		return 0, false
	}
	bid, ok := b.BestBid()
	if !ok {
		return 0, false
	}
	ask, ok := b.BestAsk()
	if !ok {
		return 0, false
	}
	return ask.Price - bid.Price, true
}
