package executor

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dexflow/arbot/internal/domain"
)

type fakeStore struct {
	inserted []domain.Opportunity
	err      error
}

func (f *fakeStore) Insert(_ context.Context, opp domain.Opportunity) error {
	f.inserted = append(f.inserted, opp)
	return f.err
}

func (f *fakeStore) MarkExecuted(context.Context, string) error { return nil }

func (f *fakeStore) ListRecent(context.Context, int) ([]domain.Opportunity, error) {
	return f.inserted, nil
}

type fakeBus struct {
	published []domain.Opportunity
	err       error
}

func (f *fakeBus) Publish(_ context.Context, opp domain.Opportunity) error {
	f.published = append(f.published, opp)
	return f.err
}

func (f *fakeBus) Subscribe(context.Context) (<-chan domain.Opportunity, error) {
	return nil, nil
}

func sampleOpportunity() domain.Opportunity {
	return domain.Opportunity{
		ID:         "op-1",
		BuyVenue:   "uniswap",
		SellVenue:  "sushiswap",
		BuyPrice:   100.0,
		SellPrice:  101.5,
		Profit:     1.5,
		DetectedAt: time.Now().UTC(),
	}
}

func TestDrySubmitRecordsEverywhere(t *testing.T) {
	store := &fakeStore{}
	bus := &fakeBus{}
	d := NewDry(store, bus, nil, slog.Default())

	require.NoError(t, d.Submit(context.Background(), sampleOpportunity()))
	require.Len(t, store.inserted, 1)
	require.Len(t, bus.published, 1)
	assert.Equal(t, "op-1", store.inserted[0].ID)
}

func TestDrySubmitNilSinks(t *testing.T) {
	d := NewDry(nil, nil, nil, slog.Default())
	require.NoError(t, d.Submit(context.Background(), sampleOpportunity()))
}

func TestDrySubmitSinkFailuresDoNotFail(t *testing.T) {
	store := &fakeStore{err: errors.New("db down")}
	bus := &fakeBus{err: errors.New("redis down")}
	d := NewDry(store, bus, nil, slog.Default())

	require.NoError(t, d.Submit(context.Background(), sampleOpportunity()))
	// the attempts were still made
	require.Len(t, store.inserted, 1)
	require.Len(t, bus.published, 1)
}
