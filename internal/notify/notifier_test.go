package notify

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	name   string
	titles []string
	err    error
}

func (r *recordingSender) Send(_ context.Context, title, _ string) error {
	r.titles = append(r.titles, title)
	return r.err
}

func (r *recordingSender) Name() string { return r.name }

func TestNotifierFiltersEvents(t *testing.T) {
	sender := &recordingSender{name: "rec"}
	n := NewNotifier([]Sender{sender}, []string{EventOpportunity}, slog.Default())

	require.NoError(t, n.Notify(context.Background(), EventOpportunity, "profit 1.5"))
	require.NoError(t, n.Notify(context.Background(), EventError, "boom"))

	require.Len(t, sender.titles, 1)
	assert.Equal(t, "Arbitrage opportunity", sender.titles[0])
}

func TestNotifierEmptyEventsAllowsAll(t *testing.T) {
	sender := &recordingSender{name: "rec"}
	n := NewNotifier([]Sender{sender}, nil, slog.Default())

	require.NoError(t, n.Notify(context.Background(), EventOpportunity, "a"))
	require.NoError(t, n.Notify(context.Background(), EventExecution, "b"))
	require.NoError(t, n.Notify(context.Background(), "custom", "c"))

	require.Len(t, sender.titles, 3)
	// unknown event types fall back to the raw event name as title
	assert.Equal(t, "custom", sender.titles[2])
}

func TestNotifierCollectsSenderErrors(t *testing.T) {
	bad := &recordingSender{name: "bad", err: errors.New("down")}
	good := &recordingSender{name: "good"}
	n := NewNotifier([]Sender{bad, good}, nil, slog.Default())

	err := n.Notify(context.Background(), EventError, "boom")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad: down")
	// the good sender still received the message
	require.Len(t, good.titles, 1)
}
