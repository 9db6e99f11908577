package risk

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClampSize(t *testing.T) {
	m := NewManager(Limits{MaxPositionSize: 10}, slog.Default())

	assert.Equal(t, 5.0, m.ClampSize(5.0))
	assert.Equal(t, 10.0, m.ClampSize(10.0))
	assert.Equal(t, 10.0, m.ClampSize(25.0))
}

func TestClampSizeUnlimited(t *testing.T) {
	m := NewManager(Limits{}, slog.Default())
	assert.Equal(t, 1e9, m.ClampSize(1e9))
}

func TestCircuitBreaker(t *testing.T) {
	m := NewManager(Limits{StopLossThreshold: 0.05}, slog.Default())

	m.Observe(map[string]float64{"uniswap": 100})
	assert.False(t, m.Halted(), "first snapshot has no reference move")

	// 2% move stays under the 5% threshold
	m.Observe(map[string]float64{"uniswap": 102})
	assert.False(t, m.Halted())

	// 10% move trips the breaker
	m.Observe(map[string]float64{"uniswap": 112.2})
	assert.True(t, m.Halted())

	// a calm snapshot resets it
	m.Observe(map[string]float64{"uniswap": 112.5})
	assert.False(t, m.Halted())
}

func TestCircuitBreakerDisabled(t *testing.T) {
	m := NewManager(Limits{}, slog.Default())
	m.Observe(map[string]float64{"uniswap": 100})
	m.Observe(map[string]float64{"uniswap": 500})
	assert.False(t, m.Halted())
}
