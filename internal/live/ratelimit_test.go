package live

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLimiterAppliesDefaultsForNonPositiveInputs(t *testing.T) {
	l := newLimiter(0, 0)
	require.NotNil(t, l)
	assert.True(t, l.Burst() >= 1)
}

func TestWaitLimiterNilIsNoop(t *testing.T) {
	assert.NoError(t, waitLimiter(context.Background(), nil))
}

func TestWaitLimiterRespectsCancelledContext(t *testing.T) {
	l := newLimiter(0.001, 1)
	l.Allow() // consume the single burst token
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, waitLimiter(ctx, l))
}
