package phonebook

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimiter_AcquireRelease(t *testing.T) {
	l := NewLimiter(2, time.Second)
	ctx := context.Background()

	require.NoError(t, l.Acquire(ctx))
	require.NoError(t, l.Acquire(ctx))
	assert.Equal(t, 2, l.Active())

	l.Release()
	assert.Equal(t, 1, l.Active())
	l.Release()
	assert.Equal(t, 0, l.Active())
}

func TestLimiter_Busy(t *testing.T) {
	l := NewLimiter(1, 20*time.Millisecond)
	require.NoError(t, l.Acquire(context.Background()))
	defer l.Release()

	assert.ErrorIs(t, l.Acquire(context.Background()), ErrBusy)
	assert.Equal(t, "GEN002", MapError(ErrBusy).Code)
}

func TestLimiter_Cancelled(t *testing.T) {
	l := NewLimiter(1, time.Minute)
	require.NoError(t, l.Acquire(context.Background()))
	defer l.Release()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, l.Acquire(ctx), context.Canceled)
}

func TestLimiter_WaitsForSlot(t *testing.T) {
	l := NewLimiter(1, time.Second)
	require.NoError(t, l.Acquire(context.Background()))

	go func() {
		time.Sleep(20 * time.Millisecond)
		l.Release()
	}()

	require.NoError(t, l.Acquire(context.Background()))
	l.Release()
}

func TestLimiter_Drain(t *testing.T) {
	l := NewLimiter(1, time.Second)
	require.NoError(t, l.Drain(context.Background()))

	require.NoError(t, l.Acquire(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, l.Drain(ctx), context.DeadlineExceeded)

	go func() {
		time.Sleep(20 * time.Millisecond)
		l.Release()
	}()
	assert.NoError(t, l.Drain(context.Background()))
}
