package circuitbreaker

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCircuitBreaker_Call(t *testing.T) {
	t.Parallel()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	cb := New(Config{Window: 4, FailureRatio: 0.5, Cooldown: time.Minute, Recovery: 2})
	cb.SetClock(func() time.Time { return now })

	ok := func() error { return nil }
	boom := errors.New("broker down")
	fail := func() error { return boom }

	for i := 0; i < 4; i++ {
		require.NoError(t, cb.Call(ok))
	}
	require.Equal(t, Closed, cb.State())

	require.ErrorIs(t, cb.Call(fail), boom)
	require.Equal(t, Closed, cb.State())
	require.ErrorIs(t, cb.Call(fail), boom)
	require.Equal(t, Open, cb.State())

	called := false
	err := cb.Call(func() error { called = true; return nil })
	require.ErrorIs(t, err, ErrOpen)
	require.False(t, called)

	now = now.Add(2 * time.Minute)
	require.ErrorIs(t, cb.Call(fail), boom)
	require.Equal(t, Open, cb.State())

	now = now.Add(2 * time.Minute)
	require.NoError(t, cb.Call(ok))
	require.Equal(t, HalfOpen, cb.State())
	require.NoError(t, cb.Call(ok))
	require.Equal(t, Closed, cb.State())
}

func TestState_String(t *testing.T) {
	t.Parallel()
	require.Equal(t, "closed", Closed.String())
	require.Equal(t, "open", Open.String())
	require.Equal(t, "half-open", HalfOpen.String())
}
