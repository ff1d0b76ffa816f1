package upstream

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPolicyRetriesTransientOnce(t *testing.T) {
	p := Policy{Name: "weather", Timeout: time.Second, MaxRetries: 1, Backoff: time.Millisecond}
	calls := 0
	err := p.Do(context.Background(), func(ctx context.Context) error {
		calls++
		if calls == 1 {
			return &StatusError{Status: http.StatusBadGateway}
		}
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, 2, calls)
}

func TestPolicyStopsAfterBoundedRetry(t *testing.T) {
	p := Policy{Name: "places", Timeout: time.Second, MaxRetries: 1, Backoff: time.Millisecond}
	calls := 0
	err := p.Do(context.Background(), func(ctx context.Context) error {
		calls++
		return &StatusError{Status: http.StatusServiceUnavailable}
	})
	require.Error(t, err)
	require.ErrorIs(t, err, ErrUnavailable)
	require.Equal(t, 2, calls)

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	require.Equal(t, http.StatusServiceUnavailable, statusErr.Status)
}

func TestPolicyDoesNotRetryClientErrors(t *testing.T) {
	p := Policy{Name: "llm", MaxRetries: 3, Backoff: time.Millisecond}
	calls := 0
	err := p.Do(context.Background(), func(ctx context.Context) error {
		calls++
		return &StatusError{Status: http.StatusUnauthorized}
	})
	require.ErrorIs(t, err, ErrUnavailable)
	require.Equal(t, 1, calls)
}

func TestPolicyTimesOutAttempt(t *testing.T) {
	p := Policy{Name: "weather", Timeout: 10 * time.Millisecond, MaxRetries: 0}
	err := p.Do(context.Background(), func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	require.ErrorIs(t, err, ErrUnavailable)
	require.True(t, errors.Is(err, context.DeadlineExceeded))
}
