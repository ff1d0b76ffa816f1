package upstream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/sethvargo/go-retry"
)

// ErrUnavailable marks every failure that came from a third-party service.
var ErrUnavailable = errors.New("upstream unavailable")

// StatusError reports a non-success HTTP status from an upstream.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("status=%d body=%s", e.Status, e.Body)
}

// Policy bounds a single upstream call: a per-attempt timeout and at most
// MaxRetries extra attempts for transient failures.
type Policy struct {
	Name       string
	Timeout    time.Duration
	MaxRetries uint64
	Backoff    time.Duration
}

// Do runs fn under the policy. Any failure is returned wrapped in ErrUnavailable.
func (p Policy) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	backoff := p.Backoff
	if backoff <= 0 {
		backoff = 100 * time.Millisecond
	}
	b := retry.WithMaxRetries(p.MaxRetries, retry.NewConstant(backoff))

	err := retry.Do(ctx, b, func(ctx context.Context) error {
		callCtx, cancel := p.attemptContext(ctx)
		defer cancel()
		err := fn(callCtx)
		if err == nil {
			return nil
		}
		if ctx.Err() == nil && retryable(err) {
			return retry.RetryableError(err)
		}
		return err
	})
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrUnavailable, p.Name, err)
	}
	return nil
}

func (p Policy) attemptContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if p.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, p.Timeout)
}

func retryable(err error) bool {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Status >= http.StatusInternalServerError || statusErr.Status == http.StatusTooManyRequests
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

// CheckResponse turns a non-2xx response into a StatusError carrying a
// truncated copy of the body.
func CheckResponse(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
	return &StatusError{Status: resp.StatusCode, Body: string(payload)}
}
