package sources

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
)

// BackoffConfig controls how failed downloads are retried.
type BackoffConfig struct {
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// HTTPClientConfig bundles the client used for downloads with its retry policy.
type HTTPClientConfig struct {
	Client  *http.Client
	Backoff BackoffConfig
}

var (
	// ErrSourceUnavailable is returned when the dataset cannot be fetched.
	ErrSourceUnavailable = errors.New("dataset source unavailable")

	// errTransientStatus covers 429 and 5xx responses; another attempt may succeed.
	errTransientStatus = errors.New("transient status")
	// errRejectedStatus covers any other non-2xx response; retrying will not help.
	errRejectedStatus = errors.New("rejected status")

	errCircuitOpen   = errors.New("circuit breaker open")
	errNoHTTPClient  = errors.New("http client not configured")
	errInvalidConfig = errors.New("invalid backoff configuration")
)

// checkStatus classifies resp, closing its body unless it is a success.
func checkStatus(resp *http.Response) error {
	code := resp.StatusCode
	if code >= 200 && code < 300 {
		return nil
	}
	resp.Body.Close()
	if code == http.StatusTooManyRequests || code >= 500 {
		return fmt.Errorf("%w: %d", errTransientStatus, code)
	}
	return fmt.Errorf("%w: %d", errRejectedStatus, code)
}

// delay returns the wait before retry number attempt (0-based), doubling from
// InitialInterval and capped at MaxInterval when set.
func (b BackoffConfig) delay(attempt int) time.Duration {
	d := b.InitialInterval << attempt
	if d <= 0 || (b.MaxInterval > 0 && d > b.MaxInterval) {
		return b.MaxInterval
	}
	return d
}

// fetch performs the download through cb, retrying transport errors and
// transient statuses with backoff until ctx is done or retries run out.
func fetch(
	ctx context.Context,
	cfg HTTPClientConfig,
	cb *gobreaker.CircuitBreaker,
	newRequest func(ctx context.Context) (*http.Request, error),
) (*http.Response, error) {
	if cfg.Client == nil {
		return nil, errNoHTTPClient
	}
	if cfg.Backoff.MaxRetries < 0 || cfg.Backoff.InitialInterval <= 0 {
		return nil, errInvalidConfig
	}

	for attempt := 0; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		req, err := newRequest(ctx)
		if err != nil {
			return nil, err
		}

		result, err := cb.Execute(func() (interface{}, error) {
			resp, err := cfg.Client.Do(req)
			if err != nil {
				return nil, err
			}
			if err := checkStatus(resp); err != nil {
				return nil, err
			}
			return resp, nil
		})
		if err == nil {
			return result.(*http.Response), nil
		}

		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %v", errCircuitOpen, err)
		}
		if errors.Is(err, errRejectedStatus) || attempt >= cfg.Backoff.MaxRetries {
			return nil, err
		}

		timer := time.NewTimer(cfg.Backoff.delay(attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}
