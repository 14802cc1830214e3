package sources

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
)

// RemoteSource downloads the dataset over HTTP(S).
type RemoteSource struct {
	url     string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

// NewRemoteSource creates a RemoteSource using client for the download.
func NewRemoteSource(client *http.Client, url string) *RemoteSource {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "dataset",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	return &RemoteSource{
		url: url,
		httpCfg: HTTPClientConfig{
			Client: client,
			Backoff: BackoffConfig{
				MaxRetries:      3,
				InitialInterval: 500 * time.Millisecond,
				MaxInterval:     5 * time.Second,
			},
		},
		circuit: cb,
	}
}

func (s *RemoteSource) Name() string {
	return s.url
}

// Open fetches the dataset. The caller must close the returned body.
func (s *RemoteSource) Open(ctx context.Context) (io.ReadCloser, error) {
	newRequest := func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "text/csv")
		return req, nil
	}

	resp, err := fetch(ctx, s.httpCfg, s.circuit, newRequest)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrSourceUnavailable, s.url, err)
	}
	return resp.Body, nil
}
