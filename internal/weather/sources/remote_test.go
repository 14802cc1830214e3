package sources

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastRemote(url string) *RemoteSource {
	s := NewRemoteSource(http.DefaultClient, url)
	s.httpCfg.Backoff = BackoffConfig{
		MaxRetries:      2,
		InitialInterval: time.Millisecond,
		MaxInterval:     5 * time.Millisecond,
	}
	return s
}

func TestNew_PicksRemoteForURLs(t *testing.T) {
	assert.IsType(t, &RemoteSource{}, New("https://example.com/weather.csv", http.DefaultClient))
	assert.IsType(t, &RemoteSource{}, New("http://example.com/weather.csv", http.DefaultClient))
}

func TestRemoteSource_Load(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte(sampleCSV))
	}))
	defer srv.Close()

	obs, err := Load(context.Background(), fastRemote(srv.URL), time.UTC)
	require.NoError(t, err)
	assert.Len(t, obs, 4)
}

func TestRemoteSource_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(sampleCSV))
	}))
	defer srv.Close()

	obs, err := Load(context.Background(), fastRemote(srv.URL), time.UTC)
	require.NoError(t, err)
	assert.Len(t, obs, 4)
	assert.Equal(t, int32(3), calls.Load())
}

func TestRemoteSource_GivesUpAfterRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := Load(context.Background(), fastRemote(srv.URL), time.UTC)
	assert.ErrorIs(t, err, ErrSourceUnavailable)
	assert.Equal(t, int32(3), calls.Load())
}

func TestRemoteSource_ClientErrorNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := Load(context.Background(), fastRemote(srv.URL), time.UTC)
	assert.ErrorIs(t, err, ErrSourceUnavailable)
	assert.Equal(t, int32(1), calls.Load())
}

func TestRemoteSource_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := fastRemote("http://127.0.0.1:0/weather.csv").Open(ctx)
	assert.ErrorIs(t, err, ErrSourceUnavailable)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRemoteSource_NoClient(t *testing.T) {
	s := NewRemoteSource(nil, "http://example.com")
	_, err := s.Open(context.Background())
	assert.ErrorIs(t, err, ErrSourceUnavailable)
	assert.ErrorIs(t, err, errNoHTTPClient)
}

func TestRemoteSource_RetriesRateLimit(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(sampleCSV))
	}))
	defer srv.Close()

	_, err := Load(context.Background(), fastRemote(srv.URL), time.UTC)
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestCheckStatus(t *testing.T) {
	tests := []struct {
		code int
		want error
	}{
		{http.StatusOK, nil},
		{http.StatusTooManyRequests, errTransientStatus},
		{http.StatusBadGateway, errTransientStatus},
		{http.StatusNotFound, errRejectedStatus},
		{http.StatusMovedPermanently, errRejectedStatus},
	}

	for _, tt := range tests {
		rec := httptest.NewRecorder()
		rec.WriteHeader(tt.code)
		err := checkStatus(rec.Result())
		if tt.want == nil {
			assert.NoError(t, err, tt.code)
			continue
		}
		assert.ErrorIs(t, err, tt.want, tt.code)
	}
}

func TestBackoffDelay(t *testing.T) {
	b := BackoffConfig{InitialInterval: 500 * time.Millisecond, MaxInterval: 5 * time.Second}

	assert.Equal(t, 500*time.Millisecond, b.delay(0))
	assert.Equal(t, 2*time.Second, b.delay(2))
	assert.Equal(t, 5*time.Second, b.delay(4))
	assert.Equal(t, 5*time.Second, b.delay(80))
}
