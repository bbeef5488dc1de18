// pkg/httpclient/httpclient_test.go
package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CodeMonkeyCybersecurity/pwq/pkg/server"
	"github.com/CodeMonkeyCybersecurity/pwq/pkg/strength"
)

func TestNewClient(t *testing.T) {
	tests := []struct {
		name    string
		config  *Config
		wantErr string
	}{
		{name: "test config", config: TestConfig("http://127.0.0.1:1")},
		{name: "nil config lacks base url", config: nil, wantErr: "BaseURL"},
		{name: "invalid timeout", config: &Config{BaseURL: "http://x", Timeout: -time.Second}, wantErr: "Timeout"},
		{
			name: "bad multiplier",
			config: &Config{BaseURL: "http://x", Timeout: time.Second, RetryConfig: &RetryConfig{
				MaxRetries: 1, InitialDelay: time.Millisecond, Multiplier: 1,
			}},
			wantErr: "Multiplier",
		},
		{
			name:    "missing CA file",
			config:  &Config{BaseURL: "https://x", Timeout: time.Second, TLSConfig: &TLSConfig{RootCAFile: "/nonexistent/ca.pem"}},
			wantErr: "CA certificate",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewClient(tt.config, nil)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "closed", c.BreakerState())
		})
	}
}

func TestCheck_AgainstServer(t *testing.T) {
	ts := httptest.NewServer(server.New(server.Options{}).Handler())
	defer ts.Close()

	c, err := NewClient(TestConfig(ts.URL+"/"), nil)
	require.NoError(t, err)

	for _, pw := range []string{"", "password", "Tr0ub4dor&3xyz!", "密码密码密码密码"} {
		got, err := c.Check(context.Background(), pw)
		require.NoError(t, err, pw)
		assert.Equal(t, strength.Evaluate(pw), *got, pw)
	}
}

func TestCheck_StatusError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"error":"password too long"}`))
	}))
	defer ts.Close()

	c, err := NewClient(TestConfig(ts.URL), nil)
	require.NoError(t, err)

	_, err = c.Check(context.Background(), "x")
	require.Error(t, err)

	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, http.StatusUnprocessableEntity, te.StatusCode)
	assert.Equal(t, ts.URL+"/check", te.URL)
	assert.Contains(t, te.Error(), "password too long")
}

func TestCheck_DecodeError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"strength":"Mighty"}`))
	}))
	defer ts.Close()

	c, err := NewClient(TestConfig(ts.URL), nil)
	require.NoError(t, err)

	_, err = c.Check(context.Background(), "x")
	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "decode", te.Op)
}

func TestCheck_ConnectionRefused(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	c, err := NewClient(TestConfig(url), nil)
	require.NoError(t, err)

	_, err = c.Check(context.Background(), "secret-value")
	require.Error(t, err)
	assert.True(t, IsTransportError(err))
	assert.NotContains(t, err.Error(), "secret-value")
}

func TestCheck_Retry(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		server.New(server.Options{}).Handler().ServeHTTP(w, r)
	}))
	defer ts.Close()

	cfg := TestConfig(ts.URL)
	cfg.RetryConfig.MaxRetries = 2
	cfg.RetryConfig.InitialDelay = time.Millisecond
	c, err := NewClient(cfg, nil)
	require.NoError(t, err)

	got, err := c.Check(context.Background(), "password")
	require.NoError(t, err)
	assert.Equal(t, strength.VeryWeak, got.Strength)
	assert.Equal(t, int32(2), calls.Load())
}

func TestCheck_BreakerOpens(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	cfg := TestConfig(ts.URL)
	cfg.BreakerConfig.ConsecutiveFailures = 2
	cfg.BreakerConfig.OpenTimeout = time.Minute
	c, err := NewClient(cfg, nil)
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, err := c.Check(context.Background(), "x")
		require.Error(t, err)
	}
	assert.Equal(t, "open", c.BreakerState())

	_, err = c.Check(context.Background(), "x")
	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "breaker", te.Op)
	assert.Equal(t, int32(2), calls.Load())
}

func TestCheck_CancelledDoesNotTrip(t *testing.T) {
	block := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-block:
		case <-r.Context().Done():
		}
	}))
	defer ts.Close()
	defer close(block)

	cfg := TestConfig(ts.URL)
	cfg.BreakerConfig.ConsecutiveFailures = 1
	c, err := NewClient(cfg, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err = c.Check(ctx, "x")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, "closed", c.BreakerState())
}
