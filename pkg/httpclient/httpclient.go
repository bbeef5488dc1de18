// pkg/httpclient/httpclient.go

package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	cerr "github.com/cockroachdb/errors"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/CodeMonkeyCybersecurity/pwq/pkg/strength"
)

// TransportError is every failure of a remote check: dialing, status or decoding.
// It never carries the password.
type TransportError struct {
	Op         string
	URL        string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s %s: status %d: %v", e.Op, e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsTransportError reports whether err came from the remote client.
func IsTransportError(err error) bool {
	var te *TransportError
	return cerr.As(err, &te)
}

// Client evaluates passwords against a remote `pwq serve`.
type Client struct {
	cfg      *Config
	http     *http.Client
	breaker  *gobreaker.CircuitBreaker
	log      *zap.Logger
	checkURL string
}

// NewClient validates cfg (nil means DefaultConfig without a BaseURL, which fails).
func NewClient(cfg *Config, log *zap.Logger) (*Client, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}

	var minVersion uint16
	var caFile string
	if cfg.TLSConfig != nil {
		minVersion, caFile = cfg.TLSConfig.MinVersion, cfg.TLSConfig.RootCAFile
	}
	tlsConfig, err := SecureTLSConfig(minVersion, caFile)
	if err != nil {
		return nil, err
	}

	c := &Client{
		cfg: cfg,
		log: log.Named("httpclient"),
		http: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				TLSClientConfig: tlsConfig,
				DialContext: (&net.Dialer{
					Timeout:   cfg.Timeout,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				MaxIdleConnsPerHost: 4,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		checkURL: strings.TrimRight(cfg.BaseURL, "/") + "/check",
	}
	c.breaker = gobreaker.NewCircuitBreaker(c.breakerSettings())
	return c, nil
}

// NewForURL is NewClient with DefaultConfig pointed at baseURL.
func NewForURL(baseURL string, timeout time.Duration, log *zap.Logger) (*Client, error) {
	cfg := DefaultConfig()
	cfg.BaseURL = baseURL
	if timeout > 0 {
		cfg.Timeout = timeout
	}
	return NewClient(cfg, log)
}

func (c *Client) breakerSettings() gobreaker.Settings {
	bc := c.cfg.BreakerConfig
	if bc == nil {
		bc = DefaultConfig().BreakerConfig
	}
	return gobreaker.Settings{
		Name:        "pwq-remote",
		MaxRequests: bc.HalfOpenRequests,
		Timeout:     bc.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= bc.ConsecutiveFailures
		},
		// a superseded request is not the server's fault
		IsSuccessful: func(err error) bool {
			return err == nil || cerr.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.log.Warn("Circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	}
}

// BreakerState exposes the breaker state for status displays.
func (c *Client) BreakerState() string {
	return c.breaker.State().String()
}

// Check sends password to POST /check and decodes the report.
func (c *Client) Check(ctx context.Context, password string) (*strength.Report, error) {
	body, err := json.Marshal(map[string]string{"password": password})
	if err != nil {
		return nil, &TransportError{Op: "encode", URL: c.checkURL, Err: err}
	}

	res, err := c.breaker.Execute(func() (interface{}, error) {
		return c.doWithRetry(ctx, body)
	})
	if err != nil {
		if cerr.Is(err, gobreaker.ErrOpenState) || cerr.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, &TransportError{Op: "breaker", URL: c.checkURL, Err: err}
		}
		return nil, err
	}
	return res.(*strength.Report), nil
}

func (c *Client) doWithRetry(ctx context.Context, body []byte) (*strength.Report, error) {
	rc := c.cfg.RetryConfig
	attempts := 1
	if rc != nil {
		attempts += rc.MaxRetries
	}

	var delay time.Duration
	if rc != nil {
		delay = rc.InitialDelay
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		report, err := c.do(ctx, body)
		if err == nil {
			return report, nil
		}
		lastErr = err
		if attempt == attempts || !c.retryable(err) {
			break
		}

		c.log.Debug("Retrying remote check", zap.Int("attempt", attempt), zap.Duration("delay", delay), zap.Error(err))
		select {
		case <-ctx.Done():
			return nil, &TransportError{Op: "POST", URL: c.checkURL, Err: ctx.Err()}
		case <-time.After(delay):
		}
		delay = time.Duration(float64(delay) * rc.Multiplier)
		if rc.MaxDelay > 0 && delay > rc.MaxDelay {
			delay = rc.MaxDelay
		}
	}
	return nil, lastErr
}

func (c *Client) retryable(err error) bool {
	var te *TransportError
	if !cerr.As(err, &te) || te.Op != "POST" {
		return false
	}
	if cerr.Is(err, context.Canceled) || cerr.Is(err, context.DeadlineExceeded) {
		return false
	}
	if te.StatusCode == 0 {
		return true
	}
	for _, s := range c.cfg.RetryConfig.RetryableStatus {
		if s == te.StatusCode {
			return true
		}
	}
	return false
}

func (c *Client) do(ctx context.Context, body []byte) (*strength.Report, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.checkURL, bytes.NewReader(body))
	if err != nil {
		return nil, &TransportError{Op: "request", URL: c.checkURL, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		// url.Error repeats the URL; keep only the cause
		return nil, &TransportError{Op: "POST", URL: c.checkURL, Err: cerr.UnwrapOnce(err)}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		var p struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&p)
		msg := p.Error
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return nil, &TransportError{Op: "POST", URL: c.checkURL, StatusCode: resp.StatusCode, Err: cerr.New(msg)}
	}

	var report strength.Report
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&report); err != nil {
		return nil, &TransportError{Op: "decode", URL: c.checkURL, StatusCode: resp.StatusCode, Err: err}
	}
	return &report, nil
}
