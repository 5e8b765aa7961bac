package httputil

import (
	"context"
	"errors"
	"math/rand"
	"net"
	"net/http"
	"strconv"
	"time"
)

type RetryConfig struct {
	MaxRetries   int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}

// RetryClient retries transient download failures (network errors, 429, 5xx)
// with jittered exponential backoff. A Retry-After header on 429/503 replaces
// the computed delay, capped at MaxDelay. Waiting stops when the request
// context ends.
type RetryClient struct {
	client *http.Client
	config RetryConfig
}

func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:   3,
		InitialDelay: 500 * time.Millisecond,
		MaxDelay:     5 * time.Second,
		Multiplier:   2.0,
	}
}

func NewRetryClient(client *http.Client, config RetryConfig) *RetryClient {
	if client == nil {
		client = http.DefaultClient
	}
	return &RetryClient{client: client, config: withDefaults(config)}
}

func withDefaults(config RetryConfig) RetryConfig {
	defaults := DefaultRetryConfig()
	if config.MaxRetries == 0 {
		config.MaxRetries = defaults.MaxRetries
	}
	if config.InitialDelay == 0 {
		config.InitialDelay = defaults.InitialDelay
	}
	if config.MaxDelay == 0 {
		config.MaxDelay = defaults.MaxDelay
	}
	if config.Multiplier == 0 {
		config.Multiplier = defaults.Multiplier
	}
	return config
}

func (c *RetryClient) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	return c.Do(req)
}

// Do sends req, resending it while the failure is transient. The final
// response is returned as-is once retries run out so callers can report its status.
func (c *RetryClient) Do(req *http.Request) (*http.Response, error) {
	delay := c.config.InitialDelay

	for attempt := 0; ; attempt++ {
		resp, err := c.client.Do(req)
		if !transient(resp, err) || attempt == c.config.MaxRetries {
			return resp, err
		}

		wait := jitter(delay)
		if resp != nil {
			if after, ok := retryAfter(resp); ok {
				wait = min(after, c.config.MaxDelay)
			}
			_ = resp.Body.Close()
		}

		if err := sleep(req.Context(), wait); err != nil {
			return nil, err
		}
		delay = min(time.Duration(float64(delay)*c.config.Multiplier), c.config.MaxDelay)

		if req.GetBody != nil {
			body, err := req.GetBody()
			if err != nil {
				return nil, err
			}
			req.Body = body
		}
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func transient(resp *http.Response, err error) bool {
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return false
		}
		var netErr net.Error
		var opErr *net.OpError
		var dnsErr *net.DNSError
		return (errors.As(err, &netErr) && netErr.Timeout()) || errors.As(err, &opErr) || errors.As(err, &dnsErr)
	}
	return resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 && resp.StatusCode < 600
}

// retryAfter reads a delay-seconds Retry-After header. HTTP-date values are ignored.
func retryAfter(resp *http.Response) (time.Duration, bool) {
	if resp.StatusCode != http.StatusTooManyRequests && resp.StatusCode != http.StatusServiceUnavailable {
		return 0, false
	}
	seconds, err := strconv.Atoi(resp.Header.Get("Retry-After"))
	if err != nil || seconds < 0 {
		return 0, false
	}
	return time.Duration(seconds) * time.Second, true
}

func jitter(delay time.Duration) time.Duration {
	return time.Duration(float64(delay) * (0.9 + rand.Float64()*0.2))
}
