package httpx

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/pkg/errors"

	"kriptomarket/internal/log"
)

const (
	defaultMinBackoff = 500 * time.Millisecond
	defaultMaxBackoff = 5 * time.Second
	maxErrorBody      = 512
)

// Client is a small wrapper around http.Client with sane defaults.
// It satisfies the HTTPClient interfaces of the provider clients.
type Client struct {
	HTTP      *http.Client
	UserAgent string
	Headers   map[string]string

	// MaxRetries is the number of extra attempts for idempotent requests
	// failing with a transport error, 429 or 5xx.
	MaxRetries int
	MinBackoff time.Duration
	MaxBackoff time.Duration
}

func New(timeout time.Duration) *Client {
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           (&net.Dialer{Timeout: 3 * time.Second, KeepAlive: 30 * time.Second}).DialContext,
		MaxIdleConns:          200,
		MaxIdleConnsPerHost:   100,
		MaxConnsPerHost:       100,
		ForceAttemptHTTP2:     true,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   3 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		ResponseHeaderTimeout: 5 * time.Second,
	}
	return &Client{
		HTTP:       &http.Client{Timeout: timeout, Transport: transport},
		UserAgent:  "kriptomarket/1.0",
		MinBackoff: defaultMinBackoff,
		MaxBackoff: defaultMaxBackoff,
	}
}

// Do sends req, retrying idempotent requests with exponential backoff.
// The request context bounds the whole sequence.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	if c.UserAgent != "" && req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}
	for k, v := range c.Headers {
		if req.Header.Get(k) == "" {
			req.Header.Set(k, v)
		}
	}

	retries := c.MaxRetries
	if !replayable(req) {
		retries = 0
	}

	ctx := req.Context()
	for attempt := 0; ; attempt++ {
		if attempt > 0 && req.GetBody != nil {
			body, err := req.GetBody()
			if err != nil {
				return nil, errors.Wrap(err, "rewinding request body")
			}
			req.Body = body
		}

		res, err := c.HTTP.Do(req)
		status := 0
		retryAfter := ""
		if err == nil {
			status = res.StatusCode
			retryAfter = res.Header.Get("Retry-After")
		}
		if attempt >= retries || ctx.Err() != nil || !shouldRetry(status, err) {
			return res, err
		}
		if res != nil {
			_, _ = io.Copy(io.Discard, io.LimitReader(res.Body, 64<<10))
			_ = res.Body.Close()
		}

		wait := c.backoff(attempt, retryAfter)
		log.Debugw("retrying request", "url", req.URL.Redacted(), "attempt", attempt+1, "status", status, "error", err, "wait", wait)
		if err := sleep(ctx, wait); err != nil {
			return nil, err
		}
	}
}

// StatusError is a non-2xx response.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("unexpected status code: %d", e.Code)
	}
	return fmt.Sprintf("unexpected status code: %d: %s", e.Code, e.Body)
}

// CheckStatus returns a StatusError carrying a body snippet for non-2xx responses.
func CheckStatus(res *http.Response) error {
	if res.StatusCode >= 200 && res.StatusCode < 300 {
		return nil
	}
	b, _ := io.ReadAll(io.LimitReader(res.Body, maxErrorBody))
	return &StatusError{Code: res.StatusCode, Body: string(b)}
}

func replayable(req *http.Request) bool {
	switch req.Method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
	default:
		return false
	}
	return req.Body == nil || req.Body == http.NoBody || req.GetBody != nil
}

func shouldRetry(status int, err error) bool {
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return false
		}
		// refused, reset, timeouts
		return true
	}
	return status == http.StatusTooManyRequests || (status >= 500 && status <= 599)
}

func (c *Client) backoff(attempt int, retryAfter string) time.Duration {
	lo, hi := c.MinBackoff, c.MaxBackoff
	if lo <= 0 {
		lo = defaultMinBackoff
	}
	if hi < lo {
		hi = lo
	}
	if retryAfter != "" {
		if sec, err := strconv.Atoi(retryAfter); err == nil && sec >= 0 {
			return capDuration(time.Duration(sec)*time.Second, hi)
		}
		if t, err := http.ParseTime(retryAfter); err == nil {
			if d := time.Until(t); d > 0 {
				return capDuration(d, hi)
			}
		}
	}
	back := lo << attempt
	if back <= 0 || back > hi {
		back = hi
	}
	// jitter 50%
	half := int64(back) / 2
	if half <= 0 {
		return back
	}
	return time.Duration(half + rand.Int63n(half))
}

func capDuration(d, limit time.Duration) time.Duration {
	if d > limit {
		return limit
	}
	return d
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
