// Package remote delivers finished drags to the configured sync endpoint.
package remote

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"sortable-cli/internal/sortable"

	"github.com/google/uuid"
)

const (
	defaultTimeout = 10 * time.Second

	// ListHeader carries the id of the list the item ended up in, so the
	// server can apply cross-list moves.
	ListHeader      = "X-Sortable-List"
	RequestIDHeader = "X-Request-Id"
)

// Client issues sync requests without waiting for them. Failures are logged
// and otherwise dropped.
type Client struct {
	http    *http.Client
	baseURL *url.URL
	logger  *slog.Logger
	timeout time.Duration

	wg sync.WaitGroup

	// OnResult is called from the request goroutine after each attempt.
	OnResult func(req sortable.SyncRequest, status int, err error)
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithBaseURL resolves relative sync URLs (e.g. "/items/%{id}") against base.
func WithBaseURL(base string) Option {
	return func(c *Client) {
		base = strings.TrimSpace(base)
		if base == "" {
			return
		}
		if u, err := url.Parse(base); err == nil {
			c.baseURL = u
		}
	}
}

func WithLogger(lg *slog.Logger) Option {
	return func(c *Client) {
		if lg != nil {
			c.logger = lg
		}
	}
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

func NewClient(opts ...Option) *Client {
	c := &Client{
		http:    &http.Client{},
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		timeout: defaultTimeout,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Sync implements sortable.Syncer. It returns immediately.
func (c *Client) Sync(req sortable.SyncRequest) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		status, err := c.Do(context.Background(), req)
		if err != nil {
			c.logger.Warn("sync failed",
				slog.String("method", req.Method),
				slog.String("url", req.URL),
				slog.String("item", req.ItemID),
				slog.String("error", err.Error()),
			)
		} else {
			c.logger.Debug("sync ok",
				slog.String("url", req.URL),
				slog.Int("status", status),
			)
		}
		if c.OnResult != nil {
			c.OnResult(req, status, err)
		}
	}()
}

// Wait blocks until all in-flight requests are done.
func (c *Client) Wait() { c.wg.Wait() }

// Do performs req synchronously and returns the response status.
func (c *Client) Do(ctx context.Context, req sortable.SyncRequest) (int, error) {
	timeout := c.timeout
	if req.Timeout > 0 {
		timeout = req.Timeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	hreq, err := c.newRequest(ctx, req)
	if err != nil {
		return 0, err
	}
	resp, err := c.http.Do(hreq)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, fmt.Errorf("sync: unexpected status %s", resp.Status)
	}
	return resp.StatusCode, nil
}

func (c *Client) newRequest(ctx context.Context, req sortable.SyncRequest) (*http.Request, error) {
	target, err := url.Parse(strings.TrimSpace(req.URL))
	if err != nil {
		return nil, fmt.Errorf("sync: invalid url: %w", err)
	}
	if !target.IsAbs() {
		if c.baseURL == nil {
			return nil, fmt.Errorf("sync: relative url %q without a base url", req.URL)
		}
		target = c.baseURL.ResolveReference(target)
	}

	method := strings.ToUpper(strings.TrimSpace(req.Method))
	if method == "" {
		method = http.MethodPut
	}

	var body io.Reader
	if method == http.MethodGet || method == http.MethodHead {
		q := target.RawQuery
		if q != "" && req.Body != "" {
			q += "&"
		}
		target.RawQuery = q + req.Body
	} else {
		body = strings.NewReader(req.Body)
	}

	hreq, err := http.NewRequestWithContext(ctx, method, target.String(), body)
	if err != nil {
		return nil, err
	}
	if body != nil {
		hreq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	hreq.Header.Set(RequestIDHeader, uuid.NewString())
	if req.List != "" {
		hreq.Header.Set(ListHeader, string(req.List))
	}
	for k, v := range req.Headers {
		hreq.Header.Set(k, v)
	}
	return hreq, nil
}
