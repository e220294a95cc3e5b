package request

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"roadscout/pkg/cache"
	"roadscout/pkg/config"
	"roadscout/pkg/tracker"
)

// provider is the tracker key for the remote tag database.
const provider = "overpass"

const defaultUserAgent = "RoadScout Trip Planner (roadscout.app; contact@roadscout.app)"

// Client executes remote queries under bounded concurrency with retry,
// backoff, and persistent response caching.
type Client struct {
	httpClient  *http.Client
	endpoint    string
	cache       cache.Cacher
	tracker     *tracker.Tracker
	concurrency int
	maxAttempts int
	baseDelay   time.Duration
	maxDelay    time.Duration
	phaseDelay  time.Duration
}

// New creates a new Client.
func New(cfg *config.RequestConfig, c cache.Cacher, t *tracker.Tracker) *Client {
	concurrency := cfg.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}
	attempts := cfg.Retries
	if attempts < 1 {
		attempts = 1
	}
	return &Client{
		httpClient:  &http.Client{Timeout: cfg.Timeout.Std()},
		endpoint:    cfg.Endpoint,
		cache:       c,
		tracker:     t,
		concurrency: concurrency,
		maxAttempts: attempts,
		baseDelay:   cfg.Backoff.BaseDelay.Std(),
		maxDelay:    cfg.Backoff.MaxDelay.Std(),
		phaseDelay:  cfg.PhaseDelay.Std(),
	}
}

// RunQueries executes the given query strings and returns one body per query,
// index-aligned with the input. A query that fails after all retries yields a
// nil body at its index; it never fails the batch.
//
// Scheduling: a fixed pool of workers shares an index cursor; each worker
// claims the next unclaimed query until the cursor is exhausted.
func (c *Client) RunQueries(ctx context.Context, queries []string) [][]byte {
	results := make([][]byte, len(queries))
	if len(queries) == 0 {
		return results
	}

	var cursor int64 = -1
	var wg sync.WaitGroup

	workers := c.concurrency
	if workers > len(queries) {
		workers = len(queries)
	}

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				idx := int(atomic.AddInt64(&cursor, 1))
				if idx >= len(queries) {
					return
				}
				body, err := c.Query(ctx, queries[idx])
				if err != nil {
					slog.Warn("Query failed, returning empty result", "index", idx, "error", err)
					continue
				}
				results[idx] = body
			}
		}()
	}

	wg.Wait()
	return results
}

// Query executes a single query string, consulting the persistent response
// cache first. The raw response body is returned.
func (c *Client) Query(ctx context.Context, query string) ([]byte, error) {
	key := cacheKey(query)

	if val, hit := c.cache.GetCache(ctx, key); hit {
		c.tracker.TrackCacheHit(provider)
		slog.Debug("Cache Hit", "provider", provider, "key", key)
		return val, nil
	}
	c.tracker.TrackCacheMiss(provider)

	body, err := c.executeWithBackoff(ctx, query)
	if err != nil {
		c.tracker.TrackAPIFailure(provider)
		return nil, err
	}

	c.tracker.TrackAPISuccess(provider)
	if err := c.cache.SetCache(ctx, key, body); err != nil {
		slog.Error("Failed to cache response", "key", key, "error", err)
	}
	return body, nil
}

// PhasePause sleeps the configured inter-phase delay. Sequential query phases
// within one fetch are spaced apart to avoid tripping the remote rate limiter.
func (c *Client) PhasePause(ctx context.Context) {
	if c.phaseDelay <= 0 {
		return
	}
	select {
	case <-time.After(c.phaseDelay):
	case <-ctx.Done():
	}
}

// executeWithBackoff attempts the request with backoff on retryable errors.
// Rate-limit responses back off exponentially with jitter; other transient
// failures back off linearly.
func (c *Client) executeWithBackoff(ctx context.Context, query string) ([]byte, error) {
	for attempt := 0; attempt < c.maxAttempts; attempt++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		if attempt > 0 {
			c.tracker.TrackAPIRetry(provider)
		}

		slog.Debug("Network Request", "endpoint", c.endpoint, "attempt", attempt+1)
		body, status, err := c.doPost(ctx, query)

		switch {
		case err != nil:
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			slog.Warn("Request failed, retrying", "attempt", attempt+1, "error", err)
			if !c.sleep(ctx, linearDelay(c.baseDelay, attempt)) {
				return nil, ctx.Err()
			}

		case status == http.StatusTooManyRequests:
			slog.Warn("Rate limited, backing off", "attempt", attempt+1)
			if !c.sleep(ctx, ExponentialDelay(c.baseDelay, c.maxDelay, attempt)) {
				return nil, ctx.Err()
			}

		case status >= 400:
			slog.Warn("API error, retrying", "status", status, "attempt", attempt+1)
			if !c.sleep(ctx, linearDelay(c.baseDelay, attempt)) {
				return nil, ctx.Err()
			}

		default:
			return body, nil
		}
	}

	return nil, fmt.Errorf("max retries exceeded (%d attempts)", c.maxAttempts)
}

// doPost performs one POST of the query in the remote's `data=` form encoding.
func (c *Client) doPost(ctx context.Context, query string) (body []byte, status int, err error) {
	form := url.Values{"data": {query}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint,
		bytes.NewBufferString(form.Encode()))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", defaultUserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, resp.StatusCode, nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read error: %w", err)
	}
	return data, resp.StatusCode, nil
}

// sleep waits for d unless the context expires first. Returns false on expiry.
func (c *Client) sleep(ctx context.Context, d time.Duration) bool {
	select {
	case <-time.After(d):
		return true
	case <-ctx.Done():
		return false
	}
}

func cacheKey(query string) string {
	sum := md5.Sum([]byte(query))
	return "overpass:" + hex.EncodeToString(sum[:])
}
