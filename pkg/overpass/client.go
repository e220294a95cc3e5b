// Package overpass speaks the remote tag database's query language and wire
// format. It builds union queries over sample points, bounding boxes, and
// destination areas, and decodes the element envelope.
package overpass

import (
	"context"
	"encoding/json"
	"log/slog"

	"roadscout/pkg/request"
	"roadscout/pkg/tracker"
)

// provider is the tracker key shared with the request client.
const provider = "overpass"

// Client executes query phases against the remote endpoint.
type Client struct {
	request *request.Client
	tracker *tracker.Tracker
}

// NewClient creates a new Client.
func NewClient(r *request.Client, t *tracker.Tracker) *Client {
	return &Client{request: r, tracker: t}
}

// RunPhase executes one phase of query strings under the request client's
// worker pool and decodes every response. Empty query strings are skipped
// without a request. A query that failed or returned undecodable JSON
// contributes no records; a phase never fails as a whole.
func (c *Client) RunPhase(ctx context.Context, queries []string) []RawRecord {
	live := make([]string, 0, len(queries))
	for _, q := range queries {
		if q != "" {
			live = append(live, q)
		}
	}
	if len(live) == 0 {
		return nil
	}

	bodies := c.request.RunQueries(ctx, live)

	var records []RawRecord
	for i, body := range bodies {
		if body == nil {
			continue
		}
		var resp response
		if err := json.Unmarshal(body, &resp); err != nil {
			slog.Warn("Failed to decode response", "index", i, "error", err)
			continue
		}
		// A successful query with no elements is not an error, but it is
		// worth counting separately from queries that found something.
		if len(resp.Elements) == 0 {
			c.tracker.TrackAPIZero(provider)
			continue
		}
		records = append(records, resp.Elements...)
	}
	return records
}

// PhasePause spaces sequential phases apart per the configured delay.
func (c *Client) PhasePause(ctx context.Context) {
	c.request.PhasePause(ctx)
}
