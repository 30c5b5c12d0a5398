// Package feed fetches the live earthquake catalog over HTTP. One GET per
// load, no retries: callers that want resilience fall back to the snapshot.
package feed

import (
	"context"
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"github.com/quakescope/quakescope/internal/domain/catalog"
	"github.com/quakescope/quakescope/internal/domain/model"
)

const (
	defaultURL     = "https://earthquake.usgs.gov/earthquakes/feed/v1.0/summary/all_month.csv"
	defaultTimeout = 15 * time.Second
)

// Client issues one-shot fetches of the remote feed CSV.
type Client struct {
	url        string
	httpClient *http.Client
}

// NewClient constructs a feed client with configuration options.
func NewClient(opts ...Option) *Client {
	c := &Client{
		url: defaultURL,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// URL reports the feed location the client fetches.
func (c *Client) URL() string {
	return c.url
}

// Load fetches the feed once and normalizes it into a table. Every failure
// mode surfaces as an error: a dial or timeout failure, a non-2xx status,
// or a body that does not parse as CSV.
func (c *Client) Load(ctx context.Context) (*model.Table, catalog.Report, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, catalog.Report{}, fmt.Errorf("%w: %w", ErrFetchFeed, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, catalog.Report{}, fmt.Errorf("%w %q: %w", ErrFetchFeed, c.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, catalog.Report{}, fmt.Errorf("%w: status %d from %q", ErrFeedStatus, resp.StatusCode, c.url)
	}

	reader := csv.NewReader(resp.Body)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, catalog.Report{}, fmt.Errorf("%w: %w", ErrParseFeed, err)
	}

	table, report, err := catalog.Normalize(records)
	if err != nil {
		return nil, catalog.Report{}, fmt.Errorf("%w: %w", ErrParseFeed, err)
	}

	return table, report, nil
}
