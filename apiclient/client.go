// Package apiclient implements forum.Store over the discussion HTTP API.
package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/puzpuzpuz/xsync/v3"

	"github.com/goliatone/go-discussion-pager/forum"
)

const listPath = "/api/discussions"

var _ forum.Store = (*Client)(nil)

// StatusError is returned for non-2xx API responses.
type StatusError struct {
	Status int
	URL    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("apiclient: %s returned %d", e.URL, e.Status)
}

// Client fetches discussion windows and keeps every record it saw in an
// identity map keyed by id; the latest copy of a record wins.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
	records *xsync.MapOf[string, *forum.Discussion]

	mu        sync.Mutex
	preloaded *forum.Results
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		if c != nil {
			cl.http = c
		}
	}
}

// WithLogger sets the client logger.
func WithLogger(logger *slog.Logger) Option {
	return func(cl *Client) {
		if logger != nil {
			cl.logger = logger
		}
	}
}

// New creates a client for the API rooted at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
		logger:  slog.Default(),
		records: xsync.NewMapOf[string, *forum.Discussion](),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Find implements forum.Store.
func (c *Client) Find(ctx context.Context, req forum.RequestParams) (*forum.Results, error) {
	endpoint := c.baseURL + listPath + "?" + req.Values().Encode()

	var doc forum.Document
	if err := c.get(ctx, endpoint, &doc); err != nil {
		return nil, err
	}
	c.logger.Debug("discussions fetched",
		slog.Int("offset", req.Offset),
		slog.Int("limit", req.Limit),
		slog.Int("count", len(doc.Data)),
	)
	return c.ingest(&doc), nil
}

// Discussion loads a single discussion and records it.
func (c *Client) Discussion(ctx context.Context, id string) (*forum.Discussion, error) {
	var doc struct {
		Data forum.Resource `json:"data"`
	}
	if err := c.get(ctx, c.baseURL+listPath+"/"+url.PathEscape(id), &doc); err != nil {
		return nil, err
	}
	d := doc.Data.Discussion()
	c.records.Store(d.ID, d)
	return d, nil
}

// GetByID implements forum.Store.
func (c *Client) GetByID(id string) (*forum.Discussion, bool) {
	return c.records.Load(id)
}

// Forget drops every record from the identity map.
func (c *Client) Forget() {
	c.records.Clear()
}

// Known reports how many records the identity map holds.
func (c *Client) Known() int {
	return c.records.Size()
}

// Preload hands doc to the first list load instead of a fetch.
func (c *Client) Preload(doc *forum.Document) {
	results := c.ingest(doc)
	c.mu.Lock()
	c.preloaded = results
	c.mu.Unlock()
}

// PreloadedDocument implements forum.Store. The document is returned once.
func (c *Client) PreloadedDocument() (*forum.Results, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	res := c.preloaded
	c.preloaded = nil
	return res, res != nil
}

func (c *Client) ingest(doc *forum.Document) *forum.Results {
	results := doc.Results()
	for _, d := range results.Items {
		c.records.Store(d.ID, d)
	}
	return results
}

func (c *Client) get(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("apiclient: build request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.api+json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("apiclient: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return forum.ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Status: resp.StatusCode, URL: endpoint}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("apiclient: decode: %w", err)
	}
	return nil
}
