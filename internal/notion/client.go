package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"reelsync/internal/services"
)

const (
	// DefaultBaseURL is the public Notion API root.
	DefaultBaseURL = "https://api.notion.com/v1"
	// DefaultVersion is the Notion-Version header sent with every request.
	DefaultVersion = "2022-06-28"

	maxPageSize = 100
)

// Client provides access to the Notion REST API.
type Client struct {
	token      string
	baseURL    string
	version    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithRateLimit caps outgoing requests per second. Zero or negative disables limiting.
func WithRateLimit(perSecond float64) Option {
	return func(c *Client) {
		if perSecond <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
	}
}

// New creates a Notion client. baseURL and version fall back to the public API
// defaults when empty.
func New(token, baseURL, version string, opts ...Option) (*Client, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, services.Wrap(services.ErrConfiguration, "notion", "new client", "integration token required", nil)
	}
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	version = strings.TrimSpace(version)
	if version == "" {
		version = DefaultVersion
	}
	client := &Client{
		token:      token,
		baseURL:    baseURL,
		version:    version,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// QueryDatabase returns every page of a database, following cursors.
func (c *Client) QueryDatabase(ctx context.Context, databaseID string) ([]Page, error) {
	databaseID = strings.TrimSpace(databaseID)
	if databaseID == "" {
		return nil, services.Wrap(services.ErrConfiguration, "notion", "query database", "database id required", nil)
	}
	var pages []Page
	cursor := ""
	for {
		var payload pageList
		body := queryRequest{StartCursor: cursor, PageSize: maxPageSize}
		if err := c.do(ctx, http.MethodPost, "/databases/"+url.PathEscape(databaseID)+"/query", body, &payload); err != nil {
			return nil, err
		}
		pages = append(pages, payload.Results...)
		if !payload.HasMore || payload.NextCursor == "" {
			return pages, nil
		}
		cursor = payload.NextCursor
	}
}

// GetPage fetches a single page with its properties and cover.
func (c *Client) GetPage(ctx context.Context, pageID string) (*Page, error) {
	var page Page
	if err := c.do(ctx, http.MethodGet, "/pages/"+url.PathEscape(pageID), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// UpdatePage patches page properties.
func (c *Client) UpdatePage(ctx context.Context, pageID string, properties map[string]Property) error {
	return c.do(ctx, http.MethodPatch, "/pages/"+url.PathEscape(pageID), updateRequest{Properties: properties}, nil)
}

// SetPageCover replaces the page cover with an external image.
func (c *Client) SetPageCover(ctx context.Context, pageID, imageURL string) error {
	cover := &FileRef{Type: "external", External: &URLRef{URL: imageURL}}
	return c.do(ctx, http.MethodPatch, "/pages/"+url.PathEscape(pageID), updateRequest{Cover: cover}, nil)
}

// ListChildren returns every top-level block of a page, following cursors.
func (c *Client) ListChildren(ctx context.Context, blockID string) ([]Block, error) {
	var blocks []Block
	cursor := ""
	for {
		params := url.Values{}
		params.Set("page_size", fmt.Sprint(maxPageSize))
		if cursor != "" {
			params.Set("start_cursor", cursor)
		}
		var payload blockList
		path := "/blocks/" + url.PathEscape(blockID) + "/children?" + params.Encode()
		if err := c.do(ctx, http.MethodGet, path, nil, &payload); err != nil {
			return nil, err
		}
		blocks = append(blocks, payload.Results...)
		if !payload.HasMore || payload.NextCursor == "" {
			return blocks, nil
		}
		cursor = payload.NextCursor
	}
}

// AppendChildren appends blocks to a page, after the given block when set,
// and returns the created blocks.
func (c *Client) AppendChildren(ctx context.Context, blockID string, children []Block, after string) ([]Block, error) {
	var payload blockList
	body := appendRequest{Children: children, After: after}
	if err := c.do(ctx, http.MethodPatch, "/blocks/"+url.PathEscape(blockID)+"/children", body, &payload); err != nil {
		return nil, err
	}
	return payload.Results, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode notion request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("notion rate limit wait: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Notion-Version", c.version)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	operation := method + " " + strings.SplitN(path, "?", 2)[0]
	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return services.Wrap(services.ErrTransient, "notion", operation, fmt.Sprintf("execute request (latency=%v)", latency), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return statusError(resp, operation, latency)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return services.Wrap(services.ErrTransient, "notion", operation, "decode response", err)
	}
	return nil
}

func statusError(resp *http.Response, operation string, latency time.Duration) error {
	var detail apiError
	_ = json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&detail)
	message := fmt.Sprintf("returned %d (latency=%v)", resp.StatusCode, latency)
	if detail.Message != "" {
		message = fmt.Sprintf("%s: %s %s", message, detail.Code, detail.Message)
	}
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return services.Wrap(services.ErrNotFound, "notion", operation, message, nil)
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return services.Wrap(services.ErrConfiguration, "notion", operation, message, nil)
	case resp.StatusCode == http.StatusBadRequest:
		return services.Wrap(services.ErrValidation, "notion", operation, message, nil)
	default:
		return services.Wrap(services.ErrTransient, "notion", operation, message, nil)
	}
}
