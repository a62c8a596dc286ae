// Package client is the Go client for a tessera server: a thin HTTP API
// wrapper plus the reconciliation loop that keeps a local page list in
// step with the server.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Page is the wire shape of a page as the API returns it.
type Page struct {
	ID          string         `json:"id"`
	WorkspaceID string         `json:"workspace_id"`
	ParentID    *string        `json:"parent_id"`
	Path        []string       `json:"path"`
	Depth       int            `json:"depth"`
	Position    int            `json:"position"`
	Title       string         `json:"title"`
	Icon        *string        `json:"icon,omitempty"`
	Cover       *string        `json:"cover,omitempty"`
	Content     map[string]any `json:"content,omitempty"`
	Properties  map[string]any `json:"properties,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// Client talks to a tessera server.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithToken sets the bearer token sent on every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// New creates a client for the server at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// APIError is a non-2xx response from the server.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Detail)
}

// ListPages fetches the workspace's full non-trashed page list.
func (c *Client) ListPages(ctx context.Context, workspaceID string) ([]Page, error) {
	var pages []Page
	err := c.do(ctx, http.MethodGet, "/api/pages?workspace_id="+workspaceID, nil, &pages)
	return pages, err
}

// GetPage fetches a single page.
func (c *Client) GetPage(ctx context.Context, id string) (*Page, error) {
	var page Page
	if err := c.do(ctx, http.MethodGet, "/api/pages/"+id, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, dest any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var problem struct {
			Detail string `json:"detail"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&problem)
		return &APIError{Status: resp.StatusCode, Detail: problem.Detail}
	}

	if dest == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
