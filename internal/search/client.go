// Package search calls the web-search provider. The provider is an opaque
// collaborator: given a query it returns ranked text snippets, nothing more.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	httpclient "show-status/internal/common/http"
)

// Snippet is one ranked search result.
type Snippet struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Content string `json:"content"`
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// NewClient creates a search client for the configured provider endpoint.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		httpClient: httpclient.NewHTTPClient(httpclient.WithTimeout(15 * time.Second)),
		baseURL:    baseURL,
		apiKey:     apiKey,
	}
}

type searchRequest struct {
	Query      string `json:"query"`
	MaxResults int    `json:"max_results"`
}

type searchResponse struct {
	Results []Snippet `json:"results"`
}

// Search returns up to maxResults ranked snippets for the query.
func (c *Client) Search(ctx context.Context, query string, maxResults int) ([]Snippet, error) {
	if maxResults <= 0 {
		maxResults = 5
	}

	body, err := json.Marshal(searchRequest{Query: query, MaxResults: maxResults})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal search request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("search provider returned status %d: %s", resp.StatusCode, data)
	}

	var parsed searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	return parsed.Results, nil
}
