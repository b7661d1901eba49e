// Package llm calls the language-model provider over the chat-completions
// API. Like the search provider it is an opaque collaborator: text in,
// a classification plus summary (or free-form text) out.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	httpclient "show-status/internal/common/http"
)

// Classification is the model's verdict on a show or movie. Status is one of
// the labels the classification prompt allows; the retention policy decides
// what to do with it, the lookup path never branches on it.
type Classification struct {
	Status  string `json:"status"`
	Summary string `json:"summary"`
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
}

// NewClient creates a chat-completions client. baseURL is the API root
// (e.g. https://api.openai.com/v1).
func NewClient(baseURL, apiKey, model string) *Client {
	return &Client{
		httpClient: httpclient.NewHTTPClient(httpclient.WithTimeout(30 * time.Second)),
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		model:      model,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete sends one system+user exchange and returns the model's reply text.
func (c *Client) Complete(ctx context.Context, system, prompt string, maxTokens int, temperature float64) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: prompt},
		},
		MaxTokens:   maxTokens,
		Temperature: temperature,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("chat request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("llm provider returned status %d: %s", resp.StatusCode, data)
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("failed to decode chat response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("llm response contained no choices")
	}

	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}

const classifySystem = "You are a television and film researcher. Answer with strict JSON only."

// Classify asks the model to derive a status label and a one-line summary
// from search snippets about a title.
func (c *Client) Classify(ctx context.Context, title, mediaType string, snippets []string) (*Classification, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "Determine the current status of the %s %q from these search results:\n\n", mediaType, title)
	for _, s := range snippets {
		fmt.Fprintf(&b, "- %s\n", s)
	}
	b.WriteString("\nReply with JSON: {\"status\": one of \"Renewed\", \"Returning\", \"Upcoming\", \"Cancelled\", \"Concluded\", \"Unknown\", \"summary\": a single sentence for a fan}.")

	content, err := c.Complete(ctx, classifySystem, b.String(), 200, 0.2)
	if err != nil {
		return nil, err
	}

	var result Classification
	if err := json.Unmarshal([]byte(stripFences(content)), &result); err != nil {
		return nil, fmt.Errorf("failed to parse classification %q: %w", content, err)
	}
	if result.Status == "" {
		result.Status = "Unknown"
	}

	return &result, nil
}

// stripFences removes a markdown code fence the model may wrap JSON in.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
