// Package gemini is the client for the hosted generative-language API. It is
// deliberately thin: one request per turn, no retries, no streaming.
package gemini

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"context"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com"
	defaultModel   = "gemini-2.5-flash"
	defaultTimeout = 60 * time.Second
)

// UpstreamError is a non-success response from the model API. Body carries
// the upstream diagnostic text verbatim so it can be surfaced to the caller.
type UpstreamError struct {
	Status int
	Body   string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("model API error (HTTP %d): %s", e.Status, e.Body)
}

// Client communicates with the generative-language API.
type Client struct {
	model      string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the given model name. An empty model selects
// the default.
func NewClient(model string) *Client {
	if model == "" {
		model = defaultModel
	}
	return &Client{
		model:   model,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
}

// NewClientWithBaseURL creates a client pointing at a custom base URL (for testing).
func NewClientWithBaseURL(model, baseURL string) *Client {
	c := NewClient(model)
	c.baseURL = strings.TrimRight(baseURL, "/")
	return c
}

// Generate sends one generateContent request and returns the reply text: the
// newline-join of the first candidate's part texts, or "" when the model
// returned none. apiKey is resolved per request by the caller, never stored.
func (c *Client) Generate(ctx context.Context, apiKey string, contents []Content) (string, error) {
	body, err := json.Marshal(generateRequest{Model: c.model, Contents: contents})
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	url := c.baseURL + "/v1beta/models/" + c.model + ":generateContent"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return "", &UpstreamError{Status: resp.StatusCode, Body: string(respBody)}
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}

	if len(out.Candidates) == 0 {
		return "", nil
	}
	parts := out.Candidates[0].Content.Parts
	texts := make([]string, len(parts))
	for i, p := range parts {
		texts[i] = p.Text
	}
	return strings.Join(texts, "\n"), nil
}
