// Package convert talks to the PDF-to-text conversion service. The
// service returns page-tagged markdown; everything downstream works on
// that text, so conversion runs once per report and the result is
// persisted.
package convert

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

// Result is the converter's response for one document
type Result struct {
	OK         bool   `json:"ok"`
	Text       string `json:"text"`
	TokenCount int    `json:"token_count"`
	Error      string `json:"error,omitempty"`
}

// Converter turns a source document into page-tagged text
type Converter interface {
	Convert(ctx context.Context, document []byte, filename string) (*Result, error)
}

// Client calls the conversion service over HTTP:
// POST /convert (multipart file field) -> {ok, text, token_count, error}
type Client struct {
	httpClient *http.Client
	url        string
	apiKey     string
}

// NewClient creates a converter client
func NewClient(url, apiKey string, timeout time.Duration) *Client {
	if timeout == 0 {
		timeout = 2 * time.Minute
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		url:        url,
		apiKey:     apiKey,
	}
}

// Convert uploads a document and returns its extracted text. A response
// with ok=false is a service-level failure and surfaces as an error.
func (c *Client) Convert(ctx context.Context, document []byte, filename string) (*Result, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("build upload: %w", err)
	}
	if _, err := part.Write(document); err != nil {
		return nil, fmt.Errorf("build upload: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("build upload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, &body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("convert request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("convert service returned %d: %s", resp.StatusCode, truncate(respBody, 200))
	}

	var result Result
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if !result.OK {
		return nil, fmt.Errorf("conversion failed: %s", result.Error)
	}
	return &result, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
