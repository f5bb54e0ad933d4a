package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"polis/pkg/platform/circuit"
)

const maxResponseBytes = 1 << 20

// HTTPClient calls a text-analysis service over JSON:
//
//	POST {baseURL}/v1/analyze {"description": "..."}
//	200 {"category": "economy", "impact": {...}, "relevance": {...}}
type HTTPClient struct {
	baseURL string
	client  *http.Client
	breaker *circuit.Breaker
}

type ClientOption func(*HTTPClient)

// WithBreaker rejects calls with circuit.ErrOpen while the breaker is open.
func WithBreaker(b *circuit.Breaker) ClientOption {
	return func(c *HTTPClient) {
		c.breaker = b
	}
}

// NewHTTPClient returns a client with the given per-request timeout.
func NewHTTPClient(baseURL string, timeout time.Duration, opts ...ClientOption) *HTTPClient {
	c := &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type analyzeRequest struct {
	Description string `json:"description"`
}

// Analyze implements Analyzer.
func (c *HTTPClient) Analyze(ctx context.Context, description string) (Analysis, error) {
	if c.breaker == nil {
		return c.analyze(ctx, description)
	}
	if !c.breaker.Allow() {
		return Analysis{}, fmt.Errorf("analysis service: %w", circuit.ErrOpen)
	}
	out, err := c.analyze(ctx, description)
	switch {
	case err == nil:
		c.breaker.RecordSuccess()
	case ctx.Err() == nil:
		// caller cancellations say nothing about the service
		c.breaker.RecordFailure()
	}
	return out, err
}

func (c *HTTPClient) analyze(ctx context.Context, description string) (Analysis, error) {
	body, err := json.Marshal(analyzeRequest{Description: description})
	if err != nil {
		return Analysis{}, fmt.Errorf("encode analyze request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/analyze", bytes.NewReader(body))
	if err != nil {
		return Analysis{}, fmt.Errorf("build analyze request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return Analysis{}, fmt.Errorf("call analysis service: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return Analysis{}, fmt.Errorf("read analysis response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return Analysis{}, fmt.Errorf("analysis service returned %d: %s", resp.StatusCode, strings.TrimSpace(string(payload)))
	}

	var out Analysis
	if err := json.Unmarshal(payload, &out); err != nil {
		return Analysis{}, fmt.Errorf("decode analysis response: %w", err)
	}
	return out, nil
}
