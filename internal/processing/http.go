package processing

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// HTTPProcessor posts the prompt to an HTTP endpoint and returns the
// response body verbatim. The remote contract is plain text; no JSON
// parsing happens at this layer.
type HTTPProcessor struct {
	client  *http.Client
	timeout time.Duration
}

// NewHTTPProcessor creates an HTTP processor. A non-positive timeout
// falls back to DefaultTimeout.
func NewHTTPProcessor(timeout time.Duration) *HTTPProcessor {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTPProcessor{
		client:  &http.Client{},
		timeout: timeout,
	}
}

// processorRequest is the JSON body sent to the endpoint.
type processorRequest struct {
	Prompt   string         `json:"prompt"`
	Metadata map[string]any `json:"metadata"`
}

// Execute POSTs {"prompt": ..., "metadata": ...} to url. A nil
// metadata is sent as an empty object.
func (p *HTTPProcessor) Execute(ctx context.Context, url, prompt string, metadata map[string]any) (string, error) {
	if url == "" {
		return "", fmt.Errorf("empty processor url")
	}
	if metadata == nil {
		metadata = map[string]any{}
	}

	body, err := json.Marshal(processorRequest{Prompt: prompt, Metadata: metadata})
	if err != nil {
		return "", fmt.Errorf("encoding processor request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", &TimeoutError{Timeout: p.timeout}
		}
		return "", fmt.Errorf("calling processor endpoint: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", &TimeoutError{Timeout: p.timeout}
		}
		return "", fmt.Errorf("reading processor response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &RemoteError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}
	return string(respBody), nil
}
