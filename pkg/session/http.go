package session

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/vk/optmodeler/internal/ctxlog"
)

// HTTPSubmitter posts programs to an engine's REST submission endpoint as
// JSON and decodes the JSON response body.
type HTTPSubmitter struct {
	// URL is the submission endpoint.
	URL string
	// Client is the HTTP client to use. A nil client falls back to
	// http.DefaultClient.
	Client *http.Client
}

// NewHTTPSubmitter builds a submitter for the given endpoint.
func NewHTTPSubmitter(url string, client *http.Client) *HTTPSubmitter {
	return &HTTPSubmitter{URL: url, Client: client}
}

// Submit posts the program and blocks for the response.
func (s *HTTPSubmitter) Submit(ctx context.Context, p Program) (*Response, error) {
	logger := ctxlog.FromContext(ctx).With("submitter", "http", "url", s.URL, "program", p.Name)
	logger.Info("Submitting program", "format", p.Format, "bytes", len(p.Text))

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}

	body, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to encode program: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.URL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	logger.Info("Received engine response", "status", resp.Status)

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("engine returned %s: %s", resp.Status, string(respBody))
	}

	var out Response
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, fmt.Errorf("failed to decode engine response: %w", err)
	}
	logger.Debug("Decoded response", "results", len(out.Results))
	return &out, nil
}
