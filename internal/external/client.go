package external

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	spark_errors "spark-chat/pkg/errors"
)

// Config points the HTTP clients at the collaborating services.
type Config struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

type httpClient struct {
	baseURL string
	token   string
	client  *http.Client
}

func newHTTPClient(cfg Config) *httpClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &httpClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.Token,
		client:  &http.Client{Timeout: timeout},
	}
}

// do sends a JSON request and decodes a JSON response into out. 404 maps to
// ErrNotFound; network failures and 5xx map to ErrTransient.
func (c *httpClient) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		return fmt.Errorf("%w: %s %s: %v", spark_errors.ErrTransient, method, path, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return spark_errors.ErrNotFound
	case resp.StatusCode == http.StatusTooManyRequests:
		return spark_errors.ErrRateLimited
	case resp.StatusCode >= 500:
		return fmt.Errorf("%w: %s %s returned %d", spark_errors.ErrTransient, method, path, resp.StatusCode)
	case resp.StatusCode >= 300:
		return fmt.Errorf("%s %s returned %d", method, path, resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
