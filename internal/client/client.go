package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"docsummary/internal/domain"
)

var ErrSummarizationRequestFailed = errors.New("summarize API failed")

// RequestFailedError is returned when the endpoint answers with a non-2xx
// status.
type RequestFailedError struct {
	StatusCode int
	Body       string
}

func (e *RequestFailedError) Error() string {
	return fmt.Sprintf("%s: %d %s", ErrSummarizationRequestFailed, e.StatusCode, e.Body)
}

func (e *RequestFailedError) Unwrap() error {
	return ErrSummarizationRequestFailed
}

// Client posts extracted text to a summarization endpoint. One call means
// exactly one HTTP request.
type Client struct {
	endpoint   string
	httpClient *http.Client
	log        *slog.Logger
}

func New(endpoint string, httpClient *http.Client, log *slog.Logger) (*Client, error) {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return nil, errors.New("endpoint is empty")
	}

	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Client{
		endpoint:   endpoint,
		httpClient: httpClient,
		log:        log,
	}, nil
}

func (c *Client) Summarize(
	ctx context.Context,
	content string,
	fileName string,
) (*domain.SummaryResult, error) {
	payload, err := json.Marshal(domain.SummaryRequest{Content: content, FileName: fileName})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer func() {
		if err = resp.Body.Close(); err != nil {
			c.log.ErrorContext(ctx, "Failed to close response body",
				"error", err,
				"endpoint", c.endpoint,
				"operation", "Summarize")
		}
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			c.log.WarnContext(ctx, "Failed to read error response body",
				"error", readErr,
				"endpoint", c.endpoint,
				"statusCode", resp.StatusCode)
		}

		return nil, &RequestFailedError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
		}
	}

	var result domain.SummaryResult
	if err = json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	return &result, nil
}
