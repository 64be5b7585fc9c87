package client_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"docsummary/internal/client"
	"docsummary/internal/domain"
)

func TestSummarizePostsPayload(t *testing.T) {
	var calls atomic.Int32
	var got domain.SummaryRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)

		if r.Method != http.MethodPost {
			t.Errorf("unexpected method: %s", r.Method)
		}

		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("unexpected content type: %s", ct)
		}

		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"summary":"Kort","keyPoints":["a","b"],"wordCount":2,"originalLength":11}`)
	}))
	defer server.Close()

	c, err := client.New(server.URL, server.Client(), slog.Default())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	result, err := c.Summarize(context.Background(), "hello world", "hello.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.Content != "hello world" || got.FileName != "hello.txt" {
		t.Fatalf("unexpected payload: %+v", got)
	}

	if result.Summary != "Kort" || len(result.KeyPoints) != 2 || result.WordCount != 2 || result.OriginalLength != 11 {
		t.Fatalf("unexpected result: %+v", result)
	}

	if n := calls.Load(); n != 1 {
		t.Fatalf("expected exactly one request, got %d", n)
	}
}

func TestSummarizeNonSuccessStatus(t *testing.T) {
	var calls atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, "AI error")
	}))
	defer server.Close()

	c, err := client.New(server.URL, nil, slog.Default())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = c.Summarize(context.Background(), "text", "a.txt")
	if !errors.Is(err, client.ErrSummarizationRequestFailed) {
		t.Fatalf("expected ErrSummarizationRequestFailed, got %v", err)
	}

	var reqErr *client.RequestFailedError
	if !errors.As(err, &reqErr) {
		t.Fatalf("expected RequestFailedError, got %T", err)
	}

	if reqErr.StatusCode != http.StatusInternalServerError || reqErr.Body != "AI error" {
		t.Fatalf("unexpected error details: %+v", reqErr)
	}

	if reqErr.Error() != "summarize API failed: 500 AI error" {
		t.Fatalf("unexpected error message: %q", reqErr.Error())
	}

	if n := calls.Load(); n != 1 {
		t.Fatalf("expected no retry, got %d requests", n)
	}
}

func TestSummarizeInvalidJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "not json")
	}))
	defer server.Close()

	c, err := client.New(server.URL, nil, slog.Default())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err = c.Summarize(context.Background(), "text", "a.txt"); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestNewRequiresEndpoint(t *testing.T) {
	if _, err := client.New("  ", nil, slog.Default()); err == nil {
		t.Fatalf("expected error for empty endpoint")
	}
}
