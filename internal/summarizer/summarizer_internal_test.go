package summarizer

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

type stubModel struct {
	mu      sync.Mutex
	calls   int
	prompts []Prompt
	reply   string
	err     error
}

func (s *stubModel) Reply(_ context.Context, prompt Prompt) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	s.prompts = append(s.prompts, prompt)

	return s.reply, s.err
}

func (s *stubModel) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.calls
}

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt(Input{Content: "Hei verden", FileName: "hilsen.txt"})

	if prompt.System != systemPrompt {
		t.Fatalf("unexpected system prompt: %q", prompt.System)
	}

	for _, want := range []string{"Fil: hilsen.txt\n", "Tekst:\nHei verden\n", "120–180 ord", "4 punktliste"} {
		if !strings.Contains(prompt.User, want) {
			t.Fatalf("expected user prompt to contain %q, got %q", want, prompt.User)
		}
	}
}

func TestBuildPromptUnknownFileName(t *testing.T) {
	prompt := BuildPrompt(Input{Content: "x", FileName: "  "})

	if !strings.HasPrefix(prompt.User, "Fil: Ukjent\n") {
		t.Fatalf("expected unknown file name placeholder, got %q", prompt.User)
	}
}

func TestParseReply(t *testing.T) {
	result, ok := ParseReply(` {"summary":"Kort.","keyPoints":["a","b","c","d"],"wordCount":150,"originalLength":900} `)
	if !ok {
		t.Fatalf("expected JSON reply to parse")
	}

	if result.Summary != "Kort." || len(result.KeyPoints) != 4 || result.WordCount != 150 || result.OriginalLength != 900 {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestParseReplyMissingKeyPoints(t *testing.T) {
	result, ok := ParseReply(`{"summary":"Kort."}`)
	if !ok {
		t.Fatalf("expected JSON reply to parse")
	}

	if result.KeyPoints == nil || len(result.KeyPoints) != 0 {
		t.Fatalf("expected empty key points, got %#v", result.KeyPoints)
	}
}

func TestParseReplyRejectsNonObjects(t *testing.T) {
	replies := []string{
		"Dette er bare tekst.",
		"",
		"null",
		`["a","b"]`,
		`"quoted"`,
		`{"summary": "truncated`,
		`{"summary":"x","wordCount":"many"}`,
		"```json\n{\"summary\":\"x\"}\n```",
	}

	for _, reply := range replies {
		if _, ok := ParseReply(reply); ok {
			t.Fatalf("expected %q to be rejected", reply)
		}
	}
}

func TestFallbackCountsOriginalContent(t *testing.T) {
	content := "  én to\ttre\nfire   fem  "
	reply := "This reply has quite a few more words than the original input does."

	result := Fallback(reply, content)

	if result.Summary != reply {
		t.Fatalf("expected raw reply as summary, got %q", result.Summary)
	}

	if result.KeyPoints == nil || len(result.KeyPoints) != 0 {
		t.Fatalf("expected empty key points, got %#v", result.KeyPoints)
	}

	if result.WordCount != 5 {
		t.Fatalf("expected word count 5, got %d", result.WordCount)
	}

	if result.OriginalLength != 24 {
		t.Fatalf("expected original length 24, got %d", result.OriginalLength)
	}
}

func TestSummarizeUsesModelJSON(t *testing.T) {
	model := &stubModel{reply: `{"summary":"S","keyPoints":["k"],"wordCount":3,"originalLength":11}`}
	s := New(model, slog.Default())

	outcome, err := s.Summarize(context.Background(), Input{Content: "hello world", FileName: "a.txt"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if outcome.Fallback {
		t.Fatalf("expected parsed result, got fallback")
	}

	if outcome.Result.Summary != "S" || outcome.Result.WordCount != 3 {
		t.Fatalf("unexpected result: %+v", outcome.Result)
	}

	if got := model.callCount(); got != 1 {
		t.Fatalf("expected one model call, got %d", got)
	}
}

func TestSummarizeFallsBack(t *testing.T) {
	model := &stubModel{reply: "Plain text summary without any structure at all."}
	s := New(model, slog.Default())

	content := "one two three"
	outcome, err := s.Summarize(context.Background(), Input{Content: content})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !outcome.Fallback {
		t.Fatalf("expected fallback")
	}

	if outcome.Result.WordCount != 3 || outcome.Result.OriginalLength != len(content) {
		t.Fatalf("unexpected fallback counts: %+v", outcome.Result)
	}
}

func TestSummarizeWrapsUpstreamErrors(t *testing.T) {
	cause := errors.New("connection reset")
	model := &stubModel{err: cause}
	s := New(model, slog.Default())

	_, err := s.Summarize(context.Background(), Input{Content: "text"})
	if !errors.Is(err, ErrUpstream) || !errors.Is(err, cause) {
		t.Fatalf("expected upstream error wrapping cause, got %v", err)
	}

	if got := model.callCount(); got != 1 {
		t.Fatalf("expected no retry, got %d calls", got)
	}
}

func TestSummarizeRejectsBlankInput(t *testing.T) {
	model := &stubModel{reply: "{}"}
	s := New(model, slog.Default())

	if _, err := s.Summarize(context.Background(), Input{Content: " \n "}); !errors.Is(err, ErrEmptyInput) {
		t.Fatalf("expected ErrEmptyInput, got %v", err)
	}

	if got := model.callCount(); got != 0 {
		t.Fatalf("expected no model call, got %d", got)
	}
}

func TestUnavailableModel(t *testing.T) {
	s := New(Unavailable{}, slog.Default())

	_, err := s.Summarize(context.Background(), Input{Content: "text"})
	if !errors.Is(err, ErrUpstream) || !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("expected missing API key upstream error, got %v", err)
	}
}
