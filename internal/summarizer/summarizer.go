package summarizer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"docsummary/internal/domain"
)

var (
	ErrUpstream      = errors.New("language model call failed")
	ErrEmptyInput    = errors.New("input is empty")
	ErrMissingAPIKey = errors.New("language model API key is not configured")
)

// Input describes the payload for a summary request.
type Input struct {
	// Content is the extracted text to summarise.
	Content string
	// FileName is optional and only used to give the model context.
	FileName string
}

// Prompt is a single system instruction plus user message.
type Prompt struct {
	System string
	User   string
}

// Model sends one prompt to a language model and returns its raw text reply.
type Model interface {
	Reply(ctx context.Context, prompt Prompt) (string, error)
}

// Outcome is a summary together with how it was obtained.
type Outcome struct {
	Result domain.SummaryResult
	// Fallback is set when the model reply was not valid JSON and Result was
	// synthesised from the raw reply.
	Fallback bool
}

type Summarizer struct {
	model Model
	log   *slog.Logger
}

func New(model Model, log *slog.Logger) *Summarizer {
	return &Summarizer{model: model, log: log}
}

// Summarize makes exactly one model call. There is no retry.
func (s *Summarizer) Summarize(ctx context.Context, input Input) (Outcome, error) {
	if strings.TrimSpace(input.Content) == "" {
		return Outcome{}, ErrEmptyInput
	}

	if s.model == nil {
		return Outcome{}, fmt.Errorf("%w: %w", ErrUpstream, ErrMissingAPIKey)
	}

	reply, err := s.model.Reply(ctx, BuildPrompt(input))
	if err != nil {
		return Outcome{}, fmt.Errorf("%w: %w", ErrUpstream, err)
	}

	result, ok := ParseReply(reply)
	if !ok {
		s.log.WarnContext(ctx, "Model reply is not JSON so fallback is used",
			"fileName", input.FileName,
			"replyLength", utf8.RuneCountInString(reply),
			"contentLength", utf8.RuneCountInString(input.Content))

		return Outcome{Result: Fallback(reply, input.Content), Fallback: true}, nil
	}

	return Outcome{Result: result}, nil
}

// Unavailable is a Model that always fails with Err. It stands in when no
// API credential is configured.
type Unavailable struct {
	Err error
}

func (u Unavailable) Reply(context.Context, Prompt) (string, error) {
	if u.Err == nil {
		return "", ErrMissingAPIKey
	}

	return "", u.Err
}
