package summarizer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/responses"
)

const defaultModel = openai.ChatModelGPT4oMini

// OpenAIModel calls OpenAI's Responses API.
type OpenAIModel struct {
	client openai.Client
	model  string
}

// NewOpenAIModel builds a model client. baseURL and model may be empty.
func NewOpenAIModel(apiKey string, baseURL string, model string) (*OpenAIModel, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL = strings.TrimSpace(baseURL); baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	if model = strings.TrimSpace(model); model == "" {
		model = string(defaultModel)
	}

	return &OpenAIModel{
		client: openai.NewClient(opts...),
		model:  model,
	}, nil
}

func (m *OpenAIModel) Reply(ctx context.Context, prompt Prompt) (string, error) {
	resp, err := m.client.Responses.New(ctx, responses.ResponseNewParams{
		Model:        m.model,
		Instructions: openai.String(prompt.System),
		Input: responses.ResponseNewParamsInputUnion{
			OfString: openai.String(prompt.User),
		},
	})
	if err != nil {
		return "", fmt.Errorf("do request: %w", err)
	}

	if resp == nil {
		return "", errors.New("response is empty")
	}

	text := resp.OutputText()
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("output text is missing (status = %s)", resp.Status)
	}

	return text, nil
}
