package inference

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"telephony-insights-go/internal/annotate"
)

const DefaultOpenAIModel = openai.GPT4oMini

type OpenAIConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

// OpenAISummarizer summarizes through an OpenAI-compatible chat endpoint.
type OpenAISummarizer struct {
	client *openai.Client
	model  string
}

var _ annotate.SummarizationModel = (*OpenAISummarizer)(nil)

func NewOpenAISummarizer(cfg OpenAIConfig) *OpenAISummarizer {
	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = cfg.BaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultOpenAIModel
	}
	return &OpenAISummarizer{client: openai.NewClientWithConfig(oc), model: cfg.Model}
}

func summaryPrompt(params annotate.SummaryParams) string {
	return fmt.Sprintf(
		"Summarize the following customer support call in one or two sentences. "+
			"Use between %d and %d tokens. Reply with the summary only.",
		params.MinLength, params.MaxLength)
}

func (s *OpenAISummarizer) Summarize(ctx context.Context, text string, params annotate.SummaryParams) ([]annotate.SummaryOutput, error) {
	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: summaryPrompt(params)},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
		MaxTokens:   params.MaxLength,
		Temperature: 0,
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) && apiErr.HTTPStatusCode >= 400 && apiErr.HTTPStatusCode < 500 && apiErr.HTTPStatusCode != 429 {
			return nil, fmt.Errorf("openai summarize: %w", err)
		}
		return nil, fmt.Errorf("%w: openai %s: %w", annotate.ErrModelUnavailable, s.model, err)
	}
	out := make([]annotate.SummaryOutput, 0, len(resp.Choices))
	for _, c := range resp.Choices {
		out = append(out, annotate.SummaryOutput{SummaryText: strings.TrimSpace(c.Message.Content)})
	}
	return out, nil
}
