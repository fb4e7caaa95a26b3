package annotate

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"telephony-insights-go/internal/types"
)

// TooShortSummary is returned instead of calling the model on short input.
const TooShortSummary = "Text too short to summarize."

const (
	DefaultSummaryMinLength   = 30
	DefaultSummaryMaxLength   = 120
	DefaultSummaryLengthLimit = 1024
)

type SummarizerOptions struct {
	// MinLength is both the input guard (characters) and the model's
	// minimum summary length.
	MinLength   int
	MaxLength   int
	LengthLimit int
}

type Summarizer struct {
	model SummarizationModel
	opts  SummarizerOptions
}

func NewSummarizer(model SummarizationModel, opts SummarizerOptions) *Summarizer {
	if opts.MinLength <= 0 {
		opts.MinLength = DefaultSummaryMinLength
	}
	if opts.MaxLength <= 0 {
		opts.MaxLength = DefaultSummaryMaxLength
	}
	if opts.LengthLimit <= 0 {
		opts.LengthLimit = DefaultSummaryLengthLimit
	}
	return &Summarizer{model: model, opts: opts}
}

func (s *Summarizer) Name() string { return "summarize" }

func (s *Summarizer) Annotate(ctx context.Context, text string) (types.AnnotationResult, error) {
	if text == "" || utf8.RuneCountInString(text) < s.opts.MinLength {
		return types.SummaryResult(TooShortSummary), nil
	}
	out, err := s.model.Summarize(ctx, Truncate(text, s.opts.LengthLimit), SummaryParams{
		MinLength: s.opts.MinLength,
		MaxLength: s.opts.MaxLength,
	})
	if err != nil {
		return types.AnnotationResult{}, fmt.Errorf("summarizer: %w", err)
	}
	if len(out) == 0 || strings.TrimSpace(out[0].SummaryText) == "" {
		return types.AnnotationResult{}, fmt.Errorf("summarizer: %w", ErrEmptyModelOutput)
	}
	return types.SummaryResult(out[0].SummaryText), nil
}
