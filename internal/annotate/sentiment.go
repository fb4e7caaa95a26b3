package annotate

import (
	"context"
	"fmt"

	"telephony-insights-go/internal/types"
)

const DefaultSentimentLabel = "NEUTRAL"

// SentimentAnalyzer surfaces the first label of a text-classification model.
type SentimentAnalyzer struct {
	model        TextClassificationModel
	defaultLabel string
	limit        int
}

func NewSentimentAnalyzer(model TextClassificationModel, lengthLimit int) *SentimentAnalyzer {
	if lengthLimit <= 0 {
		lengthLimit = DefaultLengthLimit
	}
	return &SentimentAnalyzer{model: model, defaultLabel: DefaultSentimentLabel, limit: lengthLimit}
}

func (s *SentimentAnalyzer) Name() string { return "sentiment" }

func (s *SentimentAnalyzer) Annotate(ctx context.Context, text string) (types.AnnotationResult, error) {
	if text == "" {
		return types.LabelResult(types.KindSentiment, s.defaultLabel, 0), nil
	}
	out, err := s.model.ClassifyText(ctx, Truncate(text, s.limit))
	if err != nil {
		return types.AnnotationResult{}, fmt.Errorf("sentiment analyzer: %w", err)
	}
	if len(out) == 0 {
		return types.AnnotationResult{}, fmt.Errorf("sentiment analyzer: %w", ErrEmptyModelOutput)
	}
	return types.LabelResult(types.KindSentiment, out[0].Label, out[0].Score), nil
}
