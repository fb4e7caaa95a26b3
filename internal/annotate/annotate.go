// Package annotate wraps pretrained model capabilities behind one Annotator
// contract: empty-input defaults, silent truncation and top-result
// normalization are handled here, the models only ever see clean input.
package annotate

import (
	"context"
	"errors"

	"telephony-insights-go/internal/types"
)

var (
	// ErrModelUnavailable wraps failures to reach or load a model.
	// Callers must see it; it is never turned into a default result.
	ErrModelUnavailable = errors.New("annotate: model unavailable")

	// ErrEmptyModelOutput is returned when a model answers with nothing.
	ErrEmptyModelOutput = errors.New("annotate: model returned no output")
)

// Annotator derives one structured judgment from free text.
type Annotator interface {
	Name() string
	Annotate(ctx context.Context, text string) (types.AnnotationResult, error)
}

// LabelScore is one ranked label from a classification model.
type LabelScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// ZeroShotOutput holds labels ranked best first with parallel scores.
type ZeroShotOutput struct {
	Sequence string    `json:"sequence"`
	Labels   []string  `json:"labels"`
	Scores   []float64 `json:"scores"`
}

type SummaryOutput struct {
	SummaryText string `json:"summary_text"`
}

type SummaryParams struct {
	MinLength int
	MaxLength int
}

// ZeroShotModel scores text against candidate labels.
type ZeroShotModel interface {
	ZeroShot(ctx context.Context, text string, labels []string) (ZeroShotOutput, error)
}

// TextClassificationModel returns ranked labels for text.
type TextClassificationModel interface {
	ClassifyText(ctx context.Context, text string) ([]LabelScore, error)
}

type SummarizationModel interface {
	Summarize(ctx context.Context, text string, params SummaryParams) ([]SummaryOutput, error)
}

// Truncate keeps the first limit characters of text. Anything after is
// never analyzed. A non-positive limit leaves text unchanged.
func Truncate(text string, limit int) string {
	if limit <= 0 {
		return text
	}
	n := 0
	for i := range text {
		if n == limit {
			return text[:i]
		}
		n++
	}
	return text
}
