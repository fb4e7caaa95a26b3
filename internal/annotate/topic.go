package annotate

import (
	"context"
	"fmt"

	"telephony-insights-go/internal/types"
)

// DefaultTopicLabels are the zero-shot candidates, in French like the
// dialogues the classifier model was picked for.
var DefaultTopicLabels = []string{
	"facturation",
	"support technique",
	"commande",
	"réclamation",
	"retour",
	"autre",
}

const (
	DefaultTopicLabel  = "autre"
	DefaultLengthLimit = 512
)

type TopicClassifierOptions struct {
	Labels       []string
	DefaultLabel string
	LengthLimit  int
}

// TopicClassifier labels text with the best zero-shot topic.
type TopicClassifier struct {
	model        ZeroShotModel
	labels       []string
	defaultLabel string
	limit        int
}

func NewTopicClassifier(model ZeroShotModel, opts TopicClassifierOptions) *TopicClassifier {
	labels := opts.Labels
	if len(labels) == 0 {
		labels = DefaultTopicLabels
	}
	if opts.DefaultLabel == "" {
		opts.DefaultLabel = DefaultTopicLabel
	}
	if opts.LengthLimit <= 0 {
		opts.LengthLimit = DefaultLengthLimit
	}
	return &TopicClassifier{
		model:        model,
		labels:       append([]string(nil), labels...),
		defaultLabel: opts.DefaultLabel,
		limit:        opts.LengthLimit,
	}
}

func (c *TopicClassifier) Name() string { return "classify" }

func (c *TopicClassifier) Annotate(ctx context.Context, text string) (types.AnnotationResult, error) {
	if text == "" {
		return types.LabelResult(types.KindTopic, c.defaultLabel, 0), nil
	}
	out, err := c.model.ZeroShot(ctx, Truncate(text, c.limit), c.labels)
	if err != nil {
		return types.AnnotationResult{}, fmt.Errorf("topic classifier: %w", err)
	}
	if len(out.Labels) == 0 || len(out.Scores) == 0 {
		return types.AnnotationResult{}, fmt.Errorf("topic classifier: %w", ErrEmptyModelOutput)
	}
	return types.LabelResult(types.KindTopic, out.Labels[0], out.Scores[0]), nil
}
