package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"telephony-insights-go/internal/annotate"
)

// HFModel is a handle to one hosted model. It satisfies every model
// capability the annotators need; which one works depends on the model.
type HFModel struct {
	client *HFClient
	name   string
}

var (
	_ annotate.ZeroShotModel           = (*HFModel)(nil)
	_ annotate.TextClassificationModel = (*HFModel)(nil)
	_ annotate.SummarizationModel      = (*HFModel)(nil)
)

func (m *HFModel) Name() string { return m.name }

func (m *HFModel) ZeroShot(ctx context.Context, text string, labels []string) (annotate.ZeroShotOutput, error) {
	body, err := m.client.post(ctx, m.name, inferenceRequest{
		Inputs:     text,
		Parameters: map[string]any{"candidate_labels": labels},
	})
	if err != nil {
		return annotate.ZeroShotOutput{}, err
	}
	outs, err := decodeOneOrMany[annotate.ZeroShotOutput](body)
	if err != nil {
		return annotate.ZeroShotOutput{}, err
	}
	if len(outs) == 0 {
		return annotate.ZeroShotOutput{}, annotate.ErrEmptyModelOutput
	}
	out := outs[0]
	if len(out.Labels) != len(out.Scores) {
		return annotate.ZeroShotOutput{}, fmt.Errorf("zero-shot: %d labels but %d scores", len(out.Labels), len(out.Scores))
	}
	return out, nil
}

// ClassifyText returns labels ranked by descending score. The endpoint
// answers either [{...}] or [[{...}]].
func (m *HFModel) ClassifyText(ctx context.Context, text string) ([]annotate.LabelScore, error) {
	body, err := m.client.post(ctx, m.name, inferenceRequest{Inputs: text})
	if err != nil {
		return nil, err
	}
	var labels []annotate.LabelScore
	trimmed := bytes.TrimSpace(body)
	if bytes.HasPrefix(trimmed, []byte("[[")) {
		var nested [][]annotate.LabelScore
		if err := json.Unmarshal(trimmed, &nested); err != nil {
			return nil, fmt.Errorf("decode classification: %w", err)
		}
		if len(nested) > 0 {
			labels = nested[0]
		}
	} else {
		labels, err = decodeOneOrMany[annotate.LabelScore](trimmed)
		if err != nil {
			return nil, err
		}
	}
	sort.SliceStable(labels, func(i, j int) bool { return labels[i].Score > labels[j].Score })
	return labels, nil
}

func (m *HFModel) Summarize(ctx context.Context, text string, params annotate.SummaryParams) ([]annotate.SummaryOutput, error) {
	body, err := m.client.post(ctx, m.name, inferenceRequest{
		Inputs: text,
		Parameters: map[string]any{
			"min_length": params.MinLength,
			"max_length": params.MaxLength,
		},
	})
	if err != nil {
		return nil, err
	}
	return decodeOneOrMany[annotate.SummaryOutput](body)
}
