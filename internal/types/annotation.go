package types

import (
	"encoding/json"
	"fmt"
)

// AnnotationKind tags which variant an AnnotationResult holds.
type AnnotationKind string

const (
	KindTopic     AnnotationKind = "topic"
	KindSentiment AnnotationKind = "sentiment"
	KindSummary   AnnotationKind = "summary"
)

// AnnotationResult is either a label/score pair (topic, sentiment) or a
// summary text (summary). It marshals to the matching wire shape only.
type AnnotationResult struct {
	Kind        AnnotationKind
	Label       string
	Score       float64
	SummaryText string
}

// LabelResult builds a classification-style result.
func LabelResult(kind AnnotationKind, label string, score float64) AnnotationResult {
	return AnnotationResult{Kind: kind, Label: label, Score: score}
}

// SummaryResult builds a summary result.
func SummaryResult(text string) AnnotationResult {
	return AnnotationResult{Kind: KindSummary, SummaryText: text}
}

type labelWire struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

type summaryWire struct {
	SummaryText string `json:"summary_text"`
}

func (r AnnotationResult) MarshalJSON() ([]byte, error) {
	switch r.Kind {
	case KindSummary:
		return json.Marshal(summaryWire{SummaryText: r.SummaryText})
	case KindTopic, KindSentiment:
		return json.Marshal(labelWire{Label: r.Label, Score: r.Score})
	default:
		return nil, fmt.Errorf("unknown annotation kind %q", r.Kind)
	}
}
