// Package service assembles the annotators from configuration so the
// server and the batch command share one construction path.
package service

import (
	"fmt"
	"strings"

	"telephony-insights-go/internal/annotate"
	"telephony-insights-go/internal/config"
	"telephony-insights-go/internal/inference"
	"telephony-insights-go/internal/logger"
)

const (
	BackendHuggingFace = "huggingface"
	BackendOpenAI      = "openai"
)

// Annotators holds the three configured annotators, already decorated
// with the per-call timeout and result cache.
type Annotators struct {
	Topic     annotate.Annotator
	Sentiment annotate.Annotator
	Summary   annotate.Annotator
}

// NewAnnotators builds every model handle once. Nothing is fetched until
// the first Annotate call.
func NewAnnotators(cfg *config.Config, log *logger.Logger) (*Annotators, error) {
	hf := inference.NewHFClient(inference.Config{
		BaseURL:    cfg.Inference.BaseURL,
		Token:      cfg.Inference.Token,
		Timeout:    cfg.Inference.Timeout,
		MaxElapsed: cfg.Inference.MaxElapsed,
		Logger:     log,
	})

	var summaryModel annotate.SummarizationModel
	switch strings.ToLower(cfg.Summarizer.Backend) {
	case "", BackendHuggingFace:
		summaryModel = hf.Model(cfg.Inference.SummaryModel)
	case BackendOpenAI:
		if cfg.Summarizer.OpenAIKey == "" {
			return nil, fmt.Errorf("summarizer backend %q needs OPENAI_API_KEY", BackendOpenAI)
		}
		summaryModel = inference.NewOpenAISummarizer(inference.OpenAIConfig{
			APIKey:  cfg.Summarizer.OpenAIKey,
			BaseURL: cfg.Summarizer.OpenAIURL,
			Model:   cfg.Summarizer.OpenAIModel,
		})
	default:
		return nil, fmt.Errorf("unknown summarizer backend %q", cfg.Summarizer.Backend)
	}

	raw := []annotate.Annotator{
		annotate.NewTopicClassifier(hf.Model(cfg.Inference.TopicModel), annotate.TopicClassifierOptions{}),
		annotate.NewSentimentAnalyzer(hf.Model(cfg.Inference.SentimentModel), 0),
		annotate.NewSummarizer(summaryModel, annotate.SummarizerOptions{}),
	}
	wrapped := make([]annotate.Annotator, len(raw))
	for i, a := range raw {
		c, err := annotate.Cached(annotate.WithTimeout(a, cfg.Annotation.CallTimeout), cfg.Annotation.CacheSize)
		if err != nil {
			return nil, err
		}
		wrapped[i] = c
	}

	log.Component("service").
		WithField("topic_model", cfg.Inference.TopicModel).
		WithField("sentiment_model", cfg.Inference.SentimentModel).
		WithField("summarizer_backend", cfg.Summarizer.Backend).
		WithField("cache_size", cfg.Annotation.CacheSize).
		Info("annotators ready")

	return &Annotators{Topic: wrapped[0], Sentiment: wrapped[1], Summary: wrapped[2]}, nil
}

// All returns the annotators in topic, sentiment, summary order.
func (a *Annotators) All() []annotate.Annotator {
	return []annotate.Annotator{a.Topic, a.Sentiment, a.Summary}
}
