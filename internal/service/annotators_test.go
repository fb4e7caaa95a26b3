package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"telephony-insights-go/internal/config"
	"telephony-insights-go/internal/logger"
	"telephony-insights-go/internal/types"
)

func testConfig(baseURL string) *config.Config {
	cfg := &config.Config{}
	cfg.Inference.BaseURL = baseURL
	cfg.Inference.Timeout = time.Second
	cfg.Inference.MaxElapsed = time.Second
	cfg.Inference.TopicModel = "topic-model"
	cfg.Inference.SentimentModel = "sentiment-model"
	cfg.Inference.SummaryModel = "summary-model"
	cfg.Annotation.CallTimeout = 5 * time.Second
	cfg.Annotation.CacheSize = 8
	return cfg
}

func TestNewAnnotatorsHuggingFace(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.HasSuffix(r.URL.Path, "/topic-model"):
			json.NewEncoder(w).Encode(map[string]any{
				"sequence": "x", "labels": []string{"retour", "autre"}, "scores": []float64{0.8, 0.2},
			})
		case strings.HasSuffix(r.URL.Path, "/sentiment-model"):
			w.Write([]byte(`[[{"label":"1 star","score":0.7}]]`))
		case strings.HasSuffix(r.URL.Path, "/summary-model"):
			w.Write([]byte(`[{"summary_text":"Customer wants to return an item."}]`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	a, err := NewAnnotators(testConfig(srv.URL), logger.Discard())
	require.NoError(t, err)
	require.Len(t, a.All(), 3)
	assert.Equal(t, []string{"classify", "sentiment", "summarize"},
		[]string{a.All()[0].Name(), a.All()[1].Name(), a.All()[2].Name()})

	ctx := context.Background()
	text := "Customer_1: I would like to return a product I bought last week."

	topic, err := a.Topic.Annotate(ctx, text)
	require.NoError(t, err)
	assert.Equal(t, types.LabelResult(types.KindTopic, "retour", 0.8), topic)

	sentiment, err := a.Sentiment.Annotate(ctx, text)
	require.NoError(t, err)
	assert.Equal(t, "1 star", sentiment.Label)

	summary, err := a.Summary.Annotate(ctx, text)
	require.NoError(t, err)
	assert.Equal(t, "Customer wants to return an item.", summary.SummaryText)

	// cached
	_, err = a.Topic.Annotate(ctx, text)
	require.NoError(t, err)
	assert.Equal(t, int32(3), hits.Load())
}

func TestNewAnnotatorsOpenAINeedsKey(t *testing.T) {
	cfg := testConfig("http://127.0.0.1:1")
	cfg.Summarizer.Backend = BackendOpenAI
	_, err := NewAnnotators(cfg, logger.Discard())
	assert.Error(t, err)

	cfg.Summarizer.OpenAIKey = "sk-test"
	a, err := NewAnnotators(cfg, logger.Discard())
	require.NoError(t, err)
	assert.Equal(t, "summarize", a.Summary.Name())
}

func TestNewAnnotatorsUnknownBackend(t *testing.T) {
	cfg := testConfig("http://127.0.0.1:1")
	cfg.Summarizer.Backend = "carrier-pigeon"
	_, err := NewAnnotators(cfg, logger.Discard())
	assert.Error(t, err)
}
