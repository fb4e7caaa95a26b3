// Package inference talks to remote model endpoints that back the
// annotators.
package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"telephony-insights-go/internal/annotate"
	"telephony-insights-go/internal/logger"
)

const DefaultBaseURL = "https://api-inference.huggingface.co"

type Config struct {
	BaseURL string
	Token   string
	// Timeout bounds a single HTTP attempt.
	Timeout time.Duration
	// MaxElapsed bounds all retries of one call.
	MaxElapsed      time.Duration
	InitialInterval time.Duration
	Logger          *logger.Logger
}

// HFClient calls a Hugging Face style inference API. Build it once and
// share it; it is safe for concurrent use.
type HFClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
	maxElapsed time.Duration
	initial    time.Duration
	log        *logger.Logger
}

func NewHFClient(cfg Config) *HFClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxElapsed <= 0 {
		cfg.MaxElapsed = 60 * time.Second
	}
	if cfg.InitialInterval <= 0 {
		cfg.InitialInterval = backoff.DefaultInitialInterval
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.New()
	}
	return &HFClient{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		token:      cfg.Token,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		maxElapsed: cfg.MaxElapsed,
		initial:    cfg.InitialInterval,
		log:        cfg.Logger.Component("inference"),
	}
}

// Model returns a handle bound to one hosted model.
func (c *HFClient) Model(name string) *HFModel {
	return &HFModel{client: c, name: name}
}

type inferenceRequest struct {
	Inputs     string         `json:"inputs"`
	Parameters map[string]any `json:"parameters,omitempty"`
	Options    map[string]any `json:"options,omitempty"`
}

type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("inference status %d: %s", e.code, e.body)
}

func retryable(code int) bool {
	return code == http.StatusTooManyRequests || code >= 500
}

// post sends payload to the model and returns the raw body. Transport
// failures and non-2xx answers end up wrapped in ErrModelUnavailable.
func (c *HFClient) post(ctx context.Context, model string, payload inferenceRequest) ([]byte, error) {
	payload.Options = map[string]any{"wait_for_model": true}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	endpoint := c.baseURL + "/models/" + model
	log := c.log.WithField("model", model)

	var body []byte
	op := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Content-Type", "application/json")
		if c.token != "" {
			req.Header.Set("Authorization", "Bearer "+c.token)
		}
		resp, err := c.httpClient.Do(req)
		if err != nil {
			log.WithField("error", err.Error()).Warn("inference request failed")
			return err
		}
		defer resp.Body.Close()
		b, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		if resp.StatusCode >= 300 {
			serr := &statusError{code: resp.StatusCode, body: string(b)}
			if retryable(resp.StatusCode) {
				log.WithField("status", resp.StatusCode).Warn("inference endpoint not ready, retrying")
				return serr
			}
			return backoff.Permanent(serr)
		}
		body = b
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.initial
	bo.MaxElapsedTime = c.maxElapsed
	if err := backoff.Retry(op, backoff.WithContext(bo, ctx)); err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %s: %w", annotate.ErrModelUnavailable, model, ctx.Err())
		}
		return nil, fmt.Errorf("%w: %s: %w", annotate.ErrModelUnavailable, model, err)
	}
	return body, nil
}

// decodeOneOrMany accepts either a bare object or a one-element list of it.
func decodeOneOrMany[T any](body []byte) ([]T, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, errors.New("empty inference response")
	}
	if trimmed[0] == '[' {
		var many []T
		if err := json.Unmarshal(trimmed, &many); err != nil {
			return nil, fmt.Errorf("decode inference response: %w", err)
		}
		return many, nil
	}
	var one T
	if err := json.Unmarshal(trimmed, &one); err != nil {
		return nil, fmt.Errorf("decode inference response: %w", err)
	}
	return []T{one}, nil
}
