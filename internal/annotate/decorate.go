package annotate

import (
	"context"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"telephony-insights-go/internal/types"
)

type timeoutAnnotator struct {
	Annotator
	timeout time.Duration
}

// WithTimeout bounds every Annotate call of a by d.
func WithTimeout(a Annotator, d time.Duration) Annotator {
	if d <= 0 {
		return a
	}
	return &timeoutAnnotator{Annotator: a, timeout: d}
}

func (t *timeoutAnnotator) Annotate(ctx context.Context, text string) (types.AnnotationResult, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.Annotator.Annotate(ctx, text)
}

type cachedAnnotator struct {
	Annotator
	cache *lru.Cache[string, types.AnnotationResult]
}

// Cached memoizes successful results of a by input text. Errors are not
// cached. A non-positive size disables caching.
func Cached(a Annotator, size int) (Annotator, error) {
	if size <= 0 {
		return a, nil
	}
	c, err := lru.New[string, types.AnnotationResult](size)
	if err != nil {
		return nil, fmt.Errorf("annotation cache: %w", err)
	}
	return &cachedAnnotator{Annotator: a, cache: c}, nil
}

func (c *cachedAnnotator) Annotate(ctx context.Context, text string) (types.AnnotationResult, error) {
	if res, ok := c.cache.Get(text); ok {
		return res, nil
	}
	res, err := c.Annotator.Annotate(ctx, text)
	if err != nil {
		return res, err
	}
	c.cache.Add(text, res)
	return res, nil
}
