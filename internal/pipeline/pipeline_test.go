package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"telephony-insights-go/internal/annotate"
	"telephony-insights-go/internal/logger"
	"telephony-insights-go/internal/types"
)

type echoAnnotator struct {
	inFlight, peak atomic.Int32
}

func (e *echoAnnotator) Name() string { return "echo" }

func (e *echoAnnotator) Annotate(ctx context.Context, text string) (types.AnnotationResult, error) {
	n := e.inFlight.Add(1)
	defer e.inFlight.Add(-1)
	for {
		p := e.peak.Load()
		if n <= p || e.peak.CompareAndSwap(p, n) {
			break
		}
	}
	time.Sleep(5 * time.Millisecond)
	if strings.Contains(text, "fail") {
		return types.AnnotationResult{}, fmt.Errorf("echo: %w", annotate.ErrModelUnavailable)
	}
	return types.SummaryResult(strings.ToUpper(text)), nil
}

type blockingAnnotator struct{}

func (blockingAnnotator) Name() string { return "block" }

func (blockingAnnotator) Annotate(ctx context.Context, _ string) (types.AnnotationResult, error) {
	<-ctx.Done()
	return types.AnnotationResult{}, ctx.Err()
}

func items(texts ...string) []Item {
	out := make([]Item, len(texts))
	for i, t := range texts {
		out[i] = Item{ID: fmt.Sprintf("item-%d", i), Text: t}
	}
	return out
}

func TestRunKeepsOrderAndCollectsErrors(t *testing.T) {
	echo := &echoAnnotator{}
	out := Run(context.Background(), items("a", "fail", "c"), Options{Workers: 2, Logger: logger.Discard()}, echo)
	require.Len(t, out, 3)

	assert.Equal(t, "item-0", out[0].ID)
	assert.Equal(t, "A", out[0].Results["echo"].SummaryText)
	assert.True(t, out[1].Failed())
	assert.ErrorIs(t, out[1].Err("echo"), annotate.ErrModelUnavailable)
	assert.Equal(t, "C", out[2].Results["echo"].SummaryText)
}

func TestRunBoundsConcurrency(t *testing.T) {
	echo := &echoAnnotator{}
	texts := make([]string, 20)
	for i := range texts {
		texts[i] = "x"
	}
	Run(context.Background(), items(texts...), Options{Workers: 3, Logger: logger.Discard()}, echo)
	assert.LessOrEqual(t, echo.peak.Load(), int32(3))
}

func TestRunPerItemTimeout(t *testing.T) {
	out := Run(context.Background(), items("a", "b"), Options{Timeout: 20 * time.Millisecond, Logger: logger.Discard()}, blockingAnnotator{})
	for _, o := range out {
		assert.True(t, errors.Is(o.Err("block"), context.DeadlineExceeded))
	}
}

func TestRunEmptyBatch(t *testing.T) {
	assert.Empty(t, Run(context.Background(), nil, Options{Logger: logger.Discard()}, &echoAnnotator{}))
}
