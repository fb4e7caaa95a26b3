package generator

import (
	"context"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"telephony-insights-go/internal/masking"
	"telephony-insights-go/internal/types"
)

var hexToken = regexp.MustCompile(`^[0-9a-f]{64}$`)

var anchor = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func generate(t *testing.T, opts RecordOptions) []types.CallRecord {
	t.Helper()
	if opts.Now.IsZero() {
		opts.Now = anchor
	}
	if opts.Salt == "" {
		opts.Salt = "test-salt"
	}
	recs, err := GenerateRecords(context.Background(), opts)
	require.NoError(t, err)
	return recs
}

func TestGenerateRecordsRejectsNonPositiveCount(t *testing.T) {
	for _, n := range []int{0, -3} {
		_, err := GenerateRecords(context.Background(), RecordOptions{Count: n})
		assert.ErrorIs(t, err, ErrInvalidInput)
	}
}

func TestGenerateRecordsReproducible(t *testing.T) {
	a := generate(t, RecordOptions{Count: 200, Seed: 42})
	b := generate(t, RecordOptions{Count: 200, Seed: 42})
	assert.Equal(t, a, b)

	c := generate(t, RecordOptions{Count: 200, Seed: 43})
	assert.NotEqual(t, a, c)
}

func TestGenerateRecordsIndependentOfWorkers(t *testing.T) {
	serial := generate(t, RecordOptions{Count: 300, Seed: 7, Workers: 1})
	parallel := generate(t, RecordOptions{Count: 300, Seed: 7, Workers: 8})
	assert.Equal(t, serial, parallel)
}

func TestGenerateRecordsPrefixStable(t *testing.T) {
	short := generate(t, RecordOptions{Count: 10, Seed: 42})
	long := generate(t, RecordOptions{Count: 50, Seed: 42})
	assert.Equal(t, short, long[:10])
}

func TestGenerateRecordsFieldInvariants(t *testing.T) {
	recs := generate(t, RecordOptions{Count: 500, Seed: 42})
	ids := make(map[string]bool, len(recs))
	for i, r := range recs {
		assert.Equal(t, "CALL_", r.CallID[:5])
		assert.False(t, ids[r.CallID], "duplicate call id %s", r.CallID)
		ids[r.CallID] = true
		if i > 0 {
			assert.Less(t, recs[i-1].CallID, r.CallID)
		}

		assert.Len(t, r.CallerToken, masking.TokenLength)
		assert.Regexp(t, hexToken, r.CallerToken)
		raw := fmt.Sprintf("04%d", phoneLow+recordSource(42, i).IntN(phoneHigh-phoneLow))
		assert.NotContains(t, r.CallerToken, raw)
		assert.Equal(t, masking.Mask(raw, "test-salt"), r.CallerToken)

		assert.GreaterOrEqual(t, r.DurationSeconds, MinDuration)
		assert.LessOrEqual(t, r.DurationSeconds, MaxDuration)

		assert.Contains(t, types.Agents, r.AgentID)
		_, ok := types.ParseTopic(string(r.Topic))
		assert.True(t, ok)

		assert.False(t, r.StartTime.Before(anchor.Add(-Window)))
		assert.True(t, r.StartTime.Before(anchor))

		if r.DurationSeconds < ShortCallThreshold && r.Topic != HardestTopic {
			assert.True(t, r.Resolved, "%s should short-circuit to resolved", r.CallID)
		}
	}
}

func TestGenerateRecordsSaltOnlyAffectsTokens(t *testing.T) {
	a := generate(t, RecordOptions{Count: 20, Seed: 1, Salt: "one"})
	b := generate(t, RecordOptions{Count: 20, Seed: 1, Salt: "two"})
	for i := range a {
		assert.NotEqual(t, a[i].CallerToken, b[i].CallerToken)
		a[i].CallerToken, b[i].CallerToken = "", ""
	}
	assert.Equal(t, a, b)
}

func TestResolutionRateShape(t *testing.T) {
	// Expected overall rate is about 0.82: P(short && not tech) ~0.39,
	// otherwise the draw resolves 70% of the time.
	recs := generate(t, RecordOptions{Count: 4000, Seed: 42, Workers: 4})

	var resolved, tech, techResolved, rest, restResolved int
	for _, r := range recs {
		if r.Resolved {
			resolved++
		}
		if r.Topic == types.TopicTechSupport {
			tech++
			if r.Resolved {
				techResolved++
			}
		} else {
			rest++
			if r.Resolved {
				restResolved++
			}
		}
	}
	rate := float64(resolved) / float64(len(recs))
	assert.InDelta(t, 0.82, rate, 0.05)

	techRate := float64(techResolved) / float64(tech)
	restRate := float64(restResolved) / float64(rest)
	assert.Less(t, techRate+0.05, restRate, "tech_support should resolve less often")
}

func TestResolutionRateDefaultBatch(t *testing.T) {
	recs := generate(t, RecordOptions{Count: 200, Seed: 42})

	var resolved, tech, techResolved int
	for _, r := range recs {
		if r.Resolved {
			resolved++
		}
		if r.Topic == types.TopicTechSupport {
			tech++
			if r.Resolved {
				techResolved++
			}
		}
	}
	rate := float64(resolved) / float64(len(recs))
	assert.GreaterOrEqual(t, rate, 0.65)
	assert.LessOrEqual(t, rate, 0.85)

	require.NotZero(t, tech)
	techRate := float64(techResolved) / float64(tech)
	assert.Less(t, techRate, rate, "tech_support should trail the overall rate")
}

func TestGenerateRecordsHonoursCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := GenerateRecords(ctx, RecordOptions{Count: 10, Now: anchor})
	assert.ErrorIs(t, err, context.Canceled)
}
