// Package generator produces reproducible synthetic call records and
// dialogue transcripts.
package generator

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"golang.org/x/sync/errgroup"

	"telephony-insights-go/internal/masking"
	"telephony-insights-go/internal/types"
)

// ErrInvalidInput reports out-of-range generation parameters.
var ErrInvalidInput = errors.New("generator: invalid input")

const (
	// Window is the trailing period call start times are spread over.
	Window = 30 * 24 * time.Hour

	MinDuration = 30
	MaxDuration = 1800

	// Short calls on any topic but the hardest one lean resolved.
	ShortCallThreshold = 900
	HardestTopic       = types.TopicTechSupport
	UnresolvedBaseRate = 0.3

	phoneLow  = 2000000
	phoneHigh = 3999999
)

type RecordOptions struct {
	Count int
	Seed  int64
	Salt  string
	// Now anchors the start-time window. Zero means time.Now().
	Now time.Time
	// Workers bounds parallelism. Output does not depend on it.
	Workers int
}

// GenerateRecords builds Count call records. Each record draws from its own
// source seeded by (Seed, index), so the batch is identical regardless of
// worker count or call order.
func GenerateRecords(ctx context.Context, opts RecordOptions) ([]types.CallRecord, error) {
	if opts.Count <= 0 {
		return nil, fmt.Errorf("%w: count must be positive, got %d", ErrInvalidInput, opts.Count)
	}
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	windowStart := now.Add(-Window).Truncate(time.Second)
	workers := opts.Workers
	if workers <= 0 {
		workers = 1
	}

	out := make([]types.CallRecord, opts.Count)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range out {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out[i] = generateRecord(i, opts.Seed, opts.Salt, windowStart)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("generate records: %w", err)
	}
	return out, nil
}

func recordSource(seed int64, index int) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seed), uint64(index)))
}

func generateRecord(index int, seed int64, salt string, windowStart time.Time) types.CallRecord {
	r := recordSource(seed, index)

	phone := fmt.Sprintf("04%d", phoneLow+r.IntN(phoneHigh-phoneLow))
	agent := types.Agents[r.IntN(len(types.Agents))]
	minutes := r.IntN(int(Window / time.Minute))
	duration := MinDuration + r.IntN(MaxDuration-MinDuration)
	topic := types.Topics[r.IntN(len(types.Topics))]

	return types.CallRecord{
		CallID:          fmt.Sprintf("CALL_%04d", index+1),
		CallerToken:     masking.Mask(phone, salt),
		AgentID:         agent,
		StartTime:       windowStart.Add(time.Duration(minutes) * time.Minute),
		DurationSeconds: duration,
		Topic:           topic,
		Resolved:        resolved(duration, topic, r),
	}
}

// resolved keeps the correlated condition OR'd with an independent draw;
// the draw only happens when the condition is false.
func resolved(duration int, topic types.Topic, r *rand.Rand) bool {
	return (duration < ShortCallThreshold && topic != HardestTopic) || r.Float64() > UnresolvedBaseRate
}
