package dataset

import (
	"fmt"
	"sort"

	"telephony-insights-go/internal/logger"
	"telephony-insights-go/internal/types"
)

// GroupStats aggregates the calls sharing one topic or agent.
type GroupStats struct {
	Calls              int     `json:"calls"`
	Resolved           int     `json:"resolved"`
	ResolutionRate     float64 `json:"resolution_rate"`
	AvgDurationSeconds float64 `json:"avg_duration_sec"`
}

type Summary struct {
	TotalCalls       int                   `json:"total_calls"`
	ResolutionRate   float64               `json:"resolution_rate"`
	AvgHandleSeconds float64               `json:"avg_handle_sec"`
	ByTopic          map[string]GroupStats `json:"by_topic"`
	ByAgent          map[string]GroupStats `json:"by_agent"`
	DurationBuckets  map[string]int        `json:"duration_buckets"`
}

// bucketWidth splits the 30 minute range into six five-minute buckets.
const bucketWidth = 300

func durationBucket(sec int) string {
	b := sec / bucketWidth
	if b > 5 {
		b = 5
	}
	return fmt.Sprintf("%02d-%02dm", b*5, (b+1)*5)
}

type accum struct {
	calls, resolved, seconds int
}

func (a *accum) add(r types.CallRecord) {
	a.calls++
	a.seconds += r.DurationSeconds
	if r.Resolved {
		a.resolved++
	}
}

func (a accum) stats() GroupStats {
	if a.calls == 0 {
		return GroupStats{}
	}
	return GroupStats{
		Calls:              a.calls,
		Resolved:           a.resolved,
		ResolutionRate:     float64(a.resolved) / float64(a.calls),
		AvgDurationSeconds: float64(a.seconds) / float64(a.calls),
	}
}

// Summarize computes the headline KPIs of a record batch.
func Summarize(records []types.CallRecord) Summary {
	log := logger.New().WithField("component", "dataset.summary")

	var total accum
	byTopic := map[string]*accum{}
	byAgent := map[string]*accum{}
	buckets := map[string]int{}
	for _, r := range records {
		total.add(r)
		if byTopic[string(r.Topic)] == nil {
			byTopic[string(r.Topic)] = &accum{}
		}
		byTopic[string(r.Topic)].add(r)
		if byAgent[r.AgentID] == nil {
			byAgent[r.AgentID] = &accum{}
		}
		byAgent[r.AgentID].add(r)
		buckets[durationBucket(r.DurationSeconds)]++
	}

	s := Summary{
		TotalCalls:      total.calls,
		ByTopic:         make(map[string]GroupStats, len(byTopic)),
		ByAgent:         make(map[string]GroupStats, len(byAgent)),
		DurationBuckets: buckets,
	}
	ts := total.stats()
	s.ResolutionRate = ts.ResolutionRate
	s.AvgHandleSeconds = ts.AvgDurationSeconds
	for k, a := range byTopic {
		s.ByTopic[k] = a.stats()
	}
	for k, a := range byAgent {
		s.ByAgent[k] = a.stats()
	}

	log.WithField("total_calls", s.TotalCalls).
		WithField("resolution_rate", s.ResolutionRate).
		Debug("dataset summarization complete")
	return s
}

// WorstTopic returns the topic with the lowest resolution rate. Ties go to
// the alphabetically first topic.
func (s Summary) WorstTopic() (string, GroupStats, bool) {
	names := make([]string, 0, len(s.ByTopic))
	for k := range s.ByTopic {
		names = append(names, k)
	}
	if len(names) == 0 {
		return "", GroupStats{}, false
	}
	sort.Strings(names)
	worst := names[0]
	for _, n := range names[1:] {
		if s.ByTopic[n].ResolutionRate < s.ByTopic[worst].ResolutionRate {
			worst = n
		}
	}
	return worst, s.ByTopic[worst], true
}
