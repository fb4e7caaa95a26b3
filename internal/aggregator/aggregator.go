package aggregator

import "telephony-insights-go/internal/pipeline"

// Insight condenses a batch of annotation outcomes.
type Insight struct {
	Items      int                       `json:"items"`
	Failed     int                       `json:"failed"`
	Labels     map[string]map[string]int `json:"labels"`
	MeanScores map[string]float64        `json:"mean_scores"`
}

func Aggregate(outcomes []pipeline.ItemOutcome) Insight {
	labels := map[string]map[string]int{}
	scoreSum := map[string]float64{}
	scored := map[string]int{}
	failed := 0
	for _, o := range outcomes {
		if o.Failed() {
			failed++
		}
		for name, r := range o.Results {
			if r.Label == "" {
				continue
			}
			if labels[name] == nil {
				labels[name] = map[string]int{}
			}
			labels[name][r.Label]++
			scoreSum[name] += r.Score
			scored[name]++
		}
	}
	mean := map[string]float64{}
	for name, n := range scored {
		if n > 0 {
			mean[name] = scoreSum[name] / float64(n)
		}
	}
	return Insight{Items: len(outcomes), Failed: failed, Labels: labels, MeanScores: mean}
}

// TopLabel returns the most frequent label an annotator produced.
func (in Insight) TopLabel(annotator string) (string, int) {
	best, count := "", 0
	for label, n := range in.Labels[annotator] {
		if n > count || (n == count && label < best) {
			best, count = label, n
		}
	}
	return best, count
}
