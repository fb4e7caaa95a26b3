package actionable

import (
	"fmt"

	"telephony-insights-go/internal/aggregator"
	"telephony-insights-go/internal/dataset"
)

type ActionCard struct {
	Insight string `json:"insight"`
	Action  string `json:"action"`
	Impact  string `json:"impact"`
}

// LaggingGap is how far a topic's resolution rate must trail the overall
// rate before it is called out.
const LaggingGap = 0.10

// Generate turns record KPIs into one recommended action.
func Generate(s dataset.Summary) ActionCard {
	worst, stats, ok := s.WorstTopic()
	if ok && s.ResolutionRate-stats.ResolutionRate >= LaggingGap {
		return ActionCard{
			Insight: fmt.Sprintf("Low resolution on %s (%.0f%% vs %.0f%% overall)", worst, stats.ResolutionRate*100, s.ResolutionRate*100),
			Action:  fmt.Sprintf("Review the %s playbook and route long %s calls to senior agents", worst, worst),
			Impact:  "Fewer repeat calls and shorter handle time",
		}
	}
	return ActionCard{
		Insight: "No topic lags the overall resolution rate",
		Action:  "Monitor and collect more data",
		Impact:  "Low immediate intervention",
	}
}

// GenerateFromAnnotations flags batches where annotation mostly failed or
// negative sentiment dominates.
func GenerateFromAnnotations(in aggregator.Insight, negativeLabels ...string) ActionCard {
	if in.Items > 0 && float64(in.Failed)/float64(in.Items) >= 0.5 {
		return ActionCard{
			Insight: fmt.Sprintf("%d of %d texts could not be annotated", in.Failed, in.Items),
			Action:  "Check model endpoint availability before trusting this batch",
			Impact:  "Annotation coverage restored",
		}
	}
	label, n := in.TopLabel("sentiment")
	for _, neg := range negativeLabels {
		if label == neg && n > 0 {
			return ActionCard{
				Insight: fmt.Sprintf("Dominant sentiment is %s (%d of %d texts)", label, n, in.Items),
				Action:  "Sample these calls for coaching and escalate recurring causes",
				Impact:  "Improved customer satisfaction",
			}
		}
	}
	return ActionCard{
		Insight: "No strong negative pattern detected",
		Action:  "Monitor and collect more data",
		Impact:  "Low immediate intervention",
	}
}
