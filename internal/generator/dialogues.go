package generator

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"telephony-insights-go/internal/types"
)

// transcriptStream keeps transcript draws apart from record draws made
// with the same seed.
const transcriptStream = 0x7472616e73637269

var dialogueTemplates = map[types.Topic][]string{
	types.TopicBilling: {
		"Customer: Hello, I have a question about my invoice.",
		"Agent: Of course, could you tell me more about it?",
		"Customer: There is an amount on it I do not understand.",
		"Agent: Let me check that for you.",
	},
	types.TopicTechSupport: {
		"Customer: My internet connection stopped working.",
		"Agent: Have you tried restarting your router?",
		"Customer: Yes, but it still does not work.",
		"Agent: I am going to run a line diagnostic.",
	},
	types.TopicOrders: {
		"Customer: I would like to track my order.",
		"Agent: Could you give me your order number?",
		"Customer: It is 12345.",
		"Agent: It is out for delivery.",
	},
	types.TopicReturns: {
		"Customer: I want to return a product.",
		"Agent: What is the reason for the return?",
		"Customer: It does not match what I ordered.",
		"Agent: I am starting the return procedure.",
	},
	types.TopicOther: {
		"Customer: I have a general question.",
		"Agent: I am listening.",
		"Customer: What are your opening hours?",
		"Agent: We are open from 8am to 6pm.",
	},
}

// Template returns a copy of the canned lines for topic.
func Template(topic types.Topic) ([]string, bool) {
	lines, ok := dialogueTemplates[topic]
	if !ok {
		return nil, false
	}
	return append([]string(nil), lines...), true
}

// GenerateTranscripts draws count transcripts with uniformly chosen topics.
func GenerateTranscripts(count int, seed int64) ([]types.DialogueTranscript, error) {
	if count <= 0 {
		return nil, fmt.Errorf("%w: count must be positive, got %d", ErrInvalidInput, count)
	}
	out := make([]types.DialogueTranscript, count)
	for i := range out {
		r := rand.New(rand.NewPCG(uint64(seed), uint64(i)^transcriptStream))
		topic := types.Topics[r.IntN(len(types.Topics))]
		out[i] = buildTranscript(topic, i+1)
	}
	return out, nil
}

// GenerateTopicTranscripts builds count transcripts that all use topic.
func GenerateTopicTranscripts(topic types.Topic, count int) ([]types.DialogueTranscript, error) {
	if count <= 0 {
		return nil, fmt.Errorf("%w: count must be positive, got %d", ErrInvalidInput, count)
	}
	if _, ok := dialogueTemplates[topic]; !ok {
		return nil, fmt.Errorf("%w: unknown topic %q", ErrInvalidInput, topic)
	}
	out := make([]types.DialogueTranscript, count)
	for i := range out {
		out[i] = buildTranscript(topic, i+1)
	}
	return out, nil
}

func buildTranscript(topic types.Topic, instanceID int) types.DialogueTranscript {
	lines, _ := Template(topic)
	generic := types.CustomerTag + ":"
	tagged := fmt.Sprintf("%s_%d:", types.CustomerTag, instanceID)
	for i, line := range lines {
		if strings.HasPrefix(line, generic) {
			lines[i] = tagged + strings.TrimPrefix(line, generic)
		}
	}
	return types.DialogueTranscript{Topic: topic, Lines: lines, InstanceID: instanceID}
}
