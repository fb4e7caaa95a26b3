package types

import (
	"fmt"
	"strings"
	"time"
)

// Topic is the business category of a call or dialogue.
type Topic string

const (
	TopicBilling     Topic = "billing"
	TopicTechSupport Topic = "tech_support"
	TopicOrders      Topic = "orders"
	TopicReturns     Topic = "returns"
	TopicOther       Topic = "other"
)

// Topics lists every topic in draw order. Changing the order changes
// generated batches.
var Topics = []Topic{TopicBilling, TopicTechSupport, TopicOrders, TopicReturns, TopicOther}

// Agents is the fixed set of agent identifiers.
var Agents = []string{"A", "B", "C", "D", "E"}

// ParseTopic returns the topic named s and whether it is known.
func ParseTopic(s string) (Topic, bool) {
	for _, t := range Topics {
		if string(t) == s {
			return t, true
		}
	}
	return "", false
}

type CallRecord struct {
	CallID          string    `json:"call_id"`
	CallerToken     string    `json:"caller_token"`
	AgentID         string    `json:"agent_id"`
	StartTime       time.Time `json:"start_ts"`
	DurationSeconds int       `json:"duration_sec"`
	Topic           Topic     `json:"topic"`
	Resolved        bool      `json:"resolved"`
}

// Speaker tags used at the start of every transcript line.
const (
	CustomerTag = "Customer"
	AgentTag    = "Agent"
)

type DialogueTranscript struct {
	Topic      Topic    `json:"topic"`
	Lines      []string `json:"lines"`
	InstanceID int      `json:"instance_id"`
}

// Text is the newline-joined transcript body.
func (d DialogueTranscript) Text() string {
	return strings.Join(d.Lines, "\n")
}

// FileName is the artifact name, e.g. billing_03.txt.
func (d DialogueTranscript) FileName() string {
	return fmt.Sprintf("%s_%02d.txt", d.Topic, d.InstanceID)
}
