package annotate

import (
	"context"
	"sync"
)

// fakeModel implements all three capabilities and records what it saw.
type fakeModel struct {
	mu       sync.Mutex
	calls    int
	lastText string
	lastArgs any

	zeroShot ZeroShotOutput
	labels   []LabelScore
	summary  []SummaryOutput
	err      error
}

func (f *fakeModel) record(text string, args any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.lastText = text
	f.lastArgs = args
}

func (f *fakeModel) ZeroShot(_ context.Context, text string, labels []string) (ZeroShotOutput, error) {
	f.record(text, labels)
	return f.zeroShot, f.err
}

func (f *fakeModel) ClassifyText(_ context.Context, text string) ([]LabelScore, error) {
	f.record(text, nil)
	return f.labels, f.err
}

func (f *fakeModel) Summarize(_ context.Context, text string, params SummaryParams) ([]SummaryOutput, error) {
	f.record(text, params)
	return f.summary, f.err
}

func (f *fakeModel) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}
