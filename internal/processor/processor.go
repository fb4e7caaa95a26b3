package processor

import (
	"context"
	"sync"
	"time"

	"telephony-insights-go/internal/annotate"
	"telephony-insights-go/internal/types"
)

// Outcome is what every annotator made of one text. An annotator that
// failed appears in Errors and not in Results.
type Outcome struct {
	Results    map[string]types.AnnotationResult `json:"results"`
	Errors     map[string]string                 `json:"errors,omitempty"`
	DurationMs int64                             `json:"duration_ms"`

	errs map[string]error
}

// Err returns the error the named annotator produced, if any.
func (o Outcome) Err(name string) error {
	return o.errs[name]
}

// Failed reports whether any annotator failed.
func (o Outcome) Failed() bool {
	return len(o.Errors) > 0
}

// Process runs every annotator on text concurrently. Annotators share no
// state, so one failing never affects the others.
func Process(ctx context.Context, text string, annotators ...annotate.Annotator) Outcome {
	start := time.Now()
	res := Outcome{
		Results: make(map[string]types.AnnotationResult, len(annotators)),
		errs:    map[string]error{},
	}

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	for _, a := range annotators {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r, err := a.Annotate(ctx, text)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				res.errs[a.Name()] = err
				return
			}
			res.Results[a.Name()] = r
		}()
	}
	wg.Wait()

	if len(res.errs) > 0 {
		res.Errors = make(map[string]string, len(res.errs))
		for name, err := range res.errs {
			res.Errors[name] = err.Error()
		}
	}
	res.DurationMs = time.Since(start).Milliseconds()
	return res
}
