// Package pipeline fans annotation out over a finite batch of texts.
package pipeline

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"telephony-insights-go/internal/annotate"
	"telephony-insights-go/internal/logger"
	"telephony-insights-go/internal/processor"
)

// Item is one text to annotate. ID is carried through untouched.
type Item struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

type ItemOutcome struct {
	Item
	processor.Outcome
}

type Options struct {
	// Workers bounds how many items are in flight. Default 4.
	Workers int
	// Timeout bounds each item across all its annotators. Zero means none.
	Timeout time.Duration
	Logger  *logger.Logger
}

// Run annotates every item with every annotator and returns outcomes in
// input order. Annotator errors stay on their item and never stop the
// batch.
func Run(ctx context.Context, items []Item, opts Options, annotators ...annotate.Annotator) []ItemOutcome {
	workers := opts.Workers
	if workers <= 0 {
		workers = 4
	}
	log := opts.Logger
	if log == nil {
		log = logger.New()
	}
	log = log.Component("pipeline")

	out := make([]ItemOutcome, len(items))
	var g errgroup.Group
	g.SetLimit(workers)
	for i, item := range items {
		g.Go(func() error {
			itemCtx := ctx
			if opts.Timeout > 0 {
				var cancel context.CancelFunc
				itemCtx, cancel = context.WithTimeout(ctx, opts.Timeout)
				defer cancel()
			}
			res := processor.Process(itemCtx, item.Text, annotators...)
			if res.Failed() {
				log.WithField("item", item.ID).WithField("errors", res.Errors).Warn("annotation failed for item")
			}
			out[i] = ItemOutcome{Item: item, Outcome: res}
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for _, o := range out {
		if o.Failed() {
			failed++
		}
	}
	log.WithField("items", len(items)).WithField("failed", failed).Info("annotation batch complete")
	return out
}
