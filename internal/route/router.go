// Package route decides which chunks are worth sending to the entity
// extractor. A chunk is routed when the classifier's top category is an
// ESG topic with enough confidence; everything else is skipped. When the
// classifier is unreachable the router fails open and routes every chunk,
// so a flaky sidecar degrades recall of the skip filter, never of the
// extraction itself.
package route

import (
	"context"

	"go.uber.org/zap"

	"github.com/NikhilGogu/sustainability-signals/internal/classify"
	"github.com/NikhilGogu/sustainability-signals/internal/model"
	"github.com/NikhilGogu/sustainability-signals/internal/worker"
)

// Options controls batching and the routing threshold.
type Options struct {
	BatchSize     int
	Concurrency   int
	MinConfidence float64
}

// DefaultOptions returns the routing defaults.
func DefaultOptions() Options {
	return Options{
		BatchSize:     16,
		Concurrency:   2,
		MinConfidence: 0.5,
	}
}

// Router labels chunks in batches and partitions them into routed and
// skipped sets.
type Router struct {
	classifier classify.Classifier
	opts       Options
}

// New creates a Router. A nil classifier disables routing entirely: every
// chunk is routed open, as if the classifier had failed.
func New(c classify.Classifier, opts Options) *Router {
	if opts.BatchSize <= 0 || opts.BatchSize > classify.MaxBatchSize {
		opts.BatchSize = DefaultOptions().BatchSize
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultOptions().Concurrency
	}
	if opts.MinConfidence <= 0 {
		opts.MinConfidence = DefaultOptions().MinConfidence
	}
	return &Router{classifier: c, opts: opts}
}

// Route classifies every chunk and returns a summary holding one result
// per chunk, in chunk order. It never returns an error: classifier
// failures mark the affected chunks as routed open with the error text
// attached.
func (r *Router) Route(ctx context.Context, chunks []model.Chunk) model.RoutingSummary {
	summary := model.RoutingSummary{
		TotalChunks: len(chunks),
		Results:     make([]model.RoutingResult, len(chunks)),
	}
	if len(chunks) == 0 {
		return summary
	}

	if r.classifier == nil {
		for i, ch := range chunks {
			summary.Results[i] = openResult(ch.Index, "no classifier configured")
		}
		summary.RoutedChunks = len(chunks)
		summary.FailedOpen = true
		return summary
	}

	batches := worker.Ranges(len(chunks), r.opts.BatchSize)
	failed := make([]bool, len(batches))

	// Each worker owns whole batches, so writes into Results never overlap.
	_ = worker.ForEachIndex(ctx, len(batches), r.opts.Concurrency, func(ctx context.Context, b int) error {
		start, end := batches[b][0], batches[b][1]
		texts := make([]string, 0, end-start)
		for _, ch := range chunks[start:end] {
			texts = append(texts, ch.Text)
		}

		labels, err := r.classifier.Classify(ctx, texts)
		if err != nil || len(labels) != len(texts) {
			msg := "classifier returned wrong result count"
			if err != nil {
				msg = err.Error()
			}
			zap.L().Warn("chunk routing failed open",
				zap.Int("batch", b),
				zap.Int("chunks", end-start),
				zap.String("reason", msg))
			for i := start; i < end; i++ {
				summary.Results[i] = openResult(chunks[i].Index, msg)
			}
			failed[b] = true
			return nil
		}

		for i := start; i < end; i++ {
			summary.Results[i] = r.result(chunks[i].Index, labels[i-start])
		}
		return nil
	})

	for _, f := range failed {
		if f {
			summary.FailedOpen = true
		}
	}
	for _, res := range summary.Results {
		if res.IsESG {
			summary.RoutedChunks++
		} else {
			summary.SkippedChunks++
		}
	}
	return summary
}

// result scores one chunk from its label list. Labels arrive sorted by
// score descending, but the top label is picked by scan in case a
// different classifier build breaks that ordering.
func (r *Router) result(index int, labels []classify.Label) model.RoutingResult {
	if len(labels) == 0 {
		return openResult(index, "classifier returned no labels")
	}
	top := labels[0]
	for _, l := range labels[1:] {
		if l.Score > top.Score {
			top = l
		}
	}
	return model.RoutingResult{
		Index:    index,
		Category: top.Label,
		Pillar:   classify.PillarFor(top.Label),
		Score:    top.Score,
		IsESG:    top.Label != classify.NonESGLabel && top.Score >= r.opts.MinConfidence,
	}
}

func openResult(index int, reason string) model.RoutingResult {
	return model.RoutingResult{
		Index: index,
		IsESG: true,
		Error: reason,
	}
}
