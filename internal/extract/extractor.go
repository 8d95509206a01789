// Package extract pulls structured ESG entities out of routed report
// chunks with an LLM. Each chunk is processed independently under a
// bounded worker pool; a chunk whose completion or parse fails yields
// zero entities and a failure count, never an error for the whole run.
package extract

import (
	"context"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/NikhilGogu/sustainability-signals/internal/llm"
	"github.com/NikhilGogu/sustainability-signals/internal/model"
	"github.com/NikhilGogu/sustainability-signals/internal/worker"
)

// Options bounds an extraction run.
type Options struct {
	Concurrency int
	MaxPerChunk int
	MaxTotal    int
}

// DefaultOptions returns the extraction defaults.
func DefaultOptions() Options {
	return Options{
		Concurrency: 3,
		MaxPerChunk: 20,
		MaxTotal:    400,
	}
}

// Extractor runs LLM entity extraction over routed chunks.
type Extractor struct {
	provider llm.Provider
	opts     Options
}

// New creates an Extractor. The provider must not be nil; callers that
// have no provider skip extraction entirely.
func New(p llm.Provider, opts Options) *Extractor {
	d := DefaultOptions()
	if opts.Concurrency <= 0 {
		opts.Concurrency = d.Concurrency
	}
	if opts.MaxPerChunk <= 0 {
		opts.MaxPerChunk = d.MaxPerChunk
	}
	if opts.MaxTotal <= 0 {
		opts.MaxTotal = d.MaxTotal
	}
	return &Extractor{provider: p, opts: opts}
}

// Extract processes every routed chunk and returns the deduplicated
// entities in chunk order, plus run counters. Chunks the router skipped
// are not sent to the model. Entities carry no page yet; grounding
// against the block corpus happens downstream.
func (e *Extractor) Extract(ctx context.Context, chunks []model.Chunk, routing model.RoutingSummary) ([]model.ExtractedEntity, model.ExtractionSummary) {
	var summary model.ExtractionSummary

	routed := make([]int, 0, len(chunks))
	for i, res := range routing.Results {
		if i < len(chunks) && res.IsESG {
			routed = append(routed, i)
		}
	}
	if len(routed) == 0 {
		return nil, summary
	}

	perChunk := make([][]model.ExtractedEntity, len(routed))
	var failed atomic.Int64

	// Slot j belongs to exactly one worker, so no locking around perChunk.
	_ = worker.ForEachIndex(ctx, len(routed), e.opts.Concurrency, func(ctx context.Context, j int) error {
		ci := routed[j]
		entities, err := e.extractChunk(ctx, chunks[ci], routing.Results[ci])
		if err != nil {
			failed.Add(1)
			zap.L().Warn("chunk extraction failed",
				zap.Int("chunk", chunks[ci].Index),
				zap.Error(err))
			return nil
		}
		perChunk[j] = entities
		return nil
	})

	summary.ChunksProcessed = len(routed)
	summary.ChunksFailed = int(failed.Load())

	var all []model.ExtractedEntity
	for _, entities := range perChunk {
		all = append(all, entities...)
	}
	summary.EntitiesRaw = len(all)

	kept := dedupe(all, e.opts.MaxTotal)
	summary.EntitiesKept = len(kept)
	return kept, summary
}

// extractChunk prompts the model for one chunk and parses its entities.
func (e *Extractor) extractChunk(ctx context.Context, chunk model.Chunk, route model.RoutingResult) ([]model.ExtractedEntity, error) {
	resp, err := e.provider.Complete(ctx, llm.Request{
		System: extractSystem,
		Prompt: buildPrompt(chunk.Text),
	})
	if err != nil {
		return nil, err
	}

	raw, err := parseEntities(resp.Text, e.opts.MaxPerChunk)
	if err != nil {
		return nil, err
	}

	out := make([]model.ExtractedEntity, 0, len(raw))
	for _, r := range raw {
		out = append(out, model.ExtractedEntity{
			ExtractionClass: r.ExtractionClass,
			ExtractionText:  r.ExtractionText,
			Attributes:      r.Attributes,
			Pillar:          PillarForClass(r.ExtractionClass),
			ChunkIndex:      chunk.Index,
			RoutedCategory:  route.Category,
			RouteScore:      route.Score,
		})
	}
	return out, nil
}

// dedupe drops repeat extractions of the same text under the same class,
// keeping the first occurrence, and caps the total. Overlapping chunk
// windows make duplicates routine rather than exceptional.
func dedupe(entities []model.ExtractedEntity, max int) []model.ExtractedEntity {
	type key struct {
		class string
		text  string
	}
	seen := make(map[key]bool, len(entities))
	out := make([]model.ExtractedEntity, 0, len(entities))
	for _, ent := range entities {
		k := key{ent.ExtractionClass, strings.ToLower(strings.TrimSpace(ent.ExtractionText))}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, ent)
		if max > 0 && len(out) >= max {
			break
		}
	}
	return out
}
