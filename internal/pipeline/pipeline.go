// Package pipeline orchestrates the two run types: disclosure-quality
// scoring and entity extraction. Scoring is deterministic and never
// touches the network; extraction calls the classifier and LLM
// collaborators and degrades when they fail.
package pipeline

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/NikhilGogu/sustainability-signals/internal/chunk"
	"github.com/NikhilGogu/sustainability-signals/internal/classify"
	"github.com/NikhilGogu/sustainability-signals/internal/convert"
	"github.com/NikhilGogu/sustainability-signals/internal/extract"
	"github.com/NikhilGogu/sustainability-signals/internal/ground"
	"github.com/NikhilGogu/sustainability-signals/internal/llm"
	"github.com/NikhilGogu/sustainability-signals/internal/model"
	"github.com/NikhilGogu/sustainability-signals/internal/normalize"
	"github.com/NikhilGogu/sustainability-signals/internal/pages"
	"github.com/NikhilGogu/sustainability-signals/internal/route"
	"github.com/NikhilGogu/sustainability-signals/internal/score"
	"github.com/NikhilGogu/sustainability-signals/internal/store"
)

const (
	// minScoreInput is the smallest text worth scoring; anything shorter
	// is a malformed conversion, not a report.
	minScoreInput = 200

	// minExtractInput is the floor below which extraction returns an
	// empty result instead of spending LLM calls.
	minExtractInput = 100
)

// Pipeline wires the collaborators for both run types
type Pipeline struct {
	config    *model.Config
	store     store.Store
	engine    *score.Engine
	refiner   *llm.Refiner
	router    *route.Router
	extractor *extract.Extractor
	converter convert.Converter
}

// NewPipeline creates a pipeline from configuration. Missing
// collaborators disable their features rather than failing construction:
// no classifier means routing fails open, no LLM provider means quote
// refinement is a no-op and extraction is unavailable.
func NewPipeline(cfg *model.Config) *Pipeline {
	p := &Pipeline{
		config: cfg,
		engine: score.NewEngine(cfg.Quotes.MaxChars),
	}

	if cfg.Store.Enabled {
		p.store = store.NewLayeredStore(cfg.Store.MemoryTTL, cfg.Store.Dir)
	}

	var classifier classify.Classifier
	if cfg.Classify.URL != "" {
		classifier = classify.NewClient(cfg.Classify.URL, cfg.Classify.APIKey, cfg.Classify.Timeout, cfg.Classify.RequestsPerSec)
	}
	p.router = route.New(classifier, route.Options{
		BatchSize:     cfg.Classify.BatchSize,
		Concurrency:   cfg.Classify.Concurrency,
		MinConfidence: cfg.Classify.MinConfidence,
	})

	if cfg.LLM.Provider != "" {
		provider, err := llm.NewProvider(llm.ConfigFromModel(cfg.LLM))
		if err != nil {
			zap.L().Warn("LLM provider unavailable, refinement and extraction disabled", zap.Error(err))
		} else if provider != nil {
			p.refiner = llm.NewRefiner(provider, cfg.Quotes)
			p.extractor = extract.New(provider, extract.Options{
				Concurrency: cfg.Extract.Concurrency,
				MaxPerChunk: cfg.Extract.MaxPerChunk,
				MaxTotal:    cfg.Extract.MaxTotal,
			})
		}
	}

	if cfg.Convert.URL != "" {
		p.converter = convert.NewClient(cfg.Convert.URL, cfg.Convert.APIKey, cfg.Convert.Timeout)
	}

	return p
}

// ComputeDisclosureQuality scores one report's text. Identical input
// always yields an identical result apart from the timestamp. A current
// cached result is served as-is; results produced by an older method are
// recomputed.
func (p *Pipeline) ComputeDisclosureQuality(ctx context.Context, text string, meta model.ReportMeta) (*model.DisclosureQualityResult, error) {
	if len(strings.TrimSpace(text)) < minScoreInput {
		return nil, eris.Wrapf(ErrInvalidInput, "source text has %d usable characters, need %d", len(strings.TrimSpace(text)), minScoreInput)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if p.store != nil {
		cached, err := p.loadCurrentResult(meta.ID)
		if err != nil {
			return nil, err
		}
		if cached != nil {
			return cached, nil
		}
	}

	result := p.computeDQ(text, meta)
	p.persistDQ(text, meta, result)
	return result, nil
}

// GetDisclosureQuality serves a stored result without requiring the
// caller to supply text. Preference order: current result, recompute
// from stored source text, then a previous-version result marked stale.
func (p *Pipeline) GetDisclosureQuality(ctx context.Context, meta model.ReportMeta) (*model.DisclosureQualityResult, error) {
	if p.store == nil {
		return nil, eris.New("persistence is disabled")
	}

	cached, err := p.loadCurrentResult(meta.ID)
	if err != nil {
		return nil, err
	}
	if cached != nil {
		return cached, nil
	}

	if data, found := p.store.Get(store.TextKey(meta.ID)); found {
		return p.ComputeDisclosureQuality(ctx, string(data), meta)
	}

	for _, key := range store.LegacyDQKeys(meta.ID) {
		data, found := p.store.Get(key)
		if !found {
			continue
		}
		var stale model.DisclosureQualityResult
		if err := json.Unmarshal(data, &stale); err != nil {
			return nil, eris.Wrapf(ErrCorruptCache, "decode %s: %v", key, err)
		}
		zap.L().Warn("serving stale result, source text gone and method outdated",
			zap.String("report", meta.ID),
			zap.String("method", stale.Method.Kind))
		stale.Stale = true
		return &stale, nil
	}

	return nil, eris.Errorf("no stored result for report %q", meta.ID)
}

// RefineEvidenceQuotes tightens the result's quotes with the configured
// LLM and re-persists on change. Returns the number of features whose
// quotes improved; zero when refinement is disabled or fails.
func (p *Pipeline) RefineEvidenceQuotes(ctx context.Context, result *model.DisclosureQualityResult) int {
	if p.refiner == nil || result == nil {
		return 0
	}
	n := p.refiner.Refine(ctx, result)
	if n == 0 {
		return 0
	}
	result.Method.RefinedFeatures = n
	if p.store != nil {
		if data, err := json.Marshal(result); err == nil {
			if err := p.store.Put(store.DQKey(result.Report.ID), data); err != nil {
				zap.L().Warn("refined result not persisted", zap.String("report", result.Report.ID), zap.Error(err))
			}
		}
	}
	return n
}

// ExtractEntities runs the chunk, route, extract, ground sequence over
// one report's text. Text below the extraction floor yields an empty
// result with zero chunks processed, not an error.
func (p *Pipeline) ExtractEntities(ctx context.Context, text string, meta model.ReportMeta) (*model.EntityExtractionResult, error) {
	result := &model.EntityExtractionResult{
		ReportID:    meta.ID,
		ReportKey:   meta.Key,
		GeneratedAt: time.Now().UTC(),
		Method:      model.EntitiesMethodKind,
	}

	if len(strings.TrimSpace(text)) < minExtractInput {
		return result, nil
	}
	if p.extractor == nil {
		return nil, eris.New("entity extraction needs an LLM provider, none configured")
	}

	norm := normalize.Normalize(text)
	pgs := pages.StripBoilerplate(pages.Segment(norm))
	blocks := pages.BuildBlocks(pgs)

	var corpus strings.Builder
	for i, pg := range pgs {
		if i > 0 {
			corpus.WriteString("\n\n")
		}
		corpus.WriteString(pg.Text())
	}

	chunks := chunk.Split(corpus.String(), chunk.Options{
		MaxChars: p.config.Chunk.MaxChars,
		Overlap:  p.config.Chunk.Overlap,
	})

	result.Routing = p.router.Route(ctx, chunks)

	entities, summary := p.extractor.Extract(ctx, chunks, result.Routing)
	summary.Grounded = ground.New(blocks).Apply(entities)

	result.Summary = summary
	result.Entities = entities

	p.persistEntities(meta, result)
	return result, nil
}

// ConvertDocument turns a source document (PDF or similar) into
// page-tagged text via the conversion service and persists it.
func (p *Pipeline) ConvertDocument(ctx context.Context, document []byte, name string, meta model.ReportMeta) (string, error) {
	if p.converter == nil {
		return "", eris.New("no conversion service configured")
	}
	res, err := p.converter.Convert(ctx, document, name)
	if err != nil {
		return "", eris.Wrap(err, "convert document")
	}
	if p.store != nil {
		if err := p.store.Put(store.TextKey(meta.ID), []byte(res.Text)); err != nil {
			zap.L().Warn("converted text not persisted", zap.String("report", meta.ID), zap.Error(err))
		}
	}
	return res.Text, nil
}

// StoredText returns a report's persisted source text, if any
func (p *Pipeline) StoredText(reportID string) (string, bool) {
	if p.store == nil {
		return "", false
	}
	data, found := p.store.Get(store.TextKey(reportID))
	return string(data), found
}

// computeDQ is the deterministic scoring core
func (p *Pipeline) computeDQ(text string, meta model.ReportMeta) *model.DisclosureQualityResult {
	// 1. Normalize and segment into page-tagged blocks
	norm := normalize.Normalize(text)
	pgs := pages.StripBoilerplate(pages.Segment(norm))
	blocks := pages.BuildBlocks(pgs)

	// 2. Run every detector over the block corpus
	features := p.engine.Evaluate(blocks)

	// 3. Corpus statistics (diagnostic, feeds two consistency gates)
	profile := score.Profile(blocks)

	// 4. Subscores and weighted overall
	overall, subscores := p.engine.Score(features, profile)

	found := make(map[string]bool, len(features))
	depth := make(map[string]model.FeatureDepth)
	quotes := make(map[string][]model.EvidenceQuote)
	for key, fr := range features {
		found[key] = fr.Found
		if fr.Found {
			depth[key] = model.FeatureDepth{Occurrences: fr.Occurrences, Pages: fr.PagesTouched}
			if len(fr.Quotes) > 0 {
				quotes[key] = fr.Quotes
			}
		}
	}

	return &model.DisclosureQualityResult{
		Version:         model.DQVersion,
		GeneratedAt:     time.Now().UTC(),
		Report:          meta,
		Score:           overall,
		Band:            model.BandForScore(overall),
		Subscores:       subscores,
		Features:        found,
		FeatureDepth:    depth,
		EvidenceQuotes:  quotes,
		Recommendations: p.engine.Recommendations(found),
		Quantitative:    profile,
		Method: model.Method{
			Kind:    model.DQMethodKind,
			Weights: score.DefaultWeights,
		},
	}
}

// loadCurrentResult returns the stored current-method result, nil when
// absent or produced by an older method, and ErrCorruptCache when the
// payload cannot be decoded.
func (p *Pipeline) loadCurrentResult(reportID string) (*model.DisclosureQualityResult, error) {
	data, found := p.store.Get(store.DQKey(reportID))
	if !found {
		return nil, nil
	}
	var cached model.DisclosureQualityResult
	if err := json.Unmarshal(data, &cached); err != nil {
		return nil, eris.Wrapf(ErrCorruptCache, "decode %s: %v", store.DQKey(reportID), err)
	}
	if cached.Method.Kind != model.DQMethodKind {
		zap.L().Info("stored result uses outdated method, recomputing",
			zap.String("report", reportID),
			zap.String("stored", cached.Method.Kind),
			zap.String("current", model.DQMethodKind))
		return nil, nil
	}
	return &cached, nil
}

// persistDQ stores the source text and result. Persistence failure is
// logged, never fatal: the caller still gets the computed result.
func (p *Pipeline) persistDQ(text string, meta model.ReportMeta, result *model.DisclosureQualityResult) {
	if p.store == nil {
		return
	}
	if err := p.store.Put(store.TextKey(meta.ID), []byte(text)); err != nil {
		zap.L().Warn("source text not persisted", zap.String("report", meta.ID), zap.Error(err))
	}
	data, err := json.Marshal(result)
	if err != nil {
		zap.L().Warn("result computed but not persisted", zap.String("report", meta.ID), zap.Error(err))
		return
	}
	if err := p.store.Put(store.DQKey(meta.ID), data); err != nil {
		zap.L().Warn("result computed but not persisted", zap.String("report", meta.ID), zap.Error(err))
	}
}

func (p *Pipeline) persistEntities(meta model.ReportMeta, result *model.EntityExtractionResult) {
	if p.store == nil {
		return
	}
	data, err := json.Marshal(result)
	if err != nil {
		zap.L().Warn("entities computed but not persisted", zap.String("report", meta.ID), zap.Error(err))
		return
	}
	if err := p.store.Put(store.EntitiesKey(meta.ID), data); err != nil {
		zap.L().Warn("entities computed but not persisted", zap.String("report", meta.ID), zap.Error(err))
	}
}
