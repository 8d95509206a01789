package score

import (
	"regexp"
	"sort"

	"github.com/NikhilGogu/sustainability-signals/internal/model"
)

// Engine evaluates the detector table over a block corpus and turns the
// results into the disclosure-quality score.
type Engine struct {
	maxQuoteChars int
	detectors     []Detector
}

// NewEngine creates an engine with the given quote-length bound
func NewEngine(maxQuoteChars int) *Engine {
	if maxQuoteChars <= 0 {
		maxQuoteChars = 1400
	}
	return &Engine{
		maxQuoteChars: maxQuoteChars,
		detectors:     Detectors,
	}
}

// Evaluate runs every detector over the corpus. One generic loop serves
// the whole table; detectors differ only in data.
func (e *Engine) Evaluate(blocks []model.EvidenceBlock) map[string]model.FeatureResult {
	results := make(map[string]model.FeatureResult, len(e.detectors))
	for _, d := range e.detectors {
		results[d.Key] = e.evaluateOne(d, blocks)
	}
	return results
}

func (e *Engine) evaluateOne(d Detector, blocks []model.EvidenceBlock) model.FeatureResult {
	pattern := d.Pattern
	occurrences, pages, candidates := scan(pattern, d, blocks, e.maxQuoteChars)

	// Composite detectors fall back to their alternative phrasing when the
	// primary finds nothing.
	if occurrences == 0 && d.Alt != nil {
		pattern = d.Alt
		occurrences, pages, candidates = scan(pattern, d, blocks, e.maxQuoteChars)
	}

	res := model.FeatureResult{
		Key:          d.Key,
		Found:        occurrences > 0,
		Occurrences:  occurrences,
		PagesTouched: len(pages),
	}
	if len(candidates) > 0 {
		res.Quotes = selectQuotes(candidates, d.MaxQuotes)
	}
	return res
}

// scan counts matches and collects one quote candidate per matching block
func scan(pattern *regexp.Regexp, d Detector, blocks []model.EvidenceBlock, maxQuoteChars int) (int, map[int]bool, []scoredQuote) {
	occurrences := 0
	pages := make(map[int]bool)
	var candidates []scoredQuote

	for i, b := range blocks {
		locs := pattern.FindAllStringIndex(b.Text, d.BlockCap+1)
		if len(locs) == 0 {
			continue
		}
		n := len(locs)
		if n > d.BlockCap {
			n = d.BlockCap
		}
		occurrences += n
		if b.Page > 0 {
			pages[b.Page] = true
		}
		candidates = append(candidates, buildQuote(blocks, i, maxQuoteChars))
	}
	return occurrences, pages, candidates
}

// selectQuotes ranks candidates by quality and keeps the top K distinct
// texts. Quality is a selection heuristic only and is discarded here.
func selectQuotes(candidates []scoredQuote, max int) []model.EvidenceQuote {
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].quality > candidates[j].quality
	})

	seen := make(map[string]bool)
	var out []model.EvidenceQuote
	for _, c := range candidates {
		if seen[c.quote.Text] {
			continue
		}
		seen[c.quote.Text] = true
		out = append(out, c.quote)
		if len(out) >= max {
			break
		}
	}
	return out
}
