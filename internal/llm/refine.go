package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/NikhilGogu/sustainability-signals/internal/model"
)

// Refiner tightens evidence quotes with an LLM: trimming lead-ins and
// trailing fragments so each quote reads as a clean standalone excerpt.
// Refinement is best effort and strictly additive; when the provider is
// missing, fails, or returns text that breaks the verbatim rules, the
// original quotes stand.
type Refiner struct {
	provider    Provider
	maxFeatures int
	maxQuotes   int
	maxChars    int
}

// NewRefiner creates a Refiner. Zero limits fall back to defaults.
func NewRefiner(p Provider, cfg model.QuoteConfig) *Refiner {
	r := &Refiner{
		provider:    p,
		maxFeatures: cfg.RefineFeatures,
		maxQuotes:   cfg.MaxPerFeature,
		maxChars:    cfg.RefineChars,
	}
	if r.maxFeatures <= 0 {
		r.maxFeatures = 20
	}
	if r.maxQuotes <= 0 {
		r.maxQuotes = 3
	}
	if r.maxChars <= 0 {
		r.maxChars = 600
	}
	return r
}

const refineSystem = `You edit excerpts from corporate sustainability reports. You only ever shorten text. You never add, reword, or invent anything.`

const refineInstructions = `For each quote below, remove boilerplate lead-ins and cut-off trailing fragments so the quote reads as a clean excerpt. Rules:
1. The output MUST be a contiguous substring of the input quote, with at most leading/trailing whitespace trimmed.
2. Never paraphrase, reorder, or merge sentences.
3. Never change, add, or remove any number, unit, or percentage.
4. If a quote is already clean, return it unchanged.
Respond with ONLY a JSON object mapping each feature key to an array of refined quote strings, in the same order as the input.`

// refinePayload is the per-feature input sent to the model
type refinePayload struct {
	Feature string   `json:"feature"`
	Quotes  []string `json:"quotes"`
}

// Refine rewrites quote text in place and returns the number of features
// whose quotes changed. It never fails: any provider or validation problem
// is logged and the result keeps its original quotes.
func (r *Refiner) Refine(ctx context.Context, result *model.DisclosureQualityResult) int {
	if r == nil || r.provider == nil || result == nil || len(result.EvidenceQuotes) == 0 {
		return 0
	}

	keys := make([]string, 0, len(result.EvidenceQuotes))
	for k := range result.EvidenceQuotes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if len(keys) > r.maxFeatures {
		keys = keys[:r.maxFeatures]
	}

	payload := make([]refinePayload, 0, len(keys))
	for _, k := range keys {
		quotes := result.EvidenceQuotes[k]
		n := len(quotes)
		if n > r.maxQuotes {
			n = r.maxQuotes
		}
		p := refinePayload{Feature: k, Quotes: make([]string, 0, n)}
		for _, q := range quotes[:n] {
			p.Quotes = append(p.Quotes, truncateRunes(q.Text, r.maxChars))
		}
		payload = append(payload, p)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		zap.L().Warn("quote refinement skipped", zap.Error(err))
		return 0
	}

	resp, err := r.provider.Complete(ctx, Request{
		System: refineSystem,
		Prompt: fmt.Sprintf("%s\n\nQuotes:\n%s", refineInstructions, body),
	})
	if err != nil {
		zap.L().Warn("quote refinement failed, keeping original quotes", zap.Error(err))
		return 0
	}

	refined, err := parseRefined(resp.Text)
	if err != nil {
		zap.L().Warn("quote refinement response unusable, keeping original quotes", zap.Error(err))
		return 0
	}

	features := 0
	for _, p := range payload {
		texts, ok := refined[p.Feature]
		if !ok {
			continue
		}
		quotes := result.EvidenceQuotes[p.Feature]
		changed := false
		for i, newText := range texts {
			if i >= len(p.Quotes) || i >= len(quotes) {
				break
			}
			newText = strings.TrimSpace(newText)
			if !refinementValid(p.Quotes[i], newText) {
				continue
			}
			if newText != quotes[i].Text {
				quotes[i].Text = newText
				changed = true
			}
		}
		if changed {
			features++
		}
	}
	return features
}

// parseRefined decodes the model's JSON object, tolerating a fenced
// code block around it.
func parseRefined(text string) (map[string][]string, error) {
	text = strings.TrimSpace(text)
	if i := strings.Index(text, "```"); i >= 0 {
		text = text[i+3:]
		text = strings.TrimPrefix(text, "json")
		if j := strings.Index(text, "```"); j >= 0 {
			text = text[:j]
		}
	}
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON object in response")
	}
	var out map[string][]string
	if err := json.Unmarshal([]byte(text[start:end+1]), &out); err != nil {
		return nil, fmt.Errorf("decode refined quotes: %w", err)
	}
	return out, nil
}

// truncateRunes bounds text to max bytes without splitting a multi-byte
// rune, so the model always receives valid UTF-8.
func truncateRunes(text string, max int) string {
	if len(text) <= max {
		return text
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut]
}

var digitRunRe = regexp.MustCompile(`\d[\d,.]*`)

// refinementValid enforces the verbatim contract: the refined text must
// be a substring of the original and must not introduce numbers the
// original does not contain.
func refinementValid(original, refined string) bool {
	if refined == "" || len(refined) > len(original) {
		return false
	}
	if !strings.Contains(original, refined) {
		return false
	}
	have := make(map[string]bool)
	for _, run := range digitRunRe.FindAllString(original, -1) {
		have[run] = true
	}
	for _, run := range digitRunRe.FindAllString(refined, -1) {
		if !have[run] {
			return false
		}
	}
	return true
}
