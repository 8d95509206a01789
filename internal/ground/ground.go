// Package ground maps verbatim entity text back to the page and heading
// it came from. Extraction works on chunk windows that know nothing
// about pages, so grounding re-locates each entity in the block corpus
// after the fact. An entity that cannot be located keeps a nil page;
// that is expected for text the model trimmed or lightly reflowed.
package ground

import (
	"strings"

	"github.com/NikhilGogu/sustainability-signals/internal/model"
)

// minTokenRatio is the overlap needed for a fuzzy match on long entity
// texts; short texts need nearly all tokens to land.
const (
	minTokenRatio      = 0.7
	shortTokenRatio    = 0.85
	shortTokenCount    = 5
	minSignificantToks = 2
)

// Grounder locates entity text within an ordered block corpus.
type Grounder struct {
	blocks []model.EvidenceBlock
	norm   []string
	tokens []map[string]bool
}

// New builds a Grounder over the block corpus. Normalized block text and
// token sets are precomputed once; grounding runs per entity.
func New(blocks []model.EvidenceBlock) *Grounder {
	g := &Grounder{
		blocks: blocks,
		norm:   make([]string, len(blocks)),
		tokens: make([]map[string]bool, len(blocks)),
	}
	for i, b := range blocks {
		g.norm[i] = normalize(b.Text)
		g.tokens[i] = tokenSet(g.norm[i])
	}
	return g
}

// Apply grounds entities in place and returns how many got a page or
// heading. Entities arrive in document order, so the search cursor moves
// forward with each hit and wraps around for out-of-order stragglers.
func (g *Grounder) Apply(entities []model.ExtractedEntity) int {
	grounded := 0
	cursor := 0
	for i := range entities {
		idx, ok := g.locate(entities[i].ExtractionText, cursor)
		if !ok {
			continue
		}
		block := g.blocks[idx]
		if block.Page > 0 {
			page := block.Page
			entities[i].Page = &page
		}
		entities[i].Heading = block.Heading
		if block.Page > 0 || block.Heading != "" {
			grounded++
		}
		cursor = idx
	}
	return grounded
}

// locate tries an exact normalized-substring match first, then falls
// back to token overlap. Both scan from the cursor to the end and wrap
// to the start.
func (g *Grounder) locate(text string, cursor int) (int, bool) {
	needle := normalize(text)
	if needle == "" || len(g.blocks) == 0 {
		return 0, false
	}

	if idx, ok := g.exact(needle, cursor); ok {
		return idx, true
	}
	return g.fuzzy(needle, cursor)
}

func (g *Grounder) exact(needle string, cursor int) (int, bool) {
	n := len(g.norm)
	for off := 0; off < n; off++ {
		i := (cursor + off) % n
		if strings.Contains(g.norm[i], needle) {
			return i, true
		}
	}
	return 0, false
}

// fuzzy picks the block with the highest share of the entity's
// significant tokens, provided the share clears the ratio threshold.
func (g *Grounder) fuzzy(needle string, cursor int) (int, bool) {
	toks := significantTokens(needle)
	if len(toks) < minSignificantToks {
		return 0, false
	}
	required := minTokenRatio
	if len(toks) <= shortTokenCount {
		required = shortTokenRatio
	}

	bestIdx, bestRatio := 0, 0.0
	n := len(g.tokens)
	for off := 0; off < n; off++ {
		i := (cursor + off) % n
		hits := 0
		for _, t := range toks {
			if g.tokens[i][t] {
				hits++
			}
		}
		ratio := float64(hits) / float64(len(toks))
		if ratio > bestRatio {
			bestIdx, bestRatio = i, ratio
		}
	}
	if bestRatio >= required {
		return bestIdx, true
	}
	return 0, false
}

// normalize lowercases and collapses all whitespace runs to single
// spaces so reflowed line breaks do not defeat substring matching.
func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

var stopTokens = map[string]bool{
	"the": true, "and": true, "for": true, "our": true, "was": true,
	"were": true, "are": true, "with": true, "from": true, "that": true,
	"this": true, "has": true, "have": true, "will": true, "per": true,
}

// significantTokens keeps tokens long enough to discriminate, dropping
// stopwords. Numbers survive; they are the strongest grounding signal.
func significantTokens(s string) []string {
	var out []string
	for _, t := range strings.Fields(s) {
		t = strings.Trim(t, ".,;:()[]\"'")
		if len(t) < 3 || stopTokens[t] {
			continue
		}
		out = append(out, t)
	}
	return out
}

func tokenSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, t := range strings.Fields(s) {
		t = strings.Trim(t, ".,;:()[]\"'")
		if t != "" {
			set[t] = true
		}
	}
	return set
}
