package extract

import (
	"encoding/json"
	"strings"

	"github.com/rotisserie/eris"
)

// rawEntity is one item of the model's JSON array before validation.
type rawEntity struct {
	ExtractionClass string            `json:"extraction_class"`
	ExtractionText  string            `json:"extraction_text"`
	Attributes      map[string]string `json:"attributes"`
}

// parseEntities decodes the model response into validated entities,
// keeping at most max per chunk. Models wrap JSON in prose or code
// fences often enough that parsing tries three shapes in order: the
// whole response, a fenced block, then the outermost bracket pair.
// Items with an unknown class or empty text are discarded, not errors.
func parseEntities(text string, max int) ([]rawEntity, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, eris.New("empty model response")
	}

	candidates := []string{text}
	if fenced := insideFence(text); fenced != "" {
		candidates = append(candidates, fenced)
	}
	if bracketed := insideBrackets(text); bracketed != "" {
		candidates = append(candidates, bracketed)
	}

	var lastErr error
	for _, c := range candidates {
		var items []rawEntity
		if err := json.Unmarshal([]byte(c), &items); err != nil {
			lastErr = err
			continue
		}
		return keepValid(items, max), nil
	}
	return nil, eris.Wrap(lastErr, "no JSON array in model response")
}

func keepValid(items []rawEntity, max int) []rawEntity {
	out := make([]rawEntity, 0, len(items))
	for _, it := range items {
		it.ExtractionText = strings.TrimSpace(it.ExtractionText)
		if it.ExtractionText == "" || !KnownClass(it.ExtractionClass) {
			continue
		}
		out = append(out, it)
		if max > 0 && len(out) >= max {
			break
		}
	}
	return out
}

func insideFence(text string) string {
	i := strings.Index(text, "```")
	if i < 0 {
		return ""
	}
	rest := strings.TrimPrefix(text[i+3:], "json")
	j := strings.Index(rest, "```")
	if j < 0 {
		return ""
	}
	return strings.TrimSpace(rest[:j])
}

func insideBrackets(text string) string {
	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start < 0 || end <= start {
		return ""
	}
	return text[start : end+1]
}
