package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"unicode/utf8"

	"github.com/NikhilGogu/sustainability-signals/internal/model"
)

type fakeProvider struct {
	resp *Response
	err  error
	last Request
}

func (f *fakeProvider) Name() string                     { return "fake" }
func (f *fakeProvider) IsAvailable(context.Context) bool { return true }
func (f *fakeProvider) Complete(_ context.Context, req Request) (*Response, error) {
	f.last = req
	return f.resp, f.err
}

func page(n int) *int { return &n }

func resultWithQuotes(quotes map[string][]model.EvidenceQuote) *model.DisclosureQualityResult {
	return &model.DisclosureQualityResult{EvidenceQuotes: quotes}
}

func TestRefineReplacesValidQuotes(t *testing.T) {
	original := "As shown in the table above, Scope 1 emissions were 1,200 tCO2e in 2023."
	refinedJSON, _ := json.Marshal(map[string][]string{
		"scope_1": {"Scope 1 emissions were 1,200 tCO2e in 2023."},
	})
	p := &fakeProvider{resp: &Response{Text: string(refinedJSON)}}
	r := NewRefiner(p, model.QuoteConfig{})

	res := resultWithQuotes(map[string][]model.EvidenceQuote{
		"scope_1": {{Text: original, Page: page(12)}},
	})
	n := r.Refine(context.Background(), res)
	if n != 1 {
		t.Fatalf("Refine() = %d, want 1", n)
	}
	got := res.EvidenceQuotes["scope_1"][0]
	if got.Text != "Scope 1 emissions were 1,200 tCO2e in 2023." {
		t.Errorf("quote text = %q", got.Text)
	}
	if got.Page == nil || *got.Page != 12 {
		t.Error("refinement must not touch page grounding")
	}
}

func TestRefineRejectsNonSubstring(t *testing.T) {
	refinedJSON, _ := json.Marshal(map[string][]string{
		"scope_1": {"Emissions were about 1,200 tonnes."},
	})
	p := &fakeProvider{resp: &Response{Text: string(refinedJSON)}}
	r := NewRefiner(p, model.QuoteConfig{})

	original := "Scope 1 emissions were 1,200 tCO2e in 2023."
	res := resultWithQuotes(map[string][]model.EvidenceQuote{
		"scope_1": {{Text: original}},
	})
	if n := r.Refine(context.Background(), res); n != 0 {
		t.Fatalf("Refine() = %d, want 0 for paraphrased output", n)
	}
	if res.EvidenceQuotes["scope_1"][0].Text != original {
		t.Error("original quote must survive a rejected refinement")
	}
}

func TestRefineRejectsTruncatedNumbers(t *testing.T) {
	// "120" is a substring of the original but a different number.
	refinedJSON, _ := json.Marshal(map[string][]string{
		"scope_1": {"emissions were 1,20"},
	})
	p := &fakeProvider{resp: &Response{Text: string(refinedJSON)}}
	r := NewRefiner(p, model.QuoteConfig{})

	res := resultWithQuotes(map[string][]model.EvidenceQuote{
		"scope_1": {{Text: "Scope 1 emissions were 1,200 tCO2e."}},
	})
	if n := r.Refine(context.Background(), res); n != 0 {
		t.Fatalf("Refine() = %d, want 0 when a number is cut mid-run", n)
	}
}

func TestRefineProviderErrorDegradesToNoop(t *testing.T) {
	p := &fakeProvider{err: errors.New("rate limited")}
	r := NewRefiner(p, model.QuoteConfig{})

	original := "Scope 1 emissions were 1,200 tCO2e."
	res := resultWithQuotes(map[string][]model.EvidenceQuote{
		"scope_1": {{Text: original}},
	})
	if n := r.Refine(context.Background(), res); n != 0 {
		t.Fatalf("Refine() = %d, want 0 on provider error", n)
	}
	if res.EvidenceQuotes["scope_1"][0].Text != original {
		t.Error("quotes must be untouched on provider error")
	}
}

func TestRefineGarbageResponseDegradesToNoop(t *testing.T) {
	p := &fakeProvider{resp: &Response{Text: "Sure! Here are the refined quotes."}}
	r := NewRefiner(p, model.QuoteConfig{})
	res := resultWithQuotes(map[string][]model.EvidenceQuote{
		"scope_1": {{Text: "Scope 1 emissions were 1,200 tCO2e."}},
	})
	if n := r.Refine(context.Background(), res); n != 0 {
		t.Fatalf("Refine() = %d, want 0 for unparseable response", n)
	}
}

func TestRefineAcceptsFencedJSON(t *testing.T) {
	p := &fakeProvider{resp: &Response{
		Text: "```json\n{\"scope_1\": [\"emissions were 1,200 tCO2e.\"]}\n```",
	}}
	r := NewRefiner(p, model.QuoteConfig{})
	res := resultWithQuotes(map[string][]model.EvidenceQuote{
		"scope_1": {{Text: "Scope 1 emissions were 1,200 tCO2e."}},
	})
	if n := r.Refine(context.Background(), res); n != 1 {
		t.Fatalf("Refine() = %d, want 1 for fenced JSON", n)
	}
}

func TestRefineNilProvider(t *testing.T) {
	r := NewRefiner(nil, model.QuoteConfig{})
	res := resultWithQuotes(map[string][]model.EvidenceQuote{
		"scope_1": {{Text: "Scope 1 emissions were 1,200 tCO2e."}},
	})
	if n := r.Refine(context.Background(), res); n != 0 {
		t.Fatalf("Refine() = %d, want 0 with no provider", n)
	}
}

func TestRefineCountsFeaturesNotQuotes(t *testing.T) {
	refinedJSON, _ := json.Marshal(map[string][]string{
		"scope_1": {
			"Scope 1 emissions were 1,200 tCO2e.",
			"Scope 1 covers combustion.",
		},
	})
	p := &fakeProvider{resp: &Response{Text: string(refinedJSON)}}
	r := NewRefiner(p, model.QuoteConfig{})

	res := resultWithQuotes(map[string][]model.EvidenceQuote{
		"scope_1": {
			{Text: "As reported, Scope 1 emissions were 1,200 tCO2e."},
			{Text: "Note that Scope 1 covers combustion."},
		},
	})
	if n := r.Refine(context.Background(), res); n != 1 {
		t.Fatalf("Refine() = %d, want 1 feature even with two quotes changed", n)
	}
	if res.EvidenceQuotes["scope_1"][0].Text != "Scope 1 emissions were 1,200 tCO2e." {
		t.Error("first quote not refined")
	}
	if res.EvidenceQuotes["scope_1"][1].Text != "Scope 1 covers combustion." {
		t.Error("second quote not refined")
	}
}

func TestTruncateRunesKeepsValidUTF8(t *testing.T) {
	// A multi-byte rune straddling the byte limit must be dropped whole.
	text := "emissions 14 011 tCO₂e"
	for max := 1; max <= len(text); max++ {
		out := truncateRunes(text, max)
		if len(out) > max {
			t.Fatalf("truncateRunes(%d) = %d bytes", max, len(out))
		}
		if !utf8.ValidString(out) {
			t.Fatalf("truncateRunes(%d) = %q, invalid UTF-8", max, out)
		}
	}
	if got := truncateRunes("plain ascii", 600); got != "plain ascii" {
		t.Errorf("text under the limit must pass through, got %q", got)
	}
}

func TestRefinePayloadStaysValidUTF8(t *testing.T) {
	// maxChars lands inside the two-byte "é"; the payload sent to the
	// model must still be valid UTF-8.
	original := "Nos émissions de scope 1"
	cut := -1
	for i := range original {
		if original[i] == 0xc3 {
			cut = i + 1
			break
		}
	}
	if cut < 0 {
		t.Fatal("fixture lost its multi-byte rune")
	}
	p := &fakeProvider{resp: &Response{Text: "{}"}}
	r := NewRefiner(p, model.QuoteConfig{RefineChars: cut})

	res := resultWithQuotes(map[string][]model.EvidenceQuote{
		"scope_1": {{Text: original}},
	})
	r.Refine(context.Background(), res)

	if !utf8.ValidString(p.last.Prompt) {
		t.Error("prompt sent to the provider is not valid UTF-8")
	}
}

func TestRefineCapsFeatureCount(t *testing.T) {
	p := &fakeProvider{resp: &Response{Text: "{}"}}
	r := NewRefiner(p, model.QuoteConfig{RefineFeatures: 2, MaxPerFeature: 3, RefineChars: 600})

	res := resultWithQuotes(map[string][]model.EvidenceQuote{
		"a": {{Text: "alpha quote"}},
		"b": {{Text: "beta quote"}},
		"c": {{Text: "gamma quote"}},
	})
	r.Refine(context.Background(), res)

	var payload []refinePayload
	prompt := p.last.Prompt
	start := -1
	for i, c := range prompt {
		if c == '[' {
			start = i
			break
		}
	}
	if start < 0 {
		t.Fatal("prompt carries no JSON payload")
	}
	if err := json.Unmarshal([]byte(prompt[start:]), &payload); err != nil {
		t.Fatalf("payload not valid JSON: %v", err)
	}
	if len(payload) != 2 {
		t.Errorf("payload features = %d, want 2", len(payload))
	}
}
