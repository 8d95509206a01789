package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NikhilGogu/sustainability-signals/internal/llm"
	"github.com/NikhilGogu/sustainability-signals/internal/model"
)

// scriptedProvider answers extraction prompts by looking up the chunk
// text inside the prompt body.
type scriptedProvider struct {
	mu      sync.Mutex
	answers map[string]string // chunk text fragment -> response
	errs    map[string]error
	calls   int
}

func (p *scriptedProvider) Name() string                     { return "scripted" }
func (p *scriptedProvider) IsAvailable(context.Context) bool { return true }
func (p *scriptedProvider) Complete(_ context.Context, req llm.Request) (*llm.Response, error) {
	p.mu.Lock()
	p.calls++
	p.mu.Unlock()
	for frag, err := range p.errs {
		if strings.Contains(req.Prompt, frag) {
			return nil, err
		}
	}
	for frag, text := range p.answers {
		if strings.Contains(req.Prompt, frag) {
			return &llm.Response{Text: text}, nil
		}
	}
	return &llm.Response{Text: "[]"}, nil
}

func entityJSON(class, text string) string {
	b, _ := json.Marshal([]rawEntity{{ExtractionClass: class, ExtractionText: text}})
	return string(b)
}

func routedAll(n int) model.RoutingSummary {
	s := model.RoutingSummary{TotalChunks: n, RoutedChunks: n}
	for i := 0; i < n; i++ {
		s.Results = append(s.Results, model.RoutingResult{Index: i, Category: "Climate Change", Score: 0.9, IsESG: true})
	}
	return s
}

func TestExtractSkipsUnroutedChunks(t *testing.T) {
	p := &scriptedProvider{answers: map[string]string{
		"chunk-zero": entityJSON("ghg_emissions", "Scope 1 100 tCO2e"),
		"chunk-one":  entityJSON("energy", "Renewable 500 MWh"),
	}}
	e := New(p, Options{})

	chunks := []model.Chunk{
		{Index: 0, Text: "chunk-zero"},
		{Index: 1, Text: "chunk-one"},
	}
	routing := model.RoutingSummary{
		TotalChunks: 2,
		Results: []model.RoutingResult{
			{Index: 0, IsESG: true, Category: "Climate Change", Score: 0.9},
			{Index: 1, IsESG: false},
		},
	}

	entities, sum := e.Extract(context.Background(), chunks, routing)
	require.Len(t, entities, 1)
	assert.Equal(t, "Scope 1 100 tCO2e", entities[0].ExtractionText)
	assert.Equal(t, 1, sum.ChunksProcessed)
	assert.Equal(t, 1, p.calls, "skipped chunks must never reach the model")
}

func TestExtractAnnotatesEntities(t *testing.T) {
	p := &scriptedProvider{answers: map[string]string{
		"chunk-zero": entityJSON("social_metric", "42% women in management"),
	}}
	e := New(p, Options{})

	entities, _ := e.Extract(context.Background(),
		[]model.Chunk{{Index: 0, Text: "chunk-zero"}}, routedAll(1))
	require.Len(t, entities, 1)
	got := entities[0]
	assert.Equal(t, model.PillarS, got.Pillar)
	assert.Equal(t, 0, got.ChunkIndex)
	assert.Equal(t, "Climate Change", got.RoutedCategory)
	assert.InDelta(t, 0.9, got.RouteScore, 1e-9)
	assert.Nil(t, got.Page, "grounding happens downstream")
}

func TestExtractChunkFailureYieldsZeroEntities(t *testing.T) {
	p := &scriptedProvider{
		answers: map[string]string{
			"chunk-zero": entityJSON("ghg_emissions", "Scope 1 100 tCO2e"),
			"chunk-two":  entityJSON("waste", "340 tonnes"),
		},
		errs: map[string]error{"chunk-one": fmt.Errorf("model overloaded")},
	}
	e := New(p, Options{Concurrency: 1})

	chunks := []model.Chunk{
		{Index: 0, Text: "chunk-zero"},
		{Index: 1, Text: "chunk-one"},
		{Index: 2, Text: "chunk-two"},
	}
	entities, sum := e.Extract(context.Background(), chunks, routedAll(3))

	assert.Len(t, entities, 2)
	assert.Equal(t, 3, sum.ChunksProcessed)
	assert.Equal(t, 1, sum.ChunksFailed)
}

func TestExtractDeduplicatesAcrossChunks(t *testing.T) {
	// Overlapping windows surface the same entity twice with different case.
	p := &scriptedProvider{answers: map[string]string{
		"chunk-zero": entityJSON("ghg_emissions", "Scope 1 100 tCO2e"),
		"chunk-one":  entityJSON("ghg_emissions", "scope 1 100 tco2e  "),
	}}
	e := New(p, Options{Concurrency: 1})

	chunks := []model.Chunk{
		{Index: 0, Text: "chunk-zero"},
		{Index: 1, Text: "chunk-one"},
	}
	entities, sum := e.Extract(context.Background(), chunks, routedAll(2))

	require.Len(t, entities, 1)
	assert.Equal(t, "Scope 1 100 tCO2e", entities[0].ExtractionText, "first occurrence wins")
	assert.Equal(t, 2, sum.EntitiesRaw)
	assert.Equal(t, 1, sum.EntitiesKept)
}

func TestExtractCapsTotal(t *testing.T) {
	p := &scriptedProvider{answers: map[string]string{
		"chunk-zero": func() string {
			items := make([]rawEntity, 5)
			for i := range items {
				items[i] = rawEntity{ExtractionClass: "energy", ExtractionText: fmt.Sprintf("metric %d", i)}
			}
			b, _ := json.Marshal(items)
			return string(b)
		}(),
	}}
	e := New(p, Options{MaxTotal: 3})

	entities, sum := e.Extract(context.Background(),
		[]model.Chunk{{Index: 0, Text: "chunk-zero"}}, routedAll(1))
	assert.Len(t, entities, 3)
	assert.Equal(t, 3, sum.EntitiesKept)
}

func TestExtractNoRoutedChunks(t *testing.T) {
	p := &scriptedProvider{}
	e := New(p, Options{})
	entities, sum := e.Extract(context.Background(),
		[]model.Chunk{{Index: 0, Text: "x"}},
		model.RoutingSummary{TotalChunks: 1, Results: []model.RoutingResult{{Index: 0, IsESG: false}}})
	assert.Empty(t, entities)
	assert.Zero(t, sum.ChunksProcessed)
	assert.Zero(t, p.calls)
}

func TestExtractPreservesChunkOrder(t *testing.T) {
	p := &scriptedProvider{answers: map[string]string{}}
	for i := 0; i < 10; i++ {
		p.answers[fmt.Sprintf("chunk-%02d ", i)] = entityJSON("energy", fmt.Sprintf("entity from chunk %02d", i))
	}
	e := New(p, Options{Concurrency: 4})

	chunks := make([]model.Chunk, 10)
	for i := range chunks {
		chunks[i] = model.Chunk{Index: i, Text: fmt.Sprintf("chunk-%02d body", i)}
	}
	entities, _ := e.Extract(context.Background(), chunks, routedAll(10))

	require.Len(t, entities, 10)
	for i, ent := range entities {
		assert.Equal(t, i, ent.ChunkIndex, "entities must come back in chunk order")
	}
}
