package route

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NikhilGogu/sustainability-signals/internal/classify"
	"github.com/NikhilGogu/sustainability-signals/internal/model"
)

type fakeClassifier struct {
	fn func(texts []string) ([][]classify.Label, error)
}

func (f *fakeClassifier) Classify(_ context.Context, texts []string) ([][]classify.Label, error) {
	return f.fn(texts)
}

func chunksOf(texts ...string) []model.Chunk {
	out := make([]model.Chunk, len(texts))
	for i, t := range texts {
		out[i] = model.Chunk{Index: i, Text: t}
	}
	return out
}

func TestRoutePartitionsByCategoryAndScore(t *testing.T) {
	c := &fakeClassifier{fn: func(texts []string) ([][]classify.Label, error) {
		out := make([][]classify.Label, len(texts))
		for i, txt := range texts {
			switch {
			case strings.Contains(txt, "emissions"):
				out[i] = []classify.Label{{Label: "Climate Change", Score: 0.92}}
			case strings.Contains(txt, "cafeteria"):
				out[i] = []classify.Label{{Label: "Non-ESG", Score: 0.88}}
			default:
				out[i] = []classify.Label{{Label: "Human Capital", Score: 0.31}}
			}
		}
		return out, nil
	}}
	r := New(c, DefaultOptions())

	sum := r.Route(context.Background(), chunksOf(
		"scope 1 emissions fell 12%",
		"the cafeteria menu changed",
		"misc weak signal",
	))

	require.Len(t, sum.Results, 3)
	assert.Equal(t, 3, sum.TotalChunks)
	assert.Equal(t, 1, sum.RoutedChunks)
	assert.Equal(t, 2, sum.SkippedChunks)
	assert.False(t, sum.FailedOpen)

	assert.True(t, sum.Results[0].IsESG)
	assert.Equal(t, model.PillarE, sum.Results[0].Pillar)
	assert.False(t, sum.Results[1].IsESG, "Non-ESG top label must be skipped")
	assert.False(t, sum.Results[2].IsESG, "below-threshold score must be skipped")
}

func TestRouteFailsOpenOnClassifierError(t *testing.T) {
	c := &fakeClassifier{fn: func([]string) ([][]classify.Label, error) {
		return nil, errors.New("connection refused")
	}}
	r := New(c, DefaultOptions())

	texts := make([]string, 40)
	for i := range texts {
		texts[i] = fmt.Sprintf("chunk %d", i)
	}
	sum := r.Route(context.Background(), chunksOf(texts...))

	assert.Equal(t, 40, sum.TotalChunks)
	assert.Equal(t, 40, sum.RoutedChunks)
	assert.Equal(t, 0, sum.SkippedChunks)
	assert.True(t, sum.FailedOpen)
	for _, res := range sum.Results {
		assert.True(t, res.IsESG)
		assert.NotEmpty(t, res.Error)
	}
}

func TestRoutePartialBatchFailure(t *testing.T) {
	var calls int
	c := &fakeClassifier{fn: func(texts []string) ([][]classify.Label, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("transient 503")
		}
		out := make([][]classify.Label, len(texts))
		for i := range texts {
			out[i] = []classify.Label{{Label: "Non-ESG", Score: 0.9}}
		}
		return out, nil
	}}
	// One worker so batch order is deterministic.
	r := New(c, Options{BatchSize: 16, Concurrency: 1, MinConfidence: 0.5})

	texts := make([]string, 20)
	for i := range texts {
		texts[i] = fmt.Sprintf("chunk %d", i)
	}
	sum := r.Route(context.Background(), chunksOf(texts...))

	assert.True(t, sum.FailedOpen)
	assert.Equal(t, 16, sum.RoutedChunks, "failed batch routes open")
	assert.Equal(t, 4, sum.SkippedChunks, "healthy batch still filters")
}

func TestRouteResultCountMismatchFailsOpen(t *testing.T) {
	c := &fakeClassifier{fn: func(texts []string) ([][]classify.Label, error) {
		return [][]classify.Label{{{Label: "Climate Change", Score: 0.9}}}, nil
	}}
	r := New(c, DefaultOptions())

	sum := r.Route(context.Background(), chunksOf("a", "b", "c"))
	assert.True(t, sum.FailedOpen)
	assert.Equal(t, 3, sum.RoutedChunks)
}

func TestRouteNilClassifierRoutesEverything(t *testing.T) {
	r := New(nil, DefaultOptions())
	sum := r.Route(context.Background(), chunksOf("a", "b"))
	assert.True(t, sum.FailedOpen)
	assert.Equal(t, 2, sum.RoutedChunks)
}

func TestRouteEmptyInput(t *testing.T) {
	r := New(&fakeClassifier{fn: func([]string) ([][]classify.Label, error) {
		t.Fatal("classifier must not be called for zero chunks")
		return nil, nil
	}}, DefaultOptions())
	sum := r.Route(context.Background(), nil)
	assert.Zero(t, sum.TotalChunks)
	assert.Empty(t, sum.Results)
}

func TestRoutePreservesChunkOrder(t *testing.T) {
	c := &fakeClassifier{fn: func(texts []string) ([][]classify.Label, error) {
		out := make([][]classify.Label, len(texts))
		for i := range texts {
			out[i] = []classify.Label{{Label: "Corporate Governance", Score: 0.8}}
		}
		return out, nil
	}}
	r := New(c, Options{BatchSize: 4, Concurrency: 2, MinConfidence: 0.5})

	texts := make([]string, 37)
	for i := range texts {
		texts[i] = fmt.Sprintf("chunk %d", i)
	}
	sum := r.Route(context.Background(), chunksOf(texts...))
	require.Len(t, sum.Results, 37)
	for i, res := range sum.Results {
		assert.Equal(t, i, res.Index)
	}
}
