package classify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/NikhilGogu/sustainability-signals/internal/model"
)

// MaxBatchSize is the largest input batch the service accepts
const MaxBatchSize = 32

// Label is one scored category for one input text
type Label struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Classifier labels texts with ESG categories. Implementations return one
// label list per input, sorted by score descending.
type Classifier interface {
	Classify(ctx context.Context, texts []string) ([][]Label, error)
}

// Client calls the FinBERT-ESG inference service over HTTP:
// POST /classify {"inputs": [...]} -> [[{label, score}, ...], ...]
type Client struct {
	httpClient *http.Client
	url        string
	apiKey     string
	limiter    *rate.Limiter
}

// NewClient creates a classifier client. requestsPerSec throttles calls
// to respect the service's capacity; zero disables throttling.
func NewClient(url, apiKey string, timeout time.Duration, requestsPerSec float64) *Client {
	var limiter *rate.Limiter
	if requestsPerSec > 0 {
		limiter = rate.NewLimiter(rate.Limit(requestsPerSec), 1)
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		url:        url,
		apiKey:     apiKey,
		limiter:    limiter,
	}
}

type classifyRequest struct {
	Inputs []string `json:"inputs"`
}

// Classify labels a batch of texts. The batch must not exceed
// MaxBatchSize; callers batch above this.
func (c *Client) Classify(ctx context.Context, texts []string) ([][]Label, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	if len(texts) > MaxBatchSize {
		return nil, fmt.Errorf("batch size %d exceeds max %d", len(texts), MaxBatchSize)
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit: %w", err)
		}
	}

	body, err := json.Marshal(classifyRequest{Inputs: texts})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("classify: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, bytes.TrimSpace(payload))
	}

	var results [][]Label
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(results) != len(texts) {
		return nil, fmt.Errorf("got %d results for %d inputs", len(results), len(texts))
	}
	return results, nil
}

// The nine FinBERT-ESG categories mapped to pillars. "Non-ESG" maps to
// no pillar and marks a chunk as not ESG-relevant.
var categoryPillars = map[string]model.Pillar{
	"Climate Change":           model.PillarE,
	"Natural Capital":          model.PillarE,
	"Pollution & Waste":        model.PillarE,
	"Human Capital":            model.PillarS,
	"Product Liability":        model.PillarS,
	"Community Relations":      model.PillarS,
	"Corporate Governance":     model.PillarG,
	"Business Ethics & Values": model.PillarG,
}

// NonESGLabel is the classifier's label for irrelevant text
const NonESGLabel = "Non-ESG"

// PillarFor maps a category label to its ESG pillar; empty for Non-ESG
// and unknown labels.
func PillarFor(category string) model.Pillar {
	return categoryPillars[category]
}
