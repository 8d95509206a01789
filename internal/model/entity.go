package model

import "time"

// Chunk is an overlapping window over normalized report text. Chunks are
// ordered and never persisted.
type Chunk struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

// Pillar is one of the three ESG dimensions
type Pillar string

const (
	PillarE Pillar = "E"
	PillarS Pillar = "S"
	PillarG Pillar = "G"
)

// RoutingResult records how the classifier labelled one chunk
type RoutingResult struct {
	Index    int     `json:"index"`
	Category string  `json:"category"`
	Pillar   Pillar  `json:"pillar,omitempty"`
	Score    float64 `json:"score"`
	IsESG    bool    `json:"is_esg"`
	Error    string  `json:"error,omitempty"` // Set when the classifier failed and the chunk was routed open
}

// RoutingSummary aggregates routing over a whole run
type RoutingSummary struct {
	TotalChunks   int             `json:"total_chunks"`
	RoutedChunks  int             `json:"routed_chunks"`
	SkippedChunks int             `json:"skipped_chunks"`
	FailedOpen    bool            `json:"failed_open"`
	Results       []RoutingResult `json:"results,omitempty"`
}

// ExtractedEntity is one structured ESG fact pulled from a chunk.
// ExtractionText is verbatim source text, never paraphrased.
type ExtractedEntity struct {
	ExtractionClass string            `json:"extraction_class"`
	ExtractionText  string            `json:"extraction_text"`
	Attributes      map[string]string `json:"attributes,omitempty"`
	Pillar          Pillar            `json:"pillar,omitempty"`
	ChunkIndex      int               `json:"chunk_index"`
	RoutedCategory  string            `json:"routed_category,omitempty"`
	RouteScore      float64           `json:"route_score,omitempty"`
	Page            *int              `json:"page"`
	Heading         string            `json:"heading,omitempty"`
}

// EntitiesMethodKind versions the entity-extraction pipeline
const EntitiesMethodKind = "entities/langextract-v1"

// ExtractionSummary aggregates the extraction stage of a run
type ExtractionSummary struct {
	ChunksProcessed int `json:"chunks_processed"`
	ChunksFailed    int `json:"chunks_failed"`
	EntitiesRaw     int `json:"entities_raw"`
	EntitiesKept    int `json:"entities_kept"`
	Grounded        int `json:"grounded"`
}

// EntityExtractionResult is the persisted output of one extraction run
type EntityExtractionResult struct {
	ReportID    string            `json:"report_id"`
	ReportKey   string            `json:"report_key"`
	GeneratedAt time.Time         `json:"generated_at"`
	Method      string            `json:"method"`
	Summary     ExtractionSummary `json:"summary"`
	Routing     RoutingSummary    `json:"routing"`
	Entities    []ExtractedEntity `json:"entities"`
	Meta        map[string]string `json:"meta,omitempty"`
}
