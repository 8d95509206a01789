package model

import "time"

// ReportMeta identifies the report a run operates on
type ReportMeta struct {
	ID      string `json:"id"`                // Stable report identifier
	Key     string `json:"key"`               // Object-store key of the source document
	Company string `json:"company,omitempty"` // Reporting company name
	Year    int    `json:"year,omitempty"`    // Reporting year
}

// EvidenceBlock is a paragraph- or list-item-sized unit of report text
// tagged with page/heading context. Blocks are ordered and immutable once
// built; page numbers are non-decreasing in source order.
type EvidenceBlock struct {
	Page    int       `json:"page,omitempty"`    // 1-based source page, 0 when unknown
	Heading string    `json:"heading,omitempty"` // Nearest heading above the block
	Kind    BlockKind `json:"kind"`
	Text    string    `json:"text"`
}

// BlockKind classifies an evidence block
type BlockKind string

const (
	BlockParagraph BlockKind = "paragraph"
	BlockListItem  BlockKind = "list"
)

// EvidenceQuote is a verbatim excerpt supporting a detected feature.
// Quote text is always substring-derived from the block corpus.
type EvidenceQuote struct {
	Text    string `json:"text"`
	Page    *int   `json:"page"`              // nil when the source page is unknown
	Heading string `json:"heading,omitempty"`
}

// FeatureResult is the outcome of one detector over the block corpus
type FeatureResult struct {
	Key          string          `json:"key"`
	Found        bool            `json:"found"`
	Occurrences  int             `json:"occurrences"`
	PagesTouched int             `json:"pages_touched"`
	Quotes       []EvidenceQuote `json:"quotes,omitempty"`
}

// FeatureDepth summarizes how deep a feature runs through the document
type FeatureDepth struct {
	Occurrences int `json:"occurrences"`
	Pages       int `json:"pages"`
}

// Subscores are the four 0-100 disclosure-quality dimensions
type Subscores struct {
	Completeness int `json:"completeness"`
	Consistency  int `json:"consistency"`
	Assurance    int `json:"assurance"`
	Transparency int `json:"transparency"`
}

// Band buckets an overall score
type Band string

const (
	BandHigh   Band = "high"
	BandMedium Band = "medium"
	BandLow    Band = "low"
)

// BandForScore derives the band from a 0-100 score
func BandForScore(score int) Band {
	switch {
	case score >= 75:
		return BandHigh
	case score >= 50:
		return BandMedium
	default:
		return BandLow
	}
}

// QuantitativeProfile captures corpus-level statistics about how numeric
// the report is. Diagnostic only, never part of the score formula.
type QuantitativeProfile struct {
	PercentMentions int     `json:"percent_mentions"`
	YearMentions    int     `json:"year_mentions"`
	UnitMentions    int     `json:"unit_mentions"`
	TableRows       int     `json:"table_rows"`
	NumericDensity  float64 `json:"numeric_density"` // digits per 1000 chars
}

// Method records how a persisted result was produced so stale cached
// payloads can be detected and recomputed.
type Method struct {
	Kind            string  `json:"kind"`
	Weights         Weights `json:"weights"`
	RefinedFeatures int     `json:"refined_features"`
}

// Weights are the fixed subscore weights of the overall score
type Weights struct {
	Completeness float64 `json:"completeness"`
	Consistency  float64 `json:"consistency"`
	Assurance    float64 `json:"assurance"`
	Transparency float64 `json:"transparency"`
}

// DQMethodKind versions the disclosure-quality scoring logic. Bump when
// detectors or the score formula change so cached results get recomputed.
const DQMethodKind = "dq/heuristic-v2"

// DQVersion is the persisted schema version of DisclosureQualityResult
const DQVersion = 2

// DisclosureQualityResult is the full scored output for one report.
// Re-derivable from (text, metadata) except the AI-refined quote text,
// which is a strictly additive overlay.
type DisclosureQualityResult struct {
	Version         int                        `json:"version"`
	GeneratedAt     time.Time                  `json:"generated_at"`
	Report          ReportMeta                 `json:"report"`
	Score           int                        `json:"score"`
	Band            Band                       `json:"band"`
	Subscores       Subscores                  `json:"subscores"`
	Features        map[string]bool            `json:"features"`
	FeatureDepth    map[string]FeatureDepth    `json:"featureDepth"`
	EvidenceQuotes  map[string][]EvidenceQuote `json:"evidenceQuotes"`
	Recommendations []string                   `json:"recommendations"`
	Quantitative    QuantitativeProfile        `json:"quantitative_profile"`
	Method          Method                     `json:"method"`
	Stale           bool                       `json:"stale,omitempty"` // Served from an outdated cache entry
}
