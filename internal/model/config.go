package model

import "time"

// Config holds all tunables for a run. Defaults come from DefaultConfig;
// the CLI layers viper/flag overrides on top.
type Config struct {
	Classify    ClassifyConfig    `yaml:"classify"`
	LLM         LLMConfig         `yaml:"llm"`
	Convert     ConvertConfig     `yaml:"convert"`
	Chunk       ChunkConfig       `yaml:"chunk"`
	Extract     ExtractConfig     `yaml:"extract"`
	Quotes      QuoteConfig       `yaml:"quotes"`
	Store       StoreConfig       `yaml:"store"`
	Concurrency ConcurrencyConfig `yaml:"concurrency"`
	Output      OutputConfig      `yaml:"output"`
}

// ClassifyConfig configures the external classification service
type ClassifyConfig struct {
	URL            string        `yaml:"url"`
	APIKey         string        `yaml:"api_key"`
	BatchSize      int           `yaml:"batch_size"`
	Concurrency    int           `yaml:"concurrency"`
	MinConfidence  float64       `yaml:"min_confidence"`
	Timeout        time.Duration `yaml:"timeout"`
	RequestsPerSec float64       `yaml:"requests_per_sec"`
}

// LLMConfig configures the text-generation collaborator
type LLMConfig struct {
	Provider  string        `yaml:"provider"` // openai, ollama, "" (disabled)
	Model     string        `yaml:"model"`
	APIKey    string        `yaml:"api_key"`
	BaseURL   string        `yaml:"base_url"`
	Timeout   time.Duration `yaml:"timeout"`
	MaxTokens int           `yaml:"max_tokens"`
}

// ConvertConfig configures the PDF-to-text conversion service
type ConvertConfig struct {
	URL     string        `yaml:"url"`
	APIKey  string        `yaml:"api_key"`
	Timeout time.Duration `yaml:"timeout"`
}

// ChunkConfig bounds the chunker
type ChunkConfig struct {
	MaxChars int `yaml:"max_chars"`
	Overlap  int `yaml:"overlap"`
}

// ExtractConfig bounds the entity extractor
type ExtractConfig struct {
	Concurrency int `yaml:"concurrency"`
	MaxPerChunk int `yaml:"max_per_chunk"`
	MaxTotal    int `yaml:"max_total"`
}

// QuoteConfig bounds evidence quote selection and refinement
type QuoteConfig struct {
	MaxPerFeature  int `yaml:"max_per_feature"`
	MaxChars       int `yaml:"max_chars"`
	RefineFeatures int `yaml:"refine_features"`
	RefineChars    int `yaml:"refine_chars"`
}

// StoreConfig configures the result store
type StoreConfig struct {
	Dir       string        `yaml:"dir"`
	Enabled   bool          `yaml:"enabled"`
	MemoryTTL time.Duration `yaml:"memory_ttl"`
}

// ConcurrencyConfig bounds batch-mode parallelism
type ConcurrencyConfig struct {
	BatchWorkers int `yaml:"batch_workers"`
}

// OutputConfig controls CLI output behavior
type OutputConfig struct {
	Verbose bool `yaml:"verbose"`
}

// DefaultConfig returns sensible defaults for every section
func DefaultConfig() *Config {
	return &Config{
		Classify: ClassifyConfig{
			BatchSize:      16,
			Concurrency:    2,
			MinConfidence:  0.5,
			Timeout:        30 * time.Second,
			RequestsPerSec: 4,
		},
		LLM: LLMConfig{
			Timeout:   60 * time.Second,
			MaxTokens: 2000,
		},
		Convert: ConvertConfig{
			Timeout: 2 * time.Minute,
		},
		Chunk: ChunkConfig{
			MaxChars: 6000,
			Overlap:  200,
		},
		Extract: ExtractConfig{
			Concurrency: 3,
			MaxPerChunk: 20,
			MaxTotal:    400,
		},
		Quotes: QuoteConfig{
			MaxPerFeature:  3,
			MaxChars:       1400,
			RefineFeatures: 20,
			RefineChars:    600,
		},
		Store: StoreConfig{
			Dir:       "signals_artifacts",
			Enabled:   true,
			MemoryTTL: 15 * time.Minute,
		},
		Concurrency: ConcurrencyConfig{
			BatchWorkers: 3,
		},
		Output: OutputConfig{},
	}
}
