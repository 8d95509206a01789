package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/NikhilGogu/sustainability-signals/internal/model"
	"github.com/NikhilGogu/sustainability-signals/internal/pipeline"
	"github.com/NikhilGogu/sustainability-signals/internal/worker"
)

var (
	batchWorkers int
	outputDir    string
	batchTimeout time.Duration
	batchRefine  bool
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <dir>",
	Short: "Score every report in a directory in parallel",
	Long: `Batch scores multiple reports concurrently:
- Discover report text files (.md, .txt) under the input directory
- Score them in parallel with a bounded worker pool
- Write one JSON and one Markdown report per input

Example:
  signals batch ./reports
  signals batch ./reports --workers 6 --output-dir ./scored
  signals batch ./reports --refine --llm-provider openai`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&batchWorkers, "workers", 0, "number of concurrent workers (default: config)")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./signals-reports", "output directory for results")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 30*time.Minute, "total timeout for batch processing")
	batchCmd.Flags().BoolVar(&noStore, "no-store", false, "disable artifact persistence")

	batchCmd.Flags().BoolVar(&batchRefine, "refine", false, "tighten evidence quotes with an LLM after scoring")
	batchCmd.Flags().StringVar(&llmProvider, "llm-provider", "", "LLM provider (openai, anthropic, ollama)")
	batchCmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model name")
}

type batchResult struct {
	path   string
	result *model.DisclosureQualityResult
	err    error
}

func runBatch(cmd *cobra.Command, args []string) error {
	dir := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	cfg := loadConfig()
	cfg.Store.Enabled = cfg.Store.Enabled && !noStore
	if batchWorkers > 0 {
		cfg.Concurrency.BatchWorkers = batchWorkers
	}
	if batchRefine {
		if llmProvider != "" {
			cfg.LLM.Provider = llmProvider
		}
		if llmModel != "" {
			cfg.LLM.Model = llmModel
		}
		if cfg.LLM.Provider == "" {
			return fmt.Errorf("--refine needs an LLM provider (--llm-provider or config)")
		}
		if err := resolveLLMEnv(cfg); err != nil {
			return err
		}
	} else {
		cfg.LLM.Provider = ""
	}

	inputs, err := discoverReports(dir)
	if err != nil {
		return err
	}
	if len(inputs) == 0 {
		return fmt.Errorf("no report files (.md, .txt) found under %s", dir)
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Signals Batch Scoring\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Input dir:    %s (%d reports)\n", dir, len(inputs))
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", cfg.Concurrency.BatchWorkers)
	fmt.Fprintf(os.Stderr, "  Output dir:   %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "\n")

	p := pipeline.NewPipeline(cfg)
	renderer := pipeline.NewRenderer()

	results := make([]batchResult, len(inputs))
	_ = worker.ForEachIndex(ctx, len(inputs), cfg.Concurrency.BatchWorkers, func(ctx context.Context, i int) error {
		path := inputs[i]
		results[i] = scoreOne(ctx, p, path)
		return nil // one bad report must not stop the batch
	})

	successCount := 0
	failureCount := 0
	for _, r := range results {
		if r.err != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", r.path, r.err)
			continue
		}
		successCount++

		slug := strings.TrimSuffix(filepath.Base(r.path), filepath.Ext(r.path))
		jsonPath := filepath.Join(outputDir, slug+".json")
		mdPath := filepath.Join(outputDir, slug+".md")
		if err := renderer.RenderJSON(r.result, jsonPath); err != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: failed to write JSON: %v\n", r.path, err)
			continue
		}
		if err := renderer.RenderMarkdown(r.result, mdPath); err != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: failed to write Markdown: %v\n", r.path, err)
			continue
		}
		fmt.Fprintf(os.Stderr, "✓ %s (score: %d/100, %s)\n", slug, r.result.Score, r.result.Band)
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Batch Complete\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:     %d reports\n", len(inputs))
	fmt.Fprintf(os.Stderr, "  Success:   %d\n", successCount)
	fmt.Fprintf(os.Stderr, "  Failures:  %d\n", failureCount)
	fmt.Fprintf(os.Stderr, "  Output:    %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "\n")

	if failureCount > 0 && successCount == 0 {
		return fmt.Errorf("all %d reports failed", failureCount)
	}
	return nil
}

func scoreOne(ctx context.Context, p *pipeline.Pipeline, path string) batchResult {
	data, err := os.ReadFile(path)
	if err != nil {
		return batchResult{path: path, err: err}
	}
	base := filepath.Base(path)
	meta := model.ReportMeta{
		ID:  strings.TrimSuffix(base, filepath.Ext(base)),
		Key: path,
	}
	result, err := p.ComputeDisclosureQuality(ctx, string(data), meta)
	if err != nil {
		return batchResult{path: path, err: err}
	}
	p.RefineEvidenceQuotes(ctx, result)
	return batchResult{path: path, result: result}
}

// discoverReports lists report text files directly under dir, sorted
func discoverReports(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read input directory: %w", err)
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".md", ".txt":
			out = append(out, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(out)
	return out, nil
}
