package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/NikhilGogu/sustainability-signals/internal/pipeline"
)

var (
	extractJSON     string
	extractTimeout  time.Duration
	classifyURL     string
	classifyKey     string
	extractProvider string
	extractModel    string
)

// extractCmd represents the extract command
var extractCmd = &cobra.Command{
	Use:   "extract <file>",
	Short: "Extract structured ESG entities from a report",
	Long: `Extract runs the entity pipeline over one report's text:
- Split the text into overlapping chunks
- Route chunks through the ESG topic classifier (skipping off-topic
  text; routing fails open if the classifier is unreachable)
- Prompt an LLM to extract verbatim ESG entities per routed chunk
- Ground every entity back to its source page and heading

An LLM provider is required. The classifier is optional but cuts LLM
spend considerably on long reports.

Example:
  signals extract acme-2024.md --llm-provider openai
  signals extract acme-2024.md --llm-provider ollama --llm-model llama3.1:8b
  signals extract acme-2024.md --classify-url http://localhost:8000/classify`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().StringVar(&extractJSON, "json", "", "output JSON path (default: stdout)")
	extractCmd.Flags().DurationVar(&extractTimeout, "timeout", 15*time.Minute, "overall run timeout")

	extractCmd.Flags().StringVar(&reportID, "report-id", "", "report identifier (default: input filename)")
	extractCmd.Flags().BoolVar(&noStore, "no-store", false, "disable artifact persistence")
	extractCmd.Flags().StringVar(&convertURL, "convert-url", "", "PDF conversion service URL")

	extractCmd.Flags().StringVar(&classifyURL, "classify-url", "", "ESG topic classifier URL")
	extractCmd.Flags().StringVar(&classifyKey, "classify-key", "", "classifier API key (or SIGNALS_CLASSIFY_API_KEY)")

	extractCmd.Flags().StringVar(&extractProvider, "llm-provider", "", "LLM provider (openai, anthropic, ollama)")
	extractCmd.Flags().StringVar(&extractModel, "llm-model", "", "LLM model name")
}

func runExtract(cmd *cobra.Command, args []string) error {
	path := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), extractTimeout)
	defer cancel()

	cfg := loadConfig()
	cfg.Store.Enabled = cfg.Store.Enabled && !noStore
	if convertURL != "" {
		cfg.Convert.URL = convertURL
	}
	if classifyURL != "" {
		cfg.Classify.URL = classifyURL
	}
	if classifyKey != "" {
		cfg.Classify.APIKey = classifyKey
	}
	if extractProvider != "" {
		cfg.LLM.Provider = extractProvider
	}
	if extractModel != "" {
		cfg.LLM.Model = extractModel
	}
	if cfg.LLM.Provider == "" {
		return fmt.Errorf("extraction needs an LLM provider (--llm-provider or config)")
	}
	if err := resolveLLMEnv(cfg); err != nil {
		return err
	}

	meta := metaForInput(path)
	p := pipeline.NewPipeline(cfg)

	text, err := sourceText(ctx, p, path, meta)
	if err != nil {
		return err
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Extracting: %s (%d characters)\n", meta.ID, len(text))
		if cfg.Classify.URL == "" {
			fmt.Fprintln(os.Stderr, "No classifier configured; every chunk goes to the LLM")
		}
	}

	result, err := p.ExtractEntities(ctx, text, meta)
	if err != nil {
		return fmt.Errorf("extract failed: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Routed %d/%d chunks\n", result.Routing.RoutedChunks, result.Routing.TotalChunks)
		if result.Routing.FailedOpen {
			fmt.Fprintln(os.Stderr, "! Classifier unavailable, routing failed open")
		}
		fmt.Fprintf(os.Stderr, "✓ Extracted %d entities (%d grounded to pages)\n", result.Summary.EntitiesKept, result.Summary.Grounded)
		if result.Summary.ChunksFailed > 0 {
			fmt.Fprintf(os.Stderr, "! %d chunks failed extraction\n", result.Summary.ChunksFailed)
		}
	}

	if extractJSON == "" {
		out, err := renderJSONStdout(result)
		if err != nil {
			return err
		}
		fmt.Println(out)
		return nil
	}
	if err := pipeline.NewRenderer().RenderJSON(result, extractJSON); err != nil {
		return fmt.Errorf("render JSON: %w", err)
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Wrote JSON: %s\n", extractJSON)
	}
	return nil
}
