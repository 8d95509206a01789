package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/NikhilGogu/sustainability-signals/internal/model"
	"github.com/NikhilGogu/sustainability-signals/internal/pipeline"
)

var (
	outJSON     string
	outMD       string
	timeout     time.Duration
	reportID    string
	company     string
	year        int
	noStore     bool
	refine      bool
	llmProvider string
	llmModel    string
	convertURL  string
)

// scoreCmd represents the score command
var scoreCmd = &cobra.Command{
	Use:   "score <file>",
	Short: "Score a sustainability report's disclosure quality",
	Long: `Score analyzes one report's page-tagged text to:
- Detect disclosure features across frameworks, emissions, targets,
  environment, social, governance, and assurance
- Compute four subscores and a weighted 0-100 overall score
- Collect verbatim evidence quotes with page grounding
- Suggest the highest-impact disclosure improvements

The input is the markdown text produced by PDF conversion. PDF input
works too when a conversion service is configured.

Example:
  signals score acme-2024.md
  signals score acme-2024.md --json report.json --md report.md
  signals score acme-2024.pdf --convert-url http://localhost:8080/convert
  signals score acme-2024.md --refine --llm-provider openai`,
	Args: cobra.ExactArgs(1),
	RunE: runScore,
}

func init() {
	rootCmd.AddCommand(scoreCmd)

	scoreCmd.Flags().StringVar(&outJSON, "json", "", "output JSON path (default: stdout)")
	scoreCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (optional)")
	scoreCmd.Flags().DurationVar(&timeout, "timeout", 5*time.Minute, "overall run timeout")

	scoreCmd.Flags().StringVar(&reportID, "report-id", "", "report identifier (default: input filename)")
	scoreCmd.Flags().StringVar(&company, "company", "", "reporting company name")
	scoreCmd.Flags().IntVar(&year, "year", 0, "reporting year")

	scoreCmd.Flags().BoolVar(&noStore, "no-store", false, "disable artifact persistence")
	scoreCmd.Flags().StringVar(&convertURL, "convert-url", "", "PDF conversion service URL")

	scoreCmd.Flags().BoolVar(&refine, "refine", false, "tighten evidence quotes with an LLM after scoring")
	scoreCmd.Flags().StringVar(&llmProvider, "llm-provider", "", "LLM provider (openai, anthropic, ollama)")
	scoreCmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model name")
}

func runScore(cmd *cobra.Command, args []string) error {
	path := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cfg := loadConfig()
	cfg.Store.Enabled = cfg.Store.Enabled && !noStore
	if convertURL != "" {
		cfg.Convert.URL = convertURL
	}
	if refine {
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
		// Scoring alone never needs a provider.
		cfg.LLM.Provider = ""
	}

	meta := metaForInput(path)
	p := pipeline.NewPipeline(cfg)

	text, err := sourceText(ctx, p, path, meta)
	if err != nil {
		return err
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Scoring: %s (%d characters)\n", meta.ID, len(text))
	}

	result, err := p.ComputeDisclosureQuality(ctx, text, meta)
	if err != nil {
		if pipeline.IsInvalidInput(err) {
			return fmt.Errorf("input too short to score: %w", err)
		}
		return fmt.Errorf("score failed: %w", err)
	}

	if refine {
		n := p.RefineEvidenceQuotes(ctx, result)
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Refined quotes for %d features\n", n)
		}
	}

	if verbose {
		found := 0
		for _, ok := range result.Features {
			if ok {
				found++
			}
		}
		fmt.Fprintf(os.Stderr, "✓ Detected %d features\n", found)
		fmt.Fprintf(os.Stderr, "✓ Score: %d/100 (%s)\n", result.Score, result.Band)
	}

	return writeResult(p, result, outJSON, outMD)
}

// metaForInput derives report metadata from flags and the input path
func metaForInput(path string) model.ReportMeta {
	id := reportID
	if id == "" {
		base := filepath.Base(path)
		id = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return model.ReportMeta{
		ID:      id,
		Key:     path,
		Company: company,
		Year:    year,
	}
}

// sourceText loads the report text: PDFs go through the conversion
// service, anything else is read as already-converted text.
func sourceText(ctx context.Context, p *pipeline.Pipeline, path string, meta model.ReportMeta) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		text, err := p.ConvertDocument(ctx, data, filepath.Base(path), meta)
		if err != nil {
			return "", fmt.Errorf("convert input: %w", err)
		}
		return text, nil
	}
	return string(data), nil
}

func renderJSONStdout(v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal result: %w", err)
	}
	return string(data), nil
}

// writeResult renders to the requested outputs, defaulting to stdout
func writeResult(p *pipeline.Pipeline, result *model.DisclosureQualityResult, jsonPath, mdPath string) error {
	renderer := pipeline.NewRenderer()

	if jsonPath == "" && mdPath == "" {
		data, err := renderJSONStdout(result)
		if err != nil {
			return err
		}
		fmt.Println(data)
		return nil
	}
	if jsonPath != "" {
		if err := renderer.RenderJSON(result, jsonPath); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote JSON: %s\n", jsonPath)
		}
	}
	if mdPath != "" {
		if err := renderer.RenderMarkdown(result, mdPath); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote Markdown: %s\n", mdPath)
		}
	}
	return nil
}
