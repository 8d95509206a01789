package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/NikhilGogu/sustainability-signals/internal/model"
)

// Renderer writes results to files for human and machine consumption
type Renderer struct{}

// NewRenderer creates a renderer
func NewRenderer() *Renderer {
	return &Renderer{}
}

// RenderJSON writes any result as indented JSON
func (r *Renderer) RenderJSON(v any, path string) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// RenderMarkdown writes a disclosure-quality result as a readable summary
func (r *Renderer) RenderMarkdown(result *model.DisclosureQualityResult, path string) error {
	var b strings.Builder

	title := result.Report.Company
	if title == "" {
		title = result.Report.ID
	}
	fmt.Fprintf(&b, "# Disclosure Quality: %s\n\n", title)
	if result.Report.Year > 0 {
		fmt.Fprintf(&b, "Reporting year: %d\n\n", result.Report.Year)
	}
	fmt.Fprintf(&b, "**Score: %d/100 (%s)**\n\n", result.Score, result.Band)
	if result.Stale {
		b.WriteString("> Served from an outdated stored result; source text is no longer available for recomputation.\n\n")
	}

	b.WriteString("## Subscores\n\n")
	fmt.Fprintf(&b, "| Dimension | Score |\n|---|---|\n")
	fmt.Fprintf(&b, "| Completeness | %d |\n", result.Subscores.Completeness)
	fmt.Fprintf(&b, "| Consistency | %d |\n", result.Subscores.Consistency)
	fmt.Fprintf(&b, "| Assurance | %d |\n", result.Subscores.Assurance)
	fmt.Fprintf(&b, "| Transparency | %d |\n\n", result.Subscores.Transparency)

	if len(result.Recommendations) > 0 {
		b.WriteString("## Recommendations\n\n")
		for _, rec := range result.Recommendations {
			fmt.Fprintf(&b, "- %s\n", rec)
		}
		b.WriteString("\n")
	}

	var foundKeys []string
	for key, ok := range result.Features {
		if ok {
			foundKeys = append(foundKeys, key)
		}
	}
	sort.Strings(foundKeys)
	fmt.Fprintf(&b, "## Detected features (%d)\n\n", len(foundKeys))
	for _, key := range foundKeys {
		d := result.FeatureDepth[key]
		fmt.Fprintf(&b, "- `%s` (%d occurrences across %d pages)\n", key, d.Occurrences, d.Pages)
	}
	b.WriteString("\n")

	if len(result.EvidenceQuotes) > 0 {
		b.WriteString("## Evidence\n\n")
		var quoteKeys []string
		for key := range result.EvidenceQuotes {
			quoteKeys = append(quoteKeys, key)
		}
		sort.Strings(quoteKeys)
		for _, key := range quoteKeys {
			for _, q := range result.EvidenceQuotes[key] {
				loc := "page unknown"
				if q.Page != nil {
					loc = fmt.Sprintf("page %d", *q.Page)
				}
				fmt.Fprintf(&b, "- **%s** (%s): %q\n", key, loc, q.Text)
			}
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "---\nMethod: %s | Generated: %s\n", result.Method.Kind, result.GeneratedAt.Format("2006-01-02 15:04:05 UTC"))

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
