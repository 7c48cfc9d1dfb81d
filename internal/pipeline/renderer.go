package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ppiankov/sentinel/internal/explain"
	"github.com/ppiankov/sentinel/internal/model"
)

const footer = "_Generated by Contract Sentinel. This is a rule-based risk analysis, not legal advice._\n"

// Renderer writes analyses as JSON, Markdown and a terminal summary
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a renderer
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// RenderJSON writes the analysis as indented JSON to path
func (r *Renderer) RenderJSON(a *model.DocumentAnalysis, path string) error {
	data, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal analysis: %w", err)
	}
	return writeFile(path, append(data, '\n'))
}

// RenderMarkdown writes a human-readable report to path
func (r *Renderer) RenderMarkdown(a *model.DocumentAnalysis, path string) error {
	var b strings.Builder
	r.WriteMarkdown(&b, a)
	return writeFile(path, []byte(b.String()))
}

// WriteMarkdown renders the report to w
func (r *Renderer) WriteMarkdown(w io.Writer, a *model.DocumentAnalysis) {
	title := a.Filename
	if title == "" {
		title = a.ID
	}
	fmt.Fprintf(w, "# Contract Risk Report: %s\n\n", title)
	fmt.Fprintf(w, "**Overall risk:** %.2f / 100 (%s)\n\n", a.Risk.OverallScore, a.Risk.RiskLevel.Badge())
	fmt.Fprintf(w, "- Clauses analyzed: %d\n", a.Risk.TotalClauses)
	fmt.Fprintf(w, "- Critical: %d, High: %d, Medium: %d, Low: %d\n",
		a.Risk.CriticalCount, a.Risk.HighCount, a.Risk.MediumCount, a.Risk.LowCount)
	fmt.Fprintf(w, "- Rules: %s, segmentation: %s\n", a.RuleSetVersion, a.Segmentation)
	fmt.Fprintf(w, "- Analyzed: %s\n\n", a.AnalyzedAt.Format("2006-01-02 15:04 MST"))

	fmt.Fprintf(w, "## Summary\n\n%s\n\n", a.Summary.Overview)

	if len(a.Summary.TopRiskyClauses) > 0 {
		fmt.Fprintf(w, "## Top Risky Clauses\n\n")
		fmt.Fprintf(w, "| Clause | Score | Level | Reason |\n|---|---|---|---|\n")
		for _, ref := range a.Summary.TopRiskyClauses {
			fmt.Fprintf(w, "| %d | %.2f | %s | %s |\n", ref.ClauseID, ref.Score, ref.Level, escapeCell(ref.Reason))
		}
		fmt.Fprintln(w)
	}

	if ai := a.AI; ai != nil && ai.Enabled {
		fmt.Fprintf(w, "## AI Risk Explanation\n\n")
		if ai.Error != "" {
			fmt.Fprintf(w, "_%s_\n\n", ai.Error)
		} else {
			fmt.Fprintf(w, "%s\n\n", ai.OverallExplanation)
			writeList(w, "Key risk factors", ai.KeyRiskFactors)
			writeList(w, "General precautions", ai.GeneralPrecautions)
			if ai.ConfidenceNote != "" {
				fmt.Fprintf(w, "_%s (%s/%s)_\n\n", ai.ConfidenceNote, ai.Provider, ai.Model)
			}
		}
	}

	fmt.Fprintf(w, "## Clauses\n\n")
	for _, c := range a.Clauses {
		fmt.Fprintf(w, "### Clause %d: %.2f (%s)\n\n", c.Index, c.Risk.Score, c.Risk.Level)
		fmt.Fprintf(w, "> %s\n\n", c.Text)
		if c.RelevantLaw != nil {
			fmt.Fprintf(w, "Relevant law: %s, %s (%s)\n\n", c.RelevantLaw.Section, c.RelevantLaw.Act, c.RelevantLaw.Title)
		}
		for _, v := range c.LegalCheck.Violations {
			fmt.Fprintf(w, "- %s **%s** (%s): %s\n", explain.SeverityIndicator(v.Severity), v.Kind, v.Severity, v.Description)
		}
		for _, d := range c.Deviation.Deviations {
			fmt.Fprintf(w, "- %s deviation **%s**: %s (actual %s, fair %s)\n",
				explain.SeverityIndicator(d.Severity), d.Kind, d.Description, d.ActualValue, d.FairStandardValue)
		}
		if len(c.LegalCheck.Violations) > 0 || len(c.Deviation.Deviations) > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s\n\n", c.Explanation)
	}

	if r.includeFooter {
		fmt.Fprintf(w, "---\n\n%s", footer)
	}
}

// RenderSummary prints a short overview for the terminal
func (r *Renderer) RenderSummary(w io.Writer, a *model.DocumentAnalysis) {
	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(w, "  %s\n", a.Filename)
	fmt.Fprintf(w, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "  Overall risk:  %.2f / 100  %s\n", a.Risk.OverallScore, a.Risk.RiskLevel.Badge())
	fmt.Fprintf(w, "  Clauses:       %d (critical %d, high %d, medium %d, low %d)\n",
		a.Risk.TotalClauses, a.Risk.CriticalCount, a.Risk.HighCount, a.Risk.MediumCount, a.Risk.LowCount)
	fmt.Fprintf(w, "  Violations:    %d\n", a.Summary.TotalViolations)
	fmt.Fprintf(w, "  Deviations:    %d\n", a.Summary.TotalDeviations)
	fmt.Fprintf(w, "\n  %s\n", a.Summary.Overview)

	if len(a.Summary.TopRiskyClauses) > 0 {
		fmt.Fprintf(w, "\n  Top risky clauses:\n")
		for _, ref := range a.Summary.TopRiskyClauses {
			fmt.Fprintf(w, "    #%-3d %6.2f  %-8s %s\n", ref.ClauseID, ref.Score, ref.Level, ref.Reason)
		}
	}
	if a.AI != nil && a.AI.Error != "" {
		fmt.Fprintf(w, "\n  Warning: %s\n", a.AI.Error)
	}
	fmt.Fprintf(w, "\n")
}

func writeList(w io.Writer, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(w, "**%s:**\n\n", title)
	for _, item := range items {
		fmt.Fprintf(w, "- %s\n", item)
	}
	fmt.Fprintln(w)
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
