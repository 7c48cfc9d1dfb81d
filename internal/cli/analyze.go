package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/sentinel/internal/pipeline"
)

var (
	outJSON        string
	outMD          string
	analyzeTimeout time.Duration
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Analyze a single contract and generate a risk report",
	Long:  `Analyze reads a contract (.txt, .md, .html, .docx) and:
- Splits it into clauses
- Checks each clause against the Indian Contract Act, 1872
- Compares terms with the fair-terms standard
- Scores every clause on a transparent 0-100 scale
- Optionally asks an LLM for a plain-language explanation

Example:
  sentinel analyze offer.docx
  sentinel analyze offer.txt --json report.json --md report.md
  sentinel analyze offer.txt --llm-provider deepseek`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVar(&outJSON, "json", "", "output JSON path (optional)")
	analyzeCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (optional)")
	analyzeCmd.Flags().DurationVar(&analyzeTimeout, "timeout", 2*time.Minute, "overall analysis timeout")
	addAnalysisFlags(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	path := args[0]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyAnalysisFlags(cmd, cfg)
	logger := newLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, analyzeTimeout)
	defer cancel()

	if verbose {
		fmt.Fprintf(os.Stderr, "Analyzing: %s\n", path)
		fmt.Fprintf(os.Stderr, "Workers: %d\n", cfg.Concurrency.ClauseWorkers)
		fmt.Fprintf(os.Stderr, "Cache: %v\n", cfg.Cache.Enabled)
		fmt.Fprintln(os.Stderr)
	}

	p, err := pipeline.New(cfg, pipeline.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("initialize analyzer: %w", err)
	}
	if cfg.LLM.Provider != "" && !p.AdvisorEnabled() {
		fmt.Fprintf(os.Stderr, "Warning: LLM provider %q unavailable, continuing without AI explanation\n", cfg.LLM.Provider)
	}

	analysis, err := p.AnalyzeFile(ctx, path)
	if err != nil {
		return fmt.Errorf("analyze %s: %w", path, err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Segmented %d clauses (%s)\n", len(analysis.Clauses), analysis.Segmentation)
		fmt.Fprintf(os.Stderr, "✓ Overall risk: %s\n", documentRisk(analysis.Risk))
		if analysis.AI != nil && analysis.AI.Error == "" {
			fmt.Fprintf(os.Stderr, "✓ Generated AI explanation using %s/%s\n", analysis.AI.Provider, analysis.AI.Model)
		}
		fmt.Fprintln(os.Stderr)
	}

	renderer := pipeline.NewRenderer(cfg.Output.IncludeFooter)
	renderer.RenderSummary(os.Stdout, analysis)

	if outJSON != "" {
		if err := renderer.RenderJSON(analysis, outJSON); err != nil {
			return fmt.Errorf("render failed: %w", err)
		}
		fmt.Fprintf(os.Stderr, "✓ JSON report: %s\n", outJSON)
	}
	if outMD != "" {
		if err := renderer.RenderMarkdown(analysis, outMD); err != nil {
			return fmt.Errorf("render failed: %w", err)
		}
		fmt.Fprintf(os.Stderr, "✓ Markdown report: %s\n", outMD)
	}

	return nil
}
