package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/sentinel/internal/extract"
	"github.com/ppiankov/sentinel/internal/model"
	"github.com/ppiankov/sentinel/internal/pipeline"
	"github.com/ppiankov/sentinel/internal/worker"
)

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
	batchRate    float64
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <dir|listfile>",
	Short: "Analyze many contracts in parallel",
	Long:  `Batch analyzes several contracts concurrently:
- A directory is walked for supported files (.txt, .md, .html, .htm, .docx)
- Any other file is read as a list of paths (one per line, # for comments)
- Each document's clauses are analyzed on their own worker pool
- A JSON and a Markdown report are written per document

Example:
  sentinel batch ./contracts
  sentinel batch contracts.txt --concurrency 8 --output-dir ./reports
  sentinel batch ./contracts --llm-provider deepseek --rate 1`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", runtime.NumCPU(), "documents analyzed in parallel")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./sentinel-reports", "output directory for reports")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")
	batchCmd.Flags().Float64Var(&batchRate, "rate", 0, "documents started per second (0 means unlimited)")
	addAnalysisFlags(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	target := args[0]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyAnalysisFlags(cmd, cfg)
	if cmd.Flags().Changed("concurrency") || cfg.Concurrency.Workers <= 0 {
		cfg.Concurrency.Workers = concurrency
	}
	logger := newLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, batchTimeout)
	defer cancel()

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Contract Sentinel Batch Analysis\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Input:        %s\n", target)
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", cfg.Concurrency.Workers)
	fmt.Fprintf(os.Stderr, "  Output dir:   %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "  Timeout:      %v\n", batchTimeout)
	if cfg.LLM.Provider != "" {
		fmt.Fprintf(os.Stderr, "  LLM:          %s\n", cfg.LLM.Provider)
	}
	fmt.Fprintf(os.Stderr, "\n")

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	p, err := pipeline.New(cfg, pipeline.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("initialize analyzer: %w", err)
	}

	processor := worker.NewBatchProcessor(p, cfg.Concurrency.Workers, batchRate, cfg.RateLimiting.BurstSize)

	fmt.Fprintf(os.Stderr, "⚙️  Analyzing documents...\n\n")
	results, err := processor.ProcessTarget(ctx, target, cfg.Server.AllowedExtensions)
	if err != nil {
		return fmt.Errorf("resolve inputs: %w", err)
	}

	renderer := pipeline.NewRenderer(cfg.Output.IncludeFooter)
	successCount := 0
	failureCount := 0

	for _, result := range results {
		if result.Error != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", result.Path, result.Error)
			continue
		}

		base := reportBaseName(result.Index, result.Path)
		jsonPath := filepath.Join(outputDir, base+".json")
		mdPath := filepath.Join(outputDir, base+".md")

		if err := renderer.RenderJSON(result.Analysis, jsonPath); err != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: failed to write JSON: %v\n", result.Path, err)
			continue
		}
		if err := renderer.RenderMarkdown(result.Analysis, mdPath); err != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: failed to write Markdown: %v\n", result.Path, err)
			continue
		}

		successCount++
		fmt.Fprintf(os.Stderr, "✓ %s (%d clauses, risk %s)\n", result.Path, len(result.Analysis.Clauses), documentRisk(result.Analysis.Risk))
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Batch Complete\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:     %d documents\n", len(results))
	fmt.Fprintf(os.Stderr, "  Success:   %d\n", successCount)
	fmt.Fprintf(os.Stderr, "  Failures:  %d\n", failureCount)
	fmt.Fprintf(os.Stderr, "  Output:    %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "\n")

	if failureCount > 0 && successCount == 0 {
		return fmt.Errorf("all %d documents failed", failureCount)
	}
	return nil
}

// reportBaseName derives a collision-free report name from the input path
func reportBaseName(index int, path string) string {
	name := extract.SanitizeFilename(filepath.Base(path))
	name = strings.TrimSuffix(name, filepath.Ext(name))
	name = strings.ReplaceAll(strings.TrimSpace(name), " ", "-")
	if name == "" {
		name = "contract"
	}
	return fmt.Sprintf("%03d-%s", index+1, name)
}

// documentRisk formats the headline document score and level
func documentRisk(r model.DocumentRisk) string {
	return fmt.Sprintf("%.1f (%s)", r.OverallScore, r.RiskLevel)
}
