package cli

import (
	"github.com/spf13/cobra"

	"github.com/ppiankov/sentinel/internal/model"
)

// Analysis flags shared by analyze and batch
var (
	rulesPath   string
	fairPath    string
	lawsPath    string
	noCache     bool
	noFooter    bool
	llmEnabled  bool
	llmProvider string
	llmModel    string
	workers     int
)

func addAnalysisFlags(cmd *cobra.Command) {
	// Reference data
	cmd.Flags().StringVar(&rulesPath, "rules", "", "rule set YAML (default: built-in rules)")
	cmd.Flags().StringVar(&fairPath, "fair", "", "fair-terms standard JSON (default: built-in standard)")
	cmd.Flags().StringVar(&lawsPath, "laws", "", "law catalog JSON (default: built-in catalog)")

	// Execution
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the analysis cache")
	cmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")
	cmd.Flags().IntVar(&workers, "workers", 0, "clauses analyzed in parallel (default: number of CPUs)")

	// LLM
	cmd.Flags().BoolVar(&llmEnabled, "llm", false, "enable the AI risk explanation")
	cmd.Flags().StringVar(&llmProvider, "llm-provider", "", "LLM provider (openai, deepseek, ollama)")
	cmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model name (default depends on provider)")
}

// applyAnalysisFlags overrides cfg with the flags set on cmd
func applyAnalysisFlags(cmd *cobra.Command, cfg *model.Config) {
	flags := cmd.Flags()

	if flags.Changed("rules") {
		cfg.Analysis.RulesPath = rulesPath
	}
	if flags.Changed("fair") {
		cfg.Analysis.FairStandardPath = fairPath
	}
	if flags.Changed("laws") {
		cfg.Analysis.LawsPath = lawsPath
	}
	if noCache {
		cfg.Cache.Enabled = false
	}
	if noFooter {
		cfg.Output.IncludeFooter = false
	}
	if workers > 0 {
		cfg.Concurrency.ClauseWorkers = workers
	}
	if verbose {
		cfg.Output.Verbose = true
	}

	// --llm-provider implies --llm
	if flags.Changed("llm-provider") {
		cfg.LLM.Provider = llmProvider
	} else if llmEnabled && cfg.LLM.Provider == "" {
		cfg.LLM.Provider = "openai"
	}
	if flags.Changed("llm-model") {
		cfg.LLM.Model = llmModel
	}
}
