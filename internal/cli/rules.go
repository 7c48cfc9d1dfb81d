package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/sentinel/internal/law"
	"github.com/ppiankov/sentinel/internal/model"
	"github.com/ppiankov/sentinel/internal/rules"
)

// rulesCmd represents the rules command
var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Inspect the rule set and reference data",
}

var rulesShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective rule set as YAML",
	Long:  `Print the rule set used for scoring, the fair-terms standard and the
number of law sections in the catalog. Pass --rules, --fair or --laws to
inspect custom files instead of the built-in defaults.`,
	RunE: runRulesShow,
}

func init() {
	rootCmd.AddCommand(rulesCmd)
	rulesCmd.AddCommand(rulesShowCmd)

	rulesShowCmd.Flags().StringVar(&rulesPath, "rules", "", "rule set YAML (default: built-in rules)")
	rulesShowCmd.Flags().StringVar(&fairPath, "fair", "", "fair-terms standard JSON (default: built-in standard)")
	rulesShowCmd.Flags().StringVar(&lawsPath, "laws", "", "law catalog JSON (default: built-in catalog)")
}

func runRulesShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyAnalysisFlags(cmd, cfg)

	rs, err := rules.Load(cfg.Analysis.RulesPath)
	if err != nil {
		return fmt.Errorf("load rules: %w", err)
	}

	std, err := rules.LoadFairStandard(cfg.Analysis.FairStandardPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v (using default fair standard)\n", err)
	}
	catalog, err := law.LoadCatalog(cfg.Analysis.LawsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v (using default law catalog)\n", err)
	}

	out, err := yaml.Marshal(struct {
		RuleSet      *rules.RuleSet         `yaml:"rules"`
		FairStandard model.FairnessStandard `yaml:"fair_standard"`
		LawSections  int                    `yaml:"law_sections"`
	}{rs, std, catalog.Len()})
	if err != nil {
		return fmt.Errorf("marshal rules: %w", err)
	}

	fmt.Println("═══════════════════════════════════════════════════════════")
	fmt.Printf("  Rule Set %s\n", rs.Version)
	fmt.Println("═══════════════════════════════════════════════════════════")
	fmt.Println()
	fmt.Print(string(out))
	return nil
}

func rulesVersion() string {
	return rules.Version
}
