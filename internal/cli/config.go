package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/sentinel/internal/model"
)

var envKeyReplacer = strings.NewReplacer(".", "_")

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage Contract Sentinel configuration",
	Long:  `Manage Contract Sentinel configuration files and settings.

Configuration hierarchy (highest to lowest priority):
1. CLI flags
2. Environment variables (SENTINEL_*, e.g. SENTINEL_LLM_PROVIDER)
3. Config file (~/.sentinel/config.yaml)
4. Defaults`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  `Display the effective configuration after merging defaults, config file and environment.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		if configFile := viper.ConfigFileUsed(); configFile != "" {
			fmt.Fprintf(os.Stderr, "Configuration file: %s\n\n", configFile)
		} else {
			fmt.Fprintf(os.Stderr, "No configuration file found (using defaults)\n\n")
		}

		// Never echo secrets
		if cfg.LLM.APIKey != "" {
			cfg.LLM.APIKey = "********"
		}

		yamlData, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("error marshaling config: %w", err)
		}

		fmt.Println("═══════════════════════════════════════════════════════════")
		fmt.Println("  Current Configuration")
		fmt.Println("═══════════════════════════════════════════════════════════")
		fmt.Println()
		fmt.Println(string(yamlData))
		fmt.Println("═══════════════════════════════════════════════════════════")
		fmt.Println()
		fmt.Println("Configuration hierarchy (highest to lowest priority):")
		fmt.Println("  1. CLI flags")
		fmt.Println("  2. Environment variables (SENTINEL_*, OPENAI_API_KEY, DEEPSEEK_API_KEY)")
		fmt.Println("  3. Config file (~/.sentinel/config.yaml)")
		fmt.Println("  4. Defaults")
		fmt.Println()

		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize default configuration file",
	Long:  `Create a default configuration file at ~/.sentinel/config.yaml with all available options.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("error finding home directory: %w", err)
		}

		configPath := filepath.Join(home, ".sentinel", "config.yaml")
		if _, err := os.Stat(configPath); err == nil {
			return fmt.Errorf("config file already exists: %s\nUse 'sentinel config show' to view it, or delete it first to recreate", configPath)
		}

		if err := writeDefaultConfig(configPath); err != nil {
			return err
		}

		fmt.Printf("✓ Created default configuration: %s\n", configPath)
		fmt.Printf("\nTo view the configuration:\n")
		fmt.Printf("  sentinel config show\n")
		fmt.Printf("\nTo customize, edit the file with your preferred editor:\n")
		fmt.Printf("  $EDITOR %s\n", configPath)
		fmt.Printf("\n")

		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
}

// writeDefaultConfig writes the documented default configuration to path
func writeDefaultConfig(path string) error {
	yamlData, err := yaml.Marshal(model.DefaultConfig())
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	var b strings.Builder
	b.WriteString("# Contract Sentinel Configuration File\n")
	b.WriteString("#\n")
	b.WriteString("# Configuration hierarchy (highest to lowest priority):\n")
	b.WriteString("#   1. CLI flags\n")
	b.WriteString("#   2. Environment variables (SENTINEL_*)\n")
	b.WriteString("#   3. This config file\n")
	b.WriteString("#   4. Built-in defaults\n\n")
	b.Write(yamlData)
	b.WriteString("\n# API Keys (recommended to use environment variables or .env instead):\n")
	b.WriteString("#   export OPENAI_API_KEY=sk-...\n")
	b.WriteString("#   export DEEPSEEK_API_KEY=sk-...\n")

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("error writing config: %w", err)
	}
	return nil
}

// bindEnvKeys registers every configuration key with viper so that
// SENTINEL_* variables reach Unmarshal even without a config file
func bindEnvKeys(cfg *model.Config) {
	for _, key := range configKeys(cfg) {
		_ = viper.BindEnv(key)
	}
}

// configKeys lists the dotted keys of cfg, sorted
func configKeys(cfg *model.Config) []string {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil
	}
	var tree map[string]interface{}
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return nil
	}

	var keys []string
	var walk func(prefix string, node map[string]interface{})
	walk = func(prefix string, node map[string]interface{}) {
		for k, v := range node {
			key := k
			if prefix != "" {
				key = prefix + "." + k
			}
			if child, ok := v.(map[string]interface{}); ok {
				walk(key, child)
				continue
			}
			keys = append(keys, key)
		}
	}
	walk("", tree)

	// Keys omitted as empty still need an env binding
	for _, k := range []string{"llm.api_key", "llm.base_url", "llm.http_proxy", "llm.https_proxy", "llm.no_proxy"} {
		if !contains(keys, k) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
