package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/sentinel/internal/model"
)

// Version is the CLI release
const Version = "0.3.0"

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "sentinel",
	Short: "Contract Sentinel - clause risk analysis under the Indian Contract Act (educational)",
	Long:  `Contract Sentinel splits a contract into clauses and checks each one
against the Indian Contract Act, 1872 and a fair-terms standard.

Every clause gets a transparent 0-100 risk score built from legal
invalidity, deviation from fair terms and risk-term frequency. The same
document and rules always produce the same scores.

Contract Sentinel is an educational tool. It does not give legal advice.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Display the version number and the compiled-in rule set version.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("sentinel v%s (rules %s)\n", Version, rulesVersion())
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.sentinel/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	_ = viper.BindPFlag("output.verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	rootCmd.AddCommand(versionCmd)
}

// initConfig reads .env, the config file and ENV variables
func initConfig() {
	// API keys usually live in .env during development
	if err := godotenv.Load(); err != nil && verbose {
		fmt.Fprintf(os.Stderr, "Warning: No .env file found\n")
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}
		viper.AddConfigPath(filepath.Join(home, ".sentinel"))
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// SENTINEL_LLM_PROVIDER overrides llm.provider
	viper.SetEnvPrefix("SENTINEL")
	viper.SetEnvKeyReplacer(envKeyReplacer)
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// loadConfig merges defaults with the config file and environment
func loadConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	bindEnvKeys(cfg)
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parse configuration: %w", err)
	}
	return cfg, nil
}

// newLogger builds the diagnostics logger; verbose lowers the level to debug
func newLogger() *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}
