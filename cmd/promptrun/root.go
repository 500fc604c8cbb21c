package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/promptrun/internal/config"
	"github.com/jackzampolin/promptrun/internal/home"
	"github.com/jackzampolin/promptrun/version"
)

var (
	cfgFile string
	homeDir string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "promptrun",
	Short: "Scheduled LLM prompt runner with email delivery",
	Long: `Promptrun executes LLM prompts defined in YAML files and delivers
the responses by email.

A run renders the prompt template with profile data and built-in
variables, calls the configured LLM provider, records the result in a
local history database, and emails the response to the configured
recipients. Responses whose rendered prompt matches an already-delivered
run are recorded but not re-sent.`,
	Version: version.GitRelease,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.promptrun/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVar(
		&homeDir, "home", "", "promptrun home directory (default: ~/.promptrun)",
	)
	rootCmd.PersistentFlags().BoolVarP(
		&verbose, "verbose", "v", false, "enable debug logging",
	)

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	}

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

// appHome resolves the home directory from the --home flag.
func appHome() (*home.Dir, error) {
	return home.New(homeDir)
}

// appConfig loads configuration honoring --config and --home.
func appConfig() (*config.Config, *home.Dir, error) {
	h, err := appHome()
	if err != nil {
		return nil, nil, err
	}
	cfg, err := config.Load(cfgFile, h)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, h, nil
}
