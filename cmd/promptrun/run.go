package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/promptrun/internal/delivery"
	"github.com/jackzampolin/promptrun/internal/providers"
	"github.com/jackzampolin/promptrun/internal/runner"
	"github.com/jackzampolin/promptrun/internal/store"
)

var (
	runProfile   string
	runDryRun    bool
	runNoDeliver bool
	runOutput    string
)

var runCmd = &cobra.Command{
	Use:   "run <prompt>",
	Short: "Execute a prompt and deliver the response",
	Long: `Run executes a single prompt. The argument is either a prompt name
looked up in the prompts directory, or a path to a prompt YAML file.

Examples:
  promptrun run daily-briefing
  promptrun run daily-briefing --profile ~/profile.yml
  promptrun run prompts/daily.yml --dry-run
  promptrun run daily-briefing --no-deliver --output response.md`,
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: false,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := appConfig()
		if err != nil {
			return err
		}

		r := &runner.Runner{
			Logger:                  slog.Default(),
			PromptsDir:              cfg.PromptsDir,
			Stdout:                  cmd.OutOrStdout(),
			DefaultLLMProvider:      cfg.Defaults.LLMProvider,
			DefaultDeliveryProvider: cfg.Defaults.DeliveryProvider,
		}

		if !runDryRun {
			r.Providers = providers.NewRegistryFromConfig(
				cmd.Context(), cfg.ToProviderRegistryConfig(), r.Logger)
			r.Delivery = delivery.NewRegistryFromConfig(
				cfg.ToDeliveryRegistryConfig(), r.Logger)

			s, err := store.Open(cmd.Context(), cfg.DBPath)
			if err != nil {
				return err
			}
			defer s.Close()
			r.Store = s
		}

		res, err := r.Run(cmd.Context(), args[0], runner.Options{
			ProfilePath: runProfile,
			DryRun:      runDryRun,
			NoDeliver:   runNoDeliver,
			OutputPath:  runOutput,
		})
		if err != nil {
			return err
		}

		if res.DryRun {
			return nil
		}

		fmt.Fprintln(cmd.OutOrStdout(), res.Response)
		if res.Duplicate {
			fmt.Fprintf(cmd.ErrOrStderr(),
				"delivery skipped: identical content already sent (%s)\n", res.Record.DeliveryDetail)
		}
		return nil
	},
}

func init() {
	runCmd.Flags().StringVar(&runProfile, "profile", "", "profile YAML file with template variables")
	runCmd.Flags().BoolVar(&runDryRun, "dry-run", false, "render the prompt without calling the provider")
	runCmd.Flags().BoolVar(&runNoDeliver, "no-deliver", false, "generate and record the response without delivering it")
	runCmd.Flags().StringVar(&runOutput, "output", "", "also write the response to a file")
}
