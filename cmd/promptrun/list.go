package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/promptrun/internal/prompts"
)

var listCmd = &cobra.Command{
	Use:          "list",
	Short:        "List available prompt definitions",
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := appConfig()
		if err != nil {
			return err
		}

		names, err := prompts.List(cfg.PromptsDir)
		if err != nil {
			return err
		}
		if len(names) == 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "no prompts found in %s\n", cfg.PromptsDir)
			return nil
		}
		for _, name := range names {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
		return nil
	},
}
