package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/promptrun/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage promptrun configuration",
}

var configInitCmd = &cobra.Command{
	Use:          "init",
	Short:        "Create the home directory and a default config file",
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := appHome()
		if err != nil {
			return err
		}
		if err := h.EnsureExists(); err != nil {
			return err
		}
		if h.ConfigExists() {
			return fmt.Errorf("config already exists at %s", h.ConfigPath())
		}
		if err := config.WriteDefault(h.ConfigPath()); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", h.ConfigPath())
		fmt.Fprintf(cmd.OutOrStdout(), "prompts directory: %s\n", h.PromptsPath())
		return nil
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
}
