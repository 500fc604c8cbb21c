package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/promptrun/internal/store"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:          "history [prompt]",
	Short:        "Show recorded runs, newest first",
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := appConfig()
		if err != nil {
			return err
		}

		promptName := ""
		if len(args) == 1 {
			promptName = args[0]
		}

		s, err := store.Open(cmd.Context(), cfg.DBPath)
		if err != nil {
			return err
		}
		defer s.Close()

		records, err := s.History(cmd.Context(), promptName, historyLimit)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "no runs recorded")
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tPROMPT\tMODEL\tSTATUS\tTOKENS\tCREATED")
		for _, rec := range records {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\t%s\n",
				rec.ID, rec.PromptName, rec.Model, rec.DeliveryStatus,
				rec.PromptTokens+rec.CompletionTokens,
				rec.CreatedAt.Format("2006-01-02 15:04"))
		}
		return w.Flush()
	},
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "maximum number of runs to show (0 = all)")
}
