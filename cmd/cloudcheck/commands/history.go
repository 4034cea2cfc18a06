package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// HistoryCmd prints recent persisted run outcomes.
var HistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded verification runs",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		store, err := cfg.OpenHistory()
		if err != nil {
			return fmt.Errorf("open history store: %w", err)
		}
		if store == nil {
			fmt.Println("history store is disabled")
			return nil
		}
		defer func() { _ = store.Close() }()

		limit, _ := cmd.Flags().GetInt("limit")
		records, err := store.ListRecent(limit)
		if err != nil {
			return fmt.Errorf("list history: %w", err)
		}
		if len(records) == 0 {
			fmt.Println("no recorded runs")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "RUN\tSTAGE\tOPERATION\tSTATUS\tRESULT\tAT")
		for _, r := range records {
			result := "pass"
			if !r.Passed {
				result = "FAIL"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\n", r.RunID, r.Stage, r.Label, r.StatusCode, result, r.RanAt)
		}
		return w.Flush()
	},
}

func init() {
	HistoryCmd.Flags().Int("limit", 50, "maximum number of records to show")
}
