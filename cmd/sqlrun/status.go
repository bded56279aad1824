package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/loykin/sqlrun"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the migration ledger: applied and unfinished entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := resolveConfig()
		if err != nil {
			return err
		}

		st, err := sqlrun.OpenStore(doc.Store)
		if err != nil {
			return err
		}
		defer func() { _ = st.Close() }()

		entries, err := sqlrun.ListLedger(st)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Println("no migrations recorded")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "MIGRATION\tSTARTED\tFINISHED\tSTEPS")
		for _, e := range entries {
			finished := "-"
			if e.FinishedAt != nil {
				finished = e.FinishedAt.Format("2006-01-02 15:04:05")
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\n",
				e.MigrationName, e.StartedAt.Format("2006-01-02 15:04:05"), finished, e.AppliedStepsCount)
		}
		return w.Flush()
	},
}
