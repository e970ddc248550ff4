package cmd

import (
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

var runsCmd = &cobra.Command{
	Use:   "runs [run-id]",
	Short: "lists journaled runs, or the transfers of one run",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		journal, err := openJournal()
		if err != nil {
			return err
		}
		if journal == nil {
			return errors.New("journal is disabled")
		}
		defer journal.Close()

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		defer w.Flush()

		if len(args) == 1 {
			run, err := journal.Run(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", run.ID, run.Name, run.Status)
			transfers, err := journal.Transfers(cmd.Context(), run.ID)
			if err != nil {
				return err
			}
			fmt.Fprintln(w, "CYCLE\tREACTION\tFROM\tTO\tVOLUME\tSTARTED\tDURATION")
			for _, t := range transfers {
				fmt.Fprintf(w, "%d\t%d\t%s\t%s\t%g\t%s\t%s\n", t.Cycle, t.Reaction, t.Source, t.Dest,
					t.Volume, t.StartedAt.Local().Format(time.DateTime), t.Duration)
			}
			return nil
		}

		runs, err := journal.Runs(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintln(w, "ID\tNAME\tSTATUS\tSTARTED")
		for _, r := range runs {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.ID, r.Name, r.Status, r.StartedAt.Local().Format(time.DateTime))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runsCmd)
}
