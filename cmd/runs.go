package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/wash-insights/sanireport/internal/model"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect report run history",
}

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List report runs",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		limit, _ := cmd.Flags().GetInt("limit")
		runs, err := st.ListRuns(ctx, limit)
		if err != nil {
			return eris.Wrap(err, "runs list")
		}

		if len(runs) == 0 {
			fmt.Fprintln(os.Stderr, "No runs found.")
			return nil
		}

		formatRunsList(os.Stdout, runs)
		return nil
	},
}

var runsShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show one run with its per-view filtering statistics",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		run, stats, err := st.GetRun(ctx, args[0])
		if err != nil {
			return eris.Wrap(err, "runs show")
		}

		fmt.Printf("Run %s (%s)\n", run.ID, run.Status)
		fmt.Printf("  Indicator: %s\n", run.Indicator)
		fmt.Printf("  Started:   %s\n", run.StartedAt.Format(time.RFC3339))
		if run.FinishedAt != nil {
			fmt.Printf("  Finished:  %s\n", run.FinishedAt.Format(time.RFC3339))
		}
		fmt.Printf("  Rows: %d indicator, %d filtered, %d metadata, %d matched\n",
			run.IndicatorRows, run.FilteredRows, run.MetadataRows, run.MatchedRows)
		if run.Error != "" {
			fmt.Printf("  Error: %s\n", run.Error)
		}

		if len(stats) > 0 {
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "VIEW\tIN\tOUT\tMISSING_VALUE\tMISSING_META\tEXCLUDED\tSUPERSEDED")
			for _, vs := range stats {
				fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\t%d\t%d\n",
					vs.View, vs.RowsIn, vs.RowsOut, vs.DroppedMissingValue,
					vs.DroppedMissingMeta, vs.DroppedExcluded, vs.DroppedSuperseded)
			}
			return w.Flush()
		}
		return nil
	},
}

func formatRunsList(out io.Writer, runs []model.Run) {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTATUS\tSTARTED\tFILTERED\tMATCHED")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\n",
			r.ID, r.Status, r.StartedAt.Format(time.RFC3339), r.FilteredRows, r.MatchedRows)
	}
	_ = w.Flush()
}

func init() {
	runsListCmd.Flags().Int("limit", 20, "maximum runs to list")
	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsShowCmd)
	rootCmd.AddCommand(runsCmd)
}
