package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/wash-insights/sanireport/internal/pipeline"
)

var viewsCmd = &cobra.Command{
	Use:   "views",
	Short: "List the registered report views",
	RunE: func(cmd *cobra.Command, _ []string) error {
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tCOLUMNS\tTITLE")
		for _, v := range pipeline.Registry(cfg.Report.TopN) {
			fmt.Fprintf(w, "%s\t%s\t%s\n", v.Name(), strings.Join(v.Columns(), ","), v.Title())
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(viewsCmd)
}
