package cmd

import (
	"fmt"
	"os"

	"github.com/cbs-sched/schedtools/report"
	"github.com/cbs-sched/schedtools/trace"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	reportLayout    string
	reportMetrics   []string
	reportPrecision int
)

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().StringVar(&reportLayout, "layout", "bursts", "column layout of the trace files")
	reportCmd.Flags().StringSliceVar(&reportMetrics, "metrics", nil, "metrics to summarize (default all but the time)")
	reportCmd.Flags().IntVar(&reportPrecision, "precision", 3, "decimals of the averages")
}

var reportCmd = &cobra.Command{
	Use:   "report <trace file>...",
	Short: "Print the per series summary of trace files of any layout",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		layout, err := layouts.Get(reportLayout)
		if err != nil {
			return fmt.Errorf("%w (known layouts: %v)", err, layouts.Names())
		}
		labels := reportMetrics
		if len(labels) == 0 {
			for _, l := range layout.Labels() {
				if l != layout.TimeLabel {
					labels = append(labels, l)
				}
			}
		}
		for _, l := range labels {
			if layout.Index(l) < 0 {
				return fmt.Errorf("layout %s has no metric %q", layout.Name, l)
			}
		}

		for _, f := range args {
			t, err := trace.ParseFile(f, layout)
			if err != nil {
				return err
			}
			if t.Skipped > 0 {
				log.Debugf("%s: %d records of other kinds skipped", f, t.Skipped)
			}
			fmt.Printf("\n%s (%d records)\n", f, t.Len())
			sums := trace.Summarize(t, labels)
			if err := report.WriteSummary(os.Stdout, keyName(layout), labels, sums, reportPrecision); err != nil {
				return err
			}
		}
		return nil
	},
}
