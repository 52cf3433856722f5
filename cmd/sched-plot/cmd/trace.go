package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/cbs-sched/schedtools/chart"
	"github.com/cbs-sched/schedtools/report"
	"github.com/cbs-sched/schedtools/trace"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"
)

// kind describes one family of trace files
type kind struct {
	name      string
	glob      string
	layout    string
	summary   []string
	precision int
	draw      func(t *trace.Table, path string, o chart.Options) error
}

var kinds = []*kind{
	{
		name:      "rounds",
		glob:      "cbs_trace_*_rounds.dat",
		layout:    "rounds",
		summary:   []string{"Rt_prev", "Re_prev", "Co_next"},
		precision: 3,
		draw:      chart.Rounds,
	},
	{
		name:      "bursts",
		glob:      "cbs_trace_*_bursts.dat",
		layout:    "bursts",
		summary:   []string{"Tb", "Tb_error"},
		precision: 3,
		draw:      chart.Bursts,
	},
	{
		name:      "latencies",
		glob:      "*_trace_*_latencies.dat",
		layout:    "latencies",
		summary:   []string{"Delay", "Slice"},
		precision: report.Nanos,
		draw:      chart.Latencies,
	},
	{
		name:      "migrations",
		glob:      "*_trace_*_migrations.dat",
		layout:    "migrations",
		summary:   []string{"Delay"},
		precision: report.Nanos,
		draw:      chart.Migrations,
	},
}

func init() {
	for _, k := range kinds {
		rootCmd.AddCommand(k.command())
	}
	rootCmd.AddCommand(allCmd)
}

func (k *kind) command() *cobra.Command {
	c := &cobra.Command{
		Use:   k.name + " [trace files]",
		Short: fmt.Sprintf("Summarize and plot %s traces", k.name),
		Long: fmt.Sprintf(`Summarize and plot %s traces.
Without arguments, every file of the current directory matching %q is processed.`, k.name, k.glob),
		RunE: func(cmd *cobra.Command, args []string) error {
			files := args
			if len(files) == 0 {
				var err error
				files, err = trace.Glob(k.glob)
				if err != nil {
					return err
				}
				if len(files) == 0 {
					return fmt.Errorf("no file matching %q", k.glob)
				}
			}
			return k.run(files)
		},
	}
	c.Flags().StringVar(&k.layout, "layout", k.layout, "column layout of the trace files")
	return c
}

var allCmd = &cobra.Command{
	Use:   "all",
	Short: "Summarize and plot every trace file of the current directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		var found int
		for _, k := range kinds {
			files, err := trace.Glob(k.glob)
			if err != nil {
				return err
			}
			if len(files) == 0 {
				log.Debugf("no %s trace in the current directory", k.name)
				continue
			}
			found += len(files)
			if err := k.run(files); err != nil {
				return err
			}
		}
		if found == 0 {
			return fmt.Errorf("no trace file in the current directory")
		}
		return nil
	},
}

// run parses all files first, so the summaries come out in order,
// then renders the figures concurrently.
func (k *kind) run(files []string) error {
	layout, err := layouts.Get(k.layout)
	if err != nil {
		return err
	}

	tables := make([]*trace.Table, 0, len(files))
	for _, f := range files {
		log.Infof("parsing %s with layout %s", f, layout.Name)
		t, err := trace.ParseFile(f, layout)
		if err != nil {
			return err
		}
		if t.Len() == 0 {
			log.Warnf("%s: no %s record", f, layout.Name)
		}
		if viper.GetBool("show-summary") {
			fmt.Printf("\n%s\n", f)
			sums := trace.Summarize(t, k.summary)
			if err := report.WriteSummary(os.Stdout, keyName(layout), k.summary, sums, k.precision); err != nil {
				return err
			}
		}
		tables = append(tables, t)
	}

	if viper.GetBool("no-figures") {
		return nil
	}

	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())
	for i := range tables {
		t, path := tables[i], figurePath(files[i])
		g.Go(func() error {
			if err := k.draw(t, path, opts); err != nil {
				return fmt.Errorf("%s: %w", t.Source, err)
			}
			log.Infof("%s written", path)
			return nil
		})
	}
	return g.Wait()
}

func keyName(l trace.Layout) string {
	if l.KeyName == "" {
		return "Key"
	}
	return l.KeyName
}

func figurePath(dataPath string) string {
	path := trace.FigurePath(dataPath, viper.GetString("format"))
	if dir := viper.GetString("out-dir"); dir != "" {
		path = filepath.Join(dir, filepath.Base(path))
	}
	return path
}
