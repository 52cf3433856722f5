// Copyright © 2018 Grafana Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cmd

import (
	"fmt"
	"os"

	"github.com/cbs-sched/schedtools/chart"
	"github.com/cbs-sched/schedtools/logger"
	"github.com/cbs-sched/schedtools/trace"
	"github.com/davecgh/go-spew/spew"
	homedir "github.com/mitchellh/go-homedir"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "sched-plot",
	Short: "Summarizes and plots scheduler trace files",
	Long: `sched-plot reads the trace files written by the scheduler trace points
(rounds, bursts, latencies and migrations), prints per task summaries and
draws one figure per trace file, next to it.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := logger.Configure("", viper.GetString("log-level"), nil); err != nil {
			return fmt.Errorf("failed to parse log-level: %w", err)
		}

		var err error
		layouts = trace.DefaultLayouts()
		if path := viper.GetString("layouts"); path != "" {
			layouts, err = trace.LoadLayouts(path)
			if err != nil {
				return err
			}
			log.Infof("layouts loaded from %s", path)
		}

		opts = chart.DefaultOptions()
		opts.Band, err = chart.ParseBand(viper.GetString("band"))
		if err != nil {
			return err
		}
		opts.Mean = viper.GetBool("mean")

		if viper.GetBool("dump-config") {
			spew.Fdump(os.Stderr, opts, layouts)
		}
		return nil
	},
}

// Execute runs the command selected on the command line
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

var (
	cfgFile string

	// resolved in PersistentPreRunE, shared by all subcommands
	layouts trace.Layouts
	opts    chart.Options
)

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.sched-plot.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level. panic|fatal|error|warning|info|debug")
	rootCmd.PersistentFlags().String("band", "none", "shaded band around the mean of each series: none|stddev|ci99")
	rootCmd.PersistentFlags().Bool("mean", false, "draw the mean of each series as a dashed line")
	rootCmd.PersistentFlags().String("format", "pdf", "figure format: pdf|svg|png")
	rootCmd.PersistentFlags().String("out-dir", "", "directory of the figures (default is next to each trace file)")
	rootCmd.PersistentFlags().String("layouts", "", "TOML file overriding the column layouts of the trace files")
	rootCmd.PersistentFlags().Bool("show-summary", true, "print the average and 99% confidence of every metric per task")
	rootCmd.PersistentFlags().Bool("no-figures", false, "only print the summaries")
	rootCmd.PersistentFlags().Bool("dump-config", false, "dump the resolved layouts and chart options to stderr")

	for _, name := range []string{"log-level", "band", "mean", "format", "out-dir", "layouts", "show-summary", "no-figures", "dump-config"} {
		if err := viper.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name)); err != nil {
			log.Fatalf("failed to bind flag %s: %s", name, err.Error())
		}
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		// Search config in home directory with name ".sched-plot" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".sched-plot")
	}

	viper.SetEnvPrefix("SCHEDPLOT")
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
