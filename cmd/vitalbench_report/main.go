// vitalbench_report assembles the cross-database comparison: it collects the
// result files of the individual tools, scores the databases and renders the
// CSV, Markdown and HTML artifacts.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/blagojts/viper"
	"github.com/spf13/cobra"

	"github.com/vitalbench/vitalbench/pkg/report"
	"github.com/vitalbench/vitalbench/pkg/targets/timescaledb"
)

var cfgFile string

func main() {
	root := &cobra.Command{
		Use:              "vitalbench_report",
		Short:            "Collect, score and render cross-database benchmark results",
		PersistentPreRun: initViperConfig,
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	root.PersistentFlags().String("outputs-dir", "outputs", "Directory holding the per-database result files")
	root.PersistentFlags().String("store-file", "benchmark_results.db", "SQLite file keeping the run history")
	if err := viper.BindPFlags(root.PersistentFlags()); err != nil {
		panic(fmt.Errorf("could not bind flags to configuration: %v", err))
	}

	root.AddCommand(generateCmd(), historyCmd(), pruneCmd(), measureStorageCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func initViperConfig(*cobra.Command, []string) {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err == nil {
		fmt.Println("Using config file:", viper.ConfigFileUsed())
	}
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}

func generateCmd() *cobra.Command {
	var runID, reportDir, weightsFile string
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Score the collected results and write the report artifacts",
		Run: func(cmd *cobra.Command, args []string) {
			if runID == "" {
				runID = time.Now().UTC().Format("20060102_150405")
			}

			weights := report.DefaultWeights()
			if weightsFile != "" {
				var err error
				weights, err = report.LoadWeights(weightsFile)
				if err != nil {
					fail(err)
				}
			}

			metrics, err := report.Collect(viper.GetString("outputs-dir"))
			if err != nil {
				fail(err)
			}
			results := report.Score(metrics, weights)

			written, err := report.WriteArtifacts(reportDir, runID, results)
			if err != nil {
				fail(err)
			}
			for _, path := range written {
				fmt.Printf("wrote %s\n", path)
			}

			store, err := report.OpenStore(viper.GetString("store-file"))
			if err != nil {
				fail(err)
			}
			defer store.Close()
			if err := store.SaveRun(runID, results); err != nil {
				fail(err)
			}

			fmt.Printf("\nrun %s: %s wins with overall score %.1f\n", runID, results[0].Database, results[0].Overall)
		},
	}
	cmd.Flags().StringVar(&runID, "run-id", "", "Identifier of this run (default: UTC timestamp)")
	cmd.Flags().StringVar(&reportDir, "report-dir", "reports", "Directory to write the report artifacts to")
	cmd.Flags().StringVar(&weightsFile, "weights-file", "", "YAML file overriding the scoring weights")
	return cmd
}

func historyCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show past benchmark runs",
		Run: func(cmd *cobra.Command, args []string) {
			store, err := report.OpenStore(viper.GetString("store-file"))
			if err != nil {
				fail(err)
			}
			defer store.Close()

			runs, err := store.History(limit)
			if err != nil {
				fail(err)
			}
			fmt.Printf("%-20s %-25s %-12s %s\n", "RUN", "CREATED", "WINNER", "MARGIN")
			for _, r := range runs {
				fmt.Printf("%-20s %-25s %-12s %.1f\n", r.RunID, r.CreatedAt.Format(time.RFC3339), r.Winner, r.Margin)
			}
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "Number of runs to show")
	return cmd
}

func pruneCmd() *cobra.Command {
	var keep int
	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete all but the newest runs from the history",
		Run: func(cmd *cobra.Command, args []string) {
			store, err := report.OpenStore(viper.GetString("store-file"))
			if err != nil {
				fail(err)
			}
			defer store.Close()

			deleted, err := store.Prune(keep)
			if err != nil {
				fail(err)
			}
			fmt.Printf("pruned %d runs, kept the newest %d\n", deleted, keep)
		},
	}
	cmd.Flags().IntVar(&keep, "keep", 10, "Number of runs to keep")
	return cmd
}

func measureStorageCmd() *cobra.Command {
	var (
		opts      timescaledb.LoadingOptions
		dbName    string
		mongoURL  string
		influxDir string
	)
	cmd := &cobra.Command{
		Use:   "measure-storage <postgresql|influxdb|mongodb>",
		Short: "Measure the on-disk footprint of one database and record it for the collector",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			if err := viper.BindPFlags(cmd.Flags()); err != nil {
				fail(fmt.Errorf("could not bind storage flags: %v", err))
			}
			if err := viper.Unmarshal(&opts); err != nil {
				fail(fmt.Errorf("unable to decode config: %s", err))
			}
			db := args[0]
			var (
				size int64
				err  error
			)
			switch db {
			case report.DatabasePostgreSQL:
				size, err = report.MeasurePostgresStorage(opts.Driver(), opts.GetConnectString(opts.ConnDB), dbName)
			case report.DatabaseMongoDB:
				size, err = report.MeasureMongoStorage(mongoURL, dbName, 10*time.Second)
			case report.DatabaseInfluxDB:
				if influxDir == "" {
					fail(fmt.Errorf("influxdb has no size API, pass --influx-data-dir pointing at its engine directory"))
				}
				size, err = report.MeasureDirStorage(influxDir)
			default:
				fail(fmt.Errorf("unknown database %q", db))
			}
			if err != nil {
				fail(err)
			}

			path, err := report.WriteStorageResult(viper.GetString("outputs-dir"), db, size)
			if err != nil {
				fail(err)
			}
			fmt.Printf("%s uses %d bytes, recorded in %s\n", db, size, path)
		},
	}
	opts.AddToFlagSet(cmd.Flags())
	cmd.Flags().StringVar(&dbName, "measure-db-name", "health_iot_metrics", "Database to measure")
	cmd.Flags().StringVar(&mongoURL, "mongo-url", "mongodb://localhost:27017", "MongoDB URL")
	cmd.Flags().StringVar(&influxDir, "influx-data-dir", "", "InfluxDB engine data directory")
	return cmd
}
