// vitalbench_load_timescaledb imports the vitals dataset into
// PostgreSQL/TimescaleDB and reports ingestion rates.
package main

import (
	"fmt"

	"github.com/blagojts/viper"
	"github.com/spf13/pflag"

	"github.com/vitalbench/vitalbench/internal/utils"
	"github.com/vitalbench/vitalbench/load"
	"github.com/vitalbench/vitalbench/pkg/targets/timescaledb"
)

var (
	loaderConfig load.BenchmarkRunnerConfig
	opts         timescaledb.LoadingOptions
)

func init() {
	loaderConfig.AddToFlagSet(pflag.CommandLine)
	opts.AddToFlagSet(pflag.CommandLine)
	pflag.Parse()

	err := utils.SetupConfigFile()
	if err != nil {
		panic(fmt.Errorf("fatal error config file: %s", err))
	}

	if err := viper.Unmarshal(&loaderConfig); err != nil {
		panic(fmt.Errorf("unable to decode config: %s", err))
	}
	if err := viper.Unmarshal(&opts); err != nil {
		panic(fmt.Errorf("unable to decode config: %s", err))
	}
}

func main() {
	benchmark := timescaledb.NewBenchmark(&opts, loaderConfig.DBName, loaderConfig.FileName)
	runner := load.GetBenchmarkRunner(loaderConfig)
	runner.RunBenchmark(benchmark)
}
