// vitalbench_load_mongo imports the vitals dataset into MongoDB and reports
// ingestion rates.
package main

import (
	"fmt"

	"github.com/blagojts/viper"
	"github.com/spf13/pflag"

	"github.com/vitalbench/vitalbench/internal/utils"
	"github.com/vitalbench/vitalbench/load"
	"github.com/vitalbench/vitalbench/pkg/targets/mongo"
)

var (
	loaderConfig load.BenchmarkRunnerConfig
	opts         mongo.LoadingOptions
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
	benchmark := mongo.NewBenchmark(&opts, loaderConfig.DBName, loaderConfig.FileName)
	runner := load.GetBenchmarkRunner(loaderConfig)
	runner.RunBenchmark(benchmark)
}
