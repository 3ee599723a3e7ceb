// vitalbench_load_influx imports the vitals dataset into InfluxDB and
// reports ingestion rates. It can also verify the imported row count and
// clean a previous import out of the bucket.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/blagojts/viper"
	"github.com/spf13/pflag"

	"github.com/vitalbench/vitalbench/internal/utils"
	"github.com/vitalbench/vitalbench/load"
	"github.com/vitalbench/vitalbench/pkg/health"
	"github.com/vitalbench/vitalbench/pkg/targets/influx"
)

var (
	loaderConfig load.BenchmarkRunnerConfig
	targetConfig influx.SpecificConfig
	verify       bool
	cleanup      bool
)

func init() {
	loaderConfig.AddToFlagSet(pflag.CommandLine)
	targetConfig.AddToFlagSet(pflag.CommandLine)
	pflag.Bool("verify", false, "Count the rows in the bucket after loading and compare against the loaded row count")
	pflag.Bool("cleanup", false, "Delete the vitals measurement from the bucket and exit without loading")
	pflag.Parse()

	err := utils.SetupConfigFile()
	if err != nil {
		panic(fmt.Errorf("fatal error config file: %s", err))
	}

	if err := viper.Unmarshal(&loaderConfig); err != nil {
		panic(fmt.Errorf("unable to decode config: %s", err))
	}
	if err := viper.Unmarshal(&targetConfig); err != nil {
		panic(fmt.Errorf("unable to decode config: %s", err))
	}
	verify = viper.GetBool("verify")
	cleanup = viper.GetBool("cleanup")
}

// The verification count has to cover any plausible dataset range.
var (
	verifyStart = time.Unix(0, 0).UTC()
	verifyStop  = time.Date(2100, 1, 1, 0, 0, 0, 0, time.UTC)
)

func main() {
	benchmark, err := influx.NewBenchmark(targetConfig, loaderConfig.DBName, loaderConfig.FileName)
	if err != nil {
		log.Fatal(err)
	}
	influxBenchmark := benchmark.(*influx.Benchmark)

	if cleanup {
		ctx := context.Background()
		if err := influxBenchmark.Client().DeleteMeasurement(ctx, loaderConfig.DBName,
			string(health.MeasurementName), verifyStart, verifyStop); err != nil {
			log.Fatal(err)
		}
		fmt.Printf("deleted measurement %s from bucket %s\n", health.MeasurementName, loaderConfig.DBName)
		return
	}

	runner := load.GetBenchmarkRunner(loaderConfig)
	runner.RunBenchmark(benchmark)

	if verify {
		ctx := context.Background()
		counted, err := influxBenchmark.Client().CountRows(ctx, loaderConfig.DBName,
			string(health.MeasurementName), verifyStart, verifyStop)
		if err != nil {
			log.Fatal(err)
		}
		written := runner.RowCount()
		ratio, ok := load.VerifyRowCount(written, uint64(counted))
		if !ok {
			fmt.Printf("verification FAILED: bucket %s holds %d of %d written readings (%.1f%%)\n",
				loaderConfig.DBName, counted, written, ratio*100)
			os.Exit(1)
		}
		fmt.Printf("verification passed: bucket %s holds %d of %d written readings (%.1f%%)\n",
			loaderConfig.DBName, counted, written, ratio*100)
	}
}
