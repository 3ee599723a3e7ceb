// vitalbench_index_analysis measures tag cardinality and tag-filter
// selectivity of the vitals bucket and writes the index analysis report.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/blagojts/viper"
	"github.com/spf13/pflag"

	"github.com/vitalbench/vitalbench/internal/utils"
	"github.com/vitalbench/vitalbench/pkg/indexbench"
	vbinflux "github.com/vitalbench/vitalbench/pkg/influx"
)

var (
	influxConfig vbinflux.Config
	bucket       string
	start        string
	end          string
	iterations   int
	outputFile   string
)

func init() {
	influxConfig.AddToFlagSet(pflag.CommandLine)
	pflag.String("db-name", vbinflux.DefaultBucket, "Bucket holding the vitals measurement")
	pflag.String("timestamp-start", "2025-01-01T00:00:00Z", "Beginning timestamp of the analyzed data (RFC3339)")
	pflag.String("timestamp-end", "2025-01-02T00:00:00Z", "Ending timestamp of the analyzed data (RFC3339)")
	pflag.Int("iterations", 3, "Timed executions per selectivity query")
	pflag.String("output-file", "", "Write the analysis report JSON to this file (default stdout)")
	pflag.Parse()

	err := utils.SetupConfigFile()
	if err != nil {
		panic(fmt.Errorf("fatal error config file: %s", err))
	}

	if err := viper.Unmarshal(&influxConfig); err != nil {
		panic(fmt.Errorf("unable to decode config: %s", err))
	}
	bucket = viper.GetString("db-name")
	start = viper.GetString("timestamp-start")
	end = viper.GetString("timestamp-end")
	iterations = viper.GetInt("iterations")
	outputFile = viper.GetString("output-file")
}

func main() {
	startTime, err := utils.ParseUTCTime(start)
	if err != nil {
		log.Fatalf("invalid timestamp-start: %v", err)
	}
	endTime, err := utils.ParseUTCTime(end)
	if err != nil {
		log.Fatalf("invalid timestamp-end: %v", err)
	}
	interval, err := utils.NewTimeInterval(startTime, endTime)
	if err != nil {
		log.Fatal(err)
	}

	client := vbinflux.NewClient(influxConfig)
	defer client.Close()

	ctx := context.Background()
	if err := client.Ping(ctx); err != nil {
		log.Fatal(err)
	}

	report, err := indexbench.NewRunner(client, bucket, interval, iterations).Run(ctx)
	if err != nil {
		log.Fatal(err)
	}

	raw, err := json.MarshalIndent(report, "", " ")
	if err != nil {
		log.Fatal(err)
	}
	if outputFile == "" {
		fmt.Println(string(raw))
		return
	}
	if err := os.WriteFile(outputFile, raw, 0644); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("index analysis written to %s\n", outputFile)
}
