// vitalbench_run_queries_influx times the canned vitals query suite against
// InfluxDB and reports per-query latency statistics.
package main

import (
	"context"
	"fmt"
	"time"

	"github.com/blagojts/viper"
	"github.com/spf13/pflag"

	"github.com/vitalbench/vitalbench/internal/utils"
	vbinflux "github.com/vitalbench/vitalbench/pkg/influx"
	"github.com/vitalbench/vitalbench/pkg/queries"
	"github.com/vitalbench/vitalbench/pkg/query"
)

var (
	runnerConfig query.BenchmarkRunnerConfig
	influxConfig vbinflux.Config
	suiteConfig  queries.SuiteConfig

	runner *query.BenchmarkRunner
)

func init() {
	runnerConfig.AddToFlagSet(pflag.CommandLine)
	influxConfig.AddToFlagSet(pflag.CommandLine)
	suiteConfig.AddToFlagSet(pflag.CommandLine)
	pflag.Parse()

	err := utils.SetupConfigFile()
	if err != nil {
		panic(fmt.Errorf("fatal error config file: %s", err))
	}

	if err := viper.Unmarshal(&runnerConfig); err != nil {
		panic(fmt.Errorf("unable to decode config: %s", err))
	}
	if err := viper.Unmarshal(&influxConfig); err != nil {
		panic(fmt.Errorf("unable to decode config: %s", err))
	}
	if err := viper.Unmarshal(&suiteConfig); err != nil {
		panic(fmt.Errorf("unable to decode config: %s", err))
	}
	if err := suiteConfig.Validate(); err != nil {
		panic(fmt.Errorf("invalid suite range: %s", err))
	}

	runner = query.NewBenchmarkRunner(runnerConfig)
}

func main() {
	suite := queries.FluxSuite(runner.DatabaseName(), &suiteConfig)
	runner.Run(suite, newProcessor)
}

type processor struct {
	client    *vbinflux.Client
	workerNum int
}

func newProcessor() query.Processor { return &processor{} }

func (p *processor) Init(workerNumber int) {
	p.client = vbinflux.NewClient(influxConfig)
	p.workerNum = workerNumber
}

func (p *processor) ProcessQuery(q query.Query, isWarmup bool) ([]*query.Stat, error) {
	fq := q.(*query.Flux)
	if runner.DebugLevel() > 0 {
		fmt.Println(fq.String())
	}

	start := time.Now()
	result, err := p.client.QueryAPI().Query(context.Background(), string(fq.RawQuery))
	if err != nil {
		return nil, err
	}

	var rows uint64
	for result.Next() {
		rows++
		if runner.DoPrintResponses() {
			fmt.Printf("ID %d: %v\n", q.GetID(), result.Record().Values())
		}
	}
	if result.Err() != nil {
		result.Close()
		return nil, result.Err()
	}
	result.Close()
	lag := float64(time.Since(start).Nanoseconds()) / 1e6

	stat := query.GetStat()
	stat.Init(q.HumanLabelName(), lag, rows)
	return []*query.Stat{stat}, nil
}
