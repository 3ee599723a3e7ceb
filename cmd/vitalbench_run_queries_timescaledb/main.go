// vitalbench_run_queries_timescaledb times the canned vitals query suite
// against PostgreSQL/TimescaleDB and reports per-query latency statistics.
package main

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/blagojts/viper"
	_ "github.com/jackc/pgx/v4/stdlib"
	_ "github.com/lib/pq"
	"github.com/spf13/pflag"

	"github.com/vitalbench/vitalbench/internal/utils"
	"github.com/vitalbench/vitalbench/pkg/queries"
	"github.com/vitalbench/vitalbench/pkg/query"
	"github.com/vitalbench/vitalbench/pkg/targets/timescaledb"
)

var (
	runnerConfig query.BenchmarkRunnerConfig
	opts         timescaledb.LoadingOptions
	suiteConfig  queries.SuiteConfig

	runner *query.BenchmarkRunner
)

func init() {
	runnerConfig.AddToFlagSet(pflag.CommandLine)
	opts.AddToFlagSet(pflag.CommandLine)
	suiteConfig.AddToFlagSet(pflag.CommandLine)
	pflag.Parse()

	err := utils.SetupConfigFile()
	if err != nil {
		panic(fmt.Errorf("fatal error config file: %s", err))
	}

	if err := viper.Unmarshal(&runnerConfig); err != nil {
		panic(fmt.Errorf("unable to decode config: %s", err))
	}
	if err := viper.Unmarshal(&opts); err != nil {
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
	suite := queries.SQLSuite(&suiteConfig)
	runner.Run(suite, newProcessor)
}

type processor struct {
	db        *sql.DB
	workerNum int
}

func newProcessor() query.Processor { return &processor{} }

func (p *processor) Init(workerNumber int) {
	p.db = timescaledb.MustConnect(opts.Driver(), opts.GetConnectString(runner.DatabaseName()))
	p.workerNum = workerNumber
}

func (p *processor) ProcessQuery(q query.Query, isWarmup bool) ([]*query.Stat, error) {
	sq := q.(*query.SQL)
	if runner.DebugLevel() > 0 {
		fmt.Println(sq.String())
	}

	start := time.Now()
	rows, err := p.db.Query(string(sq.SqlQuery))
	if err != nil {
		return nil, err
	}

	var rowCount uint64
	for rows.Next() {
		rowCount++
		if runner.DoPrintResponses() {
			cols, _ := rows.Columns()
			fmt.Printf("ID %d: %d columns\n", q.GetID(), len(cols))
		}
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()
	lag := float64(time.Since(start).Nanoseconds()) / 1e6

	stat := query.GetStat()
	stat.Init(q.HumanLabelName(), lag, rowCount)
	return []*query.Stat{stat}, nil
}
