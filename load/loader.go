// Package load runs the import benchmarks: it scans a data source into
// batches, spreads them over a pool of workers, and reports ingest rates.
package load

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shirou/gopsutil/cpu"
	"github.com/shirou/gopsutil/mem"
	"github.com/spf13/pflag"
	"golang.org/x/time/rate"

	"github.com/vitalbench/vitalbench/pkg/targets"
)

const (
	defaultBatchSize                = 1000
	defaultChannelCapacityPerWorker = 5
	errDBExistsFmt                  = "database \"%s\" exists: aborting."
)

var (
	printFn = fmt.Printf
	fatal   = log.Fatalf
)

type BenchmarkRunnerConfig struct {
	DBName          string        `yaml:"db-name" mapstructure:"db-name" json:"db-name"`
	BatchSize       uint          `yaml:"batch-size" mapstructure:"batch-size" json:"batch-size"`
	Workers         uint          `yaml:"workers" mapstructure:"workers" json:"workers"`
	Limit           uint64        `yaml:"limit" mapstructure:"limit" json:"limit"`
	DoLoad          bool          `yaml:"do-load" mapstructure:"do-load" json:"do-load"`
	DoCreateDB      bool          `yaml:"do-create-db" mapstructure:"do-create-db" json:"do-create-db"`
	DoAbortOnExist  bool          `yaml:"do-abort-on-exist" mapstructure:"do-abort-on-exist" json:"do-abort-on-exist"`
	ReportingPeriod time.Duration `yaml:"reporting-period" mapstructure:"reporting-period" json:"reporting-period"`
	HashWorkers     bool          `yaml:"hash-workers" mapstructure:"hash-workers" json:"hash-workers"`
	InsertRateLimit uint64        `yaml:"insert-rate-limit" mapstructure:"insert-rate-limit" json:"insert-rate-limit"`
	ResultsFile     string        `yaml:"results-file" mapstructure:"results-file" json:"results-file"`
	FileName        string        `yaml:"file" mapstructure:"file" json:"file"`
	Seed            int64         `yaml:"seed" mapstructure:"seed" json:"seed"`
}

func (c BenchmarkRunnerConfig) AddToFlagSet(fs *pflag.FlagSet) {
	fs.String("db-name", "health_iot_metrics", "Name of database (bucket) to load into")
	fs.Uint("batch-size", defaultBatchSize, "Number of readings to batch together in a single write")
	fs.Uint("workers", 1, "Number of parallel clients inserting")
	fs.Uint64("limit", 0, "Number of readings to insert (0 = all of them).")
	fs.Bool("do-load", true, "Whether to write data. Set this flag to false to check input read speed.")
	fs.Bool("do-create-db", true, "Whether to create (or recreate) the database before loading.")
	fs.Bool("do-abort-on-exist", false, "Whether to abort if a database with the given name already exists.")
	fs.Duration("reporting-period", 10*time.Second, "Period to report write stats")
	fs.Bool("hash-workers", false, "Whether to consistently hash readings of a patient to the same worker")
	fs.Uint64("insert-rate-limit", 0, "Limit the insert rate in readings per second, 0 = no limit")
	fs.String("results-file", "", "Write the test results summary json to this file")
	fs.String("file", "", "File name to read data from")
	fs.Int64("seed", 0, "PRNG seed (default: 0, which uses the current timestamp)")
}

type BenchmarkRunner interface {
	DatabaseName() string
	RunBenchmark(b targets.Benchmark)
	RowCount() uint64
}

type CommonBenchmarkRunner struct {
	BenchmarkRunnerConfig
	metricCnt uint64
	rowCnt    uint64
	limiter   *rate.Limiter
}

func GetBenchmarkRunner(c BenchmarkRunnerConfig) BenchmarkRunner {
	runner := &CommonBenchmarkRunner{}
	runner.BenchmarkRunnerConfig = c
	if runner.BatchSize == 0 {
		runner.BatchSize = defaultBatchSize
	}
	if c.InsertRateLimit > 0 {
		runner.limiter = rate.NewLimiter(rate.Limit(c.InsertRateLimit), int(runner.BatchSize))
	}
	return runner
}

func (l *CommonBenchmarkRunner) DatabaseName() string {
	return l.DBName
}

// RowCount is the number of rows the workers have written so far.
func (l *CommonBenchmarkRunner) RowCount() uint64 {
	return atomic.LoadUint64(&l.rowCnt)
}

func (l *CommonBenchmarkRunner) RunBenchmark(b targets.Benchmark) {
	wg, start := l.preRun(b)

	var numChannels, capacity uint
	if l.HashWorkers {
		numChannels = l.Workers
		capacity = defaultChannelCapacityPerWorker
	} else {
		numChannels = 1
		capacity = l.Workers * defaultChannelCapacityPerWorker
	}

	channels := make([]*duplexChannel, numChannels)
	for i := range channels {
		channels[i] = newDuplexChannel(int(capacity))
	}

	for i := uint(0); i < l.Workers; i++ {
		go l.work(b, wg, channels[i%numChannels], i)
	}

	scanWithFlowControl(channels, l.BatchSize, l.Limit, b.GetDataSource(), b.GetBatchFactory(), b.GetPointIndexer(numChannels))
	for _, c := range channels {
		c.close()
	}

	l.postRun(wg, start)
}

func (l *CommonBenchmarkRunner) preRun(b targets.Benchmark) (*sync.WaitGroup, *time.Time) {
	if b.GetDBCreator() != nil {
		cleanupFn := l.useDBCreator(b.GetDBCreator())
		defer cleanupFn()
	}

	if l.ReportingPeriod.Nanoseconds() > 0 {
		go l.report(l.ReportingPeriod)
	}
	wg := &sync.WaitGroup{}
	wg.Add(int(l.Workers))
	start := time.Now()
	return wg, &start
}

func (l *CommonBenchmarkRunner) postRun(wg *sync.WaitGroup, start *time.Time) {
	wg.Wait()
	end := time.Now()
	took := end.Sub(*start)
	l.summary(took)
	if l.ResultsFile != "" {
		metricRate := float64(l.metricCnt) / took.Seconds()
		rowRate := float64(l.rowCnt) / took.Seconds()
		l.saveTestResult(took, *start, end, metricRate, rowRate)
	}
}

func (l *CommonBenchmarkRunner) useDBCreator(dbc targets.DBCreator) func() {
	closeFn := func() {}
	dbc.Init()
	if l.DoLoad {
		switch dbcc := dbc.(type) {
		case targets.DBCreatorCloser:
			closeFn = dbcc.Close
		}

		exists := dbc.DBExists(l.DBName)
		if exists && l.DoAbortOnExist {
			panic(fmt.Sprintf(errDBExistsFmt, l.DBName))
		}
		if l.DoCreateDB {
			if exists {
				if err := dbc.RemoveOldDB(l.DBName); err != nil {
					panic(err)
				}
			}
			if err := dbc.CreateDB(l.DBName); err != nil {
				panic(err)
			}
		}

		switch dbcp := dbc.(type) {
		case targets.DBCreatorPost:
			if err := dbcp.PostCreateDB(l.DBName); err != nil {
				log.Println("could not execute PostCreateDB: " + err.Error())
				panic(err)
			}
		}
	}
	return closeFn
}

func (l *CommonBenchmarkRunner) work(b targets.Benchmark, wg *sync.WaitGroup, c *duplexChannel, workerNum uint) {
	proc := b.GetProcessor()
	proc.Init(int(workerNum), l.DoLoad, l.HashWorkers)
	for batch := range c.toWorker {
		if l.limiter != nil {
			if err := l.limiter.WaitN(context.Background(), int(batch.Len())); err != nil {
				fatal("rate limiter: %v", err)
			}
		}
		metricCnt, rowCnt := proc.ProcessBatch(batch, l.DoLoad)
		atomic.AddUint64(&l.metricCnt, metricCnt)
		atomic.AddUint64(&l.rowCnt, rowCnt)
		c.sendToScanner()
	}

	switch p := proc.(type) {
	case targets.ProcessorCloser:
		p.Close(l.DoLoad)
	}

	wg.Done()
}

func (l *CommonBenchmarkRunner) summary(took time.Duration) {
	metricRate := float64(l.metricCnt) / took.Seconds()
	printFn("\nSummary:\n")
	printFn("loaded %d metrics in %0.3fsec with %d workers (mean rate %0.2f metrics/sec)\n", l.metricCnt, took.Seconds(), l.Workers, metricRate)
	if l.rowCnt > 0 {
		rowRate := float64(l.rowCnt) / took.Seconds()
		printFn("loaded %d rows in %0.3fsec with %d workers (mean rate %0.2f rows/sec)\n", l.rowCnt, took.Seconds(), l.Workers, rowRate)
	}
}

func (l *CommonBenchmarkRunner) report(period time.Duration) {
	start := time.Now()
	prevTime := start
	prevColCount := uint64(0)
	prevRowCount := uint64(0)

	printFn("time,per. metric/s,metric total,overall metric/s,per. row/s,row total,overall row/s\n")
	for now := range time.NewTicker(period).C {
		cCount := atomic.LoadUint64(&l.metricCnt)
		rCount := atomic.LoadUint64(&l.rowCnt)

		sinceStart := now.Sub(start)
		took := now.Sub(prevTime)
		colrate := float64(cCount-prevColCount) / took.Seconds()
		overallColRate := float64(cCount) / sinceStart.Seconds()
		if rCount > 0 {
			rowrate := float64(rCount-prevRowCount) / took.Seconds()
			overallRowRate := float64(rCount) / sinceStart.Seconds()
			printFn("%d,%0.2f,%E,%0.2f,%0.2f,%E,%0.2f\n", now.Unix(), colrate, float64(cCount), overallColRate, rowrate, float64(rCount), overallRowRate)
		} else {
			printFn("%d,%0.2f,%E,%0.2f,-,-,-\n", now.Unix(), colrate, float64(cCount), overallColRate)
		}

		prevColCount = cCount
		prevRowCount = rCount
		prevTime = now
	}
}

func (l *CommonBenchmarkRunner) saveTestResult(took time.Duration, start, end time.Time, metricRate, rowRate float64) {
	totals := make(map[string]interface{})
	totals["metricRate"] = metricRate
	if l.rowCnt > 0 {
		totals["rowRate"] = rowRate
	}
	totals["host"] = hostTelemetry()

	testResult := LoaderTestResult{
		ResultFormatVersion: LoaderTestResultVersion,
		RunnerConfig:        l.BenchmarkRunnerConfig,
		StartTime:           start.Unix(),
		EndTime:             end.Unix(),
		DurationMillis:      took.Milliseconds(),
		Totals:              totals,
	}

	_, _ = fmt.Printf("Saving results json file to %s\n", l.ResultsFile)
	file, err := json.MarshalIndent(testResult, "", " ")
	if err != nil {
		log.Fatal(err)
	}

	if err := os.WriteFile(l.ResultsFile, file, 0644); err != nil {
		log.Fatal(err)
	}
}

// hostTelemetry captures a best-effort snapshot of the load-generating host
// so results from different machines can be told apart.
func hostTelemetry() map[string]interface{} {
	telemetry := make(map[string]interface{})
	if cpus, err := cpu.Counts(true); err == nil {
		telemetry["cpus"] = cpus
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		telemetry["memTotalBytes"] = vm.Total
		telemetry["memUsedPercent"] = vm.UsedPercent
	}
	return telemetry
}
