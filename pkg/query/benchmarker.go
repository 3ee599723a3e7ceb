package query

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"log"
	"os"
	"runtime/pprof"
	"sort"
	"sync"
	"time"

	"github.com/spf13/pflag"
	"golang.org/x/time/rate"
)

const labelAllQueries = "all queries"

// Per-query thresholds that trigger a tuning recommendation, latencies in
// milliseconds.
const (
	slowMeanThresholdMs     = 2000.0
	highVarianceThresholdMs = 500.0
	lowRowThroughput        = 100.0
)

type BenchmarkRunnerConfig struct {
	DBName           string `mapstructure:"db-name" json:"db-name"`
	Warmups          uint64 `mapstructure:"warmups" json:"warmups"`
	Iterations       uint64 `mapstructure:"iterations" json:"iterations"`
	LimitRPS         uint64 `mapstructure:"max-rps" json:"max-rps"`
	MemProfile       string `mapstructure:"memprofile" json:"memprofile"`
	HDRLatenciesFile string `mapstructure:"hdr-latencies" json:"hdr-latencies"`
	Workers          uint   `mapstructure:"workers" json:"workers"`
	PrintResponses   bool   `mapstructure:"print-responses" json:"print-responses"`
	Debug            int    `mapstructure:"debug" json:"debug"`
	BurnIn           uint64 `mapstructure:"burn-in" json:"burn-in"`
	PrintInterval    uint64 `mapstructure:"print-interval" json:"print-interval"`
	ResultsFile      string `mapstructure:"results-file" json:"results-file"`
}

func (c BenchmarkRunnerConfig) AddToFlagSet(fs *pflag.FlagSet) {
	fs.String("db-name", "health_iot_metrics", "Name of database to use for queries")
	fs.Uint64("warmups", 2, "Number of warmup executions per query, discarded from the statistics")
	fs.Uint64("iterations", 10, "Number of timed executions per query")
	fs.Uint64("burn-in", 0, "Number of timed queries to ignore before collecting statistics.")
	fs.Uint64("max-rps", 0, "Limit the rate of queries per second, 0 = no limit")
	fs.Uint64("print-interval", 100, "Print timing stats to stderr after this many queries (0 to disable)")
	fs.String("memprofile", "", "Write a memory profile to this file.")
	fs.String("hdr-latencies", "", "Write the High Dynamic Range (HDR) Histogram of Response Latencies to this file.")
	fs.Uint("workers", 1, "Number of concurrent requests to make.")
	fs.Bool("print-responses", false, "Pretty print response bodies for correctness checking (default false).")
	fs.Int("debug", 0, "Whether to print debug messages.")
	fs.String("results-file", "", "Write the test results summary json to this file")
}

// BenchmarkRunner executes every query of a canned suite a configured number
// of times and aggregates the latency statistics.
type BenchmarkRunner struct {
	BenchmarkRunnerConfig
	sp              statProcessor
	ch              chan job
	limit           uint64
	recommendations []string
}

type job struct {
	query  Query
	warmup bool
}

func NewBenchmarkRunner(config BenchmarkRunnerConfig) *BenchmarkRunner {
	if config.Iterations == 0 {
		panic("must run at least one timed iteration per query")
	}
	runner := &BenchmarkRunner{BenchmarkRunnerConfig: config}
	spArgs := &statProcessorArgs{
		limit:            &runner.limit,
		printInterval:    runner.PrintInterval,
		burnIn:           runner.BurnIn,
		hdrLatenciesFile: runner.HDRLatenciesFile,
	}
	runner.sp = newStatProcessor(spArgs)
	return runner
}

func (b *BenchmarkRunner) DoPrintResponses() bool {
	return b.PrintResponses
}

func (b *BenchmarkRunner) DebugLevel() int {
	return b.Debug
}

func (b *BenchmarkRunner) DatabaseName() string {
	return b.DBName
}

type ProcessorCreate func() Processor

// Processor executes a single query and reports its latency stats.
type Processor interface {
	Init(workerNum int)
	ProcessQuery(q Query, isWarmup bool) ([]*Stat, error)
}

// Run executes the given suite: every query is run Warmups times (discarded)
// followed by Iterations timed runs, spread over the configured workers.
func (b *BenchmarkRunner) Run(queries []Query, processorCreateFn ProcessorCreate) {
	if b.Workers == 0 {
		panic("must have at least one worker")
	}
	if len(queries) == 0 {
		panic("query suite is empty")
	}

	b.limit = b.Iterations * uint64(len(queries))
	if b.BurnIn > b.limit {
		panic("burn-in is larger than the number of timed queries")
	}
	b.ch = make(chan job, b.Workers)

	// The stat channel exists before any worker starts, a worker may send
	// before the processing goroutine is scheduled.
	b.sp.prepare(b.Workers)
	go b.sp.process(b.Workers)

	rateLimiter := getRateLimiter(b.LimitRPS, b.Workers)

	var wg sync.WaitGroup
	for i := 0; i < int(b.Workers); i++ {
		wg.Add(1)
		go b.processorHandler(&wg, rateLimiter, processorCreateFn(), i)
	}

	wallStart := time.Now()
	id := uint64(0)
	for _, q := range queries {
		q.SetID(id)
		id++
		for w := uint64(0); w < b.Warmups; w++ {
			b.ch <- job{query: q, warmup: true}
		}
		for n := uint64(0); n < b.Iterations; n++ {
			b.ch <- job{query: q}
		}
	}
	close(b.ch)

	wg.Wait()
	b.sp.CloseAndWait()

	wallEnd := time.Now()
	wallTook := wallEnd.Sub(wallStart)
	_, err := fmt.Printf("wall clock time: %fsec\n", float64(wallTook.Nanoseconds())/1e9)
	if err != nil {
		log.Fatal(err)
	}

	b.recommendations = deriveRecommendations(b.sp.GetGroups())
	if len(b.recommendations) > 0 {
		fmt.Println("Recommendations:")
		for _, r := range b.recommendations {
			fmt.Printf("  - %s\n", r)
		}
	}

	for _, q := range queries {
		q.Release()
	}

	if len(b.MemProfile) > 0 {
		f, err := os.Create(b.MemProfile)
		if err != nil {
			log.Fatal(err)
		}
		pprof.WriteHeapProfile(f)
		f.Close()
	}

	if len(b.BenchmarkRunnerConfig.ResultsFile) > 0 {
		b.saveTestResult(wallTook, wallStart, wallEnd)
	}
}

// deriveRecommendations flags queries whose latency profile indicates a
// missing index, an overly wide scan or an undersized deployment.
func deriveRecommendations(groups map[string]*statGroup) []string {
	labels := make([]string, 0, len(groups))
	for label := range groups {
		if label == labelAllQueries {
			continue
		}
		labels = append(labels, label)
	}
	sort.Strings(labels)

	var recs []string
	for _, label := range labels {
		g := groups[label]
		if g.Mean() > slowMeanThresholdMs {
			recs = append(recs, fmt.Sprintf("%s: mean latency %.0fms exceeds %.0fms, consider narrowing the time range or adding an index", label, g.Mean(), slowMeanThresholdMs))
		}
		if g.StdDev() > highVarianceThresholdMs {
			recs = append(recs, fmt.Sprintf("%s: latency stddev %.0fms exceeds %.0fms, results are unstable, check for cache pressure or concurrent load", label, g.StdDev(), highVarianceThresholdMs))
		}
		if g.rows > 0 && g.RowThroughput() < lowRowThroughput {
			recs = append(recs, fmt.Sprintf("%s: row throughput %.1f rows/sec is below %.0f, the query shape may not match the storage layout", label, g.RowThroughput(), lowRowThroughput))
		}
	}
	return recs
}

func (b *BenchmarkRunner) saveTestResult(took time.Duration, start time.Time, end time.Time) {
	totals := b.sp.GetTotalsMap()
	totals["recommendations"] = b.recommendations

	testResult := LoaderTestResult{
		ResultFormatVersion: BenchmarkTestResultVersion,
		RunnerConfig:        b.BenchmarkRunnerConfig,
		StartTime:           start.UTC().Unix() * 1000,
		EndTime:             end.UTC().Unix() * 1000,
		DurationMillis:      took.Milliseconds(),
		Totals:              totals,
	}

	_, _ = fmt.Printf("Saving results json file to %s\n", b.BenchmarkRunnerConfig.ResultsFile)
	file, err := json.MarshalIndent(testResult, "", " ")
	if err != nil {
		log.Fatal(err)
	}

	err = ioutil.WriteFile(b.BenchmarkRunnerConfig.ResultsFile, file, 0644)
	if err != nil {
		log.Fatal(err)
	}
}

func (b *BenchmarkRunner) processorHandler(wg *sync.WaitGroup, rateLimiter *rate.Limiter, processor Processor, workerNum int) {
	processor.Init(workerNum)
	for job := range b.ch {
		r := rateLimiter.Reserve()
		time.Sleep(r.Delay())

		stats, err := processor.ProcessQuery(job.query, job.warmup)
		if err != nil {
			fmt.Fprintf(os.Stderr, "query %s failed: %v\n", job.query.HumanLabelName(), err)
			failed := GetStat().Init(job.query.HumanLabelName(), 0, 0).MarkFailed()
			b.sp.send([]*Stat{failed})
			continue
		}
		if job.warmup {
			for _, s := range stats {
				s.MarkWarmup()
			}
		}
		b.sp.send(stats)
	}
	wg.Done()
}

func getRateLimiter(limitRPS uint64, workers uint) *rate.Limiter {
	var requestRate = rate.Inf
	var requestBurst = 0
	if limitRPS != 0 {
		requestRate = rate.Limit(limitRPS)
		requestBurst = int(workers)
	}
	return rate.NewLimiter(requestRate, requestBurst)
}
