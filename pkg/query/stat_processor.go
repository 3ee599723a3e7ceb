package query

import (
	"bufio"
	"bytes"
	"fmt"
	"io/ioutil"
	"log"
	"os"
	"regexp"
	"sync"
	"sync/atomic"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
	"github.com/shirou/gopsutil/cpu"
	"github.com/shirou/gopsutil/mem"
)

type statProcessor interface {
	getArgs() *statProcessorArgs
	send(stats []*Stat)
	prepare(workers uint)
	process(workers uint)
	CloseAndWait()
	GetTotalsMap() map[string]interface{}
	GetGroups() map[string]*statGroup
}

type statProcessorArgs struct {
	limit            *uint64
	burnIn           uint64
	printInterval    uint64
	hdrLatenciesFile string
}

type defaultStatProcessor struct {
	args        *statProcessorArgs
	wg          sync.WaitGroup
	c           chan *Stat
	opsCount    uint64
	warmupCount uint64
	errorCount  uint64
	startTime   time.Time
	statMapping map[string]*statGroup
}

func newStatProcessor(args *statProcessorArgs) statProcessor {
	if args == nil {
		panic("stat processor needs args")
	}
	return &defaultStatProcessor{args: args}
}

func (sp *defaultStatProcessor) getArgs() *statProcessorArgs {
	return sp.args
}

func (sp *defaultStatProcessor) send(stats []*Stat) {
	if stats == nil {
		return
	}

	for _, s := range stats {
		sp.c <- s
	}
}

// prepare sets up the stat channel. It has to run before any worker can
// send, the processing goroutine may start later.
func (sp *defaultStatProcessor) prepare(workers uint) {
	sp.c = make(chan *Stat, workers)
	sp.wg.Add(1)
}

func (sp *defaultStatProcessor) process(workers uint) {
	const allQueriesLabel = labelAllQueries
	sp.statMapping = map[string]*statGroup{
		allQueriesLabel: newStatGroup(*sp.args.limit),
	}

	i := uint64(0)
	sp.startTime = time.Now()
	prevTime := sp.startTime
	prevRequestCount := uint64(0)

	for stat := range sp.c {
		atomic.AddUint64(&sp.opsCount, 1)

		// Warmup executions prime the caches, they never feed the
		// statistics.
		if stat.isWarmup {
			atomic.AddUint64(&sp.warmupCount, 1)
			statPool.Put(stat)
			continue
		}
		if stat.failed {
			atomic.AddUint64(&sp.errorCount, 1)
			statPool.Put(stat)
			continue
		}

		if i < sp.args.burnIn {
			i++
			statPool.Put(stat)
			continue
		} else if i == sp.args.burnIn && sp.args.burnIn > 0 {
			_, err := fmt.Fprintf(os.Stderr, "burn-in complete after %d queries with %d workers\n", sp.args.burnIn, workers)
			if err != nil {
				log.Fatal(err)
			}

			sp.startTime = time.Now()
			prevTime = sp.startTime
			prevRequestCount = sp.args.burnIn
		}
		if _, ok := sp.statMapping[string(stat.label)]; !ok {
			sp.statMapping[string(stat.label)] = newStatGroup(*sp.args.limit)
		}

		sp.statMapping[string(stat.label)].push(stat.value, stat.rowCount)
		sp.statMapping[allQueriesLabel].push(stat.value, stat.rowCount)
		i++

		statPool.Put(stat)

		if sp.args.printInterval > 0 && i > 0 && i%sp.args.printInterval == 0 && (i < *sp.args.limit || *sp.args.limit == 0) {
			now := time.Now()
			sinceStart := now.Sub(sp.startTime)
			took := now.Sub(prevTime)

			intervalQueryRate := float64(sp.opsCount-prevRequestCount) / took.Seconds()
			overallQueryRate := float64(sp.opsCount-sp.args.burnIn) / sinceStart.Seconds()

			_, err := fmt.Fprintf(os.Stderr, "After %d queries with %d workers:\n\tInterval query rate: %0.4f queries/sec\tOverall query rate: %0.4f queries/sec\n",
				i-sp.args.burnIn,
				workers,
				intervalQueryRate,
				overallQueryRate,
			)
			if err != nil {
				log.Fatal(err)
			}
			err = writeStatGroupMap(os.Stderr, sp.statMapping)
			if err != nil {
				log.Fatal(err)
			}
			_, err = fmt.Fprintf(os.Stderr, "\n")
			if err != nil {
				log.Fatal(err)
			}
			prevRequestCount = sp.opsCount
			prevTime = now
		}
	}
	sinceStart := time.Now().Sub(sp.startTime)
	overallQueryRate := float64(i-sp.args.burnIn) / sinceStart.Seconds()

	_, err := fmt.Printf("Run complete after %d queries with %d workers (%d warmups discarded, %d errors):\n\t(Overall query rate %0.4f queries/sec)\n",
		i-sp.args.burnIn, workers, sp.warmupCount, sp.errorCount, overallQueryRate)
	if err != nil {
		log.Fatal(err)
	}
	err = writeStatGroupMap(os.Stdout, sp.statMapping)
	if err != nil {
		log.Fatal(err)
	}

	if len(sp.args.hdrLatenciesFile) > 0 {
		_, _ = fmt.Printf("Saving High Dynamic Range (HDR) Histogram of Response Latencies to %s\n", sp.args.hdrLatenciesFile)
		var b bytes.Buffer
		bw := bufio.NewWriter(&b)
		_, err = sp.statMapping[allQueriesLabel].latencyHDRHistogram.PercentilesPrint(bw, 10, 1000.0)
		if err != nil {
			log.Fatal(err)
		}
		err = ioutil.WriteFile(sp.args.hdrLatenciesFile, b.Bytes(), 0644)
		if err != nil {
			log.Fatal(err)
		}
	}

	sp.wg.Done()
}

func generateQuantileMap(hist *hdrhistogram.Histogram) (int64, map[string]float64) {
	ops := hist.TotalCount()
	q0 := 0.0
	q50 := 0.0
	q95 := 0.0
	q99 := 0.0
	q999 := 0.0
	q100 := 0.0
	if ops > 0 {
		q0 = float64(hist.ValueAtQuantile(0.0)) / hdrScaleFactor
		q50 = float64(hist.ValueAtQuantile(50.0)) / hdrScaleFactor
		q95 = float64(hist.ValueAtQuantile(95.0)) / hdrScaleFactor
		q99 = float64(hist.ValueAtQuantile(99.0)) / hdrScaleFactor
		q999 = float64(hist.ValueAtQuantile(99.90)) / hdrScaleFactor
		q100 = float64(hist.ValueAtQuantile(100.0)) / hdrScaleFactor
	}

	mp := map[string]float64{"q0": q0, "q50": q50, "q95": q95, "q99": q99, "q999": q999, "q100": q100}
	return ops, mp
}

func (sp *defaultStatProcessor) GetTotalsMap() map[string]interface{} {
	totals := make(map[string]interface{})
	totals["limit"] = sp.args.limit
	totals["burnIn"] = sp.args.burnIn
	totals["warmupQueries"] = sp.warmupCount
	totals["errorQueries"] = sp.errorCount
	sinceStart := time.Now().Sub(sp.startTime)
	queryRates := make(map[string]interface{})
	for label, statGroup := range sp.statMapping {
		overallQueryRate := float64(statGroup.count) / sinceStart.Seconds()
		queryRates[stripRegex(label)] = overallQueryRate
	}
	totals["overallQueryRates"] = queryRates
	quantiles := make(map[string]interface{})
	for label, statGroup := range sp.statMapping {
		_, all := generateQuantileMap(statGroup.latencyHDRHistogram)
		quantiles[stripRegex(label)] = all
	}
	totals["overallQuantiles"] = quantiles
	rowRates := make(map[string]interface{})
	for label, statGroup := range sp.statMapping {
		rowRates[stripRegex(label)] = statGroup.RowThroughput()
	}
	totals["rowThroughputs"] = rowRates
	totals["host"] = hostTelemetry()
	return totals
}

// GetGroups exposes the per-label latency groups after the run completes so
// the caller can derive per-query recommendations.
func (sp *defaultStatProcessor) GetGroups() map[string]*statGroup {
	return sp.statMapping
}

func hostTelemetry() map[string]interface{} {
	host := make(map[string]interface{})
	if n, err := cpu.Counts(true); err == nil {
		host["logicalCPUs"] = n
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		host["memoryTotalBytes"] = vm.Total
		host["memoryUsedPercent"] = vm.UsedPercent
	}
	return host
}

func stripRegex(in string) string {
	reg, _ := regexp.Compile("[^a-zA-Z0-9]+")
	return reg.ReplaceAllString(in, "_")
}

func (sp *defaultStatProcessor) CloseAndWait() {
	close(sp.c)
	sp.wg.Wait()
}
