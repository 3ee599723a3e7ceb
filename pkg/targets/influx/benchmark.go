// Package influx implements the loader target that imports the vitals
// dataset into InfluxDB v2 through the vendor client library.
package influx

import (
	"github.com/pkg/errors"
	"github.com/spf13/pflag"

	"github.com/vitalbench/vitalbench/internal/utils"
	"github.com/vitalbench/vitalbench/pkg/data"
	"github.com/vitalbench/vitalbench/pkg/dataset"
	vbinflux "github.com/vitalbench/vitalbench/pkg/influx"
	"github.com/vitalbench/vitalbench/pkg/targets"
	"github.com/vitalbench/vitalbench/pkg/targets/common"
)

const (
	WriteModeBlocking = "blocking"
	WriteModeAsync    = "async"
	WriteModeRaw      = "raw"
)

var writeModes = []string{WriteModeBlocking, WriteModeAsync, WriteModeRaw}

type SpecificConfig struct {
	vbinflux.Config `mapstructure:",squash"`

	WriteMode string `yaml:"write-mode" mapstructure:"write-mode"`
}

func (c SpecificConfig) AddToFlagSet(fs *pflag.FlagSet) {
	c.Config.AddToFlagSet(fs)
	fs.String("write-mode", WriteModeBlocking, "How to write batches: blocking, async, or raw (line protocol over HTTP)")
}

type Benchmark struct {
	config   SpecificConfig
	bucket   string
	fileName string
	client   *vbinflux.Client
}

func NewBenchmark(config SpecificConfig, bucket, fileName string) (targets.Benchmark, error) {
	if !utils.IsIn(config.WriteMode, writeModes) {
		return nil, errors.Errorf("invalid write mode: %s", config.WriteMode)
	}
	return &Benchmark{
		config:   config,
		bucket:   bucket,
		fileName: fileName,
		client:   vbinflux.NewClient(config.Config),
	}, nil
}

func (b *Benchmark) GetDataSource() targets.DataSource {
	return common.NewCSVDataSource(b.fileName)
}

func (b *Benchmark) GetBatchFactory() targets.BatchFactory {
	return &batchFactory{}
}

func (b *Benchmark) GetPointIndexer(maxPartitions uint) targets.PointIndexer {
	if maxPartitions > 1 {
		return common.NewPatientPointIndexer(maxPartitions)
	}
	return &targets.ConstantIndexer{}
}

func (b *Benchmark) GetProcessor() targets.Processor {
	return &processor{client: b.client, bucket: b.bucket, mode: b.config.WriteMode, config: b.config}
}

func (b *Benchmark) GetDBCreator() targets.DBCreator {
	return &dbCreator{client: b.client}
}

// Client exposes the shared connection for post-load verification.
func (b *Benchmark) Client() *vbinflux.Client {
	return b.client
}

type batch struct {
	readings []*dataset.Reading
}

func (b *batch) Len() uint {
	return uint(len(b.readings))
}

func (b *batch) Append(item data.LoadedPoint) {
	b.readings = append(b.readings, item.Data.(*dataset.Reading))
}

type batchFactory struct{}

func (f *batchFactory) New() targets.Batch {
	return &batch{readings: make([]*dataset.Reading, 0, 1024)}
}
