// Package mongo implements the loader target that imports the vitals
// dataset into MongoDB for cross-database comparison.
package mongo

import (
	"time"

	"github.com/spf13/pflag"

	"github.com/vitalbench/vitalbench/pkg/data"
	"github.com/vitalbench/vitalbench/pkg/dataset"
	"github.com/vitalbench/vitalbench/pkg/targets"
	"github.com/vitalbench/vitalbench/pkg/targets/common"
)

const collectionName = "patient_vitals"

type LoadingOptions struct {
	URL     string        `yaml:"url" mapstructure:"url"`
	Timeout time.Duration `yaml:"write-timeout" mapstructure:"write-timeout"`
}

func (o LoadingOptions) AddToFlagSet(fs *pflag.FlagSet) {
	fs.String("url", "mongodb://localhost:27017", "MongoDB URL")
	fs.Duration("write-timeout", 10*time.Second, "Timeout for all operations")
}

type Benchmark struct {
	opts     *LoadingOptions
	dbName   string
	fileName string
}

func NewBenchmark(opts *LoadingOptions, dbName, fileName string) targets.Benchmark {
	return &Benchmark{opts: opts, dbName: dbName, fileName: fileName}
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
	return &processor{opts: b.opts, dbName: b.dbName}
}

func (b *Benchmark) GetDBCreator() targets.DBCreator {
	return &dbCreator{opts: b.opts}
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
