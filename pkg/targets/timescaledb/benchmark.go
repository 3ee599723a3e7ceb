// Package timescaledb implements the loader target that imports the vitals
// dataset into PostgreSQL/TimescaleDB for cross-database comparison.
package timescaledb

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"

	"github.com/vitalbench/vitalbench/pkg/data"
	"github.com/vitalbench/vitalbench/pkg/dataset"
	"github.com/vitalbench/vitalbench/pkg/targets"
	"github.com/vitalbench/vitalbench/pkg/targets/common"
)

const (
	pgxDriver = "pgx"
	pqDriver  = "postgres"

	tableName = "patient_vitals"
)

type LoadingOptions struct {
	Host            string        `yaml:"host" mapstructure:"host"`
	Port            string        `yaml:"port" mapstructure:"port"`
	User            string        `yaml:"user" mapstructure:"user"`
	Pass            string        `yaml:"pass" mapstructure:"pass"`
	ConnDB          string        `yaml:"admin-db-name" mapstructure:"admin-db-name"`
	UseHypertable   bool          `yaml:"use-hypertable" mapstructure:"use-hypertable"`
	ChunkTime       time.Duration `yaml:"chunk-time" mapstructure:"chunk-time"`
	CreateIndexes   bool          `yaml:"create-indexes" mapstructure:"create-indexes"`
	ForceTextFormat bool          `yaml:"force-text-format" mapstructure:"force-text-format"`
}

func (o LoadingOptions) AddToFlagSet(fs *pflag.FlagSet) {
	fs.String("host", "localhost", "PostgreSQL host")
	fs.String("port", "5432", "Which port to connect to on the database host")
	fs.String("user", "postgres", "User to connect to PostgreSQL as")
	fs.String("pass", "", "Password for the user connecting to PostgreSQL (leave blank if not password protected)")
	fs.String("admin-db-name", "postgres", "Database to connect to for creating the benchmark database")
	fs.Bool("use-hypertable", true, "Whether to make the readings table a hypertable")
	fs.Duration("chunk-time", 12*time.Hour, "Duration that each chunk of the hypertable covers")
	fs.Bool("create-indexes", true, "Whether to build the patient and time indexes after table creation")
	fs.Bool("force-text-format", false, "Send/receive data in text format (uses the pq driver instead of pgx)")
}

func (o *LoadingOptions) Driver() string {
	if o.ForceTextFormat {
		return pqDriver
	}
	return pgxDriver
}

func (o *LoadingOptions) GetConnectString(dbName string) string {
	connStr := fmt.Sprintf("host=%s dbname=%s user=%s sslmode=disable", o.Host, dbName, o.User)
	if len(o.Port) > 0 {
		connStr = fmt.Sprintf("%s port=%s", connStr, o.Port)
	}
	if len(o.Pass) > 0 {
		connStr = fmt.Sprintf("%s password=%s", connStr, o.Pass)
	}
	return connStr
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
