// Package targets defines the contract between the loader and the database
// backends data is imported into.
package targets

import (
	"github.com/vitalbench/vitalbench/pkg/data"
)

type Batch interface {
	Len() uint
	Append(data.LoadedPoint)
}

type BatchFactory interface {
	New() Batch
}

type PointIndexer interface {
	GetIndex(data.LoadedPoint) uint
}

// ConstantIndexer sends everything to the same partition.
type ConstantIndexer struct{}

func (i *ConstantIndexer) GetIndex(_ data.LoadedPoint) uint {
	return 0
}

type Benchmark interface {
	GetDataSource() DataSource

	GetBatchFactory() BatchFactory

	GetPointIndexer(maxPartitions uint) PointIndexer

	GetProcessor() Processor

	GetDBCreator() DBCreator
}

type DataSource interface {
	NextItem() data.LoadedPoint
	Headers() *data.GeneratedDataHeaders
}
