// Package query provides the facilities to run a canned suite of benchmark
// queries against a database and collect latency statistics for them.
package query

import (
	"fmt"
	"sync"
)

// Query is a single benchmark query ready for execution against one of the
// supported databases.
type Query interface {
	Release()
	HumanLabelName() []byte
	HumanDescriptionName() []byte
	GetID() uint64
	SetID(uint64)
	fmt.Stringer
}

// Flux is a Query expressed in the Flux language for InfluxDB 2.x.
type Flux struct {
	HumanLabel       []byte
	HumanDescription []byte
	RawQuery         []byte
	id               uint64
}

var FluxPool = sync.Pool{
	New: func() interface{} {
		return &Flux{
			HumanLabel:       make([]byte, 0, 1024),
			HumanDescription: make([]byte, 0, 1024),
			RawQuery:         make([]byte, 0, 1024),
		}
	},
}

func NewFlux() *Flux {
	return FluxPool.Get().(*Flux)
}

func (q *Flux) GetID() uint64 {
	return q.id
}

func (q *Flux) SetID(n uint64) {
	q.id = n
}

func (q *Flux) String() string {
	return fmt.Sprintf("HumanLabel: %s, HumanDescription: %s, Query: %s", q.HumanLabel, q.HumanDescription, q.RawQuery)
}

func (q *Flux) HumanLabelName() []byte {
	return q.HumanLabel
}

func (q *Flux) HumanDescriptionName() []byte {
	return q.HumanDescription
}

func (q *Flux) Release() {
	q.HumanLabel = q.HumanLabel[:0]
	q.HumanDescription = q.HumanDescription[:0]
	q.RawQuery = q.RawQuery[:0]
	q.id = 0

	FluxPool.Put(q)
}

// SQL is a Query expressed in SQL for PostgreSQL/TimescaleDB.
type SQL struct {
	HumanLabel       []byte
	HumanDescription []byte
	Table            []byte
	SqlQuery         []byte
	id               uint64
}

var SQLPool = sync.Pool{
	New: func() interface{} {
		return &SQL{
			HumanLabel:       make([]byte, 0, 1024),
			HumanDescription: make([]byte, 0, 1024),
			Table:            make([]byte, 0, 1024),
			SqlQuery:         make([]byte, 0, 1024),
		}
	},
}

func NewSQL() *SQL {
	return SQLPool.Get().(*SQL)
}

func (q *SQL) GetID() uint64 {
	return q.id
}

func (q *SQL) SetID(n uint64) {
	q.id = n
}

func (q *SQL) String() string {
	return fmt.Sprintf("HumanLabel: %s, HumanDescription: %s, Table: %s, Query: %s", q.HumanLabel, q.HumanDescription, q.Table, q.SqlQuery)
}

func (q *SQL) HumanLabelName() []byte {
	return q.HumanLabel
}

func (q *SQL) HumanDescriptionName() []byte {
	return q.HumanDescription
}

func (q *SQL) Release() {
	q.HumanLabel = q.HumanLabel[:0]
	q.HumanDescription = q.HumanDescription[:0]
	q.Table = q.Table[:0]
	q.SqlQuery = q.SqlQuery[:0]
	q.id = 0

	SQLPool.Put(q)
}
