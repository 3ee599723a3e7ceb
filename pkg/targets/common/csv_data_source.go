// Package common holds loader pieces shared by every import target: the CSV
// data source and the patient-affinity point indexer.
package common

import (
	"hash/fnv"
	"log"

	"github.com/vitalbench/vitalbench/load"
	"github.com/vitalbench/vitalbench/pkg/data"
	"github.com/vitalbench/vitalbench/pkg/dataset"
	"github.com/vitalbench/vitalbench/pkg/health"
	"github.com/vitalbench/vitalbench/pkg/targets"
)

var fatal = log.Fatalf

func NewCSVDataSource(fileName string) targets.DataSource {
	br := load.GetBufferedReader(fileName)
	r, err := dataset.NewReader(br)
	if err != nil {
		fatal("cannot read dataset: %v", err)
		return nil
	}
	return &csvDataSource{reader: r}
}

type csvDataSource struct {
	reader  *dataset.Reader
	headers *data.GeneratedDataHeaders
}

func (d *csvDataSource) Headers() *data.GeneratedDataHeaders {
	if d.headers == nil {
		d.headers = &data.GeneratedDataHeaders{
			TagKeys: []string{
				"patient_id", "device_id", "vital_type",
				"department", "data_sensitivity", "ingestion_batch",
			},
			TagTypes: []string{
				"string", "string", "string", "string", "string", "string",
			},
			FieldKeys: map[string][]string{
				string(health.MeasurementName): {"vital_value", "is_alert", "confidence"},
			},
		}
	}
	return d.headers
}

func (d *csvDataSource) NextItem() data.LoadedPoint {
	reading, ok, err := d.reader.Next()
	if err != nil {
		fatal("scan error: %v", err)
		return data.LoadedPoint{}
	}
	if !ok {
		return data.LoadedPoint{}
	}
	r := reading
	return data.NewLoadedPoint(&r)
}

// PatientPointIndexer keeps all readings of a patient on the same worker so
// per-patient insert order is preserved.
type PatientPointIndexer struct {
	partitions uint
}

func NewPatientPointIndexer(maxPartitions uint) *PatientPointIndexer {
	return &PatientPointIndexer{partitions: maxPartitions}
}

func (i *PatientPointIndexer) GetIndex(p data.LoadedPoint) uint {
	r := p.Data.(*dataset.Reading)
	h := fnv.New32a()
	h.Write([]byte(r.PatientID))
	return uint(h.Sum32()) % i.partitions
}
