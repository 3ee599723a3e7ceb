package mongo

import (
	"time"

	"github.com/globalsign/mgo"

	"github.com/vitalbench/vitalbench/pkg/targets"
)

const fieldsPerReading = 3

type vitalDoc struct {
	Timestamp       time.Time `bson:"timestamp"`
	PatientID       string    `bson:"patient_id"`
	DeviceID        string    `bson:"device_id"`
	VitalType       string    `bson:"vital_type"`
	Department      string    `bson:"department"`
	DataSensitivity string    `bson:"data_sensitivity"`
	IngestionBatch  string    `bson:"ingestion_batch"`
	VitalValue      float64   `bson:"vital_value"`
	IsAlert         bool      `bson:"is_alert"`
	Confidence      float64   `bson:"confidence"`
}

type processor struct {
	opts   *LoadingOptions
	dbName string

	session    *mgo.Session
	collection *mgo.Collection
}

func (p *processor) Init(workerNum int, doLoad, _ bool) {
	if !doLoad {
		return
	}
	var err error
	p.session, err = mgo.DialWithTimeout(p.opts.URL, p.opts.Timeout)
	if err != nil {
		fatal("cannot dial mongo: %v", err)
	}
	p.session.SetMode(mgo.Monotonic, true)
	p.collection = p.session.DB(p.dbName).C(collectionName)
}

func (p *processor) ProcessBatch(b targets.Batch, doLoad bool) (metricCount, rowCount uint64) {
	batch := b.(*batch)
	rowCount = uint64(len(batch.readings))
	metricCount = rowCount * fieldsPerReading
	if !doLoad || rowCount == 0 {
		return metricCount, rowCount
	}

	docs := make([]interface{}, len(batch.readings))
	for i, r := range batch.readings {
		docs[i] = vitalDoc{
			Timestamp:       r.Timestamp,
			PatientID:       r.PatientID,
			DeviceID:        r.DeviceID,
			VitalType:       r.VitalType,
			Department:      r.Department,
			DataSensitivity: r.DataSensitivity,
			IngestionBatch:  r.IngestionBatch,
			VitalValue:      r.Value,
			IsAlert:         r.AlertFlag == 1,
			Confidence:      r.Confidence,
		}
	}

	bulk := p.collection.Bulk()
	bulk.Unordered()
	bulk.Insert(docs...)
	if _, err := bulk.Run(); err != nil {
		fatal("bulk insert failed: %v", err)
	}
	return metricCount, rowCount
}

func (p *processor) Close(doLoad bool) {
	if p.session != nil {
		p.session.Close()
	}
}
