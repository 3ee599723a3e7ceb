package influx

import (
	"context"
	"log"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/vitalbench/vitalbench/pkg/dataset"
	vbinflux "github.com/vitalbench/vitalbench/pkg/influx"
	"github.com/vitalbench/vitalbench/pkg/health"
	"github.com/vitalbench/vitalbench/pkg/targets"
)

var fatal = log.Fatalf

const fieldsPerReading = 3

type processor struct {
	client *vbinflux.Client
	bucket string
	mode   string
	config SpecificConfig

	asyncAPI api.WriteAPI
	raw      *vbinflux.RawWriter
	lineBuf  []byte
}

func (p *processor) Init(workerNum int, doLoad, _ bool) {
	if !doLoad {
		return
	}
	switch p.mode {
	case WriteModeAsync:
		p.asyncAPI = p.client.AsyncWriter(p.bucket)
		errCh := p.asyncAPI.Errors()
		go func() {
			for err := range errCh {
				log.Printf("async write error: %v", err)
			}
		}()
	case WriteModeRaw:
		p.raw = vbinflux.NewRawWriter(p.config.Config, p.bucket)
		p.lineBuf = make([]byte, 0, 4<<20)
	}
}

func (p *processor) ProcessBatch(b targets.Batch, doLoad bool) (metricCount, rowCount uint64) {
	batch := b.(*batch)
	rowCount = uint64(len(batch.readings))
	metricCount = rowCount * fieldsPerReading
	if !doLoad {
		return metricCount, rowCount
	}

	switch p.mode {
	case WriteModeBlocking:
		if err := p.client.WriteBatch(context.Background(), p.bucket, toPoints(batch.readings)); err != nil {
			fatal("batch write failed: %v", err)
		}
	case WriteModeAsync:
		for _, pt := range toPoints(batch.readings) {
			p.asyncAPI.WritePoint(pt)
		}
	case WriteModeRaw:
		p.lineBuf = p.lineBuf[:0]
		for _, r := range batch.readings {
			p.lineBuf = vbinflux.AppendReading(p.lineBuf, r)
		}
		p.sendRaw()
	}

	return metricCount, rowCount
}

// sendRaw retries failed posts the same way the client-library path does:
// three attempts, exponential backoff.
func (p *processor) sendRaw() {
	var err error
	for attempt := 0; attempt < 3; attempt++ {
		_, _, err = p.raw.Send(p.lineBuf)
		if err == nil {
			return
		}
		if attempt < 2 {
			time.Sleep(time.Duration(1<<uint(attempt)) * time.Second)
		}
	}
	fatal("raw batch write failed: %v", err)
}

func (p *processor) Close(doLoad bool) {
	if doLoad && p.asyncAPI != nil {
		p.asyncAPI.Flush()
	}
}

func toPoints(readings []*dataset.Reading) []*write.Point {
	points := make([]*write.Point, len(readings))
	for i, r := range readings {
		points[i] = influxdb2.NewPointWithMeasurement(string(health.MeasurementName)).
			AddTag("patient_id", r.PatientID).
			AddTag("vital_type", r.VitalType).
			AddTag("patient_department", r.Department).
			AddTag("device_id", r.DeviceID).
			AddTag("data_classification", r.DataSensitivity).
			AddField("vital_value", r.Value).
			AddField("is_alert", r.AlertFlag == 1).
			AddField("confidence", r.Confidence).
			SetTime(r.Timestamp)
	}
	return points
}
