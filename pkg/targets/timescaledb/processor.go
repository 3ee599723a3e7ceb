package timescaledb

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/vitalbench/vitalbench/pkg/targets"
)

const insertColumns = "time,patient_id,device_id,vital_type,department,data_sensitivity,ingestion_batch,vital_value,is_alert,confidence"

const fieldsPerReading = 3

type processor struct {
	opts *LoadingOptions
	db   *sql.DB

	dbName string
}

func (p *processor) Init(workerNum int, doLoad, _ bool) {
	if !doLoad {
		return
	}
	p.db = MustConnect(p.opts.Driver(), p.opts.GetConnectString(p.dbName))
}

func (p *processor) ProcessBatch(b targets.Batch, doLoad bool) (metricCount, rowCount uint64) {
	batch := b.(*batch)
	rowCount = uint64(len(batch.readings))
	metricCount = rowCount * fieldsPerReading
	if !doLoad || rowCount == 0 {
		return metricCount, rowCount
	}

	var sb strings.Builder
	sb.Grow(len(batch.readings) * 160)
	fmt.Fprintf(&sb, "INSERT INTO %s (%s) VALUES ", tableName, insertColumns)
	for i, r := range batch.readings {
		if i > 0 {
			sb.WriteByte(',')
		}
		fmt.Fprintf(&sb, "('%s','%s','%s','%s','%s','%s','%s',%v,%d,%v)",
			r.Timestamp.UTC().Format("2006-01-02 15:04:05.999999999-07"),
			r.PatientID, r.DeviceID, r.VitalType, r.Department,
			r.DataSensitivity, r.IngestionBatch,
			r.Value, r.AlertFlag, r.Confidence)
	}

	MustExec(p.db, sb.String())
	return metricCount, rowCount
}

func (p *processor) Close(doLoad bool) {
	if p.db != nil {
		p.db.Close()
	}
}
