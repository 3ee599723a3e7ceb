// Package dataset reads and writes the vitals CSV dataset and its schema
// sidecar, and validates generated files before they are loaded anywhere.
package dataset

import (
	"encoding/json"
	"os"

	"github.com/vitalbench/vitalbench/pkg/health"
)

// Column order of the dataset CSV. Loaders rely on this order, so it is
// fixed here rather than sniffed from the header.
var Columns = []string{
	"timestamp",
	"patient_id",
	"device_id",
	"vital_type",
	"value",
	"alert_flag",
	"department",
	"confidence",
	"data_sensitivity",
	"ingestion_batch",
}

type ColumnInfo struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
}

type TimeRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type UniqueCounts struct {
	Patients   int `json:"patients"`
	Devices    int `json:"devices"`
	VitalTypes int `json:"vital_types"`
	Departments int `json:"departments"`
}

type Statistics struct {
	AlertPercentage float64            `json:"alert_percentage"`
	AvgValueByVital map[string]float64 `json:"avg_value_by_vital"`
}

// Schema is the JSON sidecar written next to the CSV.
type Schema struct {
	DatasetName  string             `json:"dataset_name"`
	RecordsCount uint64             `json:"records_count"`
	TimeRange    TimeRange          `json:"time_range"`
	UniqueCounts UniqueCounts       `json:"unique_counts"`
	Columns      []ColumnInfo       `json:"columns"`
	Units        map[string]string  `json:"units"`
	Statistics   Statistics         `json:"statistics"`
}

func NewSchema() *Schema {
	units := make(map[string]string, len(health.VitalKinds))
	for _, k := range health.VitalKinds {
		units[k.Name] = k.Unit
	}
	return &Schema{
		DatasetName: "Health IoT Vital Signs",
		Columns: []ColumnInfo{
			{Name: "timestamp", Type: "datetime", Description: "Measurement timestamp"},
			{Name: "patient_id", Type: "string", Description: "Patient identifier"},
			{Name: "device_id", Type: "string", Description: "Medical device identifier"},
			{Name: "vital_type", Type: "string", Description: "Type of vital sign"},
			{Name: "value", Type: "float", Description: "Vital sign measurement value"},
			{Name: "alert_flag", Type: "integer", Description: "1 if alert condition, 0 otherwise"},
			{Name: "department", Type: "string", Description: "Hospital department"},
			{Name: "confidence", Type: "float", Description: "Sensor confidence score"},
			{Name: "data_sensitivity", Type: "string", Description: "Data classification (PHI)"},
			{Name: "ingestion_batch", Type: "string", Description: "Batch identifier for ingestion"},
		},
		Units: units,
	}
}

func (s *Schema) WriteFile(path string) error {
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}
