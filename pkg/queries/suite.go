// Package queries defines the canned benchmark query suite over the patient
// vitals dataset, in both Flux and SQL renditions.
package queries

import (
	"time"

	"github.com/spf13/pflag"

	"github.com/vitalbench/vitalbench/internal/utils"
)

// Labels of the suite, in execution order.
const (
	LabelSimpleRange       = "simple_range_1h"
	LabelFilterByPatient   = "filter_by_patient"
	LabelFilterByVitalType = "filter_by_vital_type"
	LabelMeanAggregation   = "mean_aggregation_1h_windows"
	LabelMaxByDepartment   = "max_by_department"
	LabelAlertCountByType  = "alert_count_by_type"
	LabelComplexFilter     = "complex_multi_filter"
	LabelDownsample        = "downsample_5m_windows"
	LabelGroupByPatient    = "group_by_patient"
	LabelJoinSimulation    = "join_simulation"
	LabelLargeTimeRange    = "large_time_range"
	LabelHighCardinality   = "high_cardinality"
)

// The wide-scan query reaches this far back from the end of the data
// interval, deliberately further than any dataset covers.
const largeRangeLookback = 30 * 24 * time.Hour

// SuiteConfig selects the time range and the filter values the canned
// queries are built with.
type SuiteConfig struct {
	TimestampStart string `yaml:"timestamp-start" mapstructure:"timestamp-start"`
	TimestampEnd   string `yaml:"timestamp-end" mapstructure:"timestamp-end"`
	PatientID      string `yaml:"patient-id" mapstructure:"patient-id"`
	VitalType      string `yaml:"vital-type" mapstructure:"vital-type"`
	Department     string `yaml:"department" mapstructure:"department"`
	AlertThreshold float64 `yaml:"alert-threshold" mapstructure:"alert-threshold"`

	interval *utils.TimeInterval
}

func (c SuiteConfig) AddToFlagSet(fs *pflag.FlagSet) {
	fs.String("timestamp-start", "2025-01-01T00:00:00Z", "Beginning timestamp of the benchmarked data (RFC3339)")
	fs.String("timestamp-end", "2025-01-02T00:00:00Z", "Ending timestamp of the benchmarked data (RFC3339)")
	fs.String("patient-id", "PATIENT_00042", "Patient the single-patient queries filter on")
	fs.String("vital-type", "heart_rate_bpm", "Vital sign the single-vital queries filter on")
	fs.String("department", "ICU", "Department the multi-filter query restricts to")
	fs.Float64("alert-threshold", 100, "Value floor the multi-filter query restricts to")
}

// Validate parses the configured timestamps and fails on an empty or
// inverted range.
func (c *SuiteConfig) Validate() error {
	start, err := utils.ParseUTCTime(c.TimestampStart)
	if err != nil {
		return err
	}
	end, err := utils.ParseUTCTime(c.TimestampEnd)
	if err != nil {
		return err
	}
	c.interval, err = utils.NewTimeInterval(start, end)
	return err
}

// Interval is the full data interval the suite covers.
func (c *SuiteConfig) Interval() *utils.TimeInterval {
	return c.interval
}

// LastHour is the trailing one hour window of the data interval, used by the
// recent-data query.
func (c *SuiteConfig) LastHour() *utils.TimeInterval {
	return c.interval.LastWindow(time.Hour)
}

// LargeRangeStart is where the wide-scan query begins. It is not clipped to
// the data interval, the point of that query is scanning a mostly empty
// 30 day range.
func (c *SuiteConfig) LargeRangeStart() time.Time {
	return c.interval.End().Add(-largeRangeLookback)
}
