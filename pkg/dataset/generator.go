package dataset

import (
	"bufio"
	"fmt"
	"io"
	"math/rand"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"

	"github.com/vitalbench/vitalbench/internal/utils"
	"github.com/vitalbench/vitalbench/pkg/data"
	"github.com/vitalbench/vitalbench/pkg/health"
)

const defaultWriteSize = 4 << 20

type GeneratorConfig struct {
	Records        uint64        `yaml:"records" mapstructure:"records"`
	Patients       uint64        `yaml:"patients" mapstructure:"patients"`
	Devices        uint64        `yaml:"devices" mapstructure:"devices"`
	Interval       time.Duration `yaml:"interval" mapstructure:"interval"`
	TimestampStart string        `yaml:"timestamp-start" mapstructure:"timestamp-start"`
	Seed           int64         `yaml:"seed" mapstructure:"seed"`
	File           string        `yaml:"file" mapstructure:"file"`
	SchemaFile     string        `yaml:"schema-file" mapstructure:"schema-file"`
}

func (c GeneratorConfig) AddToFlagSet(fs *pflag.FlagSet) {
	fs.Uint64("records", 50000, "Number of readings to generate")
	fs.Uint64("patients", 100, "Number of distinct patients")
	fs.Uint64("devices", 20, "Number of distinct monitoring devices")
	fs.Duration("interval", 2*time.Second, "Time between consecutive readings")
	fs.String("timestamp-start", "2025-01-01T00:00:00Z", "Beginning timestamp of the dataset")
	fs.Int64("seed", 0, "PRNG seed (default: 0, which uses the current timestamp)")
	fs.String("file", "", "File to write the dataset to (default stdout)")
	fs.String("schema-file", "", "File to write the dataset schema JSON to (empty disables)")
}

func (c *GeneratorConfig) Validate() error {
	if c.Records == 0 {
		return errors.New("records must be positive")
	}
	if c.Patients == 0 || c.Devices == 0 {
		return errors.New("patients and devices must be positive")
	}
	if c.Interval <= 0 {
		return errors.New("interval must be positive")
	}
	if c.Seed == 0 {
		c.Seed = int64(time.Now().Nanosecond())
	}
	return nil
}

// Generator drives the simulator and streams CSV rows out, accumulating the
// aggregate statistics that land in the schema sidecar.
type Generator struct {
	Out io.Writer

	config *GeneratorConfig
	bufOut *bufio.Writer
}

func (g *Generator) init(config *GeneratorConfig) error {
	if config == nil {
		return errors.New("no GeneratorConfig provided")
	}
	if err := config.Validate(); err != nil {
		return err
	}
	g.config = config

	if g.Out == nil {
		g.Out = os.Stdout
	}
	if len(g.config.File) > 0 {
		file, err := os.Create(g.config.File)
		if err != nil {
			return errors.Wrapf(err, "cannot open file for write %s", g.config.File)
		}
		g.bufOut = bufio.NewWriterSize(file, defaultWriteSize)
	} else {
		g.bufOut = bufio.NewWriterSize(g.Out, defaultWriteSize)
	}
	return nil
}

func (g *Generator) Generate(config *GeneratorConfig) error {
	if err := g.init(config); err != nil {
		return err
	}

	rand.Seed(g.config.Seed)

	start, err := utils.ParseUTCTime(g.config.TimestampStart)
	if err != nil {
		return errors.Wrapf(err, "cannot parse time from '%s'", g.config.TimestampStart)
	}

	simConfig := &health.SimulatorConfig{
		Start:        start,
		PatientCount: g.config.Patients,
		DeviceCount:  g.config.Devices,
	}
	sim := simConfig.NewSimulator(g.config.Interval, g.config.Records)

	serializer := &Serializer{}
	if err := serializer.WriteHeader(g.bufOut); err != nil {
		return err
	}

	schema := NewSchema()
	seenPatients := map[string]struct{}{}
	seenDevices := map[string]struct{}{}
	seenVitals := map[string]struct{}{}
	seenDepartments := map[string]struct{}{}
	vitalSums := map[string]float64{}
	vitalCounts := map[string]uint64{}
	var alerts, rows uint64
	var firstTS, lastTS time.Time

	point := data.NewPoint()
	for !sim.Finished() {
		if !sim.Next(point) {
			point.Reset()
			continue
		}

		if err := serializer.Serialize(point, g.bufOut); err != nil {
			return errors.Wrap(err, "cannot serialize point")
		}

		vital := string(point.GetTagValue([]byte("vital_type")).([]byte))
		value := point.GetFieldValue([]byte("vital_value")).(float64)
		seenPatients[string(point.GetTagValue([]byte("patient_id")).([]byte))] = struct{}{}
		seenDevices[string(point.GetTagValue([]byte("device_id")).([]byte))] = struct{}{}
		seenDepartments[string(point.GetTagValue([]byte("department")).([]byte))] = struct{}{}
		seenVitals[vital] = struct{}{}
		vitalSums[vital] += value
		vitalCounts[vital]++
		if point.GetFieldValue([]byte("is_alert")).(int64) == 1 {
			alerts++
		}
		if rows == 0 {
			firstTS = *point.Timestamp()
		}
		lastTS = *point.Timestamp()
		rows++

		if rows%5000 == 0 {
			fmt.Fprintf(os.Stderr, "generated %d records...\n", rows)
		}
		point.Reset()
	}
	if err := g.bufOut.Flush(); err != nil {
		return err
	}

	schema.RecordsCount = rows
	schema.TimeRange = TimeRange{Start: firstTS.UTC().Format(time.RFC3339), End: lastTS.UTC().Format(time.RFC3339)}
	schema.UniqueCounts = UniqueCounts{
		Patients:    len(seenPatients),
		Devices:     len(seenDevices),
		VitalTypes:  len(seenVitals),
		Departments: len(seenDepartments),
	}
	avg := make(map[string]float64, len(vitalSums))
	for vital, sum := range vitalSums {
		avg[vital] = roundTo2(sum / float64(vitalCounts[vital]))
	}
	schema.Statistics = Statistics{
		AlertPercentage: roundTo2(float64(alerts) / float64(rows) * 100),
		AvgValueByVital: avg,
	}

	if len(g.config.SchemaFile) > 0 {
		if err := schema.WriteFile(g.config.SchemaFile); err != nil {
			return errors.Wrap(err, "cannot write schema file")
		}
	}

	fmt.Printf("generated %d records, %d patients, %d devices, alert rate %.2f%%\n",
		rows, len(seenPatients), len(seenDevices), schema.Statistics.AlertPercentage)
	return nil
}

func roundTo2(v float64) float64 {
	return float64(int64(v*100+0.5)) / 100
}
