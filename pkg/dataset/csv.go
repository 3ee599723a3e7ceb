package dataset

import (
	"bufio"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/vitalbench/vitalbench/pkg/data"
)

// Reading is one parsed CSV row.
type Reading struct {
	Timestamp       time.Time
	PatientID       string
	DeviceID        string
	VitalType       string
	Value           float64
	AlertFlag       int
	Department      string
	Confidence      float64
	DataSensitivity string
	IngestionBatch  string
}

// Serializer writes simulator points as dataset CSV rows.
type Serializer struct{}

func (s *Serializer) WriteHeader(w io.Writer) error {
	_, err := io.WriteString(w, strings.Join(Columns, ",")+"\n")
	return err
}

func (s *Serializer) Serialize(p *data.Point, w io.Writer) error {
	buf := make([]byte, 0, 256)
	buf = append(buf, p.Timestamp().UTC().Format(time.RFC3339)...)
	buf = appendString(buf, p.GetTagValue([]byte("patient_id")))
	buf = appendString(buf, p.GetTagValue([]byte("device_id")))
	buf = appendString(buf, p.GetTagValue([]byte("vital_type")))
	buf = append(buf, ',')
	buf = strconv.AppendFloat(buf, p.GetFieldValue([]byte("vital_value")).(float64), 'f', -1, 64)
	buf = append(buf, ',')
	buf = strconv.AppendInt(buf, p.GetFieldValue([]byte("is_alert")).(int64), 10)
	buf = appendString(buf, p.GetTagValue([]byte("department")))
	buf = append(buf, ',')
	buf = strconv.AppendFloat(buf, p.GetFieldValue([]byte("confidence")).(float64), 'f', -1, 64)
	buf = appendString(buf, p.GetTagValue([]byte("data_sensitivity")))
	buf = appendString(buf, p.GetTagValue([]byte("ingestion_batch")))
	buf = append(buf, '\n')
	_, err := w.Write(buf)
	return err
}

func appendString(buf []byte, v interface{}) []byte {
	buf = append(buf, ',')
	return append(buf, v.([]byte)...)
}

// Reader streams Readings out of a dataset CSV. None of the columns contain
// commas, so rows are split directly instead of going through encoding/csv.
type Reader struct {
	scanner *bufio.Scanner
	line    uint64
}

func NewReader(r io.Reader) (*Reader, error) {
	scanner := bufio.NewScanner(r)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, err
		}
		return nil, errors.New("dataset is empty, no header row")
	}
	header := strings.TrimSpace(scanner.Text())
	if header != strings.Join(Columns, ",") {
		return nil, errors.Errorf("unexpected dataset header: %s", header)
	}
	return &Reader{scanner: scanner, line: 1}, nil
}

// Next returns the following reading, or ok=false at EOF. Malformed rows are
// returned as errors with their line number.
func (r *Reader) Next() (Reading, bool, error) {
	if !r.scanner.Scan() {
		if err := r.scanner.Err(); err != nil {
			return Reading{}, false, err
		}
		return Reading{}, false, nil
	}
	r.line++
	reading, err := ParseRow(strings.TrimSpace(r.scanner.Text()))
	if err != nil {
		return Reading{}, false, errors.Wrapf(err, "line %d", r.line)
	}
	return reading, true, nil
}

func ParseRow(row string) (Reading, error) {
	parts := strings.Split(row, ",")
	if len(parts) != len(Columns) {
		return Reading{}, errors.Errorf("expected %d columns, got %d", len(Columns), len(parts))
	}

	ts, err := time.Parse(time.RFC3339, parts[0])
	if err != nil {
		return Reading{}, errors.Wrap(err, "bad timestamp")
	}
	value, err := strconv.ParseFloat(parts[4], 64)
	if err != nil {
		return Reading{}, errors.Wrap(err, "bad value")
	}
	alert, err := strconv.Atoi(parts[5])
	if err != nil {
		return Reading{}, errors.Wrap(err, "bad alert_flag")
	}
	confidence, err := strconv.ParseFloat(parts[7], 64)
	if err != nil {
		return Reading{}, errors.Wrap(err, "bad confidence")
	}

	return Reading{
		Timestamp:       ts,
		PatientID:       parts[1],
		DeviceID:        parts[2],
		VitalType:       parts[3],
		Value:           value,
		AlertFlag:       alert,
		Department:      parts[6],
		Confidence:      confidence,
		DataSensitivity: parts[8],
		IngestionBatch:  parts[9],
	}, nil
}
