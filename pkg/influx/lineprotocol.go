package influx

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/valyala/fasthttp"

	"github.com/vitalbench/vitalbench/pkg/dataset"
	"github.com/vitalbench/vitalbench/pkg/health"
)

// RawWriter posts line protocol straight at /api/v2/write, bypassing the
// client library. Used to measure client overhead against the raw endpoint.
type RawWriter struct {
	url       []byte
	authToken string
}

func NewRawWriter(cfg Config, bucket string) *RawWriter {
	u := fmt.Sprintf("%s/api/v2/write?org=%s&bucket=%s&precision=ns",
		cfg.URL, url.QueryEscape(cfg.Org), url.QueryEscape(bucket))
	return &RawWriter{url: []byte(u), authToken: cfg.AuthToken}
}

func (w *RawWriter) Send(body []byte) (latNs int64, statusCode int, err error) {
	req := fasthttp.AcquireRequest()
	req.Header.SetContentTypeBytes([]byte("text/plain; charset=utf-8"))
	req.Header.SetMethodBytes([]byte("POST"))
	req.Header.SetRequestURIBytes(w.url)
	req.Header.Set("Authorization", "Token "+w.authToken)
	req.SetBody(body)

	resp := fasthttp.AcquireResponse()
	start := time.Now()

	err = fasthttp.Do(req, resp)
	latNs = time.Since(start).Nanoseconds()
	statusCode = resp.StatusCode()

	fasthttp.ReleaseResponse(resp)
	fasthttp.ReleaseRequest(req)

	if err == nil && statusCode >= 300 {
		err = errors.Errorf("write returned status %d", statusCode)
	}
	return
}

// AppendReading appends one reading to buf in line protocol form, mapped the
// same way the client-library path maps it.
func AppendReading(buf []byte, r *dataset.Reading) []byte {
	buf = append(buf, health.MeasurementName...)
	buf = appendTag(buf, "patient_id", r.PatientID)
	buf = appendTag(buf, "vital_type", r.VitalType)
	buf = appendTag(buf, "patient_department", r.Department)
	buf = appendTag(buf, "device_id", r.DeviceID)
	buf = appendTag(buf, "data_classification", r.DataSensitivity)

	buf = append(buf, " vital_value="...)
	buf = strconv.AppendFloat(buf, r.Value, 'f', -1, 64)
	buf = append(buf, ",is_alert="...)
	buf = strconv.AppendBool(buf, r.AlertFlag == 1)
	buf = append(buf, ",confidence="...)
	buf = strconv.AppendFloat(buf, r.Confidence, 'f', -1, 64)

	buf = append(buf, ' ')
	buf = strconv.AppendInt(buf, r.Timestamp.UnixNano(), 10)
	buf = append(buf, '\n')
	return buf
}

func appendTag(buf []byte, key, value string) []byte {
	buf = append(buf, ',')
	buf = append(buf, key...)
	buf = append(buf, '=')
	return append(buf, value...)
}
