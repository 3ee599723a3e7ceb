// Package influx wraps the InfluxDB v2 client with the handful of calls the
// suite needs: bucket lifecycle, batched writes with retry, row counting and
// measurement cleanup.
package influx

import (
	"context"
	"fmt"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/influxdata/influxdb-client-go/v2/domain"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
)

const (
	writeAttempts = 3

	DefaultURL    = "http://localhost:8086"
	DefaultOrg    = "HealthIoT"
	DefaultBucket = "health_iot_metrics"
)

type Config struct {
	URL       string `yaml:"url" mapstructure:"url"`
	AuthToken string `yaml:"auth-token" mapstructure:"auth-token"`
	Org       string `yaml:"org" mapstructure:"org"`
}

func (c Config) AddToFlagSet(fs *pflag.FlagSet) {
	fs.String("url", DefaultURL, "InfluxDB URL")
	fs.String("auth-token", "", "InfluxDB API token")
	fs.String("org", DefaultOrg, "InfluxDB organization name")
}

type Client struct {
	api influxdb2.Client
	org string
}

func NewClient(cfg Config) *Client {
	opts := influxdb2.DefaultOptions().SetPrecision(time.Nanosecond)
	return &Client{
		api: influxdb2.NewClientWithOptions(cfg.URL, cfg.AuthToken, opts),
		org: cfg.Org,
	}
}

func (c *Client) Org() string {
	return c.org
}

func (c *Client) Close() {
	c.api.Close()
}

// Ping checks connectivity and auth before a benchmark starts writing.
func (c *Client) Ping(ctx context.Context) error {
	ok, err := c.api.Ping(ctx)
	if err != nil {
		return errors.Wrap(err, "influxdb unreachable")
	}
	if !ok {
		return errors.New("influxdb did not respond to ping")
	}
	return nil
}

func (c *Client) organization(ctx context.Context) (*domain.Organization, error) {
	org, err := c.api.OrganizationsAPI().FindOrganizationByName(ctx, c.org)
	if err != nil {
		return nil, errors.Wrapf(err, "organization %q not found", c.org)
	}
	return org, nil
}

// OrganizationID resolves the configured organization name to its ID.
func (c *Client) OrganizationID(ctx context.Context) (string, error) {
	org, err := c.organization(ctx)
	if err != nil {
		return "", err
	}
	if org.Id == nil {
		return "", errors.Errorf("organization %q has no id", c.org)
	}
	return *org.Id, nil
}

func (c *Client) BucketExists(ctx context.Context, name string) bool {
	b, err := c.api.BucketsAPI().FindBucketByName(ctx, name)
	return err == nil && b != nil
}

func (c *Client) CreateBucket(ctx context.Context, name string) error {
	org, err := c.organization(ctx)
	if err != nil {
		return err
	}
	_, err = c.api.BucketsAPI().CreateBucketWithName(ctx, org, name)
	return errors.Wrapf(err, "cannot create bucket %q", name)
}

func (c *Client) DeleteBucket(ctx context.Context, name string) error {
	b, err := c.api.BucketsAPI().FindBucketByName(ctx, name)
	if err != nil {
		return errors.Wrapf(err, "bucket %q not found", name)
	}
	return c.api.BucketsAPI().DeleteBucket(ctx, b)
}

// WriteBatch writes points through the blocking API, retrying transient
// failures with exponential backoff (1s, 2s, 4s).
func (c *Client) WriteBatch(ctx context.Context, bucket string, points []*write.Point) error {
	writeAPI := c.api.WriteAPIBlocking(c.org, bucket)
	var err error
	for attempt := 0; attempt < writeAttempts; attempt++ {
		err = writeAPI.WritePoint(ctx, points...)
		if err == nil {
			return nil
		}
		if attempt < writeAttempts-1 {
			time.Sleep(time.Duration(1<<uint(attempt)) * time.Second)
		}
	}
	return errors.Wrapf(err, "write failed after %d attempts", writeAttempts)
}

// AsyncWriter returns the buffered write API. Callers own Flush and must
// drain Errors.
func (c *Client) AsyncWriter(bucket string) api.WriteAPI {
	return c.api.WriteAPI(c.org, bucket)
}

func (c *Client) QueryAPI() api.QueryAPI {
	return c.api.QueryAPI(c.org)
}

func (c *Client) AuthorizationsAPI() api.AuthorizationsAPI {
	return c.api.AuthorizationsAPI()
}

// CountRows counts written readings of a measurement inside a time range,
// used for post-load verification.
func (c *Client) CountRows(ctx context.Context, bucket, measurement string, start, stop time.Time) (int64, error) {
	flux := fmt.Sprintf(`from(bucket: "%s")
  |> range(start: %s, stop: %s)
  |> filter(fn: (r) => r._measurement == "%s")
  |> filter(fn: (r) => r._field == "vital_value")
  |> group()
  |> count()`,
		bucket, start.UTC().Format(time.RFC3339), stop.UTC().Format(time.RFC3339), measurement)

	result, err := c.QueryAPI().Query(ctx, flux)
	if err != nil {
		return 0, errors.Wrap(err, "count query failed")
	}
	defer result.Close()

	var total int64
	for result.Next() {
		if v, ok := result.Record().Value().(int64); ok {
			total += v
		}
	}
	if result.Err() != nil {
		return 0, errors.Wrap(result.Err(), "count query stream")
	}
	return total, nil
}

func (c *Client) DeleteMeasurement(ctx context.Context, bucket, measurement string, start, stop time.Time) error {
	predicate := fmt.Sprintf(`_measurement="%s"`, measurement)
	err := c.api.DeleteAPI().DeleteWithName(ctx, c.org, bucket, start, stop, predicate)
	return errors.Wrapf(err, "cannot delete measurement %q", measurement)
}
