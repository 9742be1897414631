package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"

	"github.com/mkiyohara/weatherboard/internal/common"
	"github.com/mkiyohara/weatherboard/internal/weather"
)

// ErrPermissionDenied marks a store failure caused by credentials or bucket
// permissions rather than a transient transport problem. The API layer uses
// it to give the operator an actionable message instead of a generic 5xx.
var ErrPermissionDenied = errors.New("reading store access denied")

// InfluxStore implements weather.ReadingStore on top of an InfluxDB bucket
// where each sensor record is one measurement point with temperature,
// humidity and pressure fields.
type InfluxStore struct {
	client      influxdb2.Client
	queryAPI    api.QueryAPI
	bucket      string
	measurement string
	loc         *time.Location
}

// NewInfluxStore connects to InfluxDB. loc defines the local calendar used
// to translate a date key into UTC query bounds.
func NewInfluxStore(url, token, org, bucket, measurement string, loc *time.Location) *InfluxStore {
	client := influxdb2.NewClient(url, token)
	return &InfluxStore{
		client:      client,
		queryAPI:    client.QueryAPI(org),
		bucket:      bucket,
		measurement: measurement,
		loc:         loc,
	}
}

// FetchDay returns the raw readings recorded during one local calendar day,
// ordered by instant ascending.
func (s *InfluxStore) FetchDay(ctx context.Context, dateKey string) ([]weather.RawReading, error) {
	day, err := time.ParseInLocation(weather.DateKeyLayout, dateKey, s.loc)
	if err != nil {
		return nil, fmt.Errorf("invalid date key %q: %w", dateKey, err)
	}

	start := day.UTC()
	stop := day.AddDate(0, 0, 1).UTC()

	flux := fmt.Sprintf(`
		from(bucket: %q)
		|> range(start: %s, stop: %s)
		|> filter(fn: (r) => r["_measurement"] == %q)
		|> filter(fn: (r) => r["_field"] == "temperature" or r["_field"] == "humidity" or r["_field"] == "pressure")
		|> pivot(rowKey: ["_time"], columnKey: ["_field"], valueColumn: "_value")
		|> sort(columns: ["_time"])
	`, s.bucket, start.Format(time.RFC3339), stop.Format(time.RFC3339), s.measurement)

	result, err := s.queryAPI.Query(ctx, flux)
	if err != nil {
		return nil, classifyQueryError(err)
	}

	var readings []weather.RawReading
	for result.Next() {
		record := result.Record()
		readings = append(readings, weather.RawReading{
			Temperature: floatField(record.ValueByKey("temperature")),
			Humidity:    floatField(record.ValueByKey("humidity")),
			Pressure:    floatField(record.ValueByKey("pressure")),
			Timestamp:   record.Time().UTC(),
		})
	}
	if err := result.Err(); err != nil {
		return nil, classifyQueryError(err)
	}

	return readings, nil
}

// Close releases the underlying client.
func (s *InfluxStore) Close() {
	s.client.Close()
}

func classifyQueryError(err error) error {
	msg := strings.ToLower(err.Error())
	if common.HasAny(msg, "unauthorized", "forbidden", "permission") {
		return fmt.Errorf("%w: %v", ErrPermissionDenied, err)
	}
	return fmt.Errorf("querying reading store: %w", err)
}

// floatField normalizes a pivoted field value; pivot leaves the column
// absent (nil) when a point never reported that field.
func floatField(v interface{}) *float64 {
	switch val := v.(type) {
	case float64:
		return &val
	case int64:
		f := float64(val)
		return &f
	default:
		return nil
	}
}
