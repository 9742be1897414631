package weather

import (
	"time"
)

// DateKeyLayout is the canonical local-calendar date key format used
// throughout the service, in store queries and in the HTTP API.
const DateKeyLayout = "2006-01-02"

// RawReading is a single stored sensor record as the reading store returns
// it. Metric fields are pointers because stored documents may omit any of
// them; Timestamp is the UTC instant the reading was taken, and is the zero
// value when the stored timestamp could not be parsed.
type RawReading struct {
	Temperature *float64
	Humidity    *float64
	Pressure    *float64
	Timestamp   time.Time
}

// Reading is a fully materialized data point: the raw metrics plus the local
// wall-clock breakdown for the configured timezone and the derived WBGT
// heat-stress index. Readings are never mutated after materialization.
//
// WBGT is nil when temperature or humidity is missing on the raw record; a
// missing index must not be confused with a real zero value.
type Reading struct {
	Temperature *float64 `json:"temperature"`
	Humidity    *float64 `json:"humidity"`
	Pressure    *float64 `json:"pressure"`

	Year   int `json:"year"`
	Month  int `json:"month"`
	Day    int `json:"day"`
	Hour   int `json:"hour"`
	Minute int `json:"minute"`

	// TimeOfDay is the zero-padded local "HH:MM", always derived from
	// Hour/Minute.
	TimeOfDay string `json:"time"`

	WBGT *float64 `json:"wbgt"`
}

// MetricStats holds min/avg/max for one metric over one day. Either all
// three fields are set (with Min <= Avg <= Max) or all three are nil,
// meaning the metric had no defined values that day.
type MetricStats struct {
	Avg *float64 `json:"avg"`
	Max *float64 `json:"max"`
	Min *float64 `json:"min"`
}

// DailySummary aggregates all readings sharing one local calendar day.
type DailySummary struct {
	Date        string      `json:"date"`
	Temperature MetricStats `json:"temperature"`
	Humidity    MetricStats `json:"humidity"`
	Pressure    MetricStats `json:"pressure"`
	WBGT        MetricStats `json:"wbgt"`
}

// Order selects the direction of a range result.
type Order string

const (
	OrderAsc  Order = "asc"
	OrderDesc Order = "desc"
)
