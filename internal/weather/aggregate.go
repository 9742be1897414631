package weather

// AggregateDay computes per-metric min/avg/max over all readings of one
// local calendar day. Each metric is aggregated independently: a day where
// pressure never reported still yields a summary, with pressure's stats nil.
//
// The second return value is false when the day has no readings at all;
// range aggregation uses it to omit the day entirely instead of emitting a
// null-filled summary.
//
// Values are not rounded here; rounding is a presentation concern.
func AggregateDay(dateKey string, readings []Reading) (DailySummary, bool) {
	if len(readings) == 0 {
		return DailySummary{}, false
	}

	return DailySummary{
		Date:        dateKey,
		Temperature: metricStats(readings, func(r Reading) *float64 { return r.Temperature }),
		Humidity:    metricStats(readings, func(r Reading) *float64 { return r.Humidity }),
		Pressure:    metricStats(readings, func(r Reading) *float64 { return r.Pressure }),
		WBGT:        metricStats(readings, func(r Reading) *float64 { return r.WBGT }),
	}, true
}

// metricStats scans one metric across the day's readings, skipping missing
// values. With no defined values it returns the all-nil MetricStats.
func metricStats(readings []Reading, metric func(Reading) *float64) MetricStats {
	var (
		sum      float64
		min, max float64
		n        int
	)

	for _, r := range readings {
		v := metric(r)
		if v == nil {
			continue
		}
		if n == 0 {
			min, max = *v, *v
		} else {
			if *v < min {
				min = *v
			}
			if *v > max {
				max = *v
			}
		}
		sum += *v
		n++
	}

	if n == 0 {
		return MetricStats{}
	}

	avg := sum / float64(n)
	return MetricStats{Avg: &avg, Max: &max, Min: &min}
}
