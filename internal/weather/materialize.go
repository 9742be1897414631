package weather

import "time"

// Materialize turns one stored record into a Reading: it localizes the UTC
// instant into loc's wall clock and derives the WBGT index. The index is
// computed only when both temperature and humidity are present; otherwise it
// stays nil rather than defaulting to zero.
//
// The only failure mode is ErrInvalidTimestamp from the localization step.
func Materialize(raw RawReading, loc *time.Location) (Reading, error) {
	lt, err := Localize(raw.Timestamp, loc)
	if err != nil {
		return Reading{}, err
	}

	r := Reading{
		Temperature: raw.Temperature,
		Humidity:    raw.Humidity,
		Pressure:    raw.Pressure,
		Year:        lt.Year,
		Month:       lt.Month,
		Day:         lt.Day,
		Hour:        lt.Hour,
		Minute:      lt.Minute,
		TimeOfDay:   lt.TimeOfDay(),
	}

	if raw.Temperature != nil && raw.Humidity != nil {
		index := WBGT(*raw.Temperature, *raw.Humidity)
		r.WBGT = &index
	}

	return r, nil
}
