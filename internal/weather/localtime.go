package weather

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidTimestamp marks a stored instant that could not be interpreted.
// It is always local to a single reading; aggregation skips such readings
// instead of failing the whole day.
var ErrInvalidTimestamp = errors.New("invalid reading timestamp")

// LocalTime is the wall-clock breakdown of an instant in the target
// timezone. Month is 1-12, Hour 0-23, Minute 0-59.
type LocalTime struct {
	Year   int
	Month  int
	Day    int
	Hour   int
	Minute int
}

// DateKey returns the local calendar date as "YYYY-MM-DD".
func (lt LocalTime) DateKey() string {
	return fmt.Sprintf("%04d-%02d-%02d", lt.Year, lt.Month, lt.Day)
}

// TimeOfDay returns the zero-padded local "HH:MM".
func (lt LocalTime) TimeOfDay() string {
	return fmt.Sprintf("%02d:%02d", lt.Hour, lt.Minute)
}

// Localize converts a UTC instant into its wall-clock breakdown in loc,
// using the tz database so daylight-saving transitions are honored. Stored
// records sometimes carry precomputed local fields; those are never trusted,
// the conversion is always recomputed from the instant.
func Localize(instant time.Time, loc *time.Location) (LocalTime, error) {
	if instant.IsZero() {
		return LocalTime{}, ErrInvalidTimestamp
	}

	local := instant.In(loc)
	return LocalTime{
		Year:   local.Year(),
		Month:  int(local.Month()),
		Day:    local.Day(),
		Hour:   local.Hour(),
		Minute: local.Minute(),
	}, nil
}
