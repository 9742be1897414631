package weather

import "math"

// WBGT derives the heat-stress index from air temperature (degrees C) and
// relative humidity (percent). It first approximates the wet-bulb
// temperature with Stull's formula, then weights it against the air
// temperature.
//
// Humidity is intentionally not clamped to [0,100]; out-of-range values are
// accepted numerically, matching the behavior the dashboard has always had.
func WBGT(airTemp, relHumidity float64) float64 {
	tw := airTemp*math.Atan(0.151977*math.Sqrt(relHumidity+8.313659)) +
		math.Atan(airTemp+relHumidity) -
		math.Atan(relHumidity-1.676331) +
		0.00391838*math.Pow(relHumidity, 1.5)*math.Atan(0.023101*relHumidity) -
		4.686035

	return 0.7*tw + 0.3*airTemp
}
