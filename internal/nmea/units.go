package nmea

// Unit conversions over the fixed-point hundredths the parser commits.
// Speed terms are hundredths of knots, altitude terms hundredths of
// meters, course terms hundredths of degrees.

const (
	mphPerKnot    = 1.15077945
	mpsPerKnot    = 0.51444444
	kmphPerKnot   = 1.852
	milesPerMeter = 0.00062137112
	kmPerMeter    = 0.001
	feetPerMeter  = 3.2808399
)

// Knots converts hundredths of knots to knots.
func Knots(hundredths int32) float64 { return float64(hundredths) / 100 }

// MilesPerHour converts hundredths of knots to statute miles per hour.
func MilesPerHour(hundredths int32) float64 { return mphPerKnot * float64(hundredths) / 100 }

// MetersPerSecond converts hundredths of knots to meters per second.
func MetersPerSecond(hundredths int32) float64 { return mpsPerKnot * float64(hundredths) / 100 }

// KilometersPerHour converts hundredths of knots to km/h.
func KilometersPerHour(hundredths int32) float64 { return kmphPerKnot * float64(hundredths) / 100 }

// Meters converts hundredths of meters to meters.
func Meters(hundredths int32) float64 { return float64(hundredths) / 100 }

// Miles converts hundredths of meters to statute miles.
func Miles(hundredths int32) float64 { return milesPerMeter * float64(hundredths) / 100 }

// Kilometers converts hundredths of meters to kilometers.
func Kilometers(hundredths int32) float64 { return kmPerMeter * float64(hundredths) / 100 }

// Feet converts hundredths of meters to feet.
func Feet(hundredths int32) float64 { return feetPerMeter * float64(hundredths) / 100 }

// Degrees converts hundredths of degrees to degrees.
func Degrees(hundredths int32) float64 { return float64(hundredths) / 100 }
