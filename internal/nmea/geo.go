package nmea

import "math"

// Great-circle helpers over signed decimal-degree positions. Earth is
// modeled as a sphere of radius 6372795 m, so results can be off by up
// to about 0.5%.

const earthRadiusM = 6372795

// DistanceBetween returns the great-circle distance in meters between
// two positions given as signed decimal degrees.
func DistanceBetween(lat1, lng1, lat2, lng2 float64) float64 {
	delta := radians(lng1 - lng2)
	sdLng := math.Sin(delta)
	cdLng := math.Cos(delta)
	lat1 = radians(lat1)
	lat2 = radians(lat2)
	sLat1 := math.Sin(lat1)
	cLat1 := math.Cos(lat1)
	sLat2 := math.Sin(lat2)
	cLat2 := math.Cos(lat2)
	delta = cLat1*sLat2 - sLat1*cLat2*cdLng
	cross := cLat2 * sdLng
	delta = math.Sqrt(delta*delta + cross*cross)
	denom := sLat1*sLat2 + cLat1*cLat2*cdLng
	return math.Atan2(delta, denom) * earthRadiusM
}

// CourseTo returns the initial course in degrees (north 0, clockwise
// through 360) from position 1 to position 2.
func CourseTo(lat1, lng1, lat2, lng2 float64) float64 {
	dLng := radians(lng2 - lng1)
	lat1 = radians(lat1)
	lat2 = radians(lat2)
	a1 := math.Sin(dLng) * math.Cos(lat2)
	a2 := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLng)
	course := math.Atan2(a1, a2)
	if course < 0 {
		course += 2 * math.Pi
	}
	return degrees(course)
}

var cardinals = [16]string{
	"N", "NNE", "NE", "ENE", "E", "ESE", "SE", "SSE",
	"S", "SSW", "SW", "WSW", "W", "WNW", "NW", "NNW",
}

// Cardinal returns the compass-point name for a course in degrees.
func Cardinal(course float64) string {
	i := int((course + 11.25) / 22.5)
	return cardinals[i%16]
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }

func degrees(rad float64) float64 { return rad * 180 / math.Pi }
