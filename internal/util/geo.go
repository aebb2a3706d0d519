package util

import "math"

const EarthRadiusMeters = 6371000.0

func HaversineMeters(lat1, lng1, lat2, lng2 float64) float64 {
	toRad := func(deg float64) float64 { return deg * math.Pi / 180 }

	dLat := toRad(lat2 - lat1)
	dLng := toRad(lng2 - lng1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadiusMeters * c
}

// BoundingBox returns the lat/lng window that contains every point within
// radiusMeters of the origin. Used to pre-filter rows before the exact check.
func BoundingBox(lat, lng, radiusMeters float64) (minLat, maxLat, minLng, maxLng float64) {
	dLat := radiusMeters / EarthRadiusMeters * 180 / math.Pi
	minLat = math.Max(lat-dLat, -90)
	maxLat = math.Min(lat+dLat, 90)

	cosLat := math.Cos(lat * math.Pi / 180)
	if cosLat < 1e-9 || maxLat >= 90 || minLat <= -90 {
		return minLat, maxLat, -180, 180
	}
	dLng := dLat / cosLat
	minLng = lng - dLng
	maxLng = lng + dLng
	if minLng < -180 || maxLng > 180 {
		return minLat, maxLat, -180, 180
	}
	return minLat, maxLat, minLng, maxLng
}
