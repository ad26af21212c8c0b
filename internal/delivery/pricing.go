// Package delivery computes delivery distance and fees from GPS coordinates.
package delivery

import "math"

const earthRadiusKm = 6371.0

// Point is a GPS coordinate. A nil *Point means the location is not
// configured.
type Point struct {
	Latitude  float64
	Longitude float64
}

// Config holds the restaurant's delivery pricing parameters. Fees are in
// minor currency units.
type Config struct {
	RadiusKm float64
	BaseFee  int64
	PerKmFee int64
}

// Quote is the result of a delivery computation.
type Quote struct {
	DistanceKm float64
	Fee        int64
	InRange    bool
}

// Compute quotes the delivery fee for a destination. Distance is the
// great-circle distance rounded to 2 decimals; fee = base + perKm * distance,
// rounded to the nearest minor unit. Out-of-range destinations get fee 0 and
// InRange=false; the caller must reject the order rather than charge zero.
//
// A nil origin means the restaurant coordinates are not configured. In that
// case the quote reports InRange=false with the base fee, so delivery orders
// are rejected until coordinates are set.
func Compute(origin *Point, dest Point, cfg Config) Quote {
	if origin == nil {
		return Quote{DistanceKm: 0, Fee: cfg.BaseFee, InRange: false}
	}

	dist := round2(haversineKm(*origin, dest))
	if dist > cfg.RadiusKm {
		return Quote{DistanceKm: dist, Fee: 0, InRange: false}
	}

	fee := cfg.BaseFee + int64(math.Round(float64(cfg.PerKmFee)*dist))
	return Quote{DistanceKm: dist, Fee: fee, InRange: true}
}

// haversineKm returns the great-circle distance between two points in km.
func haversineKm(a, b Point) float64 {
	lat1 := a.Latitude * math.Pi / 180
	lat2 := b.Latitude * math.Pi / 180
	dLat := (b.Latitude - a.Latitude) * math.Pi / 180
	dLon := (b.Longitude - a.Longitude) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)

	return 2 * earthRadiusKm * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
