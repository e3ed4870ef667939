package service

import "math"

const earthRadiusKm = 6371.0

// Pricing holds the fare parameters. One canonical rule set: RM 2 base plus
// RM 1 per kilometre, 40 km/h assumed average speed.
type Pricing struct {
	BaseFare        float64
	PerKmRate       float64
	AverageSpeedKmh float64
}

// DefaultPricing returns the canonical pricing parameters.
func DefaultPricing() Pricing {
	return Pricing{
		BaseFare:        2.0,
		PerKmRate:       1.0,
		AverageSpeedKmh: 40,
	}
}

// Quote is a fare estimate for a trip.
type Quote struct {
	DistanceKm        float64
	Fare              float64
	EstimatedDuration int
}

// Estimate computes the distance, fare and duration for a trip. Pure and
// deterministic: same inputs, same quote.
func (p Pricing) Estimate(pickupLat, pickupLng, dropoffLat, dropoffLng float64) Quote {
	distance := HaversineKm(pickupLat, pickupLng, dropoffLat, dropoffLng)
	return Quote{
		DistanceKm:        round2(distance),
		Fare:              p.Fare(distance),
		EstimatedDuration: int(math.Ceil(distance / p.AverageSpeedKmh)),
	}
}

// Fare maps a distance to a price, rounded to 2 decimals for currency display.
func (p Pricing) Fare(distanceKm float64) float64 {
	return round2(p.BaseFare + p.PerKmRate*distanceKm)
}

// HaversineKm returns the great-circle distance between two points in km.
func HaversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLng := toRadians(lng2 - lng1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*
			math.Sin(dLng/2)*math.Sin(dLng/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// round1 rounds an aggregate rating to 1 decimal.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func isValidLatitude(lat float64) bool {
	return lat >= -90 && lat <= 90
}

func isValidLongitude(lng float64) bool {
	return lng >= -180 && lng <= 180
}
