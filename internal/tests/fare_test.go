package tests

import (
	"math"
	"testing"

	"studentcab/internal/service"
)

func TestFare_BasePlusPerKm(t *testing.T) {
	t.Parallel()

	pricing := service.DefaultPricing()

	tests := []struct {
		name       string
		distanceKm float64
		want       float64
	}{
		{"zero distance still charges base fare", 0, 2.00},
		{"one km", 1, 3.00},
		{"fractional distance rounds to cents", 4.0239, 6.02},
		{"long trip", 25.5, 27.50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := pricing.Fare(tt.distanceKm)
			if got != tt.want {
				t.Errorf("Fare(%v) = %v, want %v", tt.distanceKm, got, tt.want)
			}
		})
	}
}

func TestHaversine_KnownDistance(t *testing.T) {
	t.Parallel()

	// Bukit Bintang to KLCC area, roughly 4 km apart.
	got := service.HaversineKm(3.1219, 101.6869, 3.1575, 101.6804)
	if got < 3.9 || got > 4.1 {
		t.Errorf("HaversineKm = %v, want about 4.0", got)
	}

	// Distance to the same point is zero.
	if d := service.HaversineKm(3.1219, 101.6869, 3.1219, 101.6869); d != 0 {
		t.Errorf("distance to self = %v, want 0", d)
	}

	// Symmetric.
	back := service.HaversineKm(3.1575, 101.6804, 3.1219, 101.6869)
	if math.Abs(got-back) > 1e-9 {
		t.Errorf("distance not symmetric: %v vs %v", got, back)
	}
}

func TestEstimate_Deterministic(t *testing.T) {
	t.Parallel()

	pricing := service.DefaultPricing()

	first := pricing.Estimate(3.1219, 101.6869, 3.1575, 101.6804)
	second := pricing.Estimate(3.1219, 101.6869, 3.1575, 101.6804)
	if first != second {
		t.Errorf("same inputs produced different quotes: %+v vs %+v", first, second)
	}

	// Fare is derived from the unrounded distance.
	wantFare := pricing.Fare(service.HaversineKm(3.1219, 101.6869, 3.1575, 101.6804))
	if first.Fare != wantFare {
		t.Errorf("Fare = %v, want %v", first.Fare, wantFare)
	}
}

func TestEstimate_DurationCeiledToWholeHours(t *testing.T) {
	t.Parallel()

	pricing := service.DefaultPricing()

	// About 4 km at 40 km/h is well under an hour, so ceil gives 1.
	quote := pricing.Estimate(3.1219, 101.6869, 3.1575, 101.6804)
	if quote.EstimatedDuration != 1 {
		t.Errorf("EstimatedDuration = %d, want 1", quote.EstimatedDuration)
	}

	// Zero distance means zero duration.
	zero := pricing.Estimate(3.1219, 101.6869, 3.1219, 101.6869)
	if zero.EstimatedDuration != 0 {
		t.Errorf("EstimatedDuration for zero distance = %d, want 0", zero.EstimatedDuration)
	}
}
