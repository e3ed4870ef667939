package domain

import "time"

// Role represents a capability attached to an account.
type Role string

const (
	RolePassenger Role = "passenger"
	RoleDriver    Role = "driver"
)

// Account represents a registered user. One account may hold the passenger
// role, the driver role, or both; linking a second role extends the same
// account rather than creating a new one.
type Account struct {
	ID             string
	Name           string
	Phone          string
	Email          string
	CredentialHash string
	IsPassenger    bool
	IsDriver       bool
	Rating         float64 // 1.0–5.0, recomputed by the rating aggregator
	RatingCount    int
	CreatedAt      time.Time
}

// HasRole reports whether the account holds the given role.
func (a *Account) HasRole(role Role) bool {
	switch role {
	case RolePassenger:
		return a.IsPassenger
	case RoleDriver:
		return a.IsDriver
	}
	return false
}

// DriverProfile holds the driver-specific extension of an account.
type DriverProfile struct {
	AccountID      string
	VehicleModel   string
	VehicleColor   string
	PlateNumber    string
	Available      bool
	LastLat        float64
	LastLng        float64
	WalletBalance  float64
	TotalEarnings  float64
	CompletedRides int
}

// PassengerProfile holds the passenger-specific extension of an account.
type PassengerProfile struct {
	AccountID         string
	StoredCard        string
	EmergencyContacts []string
}
