package tests

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"studentcab/internal/domain"
	"studentcab/internal/payment"
	"studentcab/internal/redis"
	"studentcab/internal/repository"
)

// ──────────────────────────────────────────────
// MOCK ACCOUNT REPOSITORY
// ──────────────────────────────────────────────

// MockAccountRepository is a mock implementation of AccountRepository.
type MockAccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]*domain.Account

	// Counters for verification
	CreateCallCount       int32
	UpdateRatingCallCount int32

	// Error injection
	CreateError error
}

// NewMockAccountRepository creates a new mock account repository.
func NewMockAccountRepository() *MockAccountRepository {
	return &MockAccountRepository{
		accounts: make(map[string]*domain.Account),
	}
}

// AddAccount adds an account to the mock repository.
func (m *MockAccountRepository) AddAccount(account *domain.Account) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[account.ID] = account
}

func (m *MockAccountRepository) Create(ctx context.Context, account *domain.Account) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.accounts {
		if a.Email == account.Email || a.Phone == account.Phone {
			return repository.ErrConflict
		}
	}
	m.accounts[account.ID] = account
	return nil
}

func (m *MockAccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	account, ok := m.accounts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *account
	return &copy, nil
}

func (m *MockAccountRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, a := range m.accounts {
		if a.Email == email {
			copy := *a
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockAccountRepository) UpdateProfile(ctx context.Context, account *domain.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.accounts[account.ID]
	if !ok {
		return repository.ErrNotFound
	}
	stored.Name = account.Name
	stored.Phone = account.Phone
	stored.Email = account.Email
	return nil
}

func (m *MockAccountRepository) AddRole(ctx context.Context, id string, role domain.Role) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	account, ok := m.accounts[id]
	if !ok {
		return repository.ErrNotFound
	}
	switch role {
	case domain.RolePassenger:
		account.IsPassenger = true
	case domain.RoleDriver:
		account.IsDriver = true
	}
	return nil
}

func (m *MockAccountRepository) UpdateCredential(ctx context.Context, id, credentialHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	account, ok := m.accounts[id]
	if !ok {
		return repository.ErrNotFound
	}
	account.CredentialHash = credentialHash
	return nil
}

func (m *MockAccountRepository) UpdateRating(ctx context.Context, id string, rating float64, count int) error {
	atomic.AddInt32(&m.UpdateRatingCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	account, ok := m.accounts[id]
	if !ok {
		return repository.ErrNotFound
	}
	account.Rating = rating
	account.RatingCount = count
	return nil
}

// GetAccount returns the account for test assertions.
func (m *MockAccountRepository) GetAccount(id string) *domain.Account {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.accounts[id]
}

// ──────────────────────────────────────────────
// MOCK DRIVER REPOSITORY
// ──────────────────────────────────────────────

// MockDriverRepository is a mock implementation of DriverRepository.
type MockDriverRepository struct {
	mu       sync.RWMutex
	profiles map[string]*domain.DriverProfile

	// Counters for verification
	CreditEarningsCallCount int32

	// Error injection
	CreateError         error
	CreditEarningsError error
}

// NewMockDriverRepository creates a new mock driver repository.
func NewMockDriverRepository() *MockDriverRepository {
	return &MockDriverRepository{
		profiles: make(map[string]*domain.DriverProfile),
	}
}

// AddProfile adds a driver profile to the mock repository.
func (m *MockDriverRepository) AddProfile(profile *domain.DriverProfile) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles[profile.AccountID] = profile
}

func (m *MockDriverRepository) Create(ctx context.Context, profile *domain.DriverProfile) error {
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.profiles {
		if p.PlateNumber == profile.PlateNumber {
			return repository.ErrConflict
		}
	}
	m.profiles[profile.AccountID] = profile
	return nil
}

func (m *MockDriverRepository) GetByAccountID(ctx context.Context, accountID string) (*domain.DriverProfile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	profile, ok := m.profiles[accountID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *profile
	return &copy, nil
}

func (m *MockDriverRepository) SetAvailability(ctx context.Context, accountID string, available bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	profile, ok := m.profiles[accountID]
	if !ok {
		return repository.ErrNotFound
	}
	profile.Available = available
	return nil
}

func (m *MockDriverRepository) UpdateLocation(ctx context.Context, accountID string, lat, lng float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	profile, ok := m.profiles[accountID]
	if !ok {
		return repository.ErrNotFound
	}
	profile.LastLat = lat
	profile.LastLng = lng
	return nil
}

func (m *MockDriverRepository) CreditEarnings(ctx context.Context, accountID string, amount float64) error {
	atomic.AddInt32(&m.CreditEarningsCallCount, 1)
	if m.CreditEarningsError != nil {
		return m.CreditEarningsError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	profile, ok := m.profiles[accountID]
	if !ok {
		return repository.ErrNotFound
	}
	profile.WalletBalance += amount
	profile.TotalEarnings += amount
	profile.CompletedRides++
	return nil
}

// GetProfile returns the profile for test assertions.
func (m *MockDriverRepository) GetProfile(accountID string) *domain.DriverProfile {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.profiles[accountID]
}

// ──────────────────────────────────────────────
// MOCK PASSENGER REPOSITORY
// ──────────────────────────────────────────────

// MockPassengerRepository is a mock implementation of PassengerRepository.
type MockPassengerRepository struct {
	mu       sync.RWMutex
	profiles map[string]*domain.PassengerProfile
}

// NewMockPassengerRepository creates a new mock passenger repository.
func NewMockPassengerRepository() *MockPassengerRepository {
	return &MockPassengerRepository{
		profiles: make(map[string]*domain.PassengerProfile),
	}
}

func (m *MockPassengerRepository) Create(ctx context.Context, profile *domain.PassengerProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles[profile.AccountID] = profile
	return nil
}

func (m *MockPassengerRepository) GetByAccountID(ctx context.Context, accountID string) (*domain.PassengerProfile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	profile, ok := m.profiles[accountID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *profile
	return &copy, nil
}

// HasProfile reports whether a profile exists for the account.
func (m *MockPassengerRepository) HasProfile(accountID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.profiles[accountID]
	return ok
}

func (m *MockPassengerRepository) Update(ctx context.Context, profile *domain.PassengerProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.profiles[profile.AccountID]; !ok {
		return repository.ErrNotFound
	}
	m.profiles[profile.AccountID] = profile
	return nil
}

// ──────────────────────────────────────────────
// MOCK RIDE REPOSITORY
// ──────────────────────────────────────────────

// MockRideRepository is a mock implementation of RideRepository. Lifecycle
// transitions check guards under the mutex, mirroring the conditional
// updates the real repository issues, so races resolve to one winner here
// too.
type MockRideRepository struct {
	mu    sync.Mutex
	rides map[string]*domain.Ride

	// Counters for verification
	CreateCallCount   int32
	AssignCallCount   int32
	CompleteCallCount int32

	// Error injection
	CreateError error
}

// NewMockRideRepository creates a new mock ride repository.
func NewMockRideRepository() *MockRideRepository {
	return &MockRideRepository{
		rides: make(map[string]*domain.Ride),
	}
}

// AddRide adds a ride to the mock repository.
func (m *MockRideRepository) AddRide(ride *domain.Ride) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rides[ride.ID] = ride
}

func (m *MockRideRepository) Create(ctx context.Context, ride *domain.Ride) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rides[ride.ID] = ride
	return nil
}

func (m *MockRideRepository) GetByID(ctx context.Context, id string) (*domain.Ride, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ride, ok := m.rides[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *ride
	return &copy, nil
}

func (m *MockRideRepository) GetActiveByPassengerID(ctx context.Context, passengerID string) (*domain.Ride, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rides {
		if r.PassengerID == passengerID && !r.Status.Terminal() {
			copy := *r
			return &copy, nil
		}
	}
	return nil, nil
}

func (m *MockRideRepository) GetActiveByDriverID(ctx context.Context, driverID string) (*domain.Ride, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rides {
		if r.DriverID == driverID && !r.Status.Terminal() {
			copy := *r
			return &copy, nil
		}
	}
	return nil, nil
}

func (m *MockRideRepository) ListByPassengerID(ctx context.Context, passengerID string) ([]*domain.Ride, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*domain.Ride
	for _, r := range m.rides {
		if r.PassengerID == passengerID {
			copy := *r
			result = append(result, &copy)
		}
	}
	return result, nil
}

func (m *MockRideRepository) ListByDriverID(ctx context.Context, driverID string) ([]*domain.Ride, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*domain.Ride
	for _, r := range m.rides {
		if r.DriverID == driverID {
			copy := *r
			result = append(result, &copy)
		}
	}
	return result, nil
}

func (m *MockRideRepository) ListPendingByIDs(ctx context.Context, ids []string) ([]*domain.Ride, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*domain.Ride
	for _, id := range ids {
		if r, ok := m.rides[id]; ok && r.Status == domain.RideStatusPending {
			copy := *r
			result = append(result, &copy)
		}
	}
	return result, nil
}

func (m *MockRideRepository) Assign(ctx context.Context, rideID, driverID string, at time.Time) error {
	atomic.AddInt32(&m.AssignCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	ride, ok := m.rides[rideID]
	if !ok {
		return repository.ErrConflict
	}
	if ride.Status != domain.RideStatusPending || ride.DriverID != "" {
		return repository.ErrConflict
	}
	ride.DriverID = driverID
	ride.Status = domain.RideStatusAccepted
	ride.AcceptedAt = at
	return nil
}

func (m *MockRideRepository) Unassign(ctx context.Context, rideID, driverID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ride, ok := m.rides[rideID]
	if !ok {
		return repository.ErrConflict
	}
	if ride.Status != domain.RideStatusAccepted || ride.DriverID != driverID {
		return repository.ErrConflict
	}
	ride.DriverID = ""
	ride.Status = domain.RideStatusPending
	ride.AcceptedAt = time.Time{}
	return nil
}

func (m *MockRideRepository) Start(ctx context.Context, rideID, driverID string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ride, ok := m.rides[rideID]
	if !ok {
		return repository.ErrConflict
	}
	if ride.Status != domain.RideStatusAccepted || ride.DriverID != driverID {
		return repository.ErrConflict
	}
	ride.Status = domain.RideStatusInProgress
	ride.PickupStatus = domain.PickupStatusSuccessful
	ride.StartedAt = at
	return nil
}

func (m *MockRideRepository) FailPickup(ctx context.Context, rideID, driverID string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ride, ok := m.rides[rideID]
	if !ok {
		return repository.ErrConflict
	}
	if ride.Status != domain.RideStatusAccepted || ride.DriverID != driverID {
		return repository.ErrConflict
	}
	ride.Status = domain.RideStatusCancelled
	ride.PickupStatus = domain.PickupStatusFailed
	ride.DriverID = ""
	ride.CancelledAt = at
	ride.CancelReason = "pickup failed"
	return nil
}

func (m *MockRideRepository) Complete(ctx context.Context, rideID, driverID string, at time.Time, paymentStatus domain.PaymentStatus) error {
	atomic.AddInt32(&m.CompleteCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	ride, ok := m.rides[rideID]
	if !ok {
		return repository.ErrConflict
	}
	if ride.Status != domain.RideStatusInProgress || ride.DriverID != driverID {
		return repository.ErrConflict
	}
	ride.Status = domain.RideStatusCompleted
	ride.PaymentStatus = paymentStatus
	ride.CompletedAt = at
	return nil
}

func (m *MockRideRepository) Cancel(ctx context.Context, rideID, passengerID, reason string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ride, ok := m.rides[rideID]
	if !ok {
		return repository.ErrConflict
	}
	if ride.PassengerID != passengerID {
		return repository.ErrConflict
	}
	if ride.Status != domain.RideStatusPending && ride.Status != domain.RideStatusAccepted {
		return repository.ErrConflict
	}
	ride.Status = domain.RideStatusCancelled
	ride.CancelledAt = at
	ride.CancelReason = reason
	return nil
}

func (m *MockRideRepository) UpdatePaymentStatus(ctx context.Context, rideID string, status domain.PaymentStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ride, ok := m.rides[rideID]
	if !ok {
		return repository.ErrNotFound
	}
	ride.PaymentStatus = status
	return nil
}

// GetRide returns the ride by ID (for test assertions).
func (m *MockRideRepository) GetRide(id string) *domain.Ride {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rides[id]
}

// CountRides returns the number of rides.
func (m *MockRideRepository) CountRides() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rides)
}

// ──────────────────────────────────────────────
// MOCK PAYMENT REPOSITORY
// ──────────────────────────────────────────────

// MockPaymentRepository is a mock implementation of PaymentRepository.
type MockPaymentRepository struct {
	mu       sync.Mutex
	payments map[string]*domain.Payment

	// Counters
	CreateCallCount int32
	SettleCallCount int32

	// Error injection
	CreateError error
}

// NewMockPaymentRepository creates a new mock payment repository.
func NewMockPaymentRepository() *MockPaymentRepository {
	return &MockPaymentRepository{
		payments: make(map[string]*domain.Payment),
	}
}

// AddPayment adds a payment to the mock repository.
func (m *MockPaymentRepository) AddPayment(p *domain.Payment) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payments[p.ID] = p
}

func (m *MockPaymentRepository) Create(ctx context.Context, p *domain.Payment) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.payments {
		if existing.RideID == p.RideID {
			return repository.ErrConflict
		}
	}
	m.payments[p.ID] = p
	return nil
}

func (m *MockPaymentRepository) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.payments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *p
	return &copy, nil
}

func (m *MockPaymentRepository) GetByRideID(ctx context.Context, rideID string) (*domain.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.payments {
		if p.RideID == rideID {
			copy := *p
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockPaymentRepository) GetByIntentID(ctx context.Context, intentID string) (*domain.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.payments {
		if p.IntentID == intentID {
			copy := *p
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockPaymentRepository) SetIntentID(ctx context.Context, id, intentID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.payments[id]
	if !ok {
		return repository.ErrNotFound
	}
	p.IntentID = intentID
	return nil
}

func (m *MockPaymentRepository) SettleIfPending(ctx context.Context, id string, at time.Time) (bool, error) {
	atomic.AddInt32(&m.SettleCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.payments[id]
	if !ok {
		return false, repository.ErrNotFound
	}
	if p.Status != domain.PaymentStatusPending {
		return false, nil
	}
	p.Status = domain.PaymentStatusCompleted
	p.SettledAt = at
	return true, nil
}

func (m *MockPaymentRepository) MarkFailed(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.payments[id]
	if !ok {
		return repository.ErrNotFound
	}
	p.Status = domain.PaymentStatusFailed
	return nil
}

// GetPayment returns the payment for test assertions.
func (m *MockPaymentRepository) GetPayment(id string) *domain.Payment {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.payments[id]
}

// GetPaymentByRideID returns the payment for a ride (for assertions).
func (m *MockPaymentRepository) GetPaymentByRideID(rideID string) *domain.Payment {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.payments {
		if p.RideID == rideID {
			return p
		}
	}
	return nil
}

// CountPayments returns the number of payments.
func (m *MockPaymentRepository) CountPayments() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.payments)
}

// ──────────────────────────────────────────────
// MOCK RATING REPOSITORY
// ──────────────────────────────────────────────

// MockRatingRepository is a mock implementation of RatingRepository.
type MockRatingRepository struct {
	mu      sync.Mutex
	ratings []*domain.Rating
}

// NewMockRatingRepository creates a new mock rating repository.
func NewMockRatingRepository() *MockRatingRepository {
	return &MockRatingRepository{}
}

func (m *MockRatingRepository) Create(ctx context.Context, rating *domain.Rating) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.ratings {
		if r.RideID == rating.RideID && r.Direction == rating.Direction {
			return repository.ErrConflict
		}
	}
	m.ratings = append(m.ratings, rating)
	return nil
}

func (m *MockRatingRepository) ExistsForRide(ctx context.Context, rideID string, direction domain.RatingDirection) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.ratings {
		if r.RideID == rideID && r.Direction == direction {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockRatingRepository) ListByRatee(ctx context.Context, rateeID string, direction domain.RatingDirection) ([]*domain.Rating, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*domain.Rating
	for _, r := range m.ratings {
		if r.RateeID == rateeID && r.Direction == direction {
			copy := *r
			result = append(result, &copy)
		}
	}
	return result, nil
}

func (m *MockRatingRepository) AggregateForRatee(ctx context.Context, rateeID string, direction domain.RatingDirection) (float64, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var sum float64
	count := 0
	for _, r := range m.ratings {
		if r.RateeID == rateeID && r.Direction == direction {
			sum += r.OverallScore
			count++
		}
	}
	if count == 0 {
		return 0, 0, nil
	}
	return sum / float64(count), count, nil
}

// CountRatings returns the number of stored ratings.
func (m *MockRatingRepository) CountRatings() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.ratings)
}

// ──────────────────────────────────────────────
// MOCK MESSAGE REPOSITORY
// ──────────────────────────────────────────────

// MockMessageRepository is a mock implementation of MessageRepository.
type MockMessageRepository struct {
	mu       sync.Mutex
	messages []*domain.Message

	CreateError error
}

// NewMockMessageRepository creates a new mock message repository.
func NewMockMessageRepository() *MockMessageRepository {
	return &MockMessageRepository{}
}

func (m *MockMessageRepository) Create(ctx context.Context, message *domain.Message) error {
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, message)
	return nil
}

func (m *MockMessageRepository) GetByID(ctx context.Context, id string) (*domain.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, msg := range m.messages {
		if msg.ID == id {
			copy := *msg
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockMessageRepository) ListByRideID(ctx context.Context, rideID string) ([]*domain.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*domain.Message
	for _, msg := range m.messages {
		if msg.RideID == rideID {
			copy := *msg
			result = append(result, &copy)
		}
	}
	return result, nil
}

func (m *MockMessageRepository) MarkRead(ctx context.Context, id, readerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, msg := range m.messages {
		if msg.ID == id && msg.ReceiverID == readerID {
			msg.Read = true
			return nil
		}
	}
	return repository.ErrNotFound
}

// CountMessages returns the number of stored messages.
func (m *MockMessageRepository) CountMessages() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.messages)
}

// ──────────────────────────────────────────────
// MOCK GEO STORE
// ──────────────────────────────────────────────

// MockGeoStore is a mock implementation of GeoStoreInterface. It does no
// real geo filtering; proximity queries return everything in insertion
// order.
type MockGeoStore struct {
	mu           sync.Mutex
	drivers      []redis.Nearby
	pendingRides []redis.Nearby

	// Counters
	AddPendingRideCallCount    int32
	RemovePendingRideCallCount int32

	// Error injection
	FindNearbyDriversError error
	AddPendingRideError    error
}

// NewMockGeoStore creates a new mock geo store.
func NewMockGeoStore() *MockGeoStore {
	return &MockGeoStore{}
}

func (m *MockGeoStore) UpdateDriverLocation(ctx context.Context, driverID string, lat, lng float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, d := range m.drivers {
		if d.ID == driverID {
			m.drivers[i].Lat = lat
			m.drivers[i].Lng = lng
			return nil
		}
	}
	m.drivers = append(m.drivers, redis.Nearby{ID: driverID, Lat: lat, Lng: lng})
	return nil
}

func (m *MockGeoStore) RemoveDriverLocation(ctx context.Context, driverID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, d := range m.drivers {
		if d.ID == driverID {
			m.drivers = append(m.drivers[:i], m.drivers[i+1:]...)
			return nil
		}
	}
	return nil
}

func (m *MockGeoStore) FindNearbyDrivers(ctx context.Context, lat, lng, radiusKm float64) ([]redis.Nearby, error) {
	if m.FindNearbyDriversError != nil {
		return nil, m.FindNearbyDriversError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]redis.Nearby, len(m.drivers))
	copy(result, m.drivers)
	return result, nil
}

func (m *MockGeoStore) AddPendingRide(ctx context.Context, rideID string, lat, lng float64) error {
	atomic.AddInt32(&m.AddPendingRideCallCount, 1)
	if m.AddPendingRideError != nil {
		return m.AddPendingRideError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pendingRides = append(m.pendingRides, redis.Nearby{ID: rideID, Lat: lat, Lng: lng})
	return nil
}

func (m *MockGeoStore) RemovePendingRide(ctx context.Context, rideID string) error {
	atomic.AddInt32(&m.RemovePendingRideCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, r := range m.pendingRides {
		if r.ID == rideID {
			m.pendingRides = append(m.pendingRides[:i], m.pendingRides[i+1:]...)
			return nil
		}
	}
	return nil
}

func (m *MockGeoStore) FindNearbyPendingRides(ctx context.Context, lat, lng, radiusKm float64) ([]redis.Nearby, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]redis.Nearby, len(m.pendingRides))
	copy(result, m.pendingRides)
	return result, nil
}

// HasDriver checks whether a driver is in the geo index.
func (m *MockGeoStore) HasDriver(driverID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, d := range m.drivers {
		if d.ID == driverID {
			return true
		}
	}
	return false
}

// HasPendingRide checks whether a ride is in the discovery pool.
func (m *MockGeoStore) HasPendingRide(rideID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.pendingRides {
		if r.ID == rideID {
			return true
		}
	}
	return false
}

// ──────────────────────────────────────────────
// MOCK LOCK STORE
// ──────────────────────────────────────────────

// MockLockStore is a mock implementation of LockStoreInterface.
type MockLockStore struct {
	mu    sync.Mutex
	locks map[string]time.Time

	// Counters
	AcquireCallCount int32
	ReleaseCallCount int32

	// Force lock failure
	ForceAcquireFailure bool
}

// NewMockLockStore creates a new mock lock store.
func NewMockLockStore() *MockLockStore {
	return &MockLockStore{
		locks: make(map[string]time.Time),
	}
}

func (m *MockLockStore) AcquireRideLock(ctx context.Context, rideID string, ttl time.Duration) (bool, error) {
	atomic.AddInt32(&m.AcquireCallCount, 1)
	if m.ForceAcquireFailure {
		return false, nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if expiry, exists := m.locks[rideID]; exists && time.Now().Before(expiry) {
		return false, nil
	}
	m.locks[rideID] = time.Now().Add(ttl)
	return true, nil
}

func (m *MockLockStore) ReleaseRideLock(ctx context.Context, rideID string) error {
	atomic.AddInt32(&m.ReleaseCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.locks, rideID)
	return nil
}

// ──────────────────────────────────────────────
// FAKE PAYMENT GATEWAY
// ──────────────────────────────────────────────

// FakeGateway is an in-memory payment.Gateway. Intents succeed when marked
// so, and webhooks are "verified" by equality with the configured signature.
type FakeGateway struct {
	mu      sync.Mutex
	intents map[string]*payment.Intent
	seq     int

	// Signature accepted by VerifyEvent.
	Signature string

	// Events returned by VerifyEvent keyed by signature payload.
	Event *payment.Event

	// Counters
	CreateIntentCallCount int32

	// Error injection
	CreateIntentError error
}

// NewFakeGateway creates a new fake gateway.
func NewFakeGateway() *FakeGateway {
	return &FakeGateway{
		intents:   make(map[string]*payment.Intent),
		Signature: "valid-signature",
	}
}

func (g *FakeGateway) CreateIntent(ctx context.Context, amount float64, currency string, metadata map[string]string) (*payment.Intent, error) {
	atomic.AddInt32(&g.CreateIntentCallCount, 1)
	if g.CreateIntentError != nil {
		return nil, g.CreateIntentError
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq++
	intent := &payment.Intent{
		ID:           fmt.Sprintf("pi_test_%d", g.seq),
		ClientSecret: fmt.Sprintf("pi_test_%d_secret", g.seq),
		Status:       "requires_payment_method",
	}
	g.intents[intent.ID] = intent
	return intent, nil
}

func (g *FakeGateway) RetrieveIntent(ctx context.Context, id string) (*payment.Intent, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	intent, ok := g.intents[id]
	if !ok {
		return nil, fmt.Errorf("no such intent: %s", id)
	}
	copy := *intent
	return &copy, nil
}

func (g *FakeGateway) VerifyEvent(payload []byte, signature string) (*payment.Event, error) {
	if signature != g.Signature {
		return nil, fmt.Errorf("signature mismatch")
	}
	if g.Event == nil {
		return nil, fmt.Errorf("no event configured")
	}
	return g.Event, nil
}

// MarkSucceeded flips an intent to succeeded, as the processor would after
// client-side confirmation.
func (g *FakeGateway) MarkSucceeded(id string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if intent, ok := g.intents[id]; ok {
		intent.Status = payment.IntentStatusSucceeded
	}
}

// ──────────────────────────────────────────────
// RECORDING PUBLISHER
// ──────────────────────────────────────────────

// RecordedEvent is one captured publish call.
type RecordedEvent struct {
	Topic string
	Type  string
	Data  map[string]any
}

// RecordingPublisher captures published events for assertions.
type RecordingPublisher struct {
	mu     sync.Mutex
	events []RecordedEvent
}

// NewRecordingPublisher creates a new RecordingPublisher.
func NewRecordingPublisher() *RecordingPublisher {
	return &RecordingPublisher{}
}

func (p *RecordingPublisher) Publish(topic, eventType string, data map[string]any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, RecordedEvent{Topic: topic, Type: eventType, Data: data})
}

// Events returns a snapshot of captured events.
func (p *RecordingPublisher) Events() []RecordedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	result := make([]RecordedEvent, len(p.events))
	copy(result, p.events)
	return result
}

// CountByType returns how many events of one type were published.
func (p *RecordingPublisher) CountByType(eventType string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	count := 0
	for _, e := range p.events {
		if e.Type == eventType {
			count++
		}
	}
	return count
}
