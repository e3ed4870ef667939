package service

import "errors"

// Validation errors: missing or malformed input, reported to the caller.
var (
	// ErrInvalidAccountID is returned when an account ID is empty.
	ErrInvalidAccountID = errors.New("invalid account id")

	// ErrInvalidRideID is returned when a ride ID is empty.
	ErrInvalidRideID = errors.New("invalid ride id")

	// ErrInvalidPaymentID is returned when a payment ID is empty.
	ErrInvalidPaymentID = errors.New("invalid payment id")

	// ErrInvalidMessageID is returned when a message ID is empty.
	ErrInvalidMessageID = errors.New("invalid message id")

	// ErrInvalidPickupLocation is returned when pickup coordinates or address are invalid.
	ErrInvalidPickupLocation = errors.New("invalid pickup location")

	// ErrInvalidDropoffLocation is returned when dropoff coordinates or address are invalid.
	ErrInvalidDropoffLocation = errors.New("invalid dropoff location")

	// ErrInvalidPaymentMethod is returned when the payment method is not cash or card.
	ErrInvalidPaymentMethod = errors.New("invalid payment method")

	// ErrInvalidPickupOutcome is returned when the pickup outcome is not successful or failed.
	ErrInvalidPickupOutcome = errors.New("invalid pickup outcome")

	// ErrInvalidScore is returned when a rating component is outside [1,5].
	ErrInvalidScore = errors.New("rating scores must be between 1 and 5")

	// ErrInvalidEmail is returned when the email format is invalid.
	ErrInvalidEmail = errors.New("invalid email address")

	// ErrInvalidPhoneNumber is returned when the phone number format is invalid.
	ErrInvalidPhoneNumber = errors.New("invalid phone number")

	// ErrMissingFields is returned when required registration fields are absent.
	ErrMissingFields = errors.New("missing required fields")

	// ErrMissingVehicleDetails is returned when a driver registers without vehicle info.
	ErrMissingVehicleDetails = errors.New("driver must provide vehicle details")

	// ErrWeakPassword is returned when the password is too short.
	ErrWeakPassword = errors.New("password must be at least 8 characters")

	// ErrEmptyMessage is returned when a chat message has no body.
	ErrEmptyMessage = errors.New("message body is empty")
)

// Authentication and authorization errors.
var (
	// ErrInvalidCredentials is returned on a failed login or password change.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrRoleRequired is returned when the account lacks the role an
	// operation needs.
	ErrRoleRequired = errors.New("account does not hold the required role")

	// ErrNotRidePassenger is returned when the caller is not the ride's passenger.
	ErrNotRidePassenger = errors.New("not the passenger for this ride")

	// ErrNotAssignedDriver is returned when the caller is not the ride's
	// assigned driver.
	ErrNotAssignedDriver = errors.New("not the driver for this ride")
)

// Guard violations: a state-machine precondition failed. Reported with the
// specific reason, terminal, never silently ignored.
var (
	// ErrRideNotPending is returned when accepting a ride that is no longer
	// available.
	ErrRideNotPending = errors.New("ride is no longer available")

	// ErrRideNotAccepted is returned for pickup updates outside the accepted state.
	ErrRideNotAccepted = errors.New("ride is not in accepted state")

	// ErrRideNotInProgress is returned when completing a ride that is not in progress.
	ErrRideNotInProgress = errors.New("ride is not in progress")

	// ErrRideNotCancellable is returned when cancelling a ride past acceptance.
	ErrRideNotCancellable = errors.New("ride cannot be cancelled in current state")

	// ErrRideNotCompleted is returned when rating a ride before completion.
	ErrRideNotCompleted = errors.New("ride is not completed")

	// ErrAlreadyRated is returned when the ride was already rated in that direction.
	ErrAlreadyRated = errors.New("ride already rated")

	// ErrActiveRideExists is returned when the passenger already has a ride in flight.
	ErrActiveRideExists = errors.New("passenger already has an active ride")

	// ErrDriverBusy is returned when the driver already has a ride in flight.
	ErrDriverBusy = errors.New("driver already has an active ride")

	// ErrDriverUnavailable is returned when an unavailable driver requests rides.
	ErrDriverUnavailable = errors.New("driver is not available")

	// ErrRoleAlreadyLinked is returned when linking a role the account holds.
	ErrRoleAlreadyLinked = errors.New("account already holds this role")

	// ErrPaymentNotPending is returned when reconciling a settled payment intent.
	ErrPaymentNotPending = errors.New("payment is not pending")

	// ErrNotCardPayment is returned when creating an intent for a cash ride.
	ErrNotCardPayment = errors.New("payment method is not card")

	// ErrRideUnassigned is returned when messaging a ride that has no driver
	// yet, so there is nobody on the other end.
	ErrRideUnassigned = errors.New("ride has no assigned driver")
)

// Conflict errors: the caller lost a concurrent write and may re-poll.
var (
	// ErrConcurrentUpdate is returned when a conditional update lost a race
	// after the snapshot looked fine.
	ErrConcurrentUpdate = errors.New("ride was modified concurrently")

	// ErrAccountExists is returned when the email or phone is already registered.
	ErrAccountExists = errors.New("email or phone already registered")

	// ErrPlateTaken is returned when the plate number is already registered.
	ErrPlateTaken = errors.New("plate number already registered")
)

// External service errors: safe to retry reconciliation idempotently.
var (
	// ErrPaymentGateway is returned when the payment processor is unreachable
	// or rejected the request. Local state stays pending.
	ErrPaymentGateway = errors.New("payment processor error")

	// ErrWebhookSignature is returned when a webhook payload fails
	// signature verification.
	ErrWebhookSignature = errors.New("invalid webhook signature")

	// ErrIntentNotSucceeded is returned when the processor reports the
	// intent has not succeeded yet. The payment stays pending locally.
	ErrIntentNotSucceeded = errors.New("payment has not succeeded at the processor")
)
