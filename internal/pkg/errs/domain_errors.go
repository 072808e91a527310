package errs

import "errors"

// Sentinel errors shared across usecase layers. Every business-rule
// violation surfaces as one of these, never as a silent no-op.
var (
	// Lookup errors
	ErrCourtNotFound       = errors.New("court not found")
	ErrReservationNotFound = errors.New("reservation not found")
	ErrHoldNotFound        = errors.New("hold not found")

	// Booking errors
	ErrValidation      = errors.New("validation error")
	ErrLeadTime        = errors.New("lead time violation")
	ErrDuration        = errors.New("duration out of allowed range")
	ErrSlotConflict    = errors.New("slot conflict")
	ErrLockWindow      = errors.New("edit lock window violation")
	ErrInvalidState    = errors.New("transition not allowed from current state")
	ErrNoPricingRule   = errors.New("no pricing rule for slot")

	// Idempotency errors
	ErrIdempotencyKeyRequired = errors.New("idempotency key required")
	ErrIdempotencyInProgress  = errors.New("idempotency in progress")
	ErrDuplicateRequest       = errors.New("duplicate request with different parameters")

	// Store errors
	ErrStoreTimeout = errors.New("store timeout")
	ErrStoreFailure = errors.New("store operation failed")
)
