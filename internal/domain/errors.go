package domain

import "errors"

// ValidationError reports a malformed value or a broken business rule.
// Sentinels below are compared with errors.Is; any of them matches errors.As.
type ValidationError struct {
	reason string
}

func NewValidationError(reason string) *ValidationError {
	return &ValidationError{reason: reason}
}

func (e *ValidationError) Error() string {
	return e.reason
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

var (
	ErrNotFound           = errors.New("not found")
	ErrIntegrity          = errors.New("data integrity violation")
	ErrDuplicateReference = errors.New("booking reference already exists")
	ErrGuestEmailTaken    = errors.New("guest email already registered")
)

// Money
var (
	ErrNegativeAmount   = NewValidationError("Money amount cannot be negative")
	ErrCurrencyRequired = NewValidationError("Currency is required")
	ErrCurrencyMismatch = NewValidationError("Cannot add different currencies")
)

// Rooms
var (
	ErrInvalidRoomNumber  = NewValidationError("Room number must be 3 digits (e.g., '301')")
	ErrRoomNumberOnFloor  = NewValidationError("Room number on floor must be between 01 and 50")
	ErrInvalidRoomType    = NewValidationError("Room type must be one of standard, deluxe, suite")
	ErrCapacityTooLow     = NewValidationError("Guest capacity must be at least 1")
	ErrCapacityTooHigh    = NewValidationError("Maximum guest capacity is 4")
	ErrRoomNumberRequired = NewValidationError("Room number is required")
	ErrRoomTypeRequired   = NewValidationError("Room type is required")
)

// Guests
var (
	ErrGuestTooYoung     = NewValidationError("Guest must be at least 18 years old")
	ErrInvalidAge        = NewValidationError("Invalid age")
	ErrFirstNameRequired = NewValidationError("First name is required")
	ErrLastNameRequired  = NewValidationError("Last name is required")
	ErrEmailRequired     = NewValidationError("Email is required")
	ErrGuestAgeRequired  = NewValidationError("Guest age is required")
)

// Dates
var (
	ErrCheckInAfterCheckOut = NewValidationError("Check-in date must be before check-out date")
	ErrLeadTime             = NewValidationError("Bookings must be made at least 24 hours in advance")
	ErrMaxStay              = NewValidationError("Maximum stay is 30 nights")
)

// Bookings
var (
	ErrInvalidReferenceLength = NewValidationError("Booking reference must be exactly 10 characters")
	ErrInvalidReferenceChars  = NewValidationError("Booking reference must contain only alphanumeric characters")
	ErrGuestIDRequired        = NewValidationError("Guest ID is required")
	ErrRoomIDRequired         = NewValidationError("Room ID is required")
	ErrGuestCountTooLow       = NewValidationError("Guest count must be at least 1")
	ErrAmountRequired         = NewValidationError("Total amount is required")
	ErrDateRangeRequired      = NewValidationError("Date range is required")
	ErrCancellationWindow     = NewValidationError("Booking cannot be cancelled within 48 hours of check-in")
	ErrNotPending             = NewValidationError("Only pending bookings can have payment confirmed")
	ErrNotConfirmed           = NewValidationError("Only confirmed bookings can be checked in")
	ErrCheckInTooEarly        = NewValidationError("Cannot check in before the check-in date")
	ErrNotCheckedIn           = NewValidationError("Only checked-in bookings can be checked out")
	ErrOverlappingBooking     = NewValidationError("Room is already booked for the requested dates")
)

// Hotel
var ErrDuplicateRoom = NewValidationError("room number already exists")
