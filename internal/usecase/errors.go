package usecase

import (
	"errors"

	"rental-marketplace/pkg/utils"
)

// Error classes. Every domain error wraps exactly one of them and the
// adaptor layer picks the HTTP status from the class.
var (
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
)

// Error is a domain error whose message is safe to show to clients.
type Error struct {
	class error
	msg   string
}

func (e *Error) Error() string { return e.msg }
func (e *Error) Unwrap() error { return e.class }

func newError(class error, msg string) *Error {
	return &Error{class: class, msg: msg}
}

// ValidationError carries per-field messages.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + utils.FormatValidationErrors(e.Fields)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

func invalidFields(fields map[string]string) error {
	return &ValidationError{Fields: fields}
}

func invalidField(field, msg string) error {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

var (
	ErrAccessDenied = newError(ErrForbidden, "Access denied")

	// ErrConcurrentUpdate reports a transaction that lost a race with another
	// request on the same rows. Retrying is safe.
	ErrConcurrentUpdate = newError(ErrConflict, "The record was changed by another request, please retry")

	// auth
	ErrInvalidCredentials = newError(ErrUnauthorized, "Invalid email or password")
	ErrAccountDeactivated = newError(ErrForbidden, "Account is deactivated")
	ErrEmailTaken         = newError(ErrConflict, "User already exists with this email")
	ErrUserNotFound       = newError(ErrNotFound, "User not found")

	// properties
	ErrPropertyNotFound     = newError(ErrNotFound, "Property not found")
	ErrPropertyNotAvailable = newError(ErrValidation, "Property is not available for booking")

	// bookings
	ErrInvalidDateRange      = newError(ErrValidation, "End date must be after start date")
	ErrGuestsOutOfRange      = newError(ErrValidation, "Guests must be between 1 and the property's capacity")
	ErrBookingConflict       = newError(ErrConflict, "Property is not available for selected dates")
	ErrBookingNotFound       = newError(ErrNotFound, "Booking not found")
	ErrInvalidTransition     = newError(ErrConflict, "Booking status cannot be changed to the requested status")
	ErrCustomerMayOnlyCancel = newError(ErrForbidden, "Customers can only cancel their bookings")

	// payments
	ErrPaymentNotFound           = newError(ErrNotFound, "Payment not found")
	ErrPaymentAlreadyCompleted   = newError(ErrConflict, "Payment already completed for this booking")
	ErrBookingNotPayable         = newError(ErrConflict, "Booking can no longer be paid")
	ErrPhoneNumberRequired       = newError(ErrValidation, "Valid phone number is required for mobile payments")
	ErrPaymentInitiationFailed   = newError(ErrConflict, "Payment could not be initiated")
	ErrPaymentConfirmationFailed = newError(ErrConflict, "Payment confirmation failed")
	ErrPaymentNotPending         = newError(ErrConflict, "Payment is not awaiting confirmation")

	// reviews
	ErrReviewNotFound    = newError(ErrNotFound, "Review not found")
	ErrReviewNotEligible = newError(ErrValidation, "You can only review properties you have booked and completed")
	ErrDuplicateReview   = newError(ErrConflict, "You have already reviewed this property")

	// admin
	ErrSelfStatusChange = newError(ErrValidation, "Cannot change your own status")
)
