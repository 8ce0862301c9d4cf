package utils

import "errors"

var (
	ErrDatabaseError      = errors.New("database error")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrAccountNotFound    = errors.New("account not found")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")

	ErrBusinessNotFound    = errors.New("business not found")
	ErrCampaignNotFound    = errors.New("campaign not found")
	ErrTestimonialNotFound = errors.New("testimonial not found")
	ErrMediaNotFound       = errors.New("media not found")
	ErrFormNotFound        = errors.New("form not found")

	ErrDuplicateSubmission = errors.New("duplicate submission")
	ErrNoValidCustomers    = errors.New("no valid customers")
	ErrSlugExhausted       = errors.New("could not allocate a unique slug")
	ErrMailNotConfigured   = errors.New("notification email not configured")
	ErrStorageError        = errors.New("storage error")
)

// ValidationError carries a message meant to be shown to the user as is.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func NewValidationError(message string) error {
	return &ValidationError{Message: message}
}

func IsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
