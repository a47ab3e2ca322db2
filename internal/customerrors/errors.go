package customerrors

import "errors"

// ErrOrderNotFound describes an error when the storage
// was successfully checked but no order with given id was found
var ErrOrderNotFound = errors.New("order not found")

// ErrSessionNotFound describes a checkout session id with no stored state behind it
var ErrSessionNotFound = errors.New("session not found")

// ValidationError is a client-correctable submission failure. Message is safe
// to show to the customer; nothing internal leaks through it
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError wraps a user-facing message into a ValidationError
func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}

// AsValidation reports whether err is a ValidationError and returns it if so
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
