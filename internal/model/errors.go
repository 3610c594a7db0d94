package model

// ValidationError carries a user-facing message for bad input shape or
// content. The error classifier maps it to 400 without suppressing the
// message in production.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Invalid constructs a ValidationError.
func Invalid(message string) *ValidationError {
	return &ValidationError{Message: message}
}
