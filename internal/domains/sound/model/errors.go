package model

import "errors"

// Error codes
const (
	ErrCodeSoundNotFound = "SND001"
	ErrCodeNameRequired  = "SND002"
	ErrCodeUpstream      = "SND003"
)

var (
	ErrSoundNotFound = errors.New("sound not found")
	ErrNameRequired  = errors.New("sound name required")
)

// UpstreamError wraps an object-storage failure so handlers can surface the
// provider's message as a gateway error.
type UpstreamError struct {
	Message string
	Err     error
}

func (e *UpstreamError) Error() string {
	return e.Message
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// NewUpstreamError folds the provider's own error text into the message so
// the gateway response carries the upstream detail, not just our label.
func NewUpstreamError(message string, err error) *UpstreamError {
	if message == "" {
		message = "Storage operation failed."
	}
	if err != nil && err.Error() != "" {
		message = message + " " + err.Error()
	}
	return &UpstreamError{Message: message, Err: err}
}
