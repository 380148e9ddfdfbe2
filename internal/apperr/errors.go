package apperr

// ValidationError rejects malformed input before it reaches the core.
type ValidationError struct {
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func NewValidation(msg string) *ValidationError {
	return &ValidationError{Message: msg}
}

func NewValidationWrap(msg string, err error) *ValidationError {
	return &ValidationError{Message: msg, Err: err}
}

// QuotaError is an upstream rate limit or exhausted daily quota. The caller
// should surface a retry-after hint instead of retrying immediately.
type QuotaError struct {
	Message    string
	Reason     string
	RetryAfter string
}

func (e *QuotaError) Error() string { return e.Message }

func NewQuota(msg, reason string) *QuotaError {
	return &QuotaError{Message: msg, Reason: reason, RetryAfter: "86400"}
}

// AuthError is an upstream credential problem (invalid or disabled key).
// Permanent until an operator fixes the configuration.
type AuthError struct {
	Message string
	Reason  string
}

func (e *AuthError) Error() string { return e.Message }

func NewAuth(msg, reason string) *AuthError {
	return &AuthError{Message: msg, Reason: reason}
}

// UpstreamError is any other upstream failure (5xx, network, malformed
// response). Transient from the caller's point of view.
type UpstreamError struct {
	Message string
	Reason  string
	Err     error
}

func (e *UpstreamError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *UpstreamError) Unwrap() error { return e.Err }

func NewUpstream(msg, reason string) *UpstreamError {
	return &UpstreamError{Message: msg, Reason: reason}
}

func NewUpstreamWrap(msg string, err error) *UpstreamError {
	return &UpstreamError{Message: msg, Err: err}
}
