package identity

import "fmt"

// AuthError is a failed sign-in or sign-out.
type AuthError struct {
	Op         string
	StatusCode int
	Message    string
	Cause      error
}

func (e *AuthError) Error() string {
	msg := fmt.Sprintf("%s failed: %s", e.Op, e.Message)
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s [HTTP %d]", msg, e.StatusCode)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *AuthError) Unwrap() error {
	return e.Cause
}
