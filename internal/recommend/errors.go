package recommend

import (
	"errors"
	"fmt"
)

// Reason classifies why a recommendation fetch failed.
type Reason string

const (
	// ReasonNetwork covers transport failures and timeouts.
	ReasonNetwork Reason = "network"
	// ReasonServer covers non-2xx responses.
	ReasonServer Reason = "server"
	// ReasonDecode covers malformed or schema-invalid response bodies.
	ReasonDecode Reason = "decode"
)

// ErrRequestInFlight is returned when a fetch is started while another one is
// still outstanding on the same client. The second request is ignored.
var ErrRequestInFlight = errors.New("a recommendation request is already in flight")

// RecommendationError represents a failed call to the recommendation service.
type RecommendationError struct {
	Reason     Reason
	StatusCode int
	Message    string
	Cause      error
}

func (e *RecommendationError) Error() string {
	msg := fmt.Sprintf("could not fetch recommendations (%s): %s", e.Reason, e.Message)
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s [HTTP %d]", msg, e.StatusCode)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *RecommendationError) Unwrap() error {
	return e.Cause
}
