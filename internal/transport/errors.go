package transport

import "fmt"

const (
	OpChat   = "chat"
	OpClear  = "clear"
	OpHealth = "health"
)

// ApplicationError means the DM service answered with a non-2xx status.
// Message is the best human-readable text found in the response.
type ApplicationError struct {
	Op         string
	StatusCode int
	Message    string
}

func (e *ApplicationError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("transport: %s: status %d: %s", e.Op, e.StatusCode, e.Message)
}

// TransportFailure means no usable response arrived: the network failed,
// the call timed out, or the body could not be decoded.
type TransportFailure struct {
	Op  string
	Err error
}

func (e *TransportFailure) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("transport: %s request failed: %v", e.Op, e.Err)
}

func (e *TransportFailure) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
