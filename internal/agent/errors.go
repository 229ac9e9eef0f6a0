package agent

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// ResponseFormatError reports that the provider returned text that does
// not parse as the expected JSON shape. The action fails; nothing is
// retried or repaired.
type ResponseFormatError struct {
	What string // what was being parsed, e.g. "questions", "flashcards"
	Err  error
}

func (e *ResponseFormatError) Error() string {
	return fmt.Sprintf("failed to parse %s response: %v", e.What, e.Err)
}

func (e *ResponseFormatError) Unwrap() error { return e.Err }

// RequestError reports that the provider call did not complete: the
// connection failed or the wall-clock timeout expired.
type RequestError struct {
	Timeout bool
	Err     error
}

func (e *RequestError) Error() string {
	if e.Timeout {
		return fmt.Sprintf("request timed out: %v", e.Err)
	}
	return fmt.Sprintf("request failed: %v", e.Err)
}

func (e *RequestError) Unwrap() error { return e.Err }

// classifyRequestError wraps provider transport failures so callers can
// distinguish them from format and configuration errors.
func classifyRequestError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &RequestError{Timeout: true, Err: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return &RequestError{Timeout: netErr.Timeout(), Err: err}
	}
	return err
}
