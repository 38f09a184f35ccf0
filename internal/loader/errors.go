package loader

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrClosed is returned by Load and Refetch after Close.
var ErrClosed = errors.New("loader closed")

// TimeoutError reports a fetch that did not resolve within the loader timeout.
type TimeoutError struct {
	Resource string
	After    time.Duration
}

func (e *TimeoutError) Error() string {
	if e.Resource != "" {
		return fmt.Sprintf("%s request timed out after %s", e.Resource, e.After)
	}
	return fmt.Sprintf("request timed out after %s", e.After)
}

// EnvelopeError is an envelope that reported success=false.
type EnvelopeError struct {
	Message string
}

func (e *EnvelopeError) Error() string {
	if e.Message == "" {
		return "request was not successful"
	}
	return e.Message
}

// DecodeError wraps a payload that could not be decoded into the expected shape.
type DecodeError struct {
	Cause error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode response: %v", e.Cause)
}

func (e *DecodeError) Unwrap() error {
	return e.Cause
}

// Message returns the human-readable text surfaced for err.
func Message(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, context.Canceled) {
		return "request was cancelled"
	}
	return err.Error()
}
