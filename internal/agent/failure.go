package agent

import (
	"errors"
	"fmt"
)

// Reason classifies why a task failed.
type Reason string

const (
	ReasonUnknownTool      Reason = "UnknownTool"
	ReasonInvalidArguments Reason = "InvalidArguments"
	ReasonUpstreamError    Reason = "UpstreamError"
	ReasonModelTimeout     Reason = "ModelTimeout"
	ReasonModelError       Reason = "ModelError"
	ReasonCancelled        Reason = "Cancelled"
)

// Failure is a classified task failure. The wrapped error carries the
// diagnostic detail; UserMessage produces the only text that may be
// shown to the end user.
type Failure struct {
	Reason Reason
	Err    error
}

func (f *Failure) Error() string {
	if f.Err == nil {
		return string(f.Reason)
	}
	return fmt.Sprintf("%s: %v", f.Reason, f.Err)
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// NewFailure wraps err with a failure reason.
func NewFailure(reason Reason, err error) *Failure {
	return &Failure{Reason: reason, Err: err}
}

// AsFailure extracts a Failure from an error chain. Unclassified errors
// come back as ModelError so callers always have a reason to report.
func AsFailure(err error) *Failure {
	var failure *Failure
	if errors.As(err, &failure) {
		return failure
	}
	return &Failure{Reason: ReasonModelError, Err: err}
}

// UserMessage returns the degraded user-facing message for the
// failure. Raw upstream payloads never appear here.
func (f *Failure) UserMessage() string {
	switch f.Reason {
	case ReasonUnknownTool, ReasonInvalidArguments:
		return "I wasn't able to work out which calendar information you need. Please try rephrasing your question."
	case ReasonUpstreamError:
		return "I couldn't reach your calendar right now. Please try again in a moment."
	case ReasonModelTimeout:
		return "It took too long to produce an answer. Please try again."
	case ReasonCancelled:
		return "The request was cancelled before an answer was ready."
	default:
		return "Something went wrong while answering your question. Please try again."
	}
}
