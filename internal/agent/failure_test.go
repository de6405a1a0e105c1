package agent

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestFailureError(t *testing.T) {
	f := NewFailure(ReasonUpstreamError, errors.New("googleapi: Error 401"))
	if got := f.Error(); !strings.Contains(got, "UpstreamError") || !strings.Contains(got, "401") {
		t.Errorf("Error() = %q, want reason and detail", got)
	}

	bare := &Failure{Reason: ReasonCancelled}
	if got := bare.Error(); got != "Cancelled" {
		t.Errorf("Error() = %q, want %q", got, "Cancelled")
	}
}

func TestAsFailure(t *testing.T) {
	inner := NewFailure(ReasonModelTimeout, errors.New("deadline exceeded"))
	wrapped := fmt.Errorf("task run: %w", inner)

	if got := AsFailure(wrapped); got.Reason != ReasonModelTimeout {
		t.Errorf("AsFailure() reason = %q, want %q", got.Reason, ReasonModelTimeout)
	}

	plain := errors.New("boom")
	if got := AsFailure(plain); got.Reason != ReasonModelError {
		t.Errorf("AsFailure() reason for plain error = %q, want %q", got.Reason, ReasonModelError)
	}
}

func TestUserMessageNeverLeaksDetail(t *testing.T) {
	reasons := []Reason{
		ReasonUnknownTool,
		ReasonInvalidArguments,
		ReasonUpstreamError,
		ReasonModelTimeout,
		ReasonModelError,
		ReasonCancelled,
	}

	for _, reason := range reasons {
		f := NewFailure(reason, errors.New("googleapi: Error 401: invalid_grant"))
		msg := f.UserMessage()
		if msg == "" {
			t.Errorf("UserMessage() for %s is empty", reason)
		}
		if strings.Contains(msg, "401") || strings.Contains(msg, "invalid_grant") {
			t.Errorf("UserMessage() for %s leaks upstream detail: %q", reason, msg)
		}
	}
}
