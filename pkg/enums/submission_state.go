package enums

import "fmt"

// SubmissionState tracks an order submission attempt.
type SubmissionState string

const (
	SubmissionIdle            SubmissionState = "idle"
	SubmissionValidating      SubmissionState = "validating"
	SubmissionSubmitting      SubmissionState = "submitting"
	SubmissionSucceeded       SubmissionState = "succeeded"
	SubmissionPartiallyFailed SubmissionState = "partially_failed"
	SubmissionFailed          SubmissionState = "failed"
)

var validSubmissionStates = []SubmissionState{
	SubmissionIdle,
	SubmissionValidating,
	SubmissionSubmitting,
	SubmissionSucceeded,
	SubmissionPartiallyFailed,
	SubmissionFailed,
}

// String implements fmt.Stringer.
func (s SubmissionState) String() string {
	return string(s)
}

// IsValid reports whether the value is a known SubmissionState.
func (s SubmissionState) IsValid() bool {
	for _, candidate := range validSubmissionStates {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the state ends a submission attempt.
func (s SubmissionState) IsTerminal() bool {
	switch s {
	case SubmissionSucceeded, SubmissionPartiallyFailed, SubmissionFailed:
		return true
	}
	return false
}

// ParseSubmissionState converts raw input into a SubmissionState.
func ParseSubmissionState(value string) (SubmissionState, error) {
	for _, candidate := range validSubmissionStates {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid submission state %q", value)
}
