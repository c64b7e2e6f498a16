package enums

import "fmt"

// SubmissionStatus maps to the submission_status column.
type SubmissionStatus string

const (
	SubmissionStatusPending  SubmissionStatus = "pending"
	SubmissionStatusApproved SubmissionStatus = "approved"
	SubmissionStatusRejected SubmissionStatus = "rejected"
)

var validSubmissionStatuses = []SubmissionStatus{
	SubmissionStatusPending,
	SubmissionStatusApproved,
	SubmissionStatusRejected,
}

// String implements fmt.Stringer.
func (s SubmissionStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is one of pending, approved or rejected.
func (s SubmissionStatus) IsValid() bool {
	for _, candidate := range validSubmissionStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// CanTransitionTo reports whether moderation may move a submission from s to next.
// Any state may be reset to pending; approval and rejection only leave pending.
func (s SubmissionStatus) CanTransitionTo(next SubmissionStatus) bool {
	if !next.IsValid() {
		return false
	}
	if next == SubmissionStatusPending {
		return true
	}
	return s == SubmissionStatusPending
}

// ParseSubmissionStatus converts raw input into SubmissionStatus.
func ParseSubmissionStatus(value string) (SubmissionStatus, error) {
	for _, candidate := range validSubmissionStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid submission status %q", value)
}

// SubmissionStatuses returns the canonical statuses in display order.
func SubmissionStatuses() []SubmissionStatus {
	out := make([]SubmissionStatus, len(validSubmissionStatuses))
	copy(out, validSubmissionStatuses)
	return out
}
