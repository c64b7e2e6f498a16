package enums

import "fmt"

// ModerationEventType tags messages published to the moderation topic.
type ModerationEventType string

const (
	EventSubmissionCreated       ModerationEventType = "submission_created"
	EventSubmissionStatusChanged ModerationEventType = "submission_status_changed"
	EventVenueCreated            ModerationEventType = "venue_created"
)

var validModerationEventTypes = []ModerationEventType{
	EventSubmissionCreated,
	EventSubmissionStatusChanged,
	EventVenueCreated,
}

func (e ModerationEventType) String() string {
	return string(e)
}

// IsValid reports whether the value matches a published event type.
func (e ModerationEventType) IsValid() bool {
	for _, candidate := range validModerationEventTypes {
		if candidate == e {
			return true
		}
	}
	return false
}

// ParseModerationEventType converts raw input into ModerationEventType.
func ParseModerationEventType(value string) (ModerationEventType, error) {
	for _, candidate := range validModerationEventTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid event type %q", value)
}
