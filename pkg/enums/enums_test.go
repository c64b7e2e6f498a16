package enums

import "testing"

func TestParseSubmissionStatus(t *testing.T) {
	for _, raw := range []string{"pending", "approved", "rejected"} {
		status, err := ParseSubmissionStatus(raw)
		if err != nil {
			t.Fatalf("parse %q: %v", raw, err)
		}
		if string(status) != raw || !status.IsValid() {
			t.Fatalf("unexpected status %q", status)
		}
	}
	for _, raw := range []string{"", "bogus", "Approved", "deleted"} {
		if _, err := ParseSubmissionStatus(raw); err == nil {
			t.Fatalf("expected %q to be rejected", raw)
		}
	}
}

func TestSubmissionStatusTransitions(t *testing.T) {
	tests := []struct {
		from SubmissionStatus
		to   SubmissionStatus
		ok   bool
	}{
		{SubmissionStatusPending, SubmissionStatusApproved, true},
		{SubmissionStatusPending, SubmissionStatusRejected, true},
		{SubmissionStatusPending, SubmissionStatusPending, true},
		{SubmissionStatusApproved, SubmissionStatusPending, true},
		{SubmissionStatusRejected, SubmissionStatusPending, true},
		{SubmissionStatusApproved, SubmissionStatusRejected, false},
		{SubmissionStatusRejected, SubmissionStatusApproved, false},
		{SubmissionStatusApproved, SubmissionStatusApproved, false},
		{SubmissionStatusPending, SubmissionStatus("bogus"), false},
	}
	for _, tt := range tests {
		if got := tt.from.CanTransitionTo(tt.to); got != tt.ok {
			t.Fatalf("%s -> %s: expected %v got %v", tt.from, tt.to, tt.ok, got)
		}
	}
}

func TestSubmissionStatusesReturnsCopy(t *testing.T) {
	statuses := SubmissionStatuses()
	statuses[0] = "mutated"
	if SubmissionStatuses()[0] != SubmissionStatusPending {
		t.Fatalf("expected canonical list to be immutable")
	}
}

func TestParseVenueFilter(t *testing.T) {
	tests := map[string]VenueFilter{
		"":         VenueFilterAll,
		"all":      VenueFilterAll,
		" FREE ":   VenueFilterFree,
		"paid":     VenueFilterPaid,
		"featured": VenueFilterFeatured,
	}
	for raw, want := range tests {
		got, err := ParseVenueFilter(raw)
		if err != nil {
			t.Fatalf("parse %q: %v", raw, err)
		}
		if got != want {
			t.Fatalf("parse %q: expected %s got %s", raw, want, got)
		}
	}
	if _, err := ParseVenueFilter("cheap"); err == nil {
		t.Fatalf("expected unknown filter to fail")
	}
}

func TestParseModerationEventType(t *testing.T) {
	for _, e := range []ModerationEventType{EventSubmissionCreated, EventSubmissionStatusChanged, EventVenueCreated} {
		got, err := ParseModerationEventType(e.String())
		if err != nil {
			t.Fatalf("parse %q: %v", e, err)
		}
		if got != e || !got.IsValid() {
			t.Fatalf("expected %q, got %q", e, got)
		}
	}
	if _, err := ParseModerationEventType("order_created"); err == nil {
		t.Fatal("expected unknown event type to fail")
	}
}
