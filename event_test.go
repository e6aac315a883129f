package main

import (
	"strings"
	"testing"
	"time"
)

func date(hour, min int) time.Time {
	return time.Date(2024, 1, 10, hour, min, 0, 0, time.UTC)
}

func TestNewEvent_AppendsSyncOriginSuffix(t *testing.T) {
	event := NewEvent("Meeting", "Room1", date(9, 0), date(10, 0), "")

	if event.Name != "Meeting (Outlook)" {
		t.Errorf("Expected name 'Meeting (Outlook)', got '%s'", event.Name)
	}

	if event.EventID != "" {
		t.Errorf("Expected empty EventID for a source event, got '%s'", event.EventID)
	}
}

func TestNewDestinationEvent_KeepsStoredName(t *testing.T) {
	event := NewDestinationEvent("Standup (Outlook)", "", date(9, 0), date(9, 15), "", "g1")

	if event.Name != "Standup (Outlook)" {
		t.Errorf("Expected stored name to be kept, got '%s'", event.Name)
	}

	if event.EventID != "g1" {
		t.Errorf("Expected EventID 'g1', got '%s'", event.EventID)
	}

	if !event.isSyncOrigin() {
		t.Error("Expected a suffixed destination event to be sync-origin")
	}
}

func TestEventEqual_ContentEquality(t *testing.T) {
	a := NewEvent("Meeting", "Room1", date(9, 0), date(10, 0), "agenda")
	b := NewDestinationEvent("Meeting (Outlook)", "Room1", date(9, 0), date(10, 0), "agenda", "g2")

	if !a.Equal(b) {
		t.Error("Expected events with equal content to be equal regardless of EventID")
	}
}

func TestEventEqual_FieldMismatches(t *testing.T) {
	base := NewEvent("Meeting", "Room1", date(9, 0), date(10, 0), "agenda")

	cases := []struct {
		name  string
		other Event
	}{
		{"name", NewEvent("Briefing", "Room1", date(9, 0), date(10, 0), "agenda")},
		{"location", NewEvent("Meeting", "Room2", date(9, 0), date(10, 0), "agenda")},
		{"start", NewEvent("Meeting", "Room1", date(9, 30), date(10, 0), "agenda")},
		{"end", NewEvent("Meeting", "Room1", date(9, 0), date(10, 30), "agenda")},
		{"detail", NewEvent("Meeting", "Room1", date(9, 0), date(10, 0), "notes")},
	}

	for _, tc := range cases {
		if base.Equal(tc.other) {
			t.Errorf("Expected events differing in %s to be unequal", tc.name)
		}
	}
}

func TestEventEqual_IgnoresOffset(t *testing.T) {
	// Same wall-clock reading in different locations compares equal: the
	// comparison is over the naive local rendering.
	tokyo := time.FixedZone("JST", 9*60*60)
	a := NewEvent("Meeting", "", date(9, 0), date(10, 0), "")
	b := NewEvent("Meeting", "",
		time.Date(2024, 1, 10, 9, 0, 0, 0, tokyo),
		time.Date(2024, 1, 10, 10, 0, 0, 0, tokyo), "")

	if !a.Equal(b) {
		t.Error("Expected equality to ignore the timezone offset")
	}
}

func TestEventString_TruncatesDetail(t *testing.T) {
	detail := "first line\nsecond line " + strings.Repeat("x", 100)
	event := NewEvent("Meeting", "Room1", date(9, 0), date(10, 0), detail)

	rendered := event.String()

	if strings.Contains(rendered, "\nsecond") {
		t.Error("Expected detail newlines to be flattened in String output")
	}

	if strings.Contains(rendered, strings.Repeat("x", 60)) {
		t.Error("Expected detail to be truncated in String output")
	}

	// Truncation is display-only: the stored detail is untouched.
	if event.Detail != detail {
		t.Error("Expected String not to modify the event detail")
	}

	if !strings.Contains(rendered, "start_time: 2024-01-10T09:00:00") {
		t.Errorf("Expected ISO start time in String output, got:\n%s", rendered)
	}
}
