package main

import (
	"strings"
	"time"
)

// syncOriginSuffix is appended to the name of every event this tool creates
// in Google Calendar. It is how a later run tells its own events apart from
// events the user created in Google directly.
const syncOriginSuffix = " (Outlook)"

// maxDetailPrintLength caps the detail text in String output. Display only;
// equality always compares the full detail.
const maxDetailPrintLength = 50

// Event is a normalized calendar event, produced by either backend adapter.
// Times are wall-clock values in the configured timezone; offsets never
// participate in comparisons. Treat an Event as immutable once constructed.
type Event struct {
	Name      string
	Location  string
	StartTime time.Time
	EndTime   time.Time
	Detail    string

	// EventID is the Google-assigned identifier. It is set only on events
	// read back from Google Calendar and is excluded from equality: the
	// two backends have unrelated ID spaces, so "the same event" can only
	// be recognized by content.
	EventID string
}

// NewEvent constructs an event read from the Outlook calendar. The name is
// tagged with the sync-origin suffix so the event can be recognized in
// Google Calendar on later runs.
func NewEvent(name, location string, start, end time.Time, detail string) Event {
	return Event{
		Name:      name + syncOriginSuffix,
		Location:  location,
		StartTime: start.Truncate(time.Second),
		EndTime:   end.Truncate(time.Second),
		Detail:    detail,
	}
}

// NewDestinationEvent constructs an event read back from Google Calendar.
// The stored name is kept as-is (including the sync-origin suffix if a
// previous run created it) and the Google event ID is recorded.
func NewDestinationEvent(name, location string, start, end time.Time, detail, eventID string) Event {
	return Event{
		Name:      name,
		Location:  location,
		StartTime: start.Truncate(time.Second),
		EndTime:   end.Truncate(time.Second),
		Detail:    detail,
		EventID:   eventID,
	}
}

// naiveISO renders t as an ISO-8601 wall-clock timestamp with no offset.
// Two times render identically iff they show the same local clock reading,
// which is the comparison the sync is built on.
func naiveISO(t time.Time) string {
	return t.Format("2006-01-02T15:04:05")
}

// Equal reports whether two events describe the same occurrence: name,
// location, start, end and detail all match exactly. EventID is ignored.
func (e Event) Equal(other Event) bool {
	return e.Name == other.Name &&
		e.Location == other.Location &&
		naiveISO(e.StartTime) == naiveISO(other.StartTime) &&
		naiveISO(e.EndTime) == naiveISO(other.EndTime) &&
		e.Detail == other.Detail
}

// key returns the equality tuple as a single string, suitable for use as a
// map key. Two events have the same key iff Equal reports true.
func (e Event) key() string {
	return strings.Join([]string{
		e.Name,
		e.Location,
		naiveISO(e.StartTime),
		naiveISO(e.EndTime),
		e.Detail,
	}, "\x1f")
}

// isSyncOrigin reports whether the event was created by a previous sync run,
// judged by the name suffix.
func (e Event) isSyncOrigin() bool {
	return strings.HasSuffix(e.Name, syncOriginSuffix)
}

// String renders the event for diagnostics. The detail is flattened to a
// single line and truncated.
func (e Event) String() string {
	detail := strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(e.Detail)
	if runes := []rune(detail); len(runes) > maxDetailPrintLength {
		detail = string(runes[:maxDetailPrintLength])
	}

	return "name      : " + e.Name + "\n" +
		"location  : " + e.Location + "\n" +
		"start_time: " + naiveISO(e.StartTime) + "\n" +
		"end_time  : " + naiveISO(e.EndTime) + "\n" +
		"detail    : " + detail + "\n" +
		"event_id  : " + e.EventID + "\n"
}
