package main

import "time"

// SourceCalendar is the read-only side of the sync. GetEvents returns every
// occurrence (recurrences expanded) whose start falls within [start, end]
// inclusive, sorted by start time, with no EventID set.
type SourceCalendar interface {
	GetEvents(start, end time.Time) ([]Event, error)
}

// DestinationCalendar is the read-write side of the sync. GetEvents returns
// events whose start falls within [start, end), half-open on the upper
// bound, each carrying its Google-assigned EventID.
type DestinationCalendar interface {
	GetEvents(start, end time.Time) ([]Event, error)
	AddEvent(event Event) error
	RemoveEvent(event Event) error
}
