package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/emersion/go-ical"
	"github.com/teambition/rrule-go"
)

// OutlookCalendar reads events from an Outlook calendar exported as an
// iCalendar (.ics) file. The export is the local calendar store: it is
// decoded once at connect time and queried read-only after that.
type OutlookCalendar struct {
	calendars []*ical.Calendar
	location  *time.Location
}

// ConnectOutlookCalendar opens and decodes the exported calendar store.
// It fails if the store is missing or unparseable; there is no retry.
func ConnectOutlookCalendar(path string, location *time.Location) (*OutlookCalendar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open Outlook calendar store: %w", err)
	}
	defer f.Close()

	// An export may concatenate several VCALENDAR streams.
	decoder := ical.NewDecoder(f)
	var calendars []*ical.Calendar
	for {
		cal, err := decoder.Decode()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse Outlook calendar store: %w", err)
		}
		calendars = append(calendars, cal)
	}

	if len(calendars) == 0 {
		return nil, fmt.Errorf("no calendar data found in %s", path)
	}

	return &OutlookCalendar{calendars: calendars, location: location}, nil
}

// GetEvents returns all occurrences whose start falls within [start, end]
// inclusive, recurring events expanded, sorted by start time. A malformed
// entry fails the whole read: a silently dropped event would look deleted
// in Outlook and its mirrored Google events would be removed.
func (c *OutlookCalendar) GetEvents(start, end time.Time) ([]Event, error) {
	var events []Event

	for _, cal := range c.calendars {
		for _, vevent := range cal.Events() {
			occurrences, err := c.expand(vevent, start, end)
			if err != nil {
				return nil, fmt.Errorf("failed to read Outlook event: %w", err)
			}
			events = append(events, occurrences...)
		}
	}

	sort.Slice(events, func(i, j int) bool {
		return events[i].StartTime.Before(events[j].StartTime)
	})

	return events, nil
}

// expand maps one VEVENT to the Events whose start lies in [start, end]
// inclusive. For recurring events the RRULE is expanded within the window,
// each occurrence keeping the original event's duration; EXDATE occurrences
// are dropped.
func (c *OutlookCalendar) expand(vevent ical.Event, start, end time.Time) ([]Event, error) {
	status, err := vevent.Props.Text(ical.PropStatus)
	if err != nil {
		return nil, fmt.Errorf("bad STATUS: %w", err)
	}
	if status == "CANCELLED" {
		return nil, nil
	}

	summary, err := vevent.Props.Text(ical.PropSummary)
	if err != nil {
		return nil, fmt.Errorf("bad SUMMARY: %w", err)
	}
	location, err := vevent.Props.Text(ical.PropLocation)
	if err != nil {
		return nil, fmt.Errorf("bad LOCATION: %w", err)
	}
	detail, err := vevent.Props.Text(ical.PropDescription)
	if err != nil {
		return nil, fmt.Errorf("bad DESCRIPTION: %w", err)
	}

	eventStart, err := vevent.DateTimeStart(c.location)
	if err != nil {
		return nil, fmt.Errorf("bad DTSTART: %w", err)
	}
	eventEnd, err := vevent.DateTimeEnd(c.location)
	if err != nil {
		return nil, fmt.Errorf("bad DTEND: %w", err)
	}
	duration := eventEnd.Sub(eventStart)

	rruleProp := vevent.Props.Get(ical.PropRecurrenceRule)
	if rruleProp == nil {
		if inWindow(eventStart, start, end) {
			return []Event{NewEvent(summary, location, eventStart, eventEnd, detail)}, nil
		}
		return nil, nil
	}

	option, err := rrule.StrToROption(rruleProp.Value)
	if err != nil {
		return nil, fmt.Errorf("bad RRULE: %w", err)
	}
	option.Dtstart = eventStart

	rule, err := rrule.NewRRule(*option)
	if err != nil {
		return nil, fmt.Errorf("bad RRULE: %w", err)
	}

	excluded := make(map[string]bool)
	for _, prop := range vevent.Props[ical.PropExceptionDates] {
		// EXDATE holds a comma-separated date list; parse each element
		// on its own with the property's original parameters.
		for _, value := range strings.Split(prop.Value, ",") {
			single := prop
			single.Value = value
			exdate, err := single.DateTime(c.location)
			if err != nil {
				return nil, fmt.Errorf("bad EXDATE: %w", err)
			}
			excluded[naiveISO(exdate)] = true
		}
	}

	var events []Event
	for _, occurrence := range rule.Between(start, end, true) {
		if excluded[naiveISO(occurrence)] {
			continue
		}
		events = append(events, NewEvent(summary, location, occurrence, occurrence.Add(duration), detail))
	}

	return events, nil
}

// inWindow reports whether t falls within [start, end] inclusive.
func inWindow(t, start, end time.Time) bool {
	return !t.Before(start) && !t.After(end)
}
