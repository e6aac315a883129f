package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// googleDateFormat is the date-only layout Google uses for all-day events.
const googleDateFormat = "2006-01-02"

// GoogleCalendar is the destination adapter, wrapping the Google Calendar
// API for the user's primary calendar.
type GoogleCalendar struct {
	service  *calendar.Service
	timezone string
	location *time.Location
}

// ConnectGoogleCalendar creates the destination adapter using the provided
// authenticated HTTP client. All event times are requested and written in
// the given timezone.
func ConnectGoogleCalendar(ctx context.Context, httpClient *http.Client, timezone string) (*GoogleCalendar, error) {
	location, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}

	service, err := calendar.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar service: %w", err)
	}

	return &GoogleCalendar{service: service, timezone: timezone, location: location}, nil
}

// GetEvents returns events whose start lies in [start, end). The API treats
// timeMax as exclusive, giving the half-open upper bound. Cancelled events
// are filtered out; each returned event carries its Google event ID.
func (c *GoogleCalendar) GetEvents(start, end time.Time) ([]Event, error) {
	var events []Event

	// A 37-day personal window rarely fills a page, but a dense calendar
	// must not silently lose events past the first one.
	pageToken := ""
	for {
		call := c.service.Events.List("primary").
			TimeMin(start.Format(time.RFC3339)).
			TimeMax(end.Format(time.RFC3339)).
			TimeZone(c.timezone).
			MaxResults(2500)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		result, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("failed to list events: %w", err)
		}

		for _, item := range result.Items {
			event, ok, err := eventFromGoogle(item, c.location)
			if err != nil {
				return nil, fmt.Errorf("failed to read event %s: %w", item.Id, err)
			}
			if ok {
				events = append(events, event)
			}
		}

		pageToken = result.NextPageToken
		if pageToken == "" {
			break
		}
	}

	return events, nil
}

// AddEvent creates the event in the primary calendar. An event spanning
// exact midnights on both ends is created as an all-day event.
func (c *GoogleCalendar) AddEvent(event Event) error {
	_, err := c.service.Events.Insert("primary", eventToGoogle(event, c.timezone)).Do()
	if err != nil {
		return fmt.Errorf("failed to insert event: %w", err)
	}
	return nil
}

// RemoveEvent deletes the event by its Google ID. Events without an ID were
// never created in Google, so there is nothing to delete.
func (c *GoogleCalendar) RemoveEvent(event Event) error {
	if event.EventID == "" {
		return nil
	}

	if err := c.service.Events.Delete("primary", event.EventID).Do(); err != nil {
		return fmt.Errorf("failed to delete event %s: %w", event.EventID, err)
	}
	return nil
}

// eventFromGoogle maps an API event to an Event. ok is false for cancelled
// events. The effective start and end are the timed values when present,
// otherwise the all-day date values at local midnight.
func eventFromGoogle(item *calendar.Event, location *time.Location) (event Event, ok bool, err error) {
	if item.Status == "cancelled" {
		return Event{}, false, nil
	}

	start, err := googleTime(item.Start, location)
	if err != nil {
		return Event{}, false, fmt.Errorf("bad start time: %w", err)
	}
	end, err := googleTime(item.End, location)
	if err != nil {
		return Event{}, false, fmt.Errorf("bad end time: %w", err)
	}

	return NewDestinationEvent(item.Summary, item.Location, start, end, item.Description, item.Id), true, nil
}

// googleTime parses an EventDateTime, preferring the timed value over the
// all-day date value.
func googleTime(edt *calendar.EventDateTime, location *time.Location) (time.Time, error) {
	if edt == nil {
		return time.Time{}, fmt.Errorf("missing date")
	}
	if edt.DateTime != "" {
		return time.Parse(time.RFC3339, edt.DateTime)
	}
	return time.ParseInLocation(googleDateFormat, edt.Date, location)
}

// eventToGoogle builds the insert body for an event. Midnight-to-midnight
// events become date-only (all-day) events; everything else is timed.
func eventToGoogle(event Event, timezone string) *calendar.Event {
	var start, end *calendar.EventDateTime
	if isMidnight(event.StartTime) && isMidnight(event.EndTime) {
		start = &calendar.EventDateTime{Date: event.StartTime.Format(googleDateFormat), TimeZone: timezone}
		end = &calendar.EventDateTime{Date: event.EndTime.Format(googleDateFormat), TimeZone: timezone}
	} else {
		start = &calendar.EventDateTime{DateTime: naiveISO(event.StartTime), TimeZone: timezone}
		end = &calendar.EventDateTime{DateTime: naiveISO(event.EndTime), TimeZone: timezone}
	}

	return &calendar.Event{
		Summary:     event.Name,
		Location:    event.Location,
		Description: event.Detail,
		Start:       start,
		End:         end,
	}
}

// isMidnight reports whether t has no time-of-day component.
func isMidnight(t time.Time) bool {
	return t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0
}
