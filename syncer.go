package main

import (
	"context"
	"fmt"
	"log"
	"time"
)

// Syncer runs one synchronization pass: it mirrors the Outlook events inside
// the rolling window into Google Calendar, creating what is missing and
// deleting sync-created events that no longer exist in Outlook.
type Syncer struct {
	source    SourceCalendar
	dest      DestinationCalendar
	backDays  int
	aheadDays int
	location  *time.Location

	// now is injectable for tests; it defaults to time.Now.
	now func() time.Time
}

// NewSyncer creates a new Syncer instance.
func NewSyncer(source SourceCalendar, dest DestinationCalendar, config *Config, location *time.Location) *Syncer {
	return &Syncer{
		source:    source,
		dest:      dest,
		backDays:  config.BackDays,
		aheadDays: config.AheadDays,
		location:  location,
		now:       time.Now,
	}
}

// window computes the reconciliation window. The start is today's midnight
// minus backDays; the end is today's midnight plus aheadDays plus one more
// day, so the last day of the window is fully covered.
func (s *Syncer) window() (start, end time.Time) {
	now := s.now().In(s.location)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.location)
	return today.AddDate(0, 0, -s.backDays), today.AddDate(0, 0, s.aheadDays+1)
}

// Run performs the synchronization. Fetch failures abort before anything is
// written. A failure while applying the diff aborts the rest of that batch;
// the number of events already applied is logged, because there is no
// transactional rollback and a blind retry would create duplicates.
func (s *Syncer) Run(ctx context.Context) error {
	start, end := s.window()
	log.Printf("copying schedule from %s to %s", naiveISO(start), naiveISO(end))

	sourceEvents, err := s.source.GetEvents(start, end)
	if err != nil {
		return fmt.Errorf("failed to get Outlook events: %w", err)
	}
	log.Printf("obtained %d events from Outlook Calendar", len(sourceEvents))

	destEvents, err := s.dest.GetEvents(start, end)
	if err != nil {
		return fmt.Errorf("failed to get Google events: %w", err)
	}
	log.Printf("obtained %d events from Google Calendar", len(destEvents))

	toAdd, toRemove := Reconcile(sourceEvents, destEvents)

	for i, event := range toAdd {
		if err := s.dest.AddEvent(event); err != nil {
			log.Printf("added %d of %d events before failure", i, len(toAdd))
			return fmt.Errorf("failed to add event %q: %w", event.Name, err)
		}
	}
	log.Printf("added %d events to Google Calendar", len(toAdd))

	for i, event := range toRemove {
		if err := s.dest.RemoveEvent(event); err != nil {
			log.Printf("removed %d of %d events before failure", i, len(toRemove))
			return fmt.Errorf("failed to remove event %q: %w", event.Name, err)
		}
	}
	log.Printf("removed %d events from Google Calendar", len(toRemove))

	return nil
}
