package main

import (
	"context"
	"fmt"
	"testing"
	"time"
)

// mockSourceCalendar is a mock implementation of SourceCalendar for testing.
type mockSourceCalendar struct {
	events   []Event
	err      error
	gotStart time.Time
	gotEnd   time.Time
}

func (m *mockSourceCalendar) GetEvents(start, end time.Time) ([]Event, error) {
	m.gotStart = start
	m.gotEnd = end
	if m.err != nil {
		return nil, m.err
	}
	return m.events, nil
}

// mockDestCalendar is a mock implementation of DestinationCalendar for testing.
type mockDestCalendar struct {
	events       []Event
	added        []Event
	removedIDs   []string
	fetchErr     error
	failAddAt    int // fail the n-th AddEvent call (0-based); -1 disables
	failRemoveAt int
}

func newMockDestCalendar(events []Event) *mockDestCalendar {
	return &mockDestCalendar{events: events, failAddAt: -1, failRemoveAt: -1}
}

func (m *mockDestCalendar) GetEvents(start, end time.Time) ([]Event, error) {
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	return m.events, nil
}

func (m *mockDestCalendar) AddEvent(event Event) error {
	if m.failAddAt == len(m.added) {
		return fmt.Errorf("insert failed")
	}
	m.added = append(m.added, event)
	return nil
}

func (m *mockDestCalendar) RemoveEvent(event Event) error {
	if event.EventID == "" {
		return nil
	}
	if m.failRemoveAt == len(m.removedIDs) {
		return fmt.Errorf("delete failed")
	}
	m.removedIDs = append(m.removedIDs, event.EventID)
	return nil
}

func newTestSyncer(source SourceCalendar, dest DestinationCalendar, backDays, aheadDays int) *Syncer {
	syncer := NewSyncer(source, dest, &Config{BackDays: backDays, AheadDays: aheadDays}, time.UTC)
	syncer.now = func() time.Time {
		return time.Date(2024, 1, 15, 13, 45, 0, 0, time.UTC)
	}
	return syncer
}

func TestSyncer_Window(t *testing.T) {
	source := &mockSourceCalendar{}
	dest := newMockDestCalendar(nil)
	syncer := newTestSyncer(source, dest, 7, 30)

	if err := syncer.Run(context.Background()); err != nil {
		t.Fatalf("Run() returned an error: %v", err)
	}

	wantStart := time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)
	if !source.gotStart.Equal(wantStart) {
		t.Errorf("Expected window start %v, got %v", wantStart, source.gotStart)
	}

	// ahead-days plus one extra day so the last day is fully covered.
	wantEnd := time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC)
	if !source.gotEnd.Equal(wantEnd) {
		t.Errorf("Expected window end %v, got %v", wantEnd, source.gotEnd)
	}
}

func TestSyncer_FullRun(t *testing.T) {
	start := time.Date(2024, 1, 16, 9, 0, 0, 0, time.UTC)
	source := &mockSourceCalendar{events: []Event{
		NewEvent("Meeting", "Room1", start, start.Add(time.Hour), ""),
		NewEvent("Review", "Room2", start.Add(24*time.Hour), start.Add(25*time.Hour), ""),
	}}
	dest := newMockDestCalendar([]Event{
		NewDestinationEvent("Review (Outlook)", "Room2", start.Add(24*time.Hour), start.Add(25*time.Hour), "", "g1"),
		NewDestinationEvent("Cancelled Standup (Outlook)", "", start, start.Add(time.Minute*15), "", "g2"),
		NewDestinationEvent("Dentist", "", start, start.Add(time.Hour), "", "g3"),
	})
	syncer := newTestSyncer(source, dest, 7, 30)

	if err := syncer.Run(context.Background()); err != nil {
		t.Fatalf("Run() returned an error: %v", err)
	}

	if len(dest.added) != 1 {
		t.Fatalf("Expected 1 event added, got %d", len(dest.added))
	}
	if dest.added[0].Name != "Meeting (Outlook)" {
		t.Errorf("Expected 'Meeting (Outlook)' to be added, got '%s'", dest.added[0].Name)
	}

	if len(dest.removedIDs) != 1 {
		t.Fatalf("Expected 1 event removed, got %d", len(dest.removedIDs))
	}
	if dest.removedIDs[0] != "g2" {
		t.Errorf("Expected 'g2' to be removed, got '%s'", dest.removedIDs[0])
	}
}

func TestSyncer_SourceFetchFailureAbortsBeforeWrites(t *testing.T) {
	source := &mockSourceCalendar{err: fmt.Errorf("store unavailable")}
	dest := newMockDestCalendar([]Event{
		NewDestinationEvent("Stale (Outlook)", "", time.Date(2024, 1, 16, 9, 0, 0, 0, time.UTC), time.Date(2024, 1, 16, 10, 0, 0, 0, time.UTC), "", "g1"),
	})
	syncer := newTestSyncer(source, dest, 7, 30)

	if err := syncer.Run(context.Background()); err == nil {
		t.Fatal("Expected Run() to fail when the source fetch fails")
	}

	if len(dest.added) != 0 || len(dest.removedIDs) != 0 {
		t.Error("Expected no writes after a fetch failure")
	}
}

func TestSyncer_DestFetchFailureAbortsBeforeWrites(t *testing.T) {
	start := time.Date(2024, 1, 16, 9, 0, 0, 0, time.UTC)
	source := &mockSourceCalendar{events: []Event{
		NewEvent("Meeting", "", start, start.Add(time.Hour), ""),
	}}
	dest := newMockDestCalendar(nil)
	dest.fetchErr = fmt.Errorf("network unreachable")
	syncer := newTestSyncer(source, dest, 7, 30)

	if err := syncer.Run(context.Background()); err == nil {
		t.Fatal("Expected Run() to fail when the destination fetch fails")
	}

	if len(dest.added) != 0 {
		t.Error("Expected no additions after a fetch failure")
	}
}

func TestSyncer_AddFailureAbortsBatch(t *testing.T) {
	start := time.Date(2024, 1, 16, 9, 0, 0, 0, time.UTC)
	source := &mockSourceCalendar{events: []Event{
		NewEvent("First", "", start, start.Add(time.Hour), ""),
		NewEvent("Second", "", start.Add(2*time.Hour), start.Add(3*time.Hour), ""),
		NewEvent("Third", "", start.Add(4*time.Hour), start.Add(5*time.Hour), ""),
	}}
	dest := newMockDestCalendar([]Event{
		NewDestinationEvent("Stale (Outlook)", "", start, start.Add(time.Hour), "old", "g1"),
	})
	dest.failAddAt = 1
	syncer := newTestSyncer(source, dest, 7, 30)

	if err := syncer.Run(context.Background()); err == nil {
		t.Fatal("Expected Run() to fail when an insert fails")
	}

	if len(dest.added) != 1 {
		t.Errorf("Expected the batch to stop after 1 successful addition, got %d", len(dest.added))
	}

	// Removals never start once the addition batch aborts.
	if len(dest.removedIDs) != 0 {
		t.Errorf("Expected no removals after an aborted addition batch, got %d", len(dest.removedIDs))
	}
}

func TestSyncer_RemoveFailureAbortsBatch(t *testing.T) {
	start := time.Date(2024, 1, 16, 9, 0, 0, 0, time.UTC)
	dest := newMockDestCalendar([]Event{
		NewDestinationEvent("One (Outlook)", "", start, start.Add(time.Hour), "", "g1"),
		NewDestinationEvent("Two (Outlook)", "", start.Add(2*time.Hour), start.Add(3*time.Hour), "", "g2"),
		NewDestinationEvent("Three (Outlook)", "", start.Add(4*time.Hour), start.Add(5*time.Hour), "", "g3"),
	})
	dest.failRemoveAt = 2
	syncer := newTestSyncer(&mockSourceCalendar{}, dest, 7, 30)

	if err := syncer.Run(context.Background()); err == nil {
		t.Fatal("Expected Run() to fail when a delete fails")
	}

	if len(dest.removedIDs) != 2 {
		t.Errorf("Expected the batch to stop after 2 successful removals, got %d", len(dest.removedIDs))
	}
}
