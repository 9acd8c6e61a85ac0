package app

import (
	"time"

	"availability_notification_bot/internal/domain/availability"
	"availability_notification_bot/internal/domain/snapshot"
)

// ReconcileResult is the outcome of diffing a fetch against the previous
// snapshot: the upserted user directory, the full (old + new) event map, and
// the events that were not yet known, in the order the API reported them.
type ReconcileResult struct {
	Users     map[availability.UserID]availability.User
	Events    map[availability.EventKey]availability.Event
	NewEvents []availability.Event
}

// Snapshot assembles the result into the snapshot to persist at run end.
func (r ReconcileResult) Snapshot() *snapshot.Snapshot {
	return &snapshot.Snapshot{Users: r.Users, Events: r.Events}
}

// Reconcile diffs the fetched availability picture against the previous
// snapshot. It is a pure function over its inputs.
//
// Every fetched user is upserted into the directory by ID (name overwritten,
// nobody removed; users absent from the fetch stay untouched). Each user
// reported unavailable produces a new event keyed (user, calendar day in
// loc) unless the old snapshot already holds that key, which is what makes
// re-running on the same day idempotent. An event already created earlier in
// the day is never retracted, even if the user turns available again.
func Reconcile(old *snapshot.Snapshot, available, unavailable []availability.FetchedUser, now time.Time, loc *time.Location) ReconcileResult {
	users := make(map[availability.UserID]availability.User, len(old.Users)+len(available)+len(unavailable))
	for id, u := range old.Users {
		users[id] = u
	}
	events := make(map[availability.EventKey]availability.Event, len(old.Events)+len(unavailable))
	for key, ev := range old.Events {
		events[key] = ev
	}

	for _, u := range available {
		users[u.ID] = availability.User{ID: u.ID, Name: u.Name}
	}

	day := availability.ToCalendarDay(now, loc)
	var newEvents []availability.Event
	for _, u := range unavailable {
		users[u.ID] = availability.User{ID: u.ID, Name: u.Name}

		key := availability.NewEventKey(u.ID, day)
		if _, known := old.Events[key]; known {
			continue
		}
		if _, added := events[key]; added {
			// Same user reported unavailable twice in one fetch.
			continue
		}
		ev := availability.Event{
			UserID:          u.ID,
			Availability:    u.Availability,
			UnavailableTime: u.UnavailableTime,
			Day:             day,
		}
		events[key] = ev
		newEvents = append(newEvents, ev)
	}

	return ReconcileResult{Users: users, Events: events, NewEvents: newEvents}
}
