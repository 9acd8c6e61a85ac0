package app

import (
	"testing"
	"time"

	"availability_notification_bot/internal/domain/availability"
	"availability_notification_bot/internal/domain/snapshot"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jakartaLocation(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Jakarta")
	require.NoError(t, err)
	return loc
}

func TestReconcileNewUnavailability(t *testing.T) {
	loc := jakartaLocation(t)
	now := time.Date(2024, 3, 10, 9, 0, 0, 0, loc)

	old := snapshot.Empty()
	unavailable := []availability.FetchedUser{{
		ID:              "alice",
		Name:            "Alice Smith",
		Availability:    availability.KindSickLeave,
		UnavailableTime: availability.TimeRangeMorning,
	}}

	result := Reconcile(old, nil, unavailable, now, loc)

	require.Len(t, result.NewEvents, 1)
	ev := result.NewEvents[0]
	assert.Equal(t, availability.UserID("alice"), ev.UserID)
	assert.Equal(t, availability.KindSickLeave, ev.Availability)
	assert.Equal(t, availability.TimeRangeMorning, ev.UnavailableTime)
	assert.Equal(t, availability.CalendarDay("2024-03-10"), ev.Day)
	assert.Equal(t, "Alice Smith", result.Users["alice"].Name)
	assert.Contains(t, result.Events, availability.NewEventKey("alice", "2024-03-10"))
}

func TestReconcileIdempotentWithinDay(t *testing.T) {
	loc := jakartaLocation(t)
	now := time.Date(2024, 3, 10, 9, 0, 0, 0, loc)

	old := snapshot.Empty()
	unavailable := []availability.FetchedUser{{
		ID: "alice", Name: "Alice Smith",
		Availability: availability.KindSickLeave, UnavailableTime: availability.TimeRangeMorning,
	}}

	first := Reconcile(old, nil, unavailable, now, loc)
	require.Len(t, first.NewEvents, 1)

	// Second run on the same day with identical input: no re-notification.
	second := Reconcile(first.Snapshot(), nil, unavailable, now.Add(time.Hour), loc)
	assert.Empty(t, second.NewEvents)

	// A new day produces a new key, so the same user is reported again.
	nextDay := Reconcile(first.Snapshot(), nil, unavailable, now.AddDate(0, 0, 1), loc)
	assert.Len(t, nextDay.NewEvents, 1)
}

func TestReconcileUpsertsUsersFromBothLists(t *testing.T) {
	loc := jakartaLocation(t)
	now := time.Date(2024, 3, 10, 9, 0, 0, 0, loc)

	old := snapshot.Empty()
	old.Users["bob"] = availability.User{ID: "bob", Name: "Bob Old-Name"}
	old.Users["gone"] = availability.User{ID: "gone", Name: "Gone Person"}

	available := []availability.FetchedUser{{ID: "bob", Name: "Bob New-Name"}}
	unavailable := []availability.FetchedUser{{
		ID: "carol", Name: "Carol Jones",
		Availability: availability.KindPto, UnavailableTime: availability.TimeRangeFullDay,
	}}

	result := Reconcile(old, available, unavailable, now, loc)

	assert.Equal(t, "Bob New-Name", result.Users["bob"].Name)
	assert.Equal(t, "Carol Jones", result.Users["carol"].Name)
	// Users absent from the fetch are left untouched, never deleted.
	assert.Equal(t, "Gone Person", result.Users["gone"].Name)
}

func TestReconcileMonotonicSnapshot(t *testing.T) {
	loc := jakartaLocation(t)
	now := time.Date(2024, 3, 11, 9, 0, 0, 0, loc)

	old := snapshot.Empty()
	old.Users["alice"] = availability.User{ID: "alice", Name: "Alice Smith"}
	oldEvent := availability.Event{
		UserID: "alice", Availability: availability.KindSickLeave,
		UnavailableTime: availability.TimeRangeMorning, Day: "2024-03-10",
	}
	old.Events[oldEvent.Key()] = oldEvent

	unavailable := []availability.FetchedUser{{
		ID: "dave", Name: "Dave Lee",
		Availability: availability.KindPto, UnavailableTime: availability.TimeRangeAfternoon,
	}}

	result := Reconcile(old, nil, unavailable, now, loc)
	persisted := result.Snapshot()

	for id, u := range old.Users {
		assert.Equal(t, u, persisted.Users[id])
	}
	for key, ev := range old.Events {
		assert.Equal(t, ev, persisted.Events[key])
	}
	assert.Len(t, persisted.Events, 2)
}

func TestReconcileDuplicateUserInFetch(t *testing.T) {
	loc := jakartaLocation(t)
	now := time.Date(2024, 3, 10, 9, 0, 0, 0, loc)

	unavailable := []availability.FetchedUser{
		{ID: "alice", Name: "Alice Smith", Availability: availability.KindSickLeave, UnavailableTime: availability.TimeRangeMorning},
		{ID: "alice", Name: "Alice Smith", Availability: availability.KindSickLeave, UnavailableTime: availability.TimeRangeMorning},
	}

	result := Reconcile(snapshot.Empty(), nil, unavailable, now, loc)
	assert.Len(t, result.NewEvents, 1)
}

func TestReconcilePreservesInputOrder(t *testing.T) {
	loc := jakartaLocation(t)
	now := time.Date(2024, 3, 10, 9, 0, 0, 0, loc)

	unavailable := []availability.FetchedUser{
		{ID: "u3", Name: "Three", Availability: availability.KindPto, UnavailableTime: availability.TimeRangeFullDay},
		{ID: "u1", Name: "One", Availability: availability.KindPto, UnavailableTime: availability.TimeRangeFullDay},
		{ID: "u2", Name: "Two", Availability: availability.KindPto, UnavailableTime: availability.TimeRangeFullDay},
	}

	result := Reconcile(snapshot.Empty(), nil, unavailable, now, loc)
	require.Len(t, result.NewEvents, 3)
	assert.Equal(t, availability.UserID("u3"), result.NewEvents[0].UserID)
	assert.Equal(t, availability.UserID("u1"), result.NewEvents[1].UserID)
	assert.Equal(t, availability.UserID("u2"), result.NewEvents[2].UserID)
}
