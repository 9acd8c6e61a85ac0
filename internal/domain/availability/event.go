package availability

import "strings"

// EventKeySeparator joins the user ID and calendar day into an event key.
// It matches the key shape of the persisted snapshot file.
const EventKeySeparator = "|"

// EventKey is the composite identity of an unavailability event:
// "<userID>|<calendarDay>". At most one event exists per user per day.
type EventKey string

// NewEventKey builds the composite key for a user on a calendar day.
func NewEventKey(userID UserID, day CalendarDay) EventKey {
	return EventKey(string(userID) + EventKeySeparator + string(day))
}

// Parts splits the key back into user ID and calendar day. ok is false when
// the key does not contain a separator (a malformed persisted key).
func (k EventKey) Parts() (UserID, CalendarDay, bool) {
	userID, day, found := strings.Cut(string(k), EventKeySeparator)
	if !found || userID == "" {
		return "", "", false
	}
	return UserID(userID), CalendarDay(day), true
}

// Event records that a user was reported unavailable on a calendar day.
// Events are immutable once created and are never updated or removed by the
// pipeline; a new day yields a new key.
type Event struct {
	UserID          UserID
	Availability    Kind
	UnavailableTime TimeRange
	Day             CalendarDay
}

// Key returns the event's composite identity.
func (e Event) Key() EventKey {
	return NewEventKey(e.UserID, e.Day)
}
