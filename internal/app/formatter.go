package app

import (
	"fmt"
	"strings"

	"availability_notification_bot/internal/domain/availability"
)

// NoNamePlaceholder is rendered when an event's user is missing from the
// directory entirely.
const NoNamePlaceholder = "<no name>"

// FirstName resolves a user's first name from the directory: the substring
// before the first whitespace of the full name, or the full name when it has
// no whitespace.
func FirstName(users map[availability.UserID]availability.User, userID availability.UserID) string {
	u, ok := users[userID]
	if !ok || u.Name == "" {
		return NoNamePlaceholder
	}
	first, _, _ := strings.Cut(u.Name, " ")
	if first == "" {
		return NoNamePlaceholder
	}
	return first
}

// FormatTimeRange renders a time range as the phrase embedded in the
// notification sentence. Unrecognized raw values are surfaced with a "(raw)"
// marker instead of being dropped.
func FormatTimeRange(tr availability.TimeRange) string {
	switch tr {
	case availability.TimeRangeFullDay:
		return "for all day"
	case availability.TimeRangeMorning, availability.TimeRangeAfternoon, availability.TimeRangeEvening:
		return "at " + strings.ToLower(string(tr))
	default:
		return fmt.Sprintf("at %s (raw)", tr)
	}
}

// FormatEventMessage renders one new unavailability event as a
// channel-agnostic plain-text sentence. An unknown availability kind never
// fails; it produces a debug-labeled sentence carrying the raw kind value.
func FormatEventMessage(users map[availability.UserID]availability.User, ev availability.Event) string {
	firstName := FirstName(users, ev.UserID)
	timePhrase := FormatTimeRange(ev.UnavailableTime)
	switch ev.Availability {
	case availability.KindSickLeave:
		return fmt.Sprintf("%s will be on sick leave today %s.", firstName, timePhrase)
	case availability.KindPto:
		return fmt.Sprintf("%s will be unavailable today %s.", firstName, timePhrase)
	default:
		return fmt.Sprintf("%s will be missing today %s. (debug: %s)", firstName, timePhrase, ev.Availability)
	}
}
