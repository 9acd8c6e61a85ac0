package availability

import "time"

// CalendarDay is a date-only value ("2006-01-02") in the notification
// timezone. Computing the day in a fixed target timezone instead of UTC is
// what keeps "one event per user per day" aligned with the team's actual day.
type CalendarDay string

// ToCalendarDay converts an instant to the calendar day it falls on in loc.
func ToCalendarDay(t time.Time, loc *time.Location) CalendarDay {
	return CalendarDay(t.In(loc).Format("2006-01-02"))
}
